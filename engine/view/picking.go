package view

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// PickingQueryResult carries the outcome of a completed picking query.
type PickingQueryResult struct {
	// ObjectID is the identifier of the renderable under the query position,
	// or 0 when nothing was hit.
	ObjectID uint32
	// Depth is the normalized depth of the picked fragment.
	Depth float32
}

// PickingCallback receives the result of an asynchronous picking query. err
// is non-nil when the query could not be completed, in which case the result
// is the zero value.
type PickingCallback func(result PickingQueryResult, err error)

type pickingQuery struct {
	x, y     uint32
	callback PickingCallback
}

func (v *viewImpl) Pick(x, y uint32, callback PickingCallback) {
	if callback == nil {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pickingQueries = append(v.pickingQueries, pickingQuery{x: x, y: y, callback: callback})
}

func (v *viewImpl) SetPickingSource(tex *wgpu.Texture) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pickingSource = tex
}

func (v *viewImpl) ProcessPickingQueries() {
	v.mu.Lock()
	queries := v.pickingQueries
	v.pickingQueries = nil
	source := v.pickingSource
	drv := v.driver
	scale := v.scale
	v.mu.Unlock()

	if len(queries) == 0 {
		return
	}
	if drv == nil || source == nil {
		err := fmt.Errorf("view: no picking source attached")
		for _, q := range queries {
			q.callback(PickingQueryResult{}, err)
		}
		return
	}

	for _, q := range queries {
		// The picking source was rendered at the controller's full-precision
		// scale, so query positions map through it.
		x := uint32(float32(q.x) * scale[0])
		y := uint32(float32(q.y) * scale[1])
		callback := q.callback
		err := drv.ReadPixels(source, x, y, 1, 1, func(data []byte, bytesPerRow uint32, err error) {
			if err != nil {
				callback(PickingQueryResult{}, err)
				return
			}
			if len(data) < 4 {
				callback(PickingQueryResult{}, fmt.Errorf("view: picking readback returned %d bytes", len(data)))
				return
			}
			// The picking pass encodes the renderable id across the RGB
			// channels, low byte first, and depth in alpha.
			id := uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16
			callback(PickingQueryResult{
				ObjectID: id,
				Depth:    float32(data[3]) / 255.0,
			}, nil)
		})
		if err != nil {
			callback(PickingQueryResult{}, err)
		}
	}
}
