package scene

import (
	"fmt"
	"sync"
)

type renderableImpl struct {
	mu sync.RWMutex

	transform  [16]float32
	aabbCenter [3]float32
	aabbExtent [3]float32

	layers         uint8
	castShadows    bool
	receiveShadows bool
	culling        bool
	lodCount       uint8
}

// Renderable defines the interface for an object the scene can submit for
// rendering: a world transform, a local-space bounding box, a layer
// assignment, and the shadow and culling state consulted during visibility
// classification. Renderables are registered with a Scene via AddRenderable
// and flattened into the per-frame structure-of-arrays by Scene.Prepare.
type Renderable interface {
	// Transform returns the local-to-world matrix (column-major).
	//
	// Returns:
	//   - [16]float32: the transform matrix
	Transform() [16]float32

	// BoundingBox returns the local-space axis-aligned bounding box as a
	// center point and per-axis half-extents.
	//
	// Returns:
	//   - center: the box center
	//   - extent: the half-extent per axis
	BoundingBox() (center, extent [3]float32)

	// LayerMask returns the bitmask of layers the renderable belongs to. A
	// renderable is only drawn by views whose visible-layer mask overlaps
	// its layer mask; membership in several layers is allowed.
	//
	// Returns:
	//   - uint8: the layer bitmask
	LayerMask() uint8

	// CastsShadows returns whether the renderable casts shadows.
	//
	// Returns:
	//   - bool: true if the renderable is a shadow caster
	CastsShadows() bool

	// ReceivesShadows returns whether the renderable receives shadows.
	//
	// Returns:
	//   - bool: true if the renderable is a shadow receiver
	ReceivesShadows() bool

	// CullingEnabled returns whether frustum culling applies to the
	// renderable. When false it is treated as always inside the frustum.
	//
	// Returns:
	//   - bool: true if culling is enabled
	CullingEnabled() bool

	// LodCount returns the number of detail levels available.
	//
	// Returns:
	//   - uint8: the level count (at least 1)
	LodCount() uint8

	// SetTransform replaces the local-to-world matrix.
	//
	// Parameters:
	//   - m: the transform matrix (column-major)
	SetTransform(m [16]float32)

	// SetBoundingBox replaces the local-space bounding box.
	//
	// Parameters:
	//   - center: the box center
	//   - extent: the half-extent per axis
	SetBoundingBox(center, extent [3]float32)

	// SetLayerMask updates the selected bits of the layer bitmask to the
	// given values, leaving unselected bits unchanged. Panics if values has
	// a bit set outside the selection.
	//
	// Parameters:
	//   - selectBits: which bits of the mask to modify
	//   - values: the new state of the selected bits
	SetLayerMask(selectBits, values uint8)

	// SetCastShadows sets whether the renderable casts shadows.
	//
	// Parameters:
	//   - casts: true to cast shadows
	SetCastShadows(casts bool)

	// SetReceiveShadows sets whether the renderable receives shadows.
	//
	// Parameters:
	//   - receives: true to receive shadows
	SetReceiveShadows(receives bool)

	// SetCulling sets whether frustum culling applies to the renderable.
	//
	// Parameters:
	//   - enabled: true to enable culling
	SetCulling(enabled bool)

	// SetLodCount sets the number of detail levels available. Values below 1
	// are clamped to 1.
	//
	// Parameters:
	//   - count: the level count
	SetLodCount(count uint8)
}

var _ Renderable = &renderableImpl{}

// NewRenderable creates a new Renderable with an identity transform, a unit
// half-extent box at the origin, layer mask 0x1, shadows off, and culling
// enabled.
//
// Parameters:
//   - options: functional options to configure the renderable
//
// Returns:
//   - Renderable: the newly created renderable
func NewRenderable(options ...RenderableBuilderOption) Renderable {
	r := &renderableImpl{
		transform:  [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1},
		aabbExtent: [3]float32{1, 1, 1},
		layers:     0x1,
		culling:    true,
		lodCount:   1,
	}
	for _, option := range options {
		option(r)
	}
	return r
}

func (r *renderableImpl) Transform() [16]float32 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.transform
}

func (r *renderableImpl) BoundingBox() (center, extent [3]float32) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.aabbCenter, r.aabbExtent
}

func (r *renderableImpl) LayerMask() uint8 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.layers
}

func (r *renderableImpl) CastsShadows() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.castShadows
}

func (r *renderableImpl) ReceivesShadows() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.receiveShadows
}

func (r *renderableImpl) CullingEnabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.culling
}

func (r *renderableImpl) LodCount() uint8 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lodCount
}

func (r *renderableImpl) SetTransform(m [16]float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transform = m
}

func (r *renderableImpl) SetBoundingBox(center, extent [3]float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aabbCenter = center
	r.aabbExtent = extent
}

func (r *renderableImpl) SetLayerMask(selectBits, values uint8) {
	if values&^selectBits != 0 {
		panic(fmt.Sprintf("scene: layer values 0x%02x outside selection 0x%02x", values, selectBits))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layers = (r.layers &^ selectBits) | (values & selectBits)
}

func (r *renderableImpl) SetCastShadows(casts bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.castShadows = casts
}

func (r *renderableImpl) SetReceiveShadows(receives bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.receiveShadows = receives
}

func (r *renderableImpl) SetCulling(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.culling = enabled
}

func (r *renderableImpl) SetLodCount(count uint8) {
	if count < 1 {
		count = 1
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lodCount = count
}

// flagsOf packs a renderable's shadow and culling state into the bitfield
// consumed by the flatten pass.
func flagsOf(r Renderable) VisibilityFlags {
	var f VisibilityFlags
	if r.CastsShadows() {
		f |= FlagCastShadows
	}
	if r.ReceivesShadows() {
		f |= FlagReceiveShadows
	}
	if r.CullingEnabled() {
		f |= FlagCullingEnabled
	}
	return f
}
