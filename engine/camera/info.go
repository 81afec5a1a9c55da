package camera

import (
	"github.com/Carmen-Shannon/vista-go/common"
)

// Info is an immutable snapshot of a camera's matrices and exposure taken at
// the start of frame preparation, after the world-origin transform has been
// applied. Per-frame work (culling, light preparation, uniform commits) reads
// from the snapshot so concurrent camera mutation cannot tear a frame.
type Info struct {
	// Projection is the rendering projection matrix.
	Projection [16]float32
	// CullingProjection is the projection used to build the culling frustum.
	CullingProjection [16]float32
	// Model is the camera's world transform with the world-origin transform
	// applied: worldOrigin · camera model.
	Model [16]float32
	// View is the inverse of Model.
	View [16]float32
	// Zn and Zf are the near and far clipping plane distances.
	Zn float32
	Zf float32
	// Ev100 is the exposure value at ISO 100.
	Ev100 float32
	// WorldOffset is the camera position in world space, before the
	// world-origin transform.
	WorldOffset [3]float32
	// WorldOrigin is the transform applied to the whole world for rendering.
	WorldOrigin [16]float32
}

// NewInfo captures a snapshot of the given camera with the world-origin
// transform folded into the model and view matrices.
//
// Parameters:
//   - c: the camera to snapshot
//   - worldOrigin: the world-origin transform (column-major)
//
// Returns:
//   - Info: the snapshot
func NewInfo(c Camera, worldOrigin [16]float32) Info {
	info := Info{
		Projection:        c.ProjectionMatrix(),
		CullingProjection: c.CullingProjectionMatrix(),
		Zn:                c.Near(),
		Zf:                c.Far(),
		Ev100:             c.EV100(),
		WorldOffset:       c.Position(),
		WorldOrigin:       worldOrigin,
	}
	model := c.ModelMatrix()
	common.Mul4(info.Model[:], worldOrigin[:], model[:])
	if !common.Invert4(info.View[:], info.Model[:]) {
		panic("camera: model matrix is singular")
	}
	return info
}

// Exposure returns the photometric exposure multiplier for the snapshot.
//
// Returns:
//   - float32: 1 / (1.2 · 2^ev100)
func (i Info) Exposure() float32 {
	return exposureFromEV100(i.Ev100)
}

// Position returns the camera position with the world-origin transform
// applied, i.e. the translation of the snapshot's model matrix.
//
// Returns:
//   - [3]float32: position as (x, y, z)
func (i Info) Position() [3]float32 {
	return [3]float32{i.Model[12], i.Model[13], i.Model[14]}
}
