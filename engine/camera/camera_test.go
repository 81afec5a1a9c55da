package camera

import (
	"testing"

	"github.com/Carmen-Shannon/vista-go/common"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()

	assert.InDelta(t, 45.0*(math32.Pi/180.0), c.Fov(), 1e-6)
	assert.Equal(t, float32(1.0), c.Aspect())
	assert.Equal(t, float32(0.1), c.Near())
	assert.Equal(t, float32(100.0), c.Far())
	assert.Equal(t, [3]float32{0, 0, 0}, c.Position())

	// Default exposure is f/16, 1/125s, ISO 100.
	assert.Equal(t, float32(16.0), c.Aperture())
	assert.InDelta(t, 1.0/125.0, c.ShutterSpeed(), 1e-9)
	assert.Equal(t, float32(100.0), c.Sensitivity())
}

func TestCameraEV100AndExposure(t *testing.T) {
	c := NewCamera()

	// EV100 = log2(16² · 125 · 100/100) = log2(32000).
	want := math32.Log2(32000.0)
	assert.InDelta(t, want, c.EV100(), 1e-5)
	assert.InDelta(t, 1.0/(1.2*math32.Exp2(want)), c.Exposure(), 1e-12)

	// A brighter exposure (wider aperture, slower shutter) lowers EV100 and
	// raises the exposure multiplier.
	c.SetExposure(1.4, 1.0/60.0, 100.0)
	assert.Less(t, c.EV100(), want)
	assert.Greater(t, c.Exposure(), 1.0/(1.2*math32.Exp2(want)))
}

func TestCameraLookAtSetsModelAndView(t *testing.T) {
	c := NewCamera()
	c.LookAt(0, 0, 5, 0, 0, 0, 0, 1, 0)

	pos := c.Position()
	assert.InDelta(t, 0.0, pos[0], 1e-5)
	assert.InDelta(t, 0.0, pos[1], 1e-5)
	assert.InDelta(t, 5.0, pos[2], 1e-5)

	// The view matrix must map the eye position to the origin.
	view := c.ViewMatrix()
	eye := common.TransformPoint(view[:], [3]float32{0, 0, 5})
	assert.InDelta(t, 0.0, eye[0], 1e-5)
	assert.InDelta(t, 0.0, eye[1], 1e-5)
	assert.InDelta(t, 0.0, eye[2], 1e-5)

	// And a point in front of the camera to the -Z axis in view space.
	front := common.TransformPoint(view[:], [3]float32{0, 0, 0})
	assert.InDelta(t, -5.0, front[2], 1e-5)
}

func TestCameraCullingProjectionDefaultsToProjection(t *testing.T) {
	c := NewCamera(WithFov(1.2), WithAspect(16.0/9.0))
	assert.Equal(t, c.ProjectionMatrix(), c.CullingProjectionMatrix())

	var custom [16]float32
	common.Perspective(custom[:], 1.2, 16.0/9.0, 0.1, 10.0)
	c.SetCullingProjection(custom)

	assert.Equal(t, custom, c.CullingProjectionMatrix())
	assert.NotEqual(t, custom, c.ProjectionMatrix())
}

func TestCameraViewIsInverseOfModel(t *testing.T) {
	c := NewCamera()
	c.LookAt(3, 4, 5, 0, 1, 0, 0, 1, 0)

	model := c.ModelMatrix()
	view := c.ViewMatrix()
	var product [16]float32
	common.Mul4(product[:], model[:], view[:])

	var identity [16]float32
	common.Identity(identity[:])
	for i := range product {
		assert.InDelta(t, identity[i], product[i], 1e-4)
	}
}

func TestNewInfoAppliesWorldOrigin(t *testing.T) {
	c := NewCamera()
	c.LookAt(0, 0, 5, 0, 0, 0, 0, 1, 0)

	// A world-origin transform that shifts the world by (10, 0, 0).
	var origin [16]float32
	common.Identity(origin[:])
	origin[12] = 10

	info := NewInfo(c, origin)

	// WorldOffset is the raw camera position, Position folds in the origin.
	assert.Equal(t, [3]float32{0, 0, 5}, info.WorldOffset)
	pos := info.Position()
	assert.InDelta(t, 10.0, pos[0], 1e-5)
	assert.InDelta(t, 5.0, pos[2], 1e-5)

	// View stays the inverse of the shifted model.
	var product [16]float32
	common.Mul4(product[:], info.Model[:], info.View[:])
	var identity [16]float32
	common.Identity(identity[:])
	for i := range product {
		assert.InDelta(t, identity[i], product[i], 1e-4)
	}

	require.Equal(t, c.Near(), info.Zn)
	require.Equal(t, c.Far(), info.Zf)
	assert.InDelta(t, c.Exposure(), info.Exposure(), 1e-12)
}

func TestCameraPanicsOnSingularModelMatrix(t *testing.T) {
	c := NewCamera()
	assert.Panics(t, func() {
		c.SetModelMatrix([16]float32{}) // all zeros, not invertible
	})
}
