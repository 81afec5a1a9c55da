package camera

import (
	"sync"

	"github.com/Carmen-Shannon/vista-go/common"
	"github.com/chewxy/math32"
)

type cameraImpl struct {
	mu *sync.Mutex

	fov    float32
	aspect float32
	near   float32
	far    float32

	aperture     float32
	shutterSpeed float32
	sensitivity  float32

	hasCullingProjection bool
	cullingProjection    [16]float32

	modelMatrix             [16]float32
	viewMatrix              [16]float32
	projectionMatrix        [16]float32
	viewProjectionMatrix    [16]float32
	inverseProjectionMatrix [16]float32
}

// Camera defines the interface for the camera system.
// The camera holds perspective and physical exposure settings plus a model
// matrix (its world transform); view and projection matrices are recomputed
// whenever one of the inputs changes. A view uses one camera for culling and
// may use a second one for debug observation of the culling results.
type Camera interface {
	// Fov returns the field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance, which is also the culling
	// far distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// Position returns the camera's world-space position, taken from the
	// model matrix translation.
	//
	// Returns:
	//   - [3]float32: position as (x, y, z)
	Position() [3]float32

	// ModelMatrix returns the camera's world transform as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the model matrix
	ModelMatrix() [16]float32

	// ViewMatrix returns the current 4x4 view matrix (inverse of the model
	// matrix) as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current 4x4 projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// CullingProjectionMatrix returns the projection used for visibility
	// culling. By default this is the rendering projection; a custom culling
	// projection can be set for debugging (e.g. freezing the culling volume
	// while flying the render camera around).
	//
	// Returns:
	//   - [16]float32: the culling projection matrix
	CullingProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns the current combined view-projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the combined view-projection matrix
	ViewProjectionMatrix() [16]float32

	// InverseProjectionMatrix returns the inverse of the current projection
	// matrix as 16 floats (column-major). Used by the froxel assignment
	// pass to reconstruct view-space positions from screen coordinates.
	//
	// Returns:
	//   - [16]float32: the inverse projection matrix
	InverseProjectionMatrix() [16]float32

	// Aperture returns the lens aperture in f-stops.
	//
	// Returns:
	//   - float32: the aperture value
	Aperture() float32

	// ShutterSpeed returns the shutter speed in seconds.
	//
	// Returns:
	//   - float32: the shutter speed
	ShutterSpeed() float32

	// Sensitivity returns the sensor sensitivity in ISO.
	//
	// Returns:
	//   - float32: the sensitivity
	Sensitivity() float32

	// EV100 returns the exposure value at ISO 100 for the current aperture,
	// shutter speed, and sensitivity: log2(N²/t · 100/S).
	//
	// Returns:
	//   - float32: the exposure value
	EV100() float32

	// Exposure returns the photometric exposure multiplier derived from
	// EV100, applied to light intensities before GPU upload.
	//
	// Returns:
	//   - float32: 1 / (1.2 · 2^ev100)
	Exposure() float32

	// LookAt positions and orients the camera so it looks from eye toward
	// center with the given up vector, replacing the model matrix.
	//
	// Parameters:
	//   - eyeX, eyeY, eyeZ: camera position in world space
	//   - centerX, centerY, centerZ: target point the camera looks at
	//   - upX, upY, upZ: up vector defining camera orientation (typically 0,1,0)
	LookAt(eyeX, eyeY, eyeZ, centerX, centerY, centerZ, upX, upY, upZ float32)

	// SetModelMatrix replaces the camera's world transform.
	//
	// Parameters:
	//   - m: the model matrix (column-major)
	SetModelMatrix(m [16]float32)

	// SetFov sets the field of view in radians and recomputes matrices.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// SetAspect sets the aspect ratio (width / height) and recomputes matrices.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetNear sets the near clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - near: near plane distance
	SetNear(near float32)

	// SetFar sets the far clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - far: far plane distance
	SetFar(far float32)

	// SetCullingProjection overrides the projection used for visibility
	// culling without affecting the rendering projection.
	//
	// Parameters:
	//   - proj: the culling projection matrix (column-major)
	SetCullingProjection(proj [16]float32)

	// SetExposure sets the physical exposure parameters.
	//
	// Parameters:
	//   - aperture: lens aperture in f-stops
	//   - shutterSpeed: shutter speed in seconds
	//   - sensitivity: sensor sensitivity in ISO
	SetExposure(aperture, shutterSpeed, sensitivity float32)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with default perspective settings (45° fov,
// square aspect, 0.1/100 clip planes, f/16 1/125s ISO 100 exposure) and the
// model matrix at the origin.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:           &sync.Mutex{},
		fov:          45.0 * (math32.Pi / 180.0), // radians
		aspect:       1.0,
		near:         0.1,
		far:          100.0,
		aperture:     16.0,
		shutterSpeed: 1.0 / 125.0,
		sensitivity:  100.0,
		modelMatrix:  [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1},
	}
	c.updateMatrices()
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) Position() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return [3]float32{c.modelMatrix[12], c.modelMatrix[13], c.modelMatrix[14]}
}

func (c *cameraImpl) ModelMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modelMatrix
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) CullingProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hasCullingProjection {
		return c.cullingProjection
	}
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) InverseProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inverseProjectionMatrix
}

func (c *cameraImpl) Aperture() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aperture
}

func (c *cameraImpl) ShutterSpeed() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shutterSpeed
}

func (c *cameraImpl) Sensitivity() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sensitivity
}

func (c *cameraImpl) EV100() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ev100(c.aperture, c.shutterSpeed, c.sensitivity)
}

func (c *cameraImpl) Exposure() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return exposureFromEV100(ev100(c.aperture, c.shutterSpeed, c.sensitivity))
}

func (c *cameraImpl) LookAt(eyeX, eyeY, eyeZ, centerX, centerY, centerZ, upX, upY, upZ float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var view [16]float32
	common.LookAt(view[:], eyeX, eyeY, eyeZ, centerX, centerY, centerZ, upX, upY, upZ)
	common.Invert4(c.modelMatrix[:], view[:])
	c.updateMatrices()
}

func (c *cameraImpl) SetModelMatrix(m [16]float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modelMatrix = m
	c.updateMatrices()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.updateMatrices()
}

func (c *cameraImpl) SetFar(far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.far = far
	c.updateMatrices()
}

func (c *cameraImpl) SetCullingProjection(proj [16]float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cullingProjection = proj
	c.hasCullingProjection = true
}

func (c *cameraImpl) SetExposure(aperture, shutterSpeed, sensitivity float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aperture = aperture
	c.shutterSpeed = shutterSpeed
	c.sensitivity = sensitivity
}

// updateMatrices recalculates the view, projection, view-projection, and
// inverse projection matrices from the model matrix and perspective settings.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	if !common.Invert4(c.viewMatrix[:], c.modelMatrix[:]) {
		panic("camera: model matrix is singular")
	}

	common.Perspective(c.projectionMatrix[:],
		c.fov, c.aspect, c.near, c.far,
	)

	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
	common.Invert4(c.inverseProjectionMatrix[:], c.projectionMatrix[:])
}

// ev100 computes the exposure value at ISO 100: log2(N²/t · 100/S).
func ev100(aperture, shutterSpeed, sensitivity float32) float32 {
	return math32.Log2((aperture * aperture / shutterSpeed) * (100.0 / sensitivity))
}

// exposureFromEV100 converts an exposure value into the photometric exposure
// multiplier applied to light intensities.
func exposureFromEV100(ev float32) float32 {
	return 1.0 / (1.2 * math32.Exp2(ev))
}
