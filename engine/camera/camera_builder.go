package camera

type CameraBuilderOption func(*cameraImpl)

// WithFov sets the camera's field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
		c.updateMatrices()
	}
}

// WithAspect sets the camera's aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
		c.updateMatrices()
	}
}

// WithNear sets the near clipping plane distance.
//
// Parameters:
//   - near: near plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the near plane
func WithNear(near float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
		c.updateMatrices()
	}
}

// WithFar sets the far clipping plane distance.
//
// Parameters:
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: functional option to set the far plane
func WithFar(far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.far = far
		c.updateMatrices()
	}
}

// WithModelMatrix sets the camera's world transform.
//
// Parameters:
//   - m: the model matrix (column-major)
//
// Returns:
//   - CameraBuilderOption: functional option to set the model matrix
func WithModelMatrix(m [16]float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.modelMatrix = m
		c.updateMatrices()
	}
}

// WithCullingProjection overrides the projection matrix used for visibility
// culling.
//
// Parameters:
//   - proj: the culling projection matrix (column-major)
//
// Returns:
//   - CameraBuilderOption: functional option to set the culling projection
func WithCullingProjection(proj [16]float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.cullingProjection = proj
		c.hasCullingProjection = true
	}
}

// WithExposure sets the camera's physical exposure parameters.
//
// Parameters:
//   - aperture: lens aperture in f-stops
//   - shutterSpeed: shutter speed in seconds
//   - sensitivity: sensor sensitivity in ISO
//
// Returns:
//   - CameraBuilderOption: functional option to set the exposure settings
func WithExposure(aperture, shutterSpeed, sensitivity float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aperture = aperture
		c.shutterSpeed = shutterSpeed
		c.sensitivity = sensitivity
	}
}
