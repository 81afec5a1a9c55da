package scene

// SkyboxBuilderOption is a functional option for configuring a Skybox.
// Use the With* functions to create options.
type SkyboxBuilderOption func(*skyboxImpl)

// WithColor sets the skybox background color.
//
// Parameters:
//   - r, g, b, a: linear RGBA color components
//
// Returns:
//   - SkyboxBuilderOption: option function to apply
func WithColor(r, g, b, a float32) SkyboxBuilderOption {
	return func(s *skyboxImpl) {
		s.color = [4]float32{r, g, b, a}
	}
}

// WithSkyboxIntensity sets the skybox intensity in nits.
//
// Parameters:
//   - intensity: the intensity
//
// Returns:
//   - SkyboxBuilderOption: option function to apply
func WithSkyboxIntensity(intensity float32) SkyboxBuilderOption {
	return func(s *skyboxImpl) {
		s.intensity = intensity
	}
}

// WithSkyboxLayerMask sets the full bitmask of layers the skybox renders on.
//
// Parameters:
//   - layers: the layer bitmask
//
// Returns:
//   - SkyboxBuilderOption: option function to apply
func WithSkyboxLayerMask(layers uint8) SkyboxBuilderOption {
	return func(s *skyboxImpl) {
		s.layers = layers
	}
}
