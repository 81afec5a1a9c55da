package scene

// IndirectLightBuilderOption is a functional option for configuring an
// IndirectLight. Use the With* functions to create options.
type IndirectLightBuilderOption func(*indirectLightImpl)

// WithRotation sets the environment rotation.
//
// Parameters:
//   - m: the rotation matrix (column-major, pure rotation in the upper 3x3)
//
// Returns:
//   - IndirectLightBuilderOption: option function to apply
func WithRotation(m [16]float32) IndirectLightBuilderOption {
	return func(il *indirectLightImpl) {
		il.rotation = m
	}
}

// WithIrradiance sets the average environment irradiance color.
//
// Parameters:
//   - r, g, b: linear RGB irradiance
//
// Returns:
//   - IndirectLightBuilderOption: option function to apply
func WithIrradiance(r, g, b float32) IndirectLightBuilderOption {
	return func(il *indirectLightImpl) {
		il.irradiance = [3]float32{r, g, b}
	}
}

// WithIndirectIntensity sets the environment intensity in lux.
//
// Parameters:
//   - intensity: the intensity
//
// Returns:
//   - IndirectLightBuilderOption: option function to apply
func WithIndirectIntensity(intensity float32) IndirectLightBuilderOption {
	return func(il *indirectLightImpl) {
		il.intensity = intensity
	}
}
