package driver

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// driverConfig collects pre-creation settings from builder options before the
// backend requests a GPU adapter.
type driverConfig struct {
	forceFallbackAdapter bool
	sampleCount          MSAASampleCount
	clearColor           wgpu.Color
	presentMode          *PresentMode
}

type DriverBuilderOption func(*driverConfig)

// WithForceFallbackAdapter forces the driver to select a software fallback
// adapter instead of a hardware GPU. Useful for headless environments and CI.
//
// Returns:
//   - DriverBuilderOption: functional option to force the fallback adapter
func WithForceFallbackAdapter() DriverBuilderOption {
	return func(c *driverConfig) {
		c.forceFallbackAdapter = true
	}
}

// WithMSAA sets the sample count used for the main render target.
//
// Parameters:
//   - samples: the MSAA sample count (1, 4, 8, or 16)
//
// Returns:
//   - DriverBuilderOption: functional option to set the MSAA sample count
func WithMSAA(samples MSAASampleCount) DriverBuilderOption {
	return func(c *driverConfig) {
		c.sampleCount = samples
	}
}

// WithClearColor sets the color the main render target is cleared to at the
// start of each frame.
//
// Parameters:
//   - r, g, b, a: clear color components in [0, 1]
//
// Returns:
//   - DriverBuilderOption: functional option to set the clear color
func WithClearColor(r, g, b, a float64) DriverBuilderOption {
	return func(c *driverConfig) {
		c.clearColor = wgpu.Color{R: r, G: g, B: b, A: a}
	}
}

// WithPresentMode sets the surface present mode applied after driver creation.
// A call to ConfigureSurface is required for the mode to take effect.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - DriverBuilderOption: functional option to set the present mode
func WithPresentMode(mode PresentMode) DriverBuilderOption {
	return func(c *driverConfig) {
		c.presentMode = &mode
	}
}
