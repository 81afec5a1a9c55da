package view

import (
	"github.com/Carmen-Shannon/vista-go/common"
	"github.com/Carmen-Shannon/vista-go/engine/camera"
	"github.com/Carmen-Shannon/vista-go/engine/scene"
	"github.com/Carmen-Shannon/vista-go/engine/shadow"
)

// ViewBuilderOption is a functional option for configuring a View during
// creation.
type ViewBuilderOption func(*viewImpl)

// WithName sets the view's debug name.
//
// Parameters:
//   - name: the name
//
// Returns:
//   - ViewBuilderOption: the option to apply
func WithName(name string) ViewBuilderOption {
	return func(v *viewImpl) {
		v.name = name
	}
}

// WithScene attaches the scene the view renders.
//
// Parameters:
//   - s: the scene
//
// Returns:
//   - ViewBuilderOption: the option to apply
func WithScene(s scene.Scene) ViewBuilderOption {
	return func(v *viewImpl) {
		v.scene = s
	}
}

// WithCamera attaches the view's camera.
//
// Parameters:
//   - c: the camera
//
// Returns:
//   - ViewBuilderOption: the option to apply
func WithCamera(c camera.Camera) ViewBuilderOption {
	return func(v *viewImpl) {
		v.camera = c
	}
}

// WithViewport sets the view's viewport in physical pixels.
//
// Parameters:
//   - vp: the viewport
//
// Returns:
//   - ViewBuilderOption: the option to apply
func WithViewport(vp common.Viewport) ViewBuilderOption {
	return func(v *viewImpl) {
		v.viewport = vp
	}
}

// WithDriver attaches the GPU driver the view commits its per-frame buffers
// through. Views without a driver prepare frames headlessly.
//
// Parameters:
//   - d: the driver
//
// Returns:
//   - ViewBuilderOption: the option to apply
func WithDriver(d Driver) ViewBuilderOption {
	return func(v *viewImpl) {
		v.driver = d
	}
}

// WithVisibleLayers sets the full layer bitmask the view draws.
//
// Parameters:
//   - layers: the layer bitmask
//
// Returns:
//   - ViewBuilderOption: the option to apply
func WithVisibleLayers(layers uint8) ViewBuilderOption {
	return func(v *viewImpl) {
		v.visibleLayers = layers
	}
}

// WithDynamicResolution sets the dynamic resolution options. The options are
// sanitized before use.
//
// Parameters:
//   - opts: the options
//
// Returns:
//   - ViewBuilderOption: the option to apply
func WithDynamicResolution(opts DynamicResolutionOptions) ViewBuilderOption {
	return func(v *viewImpl) {
		v.dynamicResolution = opts.Sanitized()
	}
}

// WithShadowType selects the shadow mapping technique.
//
// Parameters:
//   - t: the technique
//
// Returns:
//   - ViewBuilderOption: the option to apply
func WithShadowType(t shadow.Type) ViewBuilderOption {
	return func(v *viewImpl) {
		v.shadowType = t
	}
}

// WithShadowingEnabled toggles shadow setup during preparation.
//
// Parameters:
//   - enabled: whether shadowing runs
//
// Returns:
//   - ViewBuilderOption: the option to apply
func WithShadowingEnabled(enabled bool) ViewBuilderOption {
	return func(v *viewImpl) {
		v.shadowingEnabled = enabled
	}
}

// WithFrustumCulling toggles renderable frustum culling. Disabling it marks
// every renderable camera-visible.
//
// Parameters:
//   - enabled: whether culling runs
//
// Returns:
//   - ViewBuilderOption: the option to apply
func WithFrustumCulling(enabled bool) ViewBuilderOption {
	return func(v *viewImpl) {
		v.cullingEnabled = enabled
	}
}

// WithCameraRecentering toggles folding the camera position into the
// world-origin transform during preparation.
//
// Parameters:
//   - enabled: whether recentering runs
//
// Returns:
//   - ViewBuilderOption: the option to apply
func WithCameraRecentering(enabled bool) ViewBuilderOption {
	return func(v *viewImpl) {
		v.cameraAtOrigin = enabled
	}
}
