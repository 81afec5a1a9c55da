package renderer

import (
	"github.com/Carmen-Shannon/vista-go/engine/view"
)

// RendererBuilderOption is a functional option for configuring a Renderer
// during creation.
type RendererBuilderOption func(*rendererImpl)

// WithFrameRateOptions sets the frame pacing configuration. The options are
// sanitized before use.
//
// Parameters:
//   - opts: the pacing options
//
// Returns:
//   - RendererBuilderOption: the option to apply
func WithFrameRateOptions(opts view.FrameRateOptions) RendererBuilderOption {
	return func(r *rendererImpl) {
		r.frameRate = opts.Sanitized()
	}
}

// WithDisplayInfo sets the presentation target description.
//
// Parameters:
//   - info: the display description
//
// Returns:
//   - RendererBuilderOption: the option to apply
func WithDisplayInfo(info view.DisplayInfo) RendererBuilderOption {
	return func(r *rendererImpl) {
		r.display = info
	}
}
