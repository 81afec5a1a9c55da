package renderer

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/vista-go/engine/frameinfo"
	"github.com/Carmen-Shannon/vista-go/engine/view"
)

// rendererImpl is the implementation of the Renderer interface.
type rendererImpl struct {
	mu sync.Mutex

	frameInfo *frameinfo.Manager
	frameRate view.FrameRateOptions
	display   view.DisplayInfo

	// epoch anchors the user-time clock handed to the per-view uniforms; it
	// is set on the first BeginFrame.
	epoch      time.Time
	frameStart time.Time
	frameCount uint64
}

// Renderer drives the per-frame CPU lifecycle for one or more views: it
// measures frame durations, feeds the frame pacing history, and runs each
// view's scale update, preparation pipeline, and picking readbacks in the
// required order. Command encoding and presentation live behind the driver
// and are not part of this lifecycle.
//
// The expected call pattern each frame is BeginFrame, then RenderView for
// every view to draw, then EndFrame.
type Renderer interface {
	// FrameRateOptions returns the active frame pacing configuration.
	//
	// Returns:
	//   - view.FrameRateOptions: the sanitized options
	FrameRateOptions() view.FrameRateOptions

	// SetFrameRateOptions replaces the frame pacing configuration. The
	// options are sanitized before use.
	//
	// Parameters:
	//   - opts: the new options
	SetFrameRateOptions(opts view.FrameRateOptions)

	// DisplayInfo returns the presentation target description the frame
	// budget is derived from.
	//
	// Returns:
	//   - view.DisplayInfo: the display description
	DisplayInfo() view.DisplayInfo

	// SetDisplayInfo replaces the presentation target description. Call when
	// the window moves to a monitor with a different refresh rate.
	//
	// Parameters:
	//   - info: the new display description
	SetDisplayInfo(info view.DisplayInfo)

	// BeginFrame marks the start of a frame and records the duration of the
	// previous one into the pacing history. The first call establishes the
	// renderer's time epoch and records nothing.
	//
	// Parameters:
	//   - now: the frame start timestamp
	BeginFrame(now time.Time)

	// RenderView runs one view's per-frame CPU work: the dynamic resolution
	// update from the current denoised frame sample, the preparation
	// pipeline, and the queued picking readbacks.
	//
	// Parameters:
	//   - v: the view to prepare
	//
	// Returns:
	//   - error: an error if the view's preparation failed
	RenderView(v view.View) error

	// EndFrame marks the end of the frame started by BeginFrame.
	EndFrame()

	// FrameCount returns the number of completed frames.
	//
	// Returns:
	//   - uint64: the completed frame count
	FrameCount() uint64
}

var _ Renderer = &rendererImpl{}

// NewRenderer creates a new Renderer with default frame pacing against a
// 60 Hz display. Use the options to configure pacing and the display.
//
// Parameters:
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the newly created renderer
func NewRenderer(options ...RendererBuilderOption) Renderer {
	r := &rendererImpl{
		frameInfo: frameinfo.NewManager(),
		frameRate: view.DefaultFrameRateOptions(),
		display:   view.DefaultDisplayInfo(),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *rendererImpl) FrameRateOptions() view.FrameRateOptions {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frameRate
}

func (r *rendererImpl) SetFrameRateOptions(opts view.FrameRateOptions) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frameRate = opts.Sanitized()
}

func (r *rendererImpl) DisplayInfo() view.DisplayInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.display
}

func (r *rendererImpl) SetDisplayInfo(info view.DisplayInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.display = info
}

func (r *rendererImpl) BeginFrame(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.epoch.IsZero() {
		r.epoch = now
	} else {
		r.frameInfo.Push(now.Sub(r.frameStart))
	}
	r.frameStart = now
}

func (r *rendererImpl) RenderView(v view.View) error {
	r.mu.Lock()
	sample := r.frameInfo.Sample(r.frameRate.History)
	frameRate := r.frameRate
	display := r.display
	userTime := r.frameStart.Sub(r.epoch)
	r.mu.Unlock()

	// The scale must be decided before Prepare so the froxel grid and the
	// per-view uniforms see the viewport the frame will render at.
	v.UpdateScale(sample, frameRate, display)
	if err := v.Prepare(userTime); err != nil {
		return err
	}

	// Picking readbacks consume the previous frame's picking target; they
	// run after Prepare so their coordinates use the same scale state.
	v.ProcessPickingQueries()
	return nil
}

func (r *rendererImpl) EndFrame() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frameCount++
}

func (r *rendererImpl) FrameCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frameCount
}
