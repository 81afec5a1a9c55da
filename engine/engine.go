package engine

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/Carmen-Shannon/vista-go/common"
	"github.com/Carmen-Shannon/vista-go/engine/renderer"
	"github.com/Carmen-Shannon/vista-go/engine/view"
	"github.com/Carmen-Shannon/vista-go/engine/window"
)

// engine implements the Engine interface.
// Coordinates the tick, render, and window threads.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window   window.Window
	renderer renderer.Renderer

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	views map[int]view.View

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the main entry point. It owns the window, the frame renderer,
// and the registered views, and orchestrates the tick loop, the render loop,
// and window management.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the frame renderer driving the views.
	//
	// Returns:
	//   - renderer.Renderer: the renderer instance
	Renderer() renderer.Renderer

	// SetTickRate sets the engine tick rate in ticks per second.
	// The tick callback will be called at this rate for application updates.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick.
	// Use this for application logic, camera movement, and scene updates.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called each render frame after
	// all views have been prepared. Use this for GPU pass submission.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// AddView registers a view at the given z-index key.
	// Views are prepared in ascending key order during the render loop.
	//
	// Parameters:
	//   - key: the z-index determining preparation order (lower first)
	//   - v: the View to register
	AddView(key int, v view.View)

	// RemoveView removes the view at the given z-index key.
	//
	// Parameters:
	//   - key: the z-index of the view to remove
	RemoveView(key int)

	// View retrieves the view registered at the given z-index key.
	// Returns nil if no view exists at that key.
	//
	// Parameters:
	//   - key: the z-index of the view to retrieve
	//
	// Returns:
	//   - view.View: the view at the key, or nil if not found
	View(key int) view.View

	// Views returns a copy of all registered views keyed by z-index.
	//
	// Returns:
	//   - map[int]view.View: a copy of the views map
	Views() map[int]view.View

	// Run starts the main engine loop (blocks until window closes).
	Run()

	// Quit signals all engine goroutines to stop and shuts down the engine.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// When a window is supplied, its framebuffer size and refresh rate are
// propagated into the registered views and the renderer's display info.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		views:           make(map[int]view.View),
		running:         false,
		wg:              sync.WaitGroup{},
		renderer:        renderer.NewRenderer(),
		engineTickRate:  time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window != nil {
		e.renderer.SetDisplayInfo(view.DisplayInfo{RefreshRate: e.window.RefreshRate()})
		e.applyViewportSize(e.window.Width(), e.window.Height())
		e.window.SetResizeCallback(func(width, height int) {
			e.applyViewportSize(width, height)
		})
	}

	return e
}

// applyViewportSize pushes the framebuffer dimensions into every registered
// view and its camera.
func (e *engine) applyViewportSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	vp := common.Viewport{Width: uint32(width), Height: uint32(height)}
	for _, v := range e.views {
		v.SetViewport(vp)
		if c := v.Camera(); c != nil {
			c.SetAspect(float32(width) / float32(height))
		}
	}
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Run() {
	e.handle()
	e.window.ProcessMessages()
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running = false
		close(e.quitChannel)
	})
}

// handle launches the tick, render, and quit goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(3)
	go e.handleTick()
	go e.handleRender()
	go e.handleQuit()
}

// handleTick runs the fixed-rate tick loop in its own goroutine.
// Fires the tick callback at the configured tick rate and listens for dynamic
// rate changes via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleTick() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleRender runs the uncapped (or frame-limited) render loop in its own
// goroutine. Each iteration prepares every registered view in ascending
// z-index order through the renderer's frame lifecycle, then hands off to
// the render callback for pass submission.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	// Recover from panics inside the render goroutine to avoid crashing the whole process.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastRender).Seconds())
			lastRender = now

			// Prepare all views in ascending z-index order inside one frame:
			// BeginFrame samples the previous frame's duration for pacing,
			// RenderView runs each view's scale update and preparation
			// pipeline, and EndFrame closes the frame.
			keys := make([]int, 0, len(e.views))
			for k := range e.views {
				keys = append(keys, k)
			}
			sort.Ints(keys)

			e.renderer.BeginFrame(now)
			for _, k := range keys {
				if err := e.renderer.RenderView(e.views[k]); err != nil {
					log.Printf("engine: view %d prepare failed: %v", k, err)
				}
			}
			e.renderer.EndFrame()

			if e.renderCallback != nil {
				e.renderCallback(dt)
			}

			// Frame rate limiting
			if e.renderFrameLimit > 0 {
				elapsed := time.Since(lastRender)
				if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
}

// SetTickRate sets the engine tick rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Second / time.Duration(fps)

	if e.running {
		// Send to channel for immediate update in running tick loop
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			// Channel has a pending update, drain and send new value
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		// Engine not running, just update the field
		e.engineTickRate = newRate
	}
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

// SetRenderCallback registers the function called each render frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Second / time.Duration(fps)
}

func (e *engine) AddView(key int, v view.View) {
	e.views[key] = v
}

func (e *engine) RemoveView(key int) {
	delete(e.views, key)
}

func (e *engine) View(key int) view.View {
	return e.views[key]
}

func (e *engine) Views() map[int]view.View {
	cp := make(map[int]view.View, len(e.views))
	for k, v := range e.views {
		cp[k] = v
	}
	return cp
}
