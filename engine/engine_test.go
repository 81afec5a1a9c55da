package engine

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/vista-go/engine/renderer"
	"github.com/Carmen-Shannon/vista-go/engine/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngineDefaults(t *testing.T) {
	e := NewEngine()
	require.NotNil(t, e.Renderer())
	assert.Nil(t, e.Window())
	assert.Empty(t, e.Views())
}

func TestEngineViewRegistry(t *testing.T) {
	v0 := view.NewView(view.WithName("main"))
	v1 := view.NewView(view.WithName("overlay"))
	e := NewEngine(WithView(0, v0))
	e.AddView(1, v1)

	assert.Same(t, v0, e.View(0))
	assert.Same(t, v1, e.View(1))
	assert.Len(t, e.Views(), 2)

	// The returned map is a copy; mutating it does not touch the engine.
	delete(e.Views(), 0)
	assert.Len(t, e.Views(), 2)

	e.RemoveView(0)
	assert.Nil(t, e.View(0))
	assert.Len(t, e.Views(), 1)
}

func TestEngineBuilderOptions(t *testing.T) {
	r := renderer.NewRenderer()
	e := NewEngine(
		WithRenderer(r),
		WithTickRate(120),
		WithRenderFrameLimit(30),
	)

	assert.Same(t, r, e.Renderer())
	impl := e.(*engine)
	assert.Equal(t, time.Second/120, impl.engineTickRate)
	assert.Equal(t, time.Second/30, impl.renderFrameLimit)
}

func TestEngineQuitIsIdempotent(t *testing.T) {
	e := NewEngine()
	e.Quit()
	assert.NotPanics(t, e.Quit)
}
