package scene

import (
	"fmt"
	"sync"
)

type skyboxImpl struct {
	mu sync.RWMutex

	color     [4]float32
	intensity float32
	layers    uint8
}

// Skybox describes the scene background: a constant color, an intensity in
// nits used when tone mapping, and the layers it renders on.
type Skybox interface {
	// Color returns the background color.
	//
	// Returns:
	//   - [4]float32: linear RGBA color
	Color() [4]float32

	// Intensity returns the background intensity in nits.
	//
	// Returns:
	//   - float32: the intensity
	Intensity() float32

	// LayerMask returns the bitmask of layers the skybox renders on. The
	// skybox only appears in views whose visible-layer mask overlaps it.
	//
	// Returns:
	//   - uint8: the layer bitmask
	LayerMask() uint8

	// SetColor sets the background color.
	//
	// Parameters:
	//   - color: linear RGBA color
	SetColor(color [4]float32)

	// SetIntensity sets the background intensity in nits.
	//
	// Parameters:
	//   - intensity: the intensity
	SetIntensity(intensity float32)

	// SetLayerMask updates the selected bits of the layer bitmask to the
	// given values, leaving unselected bits unchanged. Panics if values has
	// a bit set outside the selection.
	//
	// Parameters:
	//   - selectBits: which bits of the mask to modify
	//   - values: the new state of the selected bits
	SetLayerMask(selectBits, values uint8)
}

var _ Skybox = &skyboxImpl{}

// NewSkybox creates a new Skybox with a black background, unit intensity,
// and layer mask 0x1, matching the default visible layers of a view.
//
// Parameters:
//   - options: functional options to configure the skybox
//
// Returns:
//   - Skybox: the newly created skybox
func NewSkybox(options ...SkyboxBuilderOption) Skybox {
	s := &skyboxImpl{
		color:     [4]float32{0, 0, 0, 1},
		intensity: 1,
		layers:    0x1,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *skyboxImpl) Color() [4]float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.color
}

func (s *skyboxImpl) Intensity() float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.intensity
}

func (s *skyboxImpl) LayerMask() uint8 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.layers
}

func (s *skyboxImpl) SetColor(color [4]float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.color = color
}

func (s *skyboxImpl) SetIntensity(intensity float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intensity = intensity
}

func (s *skyboxImpl) SetLayerMask(selectBits, values uint8) {
	if values&^selectBits != 0 {
		panic(fmt.Sprintf("scene: layer values 0x%02x outside selection 0x%02x", values, selectBits))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layers = (s.layers &^ selectBits) | (values & selectBits)
}
