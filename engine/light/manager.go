package light

import (
	"fmt"
	"sync"
)

// Instance is an opaque handle to a light registered with a Manager. The
// zero Instance is invalid; the scene's flattened light list stores the
// invalid instance in its directional slot when no directional light exists.
type Instance uint32

// IsValid reports whether the handle refers to a registered light.
//
// Returns:
//   - bool: true for a non-zero handle
func (i Instance) IsValid() bool {
	return i != 0
}

// managerImpl is the implementation of the Manager interface.
type managerImpl struct {
	mu     sync.RWMutex
	lights []Light // index = Instance - 1
}

// Manager owns the mapping from light instances to their backing Light
// values and answers the per-instance queries the visibility pipeline makes
// while filtering lights and selecting shadow casters.
//
// Queries take the instance handle produced by Register. Passing an invalid
// or unregistered handle is a programming error and panics; the pipeline
// guards its slot-0 directional access with Instance.IsValid instead.
type Manager interface {
	// Register adds a light and returns its instance handle. Handles stay
	// valid until the manager is discarded; registration order is not
	// significant.
	//
	// Parameters:
	//   - l: the light to register
	//
	// Returns:
	//   - Instance: the handle for per-instance queries
	Register(l Light) Instance

	// Light returns the light behind an instance handle.
	//
	// Parameters:
	//   - i: the instance handle
	//
	// Returns:
	//   - Light: the registered light
	Light(i Instance) Light

	// Count returns the number of registered lights.
	//
	// Returns:
	//   - int: the registration count
	Count() int

	// IsShadowCaster reports whether the instance's light is eligible for
	// shadow map generation.
	//
	// Parameters:
	//   - i: the instance handle
	//
	// Returns:
	//   - bool: true if the light casts shadows
	IsShadowCaster(i Instance) bool

	// IsSpotLight reports whether the instance's light is a spot light.
	//
	// Parameters:
	//   - i: the instance handle
	//
	// Returns:
	//   - bool: true for spot lights
	IsSpotLight(i Instance) bool

	// IsLightCaster reports whether the instance's light illuminates
	// geometry. Shadow-only lights return false and are removed during
	// light visibility processing.
	//
	// Parameters:
	//   - i: the instance handle
	//
	// Returns:
	//   - bool: true if the light contributes illumination
	IsLightCaster(i Instance) bool

	// Intensity returns the light's scalar intensity.
	//
	// Parameters:
	//   - i: the instance handle
	//
	// Returns:
	//   - float32: the intensity value
	Intensity(i Instance) float32

	// CosOuterSquared returns cos² of the outer cone half-angle for a spot
	// light, the constant consumed by the per-plane cone/frustum rejection
	// test. Meaningless for other light types.
	//
	// Parameters:
	//   - i: the instance handle
	//
	// Returns:
	//   - float32: cos(outer half-angle)²
	CosOuterSquared(i Instance) float32

	// ShadowOptions returns the per-light shadow configuration.
	//
	// Parameters:
	//   - i: the instance handle
	//
	// Returns:
	//   - ShadowOptions: the light's shadow configuration
	ShadowOptions(i Instance) ShadowOptions
}

var _ Manager = &managerImpl{}

// NewManager creates an empty light manager.
//
// Returns:
//   - Manager: the new manager
func NewManager() Manager {
	return &managerImpl{}
}

func (m *managerImpl) Register(l Light) Instance {
	if l == nil {
		panic("light: cannot register a nil light")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lights = append(m.lights, l)
	return Instance(len(m.lights))
}

func (m *managerImpl) Light(i Instance) Light {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lookup(i)
}

func (m *managerImpl) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.lights)
}

func (m *managerImpl) IsShadowCaster(i Instance) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lookup(i).CastsShadows()
}

func (m *managerImpl) IsSpotLight(i Instance) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lookup(i).Type() == LightTypeSpot
}

func (m *managerImpl) IsLightCaster(i Instance) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lookup(i).CastsLight()
}

func (m *managerImpl) Intensity(i Instance) float32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lookup(i).Intensity()
}

func (m *managerImpl) CosOuterSquared(i Instance) float32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := m.lookup(i).OuterCone()
	return c * c
}

func (m *managerImpl) ShadowOptions(i Instance) ShadowOptions {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lookup(i).ShadowOptions()
}

// lookup resolves an instance handle to its light. Callers must hold the
// manager lock.
func (m *managerImpl) lookup(i Instance) Light {
	if !i.IsValid() || int(i) > len(m.lights) {
		panic(fmt.Sprintf("light: invalid instance handle %d (registered: %d)", i, len(m.lights)))
	}
	return m.lights[i-1]
}
