package shadow

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/vista-go/common"
	"github.com/Carmen-Shannon/vista-go/engine/light"
	"github.com/cogentcore/webgpu/wgpu"
)

// Type selects the shadow-map filtering technique for a view. It also
// changes which objects participate in shadow maps: variance shadow maps
// store filtered depth, so shadow receivers must be rendered into the map as
// well as casters.
type Type int

const (
	// TypePCF is percentage-closer filtering over a comparison-sampled depth
	// map. The default.
	TypePCF Type = iota

	// TypeVSM is variance shadow mapping over a filterable moment texture.
	TypeVSM
)

// Technique is a bitfield describing which shadow mechanisms the frame's
// registered lights require.
type Technique uint8

const (
	// TechniqueShadowMap is set when at least one shadow map (cascade or
	// spot) will be rendered this frame.
	TechniqueShadowMap Technique = 1 << iota

	// TechniqueScreenSpace is set when at least one registered light has
	// screen-space contact shadows enabled.
	TechniqueScreenSpace
)

// HasShadowMap reports whether the technique includes shadow maps.
//
// Returns:
//   - bool: true if shadow maps are required
func (t Technique) HasShadowMap() bool {
	return t&TechniqueShadowMap != 0
}

// HasScreenSpace reports whether the technique includes screen-space contact
// shadows.
//
// Returns:
//   - bool: true if contact shadows are required
func (t Technique) HasScreenSpace() bool {
	return t&TechniqueScreenSpace != 0
}

// Driver is the subset of the GPU driver the shadow subsystem depends on:
// depth texture allocation for the shadow atlas and the comparison sampler
// used by PCF filtering.
type Driver interface {
	CreateShadowDepthTexture(width, height int) (*wgpu.TextureView, *wgpu.Texture, error)
	CreateComparisonSampler() (*wgpu.Sampler, error)
}

// UpdateParams carries the per-frame camera state Update needs to compute
// cascade split depths and the caster-culling frusta.
type UpdateParams struct {
	// ShadowType selects the filtering technique (PCF or VSM).
	ShadowType Type

	// CameraNear and CameraFar are the culling camera's clip distances.
	CameraNear float32
	CameraFar  float32

	// CullingProjection and View are the culling camera's matrices
	// (column-major), used to recover the world-space camera volume that
	// directional shadow maps must cover.
	CullingProjection [16]float32
	View              [16]float32
}

// spotShadow is one registered shadow-casting spot light for the frame.
type spotShadow struct {
	lightIndex int
	options    light.ShadowOptions
}

// Manager tracks which lights cast shadow maps in the current frame and
// derives the shadow technique, cascade split depths, and caster-culling
// frusta from the registered set. Registration is rebuilt every frame:
// Reset, then SetCascades for the directional light and AddSpotShadowMap for
// each shadow-casting spot, then one Update call.
//
// The manager also owns the shadow map atlas texture and the PCF comparison
// sampler, reallocating them when the registered set outgrows the current
// atlas. Without a driver the manager runs headless: all bookkeeping works,
// no GPU resources are created.
type Manager interface {
	// Reset clears all registrations for a new frame. GPU resources are
	// retained across resets.
	Reset()

	// SetCascades registers the directional light's cascade configuration.
	// Panics if the cascade count is outside [1, light.MaxShadowCascades].
	//
	// Parameters:
	//   - lightIndex: the directional light's index in the frame light data
	//   - options: the light's shadow configuration
	SetCascades(lightIndex int, options light.ShadowOptions)

	// AddSpotShadowMap registers one shadow-casting spot light. Spots beyond
	// light.MaxShadowCastingSpots are silently ignored.
	//
	// Parameters:
	//   - lightIndex: the spot light's index in the frame light data
	//   - options: the light's shadow configuration
	//
	// Returns:
	//   - bool: true if the spot was registered, false if the cap was reached
	AddSpotShadowMap(lightIndex int, options light.ShadowOptions) bool

	// SpotShadowCount returns the number of spot shadow maps registered this
	// frame.
	//
	// Returns:
	//   - int: the registered spot count, at most light.MaxShadowCastingSpots
	SpotShadowCount() int

	// SpotLightIndex returns the frame light index registered in the given
	// spot shadow slot.
	//
	// Parameters:
	//   - slot: the spot shadow slot in [0, SpotShadowCount())
	//
	// Returns:
	//   - int: the light's index in the frame light data
	SpotLightIndex(slot int) int

	// HasDirectionalShadows reports whether a directional cascade
	// configuration was registered this frame.
	//
	// Returns:
	//   - bool: true if SetCascades was called since the last Reset
	HasDirectionalShadows() bool

	// Update derives the frame's shadow technique from the registrations,
	// computes cascade split depths and caster-culling frusta, and
	// (re)allocates the shadow atlas when the registered set requires a
	// larger one.
	//
	// Parameters:
	//   - params: the per-frame camera state
	//
	// Returns:
	//   - Technique: the shadow mechanisms required this frame
	Update(params UpdateParams) Technique

	// CascadeCount returns the number of directional cascades after the last
	// Update, or zero when no directional shadows are registered.
	//
	// Returns:
	//   - int: the cascade count
	CascadeCount() int

	// CascadeSplits returns the view-space depth bounds of the directional
	// cascades after the last Update: CascadeCount()+1 ascending distances
	// from the camera, starting at the near plane. Empty when no directional
	// shadows are registered.
	//
	// Returns:
	//   - []float32: the split depths; valid until the next Update
	CascadeSplits() []float32

	// DirectionalCullingFrustum returns the caster-culling frustum for the
	// directional light computed by the last Update: a light-space box
	// covering the camera volume, extended toward the light so off-screen
	// casters still register.
	//
	// Parameters:
	//   - direction: the directional light's normalized world-space direction
	//
	// Returns:
	//   - common.Frustum: the culling frustum
	//   - bool: false when no directional shadows are registered
	DirectionalCullingFrustum(direction [3]float32) (common.Frustum, bool)

	// SpotCullingFrustum returns the caster-culling frustum for the spot
	// light in the given slot: the cone's bounding perspective frustum.
	//
	// Parameters:
	//   - slot: the spot shadow slot in [0, SpotShadowCount())
	//   - position: the spot light's world-space position
	//   - direction: the spot light's normalized direction
	//   - cosOuter: the cosine of the outer cone half-angle
	//   - lightRange: the light's falloff radius
	//
	// Returns:
	//   - common.Frustum: the culling frustum
	SpotCullingFrustum(slot int, position, direction [3]float32, cosOuter, lightRange float32) common.Frustum

	// AtlasView returns the shadow atlas depth texture view, or nil when the
	// manager runs headless or no shadow maps are required.
	AtlasView() *wgpu.TextureView

	// ComparisonSampler returns the PCF comparison sampler, or nil when the
	// manager runs headless or the technique is not PCF.
	ComparisonSampler() *wgpu.Sampler
}

type manager struct {
	mu *sync.Mutex

	driver Driver

	directionalIndex   int
	directionalOptions light.ShadowOptions
	hasDirectional     bool

	spots []spotShadow

	cascadeCount  int
	cascadeSplits [light.MaxShadowCascades + 1]float32

	// cameraCorners are the world-space corners of the camera volume from the
	// last Update, reused by DirectionalCullingFrustum.
	cameraCorners [8][3]float32

	atlasView    *wgpu.TextureView
	atlasTexture *wgpu.Texture
	atlasSide    int
	sampler      *wgpu.Sampler
}

// Ensure manager implements Manager interface.
var _ Manager = &manager{}

// NewManager creates a shadow Manager with no registrations. Pass WithDriver
// to enable atlas and sampler allocation.
//
// Parameters:
//   - options: functional options to further configure the manager
//
// Returns:
//   - Manager: the newly created manager
func NewManager(options ...ManagerBuilderOption) Manager {
	m := &manager{
		mu:               &sync.Mutex{},
		directionalIndex: -1,
		spots:            make([]spotShadow, 0, light.MaxShadowCastingSpots),
	}

	for _, option := range options {
		option(m)
	}

	return m
}

func (m *manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hasDirectional = false
	m.directionalIndex = -1
	m.spots = m.spots[:0]
	m.cascadeCount = 0
}

func (m *manager) SetCascades(lightIndex int, options light.ShadowOptions) {
	if options.ShadowCascades < 1 || options.ShadowCascades > light.MaxShadowCascades {
		panic(fmt.Sprintf("shadow: cascade count %d outside [1, %d]",
			options.ShadowCascades, light.MaxShadowCascades))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hasDirectional = true
	m.directionalIndex = lightIndex
	m.directionalOptions = options
}

func (m *manager) AddSpotShadowMap(lightIndex int, options light.ShadowOptions) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.spots) >= light.MaxShadowCastingSpots {
		return false
	}
	m.spots = append(m.spots, spotShadow{lightIndex: lightIndex, options: options})
	return true
}

func (m *manager) SpotShadowCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.spots)
}

func (m *manager) SpotLightIndex(slot int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if slot < 0 || slot >= len(m.spots) {
		panic(fmt.Sprintf("shadow: spot slot %d outside [0, %d)", slot, len(m.spots)))
	}
	return m.spots[slot].lightIndex
}

func (m *manager) HasDirectionalShadows() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hasDirectional
}

func (m *manager) Update(params UpdateParams) Technique {
	m.mu.Lock()
	defer m.mu.Unlock()

	var technique Technique
	if m.hasDirectional || len(m.spots) > 0 {
		technique |= TechniqueShadowMap
	}
	if m.hasDirectional && m.directionalOptions.ScreenSpaceContactShadows {
		technique |= TechniqueScreenSpace
	}
	for _, s := range m.spots {
		if s.options.ScreenSpaceContactShadows {
			technique |= TechniqueScreenSpace
		}
	}

	m.cascadeCount = 0
	if m.hasDirectional {
		m.computeCascadeSplits(params.CameraNear, params.CameraFar)
	}

	m.cameraCorners = cameraVolumeCorners(params.CullingProjection, params.View)

	if technique.HasShadowMap() && m.driver != nil {
		m.ensureAtlas(params.ShadowType)
	}

	return technique
}

// computeCascadeSplits maps the registered cascade split positions to
// view-space depths. Caller must hold the mutex.
func (m *manager) computeCascadeSplits(near, far float32) {
	opts := m.directionalOptions
	if opts.ShadowFar > 0 && opts.ShadowFar < far {
		far = opts.ShadowFar
	}
	n := int(opts.ShadowCascades)
	m.cascadeCount = n
	m.cascadeSplits[0] = near
	for i := 1; i < n; i++ {
		m.cascadeSplits[i] = near + opts.CascadeSplitPositions[i-1]*(far-near)
	}
	m.cascadeSplits[n] = far
}

func (m *manager) CascadeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cascadeCount
}

func (m *manager) CascadeSplits() []float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cascadeCount == 0 {
		return nil
	}
	return m.cascadeSplits[:m.cascadeCount+1]
}

// ensureAtlas (re)allocates the shadow atlas texture when the registered set
// needs a larger one, and the comparison sampler on first PCF use. The atlas
// never shrinks. Caller must hold the mutex.
func (m *manager) ensureAtlas(shadowType Type) {
	mapSize := uint32(0)
	total := 0
	if m.hasDirectional {
		mapSize = max(mapSize, m.directionalOptions.MapSize)
		total += int(m.directionalOptions.ShadowCascades)
	}
	for _, s := range m.spots {
		mapSize = max(mapSize, s.options.MapSize)
		total++
	}
	if total == 0 || mapSize == 0 {
		return
	}

	// Square grid of equally sized cells.
	cells := 1
	for cells*cells < total {
		cells++
	}
	side := cells * int(mapSize)

	if side > m.atlasSide {
		if m.atlasTexture != nil {
			m.atlasTexture.Release()
		}
		view, texture, err := m.driver.CreateShadowDepthTexture(side, side)
		if err != nil {
			panic(fmt.Sprintf("shadow: failed to allocate %dx%d shadow atlas: %v", side, side, err))
		}
		m.atlasView = view
		m.atlasTexture = texture
		m.atlasSide = side
	}

	if shadowType == TypePCF && m.sampler == nil {
		sampler, err := m.driver.CreateComparisonSampler()
		if err != nil {
			panic(fmt.Sprintf("shadow: failed to create comparison sampler: %v", err))
		}
		m.sampler = sampler
	}
}

func (m *manager) AtlasView() *wgpu.TextureView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.atlasView
}

func (m *manager) ComparisonSampler() *wgpu.Sampler {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sampler
}
