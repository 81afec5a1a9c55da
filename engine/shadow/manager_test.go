package shadow

import (
	"testing"

	"github.com/Carmen-Shannon/vista-go/common"
	"github.com/Carmen-Shannon/vista-go/engine/light"
	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDriver records shadow resource requests without touching the GPU.
type fakeDriver struct {
	textureSizes [][2]int
	samplerCalls int
}

func (f *fakeDriver) CreateShadowDepthTexture(width, height int) (*wgpu.TextureView, *wgpu.Texture, error) {
	f.textureSizes = append(f.textureSizes, [2]int{width, height})
	return &wgpu.TextureView{}, nil, nil
}

func (f *fakeDriver) CreateComparisonSampler() (*wgpu.Sampler, error) {
	f.samplerCalls++
	return &wgpu.Sampler{}, nil
}

func frustumContains(f common.Frustum, p [3]float32) bool {
	for _, pl := range f.Planes {
		if pl.Normal[0]*p[0]+pl.Normal[1]*p[1]+pl.Normal[2]*p[2]+pl.Distance < 0 {
			return false
		}
	}
	return true
}

func testCameraParams() UpdateParams {
	var proj, view [16]float32
	common.Perspective(proj[:], math32.Pi/3, 16.0/9.0, 0.1, 50)
	common.Identity(view[:])
	return UpdateParams{
		ShadowType:        TypePCF,
		CameraNear:        0.1,
		CameraFar:         50,
		CullingProjection: proj,
		View:              view,
	}
}

func TestNewManagerDefaults(t *testing.T) {
	m := NewManager()
	assert.False(t, m.HasDirectionalShadows())
	assert.Equal(t, 0, m.SpotShadowCount())
	assert.Equal(t, 0, m.CascadeCount())
	assert.Nil(t, m.CascadeSplits())
	assert.Nil(t, m.AtlasView())
	assert.Nil(t, m.ComparisonSampler())
}

func TestManagerSetCascadesBounds(t *testing.T) {
	m := NewManager()
	opts := light.DefaultShadowOptions()

	opts.ShadowCascades = 0
	assert.Panics(t, func() { m.SetCascades(0, opts) })

	opts.ShadowCascades = light.MaxShadowCascades + 1
	assert.Panics(t, func() { m.SetCascades(0, opts) })

	opts.ShadowCascades = light.MaxShadowCascades
	assert.NotPanics(t, func() { m.SetCascades(0, opts) })
	assert.True(t, m.HasDirectionalShadows())
}

func TestManagerSpotShadowCap(t *testing.T) {
	m := NewManager()
	opts := light.DefaultShadowOptions()

	registered := 0
	for i := 1; i <= 300; i++ {
		if m.AddSpotShadowMap(i, opts) {
			registered++
		}
	}

	assert.Equal(t, light.MaxShadowCastingSpots, registered)
	assert.Equal(t, light.MaxShadowCastingSpots, m.SpotShadowCount())
	// The first arrivals hold the slots.
	for slot := range light.MaxShadowCastingSpots {
		assert.Equal(t, slot+1, m.SpotLightIndex(slot))
	}
}

func TestManagerUpdateTechnique(t *testing.T) {
	params := testCameraParams()
	opts := light.DefaultShadowOptions()
	contactOpts := opts
	contactOpts.ScreenSpaceContactShadows = true

	tests := []struct {
		name     string
		register func(m Manager)
		want     Technique
	}{
		{
			name:     "no registrations",
			register: func(m Manager) {},
			want:     0,
		},
		{
			name:     "directional only",
			register: func(m Manager) { m.SetCascades(0, opts) },
			want:     TechniqueShadowMap,
		},
		{
			name:     "spot only",
			register: func(m Manager) { m.AddSpotShadowMap(1, opts) },
			want:     TechniqueShadowMap,
		},
		{
			name:     "directional with contact shadows",
			register: func(m Manager) { m.SetCascades(0, contactOpts) },
			want:     TechniqueShadowMap | TechniqueScreenSpace,
		},
		{
			name: "spot contact shadows",
			register: func(m Manager) {
				m.SetCascades(0, opts)
				m.AddSpotShadowMap(1, contactOpts)
			},
			want: TechniqueShadowMap | TechniqueScreenSpace,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager()
			tt.register(m)
			got := m.Update(params)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.HasShadowMap(), got&TechniqueShadowMap != 0)
		})
	}
}

func TestManagerCascadeSplits(t *testing.T) {
	m := NewManager()
	opts := light.DefaultShadowOptions()
	opts.ShadowCascades = 4
	opts.CascadeSplitPositions = [3]float32{0.25, 0.5, 0.75}
	m.SetCascades(0, opts)

	params := testCameraParams()
	m.Update(params)

	require.Equal(t, 4, m.CascadeCount())
	splits := m.CascadeSplits()
	require.Len(t, splits, 5)
	assert.InDelta(t, 0.1, splits[0], 1e-6)
	assert.InDelta(t, 0.1+0.25*49.9, splits[1], 1e-4)
	assert.InDelta(t, 0.1+0.5*49.9, splits[2], 1e-4)
	assert.InDelta(t, 0.1+0.75*49.9, splits[3], 1e-4)
	assert.InDelta(t, 50, splits[4], 1e-4)
}

func TestManagerCascadeSplitsShadowFar(t *testing.T) {
	m := NewManager()
	opts := light.DefaultShadowOptions()
	opts.ShadowCascades = 2
	opts.CascadeSplitPositions = [3]float32{0.5}
	opts.ShadowFar = 20
	m.SetCascades(0, opts)

	m.Update(testCameraParams())

	splits := m.CascadeSplits()
	require.Len(t, splits, 3)
	// The shadowed volume ends at ShadowFar, not the camera far plane.
	assert.InDelta(t, 20, splits[2], 1e-4)
	assert.InDelta(t, 0.1+0.5*19.9, splits[1], 1e-4)
}

func TestManagerResetClearsRegistrations(t *testing.T) {
	m := NewManager()
	opts := light.DefaultShadowOptions()
	m.SetCascades(0, opts)
	m.AddSpotShadowMap(1, opts)
	m.Update(testCameraParams())

	m.Reset()

	assert.False(t, m.HasDirectionalShadows())
	assert.Equal(t, 0, m.SpotShadowCount())
	assert.Equal(t, 0, m.CascadeCount())
	assert.Equal(t, Technique(0), m.Update(testCameraParams()))
}

func TestManagerDirectionalCullingFrustum(t *testing.T) {
	m := NewManager()

	_, ok := m.DirectionalCullingFrustum([3]float32{0, -1, 0})
	assert.False(t, ok, "no frustum without a registered directional light")

	m.SetCascades(0, light.DefaultShadowOptions())
	m.Update(testCameraParams())

	f, ok := m.DirectionalCullingFrustum([3]float32{0, -1, 0})
	require.True(t, ok)

	// A point inside the camera volume is a caster.
	assert.True(t, frustumContains(f, [3]float32{0, 0, -10}))
	// A caster above the volume, toward the light, still registers.
	assert.True(t, frustumContains(f, [3]float32{0, 40, -10}))
	// Below the volume, away from the light, it cannot shadow anything.
	assert.False(t, frustumContains(f, [3]float32{0, -100, -10}))
	// Far off to the side.
	assert.False(t, frustumContains(f, [3]float32{1000, 0, -10}))
}

func TestManagerSpotCullingFrustum(t *testing.T) {
	m := NewManager()
	assert.Panics(t, func() {
		m.SpotCullingFrustum(0, [3]float32{}, [3]float32{0, 0, -1}, 0.5, 10)
	})

	m.AddSpotShadowMap(1, light.DefaultShadowOptions())
	cosOuter := math32.Cos(math32.Pi / 6) // 30 degree half-angle
	f := m.SpotCullingFrustum(0, [3]float32{0, 0, 0}, [3]float32{0, 0, -1}, cosOuter, 20)

	assert.True(t, frustumContains(f, [3]float32{0, 0, -10}))
	assert.False(t, frustumContains(f, [3]float32{0, 0, 5}), "behind the light")
	assert.False(t, frustumContains(f, [3]float32{0, 0, -30}), "beyond the range")
	assert.False(t, frustumContains(f, [3]float32{15, 0, -5}), "outside the cone")
}

func TestManagerAtlasAllocation(t *testing.T) {
	fake := &fakeDriver{}
	m := NewManager(WithDriver(fake))
	opts := light.DefaultShadowOptions()
	opts.MapSize = 512

	// One cascade: a single 512 cell.
	m.SetCascades(0, opts)
	m.Update(testCameraParams())
	require.Len(t, fake.textureSizes, 1)
	assert.Equal(t, [2]int{512, 512}, fake.textureSizes[0])
	assert.NotNil(t, m.AtlasView())
	assert.NotNil(t, m.ComparisonSampler())
	assert.Equal(t, 1, fake.samplerCalls)

	// Four maps need a 2x2 grid.
	m.Reset()
	m.SetCascades(0, opts)
	for i := 1; i <= 3; i++ {
		m.AddSpotShadowMap(i, opts)
	}
	m.Update(testCameraParams())
	require.Len(t, fake.textureSizes, 2)
	assert.Equal(t, [2]int{1024, 1024}, fake.textureSizes[1])
	assert.Equal(t, 1, fake.samplerCalls, "sampler is created once")

	// Fewer maps: the atlas never shrinks.
	m.Reset()
	m.SetCascades(0, opts)
	m.Update(testCameraParams())
	assert.Len(t, fake.textureSizes, 2)
}

func TestManagerHeadlessSkipsAllocation(t *testing.T) {
	m := NewManager()
	m.SetCascades(0, light.DefaultShadowOptions())
	technique := m.Update(testCameraParams())
	assert.True(t, technique.HasShadowMap())
	assert.Nil(t, m.AtlasView())
	assert.Nil(t, m.ComparisonSampler())
}

func TestSplitPositionSchemes(t *testing.T) {
	uniform := UniformSplitPositions(4)
	assert.InDelta(t, 0.25, uniform[0], 1e-6)
	assert.InDelta(t, 0.5, uniform[1], 1e-6)
	assert.InDelta(t, 0.75, uniform[2], 1e-6)

	logarithmic := LogSplitPositions(4, 0.1, 100)
	// Log splits concentrate resolution near the camera.
	for i := range 3 {
		assert.Less(t, logarithmic[i], uniform[i], "split %d", i)
	}
	assert.Less(t, logarithmic[0], logarithmic[1])
	assert.Less(t, logarithmic[1], logarithmic[2])

	practical := PracticalSplitPositions(4, 0.1, 100, 0.5)
	for i := range 3 {
		assert.Greater(t, practical[i], logarithmic[i], "split %d", i)
		assert.Less(t, practical[i], uniform[i], "split %d", i)
	}

	// Lambda 0 degenerates to the uniform scheme.
	assert.Equal(t, uniform, PracticalSplitPositions(4, 0.1, 100, 0))

	// A single cascade has no interior splits.
	assert.Equal(t, [3]float32{}, UniformSplitPositions(1))
}
