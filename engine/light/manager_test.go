package light

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerRegisterAndLookup(t *testing.T) {
	m := NewManager()

	var zero Instance
	assert.False(t, zero.IsValid(), "the zero instance must be invalid")

	sun := NewLight(LightTypeDirectional, WithCastsShadows(true))
	lamp := NewLight(LightTypePoint, WithIntensity(2.5), WithRange(8))

	si := m.Register(sun)
	li := m.Register(lamp)

	require.True(t, si.IsValid())
	require.True(t, li.IsValid())
	assert.NotEqual(t, si, li)
	assert.Equal(t, 2, m.Count())

	assert.Same(t, sun, m.Light(si))
	assert.Same(t, lamp, m.Light(li))
}

func TestManagerQueries(t *testing.T) {
	m := NewManager()

	spot := NewLight(LightTypeSpot,
		WithSpotCone(20, 40),
		WithCastsShadows(true),
		WithIntensity(3),
	)
	shadowOnly := NewLight(LightTypePoint,
		WithCastsLight(false),
		WithCastsShadows(true),
	)

	si := m.Register(spot)
	pi := m.Register(shadowOnly)

	assert.True(t, m.IsSpotLight(si))
	assert.False(t, m.IsSpotLight(pi))

	assert.True(t, m.IsShadowCaster(si))
	assert.True(t, m.IsShadowCaster(pi))

	assert.True(t, m.IsLightCaster(si))
	assert.False(t, m.IsLightCaster(pi), "shadow-only lights must not count as light casters")

	assert.InDelta(t, 3.0, m.Intensity(si), 1e-6)

	outer := spot.OuterCone()
	assert.InDelta(t, outer*outer, m.CosOuterSquared(si), 1e-6)
}

func TestManagerPanicsOnInvalidInstance(t *testing.T) {
	m := NewManager()
	m.Register(NewLight(LightTypePoint))

	require.Panics(t, func() { m.Light(0) })
	require.Panics(t, func() { m.Intensity(99) })
}

func TestShadowOptionsSanitized(t *testing.T) {
	opts := ShadowOptions{
		MapSize:               2,
		ShadowCascades:        9,
		CascadeSplitPositions: [3]float32{-1, 0.5, 2},
		ShadowFar:             -5,
	}

	s := opts.Sanitized()

	assert.EqualValues(t, 8, s.MapSize, "map size clamps to its floor")
	assert.EqualValues(t, MaxShadowCascades, s.ShadowCascades, "cascade count clamps to the cap")
	assert.Equal(t, [3]float32{0, 0.5, 1}, s.CascadeSplitPositions)
	assert.EqualValues(t, 0, s.ShadowFar, "negative shadow far resets to the camera default")
}

func TestLightShadowOptionsRoundTrip(t *testing.T) {
	l := NewLight(LightTypeDirectional, WithShadowOptions(ShadowOptions{
		MapSize:        1024,
		ShadowCascades: 3,
	}))

	got := l.ShadowOptions()
	assert.EqualValues(t, 1024, got.MapSize)
	assert.EqualValues(t, 3, got.ShadowCascades)
}
