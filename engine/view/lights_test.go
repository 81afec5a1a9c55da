package view

import (
	"testing"

	"github.com/Carmen-Shannon/vista-go/common"
	"github.com/Carmen-Shannon/vista-go/engine/light"
	"github.com/Carmen-Shannon/vista-go/engine/scene"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testFrustum returns the frustum of a camera at the origin looking down -Z
// with a 90 degree vertical field of view and a square aspect ratio.
func testFrustum() common.Frustum {
	var proj [16]float32
	common.Perspective(proj[:], math32.Pi/2, 1, 0.1, 100)
	return common.ExtractFrustumFromMatrix(proj[:])
}

func identityMatrix() [16]float32 {
	var m [16]float32
	common.Identity(m[:])
	return m
}

// lightRow describes one positional light slot for buildLightSoa.
type lightRow struct {
	pos    [3]float32
	radius float32
	l      light.Light
}

// buildLightSoa flattens a directional light plus the given positional rows
// the way Scene.Prepare does, registering every light with the manager.
func buildLightSoa(lm light.Manager, dir light.Light, rows []lightRow) *scene.LightSoa {
	soa := &scene.LightSoa{}
	soa.Resize(1 + len(rows))
	if dir != nil {
		soa.Instances[0] = lm.Register(dir)
		soa.Directions[0] = dir.Direction()
	}
	for i, r := range rows {
		soa.PositionRadius[1+i] = [4]float32{r.pos[0], r.pos[1], r.pos[2], r.radius}
		soa.Directions[1+i] = r.l.Direction()
		soa.Instances[1+i] = lm.Register(r.l)
	}
	return soa
}

func pointLight(opts ...light.LightBuilderOption) light.Light {
	return light.NewLight(light.LightTypePoint, opts...)
}

func TestPrepareVisibleLightsDirectionalAlwaysKept(t *testing.T) {
	lm := light.NewManager()
	frustum := testFrustum()

	// The only positional light sits behind the camera, outside the frustum.
	soa := buildLightSoa(lm, light.NewLight(light.LightTypeDirectional), []lightRow{
		{pos: [3]float32{0, 0, 50}, radius: 1, l: pointLight()},
	})

	prepareVisibleLights(lm, identityMatrix(), &frustum, soa, nil)

	assert.Equal(t, 1, soa.Count)
	assert.EqualValues(t, 1, soa.Visible[0])
	assert.True(t, soa.Instances[0].IsValid())
}

func TestPrepareVisibleLightsFiltering(t *testing.T) {
	lm := light.NewManager()
	frustum := testFrustum()

	// An unreachable spot: its culling sphere overlaps the frustum, but the
	// cone opens away from it, behind the near plane.
	awaySpot := light.NewLight(light.LightTypeSpot,
		light.WithDirection(0, 0, 1),
		light.WithSpotCone(10, 15))

	rows := make([]lightRow, 0, 10)
	for i := 0; i < 7; i++ {
		rows = append(rows, lightRow{pos: [3]float32{0, 0, -10 - float32(i)}, radius: 1, l: pointLight()})
	}
	rows = append(rows,
		lightRow{pos: [3]float32{0, 0, -5}, radius: 1, l: pointLight(light.WithIntensity(0))},
		lightRow{pos: [3]float32{1, 0, -5}, radius: 1, l: pointLight(light.WithIntensity(0))},
		lightRow{pos: [3]float32{0, 0, 1}, radius: 5, l: awaySpot})
	soa := buildLightSoa(lm, light.NewLight(light.LightTypeDirectional), rows)

	prepareVisibleLights(lm, identityMatrix(), &frustum, soa, nil)

	// 7 of the 10 positional lights survive, plus the directional slot.
	require.Equal(t, 8, soa.Count)
	for i := 1; i < soa.Count; i++ {
		li := soa.Instances[i]
		assert.NotZero(t, soa.Visible[i], "slot %d", i)
		assert.Positive(t, lm.Intensity(li), "slot %d", i)
		assert.False(t, lm.IsSpotLight(li), "slot %d", i)
	}
}

func TestPrepareVisibleLightsDropsNonCasters(t *testing.T) {
	lm := light.NewManager()
	frustum := testFrustum()

	soa := buildLightSoa(lm, light.NewLight(light.LightTypeDirectional), []lightRow{
		{pos: [3]float32{0, 0, -10}, radius: 1, l: pointLight(light.WithCastsLight(false))},
		{pos: [3]float32{0, 0, -12}, radius: 1, l: pointLight()},
	})

	prepareVisibleLights(lm, identityMatrix(), &frustum, soa, nil)

	require.Equal(t, 2, soa.Count)
	assert.True(t, lm.IsLightCaster(soa.Instances[1]))
}

func TestPrepareVisibleLightsSortsByCameraDistance(t *testing.T) {
	lm := light.NewManager()
	frustum := testFrustum()

	depths := []float32{-50, -5, -30, -2, -80, -12}
	rows := make([]lightRow, len(depths))
	for i, z := range depths {
		rows[i] = lightRow{pos: [3]float32{0, 0, z}, radius: 1, l: pointLight()}
	}
	soa := buildLightSoa(lm, light.NewLight(light.LightTypeDirectional), rows)

	prepareVisibleLights(lm, identityMatrix(), &frustum, soa, nil)

	require.Equal(t, 1+len(depths), soa.Count)
	prev := float32(0)
	for i := 1; i < soa.Count; i++ {
		p := soa.PositionRadius[i]
		d := common.Length3([3]float32{p[0], p[1], p[2]})
		assert.GreaterOrEqual(t, d, prev, "slot %d", i)
		prev = d
	}
	// The nearest light ends up right after the directional slot.
	assert.InDelta(t, 2.0, common.Length3([3]float32{
		soa.PositionRadius[1][0], soa.PositionRadius[1][1], soa.PositionRadius[1][2]}), 1e-4)
}

func TestPrepareVisibleLightsCapsRetainedCount(t *testing.T) {
	lm := light.NewManager()
	frustum := testFrustum()

	n := light.MaxGPULights + 20
	rows := make([]lightRow, n)
	for i := range rows {
		rows[i] = lightRow{pos: [3]float32{0, 0, -1 - float32(i)*0.3}, radius: 1, l: pointLight()}
	}
	soa := buildLightSoa(lm, light.NewLight(light.LightTypeDirectional), rows)

	prepareVisibleLights(lm, identityMatrix(), &frustum, soa, nil)

	require.Equal(t, light.MaxGPULights+1, soa.Count)
	// The nearest lights survive the cap; the farthest retained distance is
	// that of the 256th-nearest light.
	last := soa.PositionRadius[soa.Count-1]
	assert.InDelta(t, 1+float32(light.MaxGPULights-1)*0.3, -last[2], 1e-3)
}

func TestPrepareVisibleLightsReusesScratch(t *testing.T) {
	lm := light.NewManager()
	frustum := testFrustum()

	soa := buildLightSoa(lm, light.NewLight(light.LightTypeDirectional), []lightRow{
		{pos: [3]float32{0, 0, -10}, radius: 1, l: pointLight()},
		{pos: [3]float32{0, 0, -20}, radius: 1, l: pointLight()},
	})

	scratch := prepareVisibleLights(lm, identityMatrix(), &frustum, soa, nil)
	require.NotNil(t, scratch)

	soa2 := buildLightSoa(lm, light.NewLight(light.LightTypeDirectional), []lightRow{
		{pos: [3]float32{0, 0, -15}, radius: 1, l: pointLight()},
	})
	scratch2 := prepareVisibleLights(lm, identityMatrix(), &frustum, soa2, scratch)
	assert.Equal(t, cap(scratch), cap(scratch2))
}

func TestSpotConeMissesFrustum(t *testing.T) {
	frustum := testFrustum()
	cosOuter := math32.Cos(15 * math32.Pi / 180)
	cosOuterSq := cosOuter * cosOuter
	pos := [4]float32{0, 0, 1, 5}

	// Apex behind the near plane, cone opening further away: provably
	// invisible.
	assert.True(t, spotConeMissesFrustum(&frustum, pos, [3]float32{0, 0, 1}, cosOuterSq))

	// Same apex, cone opening toward the frustum: the test cannot reject it.
	assert.False(t, spotConeMissesFrustum(&frustum, pos, [3]float32{0, 0, -1}, cosOuterSq))

	// A wide cone can reach back across the plane even when pointing away.
	wide := math32.Cos(85 * math32.Pi / 180)
	assert.False(t, spotConeMissesFrustum(&frustum, pos, [3]float32{0, 0, 1}, wide*wide))
}
