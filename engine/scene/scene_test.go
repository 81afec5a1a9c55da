package scene

import (
	"testing"

	"github.com/Carmen-Shannon/vista-go/engine/light"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var identity = [16]float32{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

func translation(x, y, z float32) [16]float32 {
	return [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, y, z, 1,
	}
}

func TestNewSceneDefaults(t *testing.T) {
	s := NewScene("level-1")
	assert.Equal(t, "level-1", s.Name())
	assert.False(t, s.Active())
	assert.Equal(t, 0, s.RenderableCount())
	assert.Equal(t, 0, s.LightCount())
	assert.False(t, s.DirectionalLight().IsValid())
	assert.Nil(t, s.IndirectLight())
	assert.Nil(t, s.Skybox())
	require.NotNil(t, s.Lights())
	require.NotNil(t, s.WorkerPool())
}

func TestSceneRenderableRegistry(t *testing.T) {
	s := NewScene("test")
	a := NewRenderable()
	b := NewRenderable()
	c := NewRenderable()

	idA := s.AddRenderable(a)
	idB := s.AddRenderable(b)
	idC := s.AddRenderable(c)

	assert.NotEqual(t, idA, idB)
	assert.NotEqual(t, idB, idC)
	assert.Equal(t, 3, s.RenderableCount())
	assert.Same(t, b, s.Renderable(idB))

	s.RemoveRenderable(idB)
	assert.Equal(t, 2, s.RenderableCount())
	assert.Nil(t, s.Renderable(idB))

	// Removing an unknown id is a no-op.
	s.RemoveRenderable(9999)
	assert.Equal(t, 2, s.RenderableCount())

	// Remaining renderables keep their insertion order in the prepared data.
	s.Prepare(identity, false)
	soa := s.RenderableData()
	require.Equal(t, 2, soa.Count)
	assert.Equal(t, uint32(idA), soa.Ids[0])
	assert.Equal(t, uint32(idC), soa.Ids[1])
}

func TestSceneAddRenderableNilPanics(t *testing.T) {
	s := NewScene("test")
	assert.Panics(t, func() { s.AddRenderable(nil) })
}

func TestSceneAddLightRouting(t *testing.T) {
	s := NewScene("test")

	sun := s.AddLight(light.NewLight(light.LightTypeDirectional))
	assert.True(t, sun.IsValid())
	assert.Equal(t, sun, s.DirectionalLight())
	assert.Equal(t, 1, s.LightCount())

	p1 := s.AddLight(light.NewLight(light.LightTypePoint))
	p2 := s.AddLight(light.NewLight(light.LightTypeSpot))
	assert.Equal(t, 3, s.LightCount())

	// A second directional light replaces the first.
	sun2 := s.AddLight(light.NewLight(light.LightTypeDirectional))
	assert.Equal(t, sun2, s.DirectionalLight())
	assert.Equal(t, 3, s.LightCount())

	s.RemoveLight(p1)
	assert.Equal(t, 2, s.LightCount())
	s.RemoveLight(sun2)
	assert.False(t, s.DirectionalLight().IsValid())
	assert.Equal(t, 1, s.LightCount())
	_ = p2
}

func TestScenePrepareFlattensRenderables(t *testing.T) {
	s := NewScene("test")
	r := NewRenderable(
		WithTransform(translation(2, 0, 0)),
		WithBoundingBox([3]float32{1, 0, 0}, [3]float32{0.5, 0.5, 0.5}),
		WithLayerMask(0x08),
		WithShadowCaster(true),
		WithLodCount(4),
	)
	id := s.AddRenderable(r)

	s.Prepare(identity, false)

	soa := s.RenderableData()
	require.Equal(t, 1, soa.Count)
	assert.Equal(t, translation(2, 0, 0), soa.WorldTransform[0])
	assert.InDelta(t, 3.0, soa.AabbCenter[0][0], 1e-6)
	assert.InDelta(t, 0.5, soa.AabbExtent[0][0], 1e-6)
	assert.Equal(t, uint8(0x08), soa.Layers[0])
	assert.Equal(t, FlagCastShadows|FlagCullingEnabled, soa.Flags[0])
	assert.Equal(t, uint8(0), soa.Masks[0])
	assert.Equal(t, uint8(4), soa.LodCounts[0])
	assert.Equal(t, uint32(id), soa.Ids[0])
}

func TestScenePrepareAppliesWorldOrigin(t *testing.T) {
	s := NewScene("test")
	s.AddRenderable(NewRenderable(WithTransform(translation(1, 2, 3))))

	s.Prepare(translation(10, 0, 0), false)

	soa := s.RenderableData()
	require.Equal(t, 1, soa.Count)
	assert.InDelta(t, 11.0, soa.AabbCenter[0][0], 1e-6)
	assert.InDelta(t, 2.0, soa.AabbCenter[0][1], 1e-6)
	assert.InDelta(t, 3.0, soa.AabbCenter[0][2], 1e-6)
	// The composed transform carries the origin offset.
	assert.InDelta(t, 11.0, soa.WorldTransform[0][12], 1e-6)
}

func TestScenePrepareWidensShadowCasters(t *testing.T) {
	s := NewScene("test")
	s.AddRenderable(NewRenderable(WithShadowReceiver(true)))

	s.Prepare(identity, false)
	soa := s.RenderableData()
	assert.Equal(t, VisibilityFlags(0), soa.Flags[0]&FlagCastShadows)

	s.Prepare(identity, true)
	assert.Equal(t, FlagCastShadows, soa.Flags[0]&FlagCastShadows)
	assert.Equal(t, FlagReceiveShadows, soa.Flags[0]&FlagReceiveShadows)
}

func TestScenePrepareLightSlots(t *testing.T) {
	s := NewScene("test")
	s.AddLight(light.NewLight(light.LightTypeDirectional,
		light.WithDirection(0, -1, 0),
	))
	s.AddLight(light.NewLight(light.LightTypePoint,
		light.WithPosition(5, 0, 0),
		light.WithRange(8),
	))

	s.Prepare(identity, false)

	soa := s.LightData()
	require.Equal(t, 2, soa.Count)

	// Slot 0 is the directional light: visible, infinite culling radius.
	assert.True(t, soa.Instances[0].IsValid())
	assert.Equal(t, uint8(1), soa.Visible[0])
	assert.True(t, math32.IsInf(soa.PositionRadius[0][3], 1))

	// Positional lights start at slot 1, not yet visible.
	assert.Equal(t, [4]float32{5, 0, 0, 8}, soa.PositionRadius[1])
	assert.Equal(t, uint8(0), soa.Visible[1])
}

func TestScenePrepareNoDirectionalLight(t *testing.T) {
	s := NewScene("test")
	s.AddLight(light.NewLight(light.LightTypePoint, light.WithPosition(1, 1, 1)))

	s.Prepare(identity, false)

	soa := s.LightData()
	require.Equal(t, 2, soa.Count)
	// Slot 0 stays reserved with an invalid handle.
	assert.False(t, soa.Instances[0].IsValid())
	assert.Equal(t, [4]float32{}, soa.PositionRadius[0])
	assert.True(t, soa.Instances[1].IsValid())
}

func TestScenePrepareSkipsDisabledLights(t *testing.T) {
	s := NewScene("test")
	s.AddLight(light.NewLight(light.LightTypeDirectional, light.WithEnabled(false)))
	s.AddLight(light.NewLight(light.LightTypePoint,
		light.WithPosition(1, 0, 0),
		light.WithEnabled(false),
	))
	on := s.AddLight(light.NewLight(light.LightTypePoint, light.WithPosition(2, 0, 0)))

	s.Prepare(identity, false)

	soa := s.LightData()
	require.Equal(t, 2, soa.Count)
	// A disabled directional light presents as absent.
	assert.False(t, soa.Instances[0].IsValid())
	assert.Equal(t, on, soa.Instances[1])
	assert.InDelta(t, 2.0, soa.PositionRadius[1][0], 1e-6)
}

func TestScenePrepareTransformsLightsIntoOrigin(t *testing.T) {
	s := NewScene("test")
	s.AddLight(light.NewLight(light.LightTypeSpot,
		light.WithPosition(1, 0, 0),
		light.WithDirection(0, 0, -1),
		light.WithRange(4),
	))

	s.Prepare(translation(0, 10, 0), false)

	soa := s.LightData()
	require.Equal(t, 2, soa.Count)
	assert.InDelta(t, 1.0, soa.PositionRadius[1][0], 1e-6)
	assert.InDelta(t, 10.0, soa.PositionRadius[1][1], 1e-6)
	// Directions are rotated but not translated.
	assert.InDelta(t, -1.0, soa.Directions[1][2], 1e-6)
	assert.InDelta(t, 0.0, soa.Directions[1][1], 1e-6)
}

func TestScenePrepareParallelMatchesSerial(t *testing.T) {
	s := NewScene("test")
	const n = 300 // above the parallel threshold
	ids := make([]uint64, n)
	for i := range n {
		x := float32(i)
		ids[i] = s.AddRenderable(NewRenderable(
			WithTransform(translation(x, 0, 0)),
			WithLayerMask(uint8(1)<<(i%8)),
		))
	}

	s.Prepare(identity, false)

	soa := s.RenderableData()
	require.Equal(t, n, soa.Count)
	for i := range n {
		assert.InDelta(t, float32(i), soa.AabbCenter[i][0], 1e-6, "renderable %d", i)
		assert.Equal(t, uint8(1)<<(i%8), soa.Layers[i], "renderable %d", i)
		assert.Equal(t, uint32(ids[i]), soa.Ids[i], "renderable %d", i)
	}
}

func TestScenePrepareReusesCapacity(t *testing.T) {
	s := NewScene("test")
	for range 40 {
		s.AddRenderable(NewRenderable())
	}
	s.Prepare(identity, false)
	assert.Equal(t, 40, s.RenderableData().Count)
	assert.Equal(t, 48, s.RenderableData().PaddedCount())

	s2 := NewScene("smaller")
	s2.AddRenderable(NewRenderable())
	s2.Prepare(identity, false)
	assert.Equal(t, 1, s2.RenderableData().Count)
	assert.Equal(t, 16, s2.RenderableData().PaddedCount())
}

func TestRenderableLayerMask(t *testing.T) {
	r := NewRenderable()
	assert.Equal(t, uint8(0x01), r.LayerMask())

	// Only the selected bits change.
	r.SetLayerMask(0x0F, 0x0A)
	assert.Equal(t, uint8(0x0A), r.LayerMask())
	r.SetLayerMask(0x01, 0x01)
	assert.Equal(t, uint8(0x0B), r.LayerMask())

	assert.Panics(t, func() { r.SetLayerMask(0x01, 0x02) })
}

func TestSkyboxLayerMask(t *testing.T) {
	sb := NewSkybox()
	assert.Equal(t, uint8(0x01), sb.LayerMask())

	sb.SetLayerMask(0xFF, 0x40)
	assert.Equal(t, uint8(0x40), sb.LayerMask())

	assert.Panics(t, func() { sb.SetLayerMask(0x01, 0x02) })
}

func TestSceneBuilderOptions(t *testing.T) {
	il := NewIndirectLight(WithIndirectIntensity(20000))
	sb := NewSkybox(WithColor(0.1, 0.2, 0.3, 1))
	s := NewScene("built",
		WithActive(true),
		WithRenderables(NewRenderable(), NewRenderable(), nil),
		WithLights(light.NewLight(light.LightTypeDirectional), light.NewLight(light.LightTypePoint)),
		WithComputeWorkers(2),
		WithIndirectLight(il),
		WithSkybox(sb),
	)

	assert.True(t, s.Active())
	assert.Equal(t, 2, s.RenderableCount())
	assert.Equal(t, 2, s.LightCount())
	assert.True(t, s.DirectionalLight().IsValid())
	assert.Same(t, il, s.IndirectLight())
	assert.Same(t, sb, s.Skybox())
}

func TestGPURenderableDataMarshal(t *testing.T) {
	g := ToGPURenderableData(identity, FlagCastShadows|FlagCullingEnabled, 5, 42)
	assert.Equal(t, 128, g.Size())

	// Identity world transform has an identity cofactor matrix.
	assert.Equal(t, float32(1), g.NormalFromModel[0])
	assert.Equal(t, float32(1), g.NormalFromModel[5])
	assert.Equal(t, float32(1), g.NormalFromModel[10])
	assert.Equal(t, float32(0), g.NormalFromModel[1])

	buf := g.Marshal()
	require.Len(t, buf, 128)
	// flags at offset 112, layer at 116, object id at 120.
	assert.Equal(t, byte(uint32(FlagCastShadows|FlagCullingEnabled)), buf[112])
	assert.Equal(t, byte(5), buf[116])
	assert.Equal(t, byte(42), buf[120])
}

func TestGPURenderableDataNormalMatrixNonUniformScale(t *testing.T) {
	// Scale (2, 1, 1): the cofactor matrix scales normals by (1, 2, 2),
	// keeping them perpendicular to the scaled surface.
	scale := [16]float32{
		2, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
	g := ToGPURenderableData(scale, 0, 0, 0)
	assert.InDelta(t, 1.0, g.NormalFromModel[0], 1e-6)
	assert.InDelta(t, 2.0, g.NormalFromModel[5], 1e-6)
	assert.InDelta(t, 2.0, g.NormalFromModel[10], 1e-6)
}
