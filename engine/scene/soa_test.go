package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderableSoaResizePadsTo16(t *testing.T) {
	var soa RenderableSoa
	soa.Resize(5)
	assert.Equal(t, 5, soa.Count)
	assert.Equal(t, 16, soa.PaddedCount())
	require.Len(t, soa.Masks, 16)
	require.Len(t, soa.WorldTransform, 16)

	soa.Resize(17)
	assert.Equal(t, 17, soa.Count)
	assert.Equal(t, 32, soa.PaddedCount())
}

func TestRenderableSoaResizeZeroesTail(t *testing.T) {
	var soa RenderableSoa
	soa.Resize(20)
	for i := range soa.Masks {
		soa.Masks[i] = 0xFF
	}
	// Shrinking reuses capacity but the padding past Count must read as
	// culled so block-aligned passes never admit stale entries.
	soa.Resize(3)
	assert.Equal(t, 3, soa.Count)
	for i := 3; i < soa.PaddedCount(); i++ {
		assert.Equal(t, uint8(0), soa.Masks[i], "index %d", i)
	}
}

func TestRenderableSoaSwap(t *testing.T) {
	var soa RenderableSoa
	soa.Resize(2)
	soa.Layers[0], soa.Layers[1] = 1, 2
	soa.Masks[0], soa.Masks[1] = 0x0F, 0xF0
	soa.Ids[0], soa.Ids[1] = 100, 200
	soa.AabbCenter[0] = [3]float32{1, 1, 1}
	soa.AabbCenter[1] = [3]float32{2, 2, 2}

	soa.Swap(0, 1)

	assert.Equal(t, uint8(2), soa.Layers[0])
	assert.Equal(t, uint8(0x0F), soa.Masks[1])
	assert.Equal(t, uint32(200), soa.Ids[0])
	assert.Equal(t, [3]float32{1, 1, 1}, soa.AabbCenter[1])
}

func TestLightSoaResizePadsTo8(t *testing.T) {
	var soa LightSoa
	soa.Resize(3)
	assert.Equal(t, 3, soa.Count)
	assert.Equal(t, 8, soa.PaddedCount())

	soa.Resize(9)
	assert.Equal(t, 16, soa.PaddedCount())
}

func TestLightSoaTruncate(t *testing.T) {
	var soa LightSoa
	soa.Resize(10)
	soa.Truncate(4)
	assert.Equal(t, 4, soa.Count)
	// Truncate only shrinks.
	soa.Truncate(50)
	assert.Equal(t, 4, soa.Count)
}

func TestLightSoaSwap(t *testing.T) {
	var soa LightSoa
	soa.Resize(2)
	soa.PositionRadius[0] = [4]float32{1, 2, 3, 4}
	soa.PositionRadius[1] = [4]float32{5, 6, 7, 8}
	soa.Visible[0], soa.Visible[1] = 1, 0

	soa.Swap(0, 1)

	assert.Equal(t, [4]float32{5, 6, 7, 8}, soa.PositionRadius[0])
	assert.Equal(t, uint8(1), soa.Visible[1])
}
