package light

import (
	"testing"

	"github.com/Carmen-Shannon/vista-go/common"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestComputeFroxelGridDimensions(t *testing.T) {
	vp := common.Viewport{Width: 1920, Height: 1080}
	g := ComputeFroxelGrid(vp, 0.1, 100)

	assert.EqualValues(t, 120, g.CountX, "1920 / 16")
	assert.EqualValues(t, 68, g.CountY, "1080 / 16 rounds up")
	assert.EqualValues(t, FroxelSliceCount, g.CountZ)
	assert.EqualValues(t, 120*68*FroxelSliceCount, g.FroxelCount())
}

func TestComputeFroxelGridSliceParams(t *testing.T) {
	g := ComputeFroxelGrid(common.Viewport{Width: 256, Height: 256}, 1, 64)

	slice := func(z float32) float32 {
		return math32.Floor(math32.Log2(z)*g.LogZScale + g.LogZBias)
	}

	assert.InDelta(t, 0, slice(1.0), 1e-5, "near plane lands in slice 0")
	assert.InDelta(t, float32(FroxelSliceCount-1), slice(63.9), 0.51,
		"just inside the far plane lands in the last slice")
	assert.Less(t, slice(2.0), slice(32.0), "slices increase with depth")
}
