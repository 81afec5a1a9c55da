package light

import (
	"github.com/Carmen-Shannon/vista-go/common"
	"github.com/chewxy/math32"
)

// FroxelDimension is the width and height in pixels of each screen-space
// froxel column. The scaled viewport is divided into a grid of columns, each
// FroxelDimension × FroxelDimension pixels, which is further sliced in depth;
// lights are assigned to froxels on the GPU so the fragment shader only
// evaluates lights relevant to its cell.
const FroxelDimension = 16

// FroxelSliceCount is the number of exponential depth slices in the froxel
// grid. Depth slicing is exponential so near cells stay small where lighting
// detail matters most.
const FroxelSliceCount = 16

// MaxLightsPerFroxel is the maximum number of light indices stored per froxel
// in the light index buffer. If more lights overlap a froxel, excess lights
// are silently dropped. Indices are 8 bits, which is why MaxGPULights is
// capped at 256.
const MaxLightsPerFroxel = 256

// FroxelGrid describes the froxel grid dimensions and the depth-slicing
// parameters for the current scaled viewport. The grid is recomputed whenever
// the scaled viewport or the light near/far planes change; the values feed
// the per-view uniform block.
type FroxelGrid struct {
	// CountX is the number of froxel columns.
	CountX uint32
	// CountY is the number of froxel rows.
	CountY uint32
	// CountZ is the number of depth slices (FroxelSliceCount).
	CountZ uint32
	// ZLightNear is the near distance of the sliced volume in view space.
	ZLightNear float32
	// ZLightFar is the far distance of the sliced volume in view space.
	ZLightFar float32
	// LogZScale is the multiplier of the shader's slice computation:
	// slice = floor(log2(viewZ) * LogZScale + LogZBias).
	LogZScale float32
	// LogZBias is the offset of the shader's slice computation.
	LogZBias float32
}

// FroxelCount returns the total number of froxels in the grid.
//
// Returns:
//   - uint32: CountX * CountY * CountZ
func (g FroxelGrid) FroxelCount() uint32 {
	return g.CountX * g.CountY * g.CountZ
}

// ComputeFroxelGrid computes the froxel grid for a scaled viewport and light
// depth range. The horizontal grid is the viewport divided into
// FroxelDimension-pixel columns (rounding up), and depth is split into
// FroxelSliceCount exponential slices between zLightNear and zLightFar.
//
// Parameters:
//   - viewport: the scaled viewport in pixels
//   - zLightNear: near distance of the lit volume (must be > 0)
//   - zLightFar: far distance of the lit volume (must be > zLightNear)
//
// Returns:
//   - FroxelGrid: the computed grid parameters
func ComputeFroxelGrid(viewport common.Viewport, zLightNear, zLightFar float32) FroxelGrid {
	countX := (viewport.Width + FroxelDimension - 1) / FroxelDimension
	countY := (viewport.Height + FroxelDimension - 1) / FroxelDimension

	// slice(z) = floor(log2(z) * scale + bias), inverted from
	// z_i = near * (far/near)^(i / sliceCount).
	logRatio := math32.Log2(zLightFar / zLightNear)
	scale := float32(FroxelSliceCount) / logRatio
	bias := -math32.Log2(zLightNear) * scale

	return FroxelGrid{
		CountX:     countX,
		CountY:     countY,
		CountZ:     FroxelSliceCount,
		ZLightNear: zLightNear,
		ZLightFar:  zLightFar,
		LogZScale:  scale,
		LogZBias:   bias,
	}
}
