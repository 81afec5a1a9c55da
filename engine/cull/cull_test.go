package cull

import (
	"testing"

	"github.com/Carmen-Shannon/vista-go/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// boxFrustum builds an axis-aligned "frustum" enclosing [-he, he] on every
// axis, with planes oriented positive-inside like the real extraction.
func boxFrustum(he float32) common.Frustum {
	return common.Frustum{Planes: [6]common.Plane{
		{Normal: [3]float32{1, 0, 0}, Distance: he},
		{Normal: [3]float32{-1, 0, 0}, Distance: he},
		{Normal: [3]float32{0, 1, 0}, Distance: he},
		{Normal: [3]float32{0, -1, 0}, Distance: he},
		{Normal: [3]float32{0, 0, 1}, Distance: he},
		{Normal: [3]float32{0, 0, -1}, Distance: he},
	}}
}

func pad3(vals ...[3]float32) [][3]float32 {
	out := make([][3]float32, Round(len(vals)))
	copy(out, vals)
	return out
}

func pad4(vals ...[4]float32) [][4]float32 {
	out := make([][4]float32, Round(len(vals)))
	copy(out, vals)
	return out
}

func TestRound(t *testing.T) {
	assert.Equal(t, 0, Round(0))
	assert.Equal(t, 8, Round(1))
	assert.Equal(t, 8, Round(8))
	assert.Equal(t, 16, Round(9))
	assert.Equal(t, 16, Round(16))
}

func TestIntersectsAabb(t *testing.T) {
	f := boxFrustum(10)

	center := pad3(
		[3]float32{0, 0, 0},    // fully inside
		[3]float32{20, 0, 0},   // fully outside +x
		[3]float32{10, 0, 0},   // center on the right plane
		[3]float32{15, 0, 0},   // outside, but extent reaches back in
		[3]float32{15, 15, 15}, // outside on three axes, extent too small
	)
	extent := pad3(
		[3]float32{1, 1, 1},
		[3]float32{1, 1, 1},
		[3]float32{1, 1, 1},
		[3]float32{6, 6, 6},
		[3]float32{2, 2, 2},
	)
	results := make([]uint8, Round(5))

	Intersects(results, &f, center, extent, 5, 0)

	assert.EqualValues(t, 1, results[0]&1, "inside box must be visible")
	assert.EqualValues(t, 0, results[1]&1, "box past the right plane must be culled")
	assert.EqualValues(t, 1, results[2]&1, "box straddling a plane must be visible")
	assert.EqualValues(t, 1, results[3]&1, "extent reaching across the plane keeps the box visible")
	assert.EqualValues(t, 0, results[4]&1, "box outside every reachable plane must be culled")
}

func TestIntersectsTargetsSingleBit(t *testing.T) {
	f := boxFrustum(10)

	center := pad3(
		[3]float32{0, 0, 0},  // visible
		[3]float32{50, 0, 0}, // culled
	)
	extent := pad3(
		[3]float32{1, 1, 1},
		[3]float32{1, 1, 1},
	)

	results := make([]uint8, Round(2))
	results[0] = 0b0101_0001 // unrelated bits set, target bit clear
	results[1] = 0b0000_1000 // target bit set, must be cleared for culled row

	const bit = 3
	Intersects(results, &f, center, extent, 2, bit)

	assert.EqualValues(t, 0b0101_1001, results[0], "visible row sets only the target bit")
	assert.EqualValues(t, 0b0000_0000, results[1], "culled row clears only the target bit")
}

func TestIntersectsPanicsOnShortArrays(t *testing.T) {
	f := boxFrustum(10)
	center := make([][3]float32, 5) // 5 < Round(5)
	extent := make([][3]float32, 5)
	results := make([]uint8, 5)

	require.Panics(t, func() {
		Intersects(results, &f, center, extent, 5, 0)
	})
}

func TestIntersectsSpheres(t *testing.T) {
	f := boxFrustum(10)

	spheres := pad4(
		[4]float32{0, 0, 0, 1},   // inside
		[4]float32{20, 0, 0, 1},  // outside, radius too small
		[4]float32{12, 0, 0, 3},  // outside, radius reaches in
		[4]float32{0, -20, 0, 5}, // below, radius too small
	)
	results := make([]uint8, Round(4))
	for i := range results {
		results[i] = 0xFF // stale state must be overwritten
	}

	IntersectsSpheres(results, &f, spheres, 4)

	assert.EqualValues(t, 1, results[0])
	assert.EqualValues(t, 0, results[1])
	assert.EqualValues(t, 1, results[2])
	assert.EqualValues(t, 0, results[3])
}

func TestIntersectsWithExtractedFrustum(t *testing.T) {
	proj := make([]float32, 16)
	view := make([]float32, 16)
	viewProj := make([]float32, 16)
	common.Perspective(proj, 1.0, 16.0/9.0, 0.1, 100.0)
	common.LookAt(view, 0, 0, 0, 0, 0, -1, 0, 1, 0)
	common.Mul4(viewProj, proj, view)
	f := common.ExtractFrustumFromMatrix(viewProj)

	spheres := pad4(
		[4]float32{0, 0, -10, 1},   // straight ahead
		[4]float32{0, 0, 10, 1},    // behind the camera
		[4]float32{-90, 0, -10, 1}, // far off to the left
	)
	results := make([]uint8, Round(3))

	IntersectsSpheres(results, &f, spheres, 3)

	assert.EqualValues(t, 1, results[0], "sphere ahead of the camera must be visible")
	assert.EqualValues(t, 0, results[1], "sphere behind the camera must be culled")
	assert.EqualValues(t, 0, results[2], "sphere outside the left plane must be culled")
}
