package cull

import (
	"fmt"

	"github.com/Carmen-Shannon/vista-go/common"
	"github.com/chewxy/math32"
)

// BlockSize is the element granularity of the batched intersection tests.
// Counts are rounded up to a multiple of BlockSize and the parallel input
// arrays must be padded accordingly; padded rows carry harmless values whose
// results are ignored by downstream consumers.
const BlockSize = 8

// Round rounds count up to the next multiple of BlockSize.
//
// Parameters:
//   - count: the true element count
//
// Returns:
//   - int: count rounded up to the batch granularity
func Round(count int) int {
	return (count + BlockSize - 1) &^ (BlockSize - 1)
}

// Intersects tests each axis-aligned bounding box against the frustum and
// writes the outcome into a single caller-chosen bit of the matching results
// byte, leaving every other bit untouched. Boxes are given as parallel
// center/half-extent arrays. A box counts as visible when, for every plane,
// its center's signed distance plus its projected radius is non-negative
// (planes are oriented positive-inside, see common.Frustum).
//
// The loop is written with boolean-as-integer arithmetic, no data-dependent
// branches, and processes Round(count) elements.
//
// Parameters:
//   - results: per-element visibility mask bytes, mutated in place
//   - frustum: the culling frustum with normalized planes
//   - center: world-space box centers
//   - extent: world-space box half-extents
//   - count: the true element count (rounded up internally)
//   - bit: the destination bit index within each results byte
func Intersects(results []uint8, frustum *common.Frustum, center, extent [][3]float32, count int, bit uint) {
	n := Round(count)
	if len(results) < n || len(center) < n || len(extent) < n {
		panic(fmt.Sprintf("cull: arrays shorter than padded count %d (results=%d center=%d extent=%d)",
			n, len(results), len(center), len(extent)))
	}
	planes := &frustum.Planes
	for i := 0; i < n; i++ {
		c := center[i]
		e := extent[i]
		visible := uint8(1)
		for p := range planes {
			pl := &planes[p]
			dot := pl.Normal[0]*c[0] + pl.Normal[1]*c[1] + pl.Normal[2]*c[2] + pl.Distance +
				math32.Abs(pl.Normal[0])*e[0] + math32.Abs(pl.Normal[1])*e[1] + math32.Abs(pl.Normal[2])*e[2]
			visible &= boolBit(dot >= 0)
		}
		r := results[i] &^ (1 << bit)
		results[i] = r | visible<<bit
	}
}

// IntersectsSpheres tests each bounding sphere against the frustum and
// overwrites the matching results byte with 1 (intersects) or 0 (culled).
// Spheres are packed as xyz center + w radius. A sphere counts as visible
// when, for every plane, its center's signed distance plus its radius is
// non-negative.
//
// Unlike Intersects this replaces the whole results byte: sphere culling is
// the first pass over the light set each frame, so there is no earlier state
// to preserve.
//
// Parameters:
//   - results: per-element visibility bytes, overwritten in place
//   - frustum: the culling frustum with normalized planes
//   - spheres: world-space bounding spheres (xyz center, w radius)
//   - count: the true element count (rounded up internally)
func IntersectsSpheres(results []uint8, frustum *common.Frustum, spheres [][4]float32, count int) {
	n := Round(count)
	if len(results) < n || len(spheres) < n {
		panic(fmt.Sprintf("cull: arrays shorter than padded count %d (results=%d spheres=%d)",
			n, len(results), len(spheres)))
	}
	planes := &frustum.Planes
	for i := 0; i < n; i++ {
		s := spheres[i]
		visible := uint8(1)
		for p := range planes {
			pl := &planes[p]
			dot := pl.Normal[0]*s[0] + pl.Normal[1]*s[1] + pl.Normal[2]*s[2] + pl.Distance + s[3]
			visible &= boolBit(dot >= 0)
		}
		results[i] = visible
	}
}

// boolBit returns 1 when v is true, 0 otherwise.
func boolBit(v bool) uint8 {
	if v {
		return 1
	}
	return 0
}
