package view

import (
	"github.com/Carmen-Shannon/vista-go/common"
	"github.com/Carmen-Shannon/vista-go/engine/light"
	"github.com/Carmen-Shannon/vista-go/engine/scene"
)

// Visibility mask bit layout. The layout is a contract shared by the
// classifier, the partition passes, and the per-object GPU upload: bit 0 is
// camera visibility, bit 1 directional-shadow participation, bits 2..5 one
// per spot shadow slot. light.MaxShadowCastingSpots bounds the spot bits so
// the whole mask fits a byte.
const (
	visibleRenderableBit      = 0
	visibleDirShadowCasterBit = 1
	visibleSpotShadowBaseBit  = 2
)

const (
	visibleRenderableMask      uint8 = 1 << visibleRenderableBit
	visibleDirShadowCasterMask uint8 = 1 << visibleDirShadowCasterBit
	visibleSpotShadowMask      uint8 = ((1 << light.MaxShadowCastingSpots) - 1) << visibleSpotShadowBaseBit
)

// spotShadowCasterMask returns the mask bit owned by the given spot shadow
// slot.
func spotShadowCasterMask(slot int) uint8 {
	return 1 << (visibleSpotShadowBaseBit + uint8(slot))
}

// b2u converts a bool to 0 or 1. The compiler lowers this to a flag set with
// no branch, which keeps the classification loop vectorizable.
func b2u(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// computeVisibilityMasks recomputes every renderable's visibility mask in
// place from its layer, its visibility flags, and the raw geometric test
// bits the cullers already wrote into the mask column. The loop body is pure
// boolean algebra over the padded column (a multiple of 16 rows) with no
// data-dependent branches.
//
// For each row:
//   - the renderable bit requires the row's layer mask to overlap
//     visibleLayers and, when culling is enabled, the geometric renderable
//     bit;
//   - the directional-shadow bit additionally requires the cast-shadows flag
//     (widened to receivers by scene preparation when the technique needs it)
//     and that slot's geometric bit;
//   - each spot slot bit follows the same rule with its own geometric bit.
//
// Padding rows carry a zero layer mask, so they never classify as visible.
func computeVisibilityMasks(visibleLayers uint8, layers []uint8, flags []scene.VisibilityFlags, masks []uint8) {
	for i := range masks {
		mask := masks[i]
		f := flags[i]
		inLayer := layers[i]&visibleLayers != 0
		notCulled := f&scene.FlagCullingEnabled == 0
		casts := f&scene.FlagCastShadows != 0

		visRenderable := (notCulled || mask&visibleRenderableMask != 0) && inLayer
		visDirCaster := (notCulled || mask&visibleDirShadowCasterMask != 0) && inLayer && casts

		spotBits := uint8(0)
		for j := 0; j < light.MaxShadowCastingSpots; j++ {
			bit := uint8(visibleSpotShadowBaseBit + j)
			vis := (notCulled || mask&(1<<bit) != 0) && inLayer && casts
			spotBits |= b2u(vis) << bit
		}

		masks[i] = b2u(visRenderable)<<visibleRenderableBit |
			b2u(visDirCaster)<<visibleDirShadowCasterBit |
			spotBits
	}
}

// renderableRanges describes the frame's partitioned index intervals into
// the renderable columns. All ranges are frame-local: the partition passes
// physically reorder the columns, so indices from a previous frame are
// meaningless.
type renderableRanges struct {
	// visibleRenderables covers the renderables drawn by the color pass:
	// camera-visible objects whether or not they also cast shadows.
	visibleRenderables common.Range

	// visibleDirectionalShadowCasters covers the directional shadow pass:
	// every caster, camera-visible or not.
	visibleDirectionalShadowCasters common.Range

	// spotLightShadowCasters covers the spot shadow passes. It starts at
	// zero: spot casters are scattered through the leading groups, and the
	// per-pass mask bits select the relevant rows.
	spotLightShadowCasters common.Range

	// merged is the per-object GPU upload range: every renderable that
	// contributes to any pass this frame. Upload must cover spot-only
	// casters too, so this subsumes all four leading groups.
	merged common.Range
}

// partitionVisibility reorders the renderable columns in place into five
// contiguous groups and returns the ranges describing them:
//
//  1. camera-visible only
//  2. camera-visible and directional caster
//  3. directional caster only
//  4. spot caster only
//  5. invisible
//
// Three partition passes keyed on the (renderable, directional) bit pair
// carve out groups 1-3, each pass narrowing its window to the tail left by
// the previous one; a final pass separates spot-only casters from the
// invisible remainder. Each pass is a single forward sweep, so the whole
// partition is O(4n) row swaps.
func partitionVisibility(soa *scene.RenderableSoa) renderableRanges {
	n := soa.Count

	beginCasters := partitionByKey(soa, 0, n, visibleRenderableMask)
	beginCastersOnly := partitionByKey(soa, beginCasters, n, visibleRenderableMask|visibleDirShadowCasterMask)
	beginSpotsOnly := partitionByKey(soa, beginCastersOnly, n, visibleDirShadowCasterMask)
	endSpotsOnly := partitionSpotCasters(soa, beginSpotsOnly, n)

	return renderableRanges{
		visibleRenderables:              common.Range{First: 0, Last: beginCastersOnly},
		visibleDirectionalShadowCasters: common.Range{First: beginCasters, Last: beginSpotsOnly},
		spotLightShadowCasters:          common.Range{First: 0, Last: endSpotsOnly},
		merged:                          common.Range{First: 0, Last: endSpotsOnly},
	}
}

// partitionByKey moves every row in [first, last) whose mask matches key on
// the renderable and directional bits ahead of the rows that do not,
// returning the boundary. Spot bits are ignored by the key so spot casters
// ride along with whichever group their other bits place them in.
func partitionByKey(soa *scene.RenderableSoa, first, last int, key uint8) int {
	const keyMask = visibleRenderableMask | visibleDirShadowCasterMask
	lo := first
	for i := first; i < last; i++ {
		if soa.Masks[i]&keyMask == key {
			if i != lo {
				soa.Swap(i, lo)
			}
			lo++
		}
	}
	return lo
}

// partitionSpotCasters moves every row in [first, last) with any spot shadow
// bit set ahead of the rows with none, returning the boundary.
func partitionSpotCasters(soa *scene.RenderableSoa, first, last int) int {
	lo := first
	for i := first; i < last; i++ {
		if soa.Masks[i]&visibleSpotShadowMask != 0 {
			if i != lo {
				soa.Swap(i, lo)
			}
			lo++
		}
	}
	return lo
}
