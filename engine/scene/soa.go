package scene

import (
	"github.com/Carmen-Shannon/vista-go/engine/light"
)

// soaAlignment is the element count multiple all renderable columns are padded
// to. It is a multiple of the culler's block size, and the visibility mask
// pass relies on it to process masks in full groups without a tail loop.
const soaAlignment = 16

// lightSoaAlignment is the element count multiple the light columns are
// padded to, matching the culler's block size.
const lightSoaAlignment = 8

// VisibilityFlags is a per-renderable bitfield of the state consulted during
// visibility classification.
type VisibilityFlags uint8

const (
	// FlagCastShadows marks the renderable as a shadow caster.
	FlagCastShadows VisibilityFlags = 1 << iota

	// FlagReceiveShadows marks the renderable as a shadow receiver.
	FlagReceiveShadows

	// FlagCullingEnabled enables frustum culling for the renderable. When
	// clear, the renderable is treated as always inside the frustum.
	FlagCullingEnabled
)

// RenderableSoa is the flattened, structure-of-arrays form of the scene's
// renderables, rebuilt by Scene.Prepare each frame and reordered in place by
// the visibility partition passes. All columns are padded to a multiple of
// soaAlignment; entries in [Count, len) are zeroed padding.
type RenderableSoa struct {
	// WorldTransform is the world-space model matrix (column-major), with the
	// world-origin transform folded in.
	WorldTransform [][16]float32

	// AabbCenter and AabbExtent are the world-space bounding box of each
	// renderable (center plus half-extent per axis).
	AabbCenter [][3]float32
	AabbExtent [][3]float32

	// Layers holds each renderable's layer membership bitmask.
	Layers []uint8

	// Flags holds the visibility state bits consulted during classification.
	Flags []VisibilityFlags

	// Masks receives the computed visibility bits each frame.
	Masks []uint8

	// Lods holds the level of detail selected for each renderable this frame;
	// LodCounts holds the number of levels available.
	Lods      []uint8
	LodCounts []uint8

	// Ids holds each renderable's stable scene id, used for GPU object
	// identification and picking.
	Ids []uint32

	// Count is the number of live renderables; the columns may be longer due
	// to padding.
	Count int
}

// Resize grows or shrinks all columns to hold count renderables plus
// alignment padding, zeroing the padded tail.
//
// Parameters:
//   - count: the number of live renderables
func (s *RenderableSoa) Resize(count int) {
	padded := (count + soaAlignment - 1) &^ (soaAlignment - 1)
	if cap(s.WorldTransform) < padded {
		s.WorldTransform = make([][16]float32, padded)
		s.AabbCenter = make([][3]float32, padded)
		s.AabbExtent = make([][3]float32, padded)
		s.Layers = make([]uint8, padded)
		s.Flags = make([]VisibilityFlags, padded)
		s.Masks = make([]uint8, padded)
		s.Lods = make([]uint8, padded)
		s.LodCounts = make([]uint8, padded)
		s.Ids = make([]uint32, padded)
	} else {
		s.WorldTransform = s.WorldTransform[:padded]
		s.AabbCenter = s.AabbCenter[:padded]
		s.AabbExtent = s.AabbExtent[:padded]
		s.Layers = s.Layers[:padded]
		s.Flags = s.Flags[:padded]
		s.Masks = s.Masks[:padded]
		s.Lods = s.Lods[:padded]
		s.LodCounts = s.LodCounts[:padded]
		s.Ids = s.Ids[:padded]
		for i := count; i < padded; i++ {
			s.WorldTransform[i] = [16]float32{}
			s.AabbCenter[i] = [3]float32{}
			s.AabbExtent[i] = [3]float32{}
			s.Layers[i] = 0
			s.Flags[i] = 0
			s.Masks[i] = 0
			s.Lods[i] = 0
			s.LodCounts[i] = 0
			s.Ids[i] = 0
		}
	}
	s.Count = count
}

// PaddedCount returns the padded column length.
//
// Returns:
//   - int: the number of elements in each column including padding
func (s *RenderableSoa) PaddedCount() int {
	return len(s.Masks)
}

// Swap exchanges renderables i and j across every column. Used by the
// visibility partition passes to group renderables without copying columns.
//
// Parameters:
//   - i, j: the element indices to exchange
func (s *RenderableSoa) Swap(i, j int) {
	s.WorldTransform[i], s.WorldTransform[j] = s.WorldTransform[j], s.WorldTransform[i]
	s.AabbCenter[i], s.AabbCenter[j] = s.AabbCenter[j], s.AabbCenter[i]
	s.AabbExtent[i], s.AabbExtent[j] = s.AabbExtent[j], s.AabbExtent[i]
	s.Layers[i], s.Layers[j] = s.Layers[j], s.Layers[i]
	s.Flags[i], s.Flags[j] = s.Flags[j], s.Flags[i]
	s.Masks[i], s.Masks[j] = s.Masks[j], s.Masks[i]
	s.Lods[i], s.Lods[j] = s.Lods[j], s.Lods[i]
	s.LodCounts[i], s.LodCounts[j] = s.LodCounts[j], s.LodCounts[i]
	s.Ids[i], s.Ids[j] = s.Ids[j], s.Ids[i]
}

// LightSoa is the flattened form of the scene's lights for one frame. Slot 0
// is always the directional light; it is reserved even when the scene has
// none, in which case its Instance is invalid. Positional lights follow from
// slot 1. Columns are padded to a multiple of lightSoaAlignment.
type LightSoa struct {
	// PositionRadius packs the world-space light position in xyz and the
	// falloff radius in w. Slot 0 (directional) holds a zero position.
	PositionRadius [][4]float32

	// Directions holds the world-space light direction for directional and
	// spot lights.
	Directions [][3]float32

	// Instances maps each slot back to its handle in the light manager.
	Instances []light.Instance

	// Visible is the scratch column the sphere culler writes into (1 visible,
	// 0 culled).
	Visible []uint8

	// Count is the number of live slots including the reserved directional
	// slot 0.
	Count int
}

// Resize grows or shrinks all columns to hold count light slots plus
// alignment padding, zeroing the padded tail.
//
// Parameters:
//   - count: the number of live light slots (including slot 0)
func (s *LightSoa) Resize(count int) {
	padded := (count + lightSoaAlignment - 1) &^ (lightSoaAlignment - 1)
	if cap(s.PositionRadius) < padded {
		s.PositionRadius = make([][4]float32, padded)
		s.Directions = make([][3]float32, padded)
		s.Instances = make([]light.Instance, padded)
		s.Visible = make([]uint8, padded)
	} else {
		s.PositionRadius = s.PositionRadius[:padded]
		s.Directions = s.Directions[:padded]
		s.Instances = s.Instances[:padded]
		s.Visible = s.Visible[:padded]
		for i := count; i < padded; i++ {
			s.PositionRadius[i] = [4]float32{}
			s.Directions[i] = [3]float32{}
			s.Instances[i] = 0
			s.Visible[i] = 0
		}
	}
	s.Count = count
}

// PaddedCount returns the padded column length.
//
// Returns:
//   - int: the number of elements in each column including padding
func (s *LightSoa) PaddedCount() int {
	return len(s.Visible)
}

// Swap exchanges light slots i and j across every column.
//
// Parameters:
//   - i, j: the slot indices to exchange
func (s *LightSoa) Swap(i, j int) {
	s.PositionRadius[i], s.PositionRadius[j] = s.PositionRadius[j], s.PositionRadius[i]
	s.Directions[i], s.Directions[j] = s.Directions[j], s.Directions[i]
	s.Instances[i], s.Instances[j] = s.Instances[j], s.Instances[i]
	s.Visible[i], s.Visible[j] = s.Visible[j], s.Visible[i]
}

// Truncate reduces Count to n without releasing column storage. Used after
// sorting to drop lights beyond the per-frame cap.
//
// Parameters:
//   - n: the new live slot count; ignored if not smaller than Count
func (s *LightSoa) Truncate(n int) {
	if n < s.Count {
		s.Count = n
	}
}
