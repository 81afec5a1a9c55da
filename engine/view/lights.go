package view

import (
	"sort"

	"github.com/Carmen-Shannon/vista-go/common"
	"github.com/Carmen-Shannon/vista-go/engine/cull"
	"github.com/Carmen-Shannon/vista-go/engine/light"
	"github.com/Carmen-Shannon/vista-go/engine/scene"
)

// prepareVisibleLights culls, filters, sorts, and caps the frame's light
// list in place. On return, slot 0 holds the directional light (present and
// visible regardless of any test), slots [1, Count) hold the surviving
// positional lights in ascending camera-distance order, and Count is at most
// light.MaxGPULights+1. Lights are dropped when their culling sphere misses
// the frustum, when they are disabled or have no intensity, and when a spot
// cone provably cannot reach into the frustum.
//
// distances is a scratch buffer reused across frames; the possibly
// reallocated slice is returned for the caller to keep.
func prepareVisibleLights(lm light.Manager, viewMatrix [16]float32, frustum *common.Frustum, lightData *scene.LightSoa, distances []float32) []float32 {
	cull.IntersectsSpheres(lightData.Visible, frustum, lightData.PositionRadius, lightData.Count)

	// The directional light never participates in culling.
	lightData.Visible[0] = 1

	visibleCount := 1
	for i := 1; i < lightData.Count; i++ {
		if lightData.Visible[i] == 0 {
			continue
		}
		li := lightData.Instances[i]
		if !li.IsValid() || !lm.IsLightCaster(li) {
			lightData.Visible[i] = 0
			continue
		}
		if lm.Intensity(li) <= 0 {
			lightData.Visible[i] = 0
			continue
		}
		if lm.IsSpotLight(li) && spotConeMissesFrustum(frustum,
			lightData.PositionRadius[i], lightData.Directions[i], lm.CosOuterSquared(li)) {
			lightData.Visible[i] = 0
			continue
		}
		visibleCount++
	}

	// Move the survivors up against slot 0 so they form one contiguous run.
	lo := 1
	for i := 1; i < lightData.Count; i++ {
		if lightData.Visible[i] != 0 {
			if i != lo {
				lightData.Swap(i, lo)
			}
			lo++
		}
	}

	if visibleCount > 1 {
		// Sort the positional run by camera distance so the nearest lights
		// survive the cap and later stages get locality for free. Slot 0 is
		// included in the distance computation (skipping it costs more than
		// computing it) but excluded from the sort.
		padded := (visibleCount + 3) &^ 3
		if cap(distances) < padded {
			distances = make([]float32, padded)
		}
		distances = distances[:padded]
		computeLightCameraDistances(distances, viewMatrix, lightData.PositionRadius, visibleCount)

		sort.Sort(&lightDistanceSorter{
			soa:       lightData,
			distances: distances,
			count:     visibleCount - 1,
		})
	}

	lightData.Truncate(min(visibleCount, light.MaxGPULights+1))
	return distances
}

// spotConeMissesFrustum reports whether a spot cone provably cannot reach
// into the frustum: some plane has the cone apex outside (p < 0) with the
// axis pointing away (c < 0) and an opening too narrow to reach back across
// the plane ((1-c²) < cos²outer).
func spotConeMissesFrustum(frustum *common.Frustum, positionRadius [4]float32, axis [3]float32, cosOuterSquared float32) bool {
	invisible := false
	for _, pl := range frustum.Planes {
		p := pl.Normal[0]*positionRadius[0] +
			pl.Normal[1]*positionRadius[1] +
			pl.Normal[2]*positionRadius[2] + pl.Distance
		c := pl.Normal[0]*axis[0] + pl.Normal[1]*axis[1] + pl.Normal[2]*axis[2]
		invisible = invisible || ((1.0-c*c) < cosOuterSquared && c < 0 && p < 0)
	}
	return invisible
}

// computeLightCameraDistances fills distances with the view-space distance
// of each light position. The loop runs over a multiple of 4 rows so it
// stays vectorizable; the light columns are padded accordingly.
func computeLightCameraDistances(distances []float32, viewMatrix [16]float32, spheres [][4]float32, count int) {
	n := (count + 3) &^ 3
	for i := 0; i < n; i++ {
		s := spheres[i]
		p := common.TransformPoint(viewMatrix[:], [3]float32{s[0], s[1], s[2]})
		distances[i] = common.Length3(p)
	}
}

// lightDistanceSorter sorts the positional light run [1, 1+count) by
// ascending camera distance, keeping the distance array paired with the
// light columns through every swap.
type lightDistanceSorter struct {
	soa       *scene.LightSoa
	distances []float32
	count     int
}

func (s *lightDistanceSorter) Len() int {
	return s.count
}

func (s *lightDistanceSorter) Less(i, j int) bool {
	return s.distances[1+i] < s.distances[1+j]
}

func (s *lightDistanceSorter) Swap(i, j int) {
	a, b := 1+i, 1+j
	s.soa.Swap(a, b)
	s.distances[a], s.distances[b] = s.distances[b], s.distances[a]
}
