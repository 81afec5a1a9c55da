package shadow

import (
	"fmt"

	"github.com/Carmen-Shannon/vista-go/common"
	"github.com/chewxy/math32"
)

// minCullingExtent pads degenerate light-space boxes so the orthographic
// projection stays invertible.
const minCullingExtent = 1e-3

// cameraVolumeCorners returns the eight world-space corners of the camera's
// view volume, recovered by unprojecting the clip-space cube through the
// inverse view-projection. A singular view-projection yields all-zero
// corners.
func cameraVolumeCorners(projection, view [16]float32) [8][3]float32 {
	var viewProj, inv [16]float32
	common.Mul4(viewProj[:], projection[:], view[:])
	if !common.Invert4(inv[:], viewProj[:]) {
		return [8][3]float32{}
	}

	var corners [8][3]float32
	i := 0
	for _, z := range [2]float32{0, 1} { // WebGPU clip depth range
		for _, y := range [2]float32{-1, 1} {
			for _, x := range [2]float32{-1, 1} {
				cx := inv[0]*x + inv[4]*y + inv[8]*z + inv[12]
				cy := inv[1]*x + inv[5]*y + inv[9]*z + inv[13]
				cz := inv[2]*x + inv[6]*y + inv[10]*z + inv[14]
				cw := inv[3]*x + inv[7]*y + inv[11]*z + inv[15]
				if cw != 0 {
					cx, cy, cz = cx/cw, cy/cw, cz/cw
				}
				corners[i] = [3]float32{cx, cy, cz}
				i++
			}
		}
	}
	return corners
}

// lightUpVector picks an up axis that is not parallel to the light direction.
func lightUpVector(direction [3]float32) [3]float32 {
	if math32.Abs(direction[1]) > 0.999 {
		return [3]float32{1, 0, 0}
	}
	return [3]float32{0, 1, 0}
}

func (m *manager) DirectionalCullingFrustum(direction [3]float32) (common.Frustum, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasDirectional {
		return common.Frustum{}, false
	}

	d := common.Normalize3(direction)
	up := lightUpVector(d)
	var lightView [16]float32
	common.LookAt(lightView[:], 0, 0, 0, d[0], d[1], d[2], up[0], up[1], up[2])

	// Light-space bounds of the camera volume.
	minB := [3]float32{math32.Inf(1), math32.Inf(1), math32.Inf(1)}
	maxB := [3]float32{math32.Inf(-1), math32.Inf(-1), math32.Inf(-1)}
	for _, c := range m.cameraCorners {
		p := common.TransformPoint(lightView[:], c)
		for a := range 3 {
			minB[a] = math32.Min(minB[a], p[a])
			maxB[a] = math32.Max(maxB[a], p[a])
		}
	}
	for a := range 3 {
		if maxB[a]-minB[a] < minCullingExtent {
			maxB[a] += minCullingExtent
		}
	}

	// Pull the near plane toward the light by the volume's own depth so
	// casters outside the camera volume still register.
	maxB[2] += maxB[2] - minB[2]

	var ortho, lightViewProj [16]float32
	common.Ortho(ortho[:], minB[0], maxB[0], minB[1], maxB[1], -maxB[2], -minB[2])
	common.Mul4(lightViewProj[:], ortho[:], lightView[:])
	return common.ExtractFrustumFromMatrix(lightViewProj[:]), true
}

func (m *manager) SpotCullingFrustum(slot int, position, direction [3]float32, cosOuter, lightRange float32) common.Frustum {
	m.mu.Lock()
	if slot < 0 || slot >= len(m.spots) {
		m.mu.Unlock()
		panic(fmt.Sprintf("shadow: spot slot %d outside [0, %d)", slot, len(m.spots)))
	}
	m.mu.Unlock()

	// The cone's bounding perspective frustum: square aspect, field of view
	// twice the outer half-angle.
	halfAngle := math32.Acos(common.Clamp(cosOuter, -1, 1))
	fovY := common.Clamp(2*halfAngle, 0.01, math32.Pi-0.01)
	far := math32.Max(lightRange, 2*minCullingExtent)
	near := math32.Max(far/1024, minCullingExtent)

	d := common.Normalize3(direction)
	up := lightUpVector(d)
	var lightView, proj, lightViewProj [16]float32
	common.LookAt(lightView[:],
		position[0], position[1], position[2],
		position[0]+d[0], position[1]+d[1], position[2]+d[2],
		up[0], up[1], up[2])
	common.Perspective(proj[:], fovY, 1, near, far)
	common.Mul4(lightViewProj[:], proj[:], lightView[:])
	return common.ExtractFrustumFromMatrix(lightViewProj[:])
}
