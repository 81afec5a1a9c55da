package shadow

import (
	"github.com/Carmen-Shannon/vista-go/common"
	"github.com/Carmen-Shannon/vista-go/engine/light"
	"github.com/chewxy/math32"
)

// UniformSplitPositions returns evenly spaced normalized cascade split
// positions for the given cascade count. Only the first cascades-1 entries
// are meaningful; the rest are zero. Suitable for assigning to
// light.ShadowOptions.CascadeSplitPositions.
//
// Parameters:
//   - cascades: the cascade count, clamped to [1, light.MaxShadowCascades]
//
// Returns:
//   - [3]float32: the normalized split positions
func UniformSplitPositions(cascades uint8) [3]float32 {
	cascades = common.Clamp(cascades, 1, light.MaxShadowCascades)
	var out [3]float32
	for s := 1; s < int(cascades); s++ {
		out[s-1] = float32(s) / float32(cascades)
	}
	return out
}

// LogSplitPositions returns logarithmically spaced normalized cascade split
// positions: each cascade covers a constant ratio of depth range, matching
// perspective foreshortening. Only the first cascades-1 entries are
// meaningful.
//
// Parameters:
//   - cascades: the cascade count, clamped to [1, light.MaxShadowCascades]
//   - near, far: the view-space depth range being partitioned (0 < near < far)
//
// Returns:
//   - [3]float32: the normalized split positions
func LogSplitPositions(cascades uint8, near, far float32) [3]float32 {
	cascades = common.Clamp(cascades, 1, light.MaxShadowCascades)
	var out [3]float32
	for s := 1; s < int(cascades); s++ {
		d := math32.Pow(far/near, float32(s)/float32(cascades)) * near
		out[s-1] = (d - near) / (far - near)
	}
	return out
}

// PracticalSplitPositions blends the uniform and logarithmic schemes:
// lambda = 0 is fully uniform, lambda = 1 fully logarithmic. A lambda around
// 0.5 balances near-field shadow resolution against stable far cascades.
//
// Parameters:
//   - cascades: the cascade count, clamped to [1, light.MaxShadowCascades]
//   - near, far: the view-space depth range being partitioned (0 < near < far)
//   - lambda: the blend factor, clamped to [0, 1]
//
// Returns:
//   - [3]float32: the normalized split positions
func PracticalSplitPositions(cascades uint8, near, far, lambda float32) [3]float32 {
	lambda = common.Clamp(lambda, 0, 1)
	uniform := UniformSplitPositions(cascades)
	logarithmic := LogSplitPositions(cascades, near, far)
	var out [3]float32
	for i := range out {
		out[i] = lambda*logarithmic[i] + (1-lambda)*uniform[i]
	}
	return out
}
