package light

import "github.com/Carmen-Shannon/vista-go/common"

// MaxShadowCascades is the maximum number of depth-range cascades a
// shadow-casting directional light can request. Cascade counts outside
// [1, MaxShadowCascades] are a programming error.
const MaxShadowCascades = 4

// MaxShadowCastingSpots is the maximum number of spot lights that can cast
// shadow maps in a single frame. Each active spot shadow owns one bit of the
// per-renderable visibility mask, so this cap also bounds the mask width.
// Shadow-casting spots beyond the cap are silently ignored for the frame.
const MaxShadowCastingSpots = 4

// ShadowMapResolution is the default width and height in texels of a shadow
// depth texture. Lights use this as their initial map size but can override
// it via ShadowOptions.
const ShadowMapResolution = 2048

// DefaultShadowBias is the constant depth bias applied to shadow comparisons
// to reduce shadow acne artifacts.
const DefaultShadowBias float32 = 0.001

// DefaultShadowNormalBiasScale is the multiplier applied to the shadow map
// texel world-size to compute the normal-offset bias. Higher values push
// the shadow sample point further along the surface normal, reducing
// self-shadowing on concave geometry at the cost of slight shadow
// detachment from contact points. Typical values are 2.0–4.0.
const DefaultShadowNormalBiasScale float32 = 3.0

// ShadowOptions configures how a single light produces shadows. Directional
// lights consume the cascade fields; spot lights use only the map size and
// bias fields. The shadow-map subsystem receives these options verbatim when
// the per-frame setup registers the light as a shadow source.
type ShadowOptions struct {
	// MapSize is the width and height in texels of each shadow map owned by
	// this light.
	MapSize uint32

	// ShadowCascades is the number of depth-range cascades for a directional
	// light, in [1, MaxShadowCascades]. Ignored for spot lights.
	ShadowCascades uint8

	// CascadeSplitPositions are the normalized view-depth split points
	// between cascades, each in (0, 1) and ascending. Only the first
	// ShadowCascades-1 entries are used.
	CascadeSplitPositions [3]float32

	// ConstantBias is the constant depth bias applied during the shadow
	// comparison.
	ConstantBias float32

	// NormalBiasScale is the multiplier on the shadow texel world-size used
	// to offset sample points along the surface normal.
	NormalBiasScale float32

	// ShadowFar is the far distance of the shadowed volume in world units;
	// zero means "use the camera's culling far".
	ShadowFar float32

	// ScreenSpaceContactShadows enables the short-range screen-space ray
	// march for this light, independent of shadow maps.
	ScreenSpaceContactShadows bool
}

// DefaultShadowOptions returns the shadow configuration applied to new
// lights: a single 2048² cascade with the stock bias values.
//
// Returns:
//   - ShadowOptions: the default configuration
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{
		MapSize:               ShadowMapResolution,
		ShadowCascades:        1,
		CascadeSplitPositions: [3]float32{0.125, 0.25, 0.5},
		ConstantBias:          DefaultShadowBias,
		NormalBiasScale:       DefaultShadowNormalBiasScale,
	}
}

// Sanitized returns a copy of the options with every field forced into its
// documented bounds. Out-of-range values are clamped, never rejected.
//
// Returns:
//   - ShadowOptions: the clamped copy
func (o ShadowOptions) Sanitized() ShadowOptions {
	out := o
	out.MapSize = common.Clamp(out.MapSize, 8, 8192)
	out.ShadowCascades = common.Clamp(out.ShadowCascades, 1, MaxShadowCascades)
	for i := range out.CascadeSplitPositions {
		out.CascadeSplitPositions[i] = common.Clamp(out.CascadeSplitPositions[i], 0, 1)
	}
	if out.ShadowFar < 0 {
		out.ShadowFar = 0
	}
	return out
}
