package view

import (
	"github.com/Carmen-Shannon/vista-go/common"
	"github.com/Carmen-Shannon/vista-go/engine/frameinfo"
	"github.com/chewxy/math32"
)

// minDynamicScale is the hard floor for the per-axis scale bounds. Scales
// below this produce render targets too small to be useful.
const minDynamicScale = 1.0 / 1024.0

// maxDynamicScale is the hard ceiling for the per-axis scale bounds. The
// upscale pass filters bilinearly, so super-sampling beyond 2x is wasted work.
const maxDynamicScale = 2.0

// defaultRefreshRate is assumed when the display reports no refresh rate.
const defaultRefreshRate = 60.0

// DynamicResolutionOptions controls how a view trades render-target resolution
// for frame time. When enabled, the view adjusts its internal resolution every
// frame so the measured frame time converges on the display's frame budget.
type DynamicResolutionOptions struct {
	// Enabled turns dynamic resolution on for the view.
	Enabled bool
	// HomogeneousScaling forces both axes to scale by the same factor. When
	// false, the larger viewport axis is reduced first, which tends to be
	// less noticeable.
	HomogeneousScaling bool
	// MinScale is the lowest per-axis scale the controller may choose.
	MinScale float32
	// MaxScale is the highest per-axis scale the controller may choose.
	// Values above 1 super-sample the scene.
	MaxScale float32
	// Sharpness controls the sharpening strength applied when the scaled
	// frame is blitted back up to the viewport size.
	Sharpness float32
}

// DefaultDynamicResolutionOptions returns the options used when a view is
// built without explicit dynamic resolution settings: disabled, anisotropic,
// scaling between half and full resolution.
//
// Returns:
//   - DynamicResolutionOptions: the default option set
func DefaultDynamicResolutionOptions() DynamicResolutionOptions {
	return DynamicResolutionOptions{
		Enabled:            false,
		HomogeneousScaling: false,
		MinScale:           0.5,
		MaxScale:           1.0,
		Sharpness:          0.9,
	}
}

// Sanitized returns a copy of the options with every field forced into its
// supported range: the scale bounds are kept ordered and inside
// [1/1024, 2], and sharpness is clamped to [0, 2].
//
// Returns:
//   - DynamicResolutionOptions: the sanitized copy
func (o DynamicResolutionOptions) Sanitized() DynamicResolutionOptions {
	s := o
	s.MinScale = math32.Max(s.MinScale, minDynamicScale)
	s.MaxScale = math32.Max(s.MaxScale, s.MinScale)
	s.MaxScale = math32.Min(s.MaxScale, maxDynamicScale)
	s.Sharpness = common.Clamp(s.Sharpness, 0, 2)
	return s
}

// FrameRateOptions tunes the frame pacing that drives dynamic resolution.
type FrameRateOptions struct {
	// HeadRoomRatio reserves a fraction of the frame budget for work outside
	// the measured scope, such as composition. 0 targets the full budget.
	HeadRoomRatio float32
	// ScaleRate controls how aggressively the scale reacts to frame-time
	// error. Higher values converge faster but oscillate more.
	ScaleRate float32
	// History is the number of frame samples the pacing controller denoises
	// over before acting.
	History uint8
	// Interval is the swap interval in display refresh periods. 2 targets
	// half the refresh rate.
	Interval uint8
}

// DefaultFrameRateOptions returns the pacing configuration used when the
// renderer is built without explicit frame-rate settings.
//
// Returns:
//   - FrameRateOptions: the default option set
func DefaultFrameRateOptions() FrameRateOptions {
	return FrameRateOptions{
		HeadRoomRatio: 0.0,
		ScaleRate:     1.0 / 8.0,
		History:       3,
		Interval:      1,
	}
}

// Sanitized returns a copy of the options with every field forced into its
// supported range.
//
// Returns:
//   - FrameRateOptions: the sanitized copy
func (o FrameRateOptions) Sanitized() FrameRateOptions {
	s := o
	s.HeadRoomRatio = common.Clamp(s.HeadRoomRatio, 0, 1)
	s.ScaleRate = math32.Max(s.ScaleRate, 0)
	if s.History < 1 {
		s.History = 1
	}
	if s.History > frameinfo.MaxHistory {
		s.History = frameinfo.MaxHistory
	}
	if s.Interval < 1 {
		s.Interval = 1
	}
	return s
}

// DisplayInfo describes the presentation target the frame budget is derived
// from.
type DisplayInfo struct {
	// RefreshRate is the display refresh rate in Hz.
	RefreshRate float32
}

// DefaultDisplayInfo returns a 60 Hz display description.
//
// Returns:
//   - DisplayInfo: the default display description
func DefaultDisplayInfo() DisplayInfo {
	return DisplayInfo{RefreshRate: defaultRefreshRate}
}

func (v *viewImpl) UpdateScale(sample frameinfo.Sample, frameRate FrameRateOptions, display DisplayInfo) [2]float32 {
	v.mu.Lock()
	defer v.mu.Unlock()

	opts := v.dynamicResolution
	if opts.Enabled {
		if sample.Valid {
			v.updateScaleLocked(sample, frameRate.Sanitized(), display)
		} else {
			// No usable measurement yet; hold at full resolution within the
			// configured bounds.
			s := common.Clamp(1, opts.MinScale, opts.MaxScale)
			v.scale = [2]float32{s, s}
		}
	} else {
		v.scale = [2]float32{1, 1}
	}

	reported := [2]float32{
		roundScale(v.scale[0], float32(v.viewport.Width)),
		roundScale(v.scale[1], float32(v.viewport.Height)),
	}
	v.reportedScale = reported
	return reported
}

// updateScaleLocked runs one step of the frame pacing loop. The controller
// output is treated as a scale velocity: it multiplies the current render
// area rather than setting an absolute scale, so a zero output (inside the
// dead band) holds the current resolution.
func (v *viewImpl) updateScaleLocked(sample frameinfo.Sample, frameRate FrameRateOptions, display DisplayInfo) {
	opts := v.dynamicResolution

	kp := 1 - math32.Exp(-frameRate.ScaleRate)
	v.pid.setParallelGains(kp, 0.002, 0)

	refresh := display.RefreshRate
	if refresh <= 0 {
		refresh = defaultRefreshRate
	}

	// Frame budget in milliseconds, reduced by the configured headroom.
	target := (1000.0 * float32(frameRate.Interval)) / refresh
	targetWithHeadroom := target * (1 - frameRate.HeadRoomRatio)
	measured := float32(sample.FrameTime.Seconds() * 1000.0)
	out := v.pid.update(measured/targetWithHeadroom, 1, 1)

	// Map the controller output to an area multiplier. Negative outputs
	// compress toward zero instead of going negative.
	var command float32
	if out < 0 {
		command = 1 / (1 - out)
	} else {
		command = 1 + out
	}

	w := v.scale[0]
	h := v.scale[1]
	scale := w * h * command

	if scale < 1 && !opts.HomogeneousScaling && !v.viewport.Empty() {
		major := float32(max(v.viewport.Width, v.viewport.Height))
		minor := float32(min(v.viewport.Width, v.viewport.Height))

		// The major viewport axis shrinks first, but no further than the
		// square render target the aspect ratio allows.
		maxMajorScale := minor / major
		majorScale := math32.Max(scale, maxMajorScale)

		// The minor axis then absorbs the remaining reduction until the
		// original aspect ratio is reached rotated a quarter turn.
		minorScale := math32.Max(scale/majorScale, majorScale*maxMajorScale)

		// Whatever reduction is still unaccounted for applies to both axes.
		homogeneousScale := scale / (majorScale * minorScale)
		axis := math32.Sqrt(homogeneousScale)
		if v.viewport.Width >= v.viewport.Height {
			w = majorScale * axis
			h = minorScale * axis
		} else {
			h = majorScale * axis
			w = minorScale * axis
		}
	} else {
		s := math32.Sqrt(scale)
		w = s
		h = s
	}

	clampedW := common.Clamp(w, opts.MinScale, opts.MaxScale)
	clampedH := common.Clamp(h, opts.MinScale, opts.MaxScale)
	v.scale = [2]float32{clampedW, clampedH}

	// While the scale saturates against its bounds the integral term would
	// wind up; freeze it until the output is controllable again.
	v.pid.setIntegralInhibitionEnabled(clampedW != w || clampedH != h)
}

// roundScale snaps a scale factor so the scaled dimension lands on a multiple
// of eight pixels, which keeps downstream passes friendly to block-based
// work sizes. A scale of exactly 1 is reported unchanged.
func roundScale(x, dimension float32) float32 {
	if x == 1 || dimension <= 0 {
		return x
	}
	return math32.Floor(x*dimension/8.0) * 8.0 / dimension
}
