package view

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/vista-go/common"
	"github.com/Carmen-Shannon/vista-go/engine/frameinfo"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleMS builds a valid frame-time sample from a millisecond value.
func sampleMS(ms float64) frameinfo.Sample {
	return frameinfo.Sample{FrameTime: time.Duration(ms * float64(time.Millisecond)), Valid: true}
}

func dynResView(vp common.Viewport, opts DynamicResolutionOptions) View {
	return NewView(WithViewport(vp), WithDynamicResolution(opts))
}

// display60 is a 60 Hz display, giving a frame budget of 1000/60 ms with the
// default single-interval pacing.
var display60 = DisplayInfo{RefreshRate: 60}

const targetMS60 = 1000.0 / 60.0

func TestUpdateScaleDisabledPinsToOne(t *testing.T) {
	v := dynResView(common.Viewport{Width: 1920, Height: 1080}, DynamicResolutionOptions{
		Enabled:  false,
		MinScale: 0.5,
		MaxScale: 1.0,
	})

	s := v.UpdateScale(sampleMS(3*targetMS60), DefaultFrameRateOptions(), display60)
	assert.Equal(t, [2]float32{1, 1}, s)
	assert.Equal(t, [2]float32{1, 1}, v.Scale())
}

func TestUpdateScaleInvalidSampleOnlyClamps(t *testing.T) {
	v := dynResView(common.Viewport{Width: 1920, Height: 1080}, DynamicResolutionOptions{
		Enabled:  true,
		MinScale: 0.25,
		MaxScale: 0.75,
	})

	s := v.UpdateScale(frameinfo.Sample{}, DefaultFrameRateOptions(), display60)
	// Full resolution clamped into the configured bounds, then rounded.
	assert.InDelta(t, 0.75, s[0], 8.0/1920)
	assert.InDelta(t, 0.75, s[1], 8.0/1080)
	assert.LessOrEqual(t, s[0], float32(0.75))
	assert.LessOrEqual(t, s[1], float32(0.75))
}

func TestUpdateScaleHoldsAtTarget(t *testing.T) {
	v := dynResView(common.Viewport{Width: 1920, Height: 1080}, DynamicResolutionOptions{
		Enabled:  true,
		MinScale: 0.5,
		MaxScale: 1.0,
	})

	for i := 0; i < 60; i++ {
		s := v.UpdateScale(sampleMS(targetMS60), DefaultFrameRateOptions(), display60)
		assert.Equal(t, [2]float32{1, 1}, s, "frame %d", i)
	}
}

func TestUpdateScaleShrinksMonotonicallyWhenOverBudget(t *testing.T) {
	v := dynResView(common.Viewport{Width: 1920, Height: 1080}, DynamicResolutionOptions{
		Enabled:            true,
		HomogeneousScaling: true,
		MinScale:           0.5,
		MaxScale:           1.0,
	})

	prevArea := float32(1)
	var s [2]float32
	for i := 0; i < 200; i++ {
		s = v.UpdateScale(sampleMS(2*targetMS60), DefaultFrameRateOptions(), display60)
		area := s[0] * s[1]
		assert.LessOrEqual(t, area, prevArea, "frame %d", i)
		assert.GreaterOrEqual(t, s[0], float32(0.5)-8.0/1920, "frame %d", i)
		assert.GreaterOrEqual(t, s[1], float32(0.5)-8.0/1080, "frame %d", i)
		assert.LessOrEqual(t, s[0], float32(1), "frame %d", i)
		assert.LessOrEqual(t, s[1], float32(1), "frame %d", i)
		prevArea = area
	}

	// A sustained 2x overrun pins the scale at the lower bound.
	assert.InDelta(t, 0.5, s[0], 8.0/1920)
	assert.InDelta(t, 0.5, s[1], 8.0/1080)
}

func TestUpdateScaleAnisotropicShrinksMajorAxisFirst(t *testing.T) {
	v := dynResView(common.Viewport{Width: 1920, Height: 1080}, DynamicResolutionOptions{
		Enabled:            true,
		HomogeneousScaling: false,
		MinScale:           0.5,
		MaxScale:           1.0,
	})

	frameRate := DefaultFrameRateOptions()
	s := v.UpdateScale(sampleMS(1.5*targetMS60), frameRate, display60)
	// The wider axis gives ground first; the height stays untouched.
	assert.Less(t, s[0], float32(1))
	assert.Equal(t, float32(1), s[1])

	aspect := float32(1080) / float32(1920)
	sawMinorShrink := false
	for i := 0; i < 300; i++ {
		s = v.UpdateScale(sampleMS(1.5*targetMS60), frameRate, display60)
		require.GreaterOrEqual(t, s[0], float32(0.5)-8.0/1920, "frame %d", i)
		require.LessOrEqual(t, s[0], float32(1), "frame %d", i)
		require.LessOrEqual(t, s[1], float32(1), "frame %d", i)
		if s[1] < 1 {
			// The height only shrinks once the width has been reduced to the
			// square render target the aspect ratio allows.
			sawMinorShrink = true
			assert.LessOrEqual(t, s[0], aspect+8.0/1920, "frame %d", i)
		}
	}
	assert.True(t, sawMinorShrink)
}

func TestUpdateScaleRoundsToEightPixelMultiples(t *testing.T) {
	vp := common.Viewport{Width: 1920, Height: 1080}
	v := dynResView(vp, DynamicResolutionOptions{
		Enabled:  true,
		MinScale: 0.5,
		MaxScale: 1.0,
	})

	for i := 0; i < 50; i++ {
		s := v.UpdateScale(sampleMS(1.7*targetMS60), DefaultFrameRateOptions(), display60)
		if s[0] != 1 {
			w := s[0] * float32(vp.Width)
			assert.InDelta(t, 0, math32.Mod(w, 8), 1e-2, "frame %d width %f", i, w)
		}
		if s[1] != 1 {
			h := s[1] * float32(vp.Height)
			assert.InDelta(t, 0, math32.Mod(h, 8), 1e-2, "frame %d height %f", i, h)
		}
	}
}

func TestUpdateScaleRecoversHeadroom(t *testing.T) {
	v := dynResView(common.Viewport{Width: 1920, Height: 1080}, DynamicResolutionOptions{
		Enabled:            true,
		HomogeneousScaling: true,
		MinScale:           0.25,
		MaxScale:           1.0,
	})

	// Drive the scale down, then feed sustained headroom and expect growth
	// back toward full resolution.
	for i := 0; i < 100; i++ {
		v.UpdateScale(sampleMS(2*targetMS60), DefaultFrameRateOptions(), display60)
	}
	low := v.Scale()
	require.Less(t, low[0], float32(0.5))

	var s [2]float32
	for i := 0; i < 400; i++ {
		s = v.UpdateScale(sampleMS(0.5*targetMS60), DefaultFrameRateOptions(), display60)
	}
	assert.Greater(t, s[0], low[0])
	assert.InDelta(t, 1.0, s[0], 8.0/1920)
}

func TestDynamicResolutionOptionsSanitized(t *testing.T) {
	s := DynamicResolutionOptions{
		MinScale:  -1,
		MaxScale:  5,
		Sharpness: 7,
	}.Sanitized()
	assert.Equal(t, float32(minDynamicScale), s.MinScale)
	assert.Equal(t, float32(maxDynamicScale), s.MaxScale)
	assert.Equal(t, float32(2), s.Sharpness)

	// The upper bound never drops below the lower bound.
	s = DynamicResolutionOptions{MinScale: 0.8, MaxScale: 0.2}.Sanitized()
	assert.Equal(t, float32(0.8), s.MinScale)
	assert.Equal(t, float32(0.8), s.MaxScale)
}

func TestFrameRateOptionsSanitized(t *testing.T) {
	s := FrameRateOptions{HeadRoomRatio: 2, ScaleRate: -1, History: 0, Interval: 0}.Sanitized()
	assert.Equal(t, float32(1), s.HeadRoomRatio)
	assert.Equal(t, float32(0), s.ScaleRate)
	assert.EqualValues(t, 1, s.History)
	assert.EqualValues(t, 1, s.Interval)
}

func TestRoundScale(t *testing.T) {
	// 0.5 of 1920 is already a multiple of eight.
	assert.InDelta(t, 0.5, roundScale(0.5, 1920), 1e-6)
	// Exact full scale is reported untouched.
	assert.Equal(t, float32(1), roundScale(1, 1920))
	// Otherwise the scaled dimension always rounds down to a multiple of 8.
	got := roundScale(0.777, 1920) * 1920
	assert.InDelta(t, 0, math32.Mod(got, 8), 1e-2)
	assert.LessOrEqual(t, got, float32(0.777*1920))
}
