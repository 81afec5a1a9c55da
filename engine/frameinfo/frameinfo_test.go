package frameinfo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManagerEmptyHistoryInvalid(t *testing.T) {
	m := NewManager()

	sample := m.Sample(3)
	assert.False(t, sample.Valid)
	assert.Equal(t, time.Duration(0), sample.FrameTime)
}

func TestManagerSampleValidOnceWindowFilled(t *testing.T) {
	m := NewManager()

	m.Push(16 * time.Millisecond)
	m.Push(16 * time.Millisecond)
	assert.False(t, m.Sample(3).Valid)

	m.Push(16 * time.Millisecond)
	sample := m.Sample(3)
	assert.True(t, sample.Valid)
	assert.Equal(t, 16*time.Millisecond, sample.FrameTime)
}

func TestManagerMedianRejectsSpike(t *testing.T) {
	m := NewManager()

	m.Push(16 * time.Millisecond)
	m.Push(120 * time.Millisecond)
	m.Push(17 * time.Millisecond)

	sample := m.Sample(3)
	assert.True(t, sample.Valid)
	assert.Equal(t, 17*time.Millisecond, sample.FrameTime)
}

func TestManagerWindowUsesMostRecentFrames(t *testing.T) {
	m := NewManager()

	m.Push(50 * time.Millisecond)
	m.Push(50 * time.Millisecond)
	m.Push(10 * time.Millisecond)
	m.Push(12 * time.Millisecond)
	m.Push(14 * time.Millisecond)

	sample := m.Sample(3)
	assert.True(t, sample.Valid)
	assert.Equal(t, 12*time.Millisecond, sample.FrameTime)
}

func TestManagerIgnoresNonPositiveDurations(t *testing.T) {
	m := NewManager()

	m.Push(0)
	m.Push(-5 * time.Millisecond)
	assert.False(t, m.Sample(1).Valid)

	m.Push(8 * time.Millisecond)
	sample := m.Sample(1)
	assert.True(t, sample.Valid)
	assert.Equal(t, 8*time.Millisecond, sample.FrameTime)
}

func TestManagerRingWrapsAtCapacity(t *testing.T) {
	m := NewManager()

	for i := 0; i < MaxHistory+10; i++ {
		m.Push(time.Duration(i+1) * time.Millisecond)
	}

	sample := m.Sample(MaxHistory)
	assert.True(t, sample.Valid)
	// The ring holds frames 11..41 ms; the median of that window is 26 ms.
	assert.Equal(t, 26*time.Millisecond, sample.FrameTime)
}

func TestManagerResetClearsHistory(t *testing.T) {
	m := NewManager()

	m.Push(16 * time.Millisecond)
	m.Push(16 * time.Millisecond)
	m.Push(16 * time.Millisecond)
	assert.True(t, m.Sample(3).Valid)

	m.Reset()
	assert.False(t, m.Sample(1).Valid)
}
