package frameinfo

import (
	"io"
	"log"
	"os"
	"sort"
	"time"
)

// MaxHistory bounds the number of frame durations retained by a Manager.
const MaxHistory = 31

var debugLog = log.New(io.Discard, "", 0)

func init() {
	if os.Getenv("VISTA_DEBUG_FRAMETIME") != "" {
		debugLog = log.New(os.Stderr, "[frameinfo] ", log.Lmsgprefix)
	}
}

// Sample is a denoised frame-duration measurement. FrameTime is the median of
// the most recent frame durations and is only meaningful when Valid is true.
type Sample struct {
	FrameTime time.Duration
	Valid     bool
}

// Manager records per-frame durations in a fixed-size ring and produces
// denoised samples for frame pacing. A sample becomes valid once enough
// history has accumulated to cover the requested window.
type Manager struct {
	history [MaxHistory]time.Duration
	head    int
	count   int
	scratch []time.Duration
}

// NewManager creates a new Manager with an empty frame history.
//
// Returns:
//   - *Manager: the newly created manager instance
func NewManager() *Manager {
	return &Manager{
		scratch: make([]time.Duration, 0, MaxHistory),
	}
}

// Push records the duration of the frame that just completed. Durations that
// are zero or negative are ignored, keeping the history free of clock
// anomalies.
//
// Parameters:
//   - frameTime: measured duration of the completed frame
func (m *Manager) Push(frameTime time.Duration) {
	if frameTime <= 0 {
		return
	}
	m.head = (m.head + 1) % MaxHistory
	m.history[m.head] = frameTime
	if m.count < MaxHistory {
		m.count++
	}
	debugLog.Printf("frame time %v (history %d)", frameTime, m.count)
}

// Sample returns the denoised frame duration over the most recent window
// frames. The duration is the median of the window, which rejects isolated
// spikes from GC pauses or scheduling hiccups. The sample is valid only once
// the history holds at least window entries.
//
// Parameters:
//   - window: number of recent frames to denoise over, clamped to the ring size
//
// Returns:
//   - Sample: median frame duration and validity flag
func (m *Manager) Sample(window uint8) Sample {
	n := int(window)
	if n < 1 {
		n = 1
	}
	if n > MaxHistory {
		n = MaxHistory
	}
	if m.count == 0 {
		return Sample{}
	}

	span := n
	if span > m.count {
		span = m.count
	}
	m.scratch = m.scratch[:0]
	for i := 0; i < span; i++ {
		idx := (m.head - i + MaxHistory) % MaxHistory
		m.scratch = append(m.scratch, m.history[idx])
	}
	sort.Slice(m.scratch, func(i, j int) bool { return m.scratch[i] < m.scratch[j] })

	return Sample{
		FrameTime: m.scratch[span/2],
		Valid:     m.count >= n,
	}
}

// Reset discards all recorded frame history.
func (m *Manager) Reset() {
	m.head = 0
	m.count = 0
}
