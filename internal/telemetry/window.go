package telemetry

import "github.com/nixlim/sentinel-shield/internal/device"

// DefaultWindowSize is the number of samples the traffic chart keeps.
const DefaultWindowSize = 20

// SampleWindow is a fixed-capacity ring of network samples. When full,
// the oldest sample is evicted to make room (FIFO).
type SampleWindow struct {
	items []device.NetworkSample
	cap   int
	head  int // index of the oldest element
	count int
}

// NewSampleWindow creates a window with the given capacity (minimum 1).
func NewSampleWindow(capacity int) *SampleWindow {
	if capacity < 1 {
		capacity = 1
	}
	return &SampleWindow{
		items: make([]device.NetworkSample, capacity),
		cap:   capacity,
	}
}

// Add appends a sample, overwriting the oldest one when the window is full.
func (w *SampleWindow) Add(s device.NetworkSample) {
	if w.count == w.cap {
		w.items[w.head] = s
		w.head = (w.head + 1) % w.cap
		return
	}
	w.items[(w.head+w.count)%w.cap] = s
	w.count++
}

// List returns the samples oldest first.
func (w *SampleWindow) List() []device.NetworkSample {
	if w.count == 0 {
		return nil
	}
	out := make([]device.NetworkSample, w.count)
	for i := 0; i < w.count; i++ {
		out[i] = w.items[(w.head+i)%w.cap]
	}
	return out
}

// Len returns the number of samples held.
func (w *SampleWindow) Len() int { return w.count }

// Cap returns the window capacity.
func (w *SampleWindow) Cap() int { return w.cap }
