package telemetry

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/nixlim/sentinel-shield/internal/device"
)

// NetworkFeed appends one random traffic sample per tick to a window.
type NetworkFeed struct {
	rng    *rand.Rand
	window *SampleWindow
	now    func() time.Time
}

// NewNetworkFeed creates a feed whose window holds size samples. A nil
// rng uses a randomly seeded generator.
func NewNetworkFeed(size int, rng *rand.Rand) *NetworkFeed {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &NetworkFeed{
		rng:    rng,
		window: NewSampleWindow(size),
		now:    time.Now,
	}
}

// Tick appends a sample and returns it.
func (f *NetworkFeed) Tick() device.NetworkSample {
	s := device.NetworkSample{
		TimeLabel:   f.now().Format("15:04:05"),
		UploadKBs:   math.Floor(f.rng.Float64() * 500),
		DownloadKBs: math.Floor(f.rng.Float64() * 1000),
		Connections: f.rng.IntN(20) + 5,
	}
	f.window.Add(s)
	return s
}

// Samples returns the window contents oldest first.
func (f *NetworkFeed) Samples() []device.NetworkSample {
	return f.window.List()
}

// Capacity is the number of samples the window retains.
func (f *NetworkFeed) Capacity() int {
	return f.window.Cap()
}
