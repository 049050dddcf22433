// Package telemetry produces the simulated process and network feeds.
package telemetry

import (
	"math"
	"math/rand/v2"
	"slices"

	"github.com/nixlim/sentinel-shield/internal/device"
)

// DefaultProcessCount is how many rows a fresh source generates.
const DefaultProcessCount = 25

// hiddenIndex is the pool offset of the simulated concealed process.
const hiddenIndex = 15

var namePool = []string{
	"system_server", "com.android.systemui", "zygote64", "kworker/u16:3",
	"logd", "adbd", "surfaceflinger", "com.google.android.gms",
	"com.whatsapp", "com.instagram.android", "mm_camera_daemon",
	"netd", "vold", "rild", "audioserver", "com.unknown.miner", "jdwp",
}

// Source produces process snapshots on demand and advances them on a
// schedule owned by the caller.
type Source interface {
	// Snapshot returns a copy of the current process rows.
	Snapshot() []device.Process
	// Tick perturbs every row once.
	Tick()
	// Kill removes the row with the given PID and reports whether it existed.
	Kill(pid int) bool
}

// MockSource is a Source backed by a pseudo-random generator.
type MockSource struct {
	rng   *rand.Rand
	procs []device.Process
}

// NewMockSource generates count processes using rng. A nil rng uses a
// randomly seeded generator.
func NewMockSource(count int, rng *rand.Rand) *MockSource {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if count < 1 {
		count = DefaultProcessCount
	}
	s := &MockSource{rng: rng}
	s.procs = s.generate(count)
	return s
}

func (s *MockSource) generate(count int) []device.Process {
	procs := make([]device.Process, count)
	for i := range procs {
		cpuScale := 2.0
		if i%5 == 0 {
			cpuScale = 15
		}
		procs[i] = device.Process{
			PID:      1000 + i*50 + s.rng.IntN(20),
			Name:     namePool[i%len(namePool)],
			CPU:      round1(s.rng.Float64() * cpuScale),
			MemoryMB: math.Floor(s.rng.Float64()*300) + 10,
			Hidden:   i == hiddenIndex,
			Status:   device.AllStatuses[s.rng.IntN(len(device.AllStatuses))],
		}
	}
	return procs
}

// Snapshot implements Source.
func (s *MockSource) Snapshot() []device.Process {
	return slices.Clone(s.procs)
}

// Tick implements Source. CPU drifts by up to one point and never drops
// below zero; memory drifts by up to five MB and never drops below ten.
func (s *MockSource) Tick() {
	for i := range s.procs {
		p := &s.procs[i]
		p.CPU = math.Max(0, round1(p.CPU+(s.rng.Float64()-0.5)*2))
		p.MemoryMB = math.Max(10, p.MemoryMB+math.Floor((s.rng.Float64()-0.5)*10))
	}
}

// Kill implements Source.
func (s *MockSource) Kill(pid int) bool {
	i := slices.IndexFunc(s.procs, func(p device.Process) bool { return p.PID == pid })
	if i < 0 {
		return false
	}
	s.procs = slices.Delete(s.procs, i, i+1)
	return true
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
