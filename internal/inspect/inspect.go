// Package inspect synthesizes the detail view of a process row from
// simple heuristics on its name, hidden flag and load.
package inspect

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/nixlim/sentinel-shield/internal/device"
)

// Details is the synthesized profile of one process.
type Details struct {
	APK           string
	InstallSource string
	Permissions   []string
	OpenFiles     []string
	Connections   []string
	Anomalies     []string
	RiskScore     int // 0-100
	SHA256        string
	ParentPID     int
	User          string
	StartTime     time.Time
}

// HighRisk reports whether the score crosses the alert threshold.
func (d Details) HighRisk() bool {
	return d.RiskScore > 50
}

var users = []string{"root", "system", "u0_a123", "u0_a124", "radio", "wifi"}

// Inspector builds Details and remembers them per PID, so reopening a row
// shows the same checksum, parent and start time.
type Inspector struct {
	rng   *rand.Rand
	now   func() time.Time
	cache map[int]Details
}

// New creates an Inspector. A nil rng uses a randomly seeded generator.
func New(rng *rand.Rand) *Inspector {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Inspector{
		rng:   rng,
		now:   time.Now,
		cache: make(map[int]Details),
	}
}

// Details returns the profile for p, synthesizing it on first use. The
// identity fields are fixed per PID; anomalies and risk follow the row's
// current load.
func (in *Inspector) Details(p device.Process) Details {
	d, ok := in.cache[p.PID]
	if !ok {
		d = in.identity(p)
		in.cache[p.PID] = d
	}
	d.Anomalies, d.RiskScore = assess(p, d.Connections)
	return d
}

// Forget drops the cached profile of pid.
func (in *Inspector) Forget(pid int) {
	delete(in.cache, pid)
}

// Len returns the number of cached profiles.
func (in *Inspector) Len() int {
	return len(in.cache)
}

func (in *Inspector) identity(p device.Process) Details {
	suspicious := IsSuspicious(p)
	userApp := strings.Contains(p.Name, ".") &&
		!strings.HasPrefix(p.Name, "com.android.") &&
		!strings.HasPrefix(p.Name, "com.google.")

	d := Details{
		APK:       "System Process",
		ParentPID: in.rng.IntN(500) + 100,
		User:      users[in.rng.IntN(len(users))],
		StartTime: in.now().Add(-time.Duration(in.rng.IntN(10_000_000)) * time.Millisecond),
		SHA256:    in.checksum(),
	}
	if strings.Contains(p.Name, ".") {
		d.APK = p.Name
	}

	switch {
	case suspicious:
		d.InstallSource = "Unknown (Sideloaded)"
	case userApp:
		d.InstallSource = "Google Play Store"
	default:
		d.InstallSource = "System Partition"
	}

	if userApp {
		d.Permissions = []string{
			"android.permission.INTERNET",
			"android.permission.READ_CONTACTS",
			"android.permission.ACCESS_FINE_LOCATION",
		}
	} else {
		d.Permissions = []string{"CAP_SYS_ADMIN", "CAP_NET_RAW"}
	}

	dataFile := fmt.Sprintf("/data/data/%s/databases/main.db", p.Name)
	if suspicious {
		dataFile = "/data/local/tmp/payload.so"
	}
	d.OpenFiles = []string{
		fmt.Sprintf("/proc/%d/cmdline", p.PID),
		fmt.Sprintf("/proc/%d/status", p.PID),
		fmt.Sprintf("/proc/%d/maps", p.PID),
		dataFile,
		"/system/lib64/libc.so",
		"/dev/binder",
	}

	switch {
	case suspicious:
		d.Connections = []string{
			"45.33.22.11:4444 (TCP) - ESTABLISHED",
			"192.168.1.105:5555 (UDP) - LISTEN",
		}
	case strings.Contains(p.Name, "whatsapp"), strings.Contains(p.Name, "gms"):
		d.Connections = []string{
			"172.217.16.142:443 (HTTPS) - TIME_WAIT",
			"142.250.185.78:443 (HTTPS) - ESTABLISHED",
		}
	}

	return d
}

func (in *Inspector) checksum() string {
	const hex = "0123456789abcdef"
	var b strings.Builder
	b.Grow(64)
	for range 64 {
		b.WriteByte(hex[in.rng.IntN(16)])
	}
	return b.String()
}

// IsSuspicious reports whether a row looks like a threat: hidden, or
// named like a miner.
func IsSuspicious(p device.Process) bool {
	return p.Hidden || strings.Contains(p.Name, "miner")
}

func assess(p device.Process, connections []string) ([]string, int) {
	var anomalies []string
	if p.Hidden {
		anomalies = append(anomalies, "Process is hidden from standard API calls (Rootkit behavior)")
	}
	if p.CPU > 10 {
		anomalies = append(anomalies, "Abnormal CPU consumption detected (Possible mining)")
	}
	if strings.Contains(p.Name, "miner") {
		anomalies = append(anomalies, "Known crypto-miner signature match")
	}
	if p.PID < 2000 && p.Status == device.StatusSuspended {
		anomalies = append(anomalies, "System process suspended unexpectedly")
	}

	score := 0
	if p.Hidden {
		score += 50
	}
	if strings.Contains(p.Name, "miner") {
		score += 40
	}
	if p.CPU > 15 {
		score += 10
	}
	if slices.ContainsFunc(connections, func(c string) bool {
		return strings.Contains(c, "4444") || strings.Contains(c, "5555")
	}) {
		score += 20
	}
	return anomalies, min(score, 100)
}

// Category is the coarse type shown next to a process name.
type Category int

const (
	CategorySystem Category = iota
	CategoryUserApp
	CategoryThreat
)

func (c Category) String() string {
	switch c {
	case CategoryThreat:
		return "Potential Threat"
	case CategoryUserApp:
		return "User Application"
	default:
		return "System Process"
	}
}

// Classify returns the row category used for the table icon.
func Classify(p device.Process) Category {
	if IsSuspicious(p) {
		return CategoryThreat
	}
	if (strings.HasPrefix(p.Name, "com.") || strings.HasPrefix(p.Name, "org.")) &&
		!strings.Contains(p.Name, ".android.") &&
		!strings.Contains(p.Name, ".google.") {
		return CategoryUserApp
	}
	return CategorySystem
}
