// Package scan simulates the deep-scan sweep: a step counter advanced on
// a fixed period that emits canned findings at fixed steps.
package scan

import (
	"fmt"
	"time"

	"github.com/nixlim/sentinel-shield/internal/device"
)

// Phase is the simulator state.
type Phase int

const (
	Idle Phase = iota
	Running
	Complete
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

const (
	// DefaultTickInterval is the period between steps.
	DefaultTickInterval = 300 * time.Millisecond
	// DefaultTotalSteps is the step count at which a scan completes.
	DefaultTotalSteps = 20

	progressStep = 5

	criticalStep = 10
	warningStep  = 15

	// CompleteLabel replaces the current-file label when a scan finishes.
	CompleteLabel = "Scan complete"
)

var filePool = []string{
	"/system/bin/su",
	"/data/data/com.suspicious.app/databases/user_data.db",
	"/sdcard/Download/update_fix_v2.apk",
	"/proc/3412/maps",
	"/system/framework/framework.jar",
}

// Simulator is the Idle -> Running -> Complete state machine. It holds
// no timer; the owner calls Tick on its own schedule and stops calling
// when Phase is no longer Running.
type Simulator struct {
	phase      Phase
	step       int
	progress   int
	label      string
	findings   []device.Finding
	totalSteps int
	now        func() time.Time
}

// NewSimulator returns an idle simulator completing after totalSteps
// steps. Values below 1 use DefaultTotalSteps.
func NewSimulator(totalSteps int) *Simulator {
	if totalSteps < 1 {
		totalSteps = DefaultTotalSteps
	}
	return &Simulator{totalSteps: totalSteps, now: time.Now}
}

// Start begins a new scan, clearing progress and findings. It is a no-op
// while a scan is already running.
func (s *Simulator) Start() bool {
	if s.phase == Running {
		return false
	}
	s.phase = Running
	s.step = 0
	s.progress = 0
	s.label = ""
	s.findings = nil
	return true
}

// Stop cancels a running scan and returns to Idle. Findings gathered so
// far are kept for display.
func (s *Simulator) Stop() bool {
	if s.phase != Running {
		return false
	}
	s.phase = Idle
	s.label = ""
	return true
}

// Tick advances one step. It returns the finding produced by this step,
// if any. Ticks outside Running are ignored.
func (s *Simulator) Tick() *device.Finding {
	if s.phase != Running {
		return nil
	}

	s.step++
	s.progress = min(s.progress+progressStep, 100)
	s.label = fmt.Sprintf("%s [Checking Signature...]", filePool[s.step%len(filePool)])

	var found *device.Finding
	switch s.step {
	case criticalStep:
		found = s.record(device.Finding{
			ID:       "1",
			Target:   "com.suspicious.app",
			Kind:     device.KindProcess,
			Severity: device.SeverityCritical,
			Details:  "Hidden background service attempting unauthorized upload.",
		})
	case warningStep:
		found = s.record(device.Finding{
			ID:       "2",
			Target:   "update_fix_v2.apk",
			Kind:     device.KindFile,
			Severity: device.SeverityWarning,
			Details:  "Self-signed certificate detected, permission mismatch.",
		})
	}

	if s.step >= s.totalSteps {
		s.phase = Complete
		s.progress = 100
		s.label = CompleteLabel
	}
	return found
}

func (s *Simulator) record(f device.Finding) *device.Finding {
	f.Timestamp = s.now()
	s.findings = append(s.findings, f)
	return &f
}

// Phase returns the current state.
func (s *Simulator) Phase() Phase { return s.phase }

// Step returns the number of ticks taken in the current scan.
func (s *Simulator) Step() int { return s.step }

// Progress returns completion in percent, 0-100.
func (s *Simulator) Progress() int { return s.progress }

// Label returns the "currently checking" line.
func (s *Simulator) Label() string { return s.label }

// Findings returns a copy of the findings recorded so far.
func (s *Simulator) Findings() []device.Finding {
	out := make([]device.Finding, len(s.findings))
	copy(out, s.findings)
	return out
}

// AnalysisPrompt builds the context and trace strings sent to the model
// when a finding is analysed.
func AnalysisPrompt(f device.Finding) (subject, trace string) {
	subject = fmt.Sprintf("Android Security Scan. Item Type: %s. Status: %s.", f.Kind, f.Severity)
	trace = fmt.Sprintf("Target: %s. Details: %s. Heuristics: Signature mismatch, excessive wake_locks detected.", f.Target, f.Details)
	return subject, trace
}
