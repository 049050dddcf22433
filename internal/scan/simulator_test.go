package scan

import (
	"strings"
	"testing"

	"github.com/nixlim/sentinel-shield/internal/device"
)

func TestSimulator_FullRun(t *testing.T) {
	s := NewSimulator(DefaultTotalSteps)
	if s.Phase() != Idle {
		t.Fatalf("new simulator phase = %v, want idle", s.Phase())
	}
	if !s.Start() {
		t.Fatal("Start from idle should succeed")
	}

	for range DefaultTotalSteps {
		s.Tick()
	}

	if s.Phase() != Complete {
		t.Fatalf("phase after %d ticks = %v, want complete", DefaultTotalSteps, s.Phase())
	}
	if s.Progress() != 100 {
		t.Errorf("progress = %d, want 100", s.Progress())
	}
	if s.Label() != CompleteLabel {
		t.Errorf("label = %q, want %q", s.Label(), CompleteLabel)
	}

	findings := s.Findings()
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(findings))
	}
	if findings[0].Target != "com.suspicious.app" || findings[0].Severity != device.SeverityCritical {
		t.Errorf("first finding = %+v", findings[0])
	}
	if findings[1].Target != "update_fix_v2.apk" || findings[1].Severity != device.SeverityWarning {
		t.Errorf("second finding = %+v", findings[1])
	}
}

func TestSimulator_FindingSteps(t *testing.T) {
	s := NewSimulator(DefaultTotalSteps)
	s.Start()

	for step := 1; step <= DefaultTotalSteps; step++ {
		f := s.Tick()
		switch step {
		case 10:
			if f == nil || f.Kind != device.KindProcess {
				t.Errorf("step 10: expected process finding, got %+v", f)
			}
		case 15:
			if f == nil || f.Kind != device.KindFile {
				t.Errorf("step 15: expected file finding, got %+v", f)
			}
		default:
			if f != nil {
				t.Errorf("step %d: unexpected finding %+v", step, f)
			}
		}
		if step < DefaultTotalSteps && s.Progress() != step*5 {
			t.Errorf("step %d: progress = %d, want %d", step, s.Progress(), step*5)
		}
	}
}

func TestSimulator_LabelCyclesPool(t *testing.T) {
	s := NewSimulator(DefaultTotalSteps)
	s.Start()
	s.Tick()
	if !strings.HasPrefix(s.Label(), filePool[1]) {
		t.Errorf("label after step 1 = %q, want prefix %q", s.Label(), filePool[1])
	}
	for range 4 {
		s.Tick()
	}
	if !strings.HasPrefix(s.Label(), filePool[0]) {
		t.Errorf("label after step 5 = %q, want prefix %q", s.Label(), filePool[0])
	}
	if !strings.HasSuffix(s.Label(), "[Checking Signature...]") {
		t.Errorf("label missing suffix: %q", s.Label())
	}
}

func TestSimulator_TicksIgnoredWhenNotRunning(t *testing.T) {
	s := NewSimulator(DefaultTotalSteps)
	s.Tick()
	if s.Step() != 0 || s.Progress() != 0 {
		t.Errorf("idle tick advanced: step=%d progress=%d", s.Step(), s.Progress())
	}

	s.Start()
	for range DefaultTotalSteps + 5 {
		s.Tick()
	}
	if s.Step() != DefaultTotalSteps {
		t.Errorf("ticks after completion advanced step to %d", s.Step())
	}
	if len(s.Findings()) != 2 {
		t.Errorf("expected 2 findings, got %d", len(s.Findings()))
	}
}

func TestSimulator_StopReturnsToIdle(t *testing.T) {
	s := NewSimulator(DefaultTotalSteps)
	if s.Stop() {
		t.Error("Stop on idle simulator should report false")
	}
	s.Start()
	for range 12 {
		s.Tick()
	}
	if !s.Stop() {
		t.Fatal("Stop while running should succeed")
	}
	if s.Phase() != Idle {
		t.Errorf("phase after stop = %v, want idle", s.Phase())
	}
	s.Tick()
	if s.Step() != 12 {
		t.Errorf("tick after stop advanced step to %d", s.Step())
	}
}

func TestSimulator_RestartClearsFindings(t *testing.T) {
	s := NewSimulator(DefaultTotalSteps)
	s.Start()
	for range DefaultTotalSteps {
		s.Tick()
	}
	if s.Start() != true {
		t.Fatal("Start from complete should succeed")
	}
	if len(s.Findings()) != 0 || s.Progress() != 0 || s.Step() != 0 {
		t.Errorf("restart did not reset: findings=%d progress=%d step=%d",
			len(s.Findings()), s.Progress(), s.Step())
	}
	if s.Start() {
		t.Error("Start while running should be rejected")
	}
}

func TestAnalysisPrompt(t *testing.T) {
	f := device.Finding{Target: "update_fix_v2.apk", Kind: device.KindFile, Severity: device.SeverityWarning, Details: "Self-signed"}
	ctx, trace := AnalysisPrompt(f)
	if ctx != "Android Security Scan. Item Type: File. Status: WARNING." {
		t.Errorf("context = %q", ctx)
	}
	if !strings.Contains(trace, "Target: update_fix_v2.apk.") || !strings.Contains(trace, "Details: Self-signed.") {
		t.Errorf("trace = %q", trace)
	}
}
