package tui

import (
	"context"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nixlim/sentinel-shield/internal/analysis"
	"github.com/nixlim/sentinel-shield/internal/config"
	"github.com/nixlim/sentinel-shield/internal/device"
	"github.com/nixlim/sentinel-shield/internal/inspect"
	"github.com/nixlim/sentinel-shield/internal/telemetry"
)

type mockSource struct {
	procs []device.Process
	ticks int
	kills []int
}

func newMockSource() *mockSource {
	return &mockSource{procs: []device.Process{
		{PID: 1000, Name: "system_server", CPU: 2.0, MemoryMB: 120, Status: device.StatusRunning},
		{PID: 1050, Name: "com.whatsapp", CPU: 1.5, MemoryMB: 80, Status: device.StatusBackground},
		{PID: 1750, Name: "com.unknown.miner", CPU: 14.0, MemoryMB: 250, Hidden: true, Status: device.StatusRunning},
		{PID: 1200, Name: "logd", CPU: 0.5, MemoryMB: 15, Status: device.StatusSuspended},
	}}
}

func (s *mockSource) Snapshot() []device.Process { return slices.Clone(s.procs) }

func (s *mockSource) Tick() { s.ticks++ }

func (s *mockSource) Kill(pid int) bool {
	for i, p := range s.procs {
		if p.PID == pid {
			s.procs = slices.Delete(s.procs, i, i+1)
			s.kills = append(s.kills, pid)
			return true
		}
	}
	return false
}

type mockAnalyzer struct {
	mu       sync.Mutex
	subjects []string
	logs     [][]string
	reply    analysis.Result
}

func (a *mockAnalyzer) AnalyzeResult(_ context.Context, subject, _ string) analysis.Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.subjects = append(a.subjects, subject)
	return a.reply
}

func (a *mockAnalyzer) InsightResult(_ context.Context, logs []string) analysis.Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.logs = append(a.logs, logs)
	return a.reply
}

func seededInspector() *inspect.Inspector {
	return inspect.New(rand.New(rand.NewPCG(1, 2)))
}

func newTestModel(tab Tab, opts ...ModelOption) Model {
	cfg := config.DefaultConfig()
	opts = append([]ModelOption{
		WithStartTab(tab),
		WithInspector(seededInspector),
	}, opts...)
	m := NewModel(cfg, opts...)
	m.width = 120
	m.height = 40
	return m
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	result, cmd := m.Update(msg)
	return result.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// analysisFrom runs cmd and returns the analysisMsg it produces, looking
// inside batches.
func analysisFrom(t *testing.T, cmd tea.Cmd) analysisMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	switch msg := cmd().(type) {
	case analysisMsg:
		return msg
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			if am, ok := c().(analysisMsg); ok {
				return am
			}
		}
	}
	t.Fatal("command produced no analysisMsg")
	return analysisMsg{}
}

func TestParseTab(t *testing.T) {
	tests := []struct {
		name string
		want Tab
		ok   bool
	}{
		{"dashboard", TabDashboard, true},
		{"Scanner", TabScanner, true},
		{"network", TabNetwork, true},
		{"permissions", TabPermissions, true},
		{"PROCESSES", TabProcesses, true},
		{"about", TabAbout, true},
		{"settings", TabDashboard, false},
	}
	for _, tt := range tests {
		got, ok := ParseTab(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseTab(%q) = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestModel_StartTabFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Display.StartTab = "network"
	m := NewModel(cfg)
	if m.tab != TabNetwork {
		t.Errorf("tab = %v, want Network", m.tab)
	}
	if m.network.feed == nil {
		t.Error("start tab should be mounted")
	}
}

func TestModel_TabCycle(t *testing.T) {
	m := newTestModel(TabDashboard)

	want := []Tab{TabScanner, TabNetwork, TabPermissions, TabProcesses, TabAbout, TabDashboard}
	for _, w := range want {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
		if m.tab != w {
			t.Fatalf("after Tab, tab = %v, want %v", m.tab, w)
		}
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.tab != TabAbout {
		t.Errorf("after Shift+Tab, tab = %v, want About", m.tab)
	}
}

func TestModel_TabSwitchDiscardsPanelState(t *testing.T) {
	mounts := 0
	m := newTestModel(TabProcesses, WithProcessSource(func() telemetry.Source {
		mounts++
		return newMockSource()
	}))

	m, _ = press(t, m, runes("p"))
	m, _ = press(t, m, runes("2"))
	if !m.procs.paused || m.procs.sort.Field != device.SortByName {
		t.Fatal("setup: expected paused and sorted by name")
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.procs.source != nil {
		t.Error("processes state should be discarded after leaving the tab")
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if mounts != 2 {
		t.Errorf("source factory calls = %d, want 2", mounts)
	}
	if m.procs.paused {
		t.Error("pause flag should not survive a tab switch")
	}
	if m.procs.sort != device.DefaultSort() {
		t.Errorf("sort = %+v, want default", m.procs.sort)
	}
}

func TestModel_StaleTickAfterTabSwitch(t *testing.T) {
	src := newMockSource()
	m := newTestModel(TabProcesses, WithProcessSource(func() telemetry.Source { return src }))
	oldGen := m.gen

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})

	result, cmd := m.Update(tickMsg{kind: tickProcesses, gen: oldGen})
	if cmd != nil {
		t.Error("stale tick must not be rescheduled")
	}
	if src.ticks != 0 {
		t.Errorf("stale tick mutated the source %d times", src.ticks)
	}
	_ = result
}

func TestModel_QuitKey(t *testing.T) {
	called := false
	m := newTestModel(TabDashboard, WithOnShutdown(func() { called = true }))

	m2, cmd := press(t, m, runes("q"))
	if !m2.quitting {
		t.Error("after 'q', quitting should be true")
	}
	if cmd == nil {
		t.Error("after 'q', cmd should be non-nil (tea.Quit)")
	}
	if !called {
		t.Error("onShutdown callback should have been called on quit")
	}
	if m2.View() != "Shutting down...\n" {
		t.Errorf("quitting view = %q", m2.View())
	}
}

func TestModel_QuitInvalidatesTimers(t *testing.T) {
	src := newMockSource()
	m := newTestModel(TabProcesses, WithProcessSource(func() telemetry.Source { return src }))
	gen := m.gen

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if _, cmd := m.Update(tickMsg{kind: tickProcesses, gen: gen}); cmd != nil {
		t.Error("tick after quit must not be rescheduled")
	}
}

func TestModel_WindowResize(t *testing.T) {
	m := newTestModel(TabDashboard)

	result, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 50})
	m2 := result.(Model)
	if m2.width != 100 || m2.height != 50 {
		t.Errorf("size = %dx%d, want 100x50", m2.width, m2.height)
	}
}

func TestModel_ViewEveryTab(t *testing.T) {
	src := newMockSource()
	want := map[Tab]string{
		TabDashboard:   "Recent Security Events",
		TabScanner:     "Deep Scan",
		TabNetwork:     "Active Connections",
		TabPermissions: "Permission Manager",
		TabProcesses:   "Process Monitor",
		TabAbout:       "Sentinel Shield Security",
	}
	for tab, text := range want {
		m := newTestModel(tab, WithProcessSource(func() telemetry.Source { return src }))
		m.height = 200
		view := stripAnsi(m.View())
		if !strings.Contains(view, text) {
			t.Errorf("%v view missing %q", tab, text)
		}
		if !strings.Contains(view, "SentinelShield") {
			t.Errorf("%v view missing header", tab)
		}
	}
}

func TestModel_ViewZeroDimensions(t *testing.T) {
	m := NewModel(config.DefaultConfig(), WithStartTab(TabProcesses))
	if m.View() == "" {
		t.Error("view should render with zero dimensions")
	}
}

func TestModel_ViewClampsToHeight(t *testing.T) {
	m := newTestModel(TabDashboard)
	m.height = 12
	if n := len(strings.Split(m.View(), "\n")); n > 12 {
		t.Errorf("view has %d lines, want <= 12", n)
	}
}

func TestModel_AnalysisForUnmountedTabIsDropped(t *testing.T) {
	a := &mockAnalyzer{reply: analysis.Result{Outcome: analysis.OutcomeOK, Text: "report"}}
	m := newTestModel(TabDashboard, WithAnalyzer(a))

	m, cmd := press(t, m, runes("a"))
	msg := analysisFrom(t, cmd)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})

	result, _ := m.Update(msg)
	m = result.(Model)
	if m.dash.result != nil {
		t.Error("reply from a previous mount must be discarded")
	}
}

func TestModel_SpinnerStopsWhenIdle(t *testing.T) {
	m := newTestModel(TabDashboard)
	if _, cmd := m.Update(m.spinner.Tick()); cmd != nil {
		t.Error("spinner should not keep ticking with nothing in flight")
	}
}

func TestAbout_ShowsAnalyzerState(t *testing.T) {
	m := newTestModel(TabAbout, WithAnalyzer(analysis.NewClient("", nil)))
	if !strings.Contains(stripAnsi(m.View()), "AI analysis: offline") {
		t.Error("about should report offline analysis without a key")
	}

	m = newTestModel(TabAbout, WithAnalyzer(analysis.NewClient("k", nil, analysis.WithModel("gemini-test"))))
	if !strings.Contains(stripAnsi(m.View()), "gemini-test") {
		t.Error("about should name the configured model")
	}
}
