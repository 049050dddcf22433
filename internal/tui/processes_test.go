package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nixlim/sentinel-shield/internal/analysis"
	"github.com/nixlim/sentinel-shield/internal/device"
	"github.com/nixlim/sentinel-shield/internal/telemetry"
)

func newProcessesModel(t *testing.T, opts ...ModelOption) (Model, *mockSource) {
	t.Helper()
	src := newMockSource()
	opts = append([]ModelOption{WithProcessSource(func() telemetry.Source { return src })}, opts...)
	return newTestModel(TabProcesses, opts...), src
}

func rowPIDs(m Model) []int {
	var out []int
	for _, p := range m.procs.rows() {
		out = append(out, p.PID)
	}
	return out
}

func TestProcesses_InitSchedulesTick(t *testing.T) {
	m, _ := newProcessesModel(t)
	if m.Init() == nil {
		t.Error("processes tab should schedule its refresh timer on init")
	}
}

func TestProcesses_TickPerturbsAndReschedules(t *testing.T) {
	m, src := newProcessesModel(t)

	result, cmd := m.Update(tickMsg{kind: tickProcesses, gen: m.gen})
	m = result.(Model)
	if src.ticks != 1 {
		t.Errorf("ticks = %d, want 1", src.ticks)
	}
	if cmd == nil {
		t.Error("live tick should be rescheduled")
	}
}

func TestProcesses_PauseSkipsPerturbation(t *testing.T) {
	m, src := newProcessesModel(t)

	m, _ = press(t, m, runes("p"))
	if !m.procs.paused {
		t.Fatal("expected paused")
	}
	_, cmd := m.Update(tickMsg{kind: tickProcesses, gen: m.gen})
	if src.ticks != 0 {
		t.Errorf("paused tick mutated rows %d times", src.ticks)
	}
	if cmd == nil {
		t.Error("timer should keep running while paused")
	}

	m, _ = press(t, m, runes("p"))
	if m.procs.paused {
		t.Error("second 'p' should resume")
	}
}

func TestProcesses_DefaultSortIsCPUDescending(t *testing.T) {
	m, _ := newProcessesModel(t)
	got := rowPIDs(m)
	want := []int{1750, 1000, 1050, 1200}
	if !equalInts(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}
}

func TestProcesses_SortKeys(t *testing.T) {
	m, _ := newProcessesModel(t)

	m, _ = press(t, m, runes("1"))
	if m.procs.sort != (device.SortState{Field: device.SortByPID, Dir: device.Descending}) {
		t.Fatalf("sort = %+v, want pid desc", m.procs.sort)
	}
	if got := rowPIDs(m); !equalInts(got, []int{1750, 1200, 1050, 1000}) {
		t.Errorf("pid desc rows = %v", got)
	}

	m, _ = press(t, m, runes("1"))
	if got := rowPIDs(m); !equalInts(got, []int{1000, 1050, 1200, 1750}) {
		t.Errorf("pid asc rows = %v", got)
	}

	m, _ = press(t, m, runes("4"))
	if m.procs.sort.Field != device.SortByMemory || m.procs.sort.Dir != device.Descending {
		t.Errorf("switching column should reset to descending, got %+v", m.procs.sort)
	}
}

func TestProcesses_Search(t *testing.T) {
	m, _ := newProcessesModel(t)

	m, _ = press(t, m, runes("/"))
	if !m.procs.searching() {
		t.Fatal("'/' should focus the search box")
	}

	// Keys are typed into the box, not treated as commands.
	for _, r := range "whatsapp" {
		m, _ = press(t, m, runes(string(r)))
	}
	if m.procs.paused {
		t.Error("typing 'p' into search must not pause")
	}
	if got := rowPIDs(m); !equalInts(got, []int{1050}) {
		t.Errorf("filtered rows = %v, want [1050]", got)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.procs.searching() {
		t.Error("enter should leave the search box")
	}
	if len(rowPIDs(m)) != 1 {
		t.Error("query should stay applied after enter")
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	if len(rowPIDs(m)) != 4 {
		t.Errorf("esc should clear the filter, rows = %v", rowPIDs(m))
	}
}

func TestProcesses_SearchByPID(t *testing.T) {
	m, _ := newProcessesModel(t)
	m, _ = press(t, m, runes("/"))
	for _, r := range "120" {
		m, _ = press(t, m, runes(string(r)))
	}
	if got := rowPIDs(m); !equalInts(got, []int{1200}) {
		t.Errorf("rows = %v, want [1200]", got)
	}
}

func TestProcesses_KillFromTable(t *testing.T) {
	m, src := newProcessesModel(t)

	// cursor 0 is the miner under the default sort
	m, _ = press(t, m, runes("k"))
	if len(src.kills) != 1 || src.kills[0] != 1750 {
		t.Fatalf("kills = %v, want [1750]", src.kills)
	}
	if len(rowPIDs(m)) != 3 {
		t.Errorf("rows after kill = %v", rowPIDs(m))
	}
	if !strings.Contains(m.statusMsg, "1750") {
		t.Errorf("statusMsg = %q", m.statusMsg)
	}
}

func TestProcesses_KillLastRowClampsCursor(t *testing.T) {
	m, _ := newProcessesModel(t)
	for range 3 {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.procs.cursor != 3 {
		t.Fatalf("cursor = %d, want 3", m.procs.cursor)
	}
	m, _ = press(t, m, runes("k"))
	if m.procs.cursor != 2 {
		t.Errorf("cursor after killing last row = %d, want 2", m.procs.cursor)
	}
}

func TestProcesses_DetailOpenClose(t *testing.T) {
	for _, closeKey := range []tea.KeyMsg{{Type: tea.KeyEscape}, {Type: tea.KeyEnter}} {
		m, _ := newProcessesModel(t)

		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		if m.procs.selected == nil || m.procs.detail == nil {
			t.Fatal("enter should open the detail overlay")
		}
		if m.procs.selected.PID != 1750 {
			t.Errorf("selected pid = %d, want 1750", m.procs.selected.PID)
		}
		if m.procs.detail.RiskScore != 100 {
			t.Errorf("risk score = %d, want 100", m.procs.detail.RiskScore)
		}
		if !strings.Contains(stripAnsi(m.View()), "Unknown (Sideloaded)") {
			t.Error("overlay should render the install source")
		}

		m, _ = press(t, m, closeKey)
		if m.procs.selected != nil || m.procs.detail != nil {
			t.Errorf("%s should clear both selection and detail", closeKey)
		}
	}
}

func TestProcesses_ReopenShowsNewRow(t *testing.T) {
	m, _ := newProcessesModel(t)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	first := m.procs.detail.SHA256
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEscape})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.procs.selected.PID != 1000 {
		t.Fatalf("selected pid = %d, want 1000", m.procs.selected.PID)
	}
	if m.procs.detail.APK != "System Process" {
		t.Errorf("detail is stale: apk = %q", m.procs.detail.APK)
	}
	if m.procs.detail.SHA256 == first {
		t.Error("different row should have a different checksum")
	}
}

func TestProcesses_ReopenSameRowIsStable(t *testing.T) {
	m, _ := newProcessesModel(t)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	first := *m.procs.detail
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.procs.detail.SHA256 != first.SHA256 || !m.procs.detail.StartTime.Equal(first.StartTime) {
		t.Error("reopening the same pid should show the same checksum and start time")
	}
}

func TestProcesses_KillFromOverlayClosesIt(t *testing.T) {
	m, src := newProcessesModel(t)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = press(t, m, runes("k"))

	if len(src.kills) != 1 || src.kills[0] != 1750 {
		t.Errorf("kills = %v, want [1750]", src.kills)
	}
	if m.procs.selected != nil || m.procs.detail != nil {
		t.Error("killing the selected process should close the overlay")
	}
	if m.procs.inspector.Len() != 0 {
		t.Error("killed pid should be forgotten by the inspector")
	}
}

func TestProcesses_OverlayBlocksTableKeys(t *testing.T) {
	m, _ := newProcessesModel(t)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.tab != TabProcesses {
		t.Error("tab switching should wait until the overlay is closed")
	}
	m, _ = press(t, m, runes("2"))
	if m.procs.sort != device.DefaultSort() {
		t.Error("sort keys should be ignored under the overlay")
	}
}

func TestProcesses_OverlayAnalysis(t *testing.T) {
	a := &mockAnalyzer{reply: analysis.Result{Outcome: analysis.OutcomeOK, Text: "process report"}}
	m, _ := newProcessesModel(t, WithAnalyzer(a))

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, cmd := press(t, m, runes("g"))
	if !m.procs.pending {
		t.Fatal("'g' should start an analysis")
	}

	msg := analysisFrom(t, cmd)
	result, _ := m.Update(msg)
	m = result.(Model)

	if m.procs.pending || m.procs.result == nil || m.procs.result.Text != "process report" {
		t.Errorf("result = %+v, pending = %v", m.procs.result, m.procs.pending)
	}
	if len(a.subjects) != 1 || !strings.Contains(a.subjects[0], "Risk score: 100/100") {
		t.Errorf("subjects = %v", a.subjects)
	}
}

func TestProcesses_StaleAnalysisDiscarded(t *testing.T) {
	a := &mockAnalyzer{reply: analysis.Result{Outcome: analysis.OutcomeOK, Text: "report"}}
	m, _ := newProcessesModel(t, WithAnalyzer(a))

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, first := press(t, m, runes("g"))
	m, second := press(t, m, runes("g"))
	firstMsg := analysisFrom(t, first)
	secondMsg := analysisFrom(t, second)

	result, _ := m.Update(firstMsg)
	m = result.(Model)
	if m.procs.result != nil {
		t.Error("older reply must not be shown")
	}

	result, _ = m.Update(secondMsg)
	m = result.(Model)
	if m.procs.result == nil {
		t.Error("latest reply should be shown")
	}
}

func TestProcesses_AnalysisAfterCloseIsDiscarded(t *testing.T) {
	a := &mockAnalyzer{reply: analysis.Result{Outcome: analysis.OutcomeOK, Text: "report"}}
	m, _ := newProcessesModel(t, WithAnalyzer(a))

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, cmd := press(t, m, runes("g"))
	msg := analysisFrom(t, cmd)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	result, _ := m.Update(msg)
	m = result.(Model)
	if m.procs.result != nil {
		t.Error("reply for a closed overlay must not appear on another row")
	}
}

func TestProcesses_RenderTotalsAndSortMarker(t *testing.T) {
	m, _ := newProcessesModel(t)
	view := stripAnsi(m.View())

	for _, want := range []string{"Processes 4", "Avg CPU 4.5%", "Memory 465 MB", "CPU %▼", "[hidden]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m, _ = press(t, m, runes("p"))
	if !strings.Contains(stripAnsi(m.View()), "[PAUSED]") {
		t.Error("paused marker missing")
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
