package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nixlim/sentinel-shield/internal/analysis"
	"github.com/nixlim/sentinel-shield/internal/device"
	"github.com/nixlim/sentinel-shield/internal/inspect"
	"github.com/nixlim/sentinel-shield/internal/telemetry"
)

type processesState struct {
	source    telemetry.Source
	inspector *inspect.Inspector
	sort      device.SortState
	paused    bool
	search    ProcessSearch
	cursor    int

	// Detail overlay. selected and detail are set and cleared together.
	selected *device.Process
	detail   *inspect.Details

	pending bool
	result  *analysis.Result
	seq     analysis.Sequencer
}

func newProcessesState(src telemetry.Source, in *inspect.Inspector) processesState {
	return processesState{
		source:    src,
		inspector: in,
		sort:      device.DefaultSort(),
		search:    NewProcessSearch(),
	}
}

func (s *processesState) searching() bool {
	return s.search.Active
}

// rows returns the filtered, sorted table contents.
func (s *processesState) rows() []device.Process {
	if s.source == nil {
		return nil
	}
	ps := device.FilterProcesses(s.source.Snapshot(), s.search.Query())
	return device.SortProcesses(ps, s.sort)
}

func (s *processesState) clampCursor() {
	n := len(s.rows())
	if s.cursor >= n {
		s.cursor = n - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (m Model) handleProcessesTick() (tea.Model, tea.Cmd) {
	if m.procs.source == nil {
		return m, nil
	}
	if !m.procs.paused {
		m.procs.source.Tick()
	}
	return m, m.tick(tickProcesses, m.cfg.Telemetry.ProcessInterval(), 0)
}

func (m Model) handleProcessesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.procs
	if s.source == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Search):
		return m, s.search.Focus()

	case key.Matches(msg, m.keys.Pause):
		s.paused = !s.paused
		if s.paused {
			m.statusMsg = "Monitoring paused"
		} else {
			m.statusMsg = "Monitoring resumed"
		}
		return m, nil

	case key.Matches(msg, m.keys.SortPID):
		s.sort = s.sort.Toggle(device.SortByPID)
	case key.Matches(msg, m.keys.SortName):
		s.sort = s.sort.Toggle(device.SortByName)
	case key.Matches(msg, m.keys.SortCPU):
		s.sort = s.sort.Toggle(device.SortByCPU)
	case key.Matches(msg, m.keys.SortMemory):
		s.sort = s.sort.Toggle(device.SortByMemory)
	case key.Matches(msg, m.keys.SortStatus):
		s.sort = s.sort.Toggle(device.SortByStatus)

	case key.Matches(msg, m.keys.Up):
		if s.cursor > 0 {
			s.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if s.cursor < len(s.rows())-1 {
			s.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Kill):
		rows := s.rows()
		if s.cursor >= 0 && s.cursor < len(rows) {
			m.killProcess(rows[s.cursor].PID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		rows := s.rows()
		if s.cursor >= 0 && s.cursor < len(rows) {
			m.openDetail(rows[s.cursor])
		}
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if s.search.Query() != "" {
			s.search.Clear()
			s.cursor = 0
		}
		return m, nil

	default:
		return m, nil
	}

	// sort changed
	s.cursor = 0
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.procs
	switch {
	case key.Matches(msg, m.keys.Escape):
		s.search.Clear()
		s.cursor = 0
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		s.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	s.search.Input, cmd = s.search.Input.Update(msg)
	s.cursor = 0
	return m, cmd
}

func (m Model) renderProcesses() string {
	w := m.contentWidth()
	s := m.procs
	if s.source == nil {
		return ""
	}

	all := s.source.Snapshot()
	var cpu, mem float64
	for _, p := range all {
		cpu += p.CPU
		mem += p.MemoryMB
	}
	avg := 0.0
	if len(all) > 0 {
		avg = cpu / float64(len(all))
	}
	summary := fmt.Sprintf("Processes %s   Avg CPU %s   Memory %s",
		infoStyle.Render(fmt.Sprintf("%d", len(all))),
		warningStyle.Render(fmt.Sprintf("%.1f%%", avg)),
		accentStyle.Render(fmt.Sprintf("%.0f MB", mem)))
	if s.paused {
		summary += "   " + warningStyle.Render("[PAUSED]")
	}

	var searchLine string
	switch {
	case s.search.Active:
		searchLine = s.search.Input.View()
	case s.search.Query() != "":
		searchLine = dimStyle.Render("filter: ") + s.search.Query() + dimStyle.Render("  (esc clears)")
	default:
		searchLine = dimStyle.Render("press / to search")
	}

	rows := s.rows()
	var lines []string
	lines = append(lines, dimStyle.Render(m.processHeader()))
	if len(rows) == 0 {
		lines = append(lines, dimStyle.Render("No matching processes"))
	}

	visible := m.contentHeight() - 9
	if visible < 3 {
		visible = 3
	}
	offset := 0
	if s.cursor >= visible {
		offset = s.cursor - visible + 1
	}
	end := min(offset+visible, len(rows))

	for i := offset; i < end; i++ {
		line := formatProcessRow(rows[i])
		if i == s.cursor {
			line = selectedStyle.Render(stripAnsi(line))
		}
		lines = append(lines, line)
	}
	if len(rows) > end {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("── +%d more ──", len(rows)-end)))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		renderPanel("Process Monitor", summary+"\n"+searchLine, w),
		renderPanel("Processes", strings.Join(lines, "\n"), w),
	)
}

func (m Model) processHeader() string {
	cols := []struct {
		field device.SortField
		label string
		width int
	}{
		{device.SortByPID, "PID", 7},
		{device.SortByName, "Name", 30},
		{device.SortByCPU, "CPU %", 8},
		{device.SortByMemory, "Mem MB", 8},
		{device.SortByStatus, "Status", 11},
	}
	var b strings.Builder
	b.WriteString("  ")
	for _, c := range cols {
		label := c.label
		if c.field == m.procs.sort.Field {
			if m.procs.sort.Dir == device.Ascending {
				label += "▲"
			} else {
				label += "▼"
			}
		}
		fmt.Fprintf(&b, "%-*s ", c.width, label)
	}
	return b.String()
}

func formatProcessRow(p device.Process) string {
	var icon string
	switch inspect.Classify(p) {
	case inspect.CategoryThreat:
		icon = criticalStyle.Render("!")
	case inspect.CategoryUserApp:
		icon = infoStyle.Render("◆")
	default:
		icon = dimStyle.Render("·")
	}

	name := truncateStr(p.Name, 30)
	if p.Hidden {
		name = truncateStr(p.Name, 21) + " [hidden]"
	}
	nameCol := fmt.Sprintf("%-30s", name)
	if p.Hidden {
		nameCol = criticalStyle.Render(nameCol)
	}

	cpuCol := fmt.Sprintf("%-8.1f", p.CPU)
	if p.CPU > 10 {
		cpuCol = criticalStyle.Render(cpuCol)
	}

	return fmt.Sprintf("%s %-7d %s %s %-8.0f %s",
		icon, p.PID, nameCol, cpuCol, p.MemoryMB, statusStyle(p.Status).Render(string(p.Status)))
}

func statusStyle(s device.ProcessStatus) lipgloss.Style {
	switch s {
	case device.StatusRunning:
		return safeStyle
	case device.StatusSuspended:
		return warningStyle
	default:
		return dimStyle
	}
}
