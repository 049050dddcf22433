package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nixlim/sentinel-shield/internal/analysis"
	"github.com/nixlim/sentinel-shield/internal/device"
	"github.com/nixlim/sentinel-shield/internal/inspect"
	"github.com/nixlim/sentinel-shield/internal/metrics"
)

// killProcess removes pid from the table. If the detail overlay is showing
// that process it is closed, clearing both the selection and its detail.
func (m *Model) killProcess(pid int) {
	s := &m.procs
	if !s.source.Kill(pid) {
		m.statusMsg = fmt.Sprintf("Process %d already exited", pid)
		return
	}

	s.inspector.Forget(pid)
	metrics.ProcessesKilledTotal.Inc()
	m.statusMsg = fmt.Sprintf("Process %d terminated", pid)

	if s.selected != nil && s.selected.PID == pid {
		m.closeDetail()
	}
	s.clampCursor()
}

func (m *Model) openDetail(p device.Process) {
	s := &m.procs
	d := s.inspector.Details(p)
	s.selected = &p
	s.detail = &d
	s.pending = false
	s.result = nil
	s.seq.Invalidate()
}

// closeDetail dismisses the overlay. Any analysis still in flight for the
// old selection is discarded when it lands.
func (m *Model) closeDetail() {
	s := &m.procs
	s.selected = nil
	s.detail = nil
	s.pending = false
	s.result = nil
	s.seq.Invalidate()
}

// handleDetailKey handles keys while the process detail overlay is open.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.procs
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Enter):
		m.closeDetail()
		return m, nil

	case key.Matches(msg, m.keys.Kill):
		m.killProcess(s.selected.PID)
		return m, nil

	case key.Matches(msg, m.keys.Analyze):
		seq := s.seq.Next()
		s.pending = true
		s.result = nil
		subject, trace := processAnalysisPrompt(*s.selected, *s.detail)
		return m, m.requestAnalysis(seq, func(ctx context.Context, a Analyzer) analysis.Result {
			return a.AnalyzeResult(ctx, subject, trace)
		})

	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	}

	return m, nil
}

func (m Model) handleProcessAnalysisResult(msg analysisMsg) (tea.Model, tea.Cmd) {
	if m.procs.selected == nil || !m.procs.seq.IsCurrent(msg.seq) {
		metrics.StaleResponsesTotal.Inc()
		return m, nil
	}
	r := msg.result
	m.procs.pending = false
	m.procs.result = &r
	return m, nil
}

func processAnalysisPrompt(p device.Process, d inspect.Details) (subject, trace string) {
	subject = fmt.Sprintf("Android Process Inspection. Category: %s. Risk score: %d/100. Install source: %s.",
		inspect.Classify(p), d.RiskScore, d.InstallSource)

	anomalies := "none"
	if len(d.Anomalies) > 0 {
		anomalies = strings.Join(d.Anomalies, "; ")
	}
	connections := "none"
	if len(d.Connections) > 0 {
		connections = strings.Join(d.Connections, "; ")
	}
	trace = fmt.Sprintf("Process: %s (PID %d, PPID %d, user %s). CPU: %.1f%%. Memory: %.0f MB. Hidden: %t. Status: %s. Anomalies: %s. Connections: %s. Open files: %s.",
		p.Name, p.PID, d.ParentPID, d.User, p.CPU, p.MemoryMB, p.Hidden, p.Status,
		anomalies, connections, strings.Join(d.OpenFiles, ", "))
	return subject, trace
}

func (m Model) overlayDetail(base string) string {
	p := m.procs.selected
	d := m.procs.detail
	if p == nil || d == nil {
		return base
	}

	overlayW := m.contentWidth() * 80 / 100
	if overlayW < 40 {
		overlayW = 40
	}
	contentW := overlayW - 6

	var lines []string
	title := fmt.Sprintf("%s  (PID %d)", p.Name, p.PID)
	if d.HighRisk() {
		lines = append(lines, criticalStyle.Render(title))
	} else {
		lines = append(lines, panelTitleStyle.Render(title))
	}
	lines = append(lines, dimStyle.Render(inspect.Classify(*p).String()))
	lines = append(lines, "")

	riskStyle := safeStyle
	if d.HighRisk() {
		riskStyle = criticalStyle
	}
	lines = append(lines,
		"Risk score:     "+riskStyle.Render(fmt.Sprintf("%d/100 ", d.RiskScore))+riskStyle.Render(hbar(float64(d.RiskScore), 100, 20)),
		"APK:            "+d.APK,
		"Install source: "+d.InstallSource,
		"SHA-256:        "+d.SHA256,
		fmt.Sprintf("Parent PID:     %d", d.ParentPID),
		"User:           "+d.User,
		"Started:        "+d.StartTime.Format("15:04:05"),
		"",
	)

	lines = append(lines, panelTitleStyle.Render("Permissions"))
	for _, perm := range d.Permissions {
		lines = append(lines, "  "+perm)
	}
	lines = append(lines, panelTitleStyle.Render("Open files"))
	for _, f := range d.OpenFiles {
		lines = append(lines, dimStyle.Render("  "+f))
	}
	lines = append(lines, panelTitleStyle.Render("Network"))
	if len(d.Connections) == 0 {
		lines = append(lines, dimStyle.Render("  no active sockets"))
	}
	for _, c := range d.Connections {
		lines = append(lines, infoStyle.Render("  "+c))
	}
	if len(d.Anomalies) > 0 {
		lines = append(lines, criticalStyle.Render("Anomalies"))
		for _, a := range d.Anomalies {
			lines = append(lines, warningStyle.Render("  ! "+a))
		}
	}

	switch {
	case m.procs.pending:
		lines = append(lines, "", m.spinner.View()+" Analyzing process...")
	case m.procs.result != nil:
		lines = append(lines, "", panelTitleStyle.Render("AI Analysis"), renderResult(*m.procs.result, contentW))
	}

	lines = append(lines, "", dimStyle.Render("g: AI analysis  k: kill  esc/enter: close"))

	style := detailOverlayStyle
	if d.HighRisk() {
		style = highRiskOverlayStyle
	}
	dialog := style.Width(overlayW - 2).Render(strings.Join(lines, "\n"))

	return placeOverlay(dialog, base)
}
