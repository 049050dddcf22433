package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nixlim/sentinel-shield/internal/analysis"
	"github.com/nixlim/sentinel-shield/internal/metrics"
	"github.com/nixlim/sentinel-shield/internal/scan"
)

type scannerState struct {
	sim    *scan.Simulator
	run    uint64
	cursor int
	bar    progress.Model

	pending bool
	target  string
	result  *analysis.Result
	seq     analysis.Sequencer
}

func newScannerState(sim *scan.Simulator) scannerState {
	return scannerState{
		sim: sim,
		bar: progress.New(progress.WithGradient("#005f00", "#00ff41"), progress.WithoutPercentage()),
	}
}

// dismiss drops the analysis pane and any reply still in flight.
func (s *scannerState) dismiss() {
	s.seq.Invalidate()
	s.pending = false
	s.target = ""
	s.result = nil
}

func (m Model) handleScannerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.scanner
	if s.sim == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.StartScan):
		if !s.sim.Start() {
			m.statusMsg = "Scan already running"
			return m, nil
		}
		s.run++
		s.cursor = 0
		s.dismiss()
		m.statusMsg = "Deep scan started"
		return m, m.tick(tickScan, m.cfg.Scan.TickInterval(), s.run)

	case key.Matches(msg, m.keys.StopScan):
		if s.sim.Stop() {
			s.run++
			metrics.ScansTotal.WithLabelValues("stopped").Inc()
			m.statusMsg = "Scan stopped"
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if s.cursor > 0 {
			s.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if s.cursor < len(s.sim.Findings())-1 {
			s.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		findings := s.sim.Findings()
		if s.cursor < 0 || s.cursor >= len(findings) {
			return m, nil
		}
		f := findings[s.cursor]
		seq := s.seq.Next()
		s.pending = true
		s.target = f.Target
		s.result = nil
		subject, trace := scan.AnalysisPrompt(f)
		return m, m.requestAnalysis(seq, func(ctx context.Context, a Analyzer) analysis.Result {
			return a.AnalyzeResult(ctx, subject, trace)
		})

	case key.Matches(msg, m.keys.Escape):
		s.dismiss()
		return m, nil
	}

	return m, nil
}

func (m Model) handleScanTick(msg tickMsg) (tea.Model, tea.Cmd) {
	s := &m.scanner
	if s.sim == nil || msg.run != s.run {
		return m, nil
	}

	if f := s.sim.Tick(); f != nil {
		metrics.FindingsTotal.WithLabelValues(string(f.Severity)).Inc()
	}

	switch s.sim.Phase() {
	case scan.Complete:
		metrics.ScansTotal.WithLabelValues("completed").Inc()
		m.statusMsg = fmt.Sprintf("Scan complete: %d findings", len(s.sim.Findings()))
		return m, nil
	case scan.Running:
		return m, m.tick(tickScan, m.cfg.Scan.TickInterval(), s.run)
	}
	return m, nil
}

func (m Model) handleScanAnalysisResult(msg analysisMsg) (tea.Model, tea.Cmd) {
	if !m.scanner.seq.IsCurrent(msg.seq) {
		metrics.StaleResponsesTotal.Inc()
		return m, nil
	}
	r := msg.result
	m.scanner.pending = false
	m.scanner.result = &r
	return m, nil
}

func (m Model) renderScanner() string {
	w := m.contentWidth()
	s := m.scanner
	if s.sim == nil {
		return ""
	}

	bar := s.bar
	bar.Width = w - 16
	if bar.Width < 10 {
		bar.Width = 10
	}

	var status string
	switch s.sim.Phase() {
	case scan.Running:
		status = infoStyle.Render("Scanning") + dimStyle.Render(" | "+s.sim.Label())
	case scan.Complete:
		status = safeStyle.Render(scan.CompleteLabel)
	default:
		status = dimStyle.Render("Ready. Press s to start a deep scan.")
	}
	progressBody := fmt.Sprintf("%s %3d%%\n%s", bar.ViewAs(float64(s.sim.Progress())/100), s.sim.Progress(), status)

	findings := s.sim.Findings()
	var rows []string
	if len(findings) == 0 {
		rows = append(rows, dimStyle.Render("No threats detected yet"))
	}
	for i, f := range findings {
		badge := severityStyle(f.Severity).Render(fmt.Sprintf("%-8s", f.Severity))
		line := fmt.Sprintf("%s %-28s %-8s %s", badge, truncateStr(f.Target, 28), f.Kind, f.Timestamp.Format("15:04:05"))
		if i == s.cursor {
			line = selectedStyle.Render(stripAnsi(line))
		}
		rows = append(rows, line)
		rows = append(rows, dimStyle.Render("  "+f.Details))
	}

	sections := []string{
		renderPanel("Deep Scan", progressBody, w),
		renderPanel(fmt.Sprintf("Findings (%d)", len(findings)), strings.Join(rows, "\n"), w),
	}

	switch {
	case s.pending:
		sections = append(sections, renderPanel("AI Threat Analysis: "+s.target, m.spinner.View()+" Analyzing...", w))
	case s.result != nil:
		sections = append(sections, renderPanel("AI Threat Analysis: "+s.target, renderResult(*s.result, w-6), w))
	case len(findings) > 0:
		sections = append(sections, renderPanel("AI Threat Analysis", dimStyle.Render("Select a finding and press enter"), w))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
