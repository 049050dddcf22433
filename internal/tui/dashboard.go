package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nixlim/sentinel-shield/internal/analysis"
	"github.com/nixlim/sentinel-shield/internal/device"
	"github.com/nixlim/sentinel-shield/internal/metrics"
)

type dashboardState struct {
	pending bool
	result  *analysis.Result
	seq     analysis.Sequencer
}

type activityPoint struct {
	Time     string
	Threat   int
	Activity int
}

// 24h behavioural series shown on the dashboard.
var activitySeries = []activityPoint{
	{"00:00", 10, 20},
	{"04:00", 12, 25},
	{"08:00", 5, 60},
	{"12:00", 30, 80},
	{"16:00", 20, 50},
	{"20:00", 8, 30},
	{"24:00", 10, 20},
}

type securityEvent struct {
	PID      int
	Time     string
	Severity device.Severity
	Message  string
}

var recentEvents = []securityEvent{
	{4001, "14:31", device.SeverityCritical, "Memory injection attempt detected"},
	{4002, "14:32", device.SeverityWarning, "Suspicious permission request from calculator app"},
	{4003, "14:33", device.SeverityWarning, "Suspicious permission request from calculator app"},
}

// eventLogLines is the log excerpt sent for behavioural insight.
func eventLogLines() []string {
	lines := make([]string, len(recentEvents))
	for i, e := range recentEvents {
		lines[i] = fmt.Sprintf("%s PID:%d [%s] %s", e.Time, e.PID, e.Severity, e.Message)
	}
	return lines
}

func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Insight) {
		seq := m.dash.seq.Next()
		m.dash.pending = true
		m.dash.result = nil
		logs := eventLogLines()
		return m, m.requestAnalysis(seq, func(ctx context.Context, a Analyzer) analysis.Result {
			return a.InsightResult(ctx, logs)
		})
	}
	return m, nil
}

func (m Model) handleInsightResult(msg analysisMsg) (tea.Model, tea.Cmd) {
	if !m.dash.seq.IsCurrent(msg.seq) {
		metrics.StaleResponsesTotal.Inc()
		return m, nil
	}
	r := msg.result
	m.dash.pending = false
	m.dash.result = &r
	return m, nil
}

func (m Model) renderDashboard() string {
	w := m.contentWidth()
	cardW := w / 4

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		renderCard("Security Status", safeStyle.Render("Safe 98%"), dimStyle.Render("Last scan: 5 minutes ago"), cardW),
		renderCard("Potential Threats", warningStyle.Render("3 warnings"), dimStyle.Render("2 permissions, 1 suspicious file"), cardW),
		renderCard("CPU Activity", infoStyle.Render("12%"), infoStyle.Render(hbar(12, 100, cardW-6)), cardW),
		renderCard("Root Status", accentStyle.Render("Hidden (Secure)"), dimStyle.Render("Magisk Hide: Active"), w-3*cardW),
	)

	var chart []string
	barW := (w - 30) / 2
	if barW < 5 {
		barW = 5
	}
	for _, p := range activitySeries {
		chart = append(chart, fmt.Sprintf("%s  %s %3d  %s %3d",
			dimStyle.Render(p.Time),
			criticalStyle.Render(hbar(float64(p.Threat), 100, barW)), p.Threat,
			safeStyle.Render(hbar(float64(p.Activity), 100, barW)), p.Activity))
	}
	chart = append(chart, dimStyle.Render("red: threats  green: system activity"))

	var events []string
	for _, e := range recentEvents {
		dot := severityStyle(e.Severity).Render("●")
		events = append(events, fmt.Sprintf("%s %s", dot, e.Message))
		events = append(events, dimStyle.Render(fmt.Sprintf("  PID: %d | Time: %s", e.PID, e.Time)))
	}

	sections := []string{
		cards,
		renderPanel("Behavioral Analytics (24h)", strings.Join(chart, "\n"), w),
		renderPanel("Recent Security Events", strings.Join(events, "\n"), w),
	}

	switch {
	case m.dash.pending:
		sections = append(sections, renderPanel("AI Insight", m.spinner.View()+" Analyzing event log...", w))
	case m.dash.result != nil:
		sections = append(sections, renderPanel("AI Insight", renderResult(*m.dash.result, w-6), w))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderCard(title, value, footer string, w int) string {
	return renderPanel(title, value+"\n"+footer, w)
}
