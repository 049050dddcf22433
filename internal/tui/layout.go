package tui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/nixlim/sentinel-shield/internal/analysis"
	"github.com/nixlim/sentinel-shield/internal/device"
)

const (
	minWidth  = 40
	minHeight = 10
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("22"))

	brandStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46")).
			Background(lipgloss.Color("22"))

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("16")).
			Background(lipgloss.Color("46")).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Background(lipgloss.Color("22")).
				Padding(0, 1)

	panelBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("238")).
				Padding(0, 1)

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("238"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	safeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226"))

	criticalStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135"))

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	failureStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	detailOverlayStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("46")).
				Padding(1, 2)

	highRiskOverlayStyle = detailOverlayStyle.
				BorderForeground(lipgloss.Color("196"))
)

func (m Model) contentWidth() int {
	w := m.width
	if w < minWidth {
		w = minWidth
	}
	return w
}

func (m Model) contentHeight() int {
	h := m.height
	if h < minHeight {
		h = minHeight
	}
	// header + footer
	return h - 2
}

func (m Model) renderHeader() string {
	w := m.contentWidth()
	title := brandStyle.Render(" Sentinel") + headerStyle.Render("Shield ")

	var tabs []string
	for t := Tab(0); t < tabCount; t++ {
		if t == m.tab {
			tabs = append(tabs, activeTabStyle.Render(t.String()))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(t.String()))
		}
	}
	bar := strings.Join(tabs, headerStyle.Render(" "))

	indicator := headerStyle.Render(" ● Protected ")
	padding := w - lipgloss.Width(title) - lipgloss.Width(bar) - lipgloss.Width(indicator)
	if padding < 0 {
		padding = 0
	}

	return headerStyle.Width(w).Render(title + bar + headerStyle.Render(strings.Repeat(" ", padding)) + indicator)
}

func (m Model) renderFooter() string {
	help := m.help.ShortHelpView(m.helpBindings())
	if m.statusMsg == "" {
		return help
	}
	return statusBarStyle.Render(m.statusMsg) + "  " + help
}

func (m Model) helpBindings() []key.Binding {
	k := m.keys
	switch m.tab {
	case TabDashboard:
		return []key.Binding{k.Insight, k.NextTab, k.Quit}
	case TabScanner:
		return []key.Binding{k.StartScan, k.StopScan, k.Up, k.Down, k.Enter, k.Escape, k.NextTab, k.Quit}
	case TabNetwork:
		return []key.Binding{k.Up, k.Down, k.Drop, k.NextTab, k.Quit}
	case TabPermissions:
		return []key.Binding{k.Up, k.Down, k.NextTab, k.Quit}
	case TabProcesses:
		if m.procs.selected != nil {
			return []key.Binding{k.Analyze, k.Kill, k.Escape}
		}
		if m.procs.searching() {
			return []key.Binding{k.Enter, k.Escape}
		}
		return []key.Binding{k.Search, k.Pause, k.SortPID, k.SortName, k.SortCPU, k.SortMemory, k.SortStatus, k.Kill, k.Enter, k.Quit}
	}
	return []key.Binding{k.NextTab, k.PrevTab, k.Quit}
}

// renderPanel draws a titled, bordered box of the given outer width.
func renderPanel(title, content string, w int) string {
	body := panelTitleStyle.Render(title)
	if content != "" {
		body += "\n" + content
	}
	inner := w - 2
	if inner < 10 {
		inner = 10
	}
	return panelBorderStyle.Width(inner).Render(body)
}

// placeOverlay centers fg over an area the size of bg.
func placeOverlay(fg, bg string) string {
	return lipgloss.Place(
		lipgloss.Width(bg),
		lipgloss.Height(bg),
		lipgloss.Center,
		lipgloss.Center,
		fg,
		lipgloss.WithWhitespaceChars(" "),
	)
}

func severityStyle(s device.Severity) lipgloss.Style {
	switch s {
	case device.SeverityCritical:
		return criticalStyle
	case device.SeverityWarning:
		return warningStyle
	case device.SeveritySafe:
		return safeStyle
	default:
		return dimStyle
	}
}

// renderResult styles an analysis reply by outcome.
func renderResult(r analysis.Result, width int) string {
	text := wrapText(r.Text, width)
	switch r.Outcome {
	case analysis.OutcomeOK:
		return text
	case analysis.OutcomeFailed:
		return failureStyle.Render(text)
	default:
		return dimStyle.Render(text)
	}
}

// wrapText breaks s on spaces so no line exceeds width runes.
func wrapText(s string, width int) string {
	if width < 10 {
		width = 10
	}
	var out []string
	for _, line := range strings.Split(s, "\n") {
		words := strings.Fields(line)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		cur := words[0]
		for _, w := range words[1:] {
			if len([]rune(cur))+1+len([]rune(w)) > width {
				out = append(out, cur)
				cur = w
				continue
			}
			cur += " " + w
		}
		out = append(out, cur)
	}
	return strings.Join(out, "\n")
}

func truncateStr(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-1]) + "…"
}

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// sparkline scales values against peak into block characters.
func sparkline(values []float64, peak float64) string {
	if peak <= 0 {
		peak = 1
	}
	var b strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(sparkBlocks)-1))
		idx = min(max(idx, 0), len(sparkBlocks)-1)
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}

// hbar renders a horizontal bar of width cells filled to value/peak.
func hbar(value, peak float64, width int) string {
	if peak <= 0 || width <= 0 {
		return ""
	}
	filled := int(value / peak * float64(width))
	filled = min(max(filled, 0), width)
	return strings.Repeat("█", filled) + dimStyle.Render(strings.Repeat("░", width-filled))
}

func formatKB(kb float64) string {
	switch {
	case kb >= 1024*1024:
		return fmt.Sprintf("%.1f GB", kb/(1024*1024))
	case kb >= 1024:
		return fmt.Sprintf("%.1f MB", kb/1024)
	default:
		return fmt.Sprintf("%.0f KB", kb)
	}
}

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripAnsi(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}
