package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Version is the application version shown on the about panel.
var Version = "2.5.0 (Beta)"

// ModelInfo is implemented by analyzers that can report their backend.
type ModelInfo interface {
	HasKey() bool
	Model() string
}

func (m Model) renderAbout() string {
	w := m.contentWidth()

	intro := strings.Join([]string{
		panelTitleStyle.Render("Sentinel Shield Security"),
		dimStyle.Render("Youness Boussetta | Android developer & security specialist"),
		"",
		wrapText("An educational security console that simulates scanning and protecting "+
			"Android devices against modern threats: deep scans, application behaviour "+
			"analysis, network and process monitoring, with AI-assisted threat reports.", w-6),
		"",
		safeStyle.Render("✓") + " AI threat analysis",
		safeStyle.Render("✓") + " Network and process monitoring",
	}, "\n")

	ai := dimStyle.Render("AI analysis: not configured")
	if info, ok := m.analyzer.(ModelInfo); ok {
		if info.HasKey() {
			ai = safeStyle.Render("AI analysis: online") + dimStyle.Render(" ("+info.Model()+")")
		} else {
			ai = warningStyle.Render("AI analysis: offline") + dimStyle.Render(" (set GEMINI_API_KEY or API_KEY)")
		}
	}

	footer := strings.Join([]string{
		ai,
		"Version " + Version,
		dimStyle.Render("Contact: younesbousseta30@gmail.com"),
		dimStyle.Render("Kernel v5.10.102-secure"),
	}, "\n")

	return lipgloss.JoinVertical(lipgloss.Left,
		renderPanel("About", intro, w),
		renderPanel("Build", footer, w),
	)
}
