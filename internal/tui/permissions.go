package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nixlim/sentinel-shield/internal/device"
)

type permissionsState struct {
	apps   []device.InstalledApp
	cursor int
}

func newPermissionsState() permissionsState {
	return permissionsState{apps: device.InstalledApps()}
}

func (m Model) handlePermissionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := &m.perms
	switch {
	case key.Matches(msg, m.keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if p.cursor < len(p.apps)-1 {
			p.cursor++
		}
	}
	return m, nil
}

func (m Model) renderPermissions() string {
	w := m.contentWidth()
	p := m.perms

	var rows []string
	for i, a := range p.apps {
		dangerous := a.DangerousCount()
		risk := dimStyle.Render("0 dangerous")
		if dangerous > 0 {
			risk = warningStyle.Render(fmt.Sprintf("%d dangerous", dangerous))
		}
		line := fmt.Sprintf("%-18s %-28s %-10s %s %s",
			truncateStr(a.AppName, 18), truncateStr(a.PackageName, 28), a.Source,
			severityStyle(a.Threat).Render(fmt.Sprintf("%-8s", a.Threat)), risk)
		if i == p.cursor {
			line = selectedStyle.Render(stripAnsi(line))
		}
		rows = append(rows, line)
	}

	sections := []string{renderPanel("Permission Manager", strings.Join(rows, "\n"), w)}

	if p.cursor >= 0 && p.cursor < len(p.apps) {
		a := p.apps[p.cursor]
		var perms []string
		perms = append(perms, dimStyle.Render(fmt.Sprintf("%s v%s", a.PackageName, a.Version)))
		for _, perm := range a.Permissions {
			mark := safeStyle.Render("  ✓ ")
			name := perm.Name
			if perm.Dangerous {
				mark = criticalStyle.Render("  ! ")
				name = criticalStyle.Render(name)
			}
			perms = append(perms, mark+name+dimStyle.Render("  "+perm.Description))
		}
		sections = append(sections, renderPanel(a.AppName+" permissions", strings.Join(perms, "\n"), w))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
