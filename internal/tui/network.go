package tui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nixlim/sentinel-shield/internal/device"
	"github.com/nixlim/sentinel-shield/internal/telemetry"
)

type networkState struct {
	feed     *telemetry.NetworkFeed
	interval time.Duration
	conns    []device.Connection
	cursor   int

	totalUpKB   float64
	totalDownKB float64
}

func newNetworkState(feed *telemetry.NetworkFeed, interval time.Duration) networkState {
	return networkState{
		feed:     feed,
		interval: interval,
		conns:    device.ActiveConnections(),
	}
}

func (m Model) handleNetworkTick() (tea.Model, tea.Cmd) {
	n := &m.network
	if n.feed == nil {
		return m, nil
	}
	s := n.feed.Tick()
	secs := n.interval.Seconds()
	n.totalUpKB += s.UploadKBs * secs
	n.totalDownKB += s.DownloadKBs * secs
	return m, m.tick(tickNetwork, n.interval, 0)
}

func (m Model) handleNetworkKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := &m.network
	switch {
	case key.Matches(msg, m.keys.Up):
		if n.cursor > 0 {
			n.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if n.cursor < len(n.conns)-1 {
			n.cursor++
		}
	case key.Matches(msg, m.keys.Drop):
		if n.cursor >= 0 && n.cursor < len(n.conns) {
			c := n.conns[n.cursor]
			n.conns = slices.Delete(slices.Clone(n.conns), n.cursor, n.cursor+1)
			if n.cursor >= len(n.conns) && n.cursor > 0 {
				n.cursor--
			}
			m.statusMsg = fmt.Sprintf("Connection to %s (%s) dropped", c.IP, c.App)
		}
	}
	return m, nil
}

func (m Model) renderNetwork() string {
	w := m.contentWidth()
	n := m.network
	if n.feed == nil {
		return ""
	}

	samples := n.feed.Samples()
	up := make([]float64, len(samples))
	down := make([]float64, len(samples))
	for i, s := range samples {
		up[i] = s.UploadKBs
		down[i] = s.DownloadKBs
	}

	var traffic []string
	if len(samples) == 0 {
		traffic = append(traffic, dimStyle.Render("Waiting for traffic samples..."))
	} else {
		last := samples[len(samples)-1]
		traffic = append(traffic,
			criticalStyle.Render("Upload   ")+criticalStyle.Render(sparkline(up, 500))+fmt.Sprintf(" %4.0f KB/s", last.UploadKBs),
			safeStyle.Render("Download ")+safeStyle.Render(sparkline(down, 1000))+fmt.Sprintf(" %4.0f KB/s", last.DownloadKBs),
			dimStyle.Render(fmt.Sprintf("%s  %d open sockets  window %d/%d",
				samples[0].TimeLabel+" - "+last.TimeLabel, last.Connections, len(samples), n.feed.Capacity())),
		)
	}

	stats := strings.Join([]string{
		"Total Upload   " + criticalStyle.Render(formatKB(n.totalUpKB)),
		"Total Download " + safeStyle.Render(formatKB(n.totalDownKB)),
		warningStyle.Render("Firewall alert: ") + dimStyle.Render("blocked outbound connection from unknown app (Port 4444)"),
	}, "\n")

	var rows []string
	rows = append(rows, dimStyle.Render(fmt.Sprintf("%-20s %-16s %-8s %-8s %-10s", "App", "IP Address", "Proto", "Location", "Status")))
	if len(n.conns) == 0 {
		rows = append(rows, dimStyle.Render("No active connections"))
	}
	for i, c := range n.conns {
		status := safeStyle.Render(fmt.Sprintf("%-10s", c.Status))
		if c.Status != "Safe" {
			status = criticalStyle.Render(fmt.Sprintf("%-10s", c.Status))
		}
		line := fmt.Sprintf("%-20s %s %-8s %-8s %s",
			truncateStr(c.App, 20), infoStyle.Render(fmt.Sprintf("%-16s", c.IP)), c.Protocol, c.Country, status)
		if i == n.cursor {
			line = selectedStyle.Render(stripAnsi(line))
		}
		rows = append(rows, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		renderPanel("Live Traffic", strings.Join(traffic, "\n"), w),
		renderPanel("Totals", stats, w),
		renderPanel("Active Connections", strings.Join(rows, "\n"), w),
	)
}
