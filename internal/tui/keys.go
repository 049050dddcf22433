package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Up      key.Binding
	Down    key.Binding
	Enter   key.Binding
	Escape  key.Binding

	Insight key.Binding

	StartScan key.Binding
	StopScan  key.Binding

	Drop key.Binding

	Search     key.Binding
	Pause      key.Binding
	SortPID    key.Binding
	SortName   key.Binding
	SortCPU    key.Binding
	SortMemory key.Binding
	SortStatus key.Binding
	Kill       key.Binding
	Analyze    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "right"),
			key.WithHelp("tab", "next panel"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "left"),
			key.WithHelp("shift+tab", "prev panel"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Insight: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "AI insight"),
		),
		StartScan: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start scan"),
		),
		StopScan: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "stop scan"),
		),
		Drop: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "drop connection"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		SortPID: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "pid"),
		),
		SortName: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "name"),
		),
		SortCPU: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "cpu"),
		),
		SortMemory: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "memory"),
		),
		SortStatus: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "status"),
		),
		Kill: key.NewBinding(
			key.WithKeys("k"),
			key.WithHelp("k", "kill"),
		),
		Analyze: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "AI analysis"),
		),
	}
}
