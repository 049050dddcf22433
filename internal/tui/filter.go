package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ProcessSearch holds the search box state of the processes panel.
type ProcessSearch struct {
	// Input is the text box. Its value filters rows by name or PID.
	Input textinput.Model

	// Active is true while the box has keyboard focus.
	Active bool
}

// NewProcessSearch returns an empty, unfocused search box.
func NewProcessSearch() ProcessSearch {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search name or PID"
	ti.CharLimit = 64
	return ProcessSearch{Input: ti}
}

// Query returns the trimmed filter text.
func (s *ProcessSearch) Query() string {
	return strings.TrimSpace(s.Input.Value())
}

// Focus activates the box and returns its cursor blink command.
func (s *ProcessSearch) Focus() tea.Cmd {
	s.Active = true
	return s.Input.Focus()
}

// Blur leaves the box, keeping the query applied.
func (s *ProcessSearch) Blur() {
	s.Active = false
	s.Input.Blur()
}

// Clear empties the query and leaves the box.
func (s *ProcessSearch) Clear() {
	s.Input.SetValue("")
	s.Blur()
}
