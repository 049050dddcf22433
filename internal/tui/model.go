package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nixlim/sentinel-shield/internal/analysis"
	"github.com/nixlim/sentinel-shield/internal/config"
	"github.com/nixlim/sentinel-shield/internal/inspect"
	"github.com/nixlim/sentinel-shield/internal/metrics"
	"github.com/nixlim/sentinel-shield/internal/scan"
	"github.com/nixlim/sentinel-shield/internal/telemetry"
)

type Tab int

const (
	TabDashboard Tab = iota
	TabScanner
	TabNetwork
	TabPermissions
	TabProcesses
	TabAbout
	tabCount
)

var tabTitles = [tabCount]string{"Dashboard", "Deep Scan", "Network", "Permissions", "Processes", "About"}

func (t Tab) String() string {
	if t < 0 || t >= tabCount {
		return "?"
	}
	return tabTitles[t]
}

// ParseTab maps a config start_tab value onto a Tab.
func ParseTab(name string) (Tab, bool) {
	for i, n := range config.TabNames {
		if strings.EqualFold(n, name) {
			return Tab(i), true
		}
	}
	return TabDashboard, false
}

type tickKind int

const (
	tickProcesses tickKind = iota
	tickNetwork
	tickScan
)

// tickMsg is a panel timer firing. gen is the mount generation that
// scheduled it; run distinguishes scan runs within one mount.
type tickMsg struct {
	kind tickKind
	gen  uint64
	run  uint64
}

type analysisMsg struct {
	tab    Tab
	gen    uint64
	seq    uint64
	result analysis.Result
}

// Analyzer is the model-backed analysis used by the panels.
type Analyzer interface {
	AnalyzeResult(ctx context.Context, subject, trace string) analysis.Result
	InsightResult(ctx context.Context, logs []string) analysis.Result
}

type Model struct {
	tab      Tab
	gen      uint64
	width    int
	height   int
	keys     KeyMap
	help     help.Model
	spinner  spinner.Model
	quitting bool

	cfg config.Config
	ctx context.Context

	analyzer     Analyzer
	newSource    func() telemetry.Source
	newFeed      func() *telemetry.NetworkFeed
	newSim       func() *scan.Simulator
	newInspector func() *inspect.Inspector

	dash    dashboardState
	scanner scannerState
	network networkState
	perms   permissionsState
	procs   processesState

	statusMsg string

	onShutdown func()
}

func NewModel(cfg config.Config, opts ...ModelOption) Model {
	start, _ := ParseTab(cfg.Display.StartTab)

	m := Model{
		tab:     start,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
		cfg:     cfg,
		ctx:     context.Background(),
	}
	m.analyzer = analysis.NewClient("", nil)
	m.newSource = func() telemetry.Source {
		return telemetry.NewMockSource(cfg.Telemetry.ProcessCount, nil)
	}
	m.newFeed = func() *telemetry.NetworkFeed {
		return telemetry.NewNetworkFeed(cfg.Telemetry.NetworkWindow, nil)
	}
	m.newSim = func() *scan.Simulator {
		return scan.NewSimulator(cfg.Scan.TotalSteps)
	}
	m.newInspector = func() *inspect.Inspector {
		return inspect.New(nil)
	}

	for _, opt := range opts {
		opt(&m)
	}

	m.mount()
	return m
}

type ModelOption func(*Model)

func WithAnalyzer(a Analyzer) ModelOption {
	return func(m *Model) {
		if a != nil {
			m.analyzer = a
		}
	}
}

// WithProcessSource sets the factory called each time the processes panel
// is mounted.
func WithProcessSource(fn func() telemetry.Source) ModelOption {
	return func(m *Model) { m.newSource = fn }
}

func WithNetworkFeed(fn func() *telemetry.NetworkFeed) ModelOption {
	return func(m *Model) { m.newFeed = fn }
}

func WithScanSimulator(fn func() *scan.Simulator) ModelOption {
	return func(m *Model) { m.newSim = fn }
}

func WithInspector(fn func() *inspect.Inspector) ModelOption {
	return func(m *Model) { m.newInspector = fn }
}

func WithStartTab(t Tab) ModelOption {
	return func(m *Model) { m.tab = t }
}

// WithContext sets the context passed to analysis requests.
func WithContext(ctx context.Context) ModelOption {
	return func(m *Model) { m.ctx = ctx }
}

func WithOnShutdown(fn func()) ModelOption {
	return func(m *Model) { m.onShutdown = fn }
}

func (m Model) Init() tea.Cmd {
	return m.mountCmd()
}

// mount builds fresh state for the active tab.
func (m *Model) mount() {
	switch m.tab {
	case TabDashboard:
		m.dash = dashboardState{}
	case TabScanner:
		m.scanner = newScannerState(m.newSim())
	case TabNetwork:
		m.network = newNetworkState(m.newFeed(), m.cfg.Telemetry.NetworkInterval())
	case TabPermissions:
		m.perms = newPermissionsState()
	case TabProcesses:
		m.procs = newProcessesState(m.newSource(), m.newInspector())
	}
}

// mountCmd schedules the timers the active tab owns.
func (m Model) mountCmd() tea.Cmd {
	switch m.tab {
	case TabProcesses:
		return m.tick(tickProcesses, m.cfg.Telemetry.ProcessInterval(), 0)
	case TabNetwork:
		return m.tick(tickNetwork, m.cfg.Telemetry.NetworkInterval(), 0)
	}
	return nil
}

// teardown invalidates every timer and in-flight request of the active tab
// and discards its state.
func (m *Model) teardown() {
	if m.tab == TabScanner && m.scanner.sim != nil && m.scanner.sim.Phase() == scan.Running {
		metrics.ScansTotal.WithLabelValues("abandoned").Inc()
	}
	m.gen++
	m.dash = dashboardState{}
	m.scanner = scannerState{}
	m.network = networkState{}
	m.perms = permissionsState{}
	m.procs = processesState{}
	m.statusMsg = ""
}

func (m Model) switchTab(t Tab) (Model, tea.Cmd) {
	if t == m.tab {
		return m, nil
	}
	m.teardown()
	m.tab = t
	m.mount()
	return m, m.mountCmd()
}

func (m Model) tick(kind tickKind, d time.Duration, run uint64) tea.Cmd {
	gen := m.gen
	return tea.Tick(d, func(time.Time) tea.Msg {
		return tickMsg{kind: kind, gen: gen, run: run}
	})
}

// requestAnalysis runs fn off the update loop and tags the reply with the
// current mount generation and seq.
func (m Model) requestAnalysis(seq uint64, fn func(ctx context.Context, a Analyzer) analysis.Result) tea.Cmd {
	tab, gen, ctx, a := m.tab, m.gen, m.ctx, m.analyzer
	fetch := func() tea.Msg {
		return analysisMsg{tab: tab, gen: gen, seq: seq, result: fn(ctx, a)}
	}
	return tea.Batch(fetch, m.spinner.Tick)
}

func (m Model) analyzing() bool {
	switch m.tab {
	case TabDashboard:
		return m.dash.pending
	case TabScanner:
		return m.scanner.pending
	case TabProcesses:
		return m.procs.pending
	}
	return false
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		switch msg.kind {
		case tickProcesses:
			return m.handleProcessesTick()
		case tickNetwork:
			return m.handleNetworkTick()
		case tickScan:
			return m.handleScanTick(msg)
		}
		return m, nil

	case analysisMsg:
		if msg.gen != m.gen || msg.tab != m.tab {
			metrics.StaleResponsesTotal.Inc()
			return m, nil
		}
		switch msg.tab {
		case TabDashboard:
			return m.handleInsightResult(msg)
		case TabScanner:
			return m.handleScanAnalysisResult(msg)
		case TabProcesses:
			return m.handleProcessAnalysisResult(msg)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.analyzing() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.tab == TabProcesses && m.procs.searching() {
		var cmd tea.Cmd
		m.procs.search.Input, cmd = m.procs.search.Input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	if m.tab == TabProcesses {
		if m.procs.searching() {
			return m.handleSearchKey(msg)
		}
		if m.procs.selected != nil {
			return m.handleDetailKey(msg)
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.NextTab):
		return m.switchTab((m.tab + 1) % tabCount)
	case key.Matches(msg, m.keys.PrevTab):
		return m.switchTab((m.tab + tabCount - 1) % tabCount)
	}

	switch m.tab {
	case TabDashboard:
		return m.handleDashboardKey(msg)
	case TabScanner:
		return m.handleScannerKey(msg)
	case TabNetwork:
		return m.handleNetworkKey(msg)
	case TabPermissions:
		return m.handlePermissionsKey(msg)
	case TabProcesses:
		return m.handleProcessesKey(msg)
	}

	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.teardown()
	m.quitting = true
	if m.onShutdown != nil {
		m.onShutdown()
	}
	return m, tea.Quit
}

func (m Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var body string
	switch m.tab {
	case TabDashboard:
		body = m.renderDashboard()
	case TabScanner:
		body = m.renderScanner()
	case TabNetwork:
		body = m.renderNetwork()
	case TabPermissions:
		body = m.renderPermissions()
	case TabProcesses:
		body = m.renderProcesses()
	case TabAbout:
		body = m.renderAbout()
	}

	output := m.renderHeader() + "\n" + body + "\n" + m.renderFooter()

	if m.tab == TabProcesses && m.procs.selected != nil {
		output = m.overlayDetail(output)
	}

	if m.height > 0 {
		lines := strings.Split(output, "\n")
		if len(lines) > m.height {
			lines = lines[:m.height]
			output = strings.Join(lines, "\n")
		}
	}

	return output
}
