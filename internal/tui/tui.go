// Package tui provides a Bubble Tea terminal user interface for browsing
// setlist statistics.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/setlist-stats/internal/analysis"
	"github.com/handiism/setlist-stats/internal/config"
	"github.com/handiism/setlist-stats/internal/setlist"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	songStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1A1A2E")).
			Background(lipgloss.Color("#4ECDC4")).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC")).
			Padding(0, 1)
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateLoading
	StateBrowse
	StateExporting
	StateError
)

// Tab is a page of the browser.
type Tab int

const (
	TabStats Tab = iota
	TabTopSongs
	TabVenues
	TabRare
	TabSearch
	TabShows
	tabCount
)

var tabNames = [tabCount]string{"Stats", "Top Songs", "Venues", "Rare", "Search", "Shows"}

// maxLogs is the number of progress lines kept on screen.
const maxLogs = 8

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   analysis.ProgressLevel
}

// eventLog collects progress events from manager goroutines until the
// next message delivers them to the model.
type eventLog struct {
	mu     sync.Mutex
	events []analysis.ProgressEvent
}

func (l *eventLog) add(e analysis.ProgressEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) drain() []analysis.ProgressEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	events := l.events
	l.events = nil
	return events
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state       State
	textInput   textinput.Model
	searchInput textinput.Model
	spinner     spinner.Model
	progress    progress.Model
	settings    *config.Settings
	logs        []LogEntry
	events      *eventLog
	err         error

	ctx    context.Context
	cancel context.CancelFunc

	manager *analysis.Manager

	tab    Tab
	offset int // first visible line of the current tab
	cursor int // selected show on the shows tab

	// Options
	playlists bool
	verbose   bool

	exported []string

	width  int
	height int
}

// NewModel creates a new TUI model. A nil settings selects
// config.DefaultSettings; a configured InputPath pre-fills the path input.
func NewModel(settings *config.Settings) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	ti := textinput.New()
	ti.Placeholder = "/path/to/setlists.csv or https://..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60
	ti.SetValue(settings.InputPath)

	si := textinput.New()
	si.Placeholder = "song title"
	si.CharLimit = 100
	si.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	prog.Width = 30

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:       StateInput,
		textInput:   ti,
		searchInput: si,
		spinner:     sp,
		progress:    prog,
		settings:    settings,
		logs:        make([]LogEntry, 0),
		events:      &eventLog{},
		ctx:         ctx,
		cancel:      cancel,
		playlists:   settings.CreatePlaylists,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// LoadDoneMsg is sent when the setlist table has been loaded.
	LoadDoneMsg struct {
		Manager *analysis.Manager
		Events  []analysis.ProgressEvent
		Err     error
	}

	// ExportDoneMsg is sent when exports and playlists have been written.
	ExportDoneMsg struct {
		Paths  []string
		Events []analysis.ProgressEvent
		Err    error
	}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width / 3
		if m.progress.Width > 40 {
			m.progress.Width = 40
		}
		if m.progress.Width < 10 {
			m.progress.Width = 10
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			return m, tea.Quit
		}
		if m.state == StateBrowse && m.tab == TabSearch && m.searchInput.Focused() {
			return m.updateSearch(msg)
		}
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case LoadDoneMsg:
		m.appendLogs(msg.Events)
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.manager = msg.Manager
			m.state = StateBrowse
			m.tab = TabStats
			m.offset, m.cursor = 0, 0
			m.textInput.Blur()
		}

	case ExportDoneMsg:
		m.appendLogs(msg.Events)
		if msg.Err != nil && m.ctx.Err() == nil {
			m.appendLogs([]analysis.ProgressEvent{{Message: msg.Err.Error(), Level: analysis.LevelError}})
		}
		m.exported = msg.Paths
		m.state = StateBrowse

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes keys outside the search input. handled is false
// when the key should fall through to the path input.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch m.state {
	case StateInput:
		switch msg.String() {
		case "esc":
			return m, tea.Quit, true
		case "enter":
			if strings.TrimSpace(m.textInput.Value()) != "" {
				m.state = StateLoading
				m.logs = nil
				return m, tea.Batch(m.load(), m.spinner.Tick), true
			}
			return m, nil, true
		case "ctrl+p":
			m.playlists = !m.playlists
			return m, nil, true
		case "ctrl+v":
			m.verbose = !m.verbose
			return m, nil, true
		}

	case StateLoading, StateExporting:
		if msg.String() == "esc" {
			m.cancel()
			m.ctx, m.cancel = context.WithCancel(context.Background())
		}
		return m, nil, true

	case StateBrowse:
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit, true
		case "tab", "right", "l":
			m.setTab((m.tab + 1) % tabCount)
		case "shift+tab", "left", "h":
			m.setTab((m.tab + tabCount - 1) % tabCount)
		case "1", "2", "3", "4", "5", "6":
			m.setTab(Tab(msg.String()[0] - '1'))
		case "down", "j":
			m.scroll(1)
		case "up", "k":
			m.scroll(-1)
		case "/":
			if m.tab == TabSearch {
				return m, m.searchInput.Focus(), true
			}
		case "e":
			m.state = StateExporting
			m.exported = nil
			return m, tea.Batch(m.export(), m.spinner.Tick), true
		case "r":
			m.reset()
		}
		return m, nil, true

	case StateError:
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit, true
		case "r":
			m.reset()
		}
		return m, nil, true
	}
	return m, nil, false
}

// updateSearch routes keys to the focused search input.
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.searchInput.Blur()
		m.offset = 0
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.offset = 0
	return m, cmd
}

func (m *Model) setTab(tab Tab) {
	m.tab = tab
	m.offset = 0
	if tab == TabSearch {
		m.searchInput.Focus()
	} else {
		m.searchInput.Blur()
	}
}

func (m *Model) scroll(delta int) {
	if m.tab == TabShows {
		shows := len(m.table().Shows())
		m.cursor += delta
		if m.cursor >= shows {
			m.cursor = shows - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return
	}
	m.offset += delta
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m *Model) reset() {
	m.state = StateInput
	m.logs = nil
	m.err = nil
	m.manager = nil
	m.exported = nil
	m.tab = TabStats
	m.offset, m.cursor = 0, 0
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.searchInput.SetValue("")
	m.searchInput.Blur()
	m.textInput.Focus()
}

func (m *Model) appendLogs(events []analysis.ProgressEvent) {
	for _, e := range events {
		// Filter verbose messages if not in verbose mode
		if e.Level == analysis.LevelVerbose && !m.verbose {
			continue
		}
		m.logs = append(m.logs, LogEntry{Message: e.Message, Level: e.Level})
	}
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

func (m Model) table() *setlist.Table {
	if m.manager == nil {
		return setlist.New(nil)
	}
	return m.manager.Table()
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("♪ Setlist Stats"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Concert setlist statistics"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateLoading:
		b.WriteString(m.viewBusy("Loading setlists..."))
	case StateBrowse:
		b.WriteString(m.viewBrowse())
	case StateExporting:
		b.WriteString(m.viewBusy("Exporting..."))
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter setlist CSV path or URL:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Create playlists on export (ctrl+p)\n", checkbox(m.playlists)))
	b.WriteString(fmt.Sprintf("  %s Verbose/debug output (ctrl+v)\n", checkbox(m.verbose)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output directory: %s", m.settings.OutputDir)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewBusy(label string) string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(label))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewBrowse() string {
	var b strings.Builder

	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	var lines []string
	switch m.tab {
	case TabStats:
		b.WriteString(m.viewStats())
		b.WriteString("\n")
	case TabTopSongs:
		lines = m.topSongLines()
	case TabVenues:
		lines = m.venueLines()
	case TabRare:
		lines = m.rareLines()
	case TabSearch:
		b.WriteString(m.searchInput.View())
		b.WriteString("\n\n")
		lines = m.searchLines()
	case TabShows:
		lines = m.showLines()
	}
	b.WriteString(m.window(lines))

	if len(m.exported) > 0 {
		b.WriteString("\n")
		b.WriteString(successStyle.Render(fmt.Sprintf("✓ Exported %d file(s)", len(m.exported))))
		b.WriteString("\n")
	}
	if len(m.logs) > 0 {
		b.WriteString("\n")
		b.WriteString(m.renderLogs())
	}

	return b.String()
}

func (m Model) renderTabs() string {
	tabs := make([]string, tabCount)
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if Tab(i) == m.tab {
			tabs[i] = activeTabStyle.Render(label)
		} else {
			tabs[i] = tabStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStats() string {
	stats := m.table().Stats()

	dateRange := "n/a"
	if stats.DateRange != nil {
		dateRange = stats.DateRange.FirstShow + " → " + stats.DateRange.LastShow
	}

	return boxStyle.Render(fmt.Sprintf(
		"Shows: %d\n"+
			"Performances: %d\n"+
			"Unique songs: %d\n"+
			"Venues: %d\n"+
			"Dates: %s\n"+
			"Covers: %d\n"+
			"Special performances: %d",
		stats.TotalShows,
		stats.TotalSongs,
		stats.UniqueSongs,
		stats.TotalVenues,
		dateRange,
		stats.Covers,
		stats.SpecialPerformances,
	))
}

func (m Model) topSongLines() []string {
	n := m.settings.TopSongs
	if n <= 0 {
		n = setlist.DefaultTopSongs
	}
	songs, err := m.table().TopSongs(n)
	if err != nil {
		return []string{errorStyle.Render(err.Error())}
	}

	width := 0
	for _, s := range songs {
		width = max(width, lipgloss.Width(s.CleanSong))
	}
	lines := make([]string, 0, len(songs))
	for i, s := range songs {
		lines = append(lines, fmt.Sprintf("%2d. %s %s %5.1f%% (%d)",
			i+1,
			songStyle.Render(pad(s.CleanSong, width)),
			m.progress.ViewAs(s.Percentage/100),
			s.Percentage,
			s.PlayCount))
	}
	return lines
}

func (m Model) venueLines() []string {
	venues := m.table().VenueStats()
	width := 0
	for _, v := range venues {
		width = max(width, lipgloss.Width(v.Venue))
	}
	lines := make([]string, 0, len(venues)+1)
	lines = append(lines, dimStyle.Render(fmt.Sprintf("%s  %5s  %6s  %5s", pad("Venue", width), "Shows", "Songs", "Avg")))
	for _, v := range venues {
		lines = append(lines, fmt.Sprintf("%s  %5d  %6d  %5.1f", pad(v.Venue, width), v.Shows, v.TotalSongs, v.AvgSongsPerShow))
	}
	return lines
}

func (m Model) rareLines() []string {
	rare := m.table().RareSongs()
	if len(rare) == 0 {
		return []string{dimStyle.Render("No songs were played only once.")}
	}
	lines := make([]string, len(rare))
	for i, song := range rare {
		lines[i] = songStyle.Render("♪ " + song)
	}
	return lines
}

func (m Model) searchLines() []string {
	query := strings.TrimSpace(m.searchInput.Value())
	if query == "" {
		return []string{dimStyle.Render("Type to search song titles.")}
	}
	apps := m.table().FindSongAppearances(query)
	if len(apps) == 0 {
		return []string{dimStyle.Render(fmt.Sprintf("No appearances of %q.", query))}
	}
	lines := make([]string, 0, len(apps)+1)
	lines = append(lines, infoStyle.Render(fmt.Sprintf("%d appearance(s)", len(apps))))
	for _, a := range apps {
		lines = append(lines, fmt.Sprintf("%s  %s  %s", a.Date, songStyle.Render(a.Song), dimStyle.Render("@ "+a.Venue)))
	}
	return lines
}

func (m Model) showLines() []string {
	shows := m.table().Shows()
	lines := make([]string, 0, len(shows))
	for i, s := range shows {
		line := fmt.Sprintf("%s  %s (%d songs)", s.Date, s.Venue, s.SongCount)
		if i != m.cursor {
			lines = append(lines, "  "+line)
			continue
		}
		lines = append(lines, subtitleStyle.Render("› "+line))
		for n, song := range s.Songs {
			lines = append(lines, songStyle.Render(fmt.Sprintf("      %2d. %s", n+1, song)))
		}
	}
	return lines
}

// window returns the visible part of lines for the terminal height.
func (m Model) window(lines []string) string {
	if len(lines) == 0 {
		return ""
	}

	visible := m.height - 14
	if visible < 10 {
		visible = 10
	}

	start := m.offset
	if m.tab == TabShows {
		// keep the selected show in view
		start = max(0, m.cursor-visible/2)
	}
	if start > len(lines)-1 {
		start = len(lines) - 1
	}
	end := min(len(lines), start+visible)

	var b strings.Builder
	for _, line := range lines[start:end] {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if end < len(lines) {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  … %d more", len(lines)-end)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
		b.WriteString("\n")
	}
	if len(m.logs) > 0 {
		b.WriteString("\n")
		b.WriteString(m.renderLogs())
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case analysis.LevelError:
			style = errorStyle
			prefix = "✗"
		case analysis.LevelWarning:
			style = warningStyle
			prefix = "!"
		case analysis.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case analysis.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: load • ctrl+p: playlists • ctrl+v: verbose • esc: quit"
	case StateLoading, StateExporting:
		return "esc: cancel"
	case StateBrowse:
		if m.tab == TabSearch && m.searchInput.Focused() {
			return "enter/esc: done typing"
		}
		help := "tab/←→: switch • ↑↓: scroll • e: export • r: new file • q: quit"
		if m.tab == TabSearch {
			help = "/: edit query • " + help
		}
		return help
	case StateError:
		return "r: try again • q: quit"
	}
	return ""
}

// load reads the input and creates the manager.
func (m *Model) load() tea.Cmd {
	settings := *m.settings
	settings.InputPath = strings.TrimSpace(m.textInput.Value())
	settings.CreatePlaylists = m.playlists
	ctx := m.ctx
	events := m.events

	return func() tea.Msg {
		manager := analysis.NewManager(&settings, events.add)
		if err := manager.Load(ctx); err != nil {
			return LoadDoneMsg{Events: events.drain(), Err: err}
		}
		return LoadDoneMsg{Manager: manager, Events: events.drain()}
	}
}

// export writes the summary and, when enabled, playlists.
func (m *Model) export() tea.Cmd {
	manager := m.manager
	playlists := m.playlists
	ctx := m.ctx
	events := m.events

	return func() tea.Msg {
		if manager == nil {
			return ExportDoneMsg{Err: errors.New("nothing loaded")}
		}

		paths, err := manager.Export(ctx)
		if err == nil && playlists {
			var written []string
			written, err = manager.CreatePlaylists(ctx)
			paths = append(paths, written...)
		}
		return ExportDoneMsg{Paths: paths, Events: events.drain(), Err: err}
	}
}

func checkbox(on bool) string {
	if on {
		return "[×]"
	}
	return "[ ]"
}

func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
