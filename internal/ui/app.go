package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/timekeep/internal/action"
	"github.com/five82/timekeep/internal/entry"
	"github.com/five82/timekeep/internal/flux"
	"github.com/five82/timekeep/internal/prefs"
)

// View represents the current active view.
type View int

const (
	ViewEntries View = iota
	ViewLogs
)

// hoursTarget is the daily goal the header bar fills toward.
const hoursTarget = 8 * time.Hour

// Actions is the part of the action creators the view drives.
type Actions interface {
	LoadEntries() <-chan error
	AddEntry(name, description string) <-chan error
	StopEntry(id entry.ID) <-chan error
	DeleteEntry(id entry.ID) <-chan error
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     EntrySource
	Actions   Actions
	Prefs     prefs.Prefs
	PrefsPath string // empty uses default ~/.config/timekeep/prefs.toml
	LogFile   string
	Tick      time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	actions    Actions
	controller *Controller
	prefs      prefs.Prefs
	prefsPath  string
	logFile    string
	tick       time.Duration

	// Widgets
	keys     keyMap
	help     help.Model
	progress progress.Model

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	now         time.Time
	showHelp    bool
	form        entryForm

	// Data state
	pres        Presentation
	selectedRow int
	flash       string
	flashErr    bool

	// Log state
	logLines []string
	logLevel slog.Level
	logErr   error
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	tick := opts.Tick
	if tick <= 0 {
		tick = defaultTick
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	theme := GetTheme(opts.Prefs.Theme)

	return Model{
		ctx:         ctx,
		actions:     opts.Actions,
		controller:  NewController(opts.Store, opts.Actions),
		prefs:       opts.Prefs,
		prefsPath:   prefsPath,
		logFile:     opts.LogFile,
		tick:        tick,
		keys:        DefaultKeyMap(),
		help:        newHelp(theme),
		progress:    newProgress(theme, 0),
		theme:       theme,
		currentView: ViewEntries,
		now:         time.Now(),
		form:        newEntryForm(),
		logLevel:    slog.LevelInfo,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		activateCmd(m.ctx, m.controller),
		waitForChange(m.ctx, m.controller.Changes()),
		tickCmd(m.tick),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.progress = newProgress(m.theme, msg.Width)
		return m, nil

	case tickMsg:
		m.now = time.Time(msg)
		cmds := []tea.Cmd{tickCmd(m.tick)}
		if m.currentView == ViewLogs {
			cmds = append(cmds, m.readLogs())
		}
		return m, tea.Batch(cmds...)

	case changedMsg:
		m.pres = m.controller.Presentation()
		m.clampSelection()
		return m, waitForChange(m.ctx, m.controller.Changes())

	case resultMsg:
		m.handleResult(msg)
		return m, nil

	case logLinesMsg:
		m.logLines = msg.lines
		m.logErr = msg.err
		return m, nil
	}

	if m.form.active {
		var cmd tea.Cmd
		m.form, cmd = m.form.update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderContent() string {
	if m.form.active {
		return m.renderForm()
	}
	switch m.currentView {
	case ViewLogs:
		return m.renderLogs()
	default:
		return m.renderEntries()
	}
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	line := m.help.View(m.keys)
	if m.flash != "" {
		flash := styles.SuccessText.Render(m.flash)
		if m.flashErr {
			flash = styles.DangerText.Render(m.flash)
		}
		line = flash + "  " + line
	}
	return styles.Footer.Render(line)
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.form.active {
		return m.handleFormKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.help = newHelp(m.theme)
		m.help.Width = m.width
		m.progress = newProgress(m.theme, m.width)
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		return m, nil
	case key.Matches(msg, m.keys.ViewEntries), key.Matches(msg, m.keys.Escape):
		m.currentView = ViewEntries
		return m, nil
	case key.Matches(msg, m.keys.ViewLogs):
		m.currentView = ViewLogs
		return m, m.readLogs()
	}

	switch m.currentView {
	case ViewEntries:
		return m.handleEntriesKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	}
	return m, nil
}

// handleEntriesKey processes keyboard input for the entry list.
func (m Model) handleEntriesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.visibleEntries()

	switch {
	case key.Matches(msg, m.keys.Add):
		m.flash = ""
		cmd := m.form.open()
		return m, cmd
	case key.Matches(msg, m.keys.Reload):
		return m, awaitCmd(m.ctx, "load", m.actions.LoadEntries())
	case key.Matches(msg, m.keys.HideStopped):
		m.prefs.HideStopped = !m.prefs.HideStopped
		m.clampSelection()
		m.savePrefs()
		return m, nil
	}

	if len(visible) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < len(visible)-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = len(visible) - 1
	case key.Matches(msg, m.keys.Stop):
		selected := visible[m.selectedRow]
		if !selected.Running() {
			m.setFlash("entry already stopped", true)
			return m, nil
		}
		return m, awaitCmd(m.ctx, "stop", m.actions.StopEntry(selected.ID))
	case key.Matches(msg, m.keys.Delete):
		return m, awaitCmd(m.ctx, "delete", m.actions.DeleteEntry(visible[m.selectedRow].ID))
	}
	return m, nil
}

func (m *Model) handleResult(msg resultMsg) {
	switch {
	case msg.err == nil:
		switch msg.op {
		case "add":
			m.setFlash("entry started", false)
		case "stop":
			m.setFlash("entry stopped", false)
		case "delete":
			m.setFlash("entry deleted", false)
		default:
			m.flash = ""
		}
	case errors.Is(msg.err, action.ErrSuperseded),
		errors.Is(msg.err, flux.ErrLoopStopped),
		errors.Is(msg.err, context.Canceled):
	default:
		m.setFlash(msg.op+" failed: "+msg.err.Error(), true)
	}
}

func (m *Model) setFlash(text string, isErr bool) {
	m.flash = text
	m.flashErr = isErr
}

// visibleEntries applies the hide-stopped preference.
func (m Model) visibleEntries() []entry.Entry {
	if !m.prefs.HideStopped {
		return m.pres.Entries
	}
	visible := make([]entry.Entry, 0, len(m.pres.Entries))
	for _, e := range m.pres.Entries {
		if e.Running() {
			visible = append(visible, e)
		}
	}
	return visible
}

func (m *Model) clampSelection() {
	n := len(m.visibleEntries())
	if m.selectedRow >= n {
		m.selectedRow = n - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
}

func (m Model) savePrefs() {
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		slog.Warn("save prefs failed", "path", m.prefsPath, "error", err)
	}
}

func newHelp(theme Theme) help.Model {
	styles := theme.Styles()
	h := help.New()
	h.Styles.ShortKey = styles.WarningText
	h.Styles.ShortDesc = styles.MutedText
	h.Styles.ShortSeparator = styles.FaintText
	return h
}

func newProgress(theme Theme, width int) progress.Model {
	p := progress.New(progress.WithSolidFill(theme.Accent), progress.WithoutPercentage())
	p.Width = max(10, min(width/4, 40))
	return p
}

// Messages

type tickMsg time.Time

type changedMsg struct{}

type resultMsg struct {
	op  string
	err error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func activateCmd(ctx context.Context, c *Controller) tea.Cmd {
	return func() tea.Msg {
		return awaitCmd(ctx, "load", c.Activate())()
	}
}

func waitForChange(ctx context.Context, changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-changes:
			return changedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

// awaitCmd reports the outcome of a creator. It gives up once ctx is done so a
// result that never arrives cannot pin the command goroutine.
func awaitCmd(ctx context.Context, op string, done <-chan error) tea.Cmd {
	return func() tea.Msg {
		select {
		case err := <-done:
			return resultMsg{op: op, err: err}
		case <-ctx.Done():
			return nil
		}
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	defer m.controller.Deactivate()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
