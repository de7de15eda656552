package tui

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"

	"github.com/tessro/spool/internal/core"
	spoolerrors "github.com/tessro/spool/internal/errors"
	"github.com/tessro/spool/internal/player"
	"github.com/tessro/spool/internal/remote"
	"github.com/tessro/spool/internal/tui/components"
	"github.com/tessro/spool/internal/tui/styles"
)

// Panel represents which panel is focused
type Panel int

const (
	PanelPlaylist Panel = iota
	PanelNowPlaying
	PanelHistory
)

const panelCount = 3

// Below this width the history panel is hidden.
const historyMinWidth = 70

const statusDuration = 5 * time.Second

// Options configures the UI.
type Options struct {
	// Extensions limits what the file picker offers.
	Extensions []string
	// StartDir is where the file picker opens. Defaults to the working directory.
	StartDir string
	HideCover bool
	Theme     string
	// Status is shown in the status bar on start.
	Status string
}

// Model is the main TUI model
type Model struct {
	player *player.Player
	keys   keyMap
	help   help.Model

	width        int
	height       int
	focusedPanel Panel

	nowPlaying   *components.NowPlaying
	playlistView *components.Playlist
	historyView  *components.History
	history      *historyLog

	// Overlays
	showHelp   bool
	showPicker bool
	picker     filepicker.Model

	// Status bar
	status    string
	lastError error
	statusID  int

	quitting bool
}

// NewModel creates a new TUI model
func NewModel(p *player.Player, opts Options) Model {
	fp := filepicker.New()
	fp.AllowedTypes = opts.Extensions
	fp.ShowPermissions = false
	if opts.StartDir != "" {
		fp.CurrentDirectory = opts.StartDir
	} else if wd, err := os.Getwd(); err == nil {
		fp.CurrentDirectory = wd
	}

	styles.SetTheme(opts.Theme)

	hist := &historyLog{}
	p.OnChange(hist.observe)

	return Model{
		player:       p,
		keys:         defaultKeyMap(),
		help:         help.New(),
		focusedPanel: PanelPlaylist,
		nowPlaying:   components.NewNowPlaying(!opts.HideCover),
		playlistView: components.NewPlaylist(),
		historyView:  components.NewHistory(),
		history:      hist,
		picker:       fp,
		status:       opts.Status,
	}
}

// Messages
type mediaMsg core.MediaEvent
type clearStatusMsg int
type fileReadMsg struct {
	name string
	data []byte
	err  error
}

// RemoteMsg carries a command from desktop media controls.
type RemoteMsg remote.Command

// FilesFoundMsg reports audio files that appeared in the watched directory.
type FilesFoundMsg []string

// Commands
func waitForMedia(events <-chan core.MediaEvent) tea.Cmd {
	return func() tea.Msg {
		return mediaMsg(<-events)
	}
}

func readFile(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		return fileReadMsg{name: path, data: data, err: err}
	}
}

func (m *Model) clearStatusAfter() tea.Cmd {
	m.statusID++
	id := m.statusID
	return tea.Tick(statusDuration, func(time.Time) tea.Msg {
		return clearStatusMsg(id)
	})
}

func (m *Model) setStatus(s string) tea.Cmd {
	m.status = s
	m.lastError = nil
	return m.clearStatusAfter()
}

func (m *Model) setError(err error) tea.Cmd {
	m.lastError = err
	m.status = ""
	return m.clearStatusAfter()
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForMedia(m.player.Events())}
	if m.status != "" {
		cmds = append(cmds, tea.Tick(statusDuration, func(time.Time) tea.Msg {
			return clearStatusMsg(0)
		}))
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd

	case mediaMsg:
		next := waitForMedia(m.player.Events())
		if err := m.player.HandleEvent(core.MediaEvent(msg)); err != nil {
			errCmd := m.setError(err)
			return m, tea.Batch(next, errCmd)
		}
		return m, next

	case fileReadMsg:
		if msg.err != nil {
			cmd := m.setError(msg.err)
			return m, cmd
		}
		cmd := m.upload(msg.name, msg.data)
		return m, cmd

	case FilesFoundMsg:
		cmds := make([]tea.Cmd, 0, len(msg))
		for _, path := range msg {
			cmds = append(cmds, readFile(path))
		}
		return m, tea.Batch(cmds...)

	case RemoteMsg:
		rc := remote.Command(msg)
		log.Debug().Str("command", rc.String()).Msg("Remote command")
		if rc == remote.CommandQuit {
			m.quitting = true
			return m, tea.Quit
		}
		cmd := m.transport(func() error { return remote.Apply(m.player, rc) })
		return m, cmd

	case clearStatusMsg:
		if int(msg) == m.statusID {
			m.status = ""
			m.lastError = nil
		}
		return m, nil
	}

	// The picker reads directories asynchronously
	if m.showPicker {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) upload(name string, data []byte) tea.Cmd {
	result := m.player.Upload(player.File{Name: name, Body: bytes.NewReader(data)})
	if result.HasErrors() {
		return m.setError(result.Err())
	}
	added := result.Data[0]
	return m.setStatus(fmt.Sprintf("Added %s (%s)", added.Title, humanize.Bytes(uint64(added.Size))))
}

func (m *Model) transport(fn func() error) tea.Cmd {
	if err := fn(); err != nil {
		return m.setError(err)
	}
	return nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys (always work)
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	// Help overlay
	if m.showHelp {
		switch msg.String() {
		case "?", "esc":
			m.showHelp = false
		}
		return m, nil
	}

	// Picker overlay
	if m.showPicker {
		return m.handlePickerKeyPress(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Add):
		m.showPicker = true
		return m, m.picker.Init()

	case key.Matches(msg, m.keys.Focus):
		m.focusedPanel = (m.focusedPanel + 1) % panelCount
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		cmd := m.transport(m.player.TogglePlayPause)
		return m, cmd

	case key.Matches(msg, m.keys.Next):
		cmd := m.transport(m.player.Next)
		return m, cmd

	case key.Matches(msg, m.keys.Prev):
		cmd := m.transport(m.player.Prev)
		return m, cmd
	}

	// Panel-specific keys
	if m.focusedPanel == PanelPlaylist {
		switch {
		case key.Matches(msg, m.keys.Down):
			m.playlistView.CursorDown(m.player.State().Playlist.Len())
		case key.Matches(msg, m.keys.Up):
			m.playlistView.CursorUp()
		case key.Matches(msg, m.keys.Select):
			cursor := m.playlistView.Cursor()
			cmd := m.transport(func() error { return m.player.Select(cursor) })
			return m, cmd
		}
	}

	return m, nil
}

func (m Model) handlePickerKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.showPicker = false
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		return m, tea.Batch(cmd, readFile(path))
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		err := fmt.Errorf("%s: %w", filepath.Base(path), spoolerrors.ErrUnsupportedFormat)
		errCmd := m.setError(err)
		return m, tea.Batch(cmd, errCmd)
	}
	return m, cmd
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.showPicker {
		return m.renderPicker()
	}

	state := m.player.State()

	topHeight := 12
	bottomHeight := m.height - topHeight - 1
	if bottomHeight < 5 {
		bottomHeight = 5
	}

	nowPlaying := m.nowPlaying.Render(state, m.width-2, topHeight-2, m.focusedPanel == PanelNowPlaying)

	var bottom string
	if m.width < historyMinWidth {
		bottom = m.playlistView.Render(state.Playlist, m.width-2, bottomHeight-2, m.focusedPanel == PanelPlaylist)
	} else {
		// Two bordered panels side by side
		playlistWidth := (m.width - 4) * 2 / 3
		historyWidth := m.width - 4 - playlistWidth
		bottom = lipgloss.JoinHorizontal(lipgloss.Top,
			m.playlistView.Render(state.Playlist, playlistWidth, bottomHeight-2, m.focusedPanel == PanelPlaylist),
			m.historyView.Render(m.history.entries, historyWidth, bottomHeight-2, m.focusedPanel == PanelHistory),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, nowPlaying, bottom, m.renderStatusBar())
}

func (m Model) renderStatusBar() string {
	status := m.help.ShortHelpView(m.keys.ShortHelp())

	switch {
	case m.lastError != nil:
		text := "Error: " + m.lastError.Error()
		if s := spoolerrors.GetSuggestion(m.lastError); s != "" {
			text += " (" + s + ")"
		}
		status = styles.ErrorText.Render(text)
	case m.status != "":
		status = styles.Playing.Render(m.status)
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(status)
}

func (m Model) renderHelp() string {
	title := "spool - Keyboard Shortcuts"

	h := m.help
	h.ShowAll = true

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.Title.Render(title),
		styles.Dim.Render(strings.Repeat("═", len(title))),
		"",
		h.View(m.keys),
		"",
		styles.Dim.Render("Press ? or Esc to close"),
	)

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.Padding(1, 2).Render(content))
}

func (m Model) renderPicker() string {
	var b strings.Builder

	b.WriteString(styles.Highlight.Render("Add audio files"))
	b.WriteString("\n")
	b.WriteString(styles.Dim.Render(m.picker.CurrentDirectory))
	b.WriteString("\n\n")
	b.WriteString(m.picker.View())
	b.WriteString("\n")

	switch {
	case m.lastError != nil:
		b.WriteString(styles.ErrorText.Render(m.lastError.Error()))
	case m.status != "":
		b.WriteString(styles.Playing.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(styles.Dim.Render("enter:add  ←/→:navigate  esc:done"))

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(1, 2).
		Render(b.String())
}

// NewProgram builds the bubbletea program for p. Callers may Send RemoteMsg
// and FilesFoundMsg to it from other goroutines.
func NewProgram(p *player.Player, opts Options) *tea.Program {
	return tea.NewProgram(NewModel(p, opts), tea.WithAltScreen())
}
