package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/spool/internal/core"
	spoolerrors "github.com/tessro/spool/internal/errors"
	"github.com/tessro/spool/internal/media/mediatest"
	"github.com/tessro/spool/internal/player"
	"github.com/tessro/spool/internal/remote"
	"github.com/tessro/spool/internal/source"
)

func newTestModel(t *testing.T) (Model, *player.Player, *mediatest.Recorder) {
	t.Helper()
	rec := mediatest.New()
	p := player.New(rec, source.NewStore(0), player.Options{})
	t.Cleanup(func() { _ = p.Close() })

	m := NewModel(p, Options{Extensions: []string{".mp3"}, StartDir: t.TempDir()})
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, p, rec
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T, want Model", next)
	}
	return model
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var spaceKey = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

func addTracks(t *testing.T, m Model, names ...string) Model {
	t.Helper()
	for _, name := range names {
		m = update(t, m, fileReadMsg{name: "/music/" + name, data: []byte("audio")})
	}
	return m
}

func TestViewPlaceholders(t *testing.T) {
	m, _, _ := newTestModel(t)
	view := m.View()

	for _, want := range []string{"Audio Title", "Person Name", "0:00", "Playlist is empty"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestToggleOnEmptyShowsHint(t *testing.T) {
	m, _, rec := newTestModel(t)
	m = update(t, m, spaceKey)

	if !errors.Is(m.lastError, spoolerrors.ErrEmptyPlaylist) {
		t.Errorf("lastError = %v, want ErrEmptyPlaylist", m.lastError)
	}
	if !strings.Contains(m.View(), "Press 'a'") {
		t.Error("View() missing add-files hint")
	}
	if calls := rec.Calls(); len(calls) != 0 {
		t.Errorf("media calls = %v, want none", calls)
	}
}

func TestFileReadUploads(t *testing.T) {
	m, p, _ := newTestModel(t)
	m = addTracks(t, m, "a.mp3")

	if got := p.State().Playlist.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1", got)
	}
	if !strings.HasPrefix(m.status, "Added a.mp3") {
		t.Errorf("status = %q, want upload message", m.status)
	}
	if !strings.Contains(m.View(), "a.mp3") {
		t.Error("View() missing uploaded track")
	}
}

func TestFileReadError(t *testing.T) {
	m, p, _ := newTestModel(t)
	m = update(t, m, fileReadMsg{name: "x.mp3", err: errors.New("permission denied")})

	if m.lastError == nil {
		t.Error("lastError = nil, want error")
	}
	if p.State().Playlist.Len() != 0 {
		t.Error("failed read added a track")
	}
}

func TestTransportKeys(t *testing.T) {
	m, p, rec := newTestModel(t)
	m = addTracks(t, m, "a.mp3", "b.mp3", "c.mp3")
	rec.Reset()

	m = update(t, m, spaceKey)
	if !p.State().IsPlaying {
		t.Error("IsPlaying = false after space, want true")
	}
	if rec.Count("play") != 1 {
		t.Errorf("calls = %v, want one play", rec.Calls())
	}

	m = update(t, m, keyRunes("n"))
	if got := p.State().Playlist.CurrentIndex; got != 1 {
		t.Errorf("CurrentIndex after n = %d, want 1", got)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if got := p.State().Playlist.CurrentIndex; got != 2 {
		t.Errorf("CurrentIndex after → = %d, want 2", got)
	}
	m = update(t, m, keyRunes("p"))
	if got := p.State().Playlist.CurrentIndex; got != 1 {
		t.Errorf("CurrentIndex after p = %d, want 1", got)
	}
	_ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if got := p.State().Playlist.CurrentIndex; got != 0 {
		t.Errorf("CurrentIndex after ← = %d, want 0", got)
	}
}

func TestEnterSelectsRow(t *testing.T) {
	m, p, _ := newTestModel(t)
	m = addTracks(t, m, "a.mp3", "b.mp3")

	m = update(t, m, keyRunes("j"))
	_ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if got := p.State().Playlist.CurrentIndex; got != 1 {
		t.Errorf("CurrentIndex = %d, want 1", got)
	}
}

func TestMediaEventsUpdateState(t *testing.T) {
	m, p, _ := newTestModel(t)
	m = addTracks(t, m, "a.mp3")
	src := p.State().SourceID()

	m = update(t, m, mediaMsg{Type: core.MediaMetadataLoaded, Source: src, Duration: 2 * time.Minute})
	m = update(t, m, mediaMsg{Type: core.MediaTimeUpdate, Source: src, Position: 61 * time.Second})

	view := m.View()
	for _, want := range []string{"1:01", "2:00"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	m = update(t, m, mediaMsg{Type: core.MediaError, Source: src, Err: spoolerrors.ErrUnsupportedFormat})
	if !errors.Is(m.lastError, spoolerrors.ErrUnsupportedFormat) {
		t.Errorf("lastError = %v, want ErrUnsupportedFormat", m.lastError)
	}
}

func TestRemoteMessages(t *testing.T) {
	m, p, _ := newTestModel(t)
	m = addTracks(t, m, "a.mp3", "b.mp3")

	m = update(t, m, RemoteMsg(remote.CommandNext))
	if got := p.State().Playlist.CurrentIndex; got != 1 {
		t.Errorf("CurrentIndex = %d, want 1", got)
	}

	m = update(t, m, RemoteMsg(remote.CommandQuit))
	if !m.quitting {
		t.Error("quitting = false after remote quit")
	}
}

func TestPickerOpensAndCloses(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = update(t, m, keyRunes("a"))
	if !m.showPicker {
		t.Fatal("showPicker = false after a")
	}
	if !strings.Contains(m.View(), "Add audio files") {
		t.Error("View() missing picker title")
	}

	// Transport keys are ignored while the picker is open.
	m = update(t, m, spaceKey)
	if m.lastError != nil {
		t.Errorf("lastError = %v, want nil", m.lastError)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.showPicker {
		t.Error("showPicker = true after esc")
	}
}

func TestStatusClears(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = update(t, m, spaceKey)
	first := m.statusID

	m = update(t, m, spaceKey)
	m = update(t, m, clearStatusMsg(first))
	if m.lastError == nil {
		t.Error("stale clear removed a newer error")
	}

	m = update(t, m, clearStatusMsg(m.statusID))
	if m.lastError != nil {
		t.Errorf("lastError = %v after clear, want nil", m.lastError)
	}
}

func TestHelpOverlay(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = update(t, m, keyRunes("?"))
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("View() missing help title")
	}
	m = update(t, m, keyRunes("?"))
	if m.showHelp {
		t.Error("showHelp = true after second ?")
	}
}

func TestHistoryRecordsSkips(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = addTracks(t, m, "a.mp3", "b.mp3")

	m = update(t, m, keyRunes("n"))

	if len(m.history.entries) != 1 {
		t.Fatalf("history entries = %d, want 1", len(m.history.entries))
	}
	entry := m.history.entries[0]
	if entry.Track.Title != "a.mp3" || !entry.Skipped {
		t.Errorf("entry = %+v, want skipped a.mp3", entry)
	}
	if view := m.View(); !strings.Contains(view, "History") || !strings.Contains(view, "⏭") {
		t.Errorf("View() missing history panel:\n%s", view)
	}
}

func TestFocusCycles(t *testing.T) {
	m, _, _ := newTestModel(t)
	want := []Panel{PanelNowPlaying, PanelHistory, PanelPlaylist}
	for i, panel := range want {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
		if m.focusedPanel != panel {
			t.Errorf("focus after %d tabs = %v, want %v", i+1, m.focusedPanel, panel)
		}
	}
}
