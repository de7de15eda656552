package remote

import (
	"errors"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/tessro/spool/internal/core"
	spoolerrors "github.com/tessro/spool/internal/errors"
)

type fakePlayer struct {
	calls []string
	err   error
}

func (f *fakePlayer) call(name string) error {
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakePlayer) TogglePlayPause() error    { return f.call("toggle") }
func (f *fakePlayer) Play() error               { return f.call("play") }
func (f *fakePlayer) Pause() error              { return f.call("pause") }
func (f *fakePlayer) Next() error               { return f.call("next") }
func (f *fakePlayer) Prev() error               { return f.call("prev") }
func (f *fakePlayer) Select(int) error          { return f.call("select") }
func (f *fakePlayer) State() core.PlaybackState { return core.PlaybackState{} }

func TestApply(t *testing.T) {
	tests := []struct {
		cmd  Command
		want string
	}{
		{CommandPlayPause, "toggle"},
		{CommandPlay, "play"},
		{CommandPause, "pause"},
		{CommandStop, "pause"},
		{CommandNext, "next"},
		{CommandPrevious, "prev"},
		{CommandQuit, ""},
	}

	for _, tt := range tests {
		t.Run(tt.cmd.String(), func(t *testing.T) {
			p := &fakePlayer{}
			if err := Apply(p, tt.cmd); err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			got := ""
			if len(p.calls) > 0 {
				got = p.calls[0]
			}
			if got != tt.want {
				t.Errorf("Apply(%s) called %q, want %q", tt.cmd, got, tt.want)
			}
		})
	}
}

func TestApplyPropagatesErrors(t *testing.T) {
	p := &fakePlayer{err: spoolerrors.ErrEmptyPlaylist}
	if err := Apply(p, CommandNext); !errors.Is(err, spoolerrors.ErrEmptyPlaylist) {
		t.Errorf("Apply() error = %v, want ErrEmptyPlaylist", err)
	}
	if err := Apply(p, Command(99)); err == nil {
		t.Error("Apply(unknown) error = nil, want error")
	}
}

func TestMethodsDispatch(t *testing.T) {
	var got []Command
	m := mprisPlayer{dispatch: func(c Command) { got = append(got, c) }}
	r := mprisRoot{dispatch: func(c Command) { got = append(got, c) }}

	m.PlayPause()
	m.Next()
	m.Previous()
	m.Stop()
	_ = m.Seek(10)
	r.Quit()

	want := []Command{CommandPlayPause, CommandNext, CommandPrevious, CommandStop, CommandQuit}
	if len(got) != len(want) {
		t.Fatalf("dispatched %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("dispatch[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestStatus(t *testing.T) {
	loaded := core.PlaybackState{}.WithTracks(core.NewTrack("a.mp3", "", "mem:a", 1))

	tests := []struct {
		name  string
		state core.PlaybackState
		want  string
	}{
		{"empty", core.PlaybackState{}, StatusStopped},
		{"paused", loaded, StatusPaused},
		{"playing", loaded.WithPlaying(true), StatusPlaying},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Status(tt.state); got != tt.want {
				t.Errorf("Status() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMetadata(t *testing.T) {
	empty := metadata(core.PlaybackState{})
	if got := empty["mpris:trackid"].Value(); got != noTrackPath {
		t.Errorf("trackid = %v, want %v", got, noTrackPath)
	}

	st := core.PlaybackState{}.
		WithTracks(core.NewTrack("a.mp3", "", "mem:a", 1), core.NewTrack("b.mp3", "Band", "mem:b", 1)).
		Next().
		WithDuration(90 * time.Second)
	md := metadata(st)

	if got := md["xesam:title"].Value(); got != "b.mp3" {
		t.Errorf("title = %v, want b.mp3", got)
	}
	if got := md["mpris:length"].Value(); got != int64(90_000_000) {
		t.Errorf("length = %v, want 90000000", got)
	}
	if got := md["mpris:trackid"].Value(); got != dbus.ObjectPath("/org/tessro/spool/track/1") {
		t.Errorf("trackid = %v", got)
	}
	artists, ok := md["xesam:artist"].Value().([]string)
	if !ok || len(artists) != 1 || artists[0] != "Band" {
		t.Errorf("artist = %v, want [Band]", md["xesam:artist"].Value())
	}
}
