package core

import (
	"testing"
	"time"
)

func tracks(n int) []Track {
	out := make([]Track, n)
	for i := range out {
		id := string(rune('a' + i))
		out[i] = Track{ID: id, Title: id + ".mp3", Artist: DefaultArtist, Source: id}
	}
	return out
}

func TestWithTracksPreservesOrder(t *testing.T) {
	var s PlaybackState
	s = s.WithTracks(tracks(2)...)
	s = s.Select(1)
	s = s.WithTracks(Track{ID: "z", Source: "z"}, Track{ID: "y", Source: "y"})

	if s.Playlist.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", s.Playlist.Len())
	}
	want := []string{"a", "b", "z", "y"}
	for i, id := range want {
		if s.Playlist.Tracks[i].ID != id {
			t.Errorf("Tracks[%d].ID = %q, want %q", i, s.Playlist.Tracks[i].ID, id)
		}
	}
	if s.Playlist.CurrentIndex != 1 {
		t.Errorf("CurrentIndex = %d, want 1", s.Playlist.CurrentIndex)
	}
}

func TestWithTracksDoesNotMutateReceiver(t *testing.T) {
	base := PlaybackState{}.WithTracks(tracks(1)...)
	_ = base.WithTracks(tracks(3)...)

	if base.Playlist.Len() != 1 {
		t.Errorf("receiver Len() = %d, want 1", base.Playlist.Len())
	}
}

func TestNextPrevWrap(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		start int
		next  int
		prev  int
	}{
		{"single", 1, 0, 0, 0},
		{"first of three", 3, 0, 1, 2},
		{"middle of three", 3, 1, 2, 0},
		{"last of three", 3, 2, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := PlaybackState{}.WithTracks(tracks(tt.n)...).Select(tt.start)

			if got := s.Next().Playlist.CurrentIndex; got != tt.next {
				t.Errorf("Next() index = %d, want %d", got, tt.next)
			}
			if got := s.Prev().Playlist.CurrentIndex; got != tt.prev {
				t.Errorf("Prev() index = %d, want %d", got, tt.prev)
			}
			if got := s.Next().Prev().Playlist.CurrentIndex; got != tt.start {
				t.Errorf("Next().Prev() index = %d, want %d", got, tt.start)
			}
		})
	}
}

func TestEmptyPlaylistTransitionsAreNoOps(t *testing.T) {
	var s PlaybackState

	if got := s.Next(); got.Playlist.CurrentIndex != 0 || got.IsPlaying {
		t.Errorf("Next() on empty = %+v, want zero state", got)
	}
	if got := s.Prev(); got.Playlist.CurrentIndex != 0 || got.IsPlaying {
		t.Errorf("Prev() on empty = %+v, want zero state", got)
	}
	if got := s.TogglePlaying(); got.IsPlaying {
		t.Error("TogglePlaying() on empty set IsPlaying")
	}
	if s.HasTrack() {
		t.Error("HasTrack() = true on empty playlist")
	}
}

func TestSelectOutOfRange(t *testing.T) {
	s := PlaybackState{}.WithTracks(tracks(2)...)

	if got := s.Select(5).Playlist.CurrentIndex; got != 0 {
		t.Errorf("Select(5) index = %d, want 0", got)
	}
	if got := s.Select(-1).Playlist.CurrentIndex; got != 0 {
		t.Errorf("Select(-1) index = %d, want 0", got)
	}
}

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		name     string
		current  time.Duration
		duration time.Duration
		want     float64
	}{
		{"no metadata", 10 * time.Second, 0, 0},
		{"start", 0, 200 * time.Second, 0},
		{"quarter", 50 * time.Second, 200 * time.Second, 25},
		{"end", 200 * time.Second, 200 * time.Second, 100},
		{"overshoot clamps", 250 * time.Second, 200 * time.Second, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := PlaybackState{}.WithDuration(tt.duration).WithTime(tt.current)
			if got := s.ProgressPercent(); got != tt.want {
				t.Errorf("ProgressPercent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResetTime(t *testing.T) {
	s := PlaybackState{}.WithDuration(3 * time.Minute).WithTime(time.Minute).ResetTime()

	if s.CurrentTime != 0 || s.Duration != 0 {
		t.Errorf("ResetTime() = (%v, %v), want (0, 0)", s.CurrentTime, s.Duration)
	}
	if s.ProgressPercent() != 0 {
		t.Errorf("ProgressPercent() = %v, want 0", s.ProgressPercent())
	}
}
