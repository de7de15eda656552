package core

import "time"

// PlaybackState is the player's state record. It is a value type: every
// transition returns a new record and leaves the receiver untouched.
type PlaybackState struct {
	Playlist    Playlist      `json:"playlist"`
	IsPlaying   bool          `json:"is_playing"`
	CurrentTime time.Duration `json:"current_time"`
	Duration    time.Duration `json:"duration"`
}

// HasTrack returns true if there is a current track.
func (s PlaybackState) HasTrack() bool {
	return s.Playlist.Current() != nil
}

// Track returns the current track, or nil when the playlist is empty.
func (s PlaybackState) Track() *Track {
	return s.Playlist.Current()
}

// SourceID returns the current track's source handle, or "" if none.
func (s PlaybackState) SourceID() string {
	if t := s.Track(); t != nil {
		return t.Source
	}
	return ""
}

// ProgressPercent returns playback progress as a percentage (0-100).
func (s PlaybackState) ProgressPercent() float64 {
	if s.Duration <= 0 || s.CurrentTime <= 0 {
		return 0
	}
	p := float64(s.CurrentTime) / float64(s.Duration) * 100
	if p > 100 {
		return 100
	}
	return p
}

// WithTracks appends tracks, keeping the current index.
func (s PlaybackState) WithTracks(tracks ...Track) PlaybackState {
	s.Playlist = s.Playlist.Append(tracks...)
	return s
}

// TogglePlaying flips IsPlaying. No-op on an empty playlist.
func (s PlaybackState) TogglePlaying() PlaybackState {
	if s.Playlist.IsEmpty() {
		return s
	}
	s.IsPlaying = !s.IsPlaying
	return s
}

// WithPlaying sets IsPlaying. No-op on an empty playlist.
func (s PlaybackState) WithPlaying(playing bool) PlaybackState {
	if s.Playlist.IsEmpty() {
		return s
	}
	s.IsPlaying = playing
	return s
}

// Next moves to the following track, wrapping to the first.
func (s PlaybackState) Next() PlaybackState {
	return s.Select(s.Playlist.NextIndex())
}

// Prev moves to the preceding track, wrapping to the last.
func (s PlaybackState) Prev() PlaybackState {
	return s.Select(s.Playlist.PrevIndex())
}

// Select makes track i current. Out of range indices leave the state as is.
func (s PlaybackState) Select(i int) PlaybackState {
	if i < 0 || i >= s.Playlist.Len() {
		return s
	}
	s.Playlist = Playlist{Tracks: s.Playlist.Tracks, CurrentIndex: i}
	return s
}

// ResetTime zeroes position and duration for a freshly loaded track.
func (s PlaybackState) ResetTime() PlaybackState {
	s.CurrentTime = 0
	s.Duration = 0
	return s
}

// WithTime records a playback position reported by the media handle.
func (s PlaybackState) WithTime(pos time.Duration) PlaybackState {
	if pos < 0 {
		pos = 0
	}
	s.CurrentTime = pos
	return s
}

// WithDuration records the total duration once metadata has loaded.
func (s PlaybackState) WithDuration(d time.Duration) PlaybackState {
	if d < 0 {
		d = 0
	}
	s.Duration = d
	return s
}
