package core

// Playlist is the ordered sequence of uploaded tracks.
type Playlist struct {
	Tracks       []Track `json:"tracks"`
	CurrentIndex int     `json:"current_index"`
}

// Current returns the current track, or nil if the playlist is empty.
func (p Playlist) Current() *Track {
	if len(p.Tracks) == 0 || p.CurrentIndex < 0 || p.CurrentIndex >= len(p.Tracks) {
		return nil
	}
	return &p.Tracks[p.CurrentIndex]
}

// Upcoming returns tracks after the current position.
func (p Playlist) Upcoming() []Track {
	if len(p.Tracks) == 0 || p.CurrentIndex < 0 || p.CurrentIndex >= len(p.Tracks)-1 {
		return nil
	}
	return p.Tracks[p.CurrentIndex+1:]
}

// Len returns the total number of tracks.
func (p Playlist) Len() int {
	return len(p.Tracks)
}

// IsEmpty returns true if the playlist has no tracks.
func (p Playlist) IsEmpty() bool {
	return p.Len() == 0
}

// Append returns a copy of the playlist with tracks added at the end.
// The current index is preserved.
func (p Playlist) Append(tracks ...Track) Playlist {
	next := make([]Track, 0, len(p.Tracks)+len(tracks))
	next = append(next, p.Tracks...)
	next = append(next, tracks...)
	return Playlist{Tracks: next, CurrentIndex: p.CurrentIndex}
}

// NextIndex returns the index after the current one, wrapping to 0.
// An empty playlist stays at 0.
func (p Playlist) NextIndex() int {
	if p.IsEmpty() {
		return 0
	}
	return (p.CurrentIndex + 1) % len(p.Tracks)
}

// PrevIndex returns the index before the current one, wrapping to the last
// track. An empty playlist stays at 0.
func (p Playlist) PrevIndex() int {
	if p.IsEmpty() {
		return 0
	}
	if p.CurrentIndex == 0 {
		return len(p.Tracks) - 1
	}
	return p.CurrentIndex - 1
}

// IsLast returns true if the current track is the final one.
func (p Playlist) IsLast() bool {
	return !p.IsEmpty() && p.CurrentIndex == len(p.Tracks)-1
}
