package tail

import (
	"sync"
	"time"

	"github.com/tessro/spool/internal/core"
)

// EventType represents the type of playback event.
type EventType int

const (
	EventTrackChange EventType = iota
	EventTrackComplete
	EventTrackSkip
	EventPause
	EventResume
	EventTracksAdded
	EventLoaded
)

// Event represents a playback state change.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Previous  core.PlaybackState
	Current   core.PlaybackState
}

// Watcher turns player transitions into events. Register Observe with
// player.OnChange and read Events.
type Watcher struct {
	events    chan Event
	closeOnce sync.Once
	now       func() time.Time
}

// NewWatcher creates a watcher buffering up to size events.
func NewWatcher(size int) *Watcher {
	if size <= 0 {
		size = 16
	}
	return &Watcher{
		events: make(chan Event, size),
		now:    time.Now,
	}
}

// Events returns the channel of playback events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Observe diffs a transition and queues the resulting events.
func (w *Watcher) Observe(prev, curr core.PlaybackState) {
	for _, e := range diffStates(prev, curr, w.now()) {
		select {
		case w.events <- e:
		default:
			// Drop event if channel is full
		}
	}
}

// Close closes the events channel. Observe must not be called afterwards.
func (w *Watcher) Close() {
	w.closeOnce.Do(func() { close(w.events) })
}

// Diff compares two states and returns the detected events.
func Diff(prev, curr core.PlaybackState) []Event {
	return diffStates(prev, curr, time.Now())
}

func diffStates(prev, curr core.PlaybackState, now time.Time) []Event {
	var events []Event
	add := func(t EventType) {
		events = append(events, Event{
			Type:      t,
			Timestamp: now,
			Previous:  prev,
			Current:   curr,
		})
	}

	if curr.Playlist.Len() > prev.Playlist.Len() {
		add(EventTracksAdded)
	}

	if trackChanged(prev, curr) {
		switch {
		case !prev.HasTrack():
			add(EventTrackChange)
		case wasCompleted(prev):
			add(EventTrackComplete)
		default:
			add(EventTrackSkip)
		}
	} else if prev.Duration == 0 && curr.Duration > 0 {
		add(EventLoaded)
	}

	if prev.IsPlaying && !curr.IsPlaying {
		add(EventPause)
	} else if !prev.IsPlaying && curr.IsPlaying {
		add(EventResume)
	}

	return events
}

// trackChanged returns true if the current track's source changed.
func trackChanged(prev, curr core.PlaybackState) bool {
	return prev.SourceID() != curr.SourceID()
}

// wasCompleted returns true if the track likely finished on its own.
func wasCompleted(state core.PlaybackState) bool {
	if state.Duration == 0 {
		return false
	}
	// Consider completed if progress is >= 95% of duration
	threshold := float64(state.Duration) * 0.95
	return float64(state.CurrentTime) >= threshold
}
