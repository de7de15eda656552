package core

import (
	"io"
	"time"
)

// Player defines the transport operations exposed to user surfaces.
type Player interface {
	TogglePlayPause() error
	Play() error
	Pause() error
	Next() error
	Prev() error
	Select(index int) error

	State() PlaybackState
}

// Source is an opaque playable reference backed by in-memory bytes.
type Source interface {
	ID() string
	Name() string
	Open() (io.ReadSeekCloser, error)
}

// MediaHandle is the playback primitive driven by the player. Calls return
// quickly; playback proceeds on its own and reports back through Events.
type MediaHandle interface {
	Pause() error
	Play() error
	// SetSource selects what Load will open. A nil source unloads.
	SetSource(src Source) error
	Load() error
	Seek(pos time.Duration) error

	Events() <-chan MediaEvent
	Close() error
}

// MediaEventType identifies a media notification.
type MediaEventType int

const (
	MediaTimeUpdate MediaEventType = iota
	MediaMetadataLoaded
	MediaEnded
	MediaError
)

// String returns the event name.
func (t MediaEventType) String() string {
	switch t {
	case MediaTimeUpdate:
		return "time_update"
	case MediaMetadataLoaded:
		return "metadata_loaded"
	case MediaEnded:
		return "ended"
	case MediaError:
		return "error"
	default:
		return "unknown"
	}
}

// MediaEvent is a notification from the media handle. Source is the ID of
// the source that was loaded when the event fired.
type MediaEvent struct {
	Type     MediaEventType
	Source   string
	Position time.Duration
	Duration time.Duration
	Err      error
}
