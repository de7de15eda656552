// Package tail renders playback transitions as a stream of log lines.
package tail

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tessro/spool/internal/core"
)

// Formatter formats events for output.
type Formatter struct {
	showEmoji     bool
	showTimestamp bool
	template      *template.Template
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithEmoji enables emoji output.
func WithEmoji(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showEmoji = enabled
	}
}

// WithTimestamp enables timestamp output.
func WithTimestamp(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showTimestamp = enabled
	}
}

// WithTemplate sets a custom format template. An invalid template is
// ignored; use ParseTemplate to validate user input first.
func WithTemplate(tmpl string) FormatterOption {
	return func(f *Formatter) {
		if tmpl != "" {
			if t, err := ParseTemplate(tmpl); err == nil {
				f.template = t
			}
		}
	}
}

// ParseTemplate compiles a line template.
func ParseTemplate(tmpl string) (*template.Template, error) {
	return template.New("format").Parse(tmpl)
}

// NewFormatter creates a new formatter with the given options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{
		showEmoji:     true,
		showTimestamp: false,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format formats an event as a string.
func (f *Formatter) Format(e Event) string {
	if f.template != nil {
		return f.formatTemplate(e)
	}
	return f.formatLine(e)
}

func (f *Formatter) formatLine(e Event) string {
	var parts []string

	if f.showTimestamp {
		parts = append(parts, e.Timestamp.Format("15:04:05"))
	}
	if f.showEmoji {
		parts = append(parts, eventEmoji(e.Type))
	}
	parts = append(parts, f.eventDescription(e))

	return strings.Join(parts, " ")
}

func (f *Formatter) formatTemplate(e Event) string {
	curr := e.Current
	data := templateData{
		Type:      eventTypeName(e.Type),
		Emoji:     eventEmoji(e.Type),
		Timestamp: e.Timestamp,
		Time:      e.Timestamp.Format("15:04:05"),
		Index:     curr.Playlist.CurrentIndex + 1,
		Total:     curr.Playlist.Len(),
		Elapsed:   core.FormatTime(curr.CurrentTime),
		Duration:  core.FormatTime(curr.Duration),
		Playing:   curr.IsPlaying,
	}
	if t := curr.Track(); t != nil {
		data.Title = t.Title
		data.Artist = t.Artist
		data.Size = humanize.Bytes(uint64(t.Size))
	}

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		return f.formatLine(e)
	}
	return buf.String()
}

type templateData struct {
	Type      string
	Emoji     string
	Timestamp time.Time
	Time      string
	Title     string
	Artist    string
	Size      string
	Index     int
	Total     int
	Elapsed   string
	Duration  string
	Playing   bool
}

func describe(t *core.Track) string {
	return fmt.Sprintf("%s - %s", t.Artist, t.Title)
}

// eventDescription returns a human-readable description of the event.
func (f *Formatter) eventDescription(e Event) string {
	switch e.Type {
	case EventTrackChange:
		if t := e.Current.Track(); t != nil {
			return "Now playing: " + describe(t)
		}
		return "Track changed"

	case EventTrackComplete:
		if t := e.Previous.Track(); t != nil {
			return "Finished: " + describe(t)
		}
		return "Track completed"

	case EventTrackSkip:
		if t := e.Previous.Track(); t != nil {
			return "Skipped: " + describe(t)
		}
		return "Track skipped"

	case EventPause:
		if e.Current.CurrentTime == 0 && e.Previous.CurrentTime > 0 {
			return "Stopped"
		}
		return fmt.Sprintf("Paused at %s", core.FormatTime(e.Current.CurrentTime))

	case EventResume:
		return "Resumed"

	case EventTracksAdded:
		n := e.Current.Playlist.Len() - e.Previous.Playlist.Len()
		return fmt.Sprintf("Added %d %s (%d in playlist)",
			n, plural(n, "track", "tracks"), e.Current.Playlist.Len())

	case EventLoaded:
		if t := e.Current.Track(); t != nil {
			return fmt.Sprintf("Loaded: %s [%s]", t.Title, core.FormatTime(e.Current.Duration))
		}
		return "Loaded"

	default:
		return "Unknown event"
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// eventEmoji returns an emoji for the event type.
func eventEmoji(t EventType) string {
	switch t {
	case EventTrackChange:
		return "🎵"
	case EventTrackComplete:
		return "✅"
	case EventTrackSkip:
		return "⏭️"
	case EventPause:
		return "⏸️"
	case EventResume:
		return "▶️"
	case EventTracksAdded:
		return "➕"
	case EventLoaded:
		return "💿"
	default:
		return "❓"
	}
}

// eventTypeName returns the name of the event type.
func eventTypeName(t EventType) string {
	switch t {
	case EventTrackChange:
		return "track_change"
	case EventTrackComplete:
		return "track_complete"
	case EventTrackSkip:
		return "track_skip"
	case EventPause:
		return "pause"
	case EventResume:
		return "resume"
	case EventTracksAdded:
		return "tracks_added"
	case EventLoaded:
		return "loaded"
	default:
		return "unknown"
	}
}
