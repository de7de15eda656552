// Package mediatest provides a MediaHandle that records calls instead of
// producing sound.
package mediatest

import (
	"fmt"
	"sync"
	"time"

	"github.com/tessro/spool/internal/core"
)

// Recorder is a core.MediaHandle that logs every request it receives.
type Recorder struct {
	mu     sync.Mutex
	calls  []string
	source core.Source
	closed bool
	events chan core.MediaEvent
}

var _ core.MediaHandle = (*Recorder)(nil)

// New returns an empty recorder.
func New() *Recorder {
	return &Recorder{events: make(chan core.MediaEvent, 16)}
}

func (r *Recorder) record(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *Recorder) Pause() error { r.record("pause"); return nil }
func (r *Recorder) Play() error  { r.record("play"); return nil }
func (r *Recorder) Load() error  { r.record("load"); return nil }

func (r *Recorder) SetSource(src core.Source) error {
	id := ""
	if src != nil {
		id = src.ID()
	}
	r.mu.Lock()
	r.source = src
	r.mu.Unlock()
	r.record("set_source:%s", id)
	return nil
}

func (r *Recorder) Seek(pos time.Duration) error {
	r.record("seek:%s", pos)
	return nil
}

func (r *Recorder) Events() <-chan core.MediaEvent {
	return r.events
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.calls = append(r.calls, "close")
	return nil
}

// Emit queues an event as if playback produced it.
func (r *Recorder) Emit(ev core.MediaEvent) {
	r.events <- ev
}

// Calls returns the requests recorded so far.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

// Count returns how many times call was recorded.
func (r *Recorder) Count(call string) int {
	n := 0
	for _, c := range r.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

// Reset forgets recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// Source returns the source most recently set.
func (r *Recorder) Source() core.Source {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.source
}

// Closed reports whether Close was called.
func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
