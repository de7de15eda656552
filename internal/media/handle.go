// Package media implements the playback handle on top of beep.
package media

import (
	"io"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/rs/zerolog/log"

	"github.com/tessro/spool/internal/core"
)

// Options configures a Handle.
type Options struct {
	SampleRate     int
	Buffer         time.Duration
	UpdateInterval time.Duration
}

const (
	defaultUpdateInterval = 250 * time.Millisecond
	eventBuffer           = 64
	resampleQuality       = 4
)

// loadedTrack bundles the resources of the currently loaded source.
type loadedTrack struct {
	id       string
	rc       io.ReadSeekCloser
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	duration time.Duration
}

func (t *loadedTrack) close() {
	if t.streamer != nil {
		_ = t.streamer.Close()
	}
	if t.rc != nil {
		_ = t.rc.Close()
	}
}

// Handle drives one output with at most one loaded source at a time.
// Methods are meant to be called from a single goroutine; the output's
// mixing goroutine reports back through Events.
type Handle struct {
	out      Output
	rate     beep.SampleRate
	interval time.Duration

	mu      sync.Mutex
	src     core.Source
	track   *loadedTrack
	queued  bool
	playing bool
	ticker  *ticker

	events    chan core.MediaEvent
	done      chan struct{}
	closeOnce sync.Once
}

var _ core.MediaHandle = (*Handle)(nil)

// New creates a handle that mixes into out at the given rate.
func New(out Output, rate beep.SampleRate, interval time.Duration) *Handle {
	if interval <= 0 {
		interval = defaultUpdateInterval
	}
	return &Handle{
		out:      out,
		rate:     rate,
		interval: interval,
		events:   make(chan core.MediaEvent, eventBuffer),
		done:     make(chan struct{}),
	}
}

// NewSpeakerHandle opens the system audio device and returns a handle on it.
func NewSpeakerHandle(opts Options) (*Handle, error) {
	out, rate, err := OpenSpeaker(beep.SampleRate(opts.SampleRate), opts.Buffer)
	if err != nil {
		return nil, err
	}
	return New(out, rate, opts.UpdateInterval), nil
}

// Events returns the channel of media notifications.
func (h *Handle) Events() <-chan core.MediaEvent {
	return h.events
}

// SetSource selects the source the next Load opens.
func (h *Handle) SetSource(src core.Source) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.src = src
	return nil
}

// Load drops whatever is loaded and decodes the selected source. Decode
// failures are reported as MediaError events, not returned.
func (h *Handle) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.unloadLocked()
	if h.src == nil {
		return nil
	}

	id := h.src.ID()
	rc, err := h.src.Open()
	if err != nil {
		go h.emit(core.MediaEvent{Type: core.MediaError, Source: id, Err: err})
		return nil
	}

	streamer, format, err := Decode(h.src.Name(), rc)
	if err != nil {
		_ = rc.Close()
		log.Warn().Err(err).Str("source", id).Msg("Decode failed")
		go h.emit(core.MediaEvent{Type: core.MediaError, Source: id, Err: err})
		return nil
	}

	var s beep.Streamer = streamer
	if format.SampleRate != h.rate {
		s = beep.Resample(resampleQuality, format.SampleRate, h.rate, streamer)
	}

	t := &loadedTrack{
		id:       id,
		rc:       rc,
		streamer: streamer,
		format:   format,
		ctrl:     &beep.Ctrl{Streamer: s, Paused: true},
		duration: format.SampleRate.D(streamer.Len()),
	}
	h.track = t

	log.Debug().
		Str("source", id).
		Dur("duration", t.duration).
		Int("sample_rate", int(format.SampleRate)).
		Msg("Source loaded")

	go h.emit(core.MediaEvent{Type: core.MediaMetadataLoaded, Source: id, Duration: t.duration})
	return nil
}

// Seek moves the playback position of the loaded source.
func (h *Handle) Seek(pos time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.track == nil {
		return nil
	}
	n := h.track.format.SampleRate.N(pos)
	if n < 0 {
		n = 0
	}
	if l := h.track.streamer.Len(); n > l {
		n = l
	}

	h.out.Lock()
	err := h.track.streamer.Seek(n)
	h.out.Unlock()
	return err
}

// Play starts or resumes the loaded source. Without one it does nothing.
func (h *Handle) Play() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	t := h.track
	if t == nil {
		return nil
	}

	h.out.Lock()
	t.ctrl.Paused = false
	h.out.Unlock()

	if !h.queued {
		id := t.id
		h.out.Play(beep.Seq(t.ctrl, beep.Callback(func() {
			// Runs on the mixer goroutine with the output locked.
			go h.finished(id)
		})))
		h.queued = true
	}
	h.playing = true
	h.startTickerLocked()
	return nil
}

// Pause holds the loaded source at its current position.
func (h *Handle) Pause() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.track == nil {
		return nil
	}

	h.out.Lock()
	h.track.ctrl.Paused = true
	h.out.Unlock()

	h.playing = false
	h.stopTickerLocked()
	return nil
}

// Position returns the playback position of the loaded source.
func (h *Handle) Position() time.Duration {
	h.mu.Lock()
	t := h.track
	h.mu.Unlock()
	if t == nil {
		return 0
	}

	h.out.Lock()
	defer h.out.Unlock()
	return t.format.SampleRate.D(t.streamer.Position())
}

// Close stops playback and releases the loaded source.
func (h *Handle) Close() error {
	h.closeOnce.Do(func() {
		h.mu.Lock()
		h.unloadLocked()
		h.src = nil
		h.mu.Unlock()
		close(h.done)
	})
	return nil
}

func (h *Handle) finished(id string) {
	h.mu.Lock()
	if h.track == nil || h.track.id != id {
		h.mu.Unlock()
		return
	}
	h.stopTickerLocked()
	h.playing = false
	h.queued = false
	h.mu.Unlock()

	h.emit(core.MediaEvent{Type: core.MediaEnded, Source: id, Position: h.Position()})
}

func (h *Handle) unloadLocked() {
	h.stopTickerLocked()
	if h.queued {
		h.out.Clear()
		h.queued = false
	}
	if h.track != nil {
		h.track.close()
		h.track = nil
	}
	h.playing = false
}

func (h *Handle) startTickerLocked() {
	if h.ticker != nil {
		return
	}
	h.ticker = startTicker(h.interval, h.track, h.out, h.events)
}

func (h *Handle) stopTickerLocked() {
	if h.ticker == nil {
		return
	}
	h.ticker.stop()
	h.ticker = nil
}

// emit delivers an event unless the handle has been closed.
func (h *Handle) emit(ev core.MediaEvent) {
	select {
	case h.events <- ev:
	case <-h.done:
	}
}

// ticker periodically reports the playback position of one loaded track.
type ticker struct {
	quit   chan struct{}
	exited chan struct{}
}

func startTicker(interval time.Duration, t *loadedTrack, out Output, events chan<- core.MediaEvent) *ticker {
	tk := &ticker{
		quit:   make(chan struct{}),
		exited: make(chan struct{}),
	}

	go func() {
		defer close(tk.exited)
		tick := time.NewTicker(interval)
		defer tick.Stop()

		for {
			select {
			case <-tk.quit:
				return
			case <-tick.C:
				out.Lock()
				pos := t.format.SampleRate.D(t.streamer.Position())
				out.Unlock()

				ev := core.MediaEvent{
					Type:     core.MediaTimeUpdate,
					Source:   t.id,
					Position: pos,
					Duration: t.duration,
				}
				select {
				case events <- ev:
				default:
					// Drop the update if the consumer is behind
				}
			}
		}
	}()

	return tk
}

func (tk *ticker) stop() {
	close(tk.quit)
	<-tk.exited
}
