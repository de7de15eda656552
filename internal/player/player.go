// Package player holds the playback state and keeps the media handle in step
// with it.
package player

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mitchellh/hashstructure/v2"
	"github.com/rs/zerolog/log"

	"github.com/tessro/spool/internal/config"
	"github.com/tessro/spool/internal/core"
	spoolerrors "github.com/tessro/spool/internal/errors"
	"github.com/tessro/spool/internal/source"
)

// Options tunes player behavior.
type Options struct {
	// Artist is shown for every uploaded track.
	Artist string
	// EndOfTrack is one of config.EndOfTrackNext, EndOfTrackRepeat or
	// EndOfTrackStop.
	EndOfTrack string
	// Autoplay starts playback when the first tracks are added.
	Autoplay bool
}

// File is an upload: a display name and the bytes to play.
type File struct {
	Name string
	Body io.Reader
}

// ChangeFunc observes state transitions.
type ChangeFunc func(prev, curr core.PlaybackState)

// selection is what the track-change effect depends on.
type selection struct {
	Index  int
	Source string
}

// Player owns the playback state, the media handle and the uploaded sources.
// It is driven from a single goroutine.
type Player struct {
	media core.MediaHandle
	store *source.Store
	opts  Options

	state     core.PlaybackState
	applied   uint64
	listeners []ChangeFunc
}

var _ core.Player = (*Player)(nil)

// New creates a player around media. The player takes ownership of both
// media and store; Close releases them.
func New(media core.MediaHandle, store *source.Store, opts Options) *Player {
	if opts.EndOfTrack == "" {
		opts.EndOfTrack = config.EndOfTrackNext
	}
	p := &Player{
		media: media,
		store: store,
		opts:  opts,
	}
	p.applied = fingerprint(p.state)
	return p
}

// State returns the current state record.
func (p *Player) State() core.PlaybackState {
	return p.state
}

// Events returns the media handle's notifications. Feed each into HandleEvent.
func (p *Player) Events() <-chan core.MediaEvent {
	return p.media.Events()
}

// OnChange registers fn to run after every transition.
func (p *Player) OnChange(fn ChangeFunc) {
	p.listeners = append(p.listeners, fn)
}

// Upload mints a source for each file and appends the resulting tracks.
// Files that fail to read are reported in the result; the rest are added.
func (p *Player) Upload(files ...File) *spoolerrors.PartialResult[[]core.Track] {
	result := &spoolerrors.PartialResult[[]core.Track]{}

	for _, f := range files {
		h, err := p.store.Mint(f.Name, f.Body)
		if err != nil {
			result.AddError(fmt.Errorf("upload %s: %w", f.Name, err))
			continue
		}
		result.Data = append(result.Data, core.NewTrack(f.Name, p.opts.Artist, h.ID(), h.Size()))
	}

	if len(result.Data) == 0 {
		return result
	}

	wasEmpty := p.state.Playlist.IsEmpty()
	next := p.state.WithTracks(result.Data...)
	if wasEmpty && p.opts.Autoplay {
		next = next.WithPlaying(true)
	}

	log.Info().
		Int("added", len(result.Data)).
		Int("failed", len(result.Errors)).
		Int("total", next.Playlist.Len()).
		Str("memory", humanize.IBytes(uint64(p.store.Bytes()))).
		Msg("Tracks uploaded")

	if err := p.apply(next); err != nil {
		result.AddError(err)
	}
	return result
}

// UploadPaths reads files from disk and uploads them.
func (p *Player) UploadPaths(paths ...string) *spoolerrors.PartialResult[[]core.Track] {
	var (
		files  []File
		opened []*os.File
		failed []error
	)
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			failed = append(failed, fmt.Errorf("upload %s: %w", path, err))
			continue
		}
		opened = append(opened, f)
		files = append(files, File{Name: path, Body: f})
	}
	defer func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}()

	result := p.Upload(files...)
	result.Errors = append(failed, result.Errors...)
	return result
}

// TogglePlayPause pauses when playing and plays otherwise.
func (p *Player) TogglePlayPause() error {
	if p.state.Playlist.IsEmpty() {
		return spoolerrors.ErrEmptyPlaylist
	}
	if p.state.IsPlaying {
		return p.Pause()
	}
	return p.Play()
}

// Play resumes the current track.
func (p *Player) Play() error {
	if p.state.Playlist.IsEmpty() {
		return spoolerrors.ErrEmptyPlaylist
	}
	if p.state.IsPlaying {
		return nil
	}
	if err := p.media.Play(); err != nil {
		return fmt.Errorf("play: %w", err)
	}
	return p.apply(p.state.WithPlaying(true))
}

// Pause holds the current track.
func (p *Player) Pause() error {
	if p.state.Playlist.IsEmpty() {
		return spoolerrors.ErrEmptyPlaylist
	}
	if !p.state.IsPlaying {
		return nil
	}
	if err := p.media.Pause(); err != nil {
		return fmt.Errorf("pause: %w", err)
	}
	return p.apply(p.state.WithPlaying(false))
}

// Next skips to the following track, wrapping to the first.
func (p *Player) Next() error {
	if p.state.Playlist.IsEmpty() {
		return spoolerrors.ErrEmptyPlaylist
	}
	return p.apply(p.state.Next())
}

// Prev goes back to the preceding track, wrapping to the last.
func (p *Player) Prev() error {
	if p.state.Playlist.IsEmpty() {
		return spoolerrors.ErrEmptyPlaylist
	}
	return p.apply(p.state.Prev())
}

// Select makes the track at index current.
func (p *Player) Select(index int) error {
	if p.state.Playlist.IsEmpty() {
		return spoolerrors.ErrEmptyPlaylist
	}
	if index < 0 || index >= p.state.Playlist.Len() {
		return fmt.Errorf("select %d of %d: %w", index+1, p.state.Playlist.Len(), spoolerrors.ErrTrackNotFound)
	}
	return p.apply(p.state.Select(index))
}

// HandleEvent folds a media notification into the state. Events for any
// source other than the current one are ignored. A playback error stops
// playback and is returned.
func (p *Player) HandleEvent(ev core.MediaEvent) error {
	if ev.Source != p.state.SourceID() {
		log.Debug().
			Str("event", ev.Type.String()).
			Str("source", ev.Source).
			Msg("Dropping stale media event")
		return nil
	}

	switch ev.Type {
	case core.MediaTimeUpdate:
		return p.apply(p.state.WithTime(ev.Position))
	case core.MediaMetadataLoaded:
		return p.apply(p.state.WithDuration(ev.Duration))
	case core.MediaEnded:
		// An ended track sits at its end even when the last tick fell short.
		end := max(p.state.CurrentTime, ev.Position, p.state.Duration)
		p.state = p.state.WithTime(end)
		return p.ended()
	case core.MediaError:
		title := ""
		if t := p.state.Track(); t != nil {
			title = t.Title
		}
		log.Warn().Err(ev.Err).Str("track", title).Msg("Playback failed")
		if err := p.apply(p.state.WithPlaying(false)); err != nil {
			return err
		}
		if ev.Err == nil {
			return fmt.Errorf("play %s: playback failed", title)
		}
		return fmt.Errorf("play %s: %w", title, ev.Err)
	}
	return nil
}

func (p *Player) ended() error {
	pl := p.state.Playlist
	switch p.opts.EndOfTrack {
	case config.EndOfTrackRepeat:
		if pl.Len() == 1 {
			return p.restart()
		}
		return p.apply(p.state.Next())
	case config.EndOfTrackStop:
		return p.stop()
	default:
		if pl.IsLast() {
			return p.stop()
		}
		return p.apply(p.state.Next())
	}
}

// restart replays the current track from the top.
func (p *Player) restart() error {
	if err := p.media.Seek(0); err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	if err := p.media.Play(); err != nil {
		return fmt.Errorf("play: %w", err)
	}
	return p.apply(p.state.WithTime(0))
}

// stop rewinds the current track and leaves it paused.
func (p *Player) stop() error {
	if err := p.media.Seek(0); err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	return p.apply(p.state.WithPlaying(false).WithTime(0))
}

// Close stops playback and releases every uploaded source.
func (p *Player) Close() error {
	return errors.Join(p.media.Close(), p.store.Close())
}

// apply commits next, runs the track-change effect and notifies listeners.
func (p *Player) apply(next core.PlaybackState) error {
	prev := p.state
	p.state = next
	err := p.sync()
	for _, fn := range p.listeners {
		fn(prev, p.state)
	}
	return err
}

// sync reloads the media handle when the selected track has changed since
// the last run. The state is reset before playback resumes.
func (p *Player) sync() error {
	fp := fingerprint(p.state)
	if fp == p.applied {
		return nil
	}
	p.applied = fp

	if err := p.media.Pause(); err != nil {
		return fmt.Errorf("pause: %w", err)
	}

	var src core.Source
	if id := p.state.SourceID(); id != "" {
		if h, ok := p.store.Lookup(id); ok {
			src = h
		}
	}
	if err := p.media.SetSource(src); err != nil {
		return fmt.Errorf("set source: %w", err)
	}
	if err := p.media.Load(); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	if err := p.media.Seek(0); err != nil {
		return fmt.Errorf("seek: %w", err)
	}

	p.state = p.state.ResetTime()

	log.Debug().
		Int("index", p.state.Playlist.CurrentIndex).
		Str("source", p.state.SourceID()).
		Bool("playing", p.state.IsPlaying).
		Msg("Track changed")

	if p.state.IsPlaying {
		if err := p.media.Play(); err != nil {
			return fmt.Errorf("play: %w", err)
		}
	}
	return nil
}

func fingerprint(s core.PlaybackState) uint64 {
	h, err := hashstructure.Hash(selection{
		Index:  s.Playlist.CurrentIndex,
		Source: s.SourceID(),
	}, hashstructure.FormatV2, nil)
	if err != nil {
		// Only unhashable types fail, and selection has none.
		panic(err)
	}
	return h
}
