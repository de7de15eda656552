// Package watch reports audio files that appear in a directory.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

const (
	defaultSettle = 200 * time.Millisecond
	checkInterval = 50 * time.Millisecond
)

// Watcher watches one directory for new audio files.
type Watcher struct {
	dir    string
	exts   []string
	settle time.Duration
	fs     *fsnotify.Watcher
	seen   map[string]bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithSettle sets how long a file must stay unchanged before it is reported.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.settle = d
		}
	}
}

// New starts watching dir for files whose extension is in exts.
func New(dir string, exts []string, opts ...Option) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch %s: not a directory", dir)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		dir:    dir,
		exts:   normalize(exts),
		settle: defaultSettle,
		fs:     fw,
		seen:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string { return w.dir }

// Run calls found once for each new audio file until ctx is done or the
// watcher is closed. A file is reported after writes to it have settled.
func (w *Watcher) Run(ctx context.Context, found func(path string)) error {
	pending := make(map[string]time.Time)
	tick := time.NewTicker(checkInterval)
	defer tick.Stop()

	log.Debug().Str("dir", w.dir).Strs("extensions", w.exts).Msg("Watching for audio files")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !w.accepts(ev.Name) || w.seen[ev.Name] {
				continue
			}
			pending[ev.Name] = time.Now()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Str("dir", w.dir).Msg("Watch error")

		case now := <-tick.C:
			for path, last := range pending {
				if now.Sub(last) < w.settle {
					continue
				}
				delete(pending, path)

				info, err := os.Stat(path)
				if err != nil || !info.Mode().IsRegular() {
					continue
				}
				w.seen[path] = true
				log.Info().Str("path", path).Msg("New audio file")
				found(path)
			}
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) accepts(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	return slices.Contains(w.exts, strings.ToLower(filepath.Ext(path)))
}

func normalize(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}
