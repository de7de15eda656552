// Package source holds uploaded audio bytes behind opaque, releasable handles.
package source

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tessro/spool/internal/core"
	spoolerrors "github.com/tessro/spool/internal/errors"
)

// IDPrefix marks handle IDs minted by a Store.
const IDPrefix = "mem:"

// Handle is a playable in-memory source. It stays readable until released.
type Handle struct {
	id    string
	name  string
	data  []byte
	size  int64
	store *Store
}

// ID returns the handle's unique identifier.
func (h *Handle) ID() string { return h.id }

// Name returns the original file name.
func (h *Handle) Name() string { return h.name }

// Size returns the number of bytes minted. It does not change on release.
func (h *Handle) Size() int64 { return h.size }

// Open returns a fresh reader over the handle's bytes.
func (h *Handle) Open() (io.ReadSeekCloser, error) {
	h.store.mu.RLock()
	defer h.store.mu.RUnlock()

	if _, ok := h.store.handles[h.id]; !ok {
		return nil, fmt.Errorf("%s: %w", h.name, spoolerrors.ErrSourceReleased)
	}
	return readSeekNopCloser{bytes.NewReader(h.data)}, nil
}

var _ core.Source = (*Handle)(nil)

// Store mints and owns source handles.
type Store struct {
	mu      sync.RWMutex
	handles map[string]*Handle
	bytes   int64
	limit   int64
}

// NewStore creates a store. A limit of 0 disables the memory cap.
func NewStore(limit int64) *Store {
	return &Store{
		handles: make(map[string]*Handle),
		limit:   limit,
	}
}

// Mint reads r fully and returns a new handle for its bytes. With a memory
// cap set, reading stops one byte past the space left.
func (s *Store) Mint(name string, r io.Reader) (*Handle, error) {
	if s.limit > 0 {
		r = io.LimitReader(r, max(s.free(), 0)+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	size := int64(len(data))
	if s.limit > 0 && s.bytes+size > s.limit {
		return nil, spoolerrors.WithSuggestion(
			fmt.Errorf("%s exceeds the %s left: %w", name, humanize.IBytes(uint64(max(s.limit-s.bytes, 0))), spoolerrors.ErrStoreFull),
			fmt.Sprintf("Uploads are capped at %s; raise library.max_memory_mb", humanize.IBytes(uint64(s.limit))),
		)
	}

	h := &Handle{
		id:    IDPrefix + uuid.NewString(),
		name:  name,
		data:  data,
		size:  size,
		store: s,
	}
	s.handles[h.id] = h
	s.bytes += size

	log.Debug().
		Str("source", h.id).
		Str("name", name).
		Str("size", humanize.IBytes(uint64(size))).
		Msg("Source minted")

	return h, nil
}

func (s *Store) free() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.limit - s.bytes
}

// Lookup returns the live handle with the given ID.
func (s *Store) Lookup(id string) (*Handle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.handles[id]
	return h, ok
}

// Release invalidates a handle and frees its bytes. It reports whether the
// handle was live.
func (s *Store) Release(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.releaseLocked(id)
}

func (s *Store) releaseLocked(id string) bool {
	h, ok := s.handles[id]
	if !ok {
		return false
	}
	delete(s.handles, id)
	s.bytes -= h.size
	h.data = nil
	return true
}

// Len returns the number of live handles.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.handles)
}

// Bytes returns the total size of live handles.
func (s *Store) Bytes() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bytes
}

// Close releases every handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.handles)
	for id := range s.handles {
		s.releaseLocked(id)
	}
	if n > 0 {
		log.Debug().Int("count", n).Msg("Sources released")
	}
	return nil
}

type readSeekNopCloser struct {
	*bytes.Reader
}

func (readSeekNopCloser) Close() error { return nil }
