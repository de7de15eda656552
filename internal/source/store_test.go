package source

import (
	"errors"
	"io"
	"strings"
	"testing"

	spoolerrors "github.com/tessro/spool/internal/errors"
)

func TestMintAndOpen(t *testing.T) {
	s := NewStore(0)

	h, err := s.Mint("song.mp3", strings.NewReader("ID3data"))
	if err != nil {
		t.Fatalf("Mint() error = %v", err)
	}
	if !strings.HasPrefix(h.ID(), IDPrefix) {
		t.Errorf("ID() = %q, want %q prefix", h.ID(), IDPrefix)
	}
	if h.Name() != "song.mp3" {
		t.Errorf("Name() = %q", h.Name())
	}
	if h.Size() != 7 {
		t.Errorf("Size() = %d, want 7", h.Size())
	}

	// Each Open gets an independent reader
	for i := 0; i < 2; i++ {
		rc, err := h.Open()
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		data, _ := io.ReadAll(rc)
		if string(data) != "ID3data" {
			t.Errorf("read %q, want %q", data, "ID3data")
		}
		_ = rc.Close()
	}
}

func TestDuplicateUploadsGetDistinctHandles(t *testing.T) {
	s := NewStore(0)
	a, _ := s.Mint("same.wav", strings.NewReader("x"))
	b, _ := s.Mint("same.wav", strings.NewReader("x"))

	if a.ID() == b.ID() {
		t.Error("duplicate uploads share a handle ID")
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}

func TestRelease(t *testing.T) {
	s := NewStore(0)
	h, _ := s.Mint("a.flac", strings.NewReader("abcd"))

	if !s.Release(h.ID()) {
		t.Fatal("Release() = false, want true")
	}
	if s.Release(h.ID()) {
		t.Error("second Release() = true, want false")
	}
	if _, ok := s.Lookup(h.ID()); ok {
		t.Error("Lookup() found released handle")
	}
	if s.Bytes() != 0 {
		t.Errorf("Bytes() = %d, want 0", s.Bytes())
	}
	if h.Size() != 4 {
		t.Errorf("Size() after release = %d, want 4", h.Size())
	}

	_, err := h.Open()
	if !errors.Is(err, spoolerrors.ErrSourceReleased) {
		t.Errorf("Open() error = %v, want ErrSourceReleased", err)
	}
}

func TestCloseReleasesAll(t *testing.T) {
	s := NewStore(0)
	for _, name := range []string{"a.mp3", "b.mp3", "c.mp3"} {
		if _, err := s.Mint(name, strings.NewReader(name)); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if s.Len() != 0 || s.Bytes() != 0 {
		t.Errorf("after Close() Len=%d Bytes=%d, want 0/0", s.Len(), s.Bytes())
	}
}

func TestLimit(t *testing.T) {
	s := NewStore(8)

	if _, err := s.Mint("a.wav", strings.NewReader("12345")); err != nil {
		t.Fatalf("Mint() error = %v", err)
	}
	_, err := s.Mint("b.wav", strings.NewReader("12345"))
	if !errors.Is(err, spoolerrors.ErrStoreFull) {
		t.Fatalf("Mint() error = %v, want ErrStoreFull", err)
	}
	if spoolerrors.GetSuggestion(err) == "" {
		t.Error("store-full error has no suggestion")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func TestLimitStopsReadingOversizedUploads(t *testing.T) {
	tests := []struct {
		name   string
		held   string
		upload int
		want   int64
	}{
		{"empty store", "", 1 << 20, 11},
		{"partly full", "123456", 1 << 20, 5},
		{"already full", "1234567890", 1 << 20, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(10)
			if tt.held != "" {
				if _, err := s.Mint("held.wav", strings.NewReader(tt.held)); err != nil {
					t.Fatalf("Mint() error = %v", err)
				}
			}

			r := &countingReader{r: strings.NewReader(strings.Repeat("x", tt.upload))}
			_, err := s.Mint("big.wav", r)
			if !errors.Is(err, spoolerrors.ErrStoreFull) {
				t.Fatalf("Mint() error = %v, want ErrStoreFull", err)
			}
			if r.n != tt.want {
				t.Errorf("read %d bytes, want %d", r.n, tt.want)
			}
			if s.Bytes() != int64(len(tt.held)) {
				t.Errorf("Bytes() = %d, want %d", s.Bytes(), len(tt.held))
			}
		})
	}
}
