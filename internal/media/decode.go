package media

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"

	"github.com/tessro/spool/internal/core"
	spoolerrors "github.com/tessro/spool/internal/errors"
)

// SupportedExtensions lists the file extensions Decode understands.
var SupportedExtensions = []string{".mp3", ".wav", ".flac", ".ogg", ".oga"}

// Decode picks a decoder by file extension.
func Decode(name string, rc io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp3":
		return mp3.Decode(rc)
	case ".wav":
		return wav.Decode(rc)
	case ".flac":
		return flac.Decode(rc)
	case ".ogg", ".oga":
		return vorbis.Decode(rc)
	default:
		return nil, beep.Format{}, fmt.Errorf("%s: %w", name, spoolerrors.ErrUnsupportedFormat)
	}
}

// Probe decodes src just far enough to report its length and format.
func Probe(src core.Source) (time.Duration, beep.Format, error) {
	rc, err := src.Open()
	if err != nil {
		return 0, beep.Format{}, err
	}
	defer func() { _ = rc.Close() }()

	streamer, format, err := Decode(src.Name(), rc)
	if err != nil {
		return 0, beep.Format{}, err
	}
	defer func() { _ = streamer.Close() }()

	return format.SampleRate.D(streamer.Len()), format, nil
}
