package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tessro/spool/internal/core"
	spoolerrors "github.com/tessro/spool/internal/errors"
	"github.com/tessro/spool/internal/media"
	"github.com/tessro/spool/internal/source"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <files...>",
	Short: "Show what spool would play for each file",
	Long: `Decode each file far enough to report its title, artist, length
and size, as they would appear in the playlist.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := source.NewStore(cfg.Library.MaxMemoryBytes())
		defer func() { _ = store.Close() }()

		result := inspectFiles(store, cfg.Player.Artist, args)
		if err := writeInspection(cmd.OutOrStdout(), result.Data); err != nil {
			return err
		}
		if result.HasErrors() {
			fmt.Fprintln(cmd.ErrOrStderr(), result.ErrorSummary())
			return fmt.Errorf("%d of %d files could not be read", len(result.Errors), len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

// Inspection describes one probed file.
type Inspection struct {
	Path       string        `json:"path"`
	Track      core.Track    `json:"track"`
	Duration   time.Duration `json:"duration_ns"`
	Length     string        `json:"length"`
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"`
}

func inspectFiles(store *source.Store, artist string, paths []string) *spoolerrors.PartialResult[[]Inspection] {
	result := &spoolerrors.PartialResult[[]Inspection]{}

	for _, path := range paths {
		info, err := inspectFile(store, artist, path)
		if err != nil {
			result.AddError(fmt.Errorf("%s: %w", path, err))
			continue
		}
		result.Data = append(result.Data, info)
	}
	return result
}

func inspectFile(store *source.Store, artist, path string) (Inspection, error) {
	f, err := os.Open(path)
	if err != nil {
		return Inspection{}, err
	}
	defer func() { _ = f.Close() }()

	h, err := store.Mint(path, f)
	if err != nil {
		return Inspection{}, err
	}
	defer store.Release(h.ID())

	d, format, err := media.Probe(h)
	if err != nil {
		return Inspection{}, err
	}

	return Inspection{
		Path:       path,
		Track:      core.NewTrack(path, artist, h.ID(), h.Size()),
		Duration:   d,
		Length:     core.FormatTime(d),
		SampleRate: int(format.SampleRate),
		Channels:   format.NumChannels,
	}, nil
}

func writeInspection(out io.Writer, items []Inspection) error {
	if JSONOutput() {
		if items == nil {
			items = []Inspection{}
		}
		return writeJSON(out, items)
	}

	table := NewTable(out, "TITLE", "ARTIST", "LENGTH", "SIZE", "FORMAT")
	for _, it := range items {
		table.Row(
			TruncateString(it.Track.Title, 40),
			TruncateString(it.Track.Artist, 24),
			it.Length,
			humanize.Bytes(uint64(it.Track.Size)),
			fmt.Sprintf("%s %s", filepath.Ext(it.Path), channelName(it.Channels)),
		)
	}
	table.Flush()
	return nil
}

func channelName(n int) string {
	switch n {
	case 1:
		return "mono"
	case 2:
		return "stereo"
	default:
		return fmt.Sprintf("%dch", n)
	}
}
