package cli

import (
	"fmt"

	"github.com/dustin/go-humanize/english"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tessro/spool/internal/core"
	spoolerrors "github.com/tessro/spool/internal/errors"
	"github.com/tessro/spool/internal/media"
	"github.com/tessro/spool/internal/player"
	"github.com/tessro/spool/internal/source"
)

// newPlayer opens the audio device and builds a player on it.
func newPlayer(opts player.Options) (*player.Player, error) {
	handle, err := media.NewSpeakerHandle(media.Options{
		SampleRate:     cfg.Audio.SampleRate,
		Buffer:         cfg.Audio.BufferDuration(),
		UpdateInterval: cfg.Audio.UpdateInterval(),
	})
	if err != nil {
		return nil, err
	}

	store := source.NewStore(cfg.Library.MaxMemoryBytes())
	return player.New(handle, store, opts), nil
}

// playerOptions reads player settings from config, letting an explicit
// --autoplay flag win.
func playerOptions(cmd *cobra.Command, autoplay bool) player.Options {
	opts := player.Options{
		Artist:     cfg.Player.Artist,
		EndOfTrack: cfg.Player.EndOfTrack,
		Autoplay:   cfg.Player.Autoplay,
	}
	if f := cmd.Flags().Lookup("autoplay"); f != nil && f.Changed {
		opts.Autoplay = autoplay
	}
	return opts
}

// uploadSummary logs failed uploads and describes the outcome in one line.
func uploadSummary(result *spoolerrors.PartialResult[[]core.Track]) string {
	for _, err := range result.Errors {
		log.Warn().Err(err).Msg("Upload failed")
	}

	msg := "Added " + english.Plural(len(result.Data), "track", "")
	if result.HasErrors() {
		msg += fmt.Sprintf(" (%d failed)", len(result.Errors))
	}
	return msg
}
