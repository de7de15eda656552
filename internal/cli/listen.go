package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tessro/spool/internal/core"
	spoolerrors "github.com/tessro/spool/internal/errors"
	"github.com/tessro/spool/internal/player"
	"github.com/tessro/spool/internal/tail"
)

var (
	listenNoEmoji   bool
	listenTimestamp bool
	listenFormat    string
)

var listenCmd = &cobra.Command{
	Use:   "listen <files...>",
	Short: "Play files without the interface and print playback events",
	Long: `Play the given files in order and print one line per playback event.

Events printed:
  - Tracks added to the playlist
  - Track changes, completions and skips
  - Pause/Resume
  - Track length once loaded

Playback ends according to player.end_of_track. With "repeat" it runs
until interrupted.

Template fields for --format:
  {{.Type}} {{.Emoji}} {{.Time}} {{.Title}} {{.Artist}} {{.Size}}
  {{.Index}} {{.Total}} {{.Elapsed}} {{.Duration}} {{.Playing}}`,
	Args: cobra.MinimumNArgs(1),
	RunE: runListen,
}

func init() {
	listenCmd.Flags().BoolVar(&listenNoEmoji, "no-emoji", false, "disable emoji output")
	listenCmd.Flags().BoolVarP(&listenTimestamp, "timestamp", "t", false, "show timestamps")
	listenCmd.Flags().StringVarP(&listenFormat, "format", "f", "", "custom format template")
	rootCmd.AddCommand(listenCmd)
}

func runListen(cmd *cobra.Command, args []string) error {
	if listenFormat != "" {
		if _, err := tail.ParseTemplate(listenFormat); err != nil {
			return fmt.Errorf("invalid format template: %w", err)
		}
	}

	opts := playerOptions(cmd, false)
	opts.Autoplay = true

	p, err := newPlayer(opts)
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	formatter := tail.NewFormatter(
		tail.WithEmoji(!listenNoEmoji),
		tail.WithTimestamp(listenTimestamp),
		tail.WithTemplate(listenFormat),
	)

	watcher := tail.NewWatcher(64)
	p.OnChange(watcher.Observe)

	result := p.UploadPaths(args...)
	log.Debug().Msg(uploadSummary(result))
	if p.State().Playlist.IsEmpty() {
		if result.HasErrors() {
			return result.Err()
		}
		return spoolerrors.ErrEmptyPlaylist
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return listen(ctx, p, watcher, formatter, cmd.OutOrStdout())
}

// listen drives p until playback stops or ctx is done, printing each event
// the watcher reports.
func listen(ctx context.Context, p *player.Player, w *tail.Watcher, f *tail.Formatter, out io.Writer) error {
	emit := func(e tail.Event) {
		_, _ = fmt.Fprintln(out, f.Format(e))
	}
	flush := func() {
		for {
			select {
			case e := <-w.Events():
				emit(e)
			default:
				return
			}
		}
	}
	defer flush()

	for {
		select {
		case <-ctx.Done():
			return nil

		case e := <-w.Events():
			emit(e)

		case ev := <-p.Events():
			current := ev.Source == p.State().SourceID()
			err := p.HandleEvent(ev)
			if !current {
				continue
			}

			switch ev.Type {
			case core.MediaError:
				if p.State().Playlist.IsLast() {
					return err
				}
				log.Error().Err(err).Msg("Skipping track")
				if err := p.Next(); err != nil {
					return err
				}
				if err := p.Play(); err != nil {
					return err
				}

			case core.MediaEnded:
				if err != nil {
					return err
				}
				if !p.State().IsPlaying {
					return nil
				}
			}
		}
	}
}
