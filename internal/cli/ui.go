package cli

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tessro/spool/internal/core"
	"github.com/tessro/spool/internal/remote"
	"github.com/tessro/spool/internal/tui"
	"github.com/tessro/spool/internal/watch"
)

var (
	uiWatch    string
	uiMPRIS    bool
	uiAutoplay bool
)

var uiCmd = &cobra.Command{
	Use:     "ui [files...]",
	Aliases: []string{"play", "tui"},
	Short:   "Launch the interactive player",
	Long: `Launch the interactive terminal player. Files given on the command
line are added to the playlist before the player opens.

Keyboard shortcuts:
  a            Add files
  Space        Play/Pause
  n, →         Next track
  p, ←         Previous track
  j/k, ↑/↓     Move in playlist
  Enter        Play selected track
  Tab          Switch panel
  ?            Help
  q, Ctrl+C    Quit`,
	Annotations: map[string]string{ownsTerminal: "true"},
	RunE:        runUI,
}

func init() {
	uiCmd.Flags().StringVarP(&uiWatch, "watch", "w", "", "add audio files that appear in this directory")
	uiCmd.Flags().BoolVar(&uiMPRIS, "mpris", false, "expose media controls over D-Bus")
	uiCmd.Flags().BoolVar(&uiAutoplay, "autoplay", false, "start playing when the first files are added")
	rootCmd.AddCommand(uiCmd)
}

func runUI(cmd *cobra.Command, args []string) error {
	p, err := newPlayer(playerOptions(cmd, uiAutoplay))
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	status := ""
	if len(args) > 0 {
		status = uploadSummary(p.UploadPaths(args...))
	}

	prog := tui.NewProgram(p, tui.Options{
		Extensions: cfg.Library.Extensions,
		HideCover:  cfg.TUI.HideCover,
		Theme:      cfg.TUI.Theme,
		Status:     status,
	})

	if uiMPRIS || cfg.Remote.MPRIS {
		mpris, err := remote.RegisterMPRIS(func(c remote.Command) {
			prog.Send(tui.RemoteMsg(c))
		})
		if err != nil {
			log.Warn().Err(err).Msg("Media controls unavailable")
		} else {
			defer func() { _ = mpris.Close() }()
			mpris.Update(p.State())
			p.OnChange(func(_, curr core.PlaybackState) { mpris.Update(curr) })
		}
	}

	dir := uiWatch
	if dir == "" {
		dir = cfg.Library.WatchDir
	}
	if dir != "" {
		w, err := watch.New(dir, cfg.Library.Extensions)
		if err != nil {
			return err
		}
		defer func() { _ = w.Close() }()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		go func() {
			err := w.Run(ctx, func(path string) {
				prog.Send(tui.FilesFoundMsg{path})
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Str("dir", dir).Msg("Watcher stopped")
			}
		}()
	}

	_, err = prog.Run()
	return err
}
