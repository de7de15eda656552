package wizard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/tessro/spool/internal/config"
)

// SetupForm builds a form that edits cfg in place when run.
func SetupForm(cfg *config.Config) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Artist").
				Description("Shown next to every track you add").
				Value(&cfg.Player.Artist),
			huh.NewSelect[string]().
				Title("When a track ends").
				Options(
					huh.NewOption("Play the next track, stop after the last", config.EndOfTrackNext),
					huh.NewOption("Play the next track, wrap around", config.EndOfTrackRepeat),
					huh.NewOption("Stop", config.EndOfTrackStop),
				).
				Value(&cfg.Player.EndOfTrack),
			huh.NewConfirm().
				Title("Start playing as soon as files are added?").
				Value(&cfg.Player.Autoplay),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Watch folder").
				Description("New audio files here are added automatically. Leave empty to disable.").
				Value(&cfg.Library.WatchDir),
			huh.NewSelect[string]().
				Title("Theme").
				Options(huh.NewOptions("auto", "dark", "light")...).
				Value(&cfg.TUI.Theme),
			huh.NewConfirm().
				Title("Enable desktop media keys (MPRIS)?").
				Value(&cfg.Remote.MPRIS),
		),
	)
}

// RunSetup prompts for the common settings, starting from cfg's values.
func RunSetup(cfg *config.Config) error {
	if err := SetupForm(cfg).Run(); err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}
	cfg.Player.Artist = strings.TrimSpace(cfg.Player.Artist)
	cfg.Library.WatchDir = strings.TrimSpace(cfg.Library.WatchDir)
	cfg.ApplyDefaults()
	return cfg.Validate()
}
