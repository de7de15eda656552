package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/spool/internal/core"
	"github.com/tessro/spool/internal/tui/styles"
)

// Placeholders shown before any track is loaded.
const (
	PlaceholderTitle  = "Audio Title"
	PlaceholderArtist = "Person Name"
)

const coverWidth = 14

// NowPlaying displays the current track and the transport controls.
type NowPlaying struct {
	ShowCover bool
}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying(showCover bool) *NowPlaying {
	return &NowPlaying{ShowCover: showCover}
}

// Render renders the now playing panel
func (n *NowPlaying) Render(state core.PlaybackState, width, height int, focused bool) string {
	heading := styles.PanelTitle("Now Playing", focused)

	inner := width - 4
	body := n.renderTrack(state, inner)
	if n.ShowCover && inner > coverWidth+20 && height > 8 {
		cover := styles.CoverArt(coverWidth, min(height-4, 7))
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			cover,
			"  ",
			n.renderTrack(state, inner-coverWidth-2),
		)
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		heading,
		"",
		body,
	))
}

func (n *NowPlaying) renderTrack(state core.PlaybackState, width int) string {
	title, artist := PlaceholderTitle, PlaceholderArtist
	if t := state.Track(); t != nil {
		title, artist = t.Title, t.Artist
	}

	titleLine := styles.Title.Width(width).Render(truncate(title, width))
	artistLine := styles.Subtitle.Render(truncate(artist, width))

	elapsed := core.FormatTime(state.CurrentTime)
	total := core.FormatTime(state.Duration)

	// Account for times on either side
	barWidth := width - len(elapsed) - len(total) - 2
	if barWidth < 10 {
		barWidth = 10
	}
	progress := fmt.Sprintf("%s %s %s",
		styles.Muted.Render(elapsed),
		styles.ProgressBar(state.ProgressPercent(), barWidth),
		styles.Muted.Render(total),
	)

	lines := []string{
		titleLine,
		artistLine,
		"",
		progress,
		"",
		Controls(state.IsPlaying, state.HasTrack()),
	}
	if next := state.Playlist.Upcoming(); len(next) > 0 {
		lines = append(lines, "", styles.Dim.Render("Up next: "+truncate(next[0].Title, width-9)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Controls renders the icon-only transport buttons.
func Controls(playing, enabled bool) string {
	button := styles.Paused
	if playing {
		button = styles.Playing
	}
	side := styles.Muted
	if !enabled {
		button, side = styles.Dim, styles.Dim
	}

	return side.Render("⏮") + "   " +
		button.Bold(true).Render(styles.PlayIcon(playing)) + "   " +
		side.Render("⏭")
}
