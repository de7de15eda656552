package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/tessro/spool/internal/core"
	"github.com/tessro/spool/internal/tui/styles"
)

// Playlist displays the uploaded tracks with a movable cursor.
type Playlist struct {
	offset int
	cursor int
}

// NewPlaylist creates a new Playlist component
func NewPlaylist() *Playlist {
	return &Playlist{}
}

// CursorDown moves the cursor to the next row.
func (p *Playlist) CursorDown(total int) {
	if p.cursor < total-1 {
		p.cursor++
	}
}

// CursorUp moves the cursor to the previous row.
func (p *Playlist) CursorUp() {
	if p.cursor > 0 {
		p.cursor--
	}
}

// Cursor returns the row under the cursor.
func (p *Playlist) Cursor() int {
	return p.cursor
}

// Render renders the playlist panel
func (p *Playlist) Render(pl core.Playlist, width, height int, focused bool) string {
	heading := styles.PanelTitle(fmt.Sprintf("Playlist (%d)", pl.Len()), focused)

	var content string
	if pl.IsEmpty() {
		content = styles.Muted.Render("Playlist is empty. Press 'a' to add audio files.")
	} else {
		content = p.renderTracks(pl, width-4, height-4, focused)
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		heading,
		"",
		content,
	))
}

func (p *Playlist) renderTracks(pl core.Playlist, width, maxLines int, focused bool) string {
	tracks := pl.Tracks

	if p.cursor >= len(tracks) {
		p.cursor = len(tracks) - 1
	}

	visible := maxLines - 1 // Leave room for "more" indicator
	if visible < 1 {
		visible = 1
	}

	// Keep the cursor on screen
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+visible {
		p.offset = p.cursor - visible + 1
	}

	start := p.offset
	end := min(start+visible, len(tracks))

	lines := make([]string, 0, end-start+1)

	// Fixed overhead: "XX. " (4) + "▶ " or "  " (2) + " — " (3) + size (9)
	const overhead = 18

	for i := start; i < end; i++ {
		track := tracks[i]
		num := fmt.Sprintf("%2d.", i+1)
		size := fmt.Sprintf("%8s", humanize.Bytes(uint64(track.Size)))

		title, artist := fit(track.Title, track.Artist, width-overhead)

		var line string
		if i == pl.CurrentIndex {
			line = styles.Playing.Render(fmt.Sprintf("%s ▶ %s — %s", num, title, artist)) +
				" " + styles.Dim.Render(size)
		} else {
			line = fmt.Sprintf("%s   %s — %s %s",
				styles.Dim.Render(num),
				title,
				styles.Muted.Render(artist),
				styles.Dim.Render(size))
		}
		if focused && i == p.cursor {
			line = styles.Cursor.Render(line)
		}

		lines = append(lines, line)
	}

	if end < len(tracks) {
		more := styles.Dim.Render(fmt.Sprintf("    ... and %d more", len(tracks)-end))
		lines = append(lines, more)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// fit shortens title and artist to share available columns. The artist keeps
// at least a third of the space.
func fit(title, artist string, available int) (string, string) {
	titleLen := len([]rune(title))
	artistLen := len([]rune(artist))
	if titleLen+artistLen <= available {
		return title, artist
	}

	minArtist := available / 3
	if minArtist < 10 {
		minArtist = 10
	}
	if minArtist > available-10 {
		minArtist = available - 10
	}

	artistSpace := min(minArtist, artistLen)
	titleSpace := available - artistSpace

	return truncate(title, titleSpace), truncate(artist, artistSpace)
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
