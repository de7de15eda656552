package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/spool/internal/core"
	"github.com/tessro/spool/internal/tui/styles"
)

// HistoryEntry is a track that finished or was skipped this session.
type HistoryEntry struct {
	Track    core.Track
	PlayedAt time.Time
	Skipped  bool
}

// History displays recently played tracks, newest first.
type History struct {
	now func() time.Time
}

// NewHistory creates a new History component
func NewHistory() *History {
	return &History{now: time.Now}
}

// Render renders the history panel
func (h *History) Render(entries []HistoryEntry, width, height int, focused bool) string {
	title := styles.PanelTitle("History", focused)

	var content string
	if len(entries) == 0 {
		content = styles.Muted.Render("Nothing played yet")
	} else {
		content = h.renderHistory(entries, width-4, height-4)
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}

func (h *History) renderHistory(entries []HistoryEntry, width, maxLines int) string {
	lines := make([]string, 0, min(len(entries), maxLines))

	// icon (2) + " — " (3)
	const overhead = 5

	for i, entry := range entries {
		if i >= maxLines {
			break
		}

		ago := timeAgo(h.now().Sub(entry.PlayedAt), entry.PlayedAt)

		icon := "✓"
		if entry.Skipped {
			icon = "⏭"
		}

		title, artist := fit(entry.Track.Title, entry.Track.Artist, width-overhead-len(ago)-1)
		info := fmt.Sprintf("%s — %s", title, artist)

		padding := width - 2 - lipgloss.Width(info) - len(ago)
		if padding < 1 {
			padding = 1
		}

		lines = append(lines, styles.Dim.Render(icon)+" "+info+
			strings.Repeat(" ", padding)+styles.Dim.Render(ago))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func timeAgo(d time.Duration, t time.Time) string {
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return t.Format("Jan 2")
	}
}
