package tui

import (
	"github.com/tessro/spool/internal/core"
	"github.com/tessro/spool/internal/tail"
	"github.com/tessro/spool/internal/tui/components"
)

const maxHistory = 50

// historyLog collects tracks that finished or were skipped, newest first.
type historyLog struct {
	entries []components.HistoryEntry
}

func (h *historyLog) observe(prev, curr core.PlaybackState) {
	for _, e := range tail.Diff(prev, curr) {
		if e.Type != tail.EventTrackComplete && e.Type != tail.EventTrackSkip {
			continue
		}
		t := prev.Track()
		if t == nil {
			continue
		}

		entry := components.HistoryEntry{
			Track:    *t,
			PlayedAt: e.Timestamp,
			Skipped:  e.Type == tail.EventTrackSkip,
		}
		h.entries = append([]components.HistoryEntry{entry}, h.entries...)
		if len(h.entries) > maxHistory {
			h.entries = h.entries[:maxHistory]
		}
	}
}
