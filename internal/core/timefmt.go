package core

import (
	"fmt"
	"time"
)

// FormatTime renders d as minutes:seconds with zero-padded seconds.
// Fractions of a second are truncated; negative values render as 0:00.
func FormatTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
