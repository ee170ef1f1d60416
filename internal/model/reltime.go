package model

import (
	"fmt"
	"time"
)

// FormatRelative renders t relative to now the way note cards show it:
// "just now", "5 min ago", "1 hour ago", "3 days ago".
func FormatRelative(t, now time.Time) string {
	diff := now.Sub(t)
	mins := int(diff / time.Minute)
	hours := int(diff / time.Hour)
	days := int(diff / (24 * time.Hour))

	switch {
	case mins < 1:
		return "just now"
	case mins < 60:
		return fmt.Sprintf("%d min ago", mins)
	case hours < 24:
		return fmt.Sprintf("%d %s ago", hours, plural(hours, "hour"))
	default:
		return fmt.Sprintf("%d %s ago", days, plural(days, "day"))
	}
}

func plural(n int, unit string) string {
	if n > 1 {
		return unit + "s"
	}

	return unit
}
