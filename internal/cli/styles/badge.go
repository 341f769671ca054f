package styles

import (
	"fmt"
	"time"
)

// TimeBadge renders a relative time badge.
func (t *Theme) TimeBadge(tm time.Time) string {
	return t.BadgeMuted.Render(RelativeTime(tm))
}

// PageBadge renders "page/total".
func (t *Theme) PageBadge(page, total int) string {
	return t.Badge.Render(fmt.Sprintf("%d/%d", page, total))
}

// CountBadge renders a count with a singular or plural noun.
func (t *Theme) CountBadge(n int, noun string) string {
	if n != 1 {
		noun += "s"
	}
	return t.BadgeMuted.Render(fmt.Sprintf("%d %s", n, noun))
}

// RelativeTime formats a time as a human-readable relative string.
func RelativeTime(tm time.Time) string {
	diff := time.Since(tm)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "m")
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "h")
	case diff < 7*24*time.Hour:
		return plural(int(diff.Hours()/24), "d")
	case diff < 30*24*time.Hour:
		return plural(int(diff.Hours()/(24*7)), "w")
	case diff < 365*24*time.Hour:
		return plural(int(diff.Hours()/(24*30)), "mo")
	default:
		return plural(int(diff.Hours()/(24*365)), "y")
	}
}

func plural(n int, unit string) string {
	return fmt.Sprintf("%d%s ago", n, unit)
}
