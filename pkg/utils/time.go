package utils

import (
	"fmt"
	"time"
)

// DateLayout is the backend's calendar-day format.
const DateLayout = "2006-01-02"

// FormatDay renders a YYYY-MM-DD day as "Mon Jan 2"; unparsable input is
// returned unchanged.
func FormatDay(day string) string {
	d, err := time.Parse(DateLayout, day)
	if err != nil {
		return day
	}
	return d.Format("Mon Jan 2")
}

// TimeAgo returns human-readable time ago string
func TimeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	}
	days := int(d.Hours() / 24)
	switch {
	case days == 1:
		return "yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	}
	return plural(days/7, "week")
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
