package slackbot

import (
	"fmt"
	"time"
)

// FormatElapsed renders the time between start and end in the two most
// significant units: days/hours, hours/minutes, minutes/seconds, or seconds.
func FormatElapsed(start, end time.Time) string {
	delta := end.Sub(start)
	if delta < 0 {
		delta = 0
	}

	days := int(delta.Hours()) / 24
	hours := int(delta.Hours()) % 24
	minutes := int(delta.Minutes()) % 60
	seconds := int(delta.Seconds()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%d days, %d hours", days, hours)
	case hours > 0:
		return fmt.Sprintf("%d hours, %d minutes", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%d minutes, %d seconds", minutes, seconds)
	default:
		return fmt.Sprintf("%d seconds", seconds)
	}
}

// FormatStamp renders a timestamp for completion messages, like "Sep 01 at 03:04 PM".
func FormatStamp(t time.Time) string {
	return t.Format("Jan 02 at 03:04 PM")
}
