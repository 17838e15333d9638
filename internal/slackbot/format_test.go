package slackbot_test

import (
	"testing"
	"time"

	"github.com/example/debits/internal/slackbot"
)

func TestFormatElapsed(t *testing.T) {
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		end  time.Time
		want string
	}{
		{"seconds only", start.Add(42 * time.Second), "42 seconds"},
		{"zero", start, "0 seconds"},
		{"minutes and seconds", start.Add(3*time.Minute + 5*time.Second), "3 minutes, 5 seconds"},
		{"hours and minutes", start.Add(2*time.Hour + 10*time.Minute), "2 hours, 10 minutes"},
		{"days and hours", start.Add(49 * time.Hour), "2 days, 1 hours"},
		{"exact hour", start.Add(time.Hour), "1 hours, 0 minutes"},
		{"end before start clamps", start.Add(-time.Minute), "0 seconds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := slackbot.FormatElapsed(start, tt.end); got != tt.want {
				t.Errorf("FormatElapsed() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatStamp(t *testing.T) {
	ts := time.Date(2026, 9, 1, 15, 4, 0, 0, time.UTC)
	if got := slackbot.FormatStamp(ts); got != "Sep 01 at 03:04 PM" {
		t.Errorf("FormatStamp() = %q", got)
	}
}
