// Package command contains the pure input parsing for slash command text.
// Parsers are side-effect free; every failure carries a message ready to show
// back to the requesting user.
package command

import (
	"strconv"
	"strings"
	"time"
)

// InvalidInputError is the parse-failure taxonomy: malformed command text,
// recovered locally and surfaced to the user as a corrective message.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return e.Reason
}

func invalid(reason string) *InvalidInputError {
	return &InvalidInputError{Reason: reason}
}

// ParseMentionAmount parses "@user N" into a user ID and an integer amount.
// Exactly two whitespace-separated tokens; the sigil is stripped. The sign of
// the amount is not checked here: direction is encoded by which ledger
// operation the caller invokes.
func ParseMentionAmount(text string) (string, int64, error) {
	tokens := strings.Fields(text)
	if len(tokens) != 2 {
		return "", 0, invalid("Input must contain exactly two elements: user ID and amount")
	}

	userID := tokens[0]
	if !strings.HasPrefix(userID, "@") {
		return "", 0, invalid("User ID must start with '@'")
	}
	userID = strings.TrimPrefix(userID, "@")
	if userID == "" {
		return "", 0, invalid("User ID must start with '@'")
	}

	amount, err := strconv.ParseInt(tokens[1], 10, 64)
	if err != nil {
		return "", 0, invalid("Amount must be a valid numerical value")
	}

	return userID, amount, nil
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseReportDay parses "day hour" into a weekday and an hour of day.
// Day names are case-insensitive; the hour must be in [0,23]. The three
// failure shapes (bad shape, bad day, bad hour) get distinct messages.
func ParseReportDay(text string) (time.Weekday, int, error) {
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) != 2 {
		return 0, 0, invalid("Invalid input. Please provide the day and time in the format 'day hour'.")
	}

	day, ok := weekdays[tokens[0]]
	if !ok {
		return 0, 0, invalid("Invalid day. Please enter a valid day of the week.")
	}

	hour, err := strconv.Atoi(tokens[1])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, invalid("Invalid time. Please enter a valid hour (0-23).")
	}

	return day, hour, nil
}

// ParseResetMode parses a reset mode argument, case-insensitively.
func ParseResetMode(text string) (string, error) {
	mode := strings.ToLower(strings.TrimSpace(text))
	if mode != "automatic" && mode != "manual" {
		return "", invalid("Invalid mode. Please enter 'automatic' or 'manual'.")
	}
	return mode, nil
}

// ParseChecklistInvocation parses "/checklist" text: an optional template name
// followed by any number of @mentions to notify. An empty name means "list the
// available templates".
func ParseChecklistInvocation(text string) (string, []string) {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return "", nil
	}

	name := tokens[0]
	var mentions []string
	for _, token := range tokens[1:] {
		if strings.HasPrefix(token, "@") && len(token) > 1 {
			mentions = append(mentions, strings.TrimPrefix(token, "@"))
		}
	}
	return name, mentions
}

// SplitItems turns the multiline items field of the create-checklist modal
// into the ordered item list, dropping blank lines.
func SplitItems(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			items = append(items, line)
		}
	}
	return items
}
