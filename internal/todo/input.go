package todo

import (
	"fmt"
	"strings"
	"time"
)

// ParsePrioritySuffix splits a trailing ":N" priority marker off an input
// buffer. The marker is recognized only as the very last token: a colon
// followed by exactly one digit 1-5 at the end of the string. A colon
// anywhere else, or followed by anything other than a single digit 1-5, is
// literal text. "fix bug :5" yields ("fix bug", 5); "meet at 10:30" is
// returned unchanged.
func ParsePrioritySuffix(input string) (string, *int) {
	trimmed := strings.TrimRight(input, " \t")
	if len(trimmed) < 2 {
		return input, nil
	}
	last := trimmed[len(trimmed)-1]
	if trimmed[len(trimmed)-2] != ':' || last < '1' || last > '5' {
		return input, nil
	}
	p := int(last - '0')
	return strings.TrimSpace(trimmed[:len(trimmed)-2]), &p
}

// ParseDueDate converts user due-date input into a timestamp. Accepted
// forms: "" or "none" (clears), "today", "tomorrow", and "YYYY-MM-DD".
// Explicit dates resolve to the end of that day in UTC.
func ParseDueDate(input string, now time.Time) (*time.Time, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	switch input {
	case "", "none":
		return nil, nil
	case "today":
		t := now.UTC()
		return &t, nil
	case "tomorrow":
		t := now.UTC().Add(24 * time.Hour)
		return &t, nil
	}
	day, err := time.Parse("2006-01-02", input)
	if err != nil {
		return nil, &ValidationError{
			Field: "due_date",
			Err:   fmt.Errorf("invalid date %q, use today, tomorrow, or YYYY-MM-DD", input),
		}
	}
	t := day.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	return &t, nil
}
