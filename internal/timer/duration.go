// Package timer implements the auto-deletion engine: the duration grammar,
// the daily schedule window arithmetic and the policy that resolves the
// effective deletion delay for a single media message.
package timer

import (
	"fmt"
	"regexp"
	"strconv"
)

// Millisecond counts per supported unit.
const (
	millisPerSecond = 1000
	millisPerMinute = 60 * millisPerSecond
	millisPerHour   = 60 * millisPerMinute
)

var (
	// Compiled regular expressions
	durationRegex = regexp.MustCompile(`(?i)^(\d+)([smh])$`)
	captionRegex  = regexp.MustCompile(`(?i)\b(\d+)([smh])\b`)
	clockRegex    = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
)

// ParseDuration parses a human duration of the form <integer><unit> with
// unit s, m or h (case-insensitive) into milliseconds. Zero values parse
// fine; the scheduler suppresses them. Anything else, including leading or
// trailing garbage, is rejected.
func ParseDuration(text string) (int64, error) {
	matches := durationRegex.FindStringSubmatch(text)
	if matches == nil {
		return 0, fmt.Errorf("invalid duration: %q", text)
	}

	value, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration value: %q", text)
	}

	return value * unitMillis(matches[2]), nil
}

func unitMillis(unit string) int64 {
	switch unit {
	case "s", "S":
		return millisPerSecond
	case "m", "M":
		return millisPerMinute
	default:
		return millisPerHour
	}
}

// FormatDuration renders milliseconds back into the duration grammar using
// the largest unit that divides evenly.
func FormatDuration(millis int64) string {
	switch {
	case millis >= millisPerHour && millis%millisPerHour == 0:
		return fmt.Sprintf("%dh", millis/millisPerHour)
	case millis >= millisPerMinute && millis%millisPerMinute == 0:
		return fmt.Sprintf("%dm", millis/millisPerMinute)
	default:
		return fmt.Sprintf("%ds", millis/millisPerSecond)
	}
}

// FindCaptionDelay scans a message caption for a standalone duration token
// and returns its millisecond value. The first word-boundary delimited match
// wins; text like "a30s" or "30sx" does not count.
func FindCaptionDelay(caption string) (int64, bool) {
	if caption == "" {
		return 0, false
	}

	matches := captionRegex.FindStringSubmatch(caption)
	if matches == nil {
		return 0, false
	}

	value, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil {
		return 0, false
	}

	return value * unitMillis(matches[2]), true
}

// ParseClock parses "HH:MM" into minutes since midnight.
func ParseClock(text string) (int, error) {
	matches := clockRegex.FindStringSubmatch(text)
	if matches == nil {
		return 0, fmt.Errorf("invalid time: %q", text)
	}

	hour, _ := strconv.Atoi(matches[1])
	minute, _ := strconv.Atoi(matches[2])
	if hour > 23 || minute > 59 {
		return 0, fmt.Errorf("invalid time: %q", text)
	}

	return hour*60 + minute, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
