// Package validate holds the pure input checks used by the conversation
// flow. Every function is side-effect free and reports failure as false.
package validate

import (
	"regexp"
	"time"
)

var (
	textRe  = regexp.MustCompile(`^[א-תA-Za-z\s\-]+$`)
	phoneRe = regexp.MustCompile(`^\d{7,15}$`)
)

// DateLayout is the only accepted date format for availability dates.
const DateLayout = "2006-01-02"

// Text reports whether s consists only of Hebrew or Latin letters,
// whitespace, and hyphens. Empty strings fail.
func Text(s string) bool {
	return textRe.MatchString(s)
}

// Phone reports whether s is 7 to 15 ASCII digits.
func Phone(s string) bool {
	return phoneRe.MatchString(s)
}

// Date reports whether s parses as YYYY-MM-DD and falls on or after
// today's local date. Parse failures and past dates are both false.
func Date(s string) bool {
	d, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return false
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	return !d.Before(today)
}

// Capacity reports whether n is within the allowed guest range.
func Capacity(n int) bool {
	return n >= 1 && n <= 100
}
