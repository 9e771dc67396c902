// utils/dates.go
package utils

import (
	"fmt"
	"regexp"
	"time"
)

// Ledger dates are plain "YYYY-MM-DD" strings and months are "YYYY-MM".
// Lexicographic comparison on these strings is also chronological, so
// ledger ordering never needs time zone handling.

var (
	dateRegex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	monthRegex = regexp.MustCompile(`^\d{4}-\d{2}$`)
)

// IsValidDate reports whether s is a real calendar date in YYYY-MM-DD form.
func IsValidDate(s string) bool {
	if !dateRegex.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// IsValidMonth reports whether s is a real month in YYYY-MM form.
func IsValidMonth(s string) bool {
	if !monthRegex.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01", s)
	return err == nil
}

// DaysInMonth returns the number of calendar days in a YYYY-MM month.
func DaysInMonth(month string) (int, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return 0, fmt.Errorf("invalid month %q", month)
	}
	return t.AddDate(0, 1, -1).Day(), nil
}

// MonthEnd returns the last calendar day of a YYYY-MM month as YYYY-MM-DD.
func MonthEnd(month string) (string, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return "", fmt.Errorf("invalid month %q", month)
	}
	return t.AddDate(0, 1, -1).Format("2006-01-02"), nil
}

// MonthOf extracts the YYYY-MM month of a YYYY-MM-DD date.
func MonthOf(date string) string {
	if len(date) < 7 {
		return ""
	}
	return date[:7]
}

// CurrentMonth returns today's month in YYYY-MM form.
func CurrentMonth() string {
	return time.Now().Format("2006-01")
}

// Today returns today's date in YYYY-MM-DD form.
func Today() string {
	return time.Now().Format("2006-01-02")
}
