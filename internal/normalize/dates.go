package normalize

import (
	"strings"
	"time"
)

// Common date formats found in claims extracts.
var dateFormats = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"2006/01/02",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
}

// ParseDate attempts to parse a date string in multiple common formats.
// Returns nil if the input is empty or unparseable. Parsed dates are UTC;
// calendar-year bucketing keys off the UTC year.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, fmt := range dateFormats {
		if t, err := time.Parse(fmt, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// ParseExclusionDate parses the compact YYYYMMDD format used by the
// exclusion registry. Returns nil for empty, zero ("00000000"), or
// unparseable values.
func ParseExclusionDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" || s == "00000000" {
		return nil
	}
	t, err := time.Parse("20060102", s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
