package normalize

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^A-Za-z0-9]`)

var npiDigits = regexp.MustCompile(`^[0-9]{10}$`)

// NormalizeCode trims whitespace, uppercases, and strips non-alphanumeric
// characters. Returns "" if nothing survives.
func NormalizeCode(v string) string {
	s := strings.TrimSpace(v)
	if s == "" {
		return ""
	}
	s = strings.ToUpper(s)
	return nonAlphanumeric.ReplaceAllString(s, "")
}

// NormalizeNPI trims the identifier and verifies it is a 10-digit NPI.
// Returns "" for anything else.
func NormalizeNPI(v string) string {
	s := strings.TrimSpace(v)
	if !npiDigits.MatchString(s) {
		return ""
	}
	return s
}
