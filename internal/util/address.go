package util

import (
	"regexp"
	"strings"
)

// Minimal shape check: one "@", something on both sides, a dot in the
// domain. Full RFC 5322 parsing is the mail provider's problem.
var addressRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// NormalizeAddress lowercases and trims user input into a comparable form.
func NormalizeAddress(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ValidAddress reports whether s looks like a deliverable email address.
// Expects already-normalized input.
func ValidAddress(s string) bool {
	return addressRe.MatchString(s)
}
