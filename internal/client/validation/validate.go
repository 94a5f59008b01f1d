// Package validation contains the pre-flight field validators used before
// any request leaves the client. All functions are pure.
package validation

import (
	"regexp"
	"strings"
	"unicode"
)

// Minimum trimmed lengths for name fields. Registration collects a single
// full-name field; the profile editor collects first/last name separately.
const (
	MinFullName = 4
	MinNamePart = 2
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email reports whether s has a plausible local@domain.tld shape: exactly
// one "@", at least one "." after it, and no whitespace.
func Email(s string) bool {
	return emailRegex.MatchString(s)
}

// Password reports whether s is at least 8 characters long and contains at
// least one digit.
func Password(s string) bool {
	if len(s) < 8 {
		return false
	}
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// Name reports whether s, after trimming, is at least min runes long,
// contains at least one letter, and consists only of letters, spaces,
// apostrophes, hyphens, and periods.
func Name(s string, min int) bool {
	s = strings.TrimSpace(s)
	if len([]rune(s)) < min {
		return false
	}

	hasLetter := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case r == ' ' || r == '\'' || r == '-' || r == '.':
		default:
			return false
		}
	}
	return hasLetter
}
