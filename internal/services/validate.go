package services

import (
	"regexp"
	"strings"
)

// emailRE is a deliberately simple shape check: something, an @, a
// domain with a dot. Deliverability is not this layer's problem.
var emailRE = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// validEmail reports whether s looks like an email address.
func validEmail(s string) bool { return emailRE.MatchString(s) }

// trimmed returns s with surrounding whitespace removed.
func trimmed(s string) string { return strings.TrimSpace(s) }

// requireText validates a mandatory free-text field and returns its
// trimmed value.
func requireText(field, value string) (string, error) {
	v := trimmed(value)
	if v == "" {
		return "", invalid(field, "is required")
	}
	return v, nil
}

// checkRating bounds a rating to the 0–5 scale used across the
// directory.
func checkRating(r float64) error {
	if r < 0 || r > 5 {
		return invalid("rating", "must be between 0 and 5")
	}
	return nil
}
