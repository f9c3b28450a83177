package domain

import (
	"regexp"
	"strings"
)

var plateRe = regexp.MustCompile(`^[A-Z0-9][A-Z0-9-]{1,11}$`)

// NormalizePlate uppercases and trims a plate and reports whether the result
// is well formed (2–12 chars, alphanumeric plus dashes).
func NormalizePlate(s string) (string, bool) {
	p := strings.ToUpper(strings.TrimSpace(s))
	return p, plateRe.MatchString(p)
}
