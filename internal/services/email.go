package services

import (
	"regexp"
	"strings"
)

// Same shape the registration form has always accepted: something@something.tld, no spaces.
var reEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormEmail trims the address and reports whether it is acceptable.
func NormEmail(s string) (string, bool) {
	e := strings.TrimSpace(s)
	if e == "" {
		return "", false
	}
	return e, reEmail.MatchString(e)
}
