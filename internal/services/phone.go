package services

import "strings"

// DigitsOnly drops everything but ASCII digits.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormWhatsApp keeps only digits and accepts DDD + number (10 or 11 digits).
func NormWhatsApp(p string) (string, bool) {
	d := DigitsOnly(p)
	return d, len(d) == 10 || len(d) == 11
}

// FormatWhatsApp renders digits as (DD) DDDD-DDDD or (DD) DDDDD-DDDD.
// Anything that is not 10 or 11 digits comes back as bare digits.
func FormatWhatsApp(p string) string {
	d := DigitsOnly(p)
	switch len(d) {
	case 10:
		return "(" + d[:2] + ") " + d[2:6] + "-" + d[6:]
	case 11:
		return "(" + d[:2] + ") " + d[2:7] + "-" + d[7:]
	}
	return d
}
