// Package phone extracts digits from free-text phone numbers and formats them
// for display and dialing.
package phone

import (
	"strings"
	"unicode"
)

// OnlyDigits returns the decimal digits of s in their original order.
func OnlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Format renders a North American number for display:
//   - 10 digits: (AAA) PPP-LLLL
//   - 11 digits with a leading 1: +1 (AAA) PPP-LLLL
//
// Anything else is returned unchanged.
func Format(s string) string {
	d := []rune(OnlyDigits(s))
	switch {
	case len(d) == 10:
		return "(" + string(d[0:3]) + ") " + string(d[3:6]) + "-" + string(d[6:10])
	case len(d) == 11 && d[0] == '1':
		return "+1 (" + string(d[1:4]) + ") " + string(d[4:7]) + "-" + string(d[7:11])
	}
	return s
}

// DialURI returns the tel:// target for s, or "" when s holds no digits.
func DialURI(s string) string {
	d := OnlyDigits(s)
	if d == "" {
		return ""
	}
	return "tel://" + d
}
