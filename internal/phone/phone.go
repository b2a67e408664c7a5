// Package phone normalizes US phone numbers to the +1XXXXXXXXXX form the
// messaging API expects.
package phone

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidNumber means the input did not normalize to a 12-character
// +1XXXXXXXXXX number.
var ErrInvalidNumber = errors.New("invalid phone number")

// Normalize strips punctuation and whitespace, prefixes the US country
// code to bare 10-digit numbers, and prepends the +. Anything that does
// not come out exactly 12 characters long is rejected.
//
//	"234-567-8901"  -> "+12345678901"
//	"12345678901"   -> "+12345678901"
//	"+12345678901"  -> "+12345678901"
func Normalize(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}

	n := b.String()
	if len(n) == 10 {
		n = "1" + n
	}
	n = "+" + n

	if len(n) != 12 {
		return "", fmt.Errorf("%w: %q normalized to %q, want 12 characters", ErrInvalidNumber, raw, n)
	}
	return n, nil
}

// Mask hides the middle of a normalized number for console output,
// keeping the country code and last four digits.
func Mask(normalized string) string {
	if len(normalized) != 12 {
		return normalized
	}
	return normalized[:2] + "******" + normalized[8:]
}
