package vin

import (
	"strings"
	"unicode"
)

const (
	MinLength = 11
	MaxLength = 17

	ErrInvalidLength = "invalid_length"
)

// Sanitize strips every non-alphanumeric character and upper-cases the rest.
func Sanitize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// ValidLength reports whether a sanitized VIN has an acceptable length.
func ValidLength(vin string) bool {
	return len(vin) >= MinLength && len(vin) <= MaxLength
}
