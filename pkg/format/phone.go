package format

import (
	"fmt"
	"strings"
	"unicode"
)

// Digits strips everything but ASCII digits.
func Digits(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r <= unicode.MaxASCII && unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Phone masks a Brazilian phone number as (DD) NNNNN-NNNN or (DD) NNNN-NNNN.
// Anything that is not 10 or 11 digits is returned unchanged.
func Phone(value string) string {
	digits := Digits(value)
	switch len(digits) {
	case 10:
		return fmt.Sprintf("(%s) %s-%s", digits[:2], digits[2:6], digits[6:])
	case 11:
		return fmt.Sprintf("(%s) %s-%s", digits[:2], digits[2:7], digits[7:])
	default:
		return value
	}
}
