package common

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/holiman/uint256"
)

// ReadableNumber groups the digits of a decimal string by thousands, e.g.
// "1234567" becomes "1234567 (1,234,567)". Short values are returned as is.
func ReadableNumber(value string) string {
	if len(value) <= 4 {
		return value
	}
	digits := []byte{}
	for i := range value {
		if i > 0 && (len(value)-i)%3 == 0 {
			digits = append(digits, ',')
		}
		digits = append(digits, value[i])
	}
	return fmt.Sprintf("%s (%s)", value, digits)
}

// FeltText renders f for humans: its hex form, then its decimal form and,
// when every byte is printable, its short string.
func FeltText(f *uint256.Int) string {
	parts := []string{f.Dec()}
	if s := DecodeShortString(f); s != "" && printable(s) {
		parts = append(parts, fmt.Sprintf("%q", s))
	}
	return fmt.Sprintf("%s [%s]", f.Hex(), strings.Join(parts, ", "))
}

func printable(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
