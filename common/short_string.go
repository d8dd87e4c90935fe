package common

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

const MaxShortStringLength = 31

var (
	ErrShortStringTooLong  = errors.New("short string exceeds 31 characters")
	ErrShortStringNotASCII = errors.New("short string must be ascii")
)

// EncodeShortString packs up to 31 ascii characters big-endian into one felt.
func EncodeShortString(s string) (*uint256.Int, error) {
	if len(s) > MaxShortStringLength {
		return nil, fmt.Errorf("%w: %q", ErrShortStringTooLong, s)
	}
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return nil, fmt.Errorf("%w: %q", ErrShortStringNotASCII, s)
		}
	}
	return new(uint256.Int).SetBytes([]byte(s)), nil
}

func MustEncodeShortString(s string) *uint256.Int {
	f, err := EncodeShortString(s)
	if err != nil {
		panic(err)
	}
	return f
}

func DecodeShortString(f *uint256.Int) string {
	if f == nil {
		return ""
	}
	return string(f.Bytes())
}

// DecodeShortStrings concatenates the chunks, which is how Cairo
// contracts return strings longer than a single felt.
func DecodeShortStrings(fs []*uint256.Int) string {
	res := make([]byte, 0, len(fs)*MaxShortStringLength)
	for _, f := range fs {
		res = append(res, f.Bytes()...)
	}
	return string(res)
}
