package common

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
)

// FieldPrime is the Stark field modulus, 2^251 + 17*2^192 + 1. Every felt
// handled by this module is strictly below it.
var FieldPrime = uint256.MustFromHex("0x800000000000011000000000000000000000000000000000000000000000001")

var (
	ErrFeltOutOfRange = errors.New("value is not a valid felt")
	ErrInvalidNumber  = errors.New("invalid number")
)

// BigToFelt converts b to a felt, rejecting negatives and values >= FieldPrime.
func BigToFelt(b *big.Int) (*uint256.Int, error) {
	if b == nil || b.Sign() < 0 {
		return nil, fmt.Errorf("%w: %v", ErrFeltOutOfRange, b)
	}
	f, overflow := uint256.FromBig(b)
	if overflow || f.Cmp(FieldPrime) >= 0 {
		return nil, fmt.Errorf("%w: %s", ErrFeltOutOfRange, b.String())
	}
	return f, nil
}

func FeltToBig(f *uint256.Int) *big.Int {
	if f == nil {
		return new(big.Int)
	}
	return f.ToBig()
}

// HexToFelt accepts hex with or without the 0x prefix. Leading zeros are
// allowed, unlike uint256.FromHex.
func HexToFelt(hex string) (*uint256.Int, error) {
	s := strings.TrimSpace(hex)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		return nil, fmt.Errorf("%w: empty hex string", ErrInvalidNumber)
	}
	b, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not hex", ErrInvalidNumber, hex)
	}
	return BigToFelt(b)
}

func DecimalToFelt(dec string) (*uint256.Int, error) {
	b, ok := new(big.Int).SetString(strings.TrimSpace(dec), 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not decimal", ErrInvalidNumber, dec)
	}
	return BigToFelt(b)
}

// ParseFelt reads 0x-prefixed input as hex and anything else as decimal.
func ParseFelt(s string) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return HexToFelt(s)
	}
	return DecimalToFelt(s)
}

// MustHexToFelt panics on invalid input. Only use it for constants.
func MustHexToFelt(hex string) *uint256.Int {
	f, err := HexToFelt(hex)
	if err != nil {
		panic(err)
	}
	return f
}

func FeltsToHex(fs []*uint256.Int) []string {
	res := make([]string, 0, len(fs))
	for _, f := range fs {
		res = append(res, f.Hex())
	}
	return res
}

func FeltsToBig(fs []*uint256.Int) []*big.Int {
	res := make([]*big.Int, 0, len(fs))
	for _, f := range fs {
		res = append(res, FeltToBig(f))
	}
	return res
}

// BigsToFelts converts every element or fails on the first out of range one.
func BigsToFelts(bs []*big.Int) ([]*uint256.Int, error) {
	res := make([]*uint256.Int, 0, len(bs))
	for i, b := range bs {
		f, err := BigToFelt(b)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		res = append(res, f)
	}
	return res, nil
}

// Uint256FromFelts joins a Cairo u256 (low, high) pair.
func Uint256FromFelts(low, high *uint256.Int) *big.Int {
	res := new(big.Int).Lsh(FeltToBig(high), 128)
	return res.Add(res, FeltToBig(low))
}
