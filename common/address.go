package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"
)

// AddressBound is 2^251; contract addresses live below it.
var AddressBound = new(uint256.Int).Lsh(uint256.NewInt(1), 251)

var ErrInvalidAddress = errors.New("invalid starknet address")

// ParseAddress requires the 0x prefix so an address is never mistaken for a
// decimal starknet id.
func ParseAddress(addr string) (*uint256.Int, error) {
	addr = strings.TrimSpace(addr)
	if !strings.HasPrefix(addr, "0x") && !strings.HasPrefix(addr, "0X") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
	}
	f, err := HexToFelt(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidAddress, addr, err)
	}
	if f.Cmp(AddressBound) >= 0 {
		return nil, fmt.Errorf("%w: %q is not below 2^251", ErrInvalidAddress, addr)
	}
	return f, nil
}

// PadAddress renders f as 0x followed by 64 lowercase hex digits.
func PadAddress(f *uint256.Int) string {
	return fmt.Sprintf("0x%064x", FeltToBig(f))
}

// ChecksumAddress returns the mixed case form of addr: a hex letter is upper
// cased when the matching nibble of the address hash is >= 8.
func ChecksumAddress(addr string) (string, error) {
	f, err := ParseAddress(addr)
	if err != nil {
		return "", err
	}
	chars := []byte(PadAddress(f)[2:])
	raw := f.Bytes()
	if len(raw) == 0 {
		raw = []byte{0}
	}
	hashed := addressHash(raw)
	for i := 0; i < len(chars); i += 2 {
		if hashed[i>>1]>>4 >= 8 {
			chars[i] = upper(chars[i])
		}
		if hashed[i>>1]&0x0f >= 8 {
			chars[i+1] = upper(chars[i+1])
		}
	}
	return "0x" + string(chars), nil
}

// ValidateChecksumAddress accepts all-lowercase and all-uppercase input as
// well as correctly checksummed mixed case.
func ValidateChecksumAddress(addr string) bool {
	f, err := ParseAddress(addr)
	if err != nil {
		return false
	}
	digits := strings.TrimSpace(addr)[2:]
	if digits == strings.ToLower(digits) || digits == strings.ToUpper(digits) {
		return true
	}
	checksummed, err := ChecksumAddress(PadAddress(f))
	if err != nil {
		return false
	}
	if len(digits) < 64 {
		digits = strings.Repeat("0", 64-len(digits)) + digits
	}
	return "0x"+digits == checksummed
}

func addressHash(raw []byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(raw)
	v := new(uint256.Int).SetBytes(h.Sum(nil))
	return v.And(v, mask250).Bytes32()
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'f' {
		return c - 'a' + 'A'
	}
	return c
}
