package common

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

var ErrMalformedByteArray = errors.New("malformed byte array")

// DecodeByteArray reads a serialized Cairo ByteArray: full word count,
// 31-byte words, pending word, pending word length.
func DecodeByteArray(data []*uint256.Int) (string, error) {
	if len(data) < 3 {
		return "", fmt.Errorf("%w: %d felts", ErrMalformedByteArray, len(data))
	}
	n := data[0]
	if !n.IsUint64() || n.Uint64() != uint64(len(data)-3) {
		return "", fmt.Errorf("%w: %s full words in %d felts", ErrMalformedByteArray, n.Hex(), len(data))
	}
	res := make([]byte, 0, len(data)*MaxShortStringLength)
	for _, w := range data[1 : len(data)-2] {
		word := w.Bytes32()
		res = append(res, word[32-MaxShortStringLength:]...)
	}
	pending, pendingLen := data[len(data)-2], data[len(data)-1]
	if !pendingLen.IsUint64() || pendingLen.Uint64() >= MaxShortStringLength {
		return "", fmt.Errorf("%w: pending length %s", ErrMalformedByteArray, pendingLen.Hex())
	}
	word := pending.Bytes32()
	res = append(res, word[32-pendingLen.Uint64():]...)
	return string(res), nil
}
