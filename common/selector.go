package common

import (
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

var mask250 = new(uint256.Int).Sub(
	new(uint256.Int).Lsh(uint256.NewInt(1), 250),
	uint256.NewInt(1),
)

// StarknetKeccak is keccak256 truncated to its low 250 bits.
func StarknetKeccak(data []byte) *uint256.Int {
	res := new(uint256.Int).SetBytes(crypto.Keccak256(data))
	return res.And(res, mask250)
}

func GetSelectorFromName(name string) *uint256.Int {
	if name == "__default__" || name == "__l1_default__" {
		return new(uint256.Int)
	}
	return StarknetKeccak([]byte(name))
}
