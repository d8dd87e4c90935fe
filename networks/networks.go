package networks

import (
	"fmt"

	"github.com/tranvictor/starknetid/common"
)

// NetworkID names a Starknet chain by its short string chain id.
type NetworkID string

const (
	SNMain    NetworkID = "SN_MAIN"
	SNSepolia NetworkID = "SN_SEPOLIA"
)

// ChainID returns the felt form of the id, e.g. 0x534e5f4d41494e for SN_MAIN.
func (id NetworkID) ChainID() string {
	f, err := common.EncodeShortString(string(id))
	if err != nil {
		return ""
	}
	return f.Hex()
}

func (id NetworkID) String() string {
	return string(id)
}

// NetworkIDFromChainID maps a starknet_chainId answer back to a NetworkID.
func NetworkIDFromChainID(chainID string) (NetworkID, error) {
	f, err := common.HexToFelt(chainID)
	if err != nil {
		return "", fmt.Errorf("chain id %q: %w", chainID, err)
	}
	return NetworkID(common.DecodeShortString(f)), nil
}
