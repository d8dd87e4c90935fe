package reader

import (
	"context"

	"github.com/holiman/uint256"
)

// ContractCaller performs read-only contract calls. Every resolver and
// builder in this module reaches the chain through it.
type ContractCaller interface {
	Call(ctx context.Context, contract, entrypoint string, calldata []*uint256.Int) ([]*uint256.Int, error)
}

type StarknetNode interface {
	ContractCaller
	NodeName() string
	NodeURL() string
	ChainID(ctx context.Context) (string, error)
}

// FunctionCall is the request object of starknet_call.
type FunctionCall struct {
	ContractAddress    string   `json:"contract_address"`
	EntryPointSelector string   `json:"entry_point_selector"`
	Calldata           []string `json:"calldata"`
}
