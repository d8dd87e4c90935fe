package networks

// Network describes a Starknet chain the client can talk to.
type Network interface {
	GetName() string
	GetID() NetworkID
	// GetChainID is the chain id felt as returned by starknet_chainId.
	GetChainID() string
	GetAlternativeNames() []string

	GetNodeVariableName() string
	GetDefaultNodes() map[string]string

	GetContracts() Contracts
}
