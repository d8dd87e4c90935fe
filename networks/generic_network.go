package networks

import (
	"encoding/json"
	"fmt"
)

// GenericNetworkConfig describes a Starknet network that is not built in,
// e.g. a devnet. It is read from the client configuration file.
type GenericNetworkConfig struct {
	Name             string            `json:"name"`
	AlternativeNames []string          `json:"alternative_names"`
	ID               NetworkID         `json:"id"`
	NodeVariableName string            `json:"node_variable_name"`
	DefaultNodes     map[string]string `json:"default_nodes"`
	Contracts        Contracts         `json:"contracts"`
}

type GenericNetwork struct {
	config GenericNetworkConfig
}

func NewGenericNetwork(config GenericNetworkConfig) *GenericNetwork {
	return &GenericNetwork{config: config}
}

func NewNetworkFromJSON(content []byte) (Network, error) {
	networkConfig := GenericNetworkConfig{}
	if err := json.Unmarshal(content, &networkConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal network config: %w", err)
	}
	if networkConfig.Name == "" || networkConfig.ID == "" {
		return nil, fmt.Errorf("network config needs both a name and an id")
	}
	return NewGenericNetwork(networkConfig), nil
}

func (gn *GenericNetwork) GetName() string {
	return gn.config.Name
}

func (gn *GenericNetwork) GetID() NetworkID {
	return gn.config.ID
}

func (gn *GenericNetwork) GetChainID() string {
	return gn.config.ID.ChainID()
}

func (gn *GenericNetwork) GetAlternativeNames() []string {
	return gn.config.AlternativeNames
}

func (gn *GenericNetwork) GetNodeVariableName() string {
	return gn.config.NodeVariableName
}

func (gn *GenericNetwork) GetDefaultNodes() map[string]string {
	return gn.config.DefaultNodes
}

// GetContracts falls back to the built-in table when the network reuses a
// known chain id.
func (gn *GenericNetwork) GetContracts() Contracts {
	defaults, err := DefaultContracts(gn.config.ID)
	if err != nil {
		return gn.config.Contracts
	}
	return defaults.Merge(gn.config.Contracts)
}
