package networks

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Insert more Network implementation here to support
// more chains
var supportedNetworks = []Network{
	StarknetMainnet,
	StarknetSepolia,
}

var globalSupportedNetworks = newSupportedNetworks(supportedNetworks)
var ErrNetworkNotFound = fmt.Errorf("network not found")

type networks struct {
	networks     map[string]Network
	networksByID map[NetworkID]Network
}

func (n *networks) getSupportedNetworkNames() []string {
	res := []string{}
	for name := range n.networks {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

func (n *networks) getNetworkByID(id NetworkID) (Network, error) {
	res, found := n.networksByID[id]
	if !found {
		return nil, fmt.Errorf("network id '%s': %w", id, ErrNetworkNotFound)
	}
	return res, nil
}

func (n *networks) getNetwork(name string) (Network, error) {
	res, found := n.networks[strings.ToLower(name)]
	if !found {
		return nil, fmt.Errorf("network name '%s': %w", name, ErrNetworkNotFound)
	}
	return res, nil
}

func (n *networks) add(network Network) error {
	names := append([]string{network.GetName()}, network.GetAlternativeNames()...)
	for _, name := range names {
		if _, found := n.networks[name]; found {
			return fmt.Errorf("network with name or alternative name of '%s' already exists", name)
		}
	}
	for _, name := range names {
		n.networks[name] = network
	}
	if _, found := n.networksByID[network.GetID()]; !found {
		n.networksByID[network.GetID()] = network
	}
	return nil
}

func newSupportedNetworks(list []Network) *networks {
	result := networks{
		map[string]Network{},
		map[NetworkID]Network{},
	}
	for _, n := range list {
		if err := result.add(n); err != nil {
			panic(err)
		}
	}
	return &result
}

func GetSupportedNetworks() []Network {
	seen := map[Network]bool{}
	res := []Network{}
	for _, name := range globalSupportedNetworks.getSupportedNetworkNames() {
		n := globalSupportedNetworks.networks[name]
		if !seen[n] {
			seen[n] = true
			res = append(res, n)
		}
	}
	return res
}

func GetNetwork(name string) (Network, error) {
	return globalSupportedNetworks.getNetwork(name)
}

func GetNetworkByID(id NetworkID) (Network, error) {
	return globalSupportedNetworks.getNetworkByID(id)
}

func GetSupportedNetworkNames() []string {
	return globalSupportedNetworks.getSupportedNetworkNames()
}

// AddNetwork registers a custom network for the lifetime of the process.
func AddNetwork(network Network) error {
	return globalSupportedNetworks.add(network)
}

// GetNodes returns the default nodes of n plus the one named by its node
// environment variable, if set.
func GetNodes(n Network) map[string]string {
	nodes := map[string]string{}
	for name, url := range n.GetDefaultNodes() {
		nodes[name] = url
	}
	if v := n.GetNodeVariableName(); v != "" {
		customNode := strings.TrimSpace(os.Getenv(v))
		if customNode != "" {
			nodes["custom-node"] = customNode
		}
	}
	return nodes
}
