package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"reflect"
	"time"

	"github.com/naoina/toml"

	"github.com/tranvictor/starknetid/networks"
)

// Values bound to the root command's persistent flags.
var (
	Network    string
	ConfigFile string
	Verbose    bool
	JSONOutput bool
)

// NetworkConfig overrides a network's nodes and contracts. Nodes are added
// to the network's default nodes, replacing entries with the same name.
type NetworkConfig struct {
	Nodes     map[string]string  `toml:",omitempty"`
	Contracts networks.Contracts `toml:",omitempty"`
}

type ResolverConfig struct {
	IdenticonURL string `toml:",omitempty"`
	IPFSGateway  string `toml:",omitempty"`
	// Timeout of every http request, in time.ParseDuration format.
	Timeout                 string `toml:",omitempty"`
	ContinueOnServerFailure bool
}

// Config is the content of the TOML configuration file.
type Config struct {
	// Network used when --network is not given.
	Network string
	// Networks is keyed by network name.
	Networks map[string]NetworkConfig `toml:",omitempty"`
	// Custom networks are registered next to the built-in ones.
	Custom   []networks.GenericNetworkConfig `toml:",omitempty"`
	Resolver ResolverConfig
}

func DefaultConfig() Config {
	return Config{
		Network:  "mainnet",
		Networks: map[string]NetworkConfig{},
		Resolver: ResolverConfig{
			Timeout: "10s",
		},
	}
}

// TOML keys are the Go field names.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

// Load decodes file over cfg, keeping values the file does not set.
func Load(file string, cfg *Config) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()
	return Decode(file, f, cfg)
}

// Decode reads TOML from r. name prefixes errors that carry a line number.
func Decode(name string, r io.Reader, cfg *Config) error {
	err := tomlSettings.NewDecoder(bufio.NewReader(r)).Decode(cfg)
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(name + ", " + err.Error())
	}
	return err
}

// Dump writes cfg as TOML.
func Dump(w io.Writer, cfg *Config) error {
	out, err := tomlSettings.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// RegisterCustomNetworks adds every custom network to the registry.
func (c *Config) RegisterCustomNetworks() error {
	for _, n := range c.Custom {
		if n.Name == "" || n.ID == "" {
			return fmt.Errorf("custom network needs both a Name and an ID")
		}
		if err := networks.AddNetwork(networks.NewGenericNetwork(n)); err != nil {
			return fmt.Errorf("custom network %s: %w", n.Name, err)
		}
	}
	return nil
}

// Nodes returns the nodes to read n from.
func (c *Config) Nodes(n networks.Network) map[string]string {
	nodes := networks.GetNodes(n)
	for name, url := range c.Networks[n.GetName()].Nodes {
		nodes[name] = url
	}
	return nodes
}

// Contracts returns the contracts of n with the configured overrides.
func (c *Config) Contracts(n networks.Network) networks.Contracts {
	return n.GetContracts().Merge(c.Networks[n.GetName()].Contracts)
}

func (c *Config) HTTPClient() (*http.Client, error) {
	if c.Resolver.Timeout == "" {
		return &http.Client{}, nil
	}
	timeout, err := time.ParseDuration(c.Resolver.Timeout)
	if err != nil {
		return nil, fmt.Errorf("resolver timeout: %w", err)
	}
	return &http.Client{Timeout: timeout}, nil
}
