package config

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tranvictor/starknetid/networks"
)

const sample = `
Network = "sepolia"

[Networks.mainnet.Nodes]
own = "http://localhost:9545"

[Networks.mainnet.Contracts]
UtilsMulticall = "0x1234"

[[Custom]]
Name = "devnet-config-test"
AlternativeNames = ["dev-config-test"]
ID = "SN_DEVNET_CFG"

[Custom.DefaultNodes]
local = "http://localhost:5050/rpc"

[Custom.Contracts]
Naming = "0x1"
Identity = "0x2"

[Resolver]
IdenticonURL = "https://identicon.example.com"
Timeout = "3s"
ContinueOnServerFailure = true
`

func TestDecode(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, Decode("sample.toml", strings.NewReader(sample), &cfg))

	require.Equal(t, "sepolia", cfg.Network)
	require.Equal(t, "http://localhost:9545", cfg.Networks["mainnet"].Nodes["own"])
	require.Equal(t, "0x1234", cfg.Networks["mainnet"].Contracts.UtilsMulticall)
	require.Len(t, cfg.Custom, 1)
	require.Equal(t, networks.NetworkID("SN_DEVNET_CFG"), cfg.Custom[0].ID)
	require.Equal(t, "0x1", cfg.Custom[0].Contracts.Naming)
	require.True(t, cfg.Resolver.ContinueOnServerFailure)
	require.Equal(t, "https://identicon.example.com", cfg.Resolver.IdenticonURL)

	client, err := cfg.HTTPClient()
	require.NoError(t, err)
	require.Equal(t, "3s", client.Timeout.String())
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	cfg := DefaultConfig()
	err := Decode("bad.toml", strings.NewReader("Netwrk = \"mainnet\"\n"), &cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Netwrk")
}

func TestMergesOverNetworkDefaults(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, Decode("sample.toml", strings.NewReader(sample), &cfg))

	mainnet, err := networks.GetNetwork("mainnet")
	require.NoError(t, err)

	nodes := cfg.Nodes(mainnet)
	require.Equal(t, "http://localhost:9545", nodes["own"])
	require.Contains(t, nodes, "mainnet-starknetid")

	contracts := cfg.Contracts(mainnet)
	require.Equal(t, "0x1234", contracts.UtilsMulticall)
	require.Equal(t, mainnet.GetContracts().Naming, contracts.Naming)
}

func TestRegisterCustomNetworks(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, Decode("sample.toml", strings.NewReader(sample), &cfg))
	require.NoError(t, cfg.RegisterCustomNetworks())

	n, err := networks.GetNetwork("dev-config-test")
	require.NoError(t, err)
	require.Equal(t, "devnet-config-test", n.GetName())
	require.Equal(t, "0x2", n.GetContracts().Identity)

	// names are taken now
	require.Error(t, cfg.RegisterCustomNetworks())
}

func TestDumpRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Networks["sepolia"] = NetworkConfig{Nodes: map[string]string{"own": "http://localhost:1234"}}

	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, &cfg))

	back := DefaultConfig()
	require.NoError(t, Decode("dump", &buf, &back))
	require.Equal(t, cfg.Network, back.Network)
	require.Equal(t, "http://localhost:1234", back.Networks["sepolia"].Nodes["own"])
	require.Equal(t, cfg.Resolver.Timeout, back.Resolver.Timeout)
}

func TestBadTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Resolver.Timeout = "soon"
	_, err := cfg.HTTPClient()
	require.Error(t, err)
}
