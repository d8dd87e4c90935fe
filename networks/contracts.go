package networks

import (
	"errors"
	"fmt"
)

var ErrContractNotDeployed = errors.New("contract is not deployed on this network")

// Contracts holds the hex addresses of every contract the client calls on a
// network. Empty fields mean the contract is unknown there.
type Contracts struct {
	Naming         string `json:"naming,omitempty" toml:",omitempty"`
	Identity       string `json:"identity,omitempty" toml:",omitempty"`
	Verifier       string `json:"verifier,omitempty" toml:",omitempty"`
	PfpVerifier    string `json:"pfp_verifier,omitempty" toml:",omitempty"`
	PopVerifier    string `json:"pop_verifier,omitempty" toml:",omitempty"`
	Multicall      string `json:"multicall,omitempty" toml:",omitempty"`
	UtilsMulticall string `json:"utils_multicall,omitempty" toml:",omitempty"`
	Blobbert       string `json:"blobbert,omitempty" toml:",omitempty"`
}

var (
	// UtilsMulticall has no published address yet and must come from
	// configuration before bulk profiles can be read.
	mainnetContracts = Contracts{
		Naming:      "0x6ac597f8116f886fa1c97a23fa4e08299975ecaf6b598873ca6792b9bbfb678",
		Identity:    "0x05dbdedc203e92749e2e746e2d40a768d966bd243df04a6b712e222bc040a9af",
		Verifier:    "0x07d14dfd8ee95b41fce179170d88ba1f0d5a512e13aeb232f19cfeec0a88f8bf",
		PfpVerifier: "0x070aaa20ec4a46da57c932d9fd89ca5e6bb9ca3188d3df361a32306aff7d59c7",
		PopVerifier: "0x0293eb2ba9862f762bd3036586d5755a782bd22e6f5028320f1d0405fd47bff4",
		Multicall:   "0x034ffb8f4452df7a613a0210824d6414dbadcddce6c6e19bf4ddc9e22ce5f970",
		Blobbert:    "0x00539f522b29ae9251dbf7443c7a950cf260372e69efab3710a11bf17a9599f1",
	}
	sepoliaContracts = Contracts{
		Naming:      "0x0154bc2e1af9260b9e66af0e9c46fc757ff893b3ff6a85718a810baf1474aebf",
		Identity:    "0x3697660a0981d734780731949ecb2b4a38d6a58fc41629ed611e8defda",
		Verifier:    "0x0182EcE8173C216A395f4828e1523541b7e3600bf190CB252E1a1A0cE219d184",
		PfpVerifier: "0x058061bb6bdc501eE215172c9f87d557C1E0f466dC0853e5c7E7d7A6b1b8c7A6",
		PopVerifier: "0x0023FE3b845ed5665a9eb3792bbB17347B490EE4090f855C1298d03BB5F49B49",
		Multicall:   "0x034ffb8f4452df7a613a0210824d6414dbadcddce6c6e19bf4ddc9e22ce5f970",
	}
)

// DefaultContracts returns the built-in contract table for id.
func DefaultContracts(id NetworkID) (Contracts, error) {
	switch id {
	case SNMain:
		return mainnetContracts, nil
	case SNSepolia:
		return sepoliaContracts, nil
	}
	return Contracts{}, fmt.Errorf("network id '%s': %w", id, ErrNetworkNotFound)
}

// Merge returns c with every non-empty field of override applied on top.
func (c Contracts) Merge(override Contracts) Contracts {
	pick := func(base, o string) string {
		if o != "" {
			return o
		}
		return base
	}
	return Contracts{
		Naming:         pick(c.Naming, override.Naming),
		Identity:       pick(c.Identity, override.Identity),
		Verifier:       pick(c.Verifier, override.Verifier),
		PfpVerifier:    pick(c.PfpVerifier, override.PfpVerifier),
		PopVerifier:    pick(c.PopVerifier, override.PopVerifier),
		Multicall:      pick(c.Multicall, override.Multicall),
		UtilsMulticall: pick(c.UtilsMulticall, override.UtilsMulticall),
		Blobbert:       pick(c.Blobbert, override.Blobbert),
	}
}

// Require returns value or an error naming the missing contract.
func Require(name, value string) (string, error) {
	if value == "" {
		return "", fmt.Errorf("%s: %w", name, ErrContractNotDeployed)
	}
	return value, nil
}
