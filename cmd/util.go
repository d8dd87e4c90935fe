package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sahilm/fuzzy"
	"golang.org/x/term"

	"github.com/tranvictor/starknetid/config"
	"github.com/tranvictor/starknetid/navigator"
	"github.com/tranvictor/starknetid/networks"
	"github.com/tranvictor/starknetid/ui"
	"github.com/tranvictor/starknetid/util/reader"
)

var appConfig = config.DefaultConfig()

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func defaultConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".starknetid", "config.toml")
}

// loadConfig reads --config, or the default file when it exists.
func loadConfig() error {
	file := config.ConfigFile
	if file == "" {
		file = defaultConfigFile()
		if _, err := os.Stat(file); err != nil {
			return nil
		}
	}
	return config.Load(file, &appConfig)
}

// suggestNetworks returns up to 3 known names closest to input.
func suggestNetworks(input string, names []string) []string {
	matches := fuzzy.Find(strings.ToLower(input), names)
	res := []string{}
	for i := 0; i < 3 && i < len(matches); i++ {
		res = append(res, matches[i].Str)
	}
	return res
}

func currentNetwork() (networks.Network, error) {
	name := config.Network
	if name == "" {
		name = appConfig.Network
	}
	n, err := networks.GetNetwork(name)
	if errors.Is(err, networks.ErrNetworkNotFound) {
		if s := suggestNetworks(name, networks.GetSupportedNetworkNames()); len(s) > 0 {
			return nil, fmt.Errorf("%w. Did you mean %s?", err, strings.Join(s, ", "))
		}
	}
	return n, err
}

func newReader(n networks.Network) (*reader.StarknetReader, error) {
	nodes := appConfig.Nodes(n)
	if len(nodes) == 0 {
		return nil, fmt.Errorf("network %s has no nodes, set %s or add some to the config file", n.GetName(), n.GetNodeVariableName())
	}
	return reader.NewStarknetReaderGeneric(nodes), nil
}

func newNavigator() (*navigator.Navigator, error) {
	n, err := currentNetwork()
	if err != nil {
		return nil, err
	}
	r, err := newReader(n)
	if err != nil {
		return nil, err
	}
	httpClient, err := appConfig.HTTPClient()
	if err != nil {
		return nil, err
	}
	contracts := appConfig.Contracts(n)
	return navigator.New(r, navigator.Config{
		Network:                 n.GetID(),
		Contracts:               &contracts,
		HTTPClient:              httpClient,
		IdenticonURL:            appConfig.Resolver.IdenticonURL,
		IPFSGateway:             appConfig.Resolver.IPFSGateway,
		ContinueOnServerFailure: appConfig.Resolver.ContinueOnServerFailure,
	})
}

func newUI() ui.UI {
	return ui.NewTerminalUI()
}

// output prints v as JSON with --json, otherwise calls pretty.
func output(u ui.UI, v any, pretty func()) error {
	if config.JSONOutput {
		return u.JSON(v)
	}
	pretty()
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// spin shows msg while a command reads, except in JSON mode where stdout
// only carries the result.
func spin(u ui.UI, msg string) func() {
	if config.JSONOutput {
		return func() {}
	}
	return u.Spinner(msg)
}
