package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tranvictor/starknetid/common"
	"github.com/tranvictor/starknetid/networks"
	"github.com/tranvictor/starknetid/ui"
	"github.com/tranvictor/starknetid/util/reader"
)

type networkInfo struct {
	Name             string             `json:"name"`
	AlternativeNames []string           `json:"alternativeNames"`
	ID               networks.NetworkID `json:"id"`
	Nodes            map[string]string  `json:"nodes"`
	Contracts        networks.Contracts `json:"contracts"`
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var listNetworkCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all of supported networks",
	Long:  ``,
	RunE: func(cmd *cobra.Command, args []string) error {
		u := newUI()
		infos := []networkInfo{}
		for _, n := range networks.GetSupportedNetworks() {
			infos = append(infos, networkInfo{
				Name:             n.GetName(),
				AlternativeNames: n.GetAlternativeNames(),
				ID:               n.GetID(),
				Nodes:            appConfig.Nodes(n),
				Contracts:        appConfig.Contracts(n),
			})
		}
		return output(u, infos, func() {
			for i, info := range infos {
				u.Section(fmt.Sprintf("%d. %s (%s)", i+1, info.Name, info.ID))
				child := u.Indent()
				rows := [][2]string{}
				for _, name := range sortedKeys(info.Nodes) {
					rows = append(rows, [2]string{name, info.Nodes[name]})
				}
				child.KeyValue(rows)
			}
			u.Info("\nAdd nodes, contracts or custom networks in the config file, see \"starknetid config dump\".")
		})
	},
}

var checkNetworkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that every node of the network serves its chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := currentNetwork()
		if err != nil {
			return err
		}
		u := newUI()
		nodes := appConfig.Nodes(n)
		names := sortedKeys(nodes)
		rows := make([][2]string, len(names))
		checks := make([]func() error, len(names))
		for i, name := range names {
			checks[i] = func() error {
				node := reader.NewOneNodeReader(name, nodes[name])
				defer node.Close()
				err := checkNode(cmd.Context(), node, n.GetID())
				rows[i] = [2]string{name, u.Style(nodeStatus(err))}
				return err
			}
		}
		stop := spin(u, fmt.Sprintf("Checking %d nodes of %s", len(names), n.GetName()))
		err, failed := common.RunParallel(checks...)
		stop()
		u.KeyValue(rows)
		if failed > 0 {
			return fmt.Errorf("%d of %d nodes failed: %w", failed, len(names), err)
		}
		return nil
	},
}

func checkNode(ctx context.Context, node reader.StarknetNode, want networks.NetworkID) error {
	chainID, err := node.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", node.NodeName(), err)
	}
	got, err := networks.NetworkIDFromChainID(chainID)
	if err != nil {
		return fmt.Errorf("%s: %w", node.NodeName(), err)
	}
	if got != want {
		return fmt.Errorf("%s serves %s, not %s", node.NodeName(), got, want)
	}
	return nil
}

func nodeStatus(err error) ui.StyledText {
	if err != nil {
		return ui.StyledText{Text: err.Error(), Severity: ui.SeverityError}
	}
	return ui.StyledText{Text: "ok", Severity: ui.SeveritySuccess}
}

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Manage all networks that starknetid supports",
	Long:  ``,
}

func init() {
	networkCmd.AddCommand(listNetworkCmd)
	networkCmd.AddCommand(checkNetworkCmd)
	rootCmd.AddCommand(networkCmd)
}
