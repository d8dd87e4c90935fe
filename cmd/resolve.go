package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tranvictor/starknetid/common"
)

var NamesMulticall string

type resolution struct {
	Query  string `json:"query"`
	Result string `json:"result"`
	Error  string `json:"error,omitempty"`
}

func resolutionRows(res []resolution) [][2]string {
	rows := [][2]string{}
	for _, r := range res {
		v := orDash(r.Result)
		if r.Error != "" {
			v = "error: " + r.Error
		}
		rows = append(rows, [2]string{r.Query, v})
	}
	return rows
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <domain.stark>...",
	Short: "Show the address each domain points to",
	Long: `Domains handled by an off-chain resolver are followed automatically. A domain
nobody owns resolves to 0x0.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nav, err := newNavigator()
		if err != nil {
			return err
		}
		u := newUI()
		stop := spin(u, "Resolving domains")
		res := []resolution{}
		for _, name := range args {
			r := resolution{Query: name}
			r.Result, err = nav.GetAddressFromStarkName(cmd.Context(), name)
			if err != nil {
				r.Error = err.Error()
			}
			res = append(res, r)
		}
		stop()
		return output(u, res, func() { u.KeyValue(resolutionRows(res)) })
	},
}

var nameCmd = &cobra.Command{
	Use:   "name <address>",
	Short: "Show the main domain of an address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nav, err := newNavigator()
		if err != nil {
			return err
		}
		u := newUI()
		stop := spin(u, "Reading main domain")
		name, err := nav.GetStarkName(cmd.Context(), args[0])
		stop()
		if err != nil {
			return err
		}
		res := []resolution{{Query: args[0], Result: name}}
		return output(u, res[0], func() { u.KeyValue(resolutionRows(res)) })
	},
}

var namesCmd = &cobra.Command{
	Use:   "names <address>...",
	Short: "Show the main domain of many addresses in one call",
	Long:  `Addresses without a main domain are shown as "-".`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nav, err := newNavigator()
		if err != nil {
			return err
		}
		u := newUI()
		stop := spin(u, "Reading main domains")
		names, err := nav.GetStarkNames(cmd.Context(), args, NamesMulticall)
		stop()
		if err != nil {
			return err
		}
		res := make([]resolution, len(args))
		for i := range args {
			res[i] = resolution{Query: args[i], Result: names[i]}
		}
		return output(u, res, func() { u.KeyValue(resolutionRows(res)) })
	},
}

var idCmd = &cobra.Command{
	Use:   "id <domain.stark>",
	Short: "Show the starknet id owning a domain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nav, err := newNavigator()
		if err != nil {
			return err
		}
		u := newUI()
		id, err := nav.GetStarknetID(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		res := resolution{Query: args[0], Result: id}
		return output(u, res, func() {
			u.KeyValue([][2]string{{res.Query, common.ReadableNumber(res.Result)}})
		})
	},
}

func init() {
	namesCmd.Flags().StringVar(&NamesMulticall, "multicall", "", "aggregator contract to batch the calls with, the network's by default")

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(nameCmd)
	rootCmd.AddCommand(namesCmd)
	rootCmd.AddCommand(idCmd)
}
