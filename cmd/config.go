package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tranvictor/starknetid/config"
)

var dumpConfigCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the effective configuration as TOML",
	Long: `The output is a valid config file. Save it to ~/.starknetid/config.toml or
pass it with --config, then edit what you need.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig
		n, err := currentNetwork()
		if err != nil {
			return err
		}
		cfg.Network = n.GetName()
		return config.Dump(os.Stdout, &cfg)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the starknetid configuration",
}

func init() {
	configCmd.AddCommand(dumpConfigCmd)
	rootCmd.AddCommand(configCmd)
}
