// Copyright © 2018 Victor Tran
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.


package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/ethereum/go-ethereum/log"
	"github.com/spf13/cobra"

	"github.com/tranvictor/starknetid/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "starknetid",
	Short: "Resolve starknet.id names, identities and profiles",
	Long: `starknetid is a command line tool to read starknet.id from a Starknet node.

It helps you on different ends:

	1. It resolves .stark domains to addresses and addresses back to their
	main domain, following off-chain resolvers when a domain lives on one.

	2. It reads identity data, both user set and verifier attested, by
	starknet id, domain or address.

	3. It reads full profiles, one at a time or in bulk, with their profile
	pictures.

By default, starknetid supports Starknet mainnet and sepolia and reads them
from public nodes. You can add your own node by setting STARKNET_MAINNET_NODE
or STARKNET_SEPOLIA_NODE, or by listing nodes in the config file
(~/.starknetid/config.toml by default, see "starknetid config dump").`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// setup installs the logger and loads the config before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	level := log.LevelWarn
	if config.Verbose {
		level = log.LevelDebug
	}
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, level, isTerminal(os.Stderr))))

	if err := loadConfig(); err != nil {
		return err
	}
	return appConfig.RegisterCustomNetworks()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.PersistentFlags().StringVarP(&config.Network, "network", "k", "", "starknet network, see \"starknetid network list\". Defaults to the config file's, then mainnet.")
	rootCmd.PersistentFlags().StringVar(&config.ConfigFile, "config", "", "path to a TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&config.Verbose, "verbose", "v", false, "log every call made")
	rootCmd.PersistentFlags().BoolVar(&config.JSONOutput, "json", false, "print results as JSON")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
