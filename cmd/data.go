package cmd

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"github.com/tranvictor/starknetid/common"
	"github.com/tranvictor/starknetid/navigator"
)

var (
	DataVerifier  string
	DataLength    uint64
	DataUnbounded bool
)

type fieldData struct {
	Identifier string   `json:"identifier"`
	Field      string   `json:"field"`
	Verifier   string   `json:"verifier,omitempty"`
	Values     []string `json:"values"`
}

// readField picks the identity entrypoint matching the flags: verifier or
// user data, then single, extended or unbounded.
func readField(cmd *cobra.Command, nav *navigator.Navigator, ident navigator.Identifier, field string) ([]*uint256.Int, error) {
	ctx := cmd.Context()
	if DataLength > 0 && DataUnbounded {
		return nil, fmt.Errorf("--length and --unbounded can't be used together")
	}
	verifier := cmd.Flags().Changed("verifier")
	switch {
	case verifier && DataUnbounded:
		return nav.GetUnboundedVerifierData(ctx, ident, field, DataVerifier)
	case verifier && DataLength > 0:
		return nav.GetExtendedVerifierData(ctx, ident, field, DataLength, DataVerifier)
	case verifier:
		v, err := nav.GetVerifierData(ctx, ident, field, DataVerifier)
		return []*uint256.Int{v}, err
	case DataUnbounded:
		return nav.GetUnboundedUserData(ctx, ident, field)
	case DataLength > 0:
		return nav.GetExtendedUserData(ctx, ident, field, DataLength)
	}
	v, err := nav.GetUserData(ctx, ident, field)
	return []*uint256.Int{v}, err
}

var dataCmd = &cobra.Command{
	Use:   "data <id|domain.stark|address> <field>",
	Short: "Show a data field of an identity",
	Long: `Reads user data by default. With --verifier, reads the data that verifier
attested instead; pass --verifier "" to use the network's default verifier.

Examples:
	starknetid data ben.stark github --verifier ""
	starknetid data 1234 nft_pp_id --verifier 0x070aaa... --length 2`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ident, err := navigator.ParseIdentifier(args[0])
		if err != nil {
			return err
		}
		nav, err := newNavigator()
		if err != nil {
			return err
		}
		u := newUI()
		values, err := readField(cmd, nav, ident, args[1])
		if err != nil {
			return err
		}
		res := fieldData{
			Identifier: args[0],
			Field:      args[1],
			Verifier:   DataVerifier,
			Values:     common.FeltsToHex(values),
		}
		return output(u, res, func() {
			rows := [][2]string{}
			for i, v := range values {
				rows = append(rows, [2]string{fmt.Sprintf("%s[%d]", res.Field, i), common.FeltText(v)})
			}
			if len(rows) == 0 {
				u.Warn("%s has no %s", res.Identifier, res.Field)
				return
			}
			u.KeyValue(rows)
		})
	},
}

type pfpData struct {
	Identifier string `json:"identifier"`
	Contract   string `json:"contract"`
	TokenID    string `json:"tokenId"`
}

var pfpCmd = &cobra.Command{
	Use:   "pfp <id|domain.stark|address>",
	Short: "Show the profile picture NFT of an identity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ident, err := navigator.ParseIdentifier(args[0])
		if err != nil {
			return err
		}
		nav, err := newNavigator()
		if err != nil {
			return err
		}
		u := newUI()
		pfp, err := nav.GetPfpVerifierData(cmd.Context(), ident, DataVerifier)
		if err != nil {
			return err
		}
		res := pfpData{
			Identifier: args[0],
			Contract:   pfp.Contract.Hex(),
			TokenID:    pfp.TokenID.String(),
		}
		return output(u, res, func() {
			if pfp.Contract.IsZero() {
				u.Warn("%s has no profile picture", res.Identifier)
				return
			}
			u.KeyValue([][2]string{
				{"Contract", res.Contract},
				{"Token ID", res.TokenID},
			})
		})
	},
}

func init() {
	dataCmd.Flags().StringVar(&DataVerifier, "verifier", "", "read the data attested by this verifier contract")
	dataCmd.Flags().Uint64Var(&DataLength, "length", 0, "read this many felts")
	dataCmd.Flags().BoolVar(&DataUnbounded, "unbounded", false, "read a length prefixed array of any size")

	pfpCmd.Flags().StringVar(&DataVerifier, "verifier", "", "pfp verifier contract, the network's by default")

	rootCmd.AddCommand(dataCmd)
	rootCmd.AddCommand(pfpCmd)
}
