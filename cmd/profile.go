package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tranvictor/starknetid/navigator"
	"github.com/tranvictor/starknetid/profile"
	"github.com/tranvictor/starknetid/ui"
)

var ProfileOpts navigator.ProfileOptions

type addressProfile struct {
	Address string `json:"address"`
	*profile.StarkProfile
}

func profileRows(u ui.UI, p *profile.StarkProfile) [][]string {
	pop := ui.StyledText{Text: "no", Severity: ui.SeverityWarn}
	if p.ProofOfPersonhood {
		pop = ui.StyledText{Text: "yes", Severity: ui.SeveritySuccess}
	}
	return [][]string{
		{"Name", u.Style(ui.Found(p.Name))},
		{"Picture", u.Style(ui.Found(p.ProfilePicture))},
		{"Twitter", u.Style(ui.Found(p.Twitter))},
		{"Github", u.Style(ui.Found(p.Github))},
		{"Discord", u.Style(ui.Found(p.Discord))},
		{"Proof of personhood", u.Style(pop)},
	}
}

func printProfiles(u ui.UI, profiles []addressProfile) {
	groups := [][][]string{}
	for _, p := range profiles {
		rows := append([][]string{{"Address", p.Address}}, profileRows(u, p.StarkProfile)...)
		groups = append(groups, rows)
	}
	u.TableWithGroups(nil, groups)
}

var profileCmd = &cobra.Command{
	Use:   "profile <address>",
	Short: "Show the profile of an address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nav, err := newNavigator()
		if err != nil {
			return err
		}
		u := newUI()
		stop := spin(u, "Reading profile")
		p, err := nav.GetProfileData(cmd.Context(), args[0], ProfileOpts)
		stop()
		if err != nil {
			return err
		}
		res := addressProfile{Address: args[0], StarkProfile: p}
		return output(u, res, func() { printProfiles(u, []addressProfile{res}) })
	},
}

var profilesCmd = &cobra.Command{
	Use:   "profiles <address>...",
	Short: "Show the profiles of many addresses in one call",
	Long: `Needs the utils multicall contract of the network. Set it under
[Networks.<name>.Contracts] UtilsMulticall in the config file when the network
has none built in.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nav, err := newNavigator()
		if err != nil {
			return err
		}
		u := newUI()
		stop := spin(u, "Reading profiles")
		ps, err := nav.GetStarkProfiles(cmd.Context(), args, ProfileOpts.UseDefaultPfp, ProfileOpts.PfpVerifier)
		stop()
		if err != nil {
			return err
		}
		res := make([]addressProfile, len(ps))
		for i, p := range ps {
			res[i] = addressProfile{Address: args[i], StarkProfile: p}
		}
		return output(u, res, func() { printProfiles(u, res) })
	},
}

func init() {
	profileCmd.Flags().BoolVar(&ProfileOpts.UseDefaultPfp, "default-pfp", false, "use the identicon when no picture is set")
	profileCmd.Flags().StringVar(&ProfileOpts.Verifier, "verifier", "", "social verifier contract")
	profileCmd.Flags().StringVar(&ProfileOpts.PfpVerifier, "pfp-verifier", "", "profile picture verifier contract")
	profileCmd.Flags().StringVar(&ProfileOpts.PopVerifier, "pop-verifier", "", "proof of personhood verifier contract")

	profilesCmd.Flags().BoolVar(&ProfileOpts.UseDefaultPfp, "default-pfp", false, "use the identicon when no picture is set")
	profilesCmd.Flags().StringVar(&ProfileOpts.PfpVerifier, "pfp-verifier", "", "profile picture verifier contract")

	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(profilesCmd)
}
