package cmd

import (
	"os"

	"github.com/marquee-cli/marquee/color"
	"github.com/marquee-cli/marquee/icon"
	"github.com/marquee-cli/marquee/quality"
	"github.com/marquee-cli/marquee/source"
	"github.com/marquee-cli/marquee/style"
	"github.com/marquee-cli/marquee/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(qualityCmd)
	qualityCmd.Flags().BoolP("auto", "a", false, "Let the player pick the quality")
	qualityCmd.Flags().StringP("manual", "m", "", "Always start with this quality")
	qualityCmd.MarkFlagsMutuallyExclusive("auto", "manual")
	qualityCmd.SetOut(os.Stdout)
}

var qualityCmd = &cobra.Command{
	Use:   "quality",
	Short: "Show or change the stored quality preference",
	Run: func(cmd *cobra.Command, args []string) {
		store := quality.NewStore(where.Preferences())

		switch {
		case lo.Must(cmd.Flags().GetBool("auto")):
			handleErr(store.SetAutomatic(true))
		case cmd.Flags().Changed("manual"):
			handleErr(store.SetLastChosen(source.ParseQuality(lo.Must(cmd.Flags().GetString("manual")))))
		}

		prefs := store.Preferences()
		mode := "manual"
		if prefs.Automatic {
			mode = "automatic"
		}

		cmd.Printf("%s %s\n", icon.Get(icon.Quality), style.Fg(color.Purple)(mode))
		if last, ok := prefs.LastChosen.Get(); ok {
			cmd.Printf("%s last chosen %s\n", icon.Get(icon.Mark), style.Fg(color.Yellow)(last.String()))
		}
		cmd.Printf("%s ranking %v\n", icon.Get(icon.Mark), quality.PolicyFromConfig().Ranking)
	},
}
