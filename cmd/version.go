package cmd

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/marquee-cli/marquee/color"
	"github.com/marquee-cli/marquee/constant"
	"github.com/marquee-cli/marquee/style"
	"github.com/marquee-cli/marquee/version"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Only print the version number")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		defer version.Notify()

		rows := []lo.Tuple2[string, string]{
			{A: "Version", B: constant.Version},
			{A: "Git Commit", B: constant.Revision},
			{A: "Build Date", B: strings.TrimSpace(constant.BuiltAt)},
			{A: "Built By", B: constant.BuiltBy},
			{A: "Platform", B: fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)},
		}

		label := style.New().Faint(true).Width(16).Render
		lines := lo.Map(rows, func(row lo.Tuple2[string, string], _ int) string {
			return "  " + lipgloss.JoinHorizontal(lipgloss.Top, label(row.A), style.Bold(row.B))
		})

		cmd.Printf("%s %s\n\n%s\n", style.Fg(color.Purple)("▇▇▇"), style.Fg(color.Purple)(constant.Marquee), strings.Join(lines, "\n"))
	},
}
