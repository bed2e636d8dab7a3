package cmd

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/marquee-cli/marquee/color"
	"github.com/marquee-cli/marquee/icon"
	"github.com/marquee-cli/marquee/style"
	"github.com/marquee-cli/marquee/thumbnail"
	"github.com/marquee-cli/marquee/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(thumbsCmd)
	thumbsCmd.SetOut(os.Stdout)
}

var thumbsCmd = &cobra.Command{
	Use:   "thumbs",
	Short: "Query and edit thumbnail indexes",
}

func init() {
	thumbsCmd.AddCommand(thumbsNearestCmd)
	thumbsNearestCmd.Flags().Float64("at", 0, "Position in seconds")
	lo.Must0(thumbsNearestCmd.MarkFlagRequired("at"))
	thumbsNearestCmd.Flags().Bool("data", false, "Print the image data instead of a summary")
}

var thumbsNearestCmd = &cobra.Command{
	Use:   "nearest <index>",
	Short: "Show the thumbnail nearest to a position",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		index, err := thumbnail.Load(args[0])
		handleErr(err)

		at := lo.Must(cmd.Flags().GetFloat64("at"))
		pos, ok := index.Nearest(at).Get()
		if !ok {
			handleErr(fmt.Errorf("%s has no thumbnails", args[0]))
		}

		if lo.Must(cmd.Flags().GetBool("data")) {
			cmd.Println(pos.Image.Data)
			return
		}

		cmd.Printf(
			"%s #%d at %s\n",
			icon.Get(icon.Image),
			pos.Index,
			style.Fg(color.Yellow)(util.FormatTimestamp(pos.Image.At)),
		)
	},
}

func init() {
	thumbsCmd.AddCommand(thumbsAddCmd)
	thumbsAddCmd.Flags().Float64("at", 0, "Position in seconds")
	thumbsAddCmd.Flags().String("data", "", "Image data, usually a data URL")
	lo.Must0(thumbsAddCmd.MarkFlagRequired("at"))
	lo.Must0(thumbsAddCmd.MarkFlagRequired("data"))
}

var thumbsAddCmd = &cobra.Command{
	Use:   "add <index>",
	Short: "Add a thumbnail, replacing the one at the same position",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		at := lo.Must(cmd.Flags().GetFloat64("at"))
		if math.IsNaN(at) {
			handleErr(errors.New("--at must be a number of seconds"))
		}

		index, err := thumbnail.Load(args[0])
		handleErr(err)

		index.AddImage(thumbnail.Image{
			At:   at,
			Data: lo.Must(cmd.Flags().GetString("data")),
		})
		handleErr(index.Save(args[0]))

		cmd.Printf("%s %s\n", icon.Get(icon.Success), util.Quantify(index.Len(), "thumbnail", "thumbnails"))
	},
}

func init() {
	thumbsCmd.AddCommand(thumbsListCmd)
}

var thumbsListCmd = &cobra.Command{
	Use:   "list <index>",
	Short: "List thumbnail positions",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		index, err := thumbnail.Load(args[0])
		handleErr(err)

		for i, img := range index.Images() {
			cmd.Printf("%s %d %s\n", icon.Get(icon.Mark), i, util.FormatTimestamp(img.At))
		}
	},
}
