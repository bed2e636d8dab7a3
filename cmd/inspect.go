package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/marquee-cli/marquee/color"
	"github.com/marquee-cli/marquee/icon"
	"github.com/marquee-cli/marquee/player"
	"github.com/marquee-cli/marquee/source"
	"github.com/marquee-cli/marquee/style"
	"github.com/marquee-cli/marquee/thumbnail"
	"github.com/marquee-cli/marquee/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
	addSessionFlags(inspectCmd)
	inspectCmd.Flags().Float64("at", -1, "Show the thumbnail nearest to this position")
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <manifest>",
	Short: "Show how a manifest would be played without starting a player",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(inspect(cmd, args[0]))
	},
}

func inspect(cmd *cobra.Command, path string) error {
	manifest, err := source.LoadManifest(path)
	if err != nil {
		return err
	}

	descriptor, err := manifest.Source.Descriptor()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	heading := style.New().Bold(true).Foreground(color.HiPurple).Render

	flags := readSessionFlags(cmd)
	controller := newPreviewController(player.NewPrinter(out), flags)

	controller.SetMeta(manifest.Meta, source.StatusScraping)
	fmt.Fprintln(out, heading(manifest.Meta.String()))

	media, err := manifest.Meta.ScrapeMedia()
	if err != nil {
		controller.SetStatus(source.StatusScrapeNotFound)
		return err
	}
	scrape, err := json.MarshalIndent(media, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, style.Faint(string(scrape)))
	fmt.Fprintln(out)

	if err := selectCaption(controller, manifest.Captions, flags.caption); err != nil {
		return err
	}
	if err := controller.SetSource(descriptor, manifest.Captions, flags.start); err != nil {
		return err
	}

	state := controller.State()
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s %s %s\n", icon.Get(icon.Quality), heading(string(descriptor.Kind())), describeQualities(state))

	if len(state.CaptionList) > 0 {
		languages := lo.Map(state.CaptionList, func(c source.CaptionListItem, _ int) string {
			if selected, ok := state.Caption.Selected.Get(); ok && selected.ID == c.ID {
				return style.Bold(style.Fg(color.Green)(c.Language))
			}
			return style.Faint(c.Language)
		})
		fmt.Fprintf(out, "%s %s\n", icon.Get(icon.Caption), strings.Join(languages, " "))
	}

	if manifest.Thumbnails == "" {
		return nil
	}

	index, err := thumbnail.Load(manifest.Thumbnails)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s %s\n", icon.Get(icon.Image), util.Quantify(index.Len(), "thumbnail", "thumbnails"))

	if at := lo.Must(cmd.Flags().GetFloat64("at")); at >= 0 {
		if pos, ok := index.Nearest(at).Get(); ok {
			fmt.Fprintf(out, "%s nearest to %s is #%d at %s\n", icon.Get(icon.Mark), util.FormatTimestamp(at), pos.Index, util.FormatTimestamp(pos.Image.At))
		}
	}
	return nil
}
