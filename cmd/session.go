package cmd

import (
	"fmt"
	"strings"

	"github.com/marquee-cli/marquee/color"
	"github.com/marquee-cli/marquee/icon"
	"github.com/marquee-cli/marquee/key"
	"github.com/marquee-cli/marquee/playback"
	"github.com/marquee-cli/marquee/quality"
	"github.com/marquee-cli/marquee/source"
	"github.com/marquee-cli/marquee/style"
	"github.com/marquee-cli/marquee/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// sessionFlags are shared by the commands that set a source.
type sessionFlags struct {
	quality string
	auto    bool
	caption string
	start   float64
}

func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("quality", "q", "", "Prefer a specific quality, play remembers the choice")
	lo.Must0(cmd.RegisterFlagCompletionFunc("quality", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return lo.Map(quality.PolicyFromConfig().Ranking, func(q source.Quality, _ int) string {
			return q.String()
		}), cobra.ShellCompDirectiveNoFileComp
	}))
	cmd.Flags().BoolP("auto", "a", false, "Let the player pick the quality, play remembers the choice")
	cmd.MarkFlagsMutuallyExclusive("quality", "auto")
	cmd.Flags().StringP("caption", "c", "", "Caption to show, by id or language")
	cmd.Flags().Float64P("start", "s", 0, "Start position in seconds")
}

func readSessionFlags(cmd *cobra.Command) sessionFlags {
	return sessionFlags{
		quality: lo.Must(cmd.Flags().GetString("quality")),
		auto:    lo.Must(cmd.Flags().GetBool("auto")),
		caption: lo.Must(cmd.Flags().GetString("caption")),
		start:   lo.Must(cmd.Flags().GetFloat64("start")),
	}
}

// newController wires a controller to display with the persisted quality preferences.
// Quality flags are stored before the controller reads them.
func newController(display playback.Display, flags sessionFlags) (*playback.Controller, error) {
	store := quality.NewStore(where.Preferences())

	switch {
	case flags.auto:
		if err := store.SetAutomatic(true); err != nil {
			return nil, err
		}
	case flags.quality != "":
		if err := store.SetLastChosen(source.ParseQuality(flags.quality)); err != nil {
			return nil, err
		}
	}

	return controllerWith(display, store), nil
}

// newPreviewController is newController for commands that must not touch the stored preferences.
func newPreviewController(display playback.Display, flags sessionFlags) *playback.Controller {
	return controllerWith(display, previewPreferences(quality.NewStore(where.Preferences()), flags))
}

// previewPreferences applies the quality flags over the stored preferences in memory.
func previewPreferences(stored quality.PreferenceProvider, flags sessionFlags) quality.Static {
	prefs := stored.Preferences()

	switch {
	case flags.auto:
		prefs.Automatic = true
	case flags.quality != "":
		prefs.Automatic = false
		prefs.LastChosen = mo.Some(source.ParseQuality(flags.quality))
	}

	return quality.Static(prefs)
}

func controllerWith(display playback.Display, prefs quality.PreferenceProvider) *playback.Controller {
	controller := playback.New(display, prefs, playback.WithPolicy(quality.PolicyFromConfig()))
	controller.SetCaptionAsTrack(viper.GetBool(key.PlayerCaptionAsTrack))
	return controller
}

// selectCaption resolves query against the catalog of the manifest and selects it.
func selectCaption(controller *playback.Controller, captions []source.CaptionListItem, query string) error {
	if query == "" {
		return nil
	}

	item, ok := source.FindCaption(captions, query).Get()
	if !ok {
		return fmt.Errorf("no caption matches %q", query)
	}
	return controller.SetCaption(mo.Some(item.Caption()))
}

func describeQualities(state playback.State) string {
	current := state.CurrentQuality.OrEmpty()
	labels := lo.Map(state.Qualities, func(q source.Quality, _ int) string {
		if q == current {
			return style.Bold(style.Fg(color.Green)(q.String()))
		}
		return style.Faint(q.String())
	})
	if len(labels) == 0 {
		return style.Faint("adaptive")
	}
	return strings.Join(labels, " ")
}

func printStatus(prev, next playback.State) {
	if prev.Status == next.Status {
		return
	}

	ic := icon.Get(icon.Progress)
	switch next.Status {
	case source.StatusPlaying:
		ic = icon.Get(icon.Playing)
	case source.StatusPlaybackError, source.StatusScrapeNotFound:
		ic = icon.Get(icon.Fail)
	}
	fmt.Printf("%s %s\n", ic, style.Fg(color.Purple)(next.Status.String()))
}
