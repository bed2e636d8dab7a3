package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marquee-cli/marquee/history"
	"github.com/marquee-cli/marquee/icon"
	"github.com/marquee-cli/marquee/key"
	"github.com/marquee-cli/marquee/log"
	"github.com/marquee-cli/marquee/playback"
	"github.com/marquee-cli/marquee/player"
	"github.com/marquee-cli/marquee/source"
	"github.com/marquee-cli/marquee/style"
	"github.com/marquee-cli/marquee/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(playCmd)
	addSessionFlags(playCmd)
	playCmd.Flags().BoolP("resume", "r", false, "Resume from the watch history")
	lo.Must0(viper.BindPFlag(key.PlayerResume, playCmd.Flags().Lookup("resume")))
}

var playCmd = &cobra.Command{
	Use:   "play <manifest>",
	Short: "Play the source described by a manifest",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(play(cmd, args[0]))
	},
}

func play(cmd *cobra.Command, path string) error {
	manifest, err := source.LoadManifest(path)
	if err != nil {
		return err
	}

	descriptor, err := manifest.Source.Descriptor()
	if err != nil {
		return err
	}

	name := viper.GetString(key.Player)
	CheckDependencies(name)

	engine, err := player.New(name)
	if err != nil {
		return err
	}
	defer engine.Close()

	flags := readSessionFlags(cmd)
	controller, err := newController(engine, flags)
	if err != nil {
		return err
	}

	engine.OnEvent(player.NewBridge(controller).Handle)
	unsubscribe := controller.Subscribe(printStatus)
	defer unsubscribe()

	controller.SetMeta(manifest.Meta, source.StatusScraping)
	if _, err := manifest.Meta.ScrapeMedia(); err != nil {
		controller.SetStatus(source.StatusScrapeNotFound)
		return err
	}
	controller.SetSourceID(util.FileStem(path))

	start := flags.start
	if !cmd.Flags().Changed("start") && viper.GetBool(key.PlayerResume) {
		at, err := history.Resume(manifest.Meta)
		if err != nil {
			log.Warnf("resume: %v", err)
		}
		start = at.OrElse(0)
	}

	if err := selectCaption(controller, manifest.Captions, flags.caption); err != nil {
		return err
	}

	if err := controller.SetSource(descriptor, manifest.Captions, start); err != nil {
		return err
	}

	state := controller.State()
	fmt.Printf("%s %s %s\n", icon.Get(icon.Playing), style.Bold(manifest.Meta.String()), describeQualities(state))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	final := wait(ctx, engine, controller)

	if viper.GetBool(key.HistorySaveOnPlay) && final.Progress.Time > 0 {
		if err := history.Save(manifest.Meta, final.Progress.Time, final.Progress.Duration); err != nil {
			log.Warnf("save history: %v", err)
		}
	}

	if final.Status == source.StatusPlaybackError {
		return final.Interface.Error
	}

	fmt.Printf(
		"%s stopped at %s / %s\n",
		icon.Get(icon.Success),
		util.FormatTimestamp(final.Progress.Time),
		util.FormatTimestamp(final.Progress.Duration),
	)
	return nil
}

// wait shows the playback position until the player exits, fails or ctx is done.
func wait(ctx context.Context, engine player.Engine, controller *playback.Controller) playback.State {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	erase := func() {}
	defer func() { erase() }()

	for {
		select {
		case <-ctx.Done():
			return controller.State()
		case <-engine.Wait():
			return controller.State()
		case <-ticker.C:
			state := controller.State()
			if state.Status == source.StatusPlaybackError {
				return state
			}

			erase()
			line := fmt.Sprintf(
				"%s %s / %s %s",
				icon.Get(icon.Progress),
				util.FormatTimestamp(state.Progress.Time),
				util.FormatTimestamp(state.Progress.Duration),
				state.CurrentQuality.OrEmpty(),
			)
			erase = util.PrintErasable(util.Truncate(line, util.TerminalWidth(80)))
		}
	}
}
