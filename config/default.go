// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"github.com/marquee-cli/marquee/key"
)

var fields = []Field{
	{key.QualityAutomatic, true, "Let the player pick the quality automatically.\nTurned off once a quality is chosen by hand"},
	{key.QualityRanking, []string{"4k", "1080p", "720p", "480p", "360p", "unknown"}, "Quality labels from best to worst.\nThe first available one is played when quality is manual and nothing was chosen yet"},

	{key.Player, "mpv", "Display engine to use.\nAvailable options are: mpv, iina (macOS only)"},
	{key.PlayerCaptionAsTrack, false, "Load captions as the primary subtitle track instead of a secondary overlay"},
	{key.PlayerResume, true, "Resume from the last saved position when replaying a title"},

	{key.HistorySaveOnPlay, true, "Save playback progress when the player exits"},
	{key.ThumbnailsDir, "", "Directory holding thumbnail indexes.\nDefaults to the cache directory when empty"},

	{key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, nerd (nerd-font required), plain"},

	{key.LogsWrite, false, "Write logs"},
	{key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace"},
	{key.LogsJson, false, "Use json format for logs"},

	{key.CliColored, true, "Enable colored CLI output"},
	{key.CliVersionCheck, true, "Check for a new version when showing help"},
}

// Default maps every key to its field.
var Default = make(map[string]Field, len(fields))

// EnvExposed lists the keys bound to environment variables.
var EnvExposed []string

func init() {
	for _, field := range fields {
		if _, exists := Default[field.Key]; exists {
			panic("duplicate config key: " + field.Key)
		}
		Default[field.Key] = field
		EnvExposed = append(EnvExposed, field.Key)
	}
}
