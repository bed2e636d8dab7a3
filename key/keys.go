// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// DefinedFieldsCount represents the total cardinality of the application configuration schema.
const DefinedFieldsCount = 13

// Quality Selection - these keys seed the stored quality preferences and the ranking used to pick a default.
const (
	QualityAutomatic = "quality.automatic"
	QualityRanking   = "quality.ranking"
)

// Media Playback - these keys configure the external display engine and how sources are handed to it.
const (
	Player               = "player.default"
	PlayerCaptionAsTrack = "player.caption_as_track"
	PlayerResume         = "player.resume"
)

// History Tracking - these keys configure the persistence of playback progress.
const (
	HistorySaveOnPlay = "history.save_on_play"
)

// Thumbnails - these keys configure where preview indexes are persisted.
const (
	ThumbnailsDir = "thumbnails.dir"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the command-line behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
