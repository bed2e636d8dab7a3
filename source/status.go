// Package source defines the playback domain model: statuses, source descriptors, captions, audio tracks and title metadata.
package source

// Status is the playback status driving which actions make sense for the surface and the display engine.
type Status string

const (
	StatusIdle           Status = "idle"
	StatusScraping       Status = "scraping"
	StatusPlaying        Status = "playing"
	StatusScrapeNotFound Status = "scrapeNotFound"
	StatusPlaybackError  Status = "playbackError"
)

// Statuses returns every known status in declaration order.
func Statuses() []Status {
	return []Status{StatusIdle, StatusScraping, StatusPlaying, StatusScrapeNotFound, StatusPlaybackError}
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusIdle, StatusScraping, StatusPlaying, StatusScrapeNotFound, StatusPlaybackError:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}
