package history

import (
	"fmt"
	"time"

	"github.com/marquee-cli/marquee/source"
)

// Entry is the saved progress of a movie or of one episode.
type Entry struct {
	TMDBID            string           `json:"tmdb_id"`
	Title             string           `json:"title"`
	Type              source.MediaType `json:"type"`
	Season            int              `json:"season,omitempty"`
	Episode           int              `json:"episode,omitempty"`
	Time              float64          `json:"time"`
	Duration          float64          `json:"duration"`
	WatchedPercentage float64          `json:"watched_percentage"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

func (e *Entry) key() string {
	id := e.TMDBID
	if id == "" {
		id = e.Title
	}
	if e.Type == source.MediaShow {
		return fmt.Sprintf("%s s%02de%02d", id, e.Season, e.Episode)
	}
	return id
}

func (e *Entry) String() string {
	if e.Type == source.MediaShow {
		return fmt.Sprintf("%s S%02dE%02d : %.0f%%", e.Title, e.Season, e.Episode, e.WatchedPercentage)
	}
	return fmt.Sprintf("%s : %.0f%%", e.Title, e.WatchedPercentage)
}

func newEntry(meta source.Meta) *Entry {
	entry := &Entry{
		TMDBID: meta.TMDBID,
		Title:  meta.Title,
		Type:   meta.Type,
	}
	if meta.Season != nil {
		entry.Season = meta.Season.Number
	}
	if meta.Episode != nil {
		entry.Episode = meta.Episode.Number
	}
	return entry
}
