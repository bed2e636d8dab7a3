package source

import "fmt"

// MediaType distinguishes movies from shows.
type MediaType string

const (
	MediaMovie MediaType = "movie"
	MediaShow  MediaType = "show"
)

// MetaEpisode identifies one episode of a show.
type MetaEpisode struct {
	Number int    `json:"number"`
	TMDBID string `json:"tmdbId"`
	Title  string `json:"title"`
}

// MetaSeason identifies the season an episode belongs to.
type MetaSeason struct {
	Number int    `json:"number"`
	TMDBID string `json:"tmdbId"`
	Title  string `json:"title"`
}

// Meta identifies what is playing, independently of how it is streamed.
type Meta struct {
	Type        MediaType     `json:"type" jsonschema:"enum=movie,enum=show"`
	Title       string        `json:"title"`
	TMDBID      string        `json:"tmdbId"`
	IMDBID      string        `json:"imdbId,omitempty"`
	ReleaseYear int           `json:"releaseYear"`
	Poster      string        `json:"poster,omitempty"`
	Episodes    []MetaEpisode `json:"episodes,omitempty"`
	Episode     *MetaEpisode  `json:"episode,omitempty"`
	Season      *MetaSeason   `json:"season,omitempty"`
}

// String renders the title the way it is shown in the player window.
func (m *Meta) String() string {
	if m.Type == MediaShow && m.Episode != nil && m.Season != nil {
		return fmt.Sprintf("%s S%02dE%02d", m.Title, m.Season.Number, m.Episode.Number)
	}
	if m.ReleaseYear > 0 {
		return fmt.Sprintf("%s (%d)", m.Title, m.ReleaseYear)
	}
	return m.Title
}

// ScrapeMedia is the form of Meta handed to scrapers when resolving sources.
type ScrapeMedia struct {
	Type        MediaType    `json:"type"`
	Title       string       `json:"title"`
	ReleaseYear int          `json:"releaseYear"`
	TMDBID      string       `json:"tmdbId"`
	IMDBID      string       `json:"imdbId,omitempty"`
	Episode     *MetaEpisode `json:"episode,omitempty"`
	Season      *MetaSeason  `json:"season,omitempty"`
}

// ScrapeMedia converts the metadata into a scrape request.
// Show metadata without both episode and season fails with ErrMissingShowData.
func (m *Meta) ScrapeMedia() (ScrapeMedia, error) {
	media := ScrapeMedia{
		Type:        MediaMovie,
		Title:       m.Title,
		ReleaseYear: m.ReleaseYear,
		TMDBID:      m.TMDBID,
		IMDBID:      m.IMDBID,
	}

	if m.Type != MediaShow {
		return media, nil
	}

	if m.Episode == nil || m.Season == nil {
		return ScrapeMedia{}, fmt.Errorf("%s: %w", m.Title, ErrMissingShowData)
	}

	episode, season := *m.Episode, *m.Season
	media.Type = MediaShow
	media.Episode = &episode
	media.Season = &season
	return media, nil
}
