package player

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/marquee-cli/marquee/source"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Track is an entry of mpv's track-list property.
type Track struct {
	ID       int    `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Lang     string `json:"lang"`
	Selected bool   `json:"selected"`
	External bool   `json:"external"`
	DemuxH   int    `json:"demux-h"`
}

func decodeTracks(data []byte) ([]Track, error) {
	var tracks []Track
	if err := json.Unmarshal(data, &tracks); err != nil {
		return nil, fmt.Errorf("track-list: %w", err)
	}
	return tracks, nil
}

// audioTracks converts the audio entries of a track list and returns the selected one.
func audioTracks(tracks []Track) ([]source.AudioTrack, mo.Option[string]) {
	audio := lo.Filter(tracks, func(t Track, _ int) bool {
		return t.Type == "audio"
	})

	current := mo.None[string]()
	converted := lo.Map(audio, func(t Track, _ int) source.AudioTrack {
		id := strconv.Itoa(t.ID)
		if t.Selected {
			current = mo.Some(id)
		}

		label := t.Title
		if label == "" {
			label = t.Lang
		}
		if label == "" {
			label = "Track " + id
		}

		return source.AudioTrack{ID: id, Label: label, Language: t.Lang}
	})

	return converted, current
}

// videoQualities returns the distinct qualities of the video renditions.
func videoQualities(tracks []Track) []source.Quality {
	qualities := lo.FilterMap(tracks, func(t Track, _ int) (source.Quality, bool) {
		if t.Type != "video" || t.DemuxH <= 0 {
			return "", false
		}
		return source.QualityFromHeight(t.DemuxH), true
	})
	return lo.Uniq(qualities)
}

// videoTrackFor finds the video rendition matching q. The tallest candidate wins.
func videoTrackFor(tracks []Track, q source.Quality) mo.Option[Track] {
	candidates := lo.Filter(tracks, func(t Track, _ int) bool {
		return t.Type == "video" && t.DemuxH > 0 && source.QualityFromHeight(t.DemuxH) == q
	})
	if len(candidates) == 0 {
		return mo.None[Track]()
	}
	return mo.Some(lo.MaxBy(candidates, func(a, b Track) bool {
		return a.DemuxH > b.DemuxH
	}))
}

// selectedVideo returns the active video rendition.
func selectedVideo(tracks []Track) mo.Option[Track] {
	track, ok := lo.Find(tracks, func(t Track) bool {
		return t.Type == "video" && t.Selected
	})
	if !ok {
		return mo.None[Track]()
	}
	return mo.Some(track)
}
