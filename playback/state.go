// Package playback implements the playback source controller: status, source, quality,
// caption and audio track state, and the protocol for switching between them.
package playback

import (
	"github.com/marquee-cli/marquee/source"
	"github.com/samber/mo"
)

// CaptionState holds the selected caption.
type CaptionState struct {
	Selected mo.Option[source.Caption]
	// AsTrack loads captions as a selectable track instead of rendering them immediately.
	AsTrack bool
}

// InterfaceState holds the flags the playback surface reads.
type InterfaceState struct {
	HideNextEpisodeButton bool
	// Error is the last playback failure, nil once a load is dispatched again.
	Error error
}

// Progress is the playback position reported by the engine, in seconds.
type Progress struct {
	Time     float64
	Duration float64
}

// State is a snapshot of everything the controller owns.
// Snapshots are copies: mutating one never affects the controller.
// Source descriptors are shared and must be treated as immutable.
type State struct {
	Status   source.Status
	Meta     mo.Option[source.Meta]
	Source   source.Descriptor
	SourceID mo.Option[string]
	Epoch    uint64

	Qualities      []source.Quality
	CurrentQuality mo.Option[source.Quality]

	AudioTracks       []source.AudioTrack
	CurrentAudioTrack mo.Option[source.AudioTrack]

	CaptionList []source.CaptionListItem
	Caption     CaptionState

	Interface InterfaceState
	Progress  Progress
}

// HasSource reports whether a source descriptor is set.
func (s State) HasSource() bool {
	return s.Source != nil
}

// startLoad begins a new load attempt at startAt. Reports about earlier attempts
// no longer match the epoch.
func (s *State) startLoad(startAt float64) {
	s.Epoch++
	s.Status = source.StatusPlaying
	s.Interface.Error = nil
	s.Progress.Time = startAt
}

func (s State) clone() State {
	c := s
	c.Qualities = cloneSlice(s.Qualities)
	c.AudioTracks = cloneSlice(s.AudioTracks)
	c.CaptionList = cloneSlice(s.CaptionList)
	if meta, ok := s.Meta.Get(); ok {
		c.Meta = mo.Some(cloneMeta(meta))
	}
	return c
}

func cloneMeta(meta source.Meta) source.Meta {
	meta.Episodes = cloneSlice(meta.Episodes)
	if meta.Episode != nil {
		episode := *meta.Episode
		meta.Episode = &episode
	}
	if meta.Season != nil {
		season := *meta.Season
		meta.Season = &season
	}
	return meta
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	return append(make([]T, 0, len(in)), in...)
}

func initialState() State {
	return State{
		Status:      source.StatusIdle,
		Qualities:   []source.Quality{},
		AudioTracks: []source.AudioTrack{},
		CaptionList: []source.CaptionListItem{},
	}
}

func qualitiesOf(d source.Descriptor, sort func([]source.Quality) []source.Quality) []source.Quality {
	return source.Match(d,
		func(f source.FileSource) []source.Quality { return sort(f.Available()) },
		func(source.HLSSource) []source.Quality { return []source.Quality{} },
	)
}
