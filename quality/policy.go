// Package quality implements the quality-selection policy and the stored quality preferences.
package quality

import (
	"errors"
	"sort"

	"github.com/marquee-cli/marquee/key"
	"github.com/marquee-cli/marquee/source"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// ErrNoPlayableQuality is returned when a file source has no stream with a URL.
var ErrNoPlayableQuality = errors.New("couldn't select quality")

// DefaultRanking orders the canonical labels from best to worst.
var DefaultRanking = []source.Quality{
	source.Quality4K,
	source.Quality1080p,
	source.Quality720p,
	source.Quality480p,
	source.Quality360p,
	source.QualityUnknown,
}

// Selection is the outcome of the policy: what to load and which label it is.
// Quality is absent for adaptive sources, whose quality the display engine owns.
type Selection struct {
	Stream  source.Stream
	Quality mo.Option[source.Quality]
}

// Policy picks a concrete stream out of a source descriptor.
type Policy struct {
	// Ranking lists labels from best to worst. Labels missing from it rank below every listed one.
	Ranking []source.Quality
}

// DefaultPolicy ranks the canonical labels.
func DefaultPolicy() Policy {
	return Policy{Ranking: DefaultRanking}
}

// PolicyFromConfig reads the ranking from the quality.ranking setting.
func PolicyFromConfig() Policy {
	labels := viper.GetStringSlice(key.QualityRanking)
	if len(labels) == 0 {
		return DefaultPolicy()
	}
	return Policy{Ranking: ParseRanking(labels)}
}

// ParseRanking normalizes user supplied labels into a ranking without duplicates.
func ParseRanking(labels []string) []source.Quality {
	return lo.Uniq(lo.Map(labels, func(label string, _ int) source.Quality {
		return source.ParseQuality(label)
	}))
}

func (p Policy) rank(q source.Quality) int {
	if i := lo.IndexOf(p.Ranking, q); i >= 0 {
		return i
	}
	return len(p.Ranking)
}

// Sort returns qualities best first. The order is total: ties on rank fall back to the label.
func (p Policy) Sort(qualities []source.Quality) []source.Quality {
	sorted := append([]source.Quality(nil), qualities...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := p.rank(sorted[i]), p.rank(sorted[j])
		if ri != rj {
			return ri < rj
		}
		return sorted[i] < sorted[j]
	})
	return sorted
}

// Select resolves the stream to load.
//
// Adaptive sources are returned as is. For file sources the best available quality is
// used when automatic, when nothing was chosen, or when "unknown" was chosen. Otherwise
// the chosen quality is used, falling back to the nearest lower and then the nearest
// higher available quality.
func (p Policy) Select(d source.Descriptor, prefs Preferences) (Selection, error) {
	return source.Match(d,
		func(file source.FileSource) mo.Result[Selection] {
			q, ok := p.preferred(file.Available(), prefs)
			if !ok {
				return mo.Err[Selection](ErrNoPlayableQuality)
			}
			stream, _ := file.Stream(q)
			return mo.Ok(Selection{Stream: stream, Quality: mo.Some(q)})
		},
		func(hls source.HLSSource) mo.Result[Selection] {
			return mo.Ok(Selection{Stream: hls.Stream(), Quality: mo.None[source.Quality]()})
		},
	).Get()
}

func (p Policy) preferred(available []source.Quality, prefs Preferences) (source.Quality, bool) {
	if len(available) == 0 {
		return "", false
	}
	sorted := p.Sort(available)

	chosen, manual := prefs.LastChosen.Get()
	if prefs.Automatic || !manual || chosen == source.QualityUnknown {
		return sorted[0], true
	}

	if lo.Contains(sorted, chosen) {
		return chosen, true
	}

	idx := lo.IndexOf(p.Ranking, chosen)
	if idx < 0 {
		return sorted[0], true
	}

	for _, q := range p.Ranking[idx:] {
		if lo.Contains(sorted, q) {
			return q, true
		}
	}
	for i := idx; i >= 0; i-- {
		if lo.Contains(sorted, p.Ranking[i]) {
			return p.Ranking[i], true
		}
	}
	return sorted[0], true
}

// Select applies the default policy.
func Select(d source.Descriptor, prefs Preferences) (Selection, error) {
	return DefaultPolicy().Select(d, prefs)
}
