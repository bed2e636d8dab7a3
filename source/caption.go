package source

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Caption is a fully materialized subtitle payload.
type Caption struct {
	ID       string `json:"id"`
	Language string `json:"language"`
	URL      string `json:"url,omitempty"`
	SRTData  string `json:"srtData,omitempty"`
}

// CaptionListItem is a catalog entry for an available caption whose content has not been fetched.
type CaptionListItem struct {
	ID            string `json:"id"`
	Language      string `json:"language"`
	URL           string `json:"url"`
	NeedsProxy    bool   `json:"needsProxy"`
	HLS           bool   `json:"hls,omitempty"`
	OpenSubtitles bool   `json:"opensubtitles,omitempty"`
}

// Caption turns a catalog entry into a caption pointing at the entry's URL.
func (c CaptionListItem) Caption() Caption {
	return Caption{ID: c.ID, Language: c.Language, URL: c.URL}
}

// ContainsCaption reports whether list has an entry with the given id.
func ContainsCaption(list []CaptionListItem, id string) bool {
	return lo.ContainsBy(list, func(item CaptionListItem) bool {
		return item.ID == id
	})
}

// FindCaption resolves a user query (an id or a language such as "en" or "english")
// to the best catalog entry. Exact id and language matches win over fuzzy ones.
func FindCaption(list []CaptionListItem, query string) mo.Option[CaptionListItem] {
	query = strings.TrimSpace(query)
	if query == "" || len(list) == 0 {
		return mo.None[CaptionListItem]()
	}

	if item, ok := lo.Find(list, func(item CaptionListItem) bool {
		return item.ID == query || strings.EqualFold(item.Language, query)
	}); ok {
		return mo.Some(item)
	}

	languages := lo.Map(list, func(item CaptionListItem, _ int) string {
		return item.Language
	})
	ranks := fuzzy.RankFindFold(query, languages)
	if len(ranks) == 0 {
		return mo.None[CaptionListItem]()
	}
	sort.Sort(ranks)
	return mo.Some(list[ranks[0].OriginalIndex])
}
