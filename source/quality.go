package source

import (
	"fmt"
	"strconv"
	"strings"
)

// Quality is a discrete resolution label such as "1080p".
type Quality string

// Canonical quality labels.
const (
	Quality4K      Quality = "4k"
	Quality1080p   Quality = "1080p"
	Quality720p    Quality = "720p"
	Quality480p    Quality = "480p"
	Quality360p    Quality = "360p"
	QualityUnknown Quality = "unknown"
)

var qualityAliases = map[string]Quality{
	"4k":    Quality4K,
	"2160":  Quality4K,
	"2160p": Quality4K,
	"uhd":   Quality4K,
	"1080":  Quality1080p,
	"1080p": Quality1080p,
	"fhd":   Quality1080p,
	"720":   Quality720p,
	"720p":  Quality720p,
	"hd":    Quality720p,
	"480":   Quality480p,
	"480p":  Quality480p,
	"sd":    Quality480p,
	"360":   Quality360p,
	"360p":  Quality360p,
}

// ParseQuality normalizes a user or provider supplied label.
// Unrecognized labels are kept verbatim, lower-cased, so custom ladders still work.
func ParseQuality(label string) Quality {
	normalized := strings.ToLower(strings.TrimSpace(label))
	if normalized == "" {
		return QualityUnknown
	}
	if q, ok := qualityAliases[normalized]; ok {
		return q
	}
	return Quality(normalized)
}

// QualityFromHeight maps a reported video height to the closest canonical label.
func QualityFromHeight(height int) Quality {
	switch {
	case height <= 0:
		return QualityUnknown
	case height >= 2160:
		return Quality4K
	case height >= 1080:
		return Quality1080p
	case height >= 720:
		return Quality720p
	case height >= 480:
		return Quality480p
	default:
		return Quality360p
	}
}

// Height returns the nominal video height of a canonical label, or 0.
func (q Quality) Height() int {
	switch q {
	case Quality4K:
		return 2160
	case Quality1080p, Quality720p, Quality480p, Quality360p:
		h, err := strconv.Atoi(strings.TrimSuffix(string(q), "p"))
		if err != nil {
			panic(fmt.Sprintf("source: malformed canonical quality %q", q))
		}
		return h
	default:
		return 0
	}
}

func (q Quality) String() string {
	return string(q)
}
