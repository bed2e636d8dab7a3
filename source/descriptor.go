package source

import (
	"fmt"

	"github.com/samber/lo"
)

// Kind discriminates the two source descriptor variants.
type Kind string

const (
	KindFile Kind = "file"
	KindHLS  Kind = "hls"
)

// Descriptor is a resolved, playable description of a title's media.
// It is sealed: the only implementations are FileSource and HLSSource.
// Consume it through Match so every site handles both variants.
type Descriptor interface {
	Kind() Kind
	descriptor()
}

// FileStream is one rung of a file source's quality ladder.
type FileStream struct {
	// Container format, e.g. "mp4".
	Container string `json:"type"`
	URL       string `json:"url"`
}

// FileSource maps quality labels to progressive files. Quality is chosen by the client.
type FileSource struct {
	Qualities map[Quality]FileStream
	// HTTP headers required to stream.
	Headers map[string]string
}

// HLSSource is a single adaptive stream whose quality the display engine negotiates.
type HLSSource struct {
	URL     string
	Headers map[string]string
}

func (FileSource) Kind() Kind { return KindFile }
func (HLSSource) Kind() Kind  { return KindHLS }
func (FileSource) descriptor() {}
func (HLSSource) descriptor()  {}

// Match dispatches on the descriptor variant.
// It panics on a nil descriptor; callers check for an absent source first.
func Match[T any](d Descriptor, file func(FileSource) T, hls func(HLSSource) T) T {
	switch v := d.(type) {
	case FileSource:
		return file(v)
	case *FileSource:
		return file(*v)
	case HLSSource:
		return hls(v)
	case *HLSSource:
		return hls(*v)
	default:
		panic(fmt.Sprintf("source: unexpected descriptor %T", d))
	}
}

// Playable reports whether the stream for q exists and has a URL.
func (f FileSource) Playable(q Quality) bool {
	stream, ok := f.Qualities[q]
	return ok && stream.URL != ""
}

// Available returns the labels that can actually be played.
func (f FileSource) Available() []Quality {
	return lo.Filter(lo.Keys(f.Qualities), func(q Quality, _ int) bool {
		return f.Playable(q)
	})
}

// Stream returns the loadable stream for q.
func (f FileSource) Stream(q Quality) (Stream, bool) {
	if !f.Playable(q) {
		return Stream{}, false
	}
	return Stream{Kind: KindFile, URL: f.Qualities[q].URL, Headers: f.Headers}, true
}

// Stream returns the loadable adaptive stream.
func (h HLSSource) Stream() Stream {
	return Stream{Kind: KindHLS, URL: h.URL, Headers: h.Headers}
}

// Stream is the concrete thing handed to the display engine for loading.
type Stream struct {
	Kind    Kind
	URL     string
	Headers map[string]string
}

func (s Stream) String() string {
	return fmt.Sprintf("%s:%s", s.Kind, s.URL)
}
