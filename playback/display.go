package playback

import (
	"github.com/marquee-cli/marquee/source"
	"github.com/samber/mo"
)

// LoadRequest asks the display engine to start playing a resolved stream.
type LoadRequest struct {
	Stream  source.Stream
	StartAt float64

	AutomaticQuality bool
	PreferredQuality mo.Option[source.Quality]

	// Epoch identifies the load attempt. Reports about this load must carry it back.
	Epoch uint64

	// Title is shown by engines that have a window title.
	Title string

	// Caption is re-applied once the stream is loaded, since engines drop
	// subtitle tracks together with the previous file.
	Caption        mo.Option[source.Caption]
	CaptionAsTrack bool
}

// Display is the external engine that loads, decodes and renders media.
// Calls are fire-and-forget: results come back through the Controller's report methods.
type Display interface {
	Load(req LoadRequest) error
	ChangeQuality(automatic bool, quality mo.Option[source.Quality]) error
	SetCaption(caption mo.Option[source.Caption], asTrack bool) error
}

// AudioTrackSwitcher is implemented by displays that can change the audio rendition.
type AudioTrackSwitcher interface {
	SetAudioTrack(id string) error
}
