package player

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/marquee-cli/marquee/log"
	"github.com/marquee-cli/marquee/source"
	"github.com/samber/mo"
)

// Reporter receives what the engine observes. *playback.Controller implements it.
type Reporter interface {
	ReportError(epoch uint64, err error) bool
	ReportProgress(epoch uint64, time, duration float64) bool
	ReportQuality(epoch uint64, q source.Quality) bool
	ReportQualities(epoch uint64, qualities []source.Quality) bool
	ReportAudioTracks(epoch uint64, tracks []source.AudioTrack, current mo.Option[string]) bool
}

// Bridge turns mpv events into reports tagged with the epoch of the load that
// started the file they are about. Events of replaced files therefore carry an
// old epoch and are dropped by the controller.
type Bridge struct {
	reporter Reporter

	mu       sync.Mutex
	duration mo.Option[durationOf]
}

type durationOf struct {
	epoch   uint64
	seconds float64
}

// NewBridge creates a bridge. Register its Handle with Engine.OnEvent.
func NewBridge(reporter Reporter) *Bridge {
	return &Bridge{reporter: reporter}
}

// Handle translates a single event. Events outside a known load are ignored.
func (b *Bridge) Handle(ev Event) {
	load, ok := ev.Load.Get()
	if !ok {
		log.Debugf("bridge: %s %s outside a known load", ev.Event, ev.Name)
		return
	}

	switch ev.Event {
	case "start-file":
		b.mu.Lock()
		b.duration = mo.None[durationOf]()
		b.mu.Unlock()
	case "end-file":
		if ev.Reason == "error" {
			b.reporter.ReportError(load.Epoch, fmt.Errorf("%w: %s", ErrPlaybackFailed, ev.FileError))
		}
	case "property-change":
		b.property(load, ev)
	}
}

func (b *Bridge) durationFor(epoch uint64) float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	if d, ok := b.duration.Get(); ok && d.epoch == epoch {
		return d.seconds
	}
	return 0
}

func (b *Bridge) property(load FileLoad, ev Event) {
	// null data means the property is unavailable, e.g. while idle
	if len(ev.Data) == 0 || string(ev.Data) == "null" {
		return
	}

	switch ev.Name {
	case "duration":
		var seconds float64
		if decode(ev, &seconds) {
			b.mu.Lock()
			b.duration = mo.Some(durationOf{epoch: load.Epoch, seconds: seconds})
			b.mu.Unlock()
		}
	case "time-pos":
		var pos float64
		if decode(ev, &pos) {
			b.reporter.ReportProgress(load.Epoch, pos, b.durationFor(load.Epoch))
		}
	case "height":
		var height int
		if decode(ev, &height) && height > 0 && load.Adaptive {
			b.reporter.ReportQuality(load.Epoch, source.QualityFromHeight(height))
		}
	case "track-list":
		tracks, err := decodeTracks(ev.Data)
		if err != nil {
			log.Debugf("bridge: %v", err)
			return
		}

		audio, current := audioTracks(tracks)
		b.reporter.ReportAudioTracks(load.Epoch, audio, current)

		if load.Adaptive {
			if qualities := videoQualities(tracks); len(qualities) > 0 {
				b.reporter.ReportQualities(load.Epoch, qualities)
			}
		}
	}
}

func decode(ev Event, v any) bool {
	if err := json.Unmarshal(ev.Data, v); err != nil {
		log.Debugf("bridge: %s: %v", ev.Name, err)
		return false
	}
	return true
}
