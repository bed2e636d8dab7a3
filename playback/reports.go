package playback

import (
	"github.com/marquee-cli/marquee/log"
	"github.com/marquee-cli/marquee/source"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// The Report methods are how the display engine talks back. Each carries the epoch of
// the load it is about; reports for a superseded load are dropped and return false.

func (c *Controller) report(epoch uint64, what string, mutate func(*State) bool) bool {
	_, applied := c.commit(func(s *State) bool {
		if s.Epoch != epoch {
			log.WithFields(log.Fields{"report": what, "epoch": epoch, "current": s.Epoch}).Debug("stale report dropped")
			return false
		}
		return mutate(s)
	})
	return applied
}

// ReportError records a fatal playback failure. Source, quality and captions are kept
// so the load can be retried with RedisplaySource.
func (c *Controller) ReportError(epoch uint64, err error) bool {
	applied := c.report(epoch, "error", func(s *State) bool {
		s.Status = source.StatusPlaybackError
		s.Interface.Error = err
		return true
	})
	if applied {
		log.WithField("epoch", epoch).Errorf("playback failed: %v", err)
	}
	return applied
}

// ReportProgress records the playback position.
func (c *Controller) ReportProgress(epoch uint64, time, duration float64) bool {
	return c.report(epoch, "progress", func(s *State) bool {
		s.Progress.Time = time
		if duration > 0 {
			s.Progress.Duration = duration
		}
		return true
	})
}

// ReportQuality records the quality the engine is playing. For adaptive sources the
// engine is authoritative. For file sources only playable labels are accepted.
func (c *Controller) ReportQuality(epoch uint64, q source.Quality) bool {
	return c.report(epoch, "quality", func(s *State) bool {
		if s.Source == nil {
			return false
		}
		accept := source.Match(s.Source,
			func(file source.FileSource) bool { return file.Playable(q) },
			func(source.HLSSource) bool { return true },
		)
		if !accept {
			return false
		}
		s.CurrentQuality = mo.Some(q)
		return true
	})
}

// ReportQualities records the quality ladder enumerated by the engine for an adaptive source.
func (c *Controller) ReportQualities(epoch uint64, qualities []source.Quality) bool {
	return c.report(epoch, "qualities", func(s *State) bool {
		if s.Source == nil || s.Source.Kind() != source.KindHLS {
			return false
		}
		s.Qualities = c.policy.Sort(lo.Uniq(qualities))
		return true
	})
}

// ReportAudioTracks records the audio tracks of the loaded stream and the active one.
func (c *Controller) ReportAudioTracks(epoch uint64, tracks []source.AudioTrack, current mo.Option[string]) bool {
	return c.report(epoch, "audio", func(s *State) bool {
		s.AudioTracks = append([]source.AudioTrack{}, tracks...)
		s.CurrentAudioTrack = mo.None[source.AudioTrack]()
		if id, ok := current.Get(); ok {
			if track, found := lo.Find(tracks, func(t source.AudioTrack) bool { return t.ID == id }); found {
				s.CurrentAudioTrack = mo.Some(track)
			}
		}
		return true
	})
}
