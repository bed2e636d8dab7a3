package playback

import (
	"errors"
	"testing"

	"github.com/marquee-cli/marquee/quality"
	"github.com/marquee-cli/marquee/source"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

type qualityChange struct {
	automatic bool
	quality   mo.Option[source.Quality]
}

type fakeDisplay struct {
	loads    []LoadRequest
	changes  []qualityChange
	captions []mo.Option[source.Caption]
	audio    []string

	loadErr    error
	captionErr error

	// seen is the controller state observed while the display call was made.
	seen  []State
	owner *Controller
}

func (d *fakeDisplay) Load(req LoadRequest) error {
	d.loads = append(d.loads, req)
	return d.loadErr
}

func (d *fakeDisplay) ChangeQuality(automatic bool, q mo.Option[source.Quality]) error {
	d.changes = append(d.changes, qualityChange{automatic, q})
	return nil
}

func (d *fakeDisplay) SetCaption(caption mo.Option[source.Caption], _ bool) error {
	if d.owner != nil {
		d.seen = append(d.seen, d.owner.State())
	}
	if d.captionErr != nil {
		return d.captionErr
	}
	d.captions = append(d.captions, caption)
	return nil
}

func (d *fakeDisplay) SetAudioTrack(id string) error {
	d.audio = append(d.audio, id)
	return nil
}

func fileSource() source.FileSource {
	return source.FileSource{Qualities: map[source.Quality]source.FileStream{
		source.Quality720p:  {Container: "mp4", URL: "A"},
		source.Quality1080p: {Container: "mp4", URL: "B"},
	}}
}

func hlsSource() source.HLSSource {
	return source.HLSSource{URL: "http://a/master.m3u8"}
}

func captions() []source.CaptionListItem {
	return []source.CaptionListItem{
		{ID: "en", Language: "english", URL: "http://c/en.srt"},
		{ID: "fr", Language: "french", URL: "http://c/fr.srt"},
	}
}

func TestController(t *testing.T) {
	Convey("Given a controller with automatic quality", t, func() {
		display := &fakeDisplay{}
		ctl := New(display, quality.Static{Automatic: true})
		display.owner = ctl

		Convey("It starts idle without a source", func() {
			s := ctl.State()
			So(s.Status, ShouldEqual, source.StatusIdle)
			So(s.HasSource(), ShouldBeFalse)
			So(s.Qualities, ShouldBeEmpty)
		})

		Convey("Status transitions are unguarded", func() {
			ctl.SetStatus(source.StatusScrapeNotFound)
			So(ctl.State().Status, ShouldEqual, source.StatusScrapeNotFound)
			ctl.SetStatus(source.StatusScrapeNotFound)
			So(ctl.State().Status, ShouldEqual, source.StatusScrapeNotFound)
			ctl.SetStatus(source.StatusIdle)
			So(ctl.State().Status, ShouldEqual, source.StatusIdle)
		})

		Convey("SetMeta replaces meta, shows the next episode button and sets status atomically", func() {
			ctl.SetHideNextEpisodeButton(true)

			var commits []State
			unsubscribe := ctl.Subscribe(func(_, next State) { commits = append(commits, next) })
			ctl.SetMeta(source.Meta{Type: source.MediaMovie, Title: "Film"}, source.StatusScraping)
			unsubscribe()

			So(len(commits), ShouldEqual, 1)
			So(commits[0].Status, ShouldEqual, source.StatusScraping)
			So(commits[0].Meta.MustGet().Title, ShouldEqual, "Film")
			So(commits[0].Interface.HideNextEpisodeButton, ShouldBeFalse)

			Convey("Without a status the status is kept", func() {
				ctl.SetMeta(source.Meta{Type: source.MediaMovie, Title: "Other"})
				So(ctl.State().Status, ShouldEqual, source.StatusScraping)
			})
		})

		Convey("Show meta missing its episode fails only when converted for scraping", func() {
			ctl.SetMeta(source.Meta{Type: source.MediaShow, Title: "Show", Season: &source.MetaSeason{Number: 1}})
			meta := ctl.State().Meta.MustGet()
			_, err := meta.ScrapeMedia()
			So(errors.Is(err, source.ErrMissingShowData), ShouldBeTrue)
		})

		Convey("SetSourceID records the attempt and forces playing", func() {
			ctl.SetStatus(source.StatusScraping)
			ctl.SetSourceID("attempt-1")
			So(ctl.State().Status, ShouldEqual, source.StatusPlaying)
			So(ctl.IsCurrentSourceID("attempt-1"), ShouldBeTrue)
			ctl.SetSourceID("attempt-2")
			So(ctl.IsCurrentSourceID("attempt-1"), ShouldBeFalse)
		})

		Convey("When a file source is set", func() {
			ctl.SetMeta(source.Meta{Type: source.MediaMovie, Title: "Film", ReleaseYear: 2001}, source.StatusScraping)
			So(ctl.SetSource(fileSource(), captions(), 12), ShouldBeNil)
			s := ctl.State()

			Convey("The highest quality is selected", func() {
				So(s.CurrentQuality.MustGet(), ShouldEqual, source.Quality1080p)
				So(s.Qualities, ShouldResemble, []source.Quality{source.Quality1080p, source.Quality720p})
				So(s.Qualities, ShouldContain, s.CurrentQuality.MustGet())
			})

			Convey("The state is playing without error", func() {
				So(s.Status, ShouldEqual, source.StatusPlaying)
				So(s.Interface.Error, ShouldBeNil)
				So(s.CaptionList, ShouldResemble, captions())
			})

			Convey("A load is issued after the commit", func() {
				So(len(display.loads), ShouldEqual, 1)
				req := display.loads[0]
				So(req.Stream.URL, ShouldEqual, "B")
				So(req.StartAt, ShouldEqual, 12)
				So(req.AutomaticQuality, ShouldBeTrue)
				So(req.Epoch, ShouldEqual, s.Epoch)
				So(req.Title, ShouldEqual, "Film (2001)")
			})

			Convey("Switching to an available quality reloads at the current position", func() {
				So(ctl.ReportProgress(s.Epoch, 42, 100), ShouldBeTrue)
				ctl.SwitchQuality(source.Quality720p)

				next := ctl.State()
				So(next.CurrentQuality.MustGet(), ShouldEqual, source.Quality720p)
				So(next.Epoch, ShouldEqual, s.Epoch+1)
				So(len(display.loads), ShouldEqual, 2)
				req := display.loads[1]
				So(req.Stream.URL, ShouldEqual, "A")
				So(req.StartAt, ShouldEqual, 42)
				So(req.AutomaticQuality, ShouldBeFalse)
				So(req.PreferredQuality.MustGet(), ShouldEqual, source.Quality720p)

				Convey("And a redisplay keeps the manual choice", func() {
					ctl.RedisplaySource(50)
					So(ctl.State().CurrentQuality.MustGet(), ShouldEqual, source.Quality720p)
					So(display.loads[2].Stream.URL, ShouldEqual, "A")
					So(display.loads[2].StartAt, ShouldEqual, 50)
				})
			})

			Convey("Switching to an unknown quality changes nothing", func() {
				before := ctl.State()
				ctl.SwitchQuality(source.Quality4K)
				So(ctl.State(), ShouldResemble, before)
				So(len(display.loads), ShouldEqual, 1)
				So(display.changes, ShouldBeEmpty)
			})

			Convey("Enabling automatic quality only asks the engine", func() {
				ctl.EnableAutomaticQuality()
				So(display.changes, ShouldResemble, []qualityChange{{true, mo.None[source.Quality]()}})
				So(ctl.State().CurrentQuality.MustGet(), ShouldEqual, source.Quality1080p)
			})

			Convey("A playback error keeps source, quality and captions", func() {
				So(ctl.ReportError(s.Epoch, errors.New("decode failed")), ShouldBeTrue)
				failed := ctl.State()
				So(failed.Status, ShouldEqual, source.StatusPlaybackError)
				So(failed.Interface.Error, ShouldNotBeNil)
				So(failed.HasSource(), ShouldBeTrue)
				So(failed.CurrentQuality.MustGet(), ShouldEqual, source.Quality1080p)
				So(len(failed.CaptionList), ShouldEqual, 2)

				Convey("And a redisplay retries", func() {
					ctl.RedisplaySource(0)
					retried := ctl.State()
					So(retried.Status, ShouldEqual, source.StatusPlaying)
					So(retried.Interface.Error, ShouldBeNil)
					So(len(display.loads), ShouldEqual, 2)
				})
			})

			Convey("Reports for a superseded load are dropped", func() {
				stale := s.Epoch
				ctl.RedisplaySource(0)
				So(ctl.ReportError(stale, errors.New("late")), ShouldBeFalse)
				So(ctl.ReportProgress(stale, 99, 100), ShouldBeFalse)
				So(ctl.ReportQuality(stale, source.Quality720p), ShouldBeFalse)
				So(ctl.ReportAudioTracks(stale, []source.AudioTrack{{ID: "1"}}, mo.Some("1")), ShouldBeFalse)

				current := ctl.State()
				So(current.Status, ShouldEqual, source.StatusPlaying)
				So(current.Progress.Time, ShouldEqual, 0)
				So(current.CurrentQuality.MustGet(), ShouldEqual, source.Quality1080p)
				So(current.AudioTracks, ShouldBeEmpty)
			})

			Convey("Reported file qualities must be playable", func() {
				So(ctl.ReportQuality(s.Epoch, source.Quality4K), ShouldBeFalse)
				So(ctl.ReportQuality(s.Epoch, source.Quality720p), ShouldBeTrue)
				So(ctl.ReportQualities(s.Epoch, []source.Quality{source.Quality4K}), ShouldBeFalse)
			})

			Convey("A selected caption is applied, then recorded", func() {
				caption := captions()[0].Caption()
				So(ctl.SetCaption(mo.Some(caption)), ShouldBeNil)

				So(len(display.seen), ShouldEqual, 1)
				So(display.seen[0].Caption.Selected.IsPresent(), ShouldBeFalse)
				So(ctl.State().Caption.Selected.MustGet().ID, ShouldEqual, "en")

				Convey("It survives a new source that still lists it", func() {
					So(ctl.SetSource(fileSource(), captions()[:1], 0), ShouldBeNil)
					So(ctl.State().Caption.Selected.MustGet().ID, ShouldEqual, "en")
					So(display.loads[len(display.loads)-1].Caption.MustGet().ID, ShouldEqual, "en")
				})

				Convey("It is cleared by a new source that does not list it", func() {
					So(ctl.SetSource(fileSource(), captions()[1:], 0), ShouldBeNil)
					So(ctl.State().Caption.Selected.IsPresent(), ShouldBeFalse)
				})

				Convey("Clearing it reaches the engine", func() {
					So(ctl.SetCaption(mo.None[source.Caption]()), ShouldBeNil)
					So(display.captions[1].IsPresent(), ShouldBeFalse)
					So(ctl.State().Caption.Selected.IsPresent(), ShouldBeFalse)
				})
			})

			Convey("A caption the engine rejects is not recorded", func() {
				display.captionErr = errors.New("no subtitle renderer")
				So(ctl.SetCaption(mo.Some(captions()[0].Caption())), ShouldNotBeNil)
				So(ctl.State().Caption.Selected.IsPresent(), ShouldBeFalse)
			})

			Convey("Audio tracks are reported and selectable", func() {
				tracks := []source.AudioTrack{{ID: "1", Label: "Stereo", Language: "en"}, {ID: "2", Label: "Commentary", Language: "en"}}
				So(ctl.ReportAudioTracks(s.Epoch, tracks, mo.Some("1")), ShouldBeTrue)
				So(ctl.State().CurrentAudioTrack.MustGet().Label, ShouldEqual, "Stereo")

				So(ctl.SetAudioTrack("2"), ShouldBeTrue)
				So(ctl.State().CurrentAudioTrack.MustGet().ID, ShouldEqual, "2")
				So(display.audio, ShouldResemble, []string{"2"})
				So(ctl.SetAudioTrack("9"), ShouldBeFalse)

				Convey("A new source resets them", func() {
					So(ctl.SetSource(hlsSource(), nil, 0), ShouldBeNil)
					next := ctl.State()
					So(next.AudioTracks, ShouldBeEmpty)
					So(next.CurrentAudioTrack.IsPresent(), ShouldBeFalse)
				})
			})
		})

		Convey("When an HLS source is set", func() {
			So(ctl.SetSource(hlsSource(), nil, 0), ShouldBeNil)
			s := ctl.State()

			Convey("Quality is left to the engine", func() {
				So(s.Qualities, ShouldBeEmpty)
				So(s.CurrentQuality.IsPresent(), ShouldBeFalse)
				So(display.loads[0].Stream.Kind, ShouldEqual, source.KindHLS)
			})

			Convey("Switching quality delegates without local changes", func() {
				ctl.SwitchQuality(source.Quality720p)
				So(display.changes, ShouldResemble, []qualityChange{{false, mo.Some(source.Quality720p)}})
				So(ctl.State(), ShouldResemble, s)
				So(len(display.loads), ShouldEqual, 1)
			})

			Convey("The engine's reports are authoritative", func() {
				So(ctl.ReportQualities(s.Epoch, []source.Quality{source.Quality480p, source.Quality1080p, source.Quality480p}), ShouldBeTrue)
				So(ctl.State().Qualities, ShouldResemble, []source.Quality{source.Quality1080p, source.Quality480p})

				ctl.SwitchQuality(source.Quality480p)
				So(ctl.ReportQuality(s.Epoch, source.Quality1080p), ShouldBeTrue)
				So(ctl.State().CurrentQuality.MustGet(), ShouldEqual, source.Quality1080p)
			})
		})

		Convey("Redisplay without a source is a no-op", func() {
			ctl.RedisplaySource(10)
			So(display.loads, ShouldBeEmpty)
			So(ctl.State().Epoch, ShouldEqual, 0)
		})

		Convey("A file source without playable streams is rejected untouched", func() {
			before := ctl.State()
			err := ctl.SetSource(source.FileSource{Qualities: map[source.Quality]source.FileStream{}}, nil, 0)
			So(errors.Is(err, quality.ErrNoPlayableQuality), ShouldBeTrue)
			So(ctl.State(), ShouldResemble, before)
		})

		Convey("A synchronous load failure is recorded as a playback error", func() {
			display.loadErr = errors.New("mpv not found")
			So(ctl.SetSource(fileSource(), nil, 0), ShouldBeNil)
			So(ctl.State().Status, ShouldEqual, source.StatusPlaybackError)
		})
	})

	Convey("After SetSource audio tracks are always reset", t, func() {
		ctl := New(nil, quality.Static{})
		So(ctl.SetSource(hlsSource(), nil, 0), ShouldBeNil)
		ctl.ReportAudioTracks(ctl.Epoch(), []source.AudioTrack{{ID: "1"}}, mo.Some("1"))
		So(ctl.SetSource(fileSource(), nil, 0), ShouldBeNil)
		s := ctl.State()
		So(s.AudioTracks, ShouldBeEmpty)
		So(s.CurrentAudioTrack.IsPresent(), ShouldBeFalse)
	})

	Convey("Stored manual preferences are used when a source is set", t, func() {
		display := &fakeDisplay{}
		ctl := New(display, quality.Static{LastChosen: mo.Some(source.Quality720p)})
		So(ctl.SetSource(fileSource(), nil, 0), ShouldBeNil)
		So(ctl.State().CurrentQuality.MustGet(), ShouldEqual, source.Quality720p)
		So(display.loads[0].PreferredQuality.MustGet(), ShouldEqual, source.Quality720p)
		So(display.loads[0].AutomaticQuality, ShouldBeFalse)
	})

	Convey("Snapshots are isolated from the controller", t, func() {
		ctl := New(nil, quality.Static{Automatic: true})
		So(ctl.SetSource(fileSource(), captions(), 0), ShouldBeNil)
		s := ctl.State()
		s.Qualities[0] = "mutated"
		s.CaptionList[0].ID = "mutated"
		So(ctl.State().Qualities[0], ShouldEqual, source.Quality1080p)
		So(ctl.State().CaptionList[0].ID, ShouldEqual, "en")
	})

	Convey("Snapshot meta does not share episodes with the controller", t, func() {
		ctl := New(nil, quality.Static{})
		ctl.SetMeta(source.Meta{
			Type:    source.MediaShow,
			Title:   "Show",
			Season:  &source.MetaSeason{Number: 1},
			Episode: &source.MetaEpisode{Number: 2},
		})

		meta := ctl.State().Meta.MustGet()
		meta.Episode.Number = 99
		meta.Season.Number = 99

		kept := ctl.State().Meta.MustGet()
		So(kept.Episode.Number, ShouldEqual, 2)
		So(kept.Season.Number, ShouldEqual, 1)
	})

	Convey("Observers see one notification per commit", t, func() {
		ctl := New(nil, quality.Static{Automatic: true})
		var transitions [][2]source.Status
		ctl.Subscribe(func(prev, next State) {
			transitions = append(transitions, [2]source.Status{prev.Status, next.Status})
		})

		ctl.SetMeta(source.Meta{Title: "x"}, source.StatusScraping)
		So(ctl.SetSource(fileSource(), nil, 0), ShouldBeNil)

		So(transitions, ShouldResemble, [][2]source.Status{
			{source.StatusIdle, source.StatusScraping},
			{source.StatusScraping, source.StatusPlaying},
		})
	})

	Convey("Given a source replaced while a report of the old load is in flight", t, func() {
		display := &fakeDisplay{}
		ctl := New(display, quality.Static{Automatic: true})
		So(ctl.SetSource(source.FileSource{Qualities: map[source.Quality]source.FileStream{
			source.Quality720p: {URL: "A"},
		}}, nil, 0), ShouldBeNil)
		stale := ctl.Epoch()

		var accepted []bool
		notified := 0
		ctl.Subscribe(func(prev, next State) {
			notified++
			if prev.Epoch == stale && next.Epoch != stale {
				accepted = append(accepted, ctl.ReportQuality(stale, source.Quality720p))
			}
		})

		So(ctl.SetSource(source.FileSource{Qualities: map[source.Quality]source.FileStream{
			source.Quality720p:  {URL: "C"},
			source.Quality1080p: {URL: "D"},
		}}, nil, 0), ShouldBeNil)

		Convey("The stale report is rejected", func() {
			So(accepted, ShouldResemble, []bool{false})
			So(notified, ShouldEqual, 1)
		})

		Convey("The policy's pick is loaded and kept", func() {
			s := ctl.State()
			So(s.CurrentQuality.MustGet(), ShouldEqual, source.Quality1080p)
			So(len(display.loads), ShouldEqual, 2)
			So(display.loads[1].Stream.URL, ShouldEqual, "D")
			So(display.loads[1].Epoch, ShouldEqual, s.Epoch)
		})
	})

	Convey("Given a load superseded before it reaches the engine", t, func() {
		display := &fakeDisplay{}
		ctl := New(display, quality.Static{Automatic: true})
		So(ctl.SetSource(fileSource(), nil, 0), ShouldBeNil)

		var once bool
		ctl.Subscribe(func(prev, next State) {
			if !once && next.Epoch == prev.Epoch+1 {
				once = true
				ctl.SwitchQuality(source.Quality720p)
			}
		})
		ctl.RedisplaySource(30)

		Convey("Only the latest load is dispatched", func() {
			So(len(display.loads), ShouldEqual, 2)
			So(display.loads[1].Stream.URL, ShouldEqual, "A")
			So(display.loads[1].Epoch, ShouldEqual, ctl.Epoch())
		})
	})
}
