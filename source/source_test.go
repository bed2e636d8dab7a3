package source

import (
	"errors"
	"testing"

	"github.com/marquee-cli/marquee/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestStatus(t *testing.T) {
	Convey("Statuses", t, func() {
		for _, s := range Statuses() {
			So(s.Valid(), ShouldBeTrue)
		}
		So(Status("paused").Valid(), ShouldBeFalse)
		So(StatusScrapeNotFound.String(), ShouldEqual, "scrapeNotFound")
	})
}

func TestQuality(t *testing.T) {
	Convey("ParseQuality", t, func() {
		So(ParseQuality("1080"), ShouldEqual, Quality1080p)
		So(ParseQuality(" 720P "), ShouldEqual, Quality720p)
		So(ParseQuality("2160p"), ShouldEqual, Quality4K)
		So(ParseQuality(""), ShouldEqual, QualityUnknown)
		So(ParseQuality("Source"), ShouldEqual, Quality("source"))
	})

	Convey("Heights", t, func() {
		So(Quality1080p.Height(), ShouldEqual, 1080)
		So(Quality4K.Height(), ShouldEqual, 2160)
		So(QualityUnknown.Height(), ShouldEqual, 0)
		So(QualityFromHeight(1080), ShouldEqual, Quality1080p)
		So(QualityFromHeight(800), ShouldEqual, Quality720p)
		So(QualityFromHeight(240), ShouldEqual, Quality360p)
		So(QualityFromHeight(0), ShouldEqual, QualityUnknown)
	})
}

func TestDescriptor(t *testing.T) {
	Convey("Given a file source", t, func() {
		file := FileSource{
			Qualities: map[Quality]FileStream{
				Quality720p:  {Container: "mp4", URL: "http://a/720.mp4"},
				Quality1080p: {Container: "mp4", URL: ""},
			},
			Headers: map[string]string{"Referer": "http://a"},
		}

		Convey("Only streams with a URL are playable", func() {
			So(file.Playable(Quality720p), ShouldBeTrue)
			So(file.Playable(Quality1080p), ShouldBeFalse)
			So(file.Available(), ShouldResemble, []Quality{Quality720p})
		})

		Convey("Stream carries the headers", func() {
			stream, ok := file.Stream(Quality720p)
			So(ok, ShouldBeTrue)
			So(stream.Kind, ShouldEqual, KindFile)
			So(stream.Headers["Referer"], ShouldEqual, "http://a")
		})

		Convey("Match selects the file branch", func() {
			kind := Match(Descriptor(file), func(FileSource) string { return "file" }, func(HLSSource) string { return "hls" })
			So(kind, ShouldEqual, "file")
		})
	})

	Convey("Given an HLS source", t, func() {
		hls := &HLSSource{URL: "http://a/master.m3u8"}

		Convey("Match accepts pointers too", func() {
			url := Match(Descriptor(hls), func(FileSource) string { return "" }, func(h HLSSource) string { return h.URL })
			So(url, ShouldEqual, "http://a/master.m3u8")
		})

		Convey("Stream is adaptive", func() {
			So(hls.Stream().Kind, ShouldEqual, KindHLS)
		})
	})
}

func TestMeta(t *testing.T) {
	Convey("Given show metadata", t, func() {
		meta := Meta{
			Type:    MediaShow,
			Title:   "Show",
			TMDBID:  "1",
			Season:  &MetaSeason{Number: 1, TMDBID: "s1"},
			Episode: &MetaEpisode{Number: 2, TMDBID: "e2"},
		}

		Convey("It converts when complete", func() {
			media, err := meta.ScrapeMedia()
			So(err, ShouldBeNil)
			So(media.Type, ShouldEqual, MediaShow)
			So(media.Episode.Number, ShouldEqual, 2)
			So(meta.String(), ShouldEqual, "Show S01E02")
		})

		Convey("A missing episode is a validation failure", func() {
			meta.Episode = nil
			_, err := meta.ScrapeMedia()
			So(errors.Is(err, ErrMissingShowData), ShouldBeTrue)
		})

		Convey("A missing season is a validation failure", func() {
			meta.Season = nil
			_, err := meta.ScrapeMedia()
			So(errors.Is(err, ErrMissingShowData), ShouldBeTrue)
		})
	})

	Convey("Movie metadata never needs episodes", t, func() {
		meta := Meta{Type: MediaMovie, Title: "Film", ReleaseYear: 1999}
		media, err := meta.ScrapeMedia()
		So(err, ShouldBeNil)
		So(media.Type, ShouldEqual, MediaMovie)
		So(media.Episode, ShouldBeNil)
		So(meta.String(), ShouldEqual, "Film (1999)")
	})
}

func TestCaptions(t *testing.T) {
	Convey("Given a caption catalog", t, func() {
		list := []CaptionListItem{
			{ID: "a", Language: "english", URL: "http://c/en.srt"},
			{ID: "b", Language: "french", URL: "http://c/fr.srt"},
			{ID: "c", Language: "portuguese (brazil)", URL: "http://c/pt.srt"},
		}

		Convey("Exact ids win", func() {
			So(FindCaption(list, "b").MustGet().Language, ShouldEqual, "french")
		})

		Convey("Exact languages ignore case", func() {
			So(FindCaption(list, "English").MustGet().ID, ShouldEqual, "a")
		})

		Convey("Fuzzy languages fall back to ranking", func() {
			So(FindCaption(list, "fre").MustGet().ID, ShouldEqual, "b")
			So(FindCaption(list, "brazil").MustGet().ID, ShouldEqual, "c")
		})

		Convey("Unknown queries find nothing", func() {
			So(FindCaption(list, "klingon").IsPresent(), ShouldBeFalse)
			So(FindCaption(nil, "english").IsPresent(), ShouldBeFalse)
		})

		Convey("ContainsCaption checks ids", func() {
			So(ContainsCaption(list, "c"), ShouldBeTrue)
			So(ContainsCaption(list, "z"), ShouldBeFalse)
		})
	})
}

func TestManifest(t *testing.T) {
	Convey("Given a file manifest", t, func() {
		data := []byte(`{
			"meta": {"type": "movie", "title": "Film", "tmdbId": "9", "releaseYear": 2001},
			"source": {"type": "file", "qualities": {
				"720": {"type": "mp4", "url": "http://a/720.mp4"},
				"1080p": {"type": "mp4", "url": "http://a/1080.mp4"}
			}},
			"captions": [{"id": "en", "language": "english", "url": "http://c/en.srt", "needsProxy": false}]
		}`)

		m, err := ParseManifest(data)
		So(err, ShouldBeNil)

		Convey("Quality labels are normalized", func() {
			d, err := m.Source.Descriptor()
			So(err, ShouldBeNil)
			file := d.(FileSource)
			So(file.Playable(Quality720p), ShouldBeTrue)
			So(file.Playable(Quality1080p), ShouldBeTrue)
		})

		Convey("Encoding round-trips the variant", func() {
			d, _ := m.Source.Descriptor()
			So(EncodeDescriptor(d).Type, ShouldEqual, KindFile)
			So(len(EncodeDescriptor(d).Qualities), ShouldEqual, 2)
		})

		Convey("Captions are decoded", func() {
			So(len(m.Captions), ShouldEqual, 1)
		})
	})

	Convey("Invalid manifests are rejected", t, func() {
		_, err := ParseManifest([]byte(`{"source": {"type": "dash", "url": "x"}}`))
		So(errors.Is(err, ErrUnknownSourceType), ShouldBeTrue)

		_, err = ParseManifest([]byte(`{"source": {"type": "hls"}}`))
		So(errors.Is(err, ErrEmptySource), ShouldBeTrue)

		_, err = ParseManifest([]byte(`{"source": {"type": "file", "qualities": {"720p": {"url": ""}}}}`))
		So(errors.Is(err, ErrEmptySource), ShouldBeTrue)
	})

	Convey("Manifests load from the filesystem", t, func() {
		So(filesystem.API().WriteFile("/m.json", []byte(`{"source": {"type": "hls", "url": "http://a/m.m3u8"}}`), 0o600), ShouldBeNil)
		m, err := LoadManifest("/m.json")
		So(err, ShouldBeNil)
		d, _ := m.Source.Descriptor()
		So(d.Kind(), ShouldEqual, KindHLS)

		_, err = LoadManifest("/missing.json")
		So(err, ShouldNotBeNil)
	})
}
