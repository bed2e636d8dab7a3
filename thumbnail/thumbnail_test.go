package thumbnail

import (
	"math"
	"testing"

	"github.com/marquee-cli/marquee/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func ats(images []Image) []float64 {
	out := make([]float64, len(images))
	for i, img := range images {
		out[i] = img.At
	}
	return out
}

func TestNearestImageAt(t *testing.T) {
	Convey("Given images at 0, 10 and 20", t, func() {
		images := []Image{{At: 0, Data: "a"}, {At: 10, Data: "b"}, {At: 20, Data: "c"}}

		Convey("The closer neighbor wins", func() {
			So(NearestImageAt(images, 14).MustGet().Image.At, ShouldEqual, 10)
			So(NearestImageAt(images, 16).MustGet().Image.At, ShouldEqual, 20)
		})

		Convey("Ties go to the earlier image", func() {
			pos := NearestImageAt(images, 15).MustGet()
			So(pos.Index, ShouldEqual, 1)
			So(pos.Image.Data, ShouldEqual, "b")
		})

		Convey("Queries past the end clamp to the last image", func() {
			So(NearestImageAt(images, 25).MustGet().Index, ShouldEqual, 2)
		})

		Convey("Queries before the start clamp to the first image", func() {
			So(NearestImageAt(images, -5).MustGet().Index, ShouldEqual, 0)
		})

		Convey("Exact timestamps match themselves", func() {
			So(NearestImageAt(images, 10).MustGet().Index, ShouldEqual, 1)
			So(NearestImageAt(images, 20).MustGet().Index, ShouldEqual, 2)
		})
	})

	Convey("An empty sequence has no nearest image", t, func() {
		So(NearestImageAt(nil, 3).IsPresent(), ShouldBeFalse)
	})

	Convey("A single image is always nearest", t, func() {
		So(NearestImageAt([]Image{{At: 7}}, 100).MustGet().Index, ShouldEqual, 0)
	})
}

func TestIndex(t *testing.T) {
	Convey("Given an empty index", t, func() {
		idx := NewIndex()

		Convey("Nearest finds nothing", func() {
			So(idx.Nearest(1).IsPresent(), ShouldBeFalse)
		})

		Convey("Out of order inserts stay sorted", func() {
			for _, at := range []float64{30, 10, 20, 0, 25, 5} {
				idx.AddImage(Image{At: at})
			}
			So(ats(idx.Images()), ShouldResemble, []float64{0, 5, 10, 20, 25, 30})
		})

		Convey("Adding the same timestamp replaces the image", func() {
			idx.AddImage(Image{At: 10, Data: "old"})
			idx.AddImage(Image{At: 20, Data: "x"})
			idx.AddImage(Image{At: 10, Data: "new"})
			So(idx.Len(), ShouldEqual, 2)
			So(idx.Nearest(10).MustGet().Image.Data, ShouldEqual, "new")
		})

		Convey("Re-adding an image is idempotent", func() {
			img := Image{At: 3, Data: "z"}
			idx.AddImage(img)
			before := idx.Images()
			idx.AddImage(img)
			So(idx.Images(), ShouldResemble, before)
		})

		Convey("Images returns a copy", func() {
			idx.AddImage(Image{At: 1, Data: "a"})
			images := idx.Images()
			images[0].Data = "changed"
			So(idx.Images()[0].Data, ShouldEqual, "a")
		})

		Convey("Images without a position are ignored", func() {
			idx.AddImage(Image{At: 10})
			idx.AddImage(Image{At: math.NaN(), Data: "nan"})
			idx.AddImage(Image{At: 5})
			idx.AddImage(Image{At: 20})
			So(ats(idx.Images()), ShouldResemble, []float64{5, 10, 20})
			So(idx.Nearest(12).MustGet().Image.At, ShouldEqual, 10)
		})

		Convey("Reset drops everything", func() {
			idx.AddImage(Image{At: 1})
			idx.ResetImages()
			So(idx.Len(), ShouldEqual, 0)
		})
	})
}

func TestPersistence(t *testing.T) {
	Convey("Given a saved index", t, func() {
		idx := NewIndex(Image{At: 20, Data: "c"}, Image{At: 0, Data: "a"})
		So(idx.Save("/thumbs/title.json"), ShouldBeNil)

		Convey("It loads back sorted", func() {
			loaded, err := Load("/thumbs/title.json")
			So(err, ShouldBeNil)
			So(ats(loaded.Images()), ShouldResemble, []float64{0, 20})
		})
	})

	Convey("A missing file loads as an empty index", t, func() {
		loaded, err := Load("/thumbs/missing.json")
		So(err, ShouldBeNil)
		So(loaded.Len(), ShouldEqual, 0)
	})
}
