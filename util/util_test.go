package util

import (
	"testing"
	"unicode/utf8"

	"github.com/marquee-cli/marquee/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSanitizeFilename(t *testing.T) {
	Convey("SanitizeFilename", t, func() {
		Convey("Should replace invalid chars", func() {
			So(SanitizeFilename("file:name?.txt"), ShouldEqual, "file_name_.txt")
		})
		Convey("Should collapse underscores", func() {
			So(SanitizeFilename("file__name.txt"), ShouldEqual, "file_name.txt")
		})
		Convey("Should trim separators", func() {
			So(SanitizeFilename("-file-name-"), ShouldEqual, "file-name")
		})
	})
}

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "image", "images"), ShouldEqual, "1 image")
		So(Quantify(2, "image", "images"), ShouldEqual, "2 images")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("hello"), ShouldEqual, "Hello")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestFileStem(t *testing.T) {
	Convey("FileStem", t, func() {
		So(FileStem("path/to/film.json"), ShouldEqual, "film")
		So(FileStem("film"), ShouldEqual, "film")
	})
}

func TestTruncate(t *testing.T) {
	Convey("Truncate measures terminal cells", t, func() {
		So(Truncate("1:00 / 2:00", 20), ShouldEqual, "1:00 / 2:00")
		So(Truncate("1:00 / 2:00", 4), ShouldEqual, "1:00")

		Convey("Wide runes are never split", func() {
			cut := Truncate("日本語テキスト", 7)
			So(cut, ShouldEqual, "日本語")
			So(utf8.ValidString(cut), ShouldBeTrue)
		})
	})
}

func TestFormatTimestamp(t *testing.T) {
	Convey("FormatTimestamp", t, func() {
		So(FormatTimestamp(0), ShouldEqual, "0:00")
		So(FormatTimestamp(75.9), ShouldEqual, "1:15")
		So(FormatTimestamp(3723), ShouldEqual, "1:02:03")
		So(FormatTimestamp(-4), ShouldEqual, "0:00")
	})
}

func TestDelete(t *testing.T) {
	Convey("Delete", t, func() {
		fs := filesystem.API()
		So(fs.WriteFile("/dir/a/file", []byte("x"), 0o600), ShouldBeNil)

		So(Delete("/dir/a/file"), ShouldBeNil)
		exists, _ := fs.Exists("/dir/a/file")
		So(exists, ShouldBeFalse)

		So(Delete("/dir"), ShouldBeNil)
		exists, _ = fs.DirExists("/dir")
		So(exists, ShouldBeFalse)

		So(Delete("/missing"), ShouldNotBeNil)
	})
}
