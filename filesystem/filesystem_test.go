package filesystem

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestApi(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Should default to OsFs", func() {
			SetOsFs()
			So(API().Name(), ShouldEqual, "OsFs")
		})

		Convey("Should switch to MemMapFs", func() {
			SetMemMapFs()
			So(API().Name(), ShouldEqual, "MemMapFS")
		})
	})
}

func TestJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
		At   float64
	}

	Convey("Given an in-memory filesystem", t, func() {
		SetMemMapFs()

		Convey("Reading a missing file is not an error", func() {
			var p payload
			found, err := ReadJSON("/nope.json", &p)
			So(err, ShouldBeNil)
			So(found, ShouldBeFalse)
		})

		Convey("Written values read back", func() {
			So(WriteJSON("/a/b/c.json", payload{Name: "x", At: 1.5}), ShouldBeNil)

			var p payload
			found, err := ReadJSON("/a/b/c.json", &p)
			So(err, ShouldBeNil)
			So(found, ShouldBeTrue)
			So(p.Name, ShouldEqual, "x")
			So(p.At, ShouldEqual, 1.5)

			exists, _ := API().Exists("/a/b/c.json.tmp")
			So(exists, ShouldBeFalse)
		})

		Convey("Corrupt files are reported", func() {
			So(API().WriteFile("/bad.json", []byte("{"), 0o600), ShouldBeNil)
			var p payload
			_, err := ReadJSON("/bad.json", &p)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestCache(t *testing.T) {
	Convey("Given a cache on the in-memory filesystem", t, func() {
		SetMemMapFs()
		cache := NewCache[[]string]("/cache/list.json", 0)

		Convey("It starts empty", func() {
			list, _, err := cache.Get()
			So(err, ShouldBeNil)
			So(list, ShouldBeEmpty)
		})

		Convey("Values are written through the backend", func() {
			So(cache.Set([]string{"a", "b"}), ShouldBeNil)

			exists, _ := API().Exists("/cache/list.json")
			So(exists, ShouldBeTrue)

			list, expired, err := NewCache[[]string]("/cache/list.json", 0).Get()
			So(err, ShouldBeNil)
			So(expired, ShouldBeFalse)
			So(list, ShouldResemble, []string{"a", "b"})
		})
	})
}
