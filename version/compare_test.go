package version

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Compare", t, func() {
		for _, tc := range []struct {
			a, b string
			want int
		}{
			{"0.3.0", "0.3.0", 0},
			{"v0.4.0", "0.3.9", 1},
			{"0.3.1", "0.10.0", -1},
			{"1.0.0", "0.99.99", 1},
			{"1.2.0-rc.1", "1.2.0", 0},
			{"1.2.3+build.7", "v1.2.2", 1},
		} {
			got, err := Compare(tc.a, tc.b)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, tc.want)
		}

		_, err := Compare("latest", "0.3.0")
		So(err, ShouldNotBeNil)

		_, err = Compare("0.3", "0.3.0")
		So(err, ShouldNotBeNil)
	})
}
