package sizelimit

import (
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParse(t *testing.T) {
	Convey("Given a size-limit string", t, func() {
		Convey("An empty string means no limit", func() {
			n, ok, err := Parse("")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
			So(n, ShouldEqual, 0)
		})

		Convey("A plain number is bytes", func() {
			n, ok, err := Parse("512")
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(n, ShouldEqual, 512)
		})

		Convey("K/M/G suffixes apply their multiplier", func() {
			n, _, err := Parse("5M")
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 5*1024*1024)

			n, _, err = Parse("200K")
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 200*1024)

			n, _, err = Parse("1G")
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 1024*1024*1024)
		})

		Convey("Suffixes are case-insensitive", func() {
			n, _, err := Parse("5m")
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 5*1024*1024)
		})

		Convey("Malformed input fails with ErrInvalidSize", func() {
			for _, bad := range []string{"5X", "M5", "-5", "5.5M", "five"} {
				_, _, err := Parse(bad)
				So(err, ShouldNotBeNil)
				So(errors.Cause(err), ShouldEqual, ErrInvalidSize)
			}
		})

		Convey("Parse is idempotent and pure", func() {
			a, _, _ := Parse("5M")
			b, _, _ := Parse("5M")
			So(a, ShouldEqual, b)
		})
	})
}
