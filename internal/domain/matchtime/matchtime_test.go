package matchtime_test

import (
	"errors"
	"testing"

	"github.com/okian/touchline/internal/domain/errs"
	"github.com/okian/touchline/internal/domain/matchtime"
	. "github.com/smartystreets/goconvey/convey"
)

func label(raw, regulation int, secondHalf bool) string {
	s, err := matchtime.Format(raw, regulation, secondHalf)
	So(err, ShouldBeNil)
	return s
}

func TestFormat(t *testing.T) {
	Convey("Given a 60 minute match", t, func() {
		const regulation = 3600

		Convey("When formatting regular first half time", func() {
			So(label(0, regulation, false), ShouldEqual, "0")
			So(label(1, regulation, false), ShouldEqual, "1")
			So(label(60, regulation, false), ShouldEqual, "1")
			So(label(61, regulation, false), ShouldEqual, "2")
			So(label(500, regulation, false), ShouldEqual, "9")
		})

		Convey("When the clock sits exactly on half time", func() {
			Convey("Then the label is the base minute, not stoppage time", func() {
				So(label(1800, regulation, false), ShouldEqual, "30")
			})
		})

		Convey("When the first half runs over", func() {
			So(label(1801, regulation, false), ShouldEqual, "30+1")
			So(label(1900, regulation, false), ShouldEqual, "30+2")
			So(label(1920, regulation, false), ShouldEqual, "30+2")
		})

		Convey("When the same seconds fall in the second half", func() {
			So(label(1850, regulation, true), ShouldEqual, "31")
			So(label(3600, regulation, true), ShouldEqual, "60")
		})

		Convey("When the second half runs over", func() {
			So(label(3601, regulation, true), ShouldEqual, "60+1")
			So(label(3700, regulation, true), ShouldEqual, "60+2")
		})

		Convey("When first-half flagged seconds pass full time", func() {
			Convey("Then stoppage is still measured from half time", func() {
				So(label(3700, regulation, false), ShouldEqual, "30+32")
			})
		})
	})

	Convey("Given regulation lengths divisible by two", t, func() {
		Convey("Then the half boundary is exclusive for every length", func() {
			for _, regulation := range []int{1200, 2400, 2700, 3000, 4200, 5400} {
				half := regulation / 2
				got := label(half, regulation, false)
				So(got, ShouldNotContainSubstring, "+")
				So(label(half+1, regulation, false), ShouldContainSubstring, "+")
			}
		})
	})

	Convey("Given a regulation length not divisible by four minutes", t, func() {
		Convey("Then the stoppage base keeps its fraction", func() {
			So(label(1351, 2700, false), ShouldEqual, "22.5+1")
		})
	})

	Convey("Given invalid input", t, func() {
		_, err := matchtime.Format(-1, 3600, false)
		So(errors.Is(err, errs.ErrValidation), ShouldBeTrue)

		_, err = matchtime.Format(10, 0, false)
		So(errors.Is(err, errs.ErrValidation), ShouldBeTrue)
	})
}

func TestStopwatch(t *testing.T) {
	Convey("Given elapsed seconds", t, func() {
		So(matchtime.Stopwatch(0), ShouldEqual, "00:00")
		So(matchtime.Stopwatch(65), ShouldEqual, "01:05")
		So(matchtime.Stopwatch(3599), ShouldEqual, "59:59")
		So(matchtime.Stopwatch(6000), ShouldEqual, "100:00")
		So(matchtime.Stopwatch(-3), ShouldEqual, "00:00")
	})
}
