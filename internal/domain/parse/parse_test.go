package parse_test

import (
	"errors"
	"testing"

	"github.com/okian/medb/internal/domain/parse"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTimestamp(t *testing.T) {
	Convey("Given datetimes with an explicit offset", t, func() {
		cases := []struct {
			in   string
			want int64
		}{
			{"1970-01-01 00:00:00 +0000", 0},
			{"1970-01-01 00:00:01 +0000", 1000},
			{"2017-01-01 00:00:00 +0000", 1483228800000},
			{"2017-01-01 01:00:00 +0000", 1483232400000},
			{"2017-01-01 01:01:00 +0000", 1483232460000},
			{"2017-01-01 01:01:01 +0000", 1483232461000},
		}
		for _, c := range cases {
			got, err := parse.Timestamp(c.in)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, c.want)
		}
	})

	Convey("Given zone-naive datetimes", t, func() {
		Convey("Then they are read as UTC", func() {
			got, err := parse.Timestamp("1970-01-01 00:00:00")
			So(err, ShouldBeNil)
			So(got, ShouldEqual, 0)

			got, err = parse.Timestamp("2017-01-01 01:01:01")
			So(err, ShouldBeNil)
			So(got, ShouldEqual, 1483232461000)

			got, err = parse.Timestamp("2017-01-20 01:55:01")
			So(err, ShouldBeNil)
			So(got, ShouldEqual, 1484877301000)
		})
	})

	Convey("Given the same wall clock in two zones", t, func() {
		utc, err := parse.Timestamp("2017-01-01 01:01:01 +0000")
		So(err, ShouldBeNil)
		plusOne, err := parse.Timestamp("2017-01-01 01:01:01 +0100")
		So(err, ShouldBeNil)
		minusTwo, err := parse.Timestamp("2017-01-01 01:01:01 -0200")
		So(err, ShouldBeNil)

		Convey("Then a positive offset is earlier in UTC", func() {
			So(utc-plusOne, ShouldEqual, 3600*1000)
			So(minusTwo-utc, ShouldEqual, 2*3600*1000)
		})
	})

	Convey("Given malformed datetimes", t, func() {
		bad := []string{
			"This will crash",
			"",
			"2017-01-01",
			"2017-01-01T01:01:01Z",
			"2017-01-01 01:01:01.500",
			"2017-01-01 1:01:01",
			"2017-01-01  01:01:01",
			"2017-01-01 01:01:01 0100",
			"2017-01-01 01:01:01 +01:00",
			"2017-01-01 01:01:01 +0000 extra",
			"2017-13-01 01:01:01",
			"2017-02-30 01:01:01",
			"2017-01-01 25:00:00 +0000",
			"abcd-01-01 01:01:01",
		}
		for _, in := range bad {
			_, err := parse.Timestamp(in)
			So(err, ShouldNotBeNil)
			So(errors.Is(err, parse.ErrParse), ShouldBeTrue)

			var perr *parse.Error
			So(errors.As(err, &perr), ShouldBeTrue)
			So(perr.Kind, ShouldEqual, parse.KindDatetime)
			So(perr.Input, ShouldEqual, in)
		}

		Convey("Then the message quotes the input", func() {
			_, err := parse.Timestamp("This will crash")
			So(err.Error(), ShouldEqual, "failed to parse datetime 'This will crash'")
		})
	})
}

func TestInt(t *testing.T) {
	Convey("Given integer literals", t, func() {
		for in, want := range map[string]int64{"1": 1, "-123": -123, "0": 0, "9223372036854775807": 9223372036854775807} {
			got, err := parse.Int(in)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, want)
		}
	})

	Convey("Given non-integer input", t, func() {
		for _, in := range []string{"", "This will crash", "1.53", "12abc", " 1", "1e3"} {
			_, err := parse.Int(in)
			So(err, ShouldNotBeNil)
			So(errors.Is(err, parse.ErrParse), ShouldBeTrue)
		}

		Convey("Then the message quotes the input", func() {
			_, err := parse.Int("1.53")
			So(err.Error(), ShouldEqual, "failed to parse integer '1.53'")
		})
	})
}

func TestDouble(t *testing.T) {
	Convey("Given decimal literals", t, func() {
		for in, want := range map[string]float64{"1": 1, "-123": -123, "1.53": 1.53, "23.5": 23.5, "0.001": 0.001} {
			got, err := parse.Double(in)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, want)
		}
	})

	Convey("Given non-numeric input", t, func() {
		for _, in := range []string{"", "This will crash", "1.5.3", "NaN", "Inf", "1,5"} {
			_, err := parse.Double(in)
			So(err, ShouldNotBeNil)
			So(errors.Is(err, parse.ErrParse), ShouldBeTrue)
		}

		Convey("Then the message quotes the input", func() {
			_, err := parse.Double("This will crash")
			So(err.Error(), ShouldEqual, "failed to parse double 'This will crash'")
		})
	})
}
