package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When initialized with defaults", func() {
			So(Init(), ShouldBeNil)

			Convey("Then Get returns a logger", func() {
				So(Get(), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When initialized with a nil writer", func() {
			err := InitWithWriter(nil)

			Convey("Then it fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(InitWithWriter(&buf), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging with fields", func() {
			Get().Info(ctx, "imported file",
				String("path", "export.xml"),
				Int("records", 3),
				Int64("measurements", 42),
				Error(errors.New("boom")),
			)
			out := buf.String()

			Convey("Then fields and caller are rendered", func() {
				So(out, ShouldContainSubstring, "msg=\"imported file\"")
				So(out, ShouldContainSubstring, "path=export.xml")
				So(out, ShouldContainSubstring, "records=3")
				So(out, ShouldContainSubstring, "measurements=42")
				So(out, ShouldContainSubstring, "error=boom")
				So(out, ShouldContainSubstring, "caller=")
				So(out, ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When logging through a named logger", func() {
			Named("healthkit").Warn(ctx, "slow")

			Convey("Then the name is attached", func() {
				So(buf.String(), ShouldContainSubstring, "logger=healthkit")
			})
		})

		Convey("When the level is raised to error", func() {
			So(SetLevelString("error"), ShouldBeNil)
			Get().Info(ctx, "hidden")
			Get().Error(ctx, "visible")

			Convey("Then lower levels are suppressed", func() {
				So(buf.String(), ShouldNotContainSubstring, "hidden")
				So(buf.String(), ShouldContainSubstring, "visible")
			})
			So(SetLevelString("info"), ShouldBeNil)
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		for _, lvl := range []string{"debug", "INFO", "", "warn", "warning", " error "} {
			So(SetLevelString(lvl), ShouldBeNil)
		}
		So(SetLevelString("verbose"), ShouldNotBeNil)
		So(SetLevelString("info"), ShouldBeNil)
	})
}
