package export_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/okian/medb/internal/adapters/export"
	"github.com/okian/medb/internal/domain/model"
	"github.com/okian/medb/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func sample() *model.SeriesCollection {
	c := &model.SeriesCollection{}
	s := &model.Series{Family: "Diet", Name: "WaterConsumed", Unit: "milliliters"}
	s.Add(model.Measurement{MsSinceUnixEpoch: 1000, Value: 125, Group: "default", Source: "HealthKit:Source"})
	c.Append(s)
	return c
}

func TestWrite(t *testing.T) {
	Convey("Given an exporter", t, func() {
		e := export.New()

		Convey("When writing plain JSON", func() {
			var buf bytes.Buffer
			So(e.Write(&buf, sample(), false), ShouldBeNil)

			Convey("Then the document uses the canonical field names", func() {
				So(buf.String(), ShouldContainSubstring, `"name":"WaterConsumed"`)
				So(buf.String(), ShouldContainSubstring, `"ms_since_unix_epoch":1000`)

				got, err := export.Read(&buf, false)
				So(err, ShouldBeNil)
				So(got, ShouldResemble, sample())
			})
		})

		Convey("When writing compressed", func() {
			var buf bytes.Buffer
			So(export.New(export.WithLevel(4)).Write(&buf, sample(), true), ShouldBeNil)

			Convey("Then the output is a zstd frame", func() {
				dec, err := zstd.NewReader(nil)
				So(err, ShouldBeNil)
				defer dec.Close()
				raw, err := dec.DecodeAll(buf.Bytes(), nil)
				So(err, ShouldBeNil)
				So(string(raw), ShouldContainSubstring, "WaterConsumed")
			})
		})

		Convey("When the collection is nil", func() {
			So(errors.Is(e.Write(&bytes.Buffer{}, nil, false), export.ErrNilCollection), ShouldBeTrue)
		})
	})
}

func TestWriteFile(t *testing.T) {
	Convey("Given an output directory", t, func() {
		dir := t.TempDir()
		e := export.New()
		ctx := context.Background()

		for _, name := range []string{"series.json", "series.json.zst"} {
			path := filepath.Join(dir, name)
			So(e.WriteFile(ctx, path, sample()), ShouldBeNil)

			got, err := export.ReadFile(path)
			So(err, ShouldBeNil)
			So(got, ShouldResemble, sample())
		}

		Convey("Then no temporary files are left behind", func() {
			entries, err := os.ReadDir(dir)
			So(err, ShouldBeNil)
			So(entries, ShouldHaveLength, 2)
		})

		Convey("When the directory does not exist", func() {
			err := e.WriteFile(ctx, filepath.Join(dir, "missing", "out.json"), sample())
			So(err, ShouldNotBeNil)
		})
	})
}
