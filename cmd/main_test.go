package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/medb/internal/adapters/export"
	app "github.com/okian/medb/internal/app"
	"github.com/okian/medb/internal/config"
	"github.com/okian/medb/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const healthXML = `<HealthData>
 <Record type="HKQuantityTypeIdentifierDietaryWater" sourceName="source" unit="mL" startDate="1970-01-01 00:00:01 +0000" endDate="1970-01-01 00:00:01 +0000" value="125"/>
</HealthData>
`

const lifeCSV = "START, END, START LOCAL, END LOCAL, DURATION, NAME, LOCATION, NOTE\n" +
	"2017-01-20 01:55:01, 2017-01-22 12:00:45, 2017-01-20 01:55:39 GMT, 2017-01-22 12:00:45 GMT,209106, Alpha, ,\n"

func TestParseFlags(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New()
		var out bytes.Buffer

		convey.Convey("When flags name every source", func() {
			src, err := parseFlags([]string{
				"-healthkit", "a.xml",
				"-lifecycle", "one.csv,two.csv",
				"-lifecycle-dir", "dir",
				"-data", "/tmp/medb",
				"-export", "out.json.zst",
				"-level", "3",
				"-serve",
				"extra.csv",
			}, cfg, &out)

			convey.Convey("Then sources and overrides are applied", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(src.HealthKit, convey.ShouldResemble, []string{"a.xml"})
				convey.So(src.LifeCycleFiles, convey.ShouldResemble, []string{"one.csv", "two.csv", "extra.csv"})
				convey.So(src.LifeCycleDirs, convey.ShouldResemble, []string{"dir"})
				convey.So(cfg.DataPath, convey.ShouldEqual, "/tmp/medb")
				convey.So(cfg.ExportPath, convey.ShouldEqual, "out.json.zst")
				convey.So(cfg.CompressionLevel, convey.ShouldEqual, 3)
				convey.So(cfg.Serve, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When only the config names sources", func() {
			cfg.HealthKitExport = "export.xml"
			cfg.LifeCycleDir = "lifecycle"

			src, err := parseFlags(nil, cfg, &out)

			convey.Convey("Then the config paths are used", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(src.HealthKit, convey.ShouldResemble, []string{"export.xml"})
				convey.So(src.LifeCycleDirs, convey.ShouldResemble, []string{"lifecycle"})
				convey.So(src.LifeCycleFiles, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When a flag makes the config invalid", func() {
			_, err := parseFlags([]string{"-level", "7"}, cfg, &out)

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(out.String(), convey.ShouldContainSubstring, "compression_level")
			})
		})

		convey.Convey("When help is requested", func() {
			_, err := parseFlags([]string{"-h"}, cfg, &out)
			convey.So(errors.Is(err, flag.ErrHelp), convey.ShouldBeTrue)
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given input files and an in-memory store", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		xmlPath := filepath.Join(dir, "export.xml")
		csvPath := filepath.Join(dir, "2017.csv")
		convey.So(os.WriteFile(xmlPath, []byte(healthXML), 0o600), convey.ShouldBeNil)
		convey.So(os.WriteFile(csvPath, []byte(lifeCSV), 0o600), convey.ShouldBeNil)

		cfg := config.New()
		cfg.ExportPath = filepath.Join(dir, "out.json.zst")

		convey.Convey("When running without serving", func() {
			err := run(ctx, cfg, app.Sources{HealthKit: []string{xmlPath}, LifeCycleFiles: []string{csvPath}})

			convey.Convey("Then the collection is exported", func() {
				convey.So(err, convey.ShouldBeNil)
				c, err := export.ReadFile(cfg.ExportPath)
				convey.So(err, convey.ShouldBeNil)
				convey.So(c.Len(), convey.ShouldEqual, 2)
				convey.So(c.MeasurementCount(), convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When a source is missing", func() {
			err := run(ctx, cfg, app.Sources{LifeCycleDirs: []string{filepath.Join(dir, "missing")}})

			convey.Convey("Then the run fails and nothing is exported", func() {
				convey.So(err, convey.ShouldNotBeNil)
				_, statErr := os.Stat(cfg.ExportPath)
				convey.So(os.IsNotExist(statErr), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When there are no sources and no server", func() {
			err := run(ctx, cfg, app.Sources{})
			convey.So(errors.Is(err, app.ErrNoSources), convey.ShouldBeTrue)
		})

		convey.Convey("When serving with a cancelled context", func() {
			cfg.Serve = true
			cfg.Addr = "127.0.0.1:0"
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			convey.Convey("Then the server shuts down cleanly", func() {
				convey.So(run(cctx, cfg, app.Sources{}), convey.ShouldBeNil)
			})
		})
	})
}

func TestNewHTTPServer(t *testing.T) {
	convey.Convey("Given the HTTP server for a service without runs", t, func() {
		ctx := context.Background()
		cfg := config.New()
		store, err := openStore(ctx, cfg)
		convey.So(err, convey.ShouldBeNil)

		svc := app.New(app.WithStore(store))
		defer func() { _ = svc.Close() }()

		srv := newHTTPServer(":0", svc)
		convey.So(srv.ReadHeaderTimeout, convey.ShouldEqual, readHeaderTimeout)

		convey.Convey("Then the read routes are served", func() {
			for path, code := range map[string]int{
				"/healthz":        http.StatusOK,
				"/stats":          http.StatusOK,
				"/series":         http.StatusOK,
				"/series/Missing": http.StatusNotFound,
				"/openapi.yaml":   http.StatusOK,
				"/dashboard":      http.StatusNotFound,
			} {
				w := httptest.NewRecorder()
				srv.Handler.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
				convey.So(w.Code, convey.ShouldEqual, code)
			}
		})
	})
}
