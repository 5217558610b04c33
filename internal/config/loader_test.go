package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/medb/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.CompressionLevel, convey.ShouldEqual, 2)
				convey.So(cfg.GCInterval, convey.ShouldEqual, 5*time.Minute)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("ME_ADDR", ":8080")
			_ = os.Setenv("ME_DATA_PATH", "/var/lib/medb")
			_ = os.Setenv("ME_HEALTHKIT_EXPORT", "/tmp/export.xml")
			_ = os.Setenv("ME_LIFECYCLE_DIR", "/tmp/lifecycle")
			_ = os.Setenv("ME_EXPORT_PATH", "/tmp/out.json.zst")
			_ = os.Setenv("ME_COMPRESSION_LEVEL", "4")
			_ = os.Setenv("ME_SERVE", "true")
			_ = os.Setenv("ME_GC_INTERVAL", "30s")
			_ = os.Setenv("ME_LOG_LEVEL", "debug")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DataPath, convey.ShouldEqual, "/var/lib/medb")
				convey.So(cfg.HealthKitExport, convey.ShouldEqual, "/tmp/export.xml")
				convey.So(cfg.LifeCycleDir, convey.ShouldEqual, "/tmp/lifecycle")
				convey.So(cfg.ExportPath, convey.ShouldEqual, "/tmp/out.json.zst")
				convey.So(cfg.CompressionLevel, convey.ShouldEqual, 4)
				convey.So(cfg.Serve, convey.ShouldBeTrue)
				convey.So(cfg.GCInterval, convey.ShouldEqual, 30*time.Second)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			path := writeConfigFile(t, `
# comment
addr: ":9090"
data_path: /srv/medb
lifecycle_dir: /srv/lifecycle
compression_level: 3
`)
			_ = os.Setenv("ME_CONFIG", path)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.DataPath, convey.ShouldEqual, "/srv/medb")
				convey.So(cfg.LifeCycleDir, convey.ShouldEqual, "/srv/lifecycle")
				convey.So(cfg.CompressionLevel, convey.ShouldEqual, 3)
			})

			convey.Convey("And env vars take precedence over the file", func() {
				_ = os.Setenv("ME_COMPRESSION_LEVEL", "1")

				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.CompressionLevel, convey.ShouldEqual, 1)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("ME_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

			cfg, err := config.Load(ctx)

			convey.Convey("Then a load error is returned", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the loaded values are invalid", func() {
			_ = os.Setenv("ME_COMPRESSION_LEVEL", "9")

			cfg, err := config.Load(ctx)

			convey.Convey("Then a validation error is returned", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "compression_level")
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"ME_CONFIG",
		"ME_ADDR",
		"ME_SERVE",
		"ME_LOG_LEVEL",
		"ME_DATA_PATH",
		"ME_HEALTHKIT_EXPORT",
		"ME_LIFECYCLE_DIR",
		"ME_EXPORT_PATH",
		"ME_COMPRESSION_LEVEL",
		"ME_GC_INTERVAL",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "medb.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
