package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/okian/medb/internal/adapters/export"
	"github.com/okian/medb/internal/adapters/http/api"
	"github.com/okian/medb/internal/adapters/http/swagger"
	"github.com/okian/medb/internal/adapters/repository"
	app "github.com/okian/medb/internal/app"
	"github.com/okian/medb/internal/config"
	"github.com/okian/medb/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

// listFlag collects a repeatable or comma separated flag.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			*l = append(*l, p)
		}
	}
	return nil
}

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to sync logger: " + err.Error() + "\n")
		}
	}()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	src, err := parseFlags(os.Args[1:], cfg, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	if err := run(ctx, cfg, src); err != nil {
		logger.Get().Error(ctx, "medb failed", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

// parseFlags applies command line overrides to cfg and returns the run's
// sources. Flags win over config values.
func parseFlags(args []string, cfg *config.Config, out io.Writer) (app.Sources, error) {
	fs := flag.NewFlagSet("medb", flag.ContinueOnError)
	fs.SetOutput(out)

	var healthKit, lifeCycleFiles, lifeCycleDirs listFlag
	fs.Var(&healthKit, "healthkit", "HealthKit export.xml path (repeatable)")
	fs.Var(&lifeCycleFiles, "lifecycle", "LifeCycle CSV file (repeatable)")
	fs.Var(&lifeCycleDirs, "lifecycle-dir", "directory of LifeCycle CSV files (repeatable)")
	fs.StringVar(&cfg.DataPath, "data", cfg.DataPath, "badger directory; empty keeps the store in memory")
	fs.StringVar(&cfg.ExportPath, "export", cfg.ExportPath, "write the collection as JSON (.zst compresses)")
	fs.IntVar(&cfg.CompressionLevel, "level", cfg.CompressionLevel, "zstd level 1-4")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "read API listen address")
	fs.BoolVar(&cfg.Serve, "serve", cfg.Serve, "serve the read API after importing")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return app.Sources{}, err
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(out, err)
		return app.Sources{}, err
	}

	src := app.Sources{
		HealthKit:      healthKit,
		LifeCycleFiles: append(lifeCycleFiles, fs.Args()...),
		LifeCycleDirs:  lifeCycleDirs,
	}
	if len(src.HealthKit) == 0 && cfg.HealthKitExport != "" {
		src.HealthKit = []string{cfg.HealthKitExport}
	}
	if len(src.LifeCycleDirs) == 0 && cfg.LifeCycleDir != "" {
		src.LifeCycleDirs = []string{cfg.LifeCycleDir}
	}
	return src, nil
}

// run imports src once and, when configured, serves the read API until ctx
// is cancelled.
func run(ctx context.Context, cfg *config.Config, src app.Sources) error {
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	svc := app.New(
		app.WithLogger(logger.Named("service")),
		app.WithStore(store),
		app.WithExporter(export.New(export.WithLevel(cfg.CompressionLevel))),
		app.WithExportPath(cfg.ExportPath),
	)
	defer func() {
		if err := svc.Close(); err != nil {
			log.Error(ctx, "failed to close store", logger.Error(err))
		}
	}()

	if _, err := svc.Run(ctx, src); err != nil {
		// Serving without sources browses earlier runs.
		if !cfg.Serve || !errors.Is(err, app.ErrNoSources) {
			return err
		}
		log.Info(ctx, "no sources given; serving stored series")
	}

	if !cfg.Serve {
		return nil
	}
	return serve(ctx, newHTTPServer(cfg.Addr, svc))
}

func openStore(ctx context.Context, cfg *config.Config) (*repository.BadgerStore, error) {
	opts := []repository.Option{
		repository.WithCompressionLevel(cfg.CompressionLevel),
		repository.WithGCInterval(cfg.GCInterval),
		repository.WithLogger(logger.Named("repository")),
	}
	if cfg.DataPath == "" {
		opts = append(opts, repository.WithInMemory())
	}
	return repository.NewBadgerStore(ctx, cfg.DataPath, opts...)
}

func newHTTPServer(addr string, svc *app.Service) *http.Server {
	mux := http.NewServeMux()
	swagger.Register(mux)
	api.NewServer(svc, svc).Register(mux)

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server) error {
	log := logger.Get()
	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info(ctx, "shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info(ctx, "server stopped")
	return nil
}
