// Package service drives import runs and serves their results to the API.
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/medb/internal/adapters/export"
	"github.com/okian/medb/internal/adapters/repository"
	"github.com/okian/medb/internal/domain/dedupe"
	"github.com/okian/medb/internal/domain/model"
	"github.com/okian/medb/internal/domain/parse"
	"github.com/okian/medb/internal/domain/registry"
	"github.com/okian/medb/internal/domain/series"
	"github.com/okian/medb/internal/domain/types"
	"github.com/okian/medb/internal/importer"
	"github.com/okian/medb/internal/importer/healthkit"
	"github.com/okian/medb/internal/importer/lifecycle"
	"github.com/okian/medb/pkg/logger"
	"github.com/okian/medb/pkg/metrics"
)

// Run statuses reported to metrics.
const (
	statusSucceeded = "succeeded"
	statusFailed    = "failed"
)

// Sources lists the inputs of one run. HealthKit files are imported first,
// then LifeCycle files, then every *.csv of each LifeCycle directory.
type Sources struct {
	HealthKit      []string
	LifeCycleFiles []string
	LifeCycleDirs  []string
}

func (s Sources) empty() bool {
	return len(s.HealthKit) == 0 && len(s.LifeCycleFiles) == 0 && len(s.LifeCycleDirs) == 0
}

// Report summarizes a successful run.
type Report struct {
	RunID      string
	StartedAt  time.Time
	Duration   time.Duration
	Files      []string
	Skipped    []string
	HealthKit  importer.Result
	LifeCycle  importer.Result
	Collection *model.SeriesCollection
}

// Series returns the number of series the run produced.
func (r Report) Series() int { return r.Collection.Len() }

// Measurements returns the number of measurements the run produced.
func (r Report) Measurements() int { return r.Collection.MeasurementCount() }

// Service runs import batches one at a time and exposes the stored results.
type Service struct {
	mu sync.RWMutex

	store      repository.Store
	healthKit  *healthkit.Importer
	lifeCycle  *lifecycle.Importer
	exporter   *export.Exporter
	exportPath string

	running bool
	runs    int
	failed  int
	last    *Report

	logger logger.Logger
}

// New constructs a Service with the built-in importers.
func New(opts ...Option) *Service {
	s := &Service{
		logger: logger.Named("service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.healthKit == nil {
		s.healthKit = healthkit.New()
	}
	if s.lifeCycle == nil {
		s.lifeCycle = lifecycle.New()
	}
	if s.exporter == nil {
		s.exporter = export.New()
	}
	return s
}

// Run imports every source into a fresh batch. The first error aborts the
// run and nothing is persisted or exported. A source path reached twice is
// imported once.
func (s *Service) Run(ctx context.Context, src Sources) (Report, error) {
	if src.empty() {
		return Report{}, ErrNoSources
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return Report{}, ErrRunInProgress
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	report := Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	s.logger.Info(ctx, "import run started",
		logger.String("run_id", report.RunID),
		logger.Int("healthkit_files", len(src.HealthKit)),
		logger.Int("lifecycle_files", len(src.LifeCycleFiles)),
		logger.Int("lifecycle_dirs", len(src.LifeCycleDirs)),
	)

	if err := s.run(ctx, src, &report); err != nil {
		s.recordFailure(ctx, report, err)
		return Report{}, err
	}

	report.Duration = time.Since(report.StartedAt)
	metrics.RecordSeriesCreated(report.Series())
	metrics.RecordImportRun(statusSucceeded)
	metrics.RecordImportDuration(float64(report.Duration.Milliseconds()))

	s.mu.Lock()
	s.runs++
	s.last = &report
	s.mu.Unlock()

	s.logger.Info(ctx, "import run finished",
		logger.String("run_id", report.RunID),
		logger.Int("files", len(report.Files)),
		logger.Int("skipped", len(report.Skipped)),
		logger.Int("series", report.Series()),
		logger.Int("measurements", report.Measurements()),
		logger.Duration("took", report.Duration),
	)
	return report, nil
}

func (s *Service) run(ctx context.Context, src Sources, report *Report) error {
	b := series.NewBatch()
	seen := dedupe.NewPathDeduper()

	for _, path := range src.HealthKit {
		if s.skip(ctx, seen, path, report) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := s.healthKit.ImportFile(ctx, b, path)
		if err != nil {
			return err
		}
		report.HealthKit.Add(res)
		report.Files = append(report.Files, path)
	}

	csvFiles := append([]string{}, src.LifeCycleFiles...)
	for _, dir := range src.LifeCycleDirs {
		files, err := lifecycle.Files(dir)
		if err != nil {
			return err
		}
		csvFiles = append(csvFiles, files...)
	}

	for _, path := range csvFiles {
		if s.skip(ctx, seen, path, report) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := s.lifeCycle.ImportFile(ctx, b, path)
		if err != nil {
			return err
		}
		report.LifeCycle.Add(res)
		report.Files = append(report.Files, path)
	}

	report.Collection = b.Collection()

	if s.store != nil {
		run := repository.Run{
			ID:           report.RunID,
			StartedAt:    report.StartedAt,
			FinishedAt:   time.Now(),
			Files:        report.Files,
			Series:       report.Series(),
			Measurements: report.Measurements(),
		}
		if err := s.store.SaveCollection(ctx, run, report.Collection); err != nil {
			return fmt.Errorf("save run %s: %w", report.RunID, err)
		}
	}

	if s.exportPath != "" {
		if err := s.exporter.WriteFile(ctx, s.exportPath, report.Collection); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) skip(ctx context.Context, seen dedupe.Deduper, path string, report *Report) bool {
	if !seen.SeenAndRecord(ctx, path) {
		return false
	}
	s.logger.Warn(ctx, "source listed twice, skipping", logger.String("path", path))
	report.Skipped = append(report.Skipped, path)
	return true
}

func (s *Service) recordFailure(ctx context.Context, report Report, err error) {
	metrics.RecordImportError(ErrorKind(err))
	metrics.RecordImportRun(statusFailed)
	metrics.RecordImportDuration(float64(time.Since(report.StartedAt).Milliseconds()))

	s.mu.Lock()
	s.failed++
	s.mu.Unlock()

	s.logger.Error(ctx, "import run aborted",
		logger.String("run_id", report.RunID),
		logger.String("kind", ErrorKind(err)),
		logger.Int("files_done", len(report.Files)),
		logger.Error(err),
	)
}

// ErrorKind classifies an import error for metrics.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, parse.ErrParse):
		return "parse"
	case errors.Is(err, registry.ErrUnhandledType):
		return "unhandled_type"
	case errors.Is(err, series.ErrNameCollision):
		return "name_collision"
	case errors.Is(err, lifecycle.ErrFieldCount):
		return "field_count"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	case errors.Is(err, os.ErrNotExist):
		return "not_found"
	default:
		return "other"
	}
}

// ListSeries returns summaries of every stored series.
func (s *Service) ListSeries(ctx context.Context) ([]types.SeriesSummary, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	stored, err := s.store.ListSeries(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]types.SeriesSummary, len(stored))
	for i, sm := range stored {
		out[i] = types.SeriesSummary{
			Family:       sm.Family,
			Name:         sm.Name,
			Unit:         sm.Unit,
			Measurements: sm.Measurements,
			RunID:        sm.RunID,
		}
	}
	return out, nil
}

// GetSeries returns one stored series. Unknown names wrap
// repository.ErrNotFound.
func (s *Service) GetSeries(ctx context.Context, name string) (*model.Series, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	return s.store.GetSeries(ctx, name)
}

// LastRun returns the last successful run of this process, or the last run
// persisted in the store when this process has not run yet.
func (s *Service) LastRun(ctx context.Context) (types.RunSummary, bool) {
	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()
	if last != nil {
		return summarize(*last), true
	}
	if s.store == nil {
		return types.RunSummary{}, false
	}

	run, err := s.store.LastRun(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn(ctx, "failed to load last run", logger.Error(err))
		}
		return types.RunSummary{}, false
	}
	return types.RunSummary{
		ID:           run.ID,
		StartedAt:    run.StartedAt,
		Duration:     run.FinishedAt.Sub(run.StartedAt),
		Files:        run.Files,
		Series:       run.Series,
		Measurements: run.Measurements,
	}, true
}

func summarize(r Report) types.RunSummary {
	return types.RunSummary{
		ID:           r.RunID,
		StartedAt:    r.StartedAt,
		Duration:     r.Duration,
		Files:        r.Files,
		Skipped:      r.Skipped,
		Series:       r.Series(),
		Measurements: r.Measurements(),
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	ctx := context.Background()

	s.mu.RLock()
	stats := map[string]interface{}{
		"running":    s.running,
		"runs":       s.runs,
		"failedRuns": s.failed,
	}
	s.mu.RUnlock()

	if last, ok := s.LastRun(ctx); ok {
		stats["lastRun"] = last
	}
	if s.store != nil {
		n := s.store.Count(ctx)
		stats["storedSeries"] = n
		metrics.UpdateStoreSeries(n)
	}
	return stats
}

// Close releases the store.
func (s *Service) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}
