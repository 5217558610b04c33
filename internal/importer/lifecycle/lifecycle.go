// Package lifecycle imports LifeCycle time-tracking CSV exports. Each row is a
// stay at a location; its duration is split into per-day measurements of a
// "<Name>Time" series.
package lifecycle

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/medb/internal/domain/parse"
	"github.com/okian/medb/internal/domain/registry"
	"github.com/okian/medb/internal/domain/series"
	"github.com/okian/medb/internal/importer"
	"github.com/okian/medb/pkg/logger"
	"github.com/okian/medb/pkg/metrics"
)

// Name labels this importer in metrics and logs.
const Name = "lifecycle"

// Source is the source label of every LifeCycle measurement.
const Source = "LifeCycle"

const (
	// FamilyTimeTracking is the default family of LifeCycle series.
	FamilyTimeTracking = "TimeTracking"

	unit         = "milliseconds"
	seriesSuffix = "Time"
)

// Columns of a LifeCycle export row. Columns 2-4 and 7 are not used.
const (
	colStart = iota
	colEnd
	_ // start with zone name
	_ // end with zone name
	_ // duration in seconds
	colName
	colLocation
	_ // note

	fieldCount
)

// Importer turns LifeCycle rows into measurements.
type Importer struct {
	family   string
	reserved *registry.Registry
	log      logger.Logger
}

// New returns a LifeCycle importer.
func New(opts ...Option) *Importer {
	i := &Importer{
		family:   FamilyTimeTracking,
		reserved: registry.HealthKit(),
		log:      logger.Named(Name),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// SeriesName returns the canonical series name for a LifeCycle activity.
func SeriesName(activity string) string {
	return series.CamelCase(activity) + seriesSuffix
}

// seriesName is SeriesName, prefixed with Source when the reserved registry
// already owns the name ("Exercise" -> "LifeCycleExerciseTime").
func (i *Importer) seriesName(activity string) string {
	name := SeriesName(activity)
	if i.reserved != nil && i.reserved.HasName(name) {
		return Source + name
	}
	return name
}

// ProcessFields normalizes one already-split row and returns the number of
// measurements it added. The series is created even when the row's duration
// is not positive and yields no measurements.
func (i *Importer) ProcessFields(b *series.Batch, fields []string) (int, error) {
	if len(fields) != fieldCount {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(fields), fieldCount)
	}
	field := func(n int) string { return strings.TrimSpace(fields[n]) }

	start, err := parse.Timestamp(field(colStart))
	if err != nil {
		return 0, err
	}
	end, err := parse.Timestamp(field(colEnd))
	if err != nil {
		return 0, err
	}

	name := i.seriesName(field(colName))
	s, err := b.Resolve(name, registry.Descriptor{Family: i.family, Name: name, Unit: unit})
	if err != nil {
		return 0, err
	}

	ms := series.SplitDuration(start, end-start, series.NormalizeGroup(field(colLocation)), Source)
	for _, m := range ms {
		s.Add(m)
	}
	return len(ms), nil
}

// ImportCSV reads a LifeCycle export. The first row is a header and is
// skipped. The first bad row aborts the import.
func (i *Importer) ImportCSV(ctx context.Context, b *series.Batch, r io.Reader) (importer.Result, error) {
	var res importer.Result
	seriesBefore := b.Len()

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	header := true
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("lifecycle: %w", err)
		}
		if header {
			header = false
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		line, _ := cr.FieldPos(0)
		n, err := i.ProcessFields(b, fields)
		if err != nil {
			return res, fmt.Errorf("lifecycle: line %d: %w", line, err)
		}
		res.Records++
		res.Measurements += n
	}

	res.SeriesCreated = b.Len() - seriesBefore
	metrics.RecordRecordsImported(Name, res.Records)
	metrics.RecordMeasurements(Name, res.Measurements)
	return res, nil
}

// ImportFile opens path and runs ImportCSV over it.
func (i *Importer) ImportFile(ctx context.Context, b *series.Batch, path string) (importer.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return importer.Result{}, fmt.Errorf("lifecycle: %w", err)
	}
	defer f.Close()

	start := time.Now()
	res, err := i.ImportCSV(ctx, b, f)
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}

	i.log.Info(ctx, "imported lifecycle export",
		logger.String("path", path),
		logger.Int("records", res.Records),
		logger.Int("measurements", res.Measurements),
		logger.Duration("took", time.Since(start)),
	)
	return res, nil
}

// Files lists the *.csv files directly inside dir in lexical order.
func Files(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("lifecycle: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("lifecycle: %s is not a directory", dir)
	}
	// Glob sorts its result.
	return filepath.Glob(filepath.Join(dir, "*.csv"))
}

// ImportDir imports every file returned by Files.
func (i *Importer) ImportDir(ctx context.Context, b *series.Batch, dir string) (importer.Result, error) {
	var total importer.Result

	paths, err := Files(dir)
	if err != nil {
		return total, err
	}
	for _, path := range paths {
		res, err := i.ImportFile(ctx, b, path)
		total.Add(res)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
