package healthkit

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/medb/internal/domain/model"
	"github.com/okian/medb/internal/domain/parse"
	"github.com/okian/medb/internal/domain/registry"
	"github.com/okian/medb/internal/domain/series"
	"github.com/okian/medb/internal/importer"
	"github.com/okian/medb/pkg/logger"
	"github.com/okian/medb/pkg/metrics"
)

// Name labels this importer in metrics and logs.
const Name = "healthkit"

// SourcePrefix starts the source label of every HealthKit measurement.
const SourcePrefix = "HealthKit:"

const recordElement = "Record"

// recordDepth is the element depth of the root's direct children.
const recordDepth = 2

// Importer turns HealthKit records into measurements.
type Importer struct {
	registry *registry.Registry
	log      logger.Logger
}

// New returns an importer using the built-in HealthKit registry.
func New(opts ...Option) *Importer {
	i := &Importer{
		registry: registry.HealthKit(),
		log:      logger.Named(Name),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// AddMeasurements normalizes r and appends it to the series for its type.
// Every HealthKit measurement lands in the default group.
func (i *Importer) AddMeasurements(b *series.Batch, r Record) error {
	d, err := i.registry.Resolve(r.Type)
	if err != nil {
		return fmt.Errorf("%w for HealthKit record:\n%s", err, r)
	}

	value, err := d.Value(r.Value)
	if err != nil {
		return fmt.Errorf("%w in HealthKit record:\n%s", err, r)
	}

	ts, err := parse.Timestamp(r.StartDate)
	if err != nil {
		return fmt.Errorf("%w in HealthKit record:\n%s", err, r)
	}

	_, err = b.Accumulate(r.Type, d, model.Measurement{
		MsSinceUnixEpoch: ts,
		Value:            value,
		Group:            series.DefaultGroup,
		Source:           SourcePrefix + series.CamelCase(r.SourceName),
	})
	return err
}

// ImportXML streams an Apple Health export.xml document and adds every
// <Record> child of the root element to b. Other elements, and records
// nested deeper, are ignored. The first bad record
// aborts the import.
func (i *Importer) ImportXML(ctx context.Context, b *series.Batch, r io.Reader) (importer.Result, error) {
	var res importer.Result
	seriesBefore := b.Len()

	dec := xml.NewDecoder(r)
	depth := 0
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("healthkit: read xml: %w", err)
		}

		var start xml.StartElement
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			start = t
		case xml.EndElement:
			depth--
			continue
		default:
			continue
		}
		// Records nested in a Correlation repeat top-level records.
		if depth != recordDepth || start.Name.Local != recordElement {
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		rec := recordFromAttrs(start.Attr)
		if err := i.AddMeasurements(b, rec); err != nil {
			return res, fmt.Errorf("healthkit: record %d: %w", res.Records+1, err)
		}
		res.Records++
		res.Measurements++
	}

	res.SeriesCreated = b.Len() - seriesBefore
	metrics.RecordRecordsImported(Name, res.Records)
	metrics.RecordMeasurements(Name, res.Measurements)
	return res, nil
}

// ImportFile opens path and runs ImportXML over it.
func (i *Importer) ImportFile(ctx context.Context, b *series.Batch, path string) (importer.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return importer.Result{}, fmt.Errorf("healthkit: %w", err)
	}
	defer f.Close()

	start := time.Now()
	res, err := i.ImportXML(ctx, b, f)
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}

	i.log.Info(ctx, "imported healthkit export",
		logger.String("path", path),
		logger.Int("records", res.Records),
		logger.Int("series_created", res.SeriesCreated),
		logger.Duration("took", time.Since(start)),
	)
	return res, nil
}

func recordFromAttrs(attrs []xml.Attr) Record {
	var r Record
	for _, a := range attrs {
		switch a.Name.Local {
		case "type":
			r.Type = a.Value
		case "unit":
			r.Unit = a.Value
		case "value":
			r.Value = a.Value
		case "sourceName":
			r.SourceName = a.Value
		case "startDate":
			r.StartDate = a.Value
		case "endDate":
			r.EndDate = a.Value
		}
	}
	return r
}
