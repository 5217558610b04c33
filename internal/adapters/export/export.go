// Package export writes a series collection as a JSON document, optionally
// zstd-compressed.
package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/okian/medb/internal/domain/model"
	"github.com/okian/medb/pkg/logger"
)

// CompressedSuffix selects zstd framing in WriteFile and ReadFile.
const CompressedSuffix = ".zst"

const defaultLevel = zstd.SpeedDefault

// ErrNilCollection is returned when there is nothing to export.
var ErrNilCollection = errors.New("nil series collection")

// Exporter serializes collections.
type Exporter struct {
	level zstd.EncoderLevel
	log   logger.Logger
}

// Option applies a configuration option to the Exporter.
type Option func(*Exporter)

// WithLevel sets the compression level, from 1 (fastest) to 4 (smallest).
// Out of range levels keep the default.
func WithLevel(level int) Option {
	return func(e *Exporter) {
		if l := zstd.EncoderLevel(level); l >= zstd.SpeedFastest && l <= zstd.SpeedBestCompression {
			e.level = l
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.log = l
		}
	}
}

// New returns an Exporter.
func New(opts ...Option) *Exporter {
	e := &Exporter{
		level: defaultLevel,
		log:   logger.Named("export"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Write encodes c to w, inside a zstd frame when compressed is set.
func (e *Exporter) Write(w io.Writer, c *model.SeriesCollection, compressed bool) error {
	if c == nil {
		return ErrNilCollection
	}
	if !compressed {
		return json.NewEncoder(w).Encode(c)
	}

	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(e.level))
	if err != nil {
		return fmt.Errorf("export: zstd writer: %w", err)
	}
	if err := json.NewEncoder(zw).Encode(c); err != nil {
		_ = zw.Close()
		return fmt.Errorf("export: encode: %w", err)
	}
	return zw.Close()
}

// WriteFile writes c to path through a temporary file in the same directory,
// so readers never observe a partial document.
func (e *Exporter) WriteFile(ctx context.Context, path string, c *model.SeriesCollection) error {
	start := time.Now()

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := e.Write(tmp, c, strings.HasSuffix(path, CompressedSuffix)); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	e.log.Info(ctx, "exported series collection",
		logger.String("path", path),
		logger.Int("series", c.Len()),
		logger.Int("measurements", c.MeasurementCount()),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}

// Read decodes a document produced by Write.
func Read(r io.Reader, compressed bool) (*model.SeriesCollection, error) {
	if compressed {
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("export: zstd reader: %w", err)
		}
		defer zr.Close()
		r = zr
	}

	var c model.SeriesCollection
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("export: decode: %w", err)
	}
	return &c, nil
}

// ReadFile reads a document written by WriteFile.
func ReadFile(path string) (*model.SeriesCollection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	defer f.Close()
	return Read(f, strings.HasSuffix(path, CompressedSuffix))
}
