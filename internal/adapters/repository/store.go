// Package repository persists imported series collections.
package repository

import (
	"context"
	"time"

	"github.com/okian/medb/internal/domain/model"
)

// Run describes one successful import batch.
type Run struct {
	ID           string    `json:"id"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	Files        []string  `json:"files"`
	Series       int       `json:"series"`
	Measurements int       `json:"measurements"`
}

// SeriesSummary is the stored identity of a series without its measurements.
type SeriesSummary struct {
	Family       string `json:"family"`
	Name         string `json:"name"`
	Unit         string `json:"unit"`
	Measurements int    `json:"measurements"`
	RunID        string `json:"run_id"`
}

// Store provides read/write access to persisted series.
type Store interface {
	// SaveCollection writes every series of c, replacing stored series of the
	// same name, and records run as the latest run. Series absent from c are
	// left as they are.
	SaveCollection(ctx context.Context, run Run, c *model.SeriesCollection) error

	// ListSeries returns a summary of every stored series ordered by name.
	ListSeries(ctx context.Context) ([]SeriesSummary, error)

	// GetSeries returns a stored series with its measurements.
	// Returns ErrNotFound if the name is unknown.
	GetSeries(ctx context.Context, name string) (*model.Series, error)

	// LastRun returns the most recently saved run.
	// Returns ErrNotFound if nothing was saved yet.
	LastRun(ctx context.Context) (Run, error)

	// Count returns the number of stored series.
	Count(ctx context.Context) int

	Close() error
}
