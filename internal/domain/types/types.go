// Package types contains the read shapes shared by the service and the API.
package types

import "time"

// SeriesSummary describes a stored series without its measurements.
type SeriesSummary struct {
	Family       string `json:"family"`
	Name         string `json:"name"`
	Unit         string `json:"unit"`
	Measurements int    `json:"measurements"`
	RunID        string `json:"run_id,omitempty"`
}

// RunSummary describes a finished import run.
type RunSummary struct {
	ID           string        `json:"id"`
	StartedAt    time.Time     `json:"started_at"`
	Duration     time.Duration `json:"duration_ns"`
	Files        []string      `json:"files"`
	Skipped      []string      `json:"skipped,omitempty"`
	Series       int           `json:"series"`
	Measurements int           `json:"measurements"`
}
