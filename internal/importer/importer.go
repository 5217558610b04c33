// Package importer holds what the format-specific importers share.
package importer

// Result summarizes what one import call added to a batch.
type Result struct {
	Records       int `json:"records"`
	Measurements  int `json:"measurements"`
	SeriesCreated int `json:"series_created"`
}

// Add accumulates other into r.
func (r *Result) Add(other Result) {
	r.Records += other.Records
	r.Measurements += other.Measurements
	r.SeriesCreated += other.SeriesCreated
}
