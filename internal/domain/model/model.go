// Package model contains the canonical time-series types produced by an import batch.
package model

// Measurement is one timestamped, grouped, sourced observation of a Series.
type Measurement struct {
	MsSinceUnixEpoch int64  `json:"ms_since_unix_epoch"`
	Value            int64  `json:"value"`
	Group            string `json:"group"`
	Source           string `json:"source"`
}

// Series is a named, unit-typed sequence of measurements. Measurements are
// kept in insertion order, which is not necessarily time order.
type Series struct {
	Family       string        `json:"family"`
	Name         string        `json:"name"`
	Unit         string        `json:"unit"`
	Measurements []Measurement `json:"measurements"`
}

// Add appends a measurement.
func (s *Series) Add(m Measurement) {
	s.Measurements = append(s.Measurements, m)
}

// Len returns the number of measurements.
func (s *Series) Len() int {
	return len(s.Measurements)
}

// SeriesCollection is the append-only output of one import batch.
type SeriesCollection struct {
	Series []*Series `json:"series"`
}

// Append adds a series to the end of the collection.
func (c *SeriesCollection) Append(s *Series) {
	c.Series = append(c.Series, s)
}

// Len returns the number of series.
func (c *SeriesCollection) Len() int {
	return len(c.Series)
}

// MeasurementCount returns the number of measurements across all series.
func (c *SeriesCollection) MeasurementCount() int {
	n := 0
	for _, s := range c.Series {
		n += s.Len()
	}
	return n
}

// Find returns the series with the given canonical name.
func (c *SeriesCollection) Find(name string) (*Series, bool) {
	for _, s := range c.Series {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}
