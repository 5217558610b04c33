// Package series accumulates normalized measurements into the series of one
// import batch.
package series

import (
	"fmt"

	"github.com/okian/medb/internal/domain/model"
	"github.com/okian/medb/internal/domain/registry"
)

// Batch owns the SeriesCollection of a single import run together with the
// key to Series index used for repeat lookups. A Batch is not safe for
// concurrent use; one importer drives it at a time.
type Batch struct {
	collection *model.SeriesCollection
	index      map[string]*model.Series
	owners     map[string]string // canonical name -> key
}

// NewBatch returns an empty batch.
func NewBatch() *Batch {
	return &Batch{
		collection: &model.SeriesCollection{},
		index:      make(map[string]*model.Series),
		owners:     make(map[string]string),
	}
}

// Resolve returns the series registered under key, creating and appending it
// from d on first use. Later calls with the same key return the same
// instance and ignore d.
func (b *Batch) Resolve(key string, d registry.Descriptor) (*model.Series, error) {
	if s, ok := b.index[key]; ok {
		return s, nil
	}
	if owner, ok := b.owners[d.Name]; ok {
		return nil, fmt.Errorf("%w: %q already created by %q, requested by %q",
			ErrNameCollision, d.Name, owner, key)
	}

	s := &model.Series{Family: d.Family, Name: d.Name, Unit: d.Unit}
	b.collection.Append(s)
	b.index[key] = s
	b.owners[d.Name] = key
	return s, nil
}

// Accumulate appends m to the series for key, creating it if needed.
func (b *Batch) Accumulate(key string, d registry.Descriptor, m model.Measurement) (*model.Series, error) {
	s, err := b.Resolve(key, d)
	if err != nil {
		return nil, err
	}
	s.Add(m)
	return s, nil
}

// Lookup returns the series for key without creating it.
func (b *Batch) Lookup(key string) (*model.Series, bool) {
	s, ok := b.index[key]
	return s, ok
}

// Collection returns the batch output. The caller must not mutate it while
// the batch is still being filled.
func (b *Batch) Collection() *model.SeriesCollection {
	return b.collection
}

// Len returns the number of series created so far.
func (b *Batch) Len() int {
	return b.collection.Len()
}
