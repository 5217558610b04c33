package healthkit

import (
	"github.com/okian/medb/internal/domain/registry"
	"github.com/okian/medb/pkg/logger"
)

// Option applies a configuration option to the Importer.
type Option func(*Importer)

// WithRegistry replaces the built-in HealthKit type table.
func WithRegistry(r *registry.Registry) Option {
	return func(i *Importer) {
		if r != nil {
			i.registry = r
		}
	}
}

// WithLogger sets the logger used for per-file summaries.
func WithLogger(l logger.Logger) Option {
	return func(i *Importer) {
		if l != nil {
			i.log = l
		}
	}
}
