package lifecycle

import (
	"github.com/okian/medb/internal/domain/registry"
	"github.com/okian/medb/pkg/logger"
)

// Option applies a configuration option to the Importer.
type Option func(*Importer)

// WithLogger sets the logger used for per-file summaries.
func WithLogger(l logger.Logger) Option {
	return func(i *Importer) {
		if l != nil {
			i.log = l
		}
	}
}

// WithFamily overrides the family assigned to every LifeCycle series.
func WithFamily(family string) Option {
	return func(i *Importer) {
		if family != "" {
			i.family = family
		}
	}
}

// WithReservedNames sets the registry whose canonical names LifeCycle series
// must not take. Defaults to the HealthKit registry; nil disables the check.
func WithReservedNames(r *registry.Registry) Option {
	return func(i *Importer) {
		i.reserved = r
	}
}
