package service

import (
	"github.com/okian/medb/internal/adapters/export"
	"github.com/okian/medb/internal/adapters/repository"
	"github.com/okian/medb/internal/importer/healthkit"
	"github.com/okian/medb/internal/importer/lifecycle"
	"github.com/okian/medb/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets where successful runs are persisted. Without a store a run
// only validates and optionally exports.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithExportPath writes every successful run's collection to path.
func WithExportPath(path string) Option {
	return func(s *Service) {
		s.exportPath = path
	}
}

// WithExporter replaces the default exporter.
func WithExporter(e *export.Exporter) Option {
	return func(s *Service) {
		if e != nil {
			s.exporter = e
		}
	}
}

// WithHealthKitImporter replaces the default HealthKit importer.
func WithHealthKitImporter(i *healthkit.Importer) Option {
	return func(s *Service) {
		if i != nil {
			s.healthKit = i
		}
	}
}

// WithLifeCycleImporter replaces the default LifeCycle importer.
func WithLifeCycleImporter(i *lifecycle.Importer) Option {
	return func(s *Service) {
		if i != nil {
			s.lifeCycle = i
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
