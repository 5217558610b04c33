package repository

import (
	"time"

	"github.com/okian/medb/pkg/logger"
)

// Option applies a configuration option to the BadgerStore.
type Option func(*BadgerStore)

// WithInMemory keeps all data in memory. The path passed to NewBadgerStore
// is ignored.
func WithInMemory() Option {
	return func(s *BadgerStore) {
		s.inMemory = true
	}
}

// WithCompressionLevel sets the zstd level of stored values, from 1
// (fastest) to 4 (smallest).
func WithCompressionLevel(level int) Option {
	return func(s *BadgerStore) {
		if level >= minCompressionLevel && level <= maxCompressionLevel {
			s.compressionLevel = level
		}
	}
}

// WithGCInterval sets how often the value log is garbage collected.
// Zero disables the background loop.
func WithGCInterval(interval time.Duration) Option {
	return func(s *BadgerStore) {
		if interval >= 0 {
			s.gcInterval = interval
		}
	}
}

// WithLogger sets the logger that also receives badger's own messages.
func WithLogger(l logger.Logger) Option {
	return func(s *BadgerStore) {
		if l != nil {
			s.log = l
		}
	}
}
