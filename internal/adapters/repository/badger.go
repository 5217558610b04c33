package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/okian/medb/internal/domain/model"
	"github.com/okian/medb/pkg/logger"
	"github.com/okian/medb/pkg/metrics"
)

// Key layout. Series bodies and their summaries live under separate prefixes
// so listing never decodes measurements.
const (
	seriesPrefix = "series/"
	metaPrefix   = "meta/"
	runPrefix    = "run/"
	lastRunKey   = "lastrun"
)

const (
	defaultGCInterval = 5 * time.Minute
	gcDiscardRatio    = 0.5
)

// BadgerStore is a Store backed by BadgerDB.
type BadgerStore struct {
	mu     sync.RWMutex
	db     *badger.DB
	codec  *codec
	closed bool

	inMemory         bool
	compressionLevel int
	gcInterval       time.Duration
	log              logger.Logger

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewBadgerStore opens (or creates) a store at path. ctx bounds the
// background value-log GC loop.
func NewBadgerStore(ctx context.Context, path string, opts ...Option) (*BadgerStore, error) {
	s := &BadgerStore{
		compressionLevel: defaultCompressionLevel,
		gcInterval:       defaultGCInterval,
		log:              logger.Named("repository"),
		stopCh:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	bopts := badger.DefaultOptions(path)
	if s.inMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts = bopts.WithLogger(badgerLogger{ctx: ctx, log: s.log})

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	c, err := newCodec(s.compressionLevel)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.db = db
	s.codec = c

	s.startGC(ctx)
	metrics.UpdateStoreSeries(s.Count(ctx))

	return s, nil
}

// SaveCollection implements Store.
func (s *BadgerStore) SaveCollection(ctx context.Context, run Run, c *model.SeriesCollection) error {
	if c == nil {
		return ErrNilInput
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	start := time.Now()
	wb := s.db.NewWriteBatch()

	set := func(key string, v any) error {
		data, err := s.codec.encode(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		return wb.Set([]byte(key), data)
	}

	for _, sr := range c.Series {
		if err := set(seriesPrefix+sr.Name, sr); err != nil {
			wb.Cancel()
			return err
		}
		summary := SeriesSummary{
			Family:       sr.Family,
			Name:         sr.Name,
			Unit:         sr.Unit,
			Measurements: sr.Len(),
			RunID:        run.ID,
		}
		if err := set(metaPrefix+sr.Name, summary); err != nil {
			wb.Cancel()
			return err
		}
	}
	if err := set(runPrefix+run.ID, run); err != nil {
		wb.Cancel()
		return err
	}
	if err := wb.Set([]byte(lastRunKey), []byte(run.ID)); err != nil {
		wb.Cancel()
		return err
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	metrics.RecordStoreWriteLatency(float64(time.Since(start).Milliseconds()))
	metrics.UpdateStoreSeries(s.count())
	return nil
}

// ListSeries implements Store.
func (s *BadgerStore) ListSeries(ctx context.Context) ([]SeriesSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	out := []SeriesSummary{}
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{
			PrefetchValues: true,
			PrefetchSize:   100,
			Prefix:         []byte(metaPrefix),
		})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var summary SeriesSummary
			err := it.Item().Value(func(val []byte) error {
				return s.codec.decode(val, &summary)
			})
			if err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			out = append(out, summary)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetSeries implements Store.
func (s *BadgerStore) GetSeries(ctx context.Context, name string) (*model.Series, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	var sr model.Series
	if err := s.get(seriesPrefix+name, &sr); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: series %q", ErrNotFound, name)
		}
		return nil, err
	}
	return &sr, nil
}

// LastRun implements Store.
func (s *BadgerStore) LastRun(ctx context.Context) (Run, error) {
	if err := ctx.Err(); err != nil {
		return Run{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return Run{}, ErrClosed
	}

	var id []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(lastRunKey))
		if err != nil {
			return err
		}
		id, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Run{}, fmt.Errorf("%w: no runs saved", ErrNotFound)
	}
	if err != nil {
		return Run{}, err
	}

	var run Run
	if err := s.get(runPrefix+string(id), &run); err != nil {
		return Run{}, err
	}
	return run, nil
}

// Count implements Store. A closed store counts zero.
func (s *BadgerStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0
	}
	return s.count()
}

// Close stops the GC loop and closes the database. It is safe to call twice.
func (s *BadgerStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	close(s.stopCh)
	s.wg.Wait()
	s.codec.close()
	return s.db.Close()
}

// get decodes the value at key into v. Must be called with s.mu held.
func (s *BadgerStore) get(key string, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return s.codec.decode(val, v)
		})
	})
}

// count walks series summaries without loading values. Must be called with
// s.mu held.
func (s *BadgerStore) count() int {
	n := 0
	_ = s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte(metaPrefix)})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n
}

func (s *BadgerStore) startGC(ctx context.Context) {
	if s.gcInterval <= 0 || s.inMemory {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.gcInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			case <-ticker.C:
				s.runGC(ctx)
			}
		}
	}()
}

func (s *BadgerStore) runGC(ctx context.Context) {
	for {
		err := s.db.RunValueLogGC(gcDiscardRatio)
		if err == nil {
			continue
		}
		if !errors.Is(err, badger.ErrNoRewrite) && !errors.Is(err, badger.ErrRejected) {
			s.log.Warn(ctx, "value log gc failed", logger.Error(err))
		}
		return
	}
}

// badgerLogger routes badger's printf-style logging into our logger. Badger
// is chatty at info level, so info is demoted to debug.
type badgerLogger struct {
	ctx context.Context
	log logger.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error(l.ctx, strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn(l.ctx, strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug(l.ctx, strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Debug(l.ctx, strings.TrimSpace(fmt.Sprintf(format, args...)))
}
