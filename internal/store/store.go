// Package store caches the remote quote log per team and answers searches
// against the cached dataset. Loads are deduplicated so a burst of requests
// for a cold team costs one fetch.
package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/WillyAmmm/Quote-Logger/internal/index"
	"github.com/WillyAmmm/Quote-Logger/internal/sink"
)

// Fetcher is the slice of the sink client the store needs.
type Fetcher interface {
	Fetch(ctx context.Context, team string, limit int) ([]sink.Row, error)
}

// Dataset is one team's cached bulk pull plus its derived lookup structures.
type Dataset struct {
	Rows      []sink.Row
	Index     *index.Index
	Customers []string
	Equipment []string
	LoadedAt  time.Time
}

// Store holds one Dataset per team. Entries live until Invalidate; staleness
// is accepted between explicit refreshes.
type Store struct {
	fetcher Fetcher
	limit   int
	logger  *zap.Logger

	mu    sync.RWMutex
	cache map[string]*Dataset
	group singleflight.Group
}

// New builds a store over the fetcher. limit caps the bulk pull size.
func New(fetcher Fetcher, limit int, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		fetcher: fetcher,
		limit:   limit,
		logger:  logger,
		cache:   map[string]*Dataset{},
	}
}

// Get returns the team's dataset, loading it on a miss. Concurrent misses
// for the same team share a single fetch.
func (s *Store) Get(ctx context.Context, team string) (*Dataset, error) {
	s.mu.RLock()
	ds := s.cache[team]
	s.mu.RUnlock()
	if ds != nil {
		return ds, nil
	}

	v, err, shared := s.group.Do(team, func() (any, error) {
		return s.load(ctx, team)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug("coalesced dataset load", zap.String("team", team))
	}
	return v.(*Dataset), nil
}

func (s *Store) load(ctx context.Context, team string) (*Dataset, error) {
	start := time.Now()
	rows, err := s.fetcher.Fetch(ctx, team, s.limit)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{
		Rows:      rows,
		Index:     index.Build(rows),
		Customers: index.Distinct(rows, func(r sink.Row) string { return r.Customer }),
		Equipment: index.Distinct(rows, func(r sink.Row) string { return r.Equipment }),
		LoadedAt:  time.Now(),
	}

	s.mu.Lock()
	s.cache[team] = ds
	s.mu.Unlock()

	s.logger.Info("loaded team dataset",
		zap.String("team", team),
		zap.Int("rows", len(rows)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return ds, nil
}

// Invalidate drops the team's cached dataset so the next Get refetches.
func (s *Store) Invalidate(team string) {
	s.mu.Lock()
	delete(s.cache, team)
	s.mu.Unlock()
}

// Warm drops the team's dataset and reloads it in the background, so the
// next search finds a fresh cache without paying for the fetch.
func (s *Store) Warm(team string) {
	s.Invalidate(team)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := s.Get(ctx, team); err != nil {
			s.logger.Warn("background warm failed", zap.String("team", team), zap.Error(err))
		}
	}()
}

// Refresh drops and immediately reloads the team's dataset.
func (s *Store) Refresh(ctx context.Context, team string) (*Dataset, error) {
	s.Invalidate(team)
	return s.Get(ctx, team)
}

// Recent fetches the team's newest rows directly, bypassing the cache. The
// recent view always reflects the sink.
func (s *Store) Recent(ctx context.Context, team string, limit int) ([]sink.Row, error) {
	return s.fetcher.Fetch(ctx, team, limit)
}
