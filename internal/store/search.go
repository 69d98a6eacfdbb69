package store

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/WillyAmmm/Quote-Logger/internal/query"
	"github.com/WillyAmmm/Quote-Logger/internal/sink"
)

// ErrSuperseded reports that a newer search was issued while this one was
// pending. The superseded result must never be surfaced.
var ErrSuperseded = errors.New("search superseded by a newer request")

// Options are the filter dimensions offered alongside a result set.
// Destinations cascade from the searched origin.
type Options struct {
	Customers []string `json:"customers"`
	Origins   []string `json:"origins"`
	Dests     []string `json:"dests"`
	Equipment []string `json:"equipment"`
}

// SearchResult carries the display rows plus statistics over the full
// filtered population, which may be larger than the display window.
type SearchResult struct {
	Rows    []sink.Row    `json:"rows"`
	Total   int           `json:"total"`
	WinRate query.WinRate `json:"winRate"`
	Options Options       `json:"options"`
}

// Searcher serializes searches per process: each submission takes a
// monotonically increasing sequence number, waits out a debounce period, and
// completes only if it is still the newest. Rapid refiling therefore
// coalesces to one executed search, and responses never arrive out of order.
type Searcher struct {
	store    *Store
	seq      atomic.Uint64
	debounce time.Duration
	topN     int
	window   time.Duration
}

// NewSearcher wraps the store. Zero values fall back to the defaults the UI
// was tuned for: 150ms debounce, 10 display rows, 30-day stats window.
func NewSearcher(store *Store, debounce time.Duration, topN int, window time.Duration) *Searcher {
	if debounce <= 0 {
		debounce = 150 * time.Millisecond
	}
	if topN <= 0 {
		topN = 10
	}
	if window <= 0 {
		window = query.DefaultWindow
	}
	return &Searcher{store: store, debounce: debounce, topN: topN, window: window}
}

// Search runs a debounced search for one team. It returns ErrSuperseded if a
// newer Search call was made at any point before the result was assembled.
func (s *Searcher) Search(ctx context.Context, team string, f query.Filters) (SearchResult, error) {
	my := s.seq.Add(1)

	timer := time.NewTimer(s.debounce)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return SearchResult{}, ctx.Err()
	}
	if s.seq.Load() != my {
		return SearchResult{}, ErrSuperseded
	}

	ds, err := s.store.Get(ctx, team)
	if err != nil {
		return SearchResult{}, err
	}
	if s.seq.Load() != my {
		return SearchResult{}, ErrSuperseded
	}

	filtered := query.Apply(ds.Rows, f)
	ranked := query.Rank(filtered)
	return SearchResult{
		Rows:    query.Top(ranked, s.topN),
		Total:   len(filtered),
		WinRate: query.ComputeWinRate(filtered, time.Now(), s.window),
		Options: Options{
			Customers: ds.Customers,
			Origins:   ds.Index.Origins,
			Dests:     ds.Index.DestsFor(f.Origin),
			Equipment: ds.Equipment,
		},
	}, nil
}
