package extract

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/WillyAmmm/Quote-Logger/internal/record"
)

// Context is one independently captured document scope, typically a frame of
// the bidding page. Label is informational only.
type Context struct {
	Label string
	HTML  string
}

// Aggregator extracts across multiple page contexts and merges the results.
type Aggregator struct {
	logger *zap.Logger
}

// NewAggregator creates an aggregator. A nil logger is replaced with a no-op.
func NewAggregator(logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{logger: logger}
}

// Aggregate runs extraction once per context, issued concurrently, and merges
// the results in context order with first-seen-wins dedup by LoadID. A
// context that cannot be parsed contributes zero records; partial success is
// expected. The output is deterministic for a given context ordering.
func (a *Aggregator) Aggregate(ctx context.Context, contexts []Context) []record.Record {
	results := make([][]record.Record, len(contexts))

	var wg sync.WaitGroup
	for i, c := range contexts {
		wg.Add(1)
		go func(i int, c Context) {
			defer wg.Done()
			select {
			case <-ctx.Done():
				return
			default:
			}
			doc, err := Load(c.HTML)
			if err != nil {
				a.logger.Warn("context not inspectable, skipping",
					zap.String("context", c.Label),
					zap.Error(err),
				)
				return
			}
			results[i] = Extract(doc)
		}(i, c)
	}
	wg.Wait()

	merged := make([]record.Record, 0)
	for i, recs := range results {
		if len(recs) > 0 {
			a.logger.Debug("context extracted",
				zap.String("context", contexts[i].Label),
				zap.Int("rows", len(recs)),
			)
		}
		merged = append(merged, recs...)
	}
	return record.Dedupe(merged)
}
