// Package http holds the REST handlers for the quote logger service.
package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/WillyAmmm/Quote-Logger/internal/config"
	"github.com/WillyAmmm/Quote-Logger/internal/extract"
	"github.com/WillyAmmm/Quote-Logger/internal/monitoring"
	"github.com/WillyAmmm/Quote-Logger/internal/sink"
	"github.com/WillyAmmm/Quote-Logger/internal/store"
)

// Syncer is the push side of the sink client.
type Syncer interface {
	PushRows(ctx context.Context, rows []sink.Row) (sink.SyncResult, error)
	PushPatches(ctx context.Context, patches []sink.Patch) (sink.SyncResult, error)
}

// Handlers wires the capture pipeline, the dataset store, and the sink
// client behind the REST surface.
type Handlers struct {
	cfg       *config.Config
	logger    *zap.Logger
	metrics   *monitoring.Metrics
	agg       *extract.Aggregator
	syncer    Syncer
	store     *store.Store
	searcher  *store.Searcher
	sanitizer *bluemonday.Policy
}

// NewHandlers creates the handler set. Notes pass through a strict HTML
// sanitizer before they leave the service.
func NewHandlers(
	cfg *config.Config,
	logger *zap.Logger,
	metrics *monitoring.Metrics,
	agg *extract.Aggregator,
	syncer Syncer,
	st *store.Store,
	searcher *store.Searcher,
) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		cfg:       cfg,
		logger:    logger,
		metrics:   metrics,
		agg:       agg,
		syncer:    syncer,
		store:     st,
		searcher:  searcher,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// team resolves an optional team override to the configured default.
func (h *Handlers) team(requested string) string {
	if requested != "" {
		return requested
	}
	return h.cfg.Sink.DefaultTeam
}

// customer resolves an optional customer override to the configured default.
func (h *Handlers) customer(requested string) string {
	if requested != "" {
		return requested
	}
	return h.cfg.Sink.DefaultCustomer
}

// Root returns service identification.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "quote-logger",
		"status":  "running",
	})
}

// Health returns service health.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}
