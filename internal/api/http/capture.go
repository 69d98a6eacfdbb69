package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/WillyAmmm/Quote-Logger/internal/extract"
	"github.com/WillyAmmm/Quote-Logger/internal/sink"
)

type captureRequest struct {
	Team     string `json:"team"`
	Customer string `json:"customer"`
	Contexts []struct {
		Label string `json:"label"`
		HTML  string `json:"html"`
	} `json:"contexts" binding:"required,min=1"`
}

// Capture extracts accepted-load rows from the submitted page contexts and
// pushes them to the sink. Extraction tolerates unparseable contexts; a sync
// failure is terminal and nothing is recorded.
func (h *Handlers) Capture(c *gin.Context) {
	var req captureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}

	contexts := make([]extract.Context, len(req.Contexts))
	for i, pc := range req.Contexts {
		contexts[i] = extract.Context{Label: pc.Label, HTML: pc.HTML}
	}

	records := h.agg.Aggregate(c.Request.Context(), contexts)
	h.metrics.RecordCapture(len(records))
	if len(records) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error":   "no quotable rows found in the submitted contexts",
		})
		return
	}

	team := h.team(req.Team)
	customer := h.customer(req.Customer)
	now := time.Now()
	rows := make([]sink.Row, len(records))
	for i, rec := range records {
		rows[i] = sink.FullRow(rec, team, customer, now)
	}

	res, err := h.syncer.PushRows(c.Request.Context(), rows)
	h.metrics.RecordPush("rows", err, res.Added, res.StatusUpdates, res.RateChanges)
	if err != nil {
		h.logger.Error("capture sync failed", zap.String("team", team), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   "sync failed: " + err.Error(),
		})
		return
	}

	h.store.Warm(team)

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"scraped":       len(rows),
		"added":         res.Added,
		"statusUpdates": res.StatusUpdates,
		"rateChanges":   res.RateChanges,
	})
}
