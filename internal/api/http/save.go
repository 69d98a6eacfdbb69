package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/WillyAmmm/Quote-Logger/internal/changeset"
	"github.com/WillyAmmm/Quote-Logger/internal/sink"
)

type saveRequest struct {
	Team     string           `json:"team"`
	Snapshot []sink.Row       `json:"original" binding:"required"`
	Edits    []changeset.Edit `json:"edited" binding:"required"`
}

// Save diffs the edited rows against their snapshot and pushes only the
// changed fields. Clean rows produce no traffic at all.
func (h *Handlers) Save(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}

	// Notes are free text headed for a shared log; strip any markup.
	for i := range req.Edits {
		req.Edits[i].Notes = strings.TrimSpace(h.sanitizer.Sanitize(req.Edits[i].Notes))
	}

	patches := changeset.Collect(req.Snapshot, req.Edits)
	if len(patches) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"updated": 0,
		})
		return
	}

	res, err := h.syncer.PushPatches(c.Request.Context(), patches)
	h.metrics.RecordPush("patches", err, res.Added, res.StatusUpdates, res.RateChanges)
	if err != nil {
		h.logger.Error("save sync failed", zap.Int("patches", len(patches)), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   "sync failed: " + err.Error(),
		})
		return
	}

	h.store.Warm(h.team(req.Team))

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"updated":       len(patches),
		"statusUpdates": res.StatusUpdates,
		"rateChanges":   res.RateChanges,
	})
}
