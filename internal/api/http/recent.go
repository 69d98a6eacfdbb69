package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recent returns the newest rows for a team straight from the sink.
func (h *Handlers) Recent(c *gin.Context) {
	team := h.team(c.Query("team"))
	limit := h.cfg.Sink.RecentLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "limit must be a positive integer",
			})
			return
		}
		limit = n
	}

	rows, err := h.store.Recent(c.Request.Context(), team, limit)
	h.metrics.RecordFetch(err)
	if err != nil {
		h.logger.Error("recent fetch failed", zap.String("team", team), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   "fetch failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"rows":    rows,
	})
}
