package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/WillyAmmm/Quote-Logger/internal/query"
	"github.com/WillyAmmm/Quote-Logger/internal/store"
)

type searchRequest struct {
	Team    string        `json:"team"`
	Filters query.Filters `json:"filters"`
}

// Search runs a debounced search over the team's cached dataset. A request
// superseded by a newer one answers 409 and must be discarded by the caller.
func (h *Handlers) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}

	team := h.team(req.Team)
	res, err := h.searcher.Search(c.Request.Context(), team, req.Filters)
	if err != nil {
		if errors.Is(err, store.ErrSuperseded) {
			h.metrics.RecordSearch(true)
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error":   "superseded by a newer search",
			})
			return
		}
		h.logger.Error("search failed", zap.String("team", team), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   "search failed: " + err.Error(),
		})
		return
	}
	h.metrics.RecordSearch(false)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"rows":    res.Rows,
		"total":   res.Total,
		"winRate": res.WinRate,
		"options": res.Options,
	})
}

// Options returns the filter dimensions for a team, with destinations
// cascaded from the selected origin.
func (h *Handlers) Options(c *gin.Context) {
	team := h.team(c.Query("team"))

	ds, err := h.store.Get(c.Request.Context(), team)
	if err != nil {
		h.logger.Error("options load failed", zap.String("team", team), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   "load failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"origins":   ds.Index.Origins,
		"dests":     ds.Index.DestsFor(c.Query("origin")),
		"customers": ds.Customers,
		"equipment": ds.Equipment,
	})
}

type refreshRequest struct {
	Team string `json:"team"`
}

// Refresh drops and reloads the team's cached dataset.
func (h *Handlers) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}

	team := h.team(req.Team)
	ds, err := h.store.Refresh(c.Request.Context(), team)
	if err != nil {
		h.logger.Error("refresh failed", zap.String("team", team), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   "refresh failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"rows":    len(ds.Rows),
	})
}
