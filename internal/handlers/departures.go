package handlers

import (
	"net/http"

	"tourops/internal/logger"

	"github.com/gin-gonic/gin"
)

// ListDepartures - GET /api/departures
// Quick-search over departures for assignment pickers.
func (h *Handlers) ListDepartures(c *gin.Context) {
	page, pageSize, ok := pagination(c, 20, 100)
	if !ok {
		return
	}

	query := c.Query("query")
	status := c.Query("status")

	items, err := h.services.Departures.List(c.Request.Context(), query, status, page, pageSize)
	if err != nil {
		logger.WithContext(c.Request.Context()).Error("Failed to list departures", "error", err)
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}
