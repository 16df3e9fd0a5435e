package handlers

import (
	"net/http"

	"tourops/internal/logger"

	"github.com/gin-gonic/gin"
)

// Transport capacity handlers

// GetTransportAvailability - GET /api/transports/:id/availability
func (h *Handlers) GetTransportAvailability(c *gin.Context) {
	legID, ok := pathID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	// Read-through cache: the raw JSON is served as-is on a hit, the miss
	// path populates it after the database read.
	if h.valkeyClient != nil {
		rawJSON, err := h.valkeyClient.GetAvailabilityRaw(ctx, legID)
		if err == nil {
			c.Data(http.StatusOK, "application/json", rawJSON)
			return
		}
	}

	response, err := h.services.Transports.GetAvailability(ctx, legID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if h.valkeyClient != nil {
		if err := h.valkeyClient.SetAvailability(ctx, legID, response); err != nil {
			logger.WithContext(ctx).Warn("Failed to cache availability",
				"error", err, "transport_id", legID)
		}
	}

	c.JSON(http.StatusOK, response)
}

// RecomputeTransport - POST /api/transports/:id/recompute
func (h *Handlers) RecomputeTransport(c *gin.Context) {
	legID, ok := pathID(c)
	if !ok {
		return
	}

	response, err := h.services.Transports.Recompute(c.Request.Context(), legID)
	if err != nil {
		logger.WithContext(c.Request.Context()).Error("Failed to recompute transport",
			"error", err, "transport_id", legID)
		handleServiceError(c, err)
		return
	}

	h.dropAvailabilityCache(c, legID)
	c.JSON(http.StatusOK, response)
}
