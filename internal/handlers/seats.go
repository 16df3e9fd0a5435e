package handlers

import (
	"net/http"

	"tourops/internal/logger"
	"tourops/internal/models"

	"github.com/gin-gonic/gin"
)

// Seat assignment handlers

// CreateSeatAssignment - POST /api/seat-assignments
func (h *Handlers) CreateSeatAssignment(c *gin.Context) {
	var req models.CreateSeatAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.services.Seats.Create(c.Request.Context(), &req)
	if err != nil {
		logger.WithContext(c.Request.Context()).Error("Failed to create seat assignment",
			"error", err, "tour_transport_id", req.TourTransportID)
		handleServiceError(c, err)
		return
	}

	h.dropAvailabilityCache(c, req.TourTransportID)
	c.JSON(http.StatusCreated, record)
}

// GetSeatAssignment - GET /api/seat-assignments/:id
func (h *Handlers) GetSeatAssignment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	record, err := h.services.Seats.Get(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// UpdateSeatAssignment - PUT /api/seat-assignments/:id
func (h *Handlers) UpdateSeatAssignment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req models.UpdateSeatAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.services.Seats.Update(c.Request.Context(), id, &req)
	if err != nil {
		logger.WithContext(c.Request.Context()).Error("Failed to update seat assignment",
			"error", err, "seat_assignment_id", id)
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// DeleteSeatAssignment - DELETE /api/seat-assignments/:id
func (h *Handlers) DeleteSeatAssignment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	legID, err := h.services.Seats.Delete(c.Request.Context(), id)
	if err != nil {
		logger.WithContext(c.Request.Context()).Error("Failed to delete seat assignment",
			"error", err, "seat_assignment_id", id)
		handleServiceError(c, err)
		return
	}

	h.dropAvailabilityCache(c, legID)
	c.Status(http.StatusNoContent)
}

// BulkCreateSeatAssignments - POST /api/seat-assignments/bulk
func (h *Handlers) BulkCreateSeatAssignments(c *gin.Context) {
	var req models.BulkCreateSeatAssignmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, legIDs, err := h.services.Seats.BulkCreate(c.Request.Context(), &req)
	if err != nil {
		logger.WithContext(c.Request.Context()).Error("Failed to bulk create seat assignments",
			"error", err, "count", len(req.Assignments))
		handleServiceError(c, err)
		return
	}

	h.dropAvailabilityCache(c, legIDs...)
	c.JSON(http.StatusCreated, response)
}

// ListUsedSeats - GET /api/transports/:id/seats
func (h *Handlers) ListUsedSeats(c *gin.Context) {
	legID, ok := pathID(c)
	if !ok {
		return
	}

	seats, err := h.services.Seats.UsedSeats(c.Request.Context(), legID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transport_id": legID, "used_seats": seats})
}

// dropAvailabilityCache invalidates the cached availability for the legs a
// mutation touched. Cache trouble is logged and otherwise ignored.
func (h *Handlers) dropAvailabilityCache(c *gin.Context, legIDs ...int64) {
	if h.valkeyClient == nil || len(legIDs) == 0 {
		return
	}
	if err := h.valkeyClient.InvalidateAvailability(c.Request.Context(), legIDs...); err != nil {
		logger.WithContext(c.Request.Context()).Warn("Failed to invalidate availability cache",
			"error", err, "transport_ids", legIDs)
	}
}
