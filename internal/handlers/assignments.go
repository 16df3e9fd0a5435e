package handlers

import (
	"net/http"
	"strconv"

	"tourops/internal/logger"
	"tourops/internal/models"

	"github.com/gin-gonic/gin"
)

// Staff assignment handlers

// CreateAssignment - POST /api/assignments
func (h *Handlers) CreateAssignment(c *gin.Context) {
	var req models.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.services.Assignments.Create(c.Request.Context(), &req)
	if err != nil {
		logger.WithContext(c.Request.Context()).Error("Failed to create assignment",
			"error", err, "staff_id", req.StaffID, "tour_departure_id", req.TourDepartureID)
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// ListAssignments - GET /api/assignments
func (h *Handlers) ListAssignments(c *gin.Context) {
	page, pageSize, ok := pagination(c, 20, 100)
	if !ok {
		return
	}

	filters := models.AssignmentFilters{
		Search:          c.Query("search"),
		Role:            c.Query("role"),
		DateFrom:        c.Query("date_from"),
		DateTo:          c.Query("date_to"),
		DepartureStatus: c.Query("departure_status"),
	}
	if v := c.Query("confirmed"); v != "" {
		confirmed, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "confirmed must be true or false"})
			return
		}
		filters.Confirmed = &confirmed
	}
	if v := c.Query("tour_departure_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "tour_departure_id must be an integer"})
			return
		}
		filters.TourDepartureID = &id
	}
	if v := c.Query("staff_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "staff_id must be an integer"})
			return
		}
		filters.StaffID = &id
	}

	response, err := h.services.Assignments.ListPaged(c.Request.Context(), filters, page, pageSize)
	if err != nil {
		logger.WithContext(c.Request.Context()).Error("Failed to list assignments", "error", err)
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetAssignment - GET /api/assignments/:id
func (h *Handlers) GetAssignment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	record, err := h.services.Assignments.Get(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// UpdateAssignment - PUT /api/assignments/:id
func (h *Handlers) UpdateAssignment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req models.UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var record *models.AssignmentRecord
	var err error
	if h.services.Assignments.RevalidateOnUpdate() {
		record, err = h.services.Assignments.UpdateWithRevalidation(c.Request.Context(), id, &req)
	} else {
		record, err = h.services.Assignments.Update(c.Request.Context(), id, &req)
	}
	if err != nil {
		logger.WithContext(c.Request.Context()).Error("Failed to update assignment",
			"error", err, "assignment_id", id)
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// ConfirmAssignment - PATCH /api/assignments/:id/confirm
func (h *Handlers) ConfirmAssignment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	record, err := h.services.Assignments.Confirm(c.Request.Context(), id)
	if err != nil {
		logger.WithContext(c.Request.Context()).Error("Failed to confirm assignment",
			"error", err, "assignment_id", id)
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// DeleteAssignment - DELETE /api/assignments/:id
func (h *Handlers) DeleteAssignment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.services.Assignments.Delete(c.Request.Context(), id); err != nil {
		logger.WithContext(c.Request.Context()).Error("Failed to delete assignment",
			"error", err, "assignment_id", id)
		handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CheckStaffAvailability - GET /api/assignments/availability
func (h *Handlers) CheckStaffAvailability(c *gin.Context) {
	staffID, err := strconv.ParseInt(c.Query("staff_id"), 10, 64)
	if err != nil || staffID < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "staff_id is required"})
		return
	}

	departureDate := c.Query("departure_date")
	returnDate := c.Query("return_date")
	if departureDate == "" || returnDate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "departure_date and return_date are required"})
		return
	}

	response, err := h.services.Assignments.CheckAvailability(c.Request.Context(), staffID, departureDate, returnDate)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetStaffSchedule - GET /api/staff/:id/schedule
func (h *Handlers) GetStaffSchedule(c *gin.Context) {
	staffID, ok := pathID(c)
	if !ok {
		return
	}

	dateFrom := c.Query("date_from")
	dateTo := c.Query("date_to")
	if dateFrom == "" || dateTo == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date_from and date_to are required"})
		return
	}

	records, err := h.services.Assignments.GetStaffSchedule(c.Request.Context(), staffID, dateFrom, dateTo)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": records})
}
