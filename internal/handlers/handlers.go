package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"tourops/internal/apperrors"
	"tourops/internal/cache"
	"tourops/internal/service"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	services     *service.Services
	valkeyClient *cache.ValkeyClient
}

func NewHandlers(services *service.Services, valkeyClient *cache.ValkeyClient) *Handlers {
	return &Handlers{
		services:     services,
		valkeyClient: valkeyClient,
	}
}

// handleServiceError translates the typed business errors into HTTP
// statuses. Anything unrecognized is a 500 with a generic message.
func handleServiceError(c *gin.Context, err error) {
	var notFound *apperrors.NotFoundError
	var scheduleConflict *apperrors.ScheduleConflictError
	var capacityExceeded *apperrors.CapacityExceededError
	var seatConflict *apperrors.SeatConflictError
	var duplicateInBatch *apperrors.DuplicateInBatchError
	var validation *apperrors.ValidationError

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &scheduleConflict):
		c.JSON(http.StatusConflict, gin.H{"error": scheduleConflict.Error()})
	case errors.As(err, &capacityExceeded):
		c.JSON(http.StatusConflict, gin.H{"error": capacityExceeded.Error()})
	case errors.As(err, &seatConflict):
		c.JSON(http.StatusConflict, gin.H{"error": seatConflict.Error()})
	case errors.As(err, &duplicateInBatch):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": duplicateInBatch.Error()})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// pathID parses the :id path parameter. Writes the 400 itself on failure.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a positive integer"})
		return 0, false
	}
	return id, true
}

// pagination parses and validates page/pageSize query parameters. Writes
// the 400 itself on failure.
func pagination(c *gin.Context, defaultPageSize, maxPageSize int) (int, int, bool) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(defaultPageSize)))

	if page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be >= 1"})
		return 0, 0, false
	}
	if pageSize < 1 || pageSize > maxPageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pageSize must be between 1 and " + strconv.Itoa(maxPageSize)})
		return 0, 0, false
	}
	return page, pageSize, true
}
