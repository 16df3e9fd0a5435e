package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tourops/internal/database"
	"tourops/internal/messaging"
	"tourops/internal/models"
	"tourops/internal/repository"
	"tourops/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	gin.SetMode(gin.TestMode)

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	repos := repository.NewRepositories(&database.DB{DB: mockDB})
	services := service.NewServices(repos, messaging.Noop(), nil, service.Options{BulkStrictCapacity: true})
	h := NewHandlers(services, nil)

	r := gin.New()
	api := r.Group("/api")
	{
		assignments := api.Group("/assignments")
		{
			assignments.POST("", h.CreateAssignment)
			assignments.GET("", h.ListAssignments)
			assignments.GET("/availability", h.CheckStaffAvailability)
			assignments.GET("/:id", h.GetAssignment)
			assignments.DELETE("/:id", h.DeleteAssignment)
		}

		transports := api.Group("/transports")
		{
			transports.GET("/:id/availability", h.GetTransportAvailability)
			transports.GET("/:id/seats", h.ListUsedSeats)
		}

		seatAssignments := api.Group("/seat-assignments")
		{
			seatAssignments.POST("", h.CreateSeatAssignment)
			seatAssignments.POST("/bulk", h.BulkCreateSeatAssignments)
		}
	}

	return r, mock
}

func TestCreateAssignmentValidation(t *testing.T) {
	r, _ := setupRouter(t)

	// Missing required fields
	req, _ := http.NewRequest("POST", "/api/assignments", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown role
	body, _ := json.Marshal(models.CreateAssignmentRequest{TourDepartureID: 5, StaffID: 7, Role: "pilot"})
	req, _ = http.NewRequest("POST", "/api/assignments", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAssignmentConflictMapsTo409(t *testing.T) {
	r, mock := setupRouter(t)

	start, _ := time.Parse("2006-01-02", "2026-06-20")
	end, _ := time.Parse("2006-01-02", "2026-06-27")
	now := time.Now()

	mock.ExpectQuery("FROM departures").WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "departure_code", "title", "departure_date", "return_date", "status", "created_at", "updated_at"}).
			AddRow(5, "ALP-0620", "Alps Hiking Week", start, end, models.DepartureScheduled, now, now))
	mock.ExpectQuery("SELECT id, staff_code").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "staff_code", "full_name", "phone", "email", "is_active", "created_at", "updated_at"}).
			AddRow(7, "GD-007", "Aizhan Bekova", nil, nil, true, now, now))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM staff").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery("SELECT d.id, d.departure_code").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "departure_code", "departure_date", "return_date"}).
			AddRow(3, "FJD-0618", start.AddDate(0, 0, -2), end.AddDate(0, 0, -2)))
	mock.ExpectRollback()

	body, _ := json.Marshal(models.CreateAssignmentRequest{TourDepartureID: 5, StaffID: 7, Role: models.RoleTourGuide})
	req, _ := http.NewRequest("POST", "/api/assignments", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "FJD-0618")
}

func TestGetAssignmentNotFound(t *testing.T) {
	r, mock := setupRouter(t)

	mock.ExpectQuery("FROM staff_assignments sa").WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	req, _ := http.NewRequest("GET", "/api/assignments/99", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListAssignmentsValidation(t *testing.T) {
	r, _ := setupRouter(t)

	req, _ := http.NewRequest("GET", "/api/assignments?page=0", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req, _ = http.NewRequest("GET", "/api/assignments?pageSize=500", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req, _ = http.NewRequest("GET", "/api/assignments?confirmed=sometimes", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckStaffAvailabilityValidation(t *testing.T) {
	r, _ := setupRouter(t)

	req, _ := http.NewRequest("GET", "/api/assignments/availability", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req, _ = http.NewRequest("GET", "/api/assignments/availability?staff_id=7", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTransportAvailability(t *testing.T) {
	r, mock := setupRouter(t)

	now := time.Now()
	mock.ExpectQuery("FROM transport_legs").WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "tour_departure_id", "transport_type", "route_from", "route_to",
			"departure_datetime", "arrival_datetime", "total_seats", "assigned_guests",
			"booking_status", "driver_id", "created_at", "updated_at",
		}).AddRow(11, 5, "bus", "Almaty", "Shymkent", now, nil, 45, 43, "pending", nil, now, now))

	req, _ := http.NewRequest("GET", "/api/transports/11/availability", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.TransportAvailabilityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.AvailableSeats)
	assert.Equal(t, 2, *resp.AvailableSeats)
}

func TestCreateSeatAssignmentFullLegMapsTo409(t *testing.T) {
	r, mock := setupRouter(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT total_seats, assigned_guests FROM transport_legs").WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"total_seats", "assigned_guests"}).AddRow(45, 45))
	mock.ExpectRollback()

	body, _ := json.Marshal(models.CreateSeatAssignmentRequest{TourTransportID: 11, PassengerID: 101})
	req, _ := http.NewRequest("POST", "/api/seat-assignments", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBulkCreateDuplicateMapsTo422(t *testing.T) {
	r, mock := setupRouter(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT total_seats, assigned_guests FROM transport_legs").WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"total_seats", "assigned_guests"}).AddRow(45, 0))
	mock.ExpectRollback()

	seatNumber := "3C"
	body, _ := json.Marshal(models.BulkCreateSeatAssignmentsRequest{
		Assignments: []models.CreateSeatAssignmentRequest{
			{TourTransportID: 11, PassengerID: 101, SeatNumber: &seatNumber},
			{TourTransportID: 11, PassengerID: 102, SeatNumber: &seatNumber},
		},
	})
	req, _ := http.NewRequest("POST", "/api/seat-assignments/bulk", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestBulkCreateEmptyBatch(t *testing.T) {
	r, _ := setupRouter(t)

	req, _ := http.NewRequest("POST", "/api/seat-assignments/bulk", bytes.NewBufferString(`{"assignments": []}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteAssignmentInvalidID(t *testing.T) {
	r, _ := setupRouter(t)

	req, _ := http.NewRequest("DELETE", "/api/assignments/zero", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
