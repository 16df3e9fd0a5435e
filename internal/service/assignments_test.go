package service

import (
	"context"
	"testing"
	"time"

	"tourops/internal/apperrors"
	"tourops/internal/database"
	"tourops/internal/messaging"
	"tourops/internal/models"
	"tourops/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServices(t *testing.T, opts Options) (*Services, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	repos := repository.NewRepositories(&database.DB{DB: mockDB})
	return NewServices(repos, messaging.Noop(), nil, opts), mock
}

func day(t *testing.T, s string) time.Time {
	parsed, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return parsed
}

func departureRow(id int64, code string, start, end time.Time) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "departure_code", "title", "departure_date", "return_date", "status", "created_at", "updated_at"}).
		AddRow(id, code, "Alps Hiking Week", start, end, models.DepartureScheduled, now, now)
}

func staffRow(id int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "staff_code", "full_name", "phone", "email", "is_active", "created_at", "updated_at"}).
		AddRow(id, "GD-007", "Aizhan Bekova", nil, nil, true, now, now)
}

func TestCreateAssignmentUnknownDeparture(t *testing.T) {
	services, mock := newTestServices(t, Options{})

	mock.ExpectQuery("FROM departures").WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "departure_code", "title", "departure_date", "return_date", "status", "created_at", "updated_at"}))

	req := &models.CreateAssignmentRequest{TourDepartureID: 99, StaffID: 7, Role: models.RoleTourGuide}
	_, err := services.Assignments.Create(context.Background(), req)

	var notFound *apperrors.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "departure", notFound.Resource)
}

func TestCreateAssignmentRejectsUnknownRole(t *testing.T) {
	services, _ := newTestServices(t, Options{})

	req := &models.CreateAssignmentRequest{TourDepartureID: 5, StaffID: 7, Role: "pilot"}
	_, err := services.Assignments.Create(context.Background(), req)

	var validation *apperrors.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "role", validation.Field)
}

func TestCreateAssignmentDefaultsDateToDeparture(t *testing.T) {
	services, mock := newTestServices(t, Options{})

	start := day(t, "2026-06-20")
	end := day(t, "2026-06-27")
	now := time.Now()

	mock.ExpectQuery("FROM departures").WithArgs(int64(5)).
		WillReturnRows(departureRow(5, "ALP-0620", start, end))
	mock.ExpectQuery("SELECT id, staff_code").WithArgs(int64(7)).
		WillReturnRows(staffRow(7))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM staff").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery("SELECT d.id, d.departure_code").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "departure_code", "departure_date", "return_date"}))
	// The assignment date argument must be the departure date, since the
	// request left it empty.
	mock.ExpectQuery("INSERT INTO staff_assignments").
		WithArgs(int64(5), int64(7), models.RoleTourGuide, start, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "confirmed", "created_at", "updated_at"}).
			AddRow(42, false, now, now))
	mock.ExpectCommit()

	mock.ExpectQuery("FROM staff_assignments sa").WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "tour_departure_id", "staff_id", "role", "assignment_date",
			"confirmed", "confirmed_at", "notes", "created_by", "created_at", "updated_at",
			"staff_code", "full_name", "departure_code", "departure_date", "return_date", "status", "created_by_name",
		}).AddRow(42, 5, 7, models.RoleTourGuide, start, false, nil, nil, nil, now, now,
			"GD-007", "Aizhan Bekova", "ALP-0620", start, end, models.DepartureScheduled, nil))

	req := &models.CreateAssignmentRequest{TourDepartureID: 5, StaffID: 7, Role: models.RoleTourGuide}
	record, err := services.Assignments.Create(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, int64(42), record.ID)
	assert.Equal(t, "ALP-0620", record.DepartureCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckAvailabilityReportsConflict(t *testing.T) {
	services, mock := newTestServices(t, Options{})

	mock.ExpectQuery("SELECT id, staff_code").WithArgs(int64(7)).
		WillReturnRows(staffRow(7))
	mock.ExpectQuery("SELECT d.id, d.departure_code").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "departure_code", "departure_date", "return_date"}).
			AddRow(3, "ALP-0615", day(t, "2026-06-15"), day(t, "2026-06-22")))

	resp, err := services.Assignments.CheckAvailability(context.Background(), 7, "2026-06-20", "2026-06-27")

	require.NoError(t, err)
	assert.False(t, resp.Available)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckAvailabilityRejectsInvertedRange(t *testing.T) {
	services, _ := newTestServices(t, Options{})

	_, err := services.Assignments.CheckAvailability(context.Background(), 7, "2026-06-27", "2026-06-20")

	var validation *apperrors.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "return_date", validation.Field)
}

func TestConfirmMissingAssignment(t *testing.T) {
	services, mock := newTestServices(t, Options{})

	mock.ExpectExec("UPDATE staff_assignments").WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := services.Assignments.Confirm(context.Background(), 99)

	var notFound *apperrors.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
