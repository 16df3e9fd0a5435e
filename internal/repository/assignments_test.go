package repository

import (
	"context"
	"testing"
	"time"

	"tourops/internal/apperrors"
	"tourops/internal/database"
	"tourops/internal/models"
	"tourops/internal/schedule"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*database.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return &database.DB{DB: mockDB}, mock
}

func day(t *testing.T, s string) time.Time {
	parsed, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return parsed
}

func TestCreateCheckedRejectsOverlappingWindow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssignmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM staff").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery("SELECT d.id, d.departure_code").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "departure_code", "departure_date", "return_date"}).
			AddRow(3, "ALP-0615", day(t, "2026-06-15"), day(t, "2026-06-22")))
	mock.ExpectRollback()

	assignment := &models.StaffAssignment{
		TourDepartureID: 5,
		StaffID:         7,
		Role:            models.RoleTourGuide,
		AssignmentDate:  day(t, "2026-06-20"),
	}
	window := schedule.Window{Start: day(t, "2026-06-20"), End: day(t, "2026-06-27")}

	err := repo.CreateChecked(context.Background(), assignment, window)

	var conflict *apperrors.ScheduleConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, int64(7), conflict.StaffID)
	assert.Equal(t, "ALP-0615", conflict.DepartureCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCheckedBoundaryDayConflicts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssignmentRepository(db)

	// Held window ends 2026-06-20; the candidate starts the same day.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM staff").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery("SELECT d.id, d.departure_code").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "departure_code", "departure_date", "return_date"}).
			AddRow(3, "ALP-0613", day(t, "2026-06-13"), day(t, "2026-06-20")))
	mock.ExpectRollback()

	assignment := &models.StaffAssignment{TourDepartureID: 5, StaffID: 7, Role: models.RoleDriver, AssignmentDate: day(t, "2026-06-20")}
	window := schedule.Window{Start: day(t, "2026-06-20"), End: day(t, "2026-06-27")}

	err := repo.CreateChecked(context.Background(), assignment, window)

	var conflict *apperrors.ScheduleConflictError
	require.ErrorAs(t, err, &conflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCheckedInsertsWhenFree(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssignmentRepository(db)

	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM staff").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	// The windows query already filters out cancelled and completed
	// departures, so a staff member whose only other trip was cancelled
	// comes back with no rows here.
	mock.ExpectQuery("SELECT d.id, d.departure_code").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "departure_code", "departure_date", "return_date"}))
	mock.ExpectQuery("INSERT INTO staff_assignments").
		WithArgs(int64(5), int64(7), models.RoleTourLeader, day(t, "2026-06-20"), nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "confirmed", "created_at", "updated_at"}).
			AddRow(42, false, now, now))
	mock.ExpectCommit()

	assignment := &models.StaffAssignment{
		TourDepartureID: 5,
		StaffID:         7,
		Role:            models.RoleTourLeader,
		AssignmentDate:  day(t, "2026-06-20"),
	}
	window := schedule.Window{Start: day(t, "2026-06-20"), End: day(t, "2026-06-27")}

	err := repo.CreateChecked(context.Background(), assignment, window)

	require.NoError(t, err)
	assert.Equal(t, int64(42), assignment.ID)
	assert.False(t, assignment.Confirmed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActiveWindowsExcludesDeparture(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssignmentRepository(db)

	excludeID := int64(3)
	mock.ExpectQuery("SELECT d.id, d.departure_code").WithArgs(int64(7), excludeID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "departure_code", "departure_date", "return_date"}).
			AddRow(9, "FJD-0701", day(t, "2026-07-01"), day(t, "2026-07-08")))

	windows, err := repo.ActiveWindows(context.Background(), 7, &excludeID)

	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, int64(9), windows[0].DepartureID)
	assert.Equal(t, "FJD-0701", windows[0].DepartureCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmReportsMissingRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssignmentRepository(db)

	mock.ExpectExec("UPDATE staff_assignments").WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	confirmed, err := repo.Confirm(context.Background(), 99)

	require.NoError(t, err)
	assert.False(t, confirmed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmKeepsFirstConfirmationTime(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssignmentRepository(db)

	// Both calls must issue the COALESCE form, so confirming an already
	// confirmed row never moves confirmed_at.
	confirmQuery := `UPDATE staff_assignments\s+SET confirmed = TRUE, confirmed_at = COALESCE\(confirmed_at, NOW\(\)\)`
	mock.ExpectExec(confirmQuery).WithArgs(int64(42)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(confirmQuery).WithArgs(int64(42)).WillReturnResult(sqlmock.NewResult(0, 1))

	first, err := repo.Confirm(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := repo.Confirm(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, second)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteReturnsReferences(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssignmentRepository(db)

	mock.ExpectQuery("DELETE FROM staff_assignments").WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"tour_departure_id", "staff_id"}).AddRow(5, 7))

	deleted, err := repo.Delete(context.Background(), 42)

	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Equal(t, int64(5), deleted.TourDepartureID)
	assert.Equal(t, int64(7), deleted.StaffID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
