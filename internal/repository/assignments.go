package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tourops/internal/apperrors"
	"tourops/internal/database"
	"tourops/internal/models"
	"tourops/internal/schedule"
)

type AssignmentRepository struct {
	db *database.DB
}

func NewAssignmentRepository(db *database.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

const assignmentRecordColumns = `
	sa.id, sa.tour_departure_id, sa.staff_id, sa.role, sa.assignment_date,
	sa.confirmed, sa.confirmed_at, sa.notes, sa.created_by, sa.created_at, sa.updated_at,
	s.staff_code, s.full_name,
	d.departure_code, d.departure_date, d.return_date, d.status,
	u.first_name || ' ' || u.surname`

const assignmentRecordJoins = `
	FROM staff_assignments sa
	JOIN staff s ON s.id = sa.staff_id
	JOIN departures d ON d.id = sa.tour_departure_id
	LEFT JOIN users u ON u.user_id = sa.created_by`

func scanAssignmentRecord(scanner interface{ Scan(...interface{}) error }) (*models.AssignmentRecord, error) {
	record := &models.AssignmentRecord{}
	err := scanner.Scan(
		&record.ID,
		&record.TourDepartureID,
		&record.StaffID,
		&record.Role,
		&record.AssignmentDate,
		&record.Confirmed,
		&record.ConfirmedAt,
		&record.Notes,
		&record.CreatedBy,
		&record.CreatedAt,
		&record.UpdatedAt,
		&record.StaffCode,
		&record.StaffName,
		&record.DepartureCode,
		&record.DepartureDate,
		&record.ReturnDate,
		&record.DepartureStatus,
		&record.CreatedByName,
	)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ActiveWindows returns the departure windows of every assignment held by a
// staff member whose parent departure still blocks the schedule (anything
// not cancelled or completed). excludeDepartureID removes one departure
// from consideration, for in-place date edits.
func (r *AssignmentRepository) ActiveWindows(ctx context.Context, staffID int64, excludeDepartureID *int64) ([]models.StaffWindow, error) {
	var args []interface{}
	argIndex := 1

	query := `
		SELECT d.id, d.departure_code, d.departure_date, d.return_date
		FROM staff_assignments sa
		JOIN departures d ON d.id = sa.tour_departure_id
		WHERE sa.staff_id = $1
		  AND d.status NOT IN ('cancelled', 'completed')`
	args = append(args, staffID)
	argIndex++

	if excludeDepartureID != nil {
		query += fmt.Sprintf(" AND sa.tour_departure_id <> $%d", argIndex)
		args = append(args, *excludeDepartureID)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanStaffWindows(rows)
}

func scanStaffWindows(rows *sql.Rows) ([]models.StaffWindow, error) {
	var windows []models.StaffWindow
	for rows.Next() {
		var w models.StaffWindow
		if err := rows.Scan(&w.DepartureID, &w.DepartureCode, &w.Window.Start, &w.Window.End); err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}
	return windows, rows.Err()
}

// CreateChecked inserts a staff assignment after re-running the availability
// check inside the same transaction, holding a row lock on the staff member
// so two concurrent creates for the same person serialize. Returns a
// ScheduleConflictError when the candidate window overlaps a held one.
func (r *AssignmentRepository) CreateChecked(ctx context.Context, assignment *models.StaffAssignment, window schedule.Window) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Serialize concurrent creates for the same staff member
	var lockedID int64
	lockQuery := `SELECT id FROM staff WHERE id = $1 FOR UPDATE`
	if err := tx.QueryRowContext(ctx, lockQuery, assignment.StaffID).Scan(&lockedID); err != nil {
		return err
	}

	windowsQuery := `
		SELECT d.id, d.departure_code, d.departure_date, d.return_date
		FROM staff_assignments sa
		JOIN departures d ON d.id = sa.tour_departure_id
		WHERE sa.staff_id = $1
		  AND d.status NOT IN ('cancelled', 'completed')`

	rows, err := tx.QueryContext(ctx, windowsQuery, assignment.StaffID)
	if err != nil {
		return err
	}
	windows, err := scanStaffWindows(rows)
	rows.Close()
	if err != nil {
		return err
	}

	for _, w := range windows {
		if window.OverlapsWindow(w.Window) {
			return &apperrors.ScheduleConflictError{
				StaffID:       assignment.StaffID,
				DepartureCode: w.DepartureCode,
			}
		}
	}

	insertQuery := `
		INSERT INTO staff_assignments (tour_departure_id, staff_id, role, assignment_date, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, confirmed, created_at, updated_at`

	err = tx.QueryRowContext(ctx, insertQuery,
		assignment.TourDepartureID,
		assignment.StaffID,
		assignment.Role,
		assignment.AssignmentDate,
		assignment.Notes,
		assignment.CreatedBy,
	).Scan(&assignment.ID, &assignment.Confirmed, &assignment.CreatedAt, &assignment.UpdatedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *AssignmentRepository) GetByID(ctx context.Context, id int64) (*models.StaffAssignment, error) {
	assignment := &models.StaffAssignment{}
	query := `
		SELECT id, tour_departure_id, staff_id, role, assignment_date,
		       confirmed, confirmed_at, notes, created_by, created_at, updated_at
		FROM staff_assignments
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&assignment.ID,
		&assignment.TourDepartureID,
		&assignment.StaffID,
		&assignment.Role,
		&assignment.AssignmentDate,
		&assignment.Confirmed,
		&assignment.ConfirmedAt,
		&assignment.Notes,
		&assignment.CreatedBy,
		&assignment.CreatedAt,
		&assignment.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return assignment, err
}

func (r *AssignmentRepository) GetRecordByID(ctx context.Context, id int64) (*models.AssignmentRecord, error) {
	query := "SELECT" + assignmentRecordColumns + assignmentRecordJoins + " WHERE sa.id = $1"

	record, err := scanAssignmentRecord(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *AssignmentRepository) Update(ctx context.Context, id int64, role string, assignmentDate time.Time, notes *string) (bool, error) {
	query := `
		UPDATE staff_assignments
		SET role = $1, assignment_date = $2, notes = $3, updated_at = NOW()
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, role, assignmentDate, notes, id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	return affected > 0, err
}

// Confirm flips the one-way confirmed flag. COALESCE keeps the first
// confirmation time on repeated calls.
func (r *AssignmentRepository) Confirm(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE staff_assignments
		SET confirmed = TRUE, confirmed_at = COALESCE(confirmed_at, NOW()), updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	return affected > 0, err
}

// Delete removes an assignment and returns its references for the deletion
// event payload.
func (r *AssignmentRepository) Delete(ctx context.Context, id int64) (*models.StaffAssignment, error) {
	deleted := &models.StaffAssignment{ID: id}
	query := `
		DELETE FROM staff_assignments
		WHERE id = $1
		RETURNING tour_departure_id, staff_id`

	err := r.db.QueryRowContext(ctx, query, id).Scan(&deleted.TourDepartureID, &deleted.StaffID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func buildAssignmentFilters(filters models.AssignmentFilters) (string, []interface{}) {
	where := " WHERE 1=1"
	var args []interface{}
	argIndex := 1

	if filters.Search != "" {
		where += fmt.Sprintf(
			" AND (s.full_name ILIKE '%%' || $%d || '%%' OR s.staff_code ILIKE '%%' || $%d || '%%' OR d.departure_code ILIKE '%%' || $%d || '%%')",
			argIndex, argIndex, argIndex)
		args = append(args, filters.Search)
		argIndex++
	}

	if filters.Role != "" {
		where += fmt.Sprintf(" AND sa.role = $%d", argIndex)
		args = append(args, filters.Role)
		argIndex++
	}

	if filters.Confirmed != nil {
		where += fmt.Sprintf(" AND sa.confirmed = $%d", argIndex)
		args = append(args, *filters.Confirmed)
		argIndex++
	}

	if filters.TourDepartureID != nil {
		where += fmt.Sprintf(" AND sa.tour_departure_id = $%d", argIndex)
		args = append(args, *filters.TourDepartureID)
		argIndex++
	}

	if filters.StaffID != nil {
		where += fmt.Sprintf(" AND sa.staff_id = $%d", argIndex)
		args = append(args, *filters.StaffID)
		argIndex++
	}

	if filters.DateFrom != "" {
		where += fmt.Sprintf(" AND d.departure_date >= $%d", argIndex)
		args = append(args, filters.DateFrom)
		argIndex++
	}

	if filters.DateTo != "" {
		where += fmt.Sprintf(" AND d.return_date <= $%d", argIndex)
		args = append(args, filters.DateTo)
		argIndex++
	}

	if filters.DepartureStatus != "" {
		where += fmt.Sprintf(" AND d.status = $%d", argIndex)
		args = append(args, filters.DepartureStatus)
		argIndex++
	}

	return where, args
}

// ListPaged returns one page of joined assignment rows plus the unpaged
// total, sorted by departure date then creation time, newest first.
func (r *AssignmentRepository) ListPaged(ctx context.Context, filters models.AssignmentFilters, page, pageSize int) ([]models.AssignmentRecord, int64, error) {
	where, args := buildAssignmentFilters(filters)

	countQuery := "SELECT COUNT(*)" + assignmentRecordJoins + where
	var total int64
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT" + assignmentRecordColumns + assignmentRecordJoins + where +
		" ORDER BY d.departure_date DESC, sa.created_at DESC"

	argIndex := len(args) + 1
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var records []models.AssignmentRecord
	for rows.Next() {
		record, err := scanAssignmentRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, *record)
	}

	return records, total, rows.Err()
}

// StaffSchedule returns all non-cancelled assignments for a staff member
// whose departure window lies within [dateFrom, dateTo].
func (r *AssignmentRepository) StaffSchedule(ctx context.Context, staffID int64, dateFrom, dateTo string) ([]models.AssignmentRecord, error) {
	query := "SELECT" + assignmentRecordColumns + assignmentRecordJoins + `
		WHERE sa.staff_id = $1
		  AND d.status <> 'cancelled'
		  AND d.departure_date >= $2
		  AND d.return_date <= $3
		ORDER BY d.departure_date ASC, sa.assignment_date ASC`

	rows, err := r.db.QueryContext(ctx, query, staffID, dateFrom, dateTo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.AssignmentRecord
	for rows.Next() {
		record, err := scanAssignmentRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	return records, rows.Err()
}
