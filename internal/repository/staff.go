package repository

import (
	"context"
	"database/sql"

	"tourops/internal/database"
	"tourops/internal/models"
)

type StaffRepository struct {
	db *database.DB
}

func NewStaffRepository(db *database.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

func (r *StaffRepository) GetByID(ctx context.Context, id int64) (*models.Staff, error) {
	staff := &models.Staff{}
	query := `
		SELECT id, staff_code, full_name, phone, email, is_active, created_at, updated_at
		FROM staff
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&staff.ID,
		&staff.StaffCode,
		&staff.FullName,
		&staff.Phone,
		&staff.Email,
		&staff.IsActive,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return staff, err
}

func (r *StaffRepository) GetGuestByID(ctx context.Context, id int64) (*models.Guest, error) {
	guest := &models.Guest{}
	query := `
		SELECT id, full_name, phone, document_number, created_at
		FROM guests
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&guest.ID,
		&guest.FullName,
		&guest.Phone,
		&guest.DocumentNumber,
		&guest.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return guest, err
}
