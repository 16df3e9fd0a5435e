package repository

import (
	"context"
	"database/sql"
	"fmt"

	"tourops/internal/database"
	"tourops/internal/models"
)

type DepartureRepository struct {
	db *database.DB
}

func NewDepartureRepository(db *database.DB) *DepartureRepository {
	return &DepartureRepository{db: db}
}

func (r *DepartureRepository) GetByID(ctx context.Context, id int64) (*models.Departure, error) {
	departure := &models.Departure{}
	query := `
		SELECT id, departure_code, title, departure_date, return_date, status, created_at, updated_at
		FROM departures
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&departure.ID,
		&departure.DepartureCode,
		&departure.Title,
		&departure.DepartureDate,
		&departure.ReturnDate,
		&departure.Status,
		&departure.CreatedAt,
		&departure.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return departure, err
}

func (r *DepartureRepository) List(ctx context.Context, query string, status string, page, pageSize int) ([]models.Departure, error) {
	var departures []models.Departure
	var args []interface{}
	argIndex := 1

	sqlQuery := `
		SELECT id, departure_code, title, departure_date, return_date, status, created_at, updated_at
		FROM departures
		WHERE 1=1`

	if query != "" {
		sqlQuery += fmt.Sprintf(" AND (departure_code ILIKE '%%' || $%d || '%%' OR title ILIKE '%%' || $%d || '%%')", argIndex, argIndex)
		args = append(args, query)
		argIndex++
	}

	if status != "" {
		sqlQuery += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, status)
		argIndex++
	}

	sqlQuery += " ORDER BY departure_date DESC"

	if page > 0 && pageSize > 0 {
		offset := (page - 1) * pageSize
		sqlQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, pageSize, offset)
	}

	rows, err := r.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var departure models.Departure
		err := rows.Scan(
			&departure.ID,
			&departure.DepartureCode,
			&departure.Title,
			&departure.DepartureDate,
			&departure.ReturnDate,
			&departure.Status,
			&departure.CreatedAt,
			&departure.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		departures = append(departures, departure)
	}

	return departures, rows.Err()
}

// GetByIDs loads departures for a set of ids, used to hydrate search hits.
func (r *DepartureRepository) GetByIDs(ctx context.Context, ids []int64) ([]models.Departure, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var departures []models.Departure
	args := make([]interface{}, len(ids))
	placeholders := ""
	for i, id := range ids {
		if i > 0 {
			placeholders += ", "
		}
		placeholders += fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT id, departure_code, title, departure_date, return_date, status, created_at, updated_at
		FROM departures
		WHERE id IN (%s)
		ORDER BY departure_date DESC`, placeholders)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var departure models.Departure
		err := rows.Scan(
			&departure.ID,
			&departure.DepartureCode,
			&departure.Title,
			&departure.DepartureDate,
			&departure.ReturnDate,
			&departure.Status,
			&departure.CreatedAt,
			&departure.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		departures = append(departures, departure)
	}

	return departures, rows.Err()
}
