package repository

import (
	"context"
	"database/sql"

	"tourops/internal/database"
	"tourops/internal/models"
)

type TransportRepository struct {
	db *database.DB
}

func NewTransportRepository(db *database.DB) *TransportRepository {
	return &TransportRepository{db: db}
}

func (r *TransportRepository) GetByID(ctx context.Context, id int64) (*models.TransportLeg, error) {
	leg := &models.TransportLeg{}
	query := `
		SELECT id, tour_departure_id, transport_type, route_from, route_to,
		       departure_datetime, arrival_datetime, total_seats, assigned_guests,
		       booking_status, driver_id, created_at, updated_at
		FROM transport_legs
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&leg.ID,
		&leg.TourDepartureID,
		&leg.TransportType,
		&leg.RouteFrom,
		&leg.RouteTo,
		&leg.DepartureDatetime,
		&leg.ArrivalDatetime,
		&leg.TotalSeats,
		&leg.AssignedGuests,
		&leg.BookingStatus,
		&leg.DriverID,
		&leg.CreatedAt,
		&leg.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return leg, err
}

// Recompute resets a leg's assigned_guests to the authoritative count of its
// seat assignment rows. Every mutation path is forced through this one
// projection; nothing else writes the counter.
func (r *TransportRepository) Recompute(ctx context.Context, id int64) error {
	query := `
		UPDATE transport_legs
		SET assigned_guests = (SELECT COUNT(*) FROM seat_assignments WHERE tour_transport_id = $1),
		    updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// RecomputeAll repairs assigned_guests for every leg and returns the number
// of rows whose counter actually changed. Used by the offline sync job.
func (r *TransportRepository) RecomputeAll(ctx context.Context) (int64, error) {
	query := `
		UPDATE transport_legs tl
		SET assigned_guests = counts.n, updated_at = NOW()
		FROM (
			SELECT tl2.id, COUNT(sa.id) AS n
			FROM transport_legs tl2
			LEFT JOIN seat_assignments sa ON sa.tour_transport_id = tl2.id
			GROUP BY tl2.id
		) counts
		WHERE counts.id = tl.id AND tl.assigned_guests <> counts.n`

	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
