package repository

import (
	"context"
	"database/sql"
	"sort"

	"tourops/internal/apperrors"
	"tourops/internal/database"
	"tourops/internal/models"
)

type SeatAssignmentRepository struct {
	db *database.DB
}

func NewSeatAssignmentRepository(db *database.DB) *SeatAssignmentRepository {
	return &SeatAssignmentRepository{db: db}
}

// lockLeg loads a leg's capacity numbers under FOR UPDATE so every
// check-then-write on the same leg serializes. Returns a NotFoundError when
// the leg does not exist.
func lockLeg(ctx context.Context, tx *sql.Tx, legID int64) (totalSeats *int, assignedGuests int, err error) {
	query := `SELECT total_seats, assigned_guests FROM transport_legs WHERE id = $1 FOR UPDATE`
	err = tx.QueryRowContext(ctx, query, legID).Scan(&totalSeats, &assignedGuests)
	if err == sql.ErrNoRows {
		return nil, 0, &apperrors.NotFoundError{Resource: "transport leg", ID: legID}
	}
	return totalSeats, assignedGuests, err
}

// rowQuerier is satisfied by both *sql.Tx and *database.DB, so the seat
// uniqueness predicate can run inside a write transaction or standalone.
type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// seatTakenTx reports whether a seat number is occupied on a leg, optionally
// ignoring one row (the row being updated). Every uniqueness check, on the
// create path and the update path alike, goes through this one predicate.
func seatTakenTx(ctx context.Context, q rowQuerier, legID int64, seatNumber string, excludeID *int64) (bool, error) {
	var taken bool
	var err error

	if excludeID != nil {
		query := `
			SELECT EXISTS (
				SELECT 1 FROM seat_assignments
				WHERE tour_transport_id = $1 AND seat_number = $2 AND id <> $3
			)`
		err = q.QueryRowContext(ctx, query, legID, seatNumber, *excludeID).Scan(&taken)
	} else {
		query := `
			SELECT EXISTS (
				SELECT 1 FROM seat_assignments
				WHERE tour_transport_id = $1 AND seat_number = $2
			)`
		err = q.QueryRowContext(ctx, query, legID, seatNumber).Scan(&taken)
	}

	return taken, err
}

// recomputeLeg refreshes the assigned_guests projection inside the same
// transaction as the triggering write, so readers never observe a row
// without its count.
func recomputeLeg(ctx context.Context, tx *sql.Tx, legID int64) error {
	query := `
		UPDATE transport_legs
		SET assigned_guests = (SELECT COUNT(*) FROM seat_assignments WHERE tour_transport_id = $1),
		    updated_at = NOW()
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, query, legID)
	return err
}

// CreateChecked seats one passenger: capacity and seat-uniqueness checks run
// under the leg's row lock, then the insert and the counter recompute commit
// together.
func (r *SeatAssignmentRepository) CreateChecked(ctx context.Context, seat *models.SeatAssignment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	totalSeats, assignedGuests, err := lockLeg(ctx, tx, seat.TourTransportID)
	if err != nil {
		return err
	}

	if totalSeats != nil && assignedGuests >= *totalSeats {
		return &apperrors.CapacityExceededError{TransportID: seat.TourTransportID, TotalSeats: *totalSeats}
	}

	if seat.SeatNumber != nil {
		taken, err := seatTakenTx(ctx, tx, seat.TourTransportID, *seat.SeatNumber, nil)
		if err != nil {
			return err
		}
		if taken {
			return &apperrors.SeatConflictError{TransportID: seat.TourTransportID, SeatNumber: *seat.SeatNumber}
		}
	}

	insertQuery := `
		INSERT INTO seat_assignments (tour_transport_id, passenger_id, seat_number, ticket_number,
		                              baggage_count, baggage_notes, special_needs, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err = tx.QueryRowContext(ctx, insertQuery,
		seat.TourTransportID,
		seat.PassengerID,
		seat.SeatNumber,
		seat.TicketNumber,
		seat.BaggageCount,
		seat.BaggageNotes,
		seat.SpecialNeeds,
		seat.Notes,
	).Scan(&seat.ID, &seat.CreatedAt, &seat.UpdatedAt)
	if err != nil {
		return err
	}

	if err := recomputeLeg(ctx, tx, seat.TourTransportID); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateChecked applies field edits to a seat assignment. A changed seat
// number is re-validated against the same leg, ignoring the row itself. The
// owning leg never changes, so the counter needs no recompute.
func (r *SeatAssignmentRepository) UpdateChecked(ctx context.Context, seat *models.SeatAssignment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, _, err := lockLeg(ctx, tx, seat.TourTransportID); err != nil {
		return err
	}

	if seat.SeatNumber != nil {
		taken, err := seatTakenTx(ctx, tx, seat.TourTransportID, *seat.SeatNumber, &seat.ID)
		if err != nil {
			return err
		}
		if taken {
			return &apperrors.SeatConflictError{TransportID: seat.TourTransportID, SeatNumber: *seat.SeatNumber}
		}
	}

	updateQuery := `
		UPDATE seat_assignments
		SET seat_number = $1, ticket_number = $2, baggage_count = $3,
		    baggage_notes = $4, special_needs = $5, notes = $6, updated_at = NOW()
		WHERE id = $7`

	result, err := tx.ExecContext(ctx, updateQuery,
		seat.SeatNumber,
		seat.TicketNumber,
		seat.BaggageCount,
		seat.BaggageNotes,
		seat.SpecialNeeds,
		seat.Notes,
		seat.ID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &apperrors.NotFoundError{Resource: "seat assignment", ID: seat.ID}
	}

	return tx.Commit()
}

// Delete removes a seat assignment and recomputes the owning leg's counter
// in the same transaction. Returns the leg id for cache invalidation.
func (r *SeatAssignmentRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var legID int64
	deleteQuery := `DELETE FROM seat_assignments WHERE id = $1 RETURNING tour_transport_id`
	err = tx.QueryRowContext(ctx, deleteQuery, id).Scan(&legID)
	if err == sql.ErrNoRows {
		return 0, &apperrors.NotFoundError{Resource: "seat assignment", ID: id}
	}
	if err != nil {
		return 0, err
	}

	if err := recomputeLeg(ctx, tx, legID); err != nil {
		return 0, err
	}

	return legID, tx.Commit()
}

// BulkCreateChecked validates an entire batch before any write, then inserts
// every row and recomputes every touched leg inside one transaction. A
// failed item rejects the whole batch. Legs are locked in ascending id order
// so concurrent batches cannot deadlock. When strictCapacity is set, the
// batch is also rejected if it would overshoot any leg's remaining seats.
func (r *SeatAssignmentRepository) BulkCreateChecked(ctx context.Context, seats []models.SeatAssignment, strictCapacity bool) ([]int64, error) {
	legIDs := distinctLegIDs(seats)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	capacity := make(map[int64]*int, len(legIDs))
	occupied := make(map[int64]int, len(legIDs))
	for _, legID := range legIDs {
		totalSeats, assignedGuests, err := lockLeg(ctx, tx, legID)
		if err != nil {
			return nil, err
		}
		capacity[legID] = totalSeats
		occupied[legID] = assignedGuests
	}

	// In-batch duplicates
	seen := make(map[int64]map[string]bool)
	for _, seat := range seats {
		if seat.SeatNumber == nil {
			continue
		}
		if seen[seat.TourTransportID] == nil {
			seen[seat.TourTransportID] = make(map[string]bool)
		}
		if seen[seat.TourTransportID][*seat.SeatNumber] {
			return nil, &apperrors.DuplicateInBatchError{TransportID: seat.TourTransportID, SeatNumber: *seat.SeatNumber}
		}
		seen[seat.TourTransportID][*seat.SeatNumber] = true
	}

	// Conflicts with existing rows
	for _, legID := range legIDs {
		if seen[legID] == nil {
			continue
		}
		existing, err := usedSeatsTx(ctx, tx, legID)
		if err != nil {
			return nil, err
		}
		for _, seatNumber := range existing {
			if seen[legID][seatNumber] {
				return nil, &apperrors.SeatConflictError{TransportID: legID, SeatNumber: seatNumber}
			}
		}
	}

	if strictCapacity {
		newCount := make(map[int64]int, len(legIDs))
		for _, seat := range seats {
			newCount[seat.TourTransportID]++
		}
		for _, legID := range legIDs {
			if total := capacity[legID]; total != nil && occupied[legID]+newCount[legID] > *total {
				return nil, &apperrors.CapacityExceededError{TransportID: legID, TotalSeats: *total}
			}
		}
	}

	insertQuery := `
		INSERT INTO seat_assignments (tour_transport_id, passenger_id, seat_number, ticket_number,
		                              baggage_count, baggage_notes, special_needs, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for _, seat := range seats {
		_, err := tx.ExecContext(ctx, insertQuery,
			seat.TourTransportID,
			seat.PassengerID,
			seat.SeatNumber,
			seat.TicketNumber,
			seat.BaggageCount,
			seat.BaggageNotes,
			seat.SpecialNeeds,
			seat.Notes,
		)
		if err != nil {
			return nil, err
		}
	}

	for _, legID := range legIDs {
		if err := recomputeLeg(ctx, tx, legID); err != nil {
			return nil, err
		}
	}

	return legIDs, tx.Commit()
}

func distinctLegIDs(seats []models.SeatAssignment) []int64 {
	set := make(map[int64]bool, len(seats))
	for _, seat := range seats {
		set[seat.TourTransportID] = true
	}
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func usedSeatsTx(ctx context.Context, tx *sql.Tx, legID int64) ([]string, error) {
	query := `
		SELECT seat_number FROM seat_assignments
		WHERE tour_transport_id = $1 AND seat_number IS NOT NULL
		ORDER BY seat_number`

	rows, err := tx.QueryContext(ctx, query, legID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seatNumbers []string
	for rows.Next() {
		var seatNumber string
		if err := rows.Scan(&seatNumber); err != nil {
			return nil, err
		}
		seatNumbers = append(seatNumbers, seatNumber)
	}
	return seatNumbers, rows.Err()
}

func (r *SeatAssignmentRepository) GetByID(ctx context.Context, id int64) (*models.SeatAssignment, error) {
	seat := &models.SeatAssignment{}
	query := `
		SELECT id, tour_transport_id, passenger_id, seat_number, ticket_number,
		       baggage_count, baggage_notes, special_needs, notes, created_at, updated_at
		FROM seat_assignments
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&seat.ID,
		&seat.TourTransportID,
		&seat.PassengerID,
		&seat.SeatNumber,
		&seat.TicketNumber,
		&seat.BaggageCount,
		&seat.BaggageNotes,
		&seat.SpecialNeeds,
		&seat.Notes,
		&seat.CreatedAt,
		&seat.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return seat, err
}

func (r *SeatAssignmentRepository) GetRecordByID(ctx context.Context, id int64) (*models.SeatAssignmentRecord, error) {
	record := &models.SeatAssignmentRecord{}
	query := `
		SELECT sa.id, sa.tour_transport_id, sa.passenger_id, sa.seat_number, sa.ticket_number,
		       sa.baggage_count, sa.baggage_notes, sa.special_needs, sa.notes, sa.created_at, sa.updated_at,
		       g.full_name, tl.transport_type, tl.route_from, tl.route_to
		FROM seat_assignments sa
		JOIN guests g ON g.id = sa.passenger_id
		JOIN transport_legs tl ON tl.id = sa.tour_transport_id
		WHERE sa.id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&record.ID,
		&record.TourTransportID,
		&record.PassengerID,
		&record.SeatNumber,
		&record.TicketNumber,
		&record.BaggageCount,
		&record.BaggageNotes,
		&record.SpecialNeeds,
		&record.Notes,
		&record.CreatedAt,
		&record.UpdatedAt,
		&record.PassengerName,
		&record.TransportType,
		&record.RouteFrom,
		&record.RouteTo,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return record, err
}

// UsedSeats returns the sorted non-null seat numbers occupied on a leg.
func (r *SeatAssignmentRepository) UsedSeats(ctx context.Context, legID int64) ([]string, error) {
	query := `
		SELECT seat_number FROM seat_assignments
		WHERE tour_transport_id = $1 AND seat_number IS NOT NULL
		ORDER BY seat_number`

	rows, err := r.db.QueryContext(ctx, query, legID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seatNumbers []string
	for rows.Next() {
		var seatNumber string
		if err := rows.Scan(&seatNumber); err != nil {
			return nil, err
		}
		seatNumbers = append(seatNumbers, seatNumber)
	}
	return seatNumbers, rows.Err()
}

// IsSeatTaken exposes the uniqueness predicate outside a transaction, for
// read-only pre-checks before attempting a create or update.
func (r *SeatAssignmentRepository) IsSeatTaken(ctx context.Context, legID int64, seatNumber string, excludeID *int64) (bool, error) {
	return seatTakenTx(ctx, r.db, legID, seatNumber, excludeID)
}
