// Package apperrors defines the business error taxonomy for the scheduling
// and seating core. Handlers inspect these with errors.As to pick an HTTP
// status; everything else is treated as an opaque infrastructure failure.
package apperrors

import "fmt"

// NotFoundError reports a missing departure, staff member, transport leg or
// seat assignment.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// ScheduleConflictError reports that a staff member is already committed to
// a departure whose date window overlaps the candidate one. DepartureCode is
// the colliding departure's human-readable code, for user display.
type ScheduleConflictError struct {
	StaffID       int64
	DepartureCode string
}

func (e *ScheduleConflictError) Error() string {
	return fmt.Sprintf("staff %d already assigned to overlapping departure %s", e.StaffID, e.DepartureCode)
}

// CapacityExceededError reports that a transport leg has no remaining seats.
type CapacityExceededError struct {
	TransportID int64
	TotalSeats  int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("transport %d is full (%d seats)", e.TransportID, e.TotalSeats)
}

// SeatConflictError reports that the requested seat number is already
// occupied on the target leg.
type SeatConflictError struct {
	TransportID int64
	SeatNumber  string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seat %s is already taken on transport %d", e.SeatNumber, e.TransportID)
}

// DuplicateInBatchError reports that a bulk request assigns the same seat
// number twice for the same leg.
type DuplicateInBatchError struct {
	TransportID int64
	SeatNumber  string
}

func (e *DuplicateInBatchError) Error() string {
	return fmt.Sprintf("seat %s appears more than once for transport %d in batch", e.SeatNumber, e.TransportID)
}

// ValidationError reports malformed input caught before any business rule.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
