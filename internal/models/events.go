package models

import "time"

// NATS subjects
const (
	EventAssignmentCreated   = "assignment.created"
	EventAssignmentConfirmed = "assignment.confirmed"
	EventAssignmentDeleted   = "assignment.deleted"
	EventSeatAssigned        = "seat.assigned"
	EventSeatReleased        = "seat.released"
	EventSeatsBulkAssigned   = "seat.bulk_assigned"
)

// AssignmentCreatedEvent is published after a staff assignment is inserted.
type AssignmentCreatedEvent struct {
	AssignmentID    int64     `json:"assignment_id"`
	TourDepartureID int64     `json:"tour_departure_id"`
	StaffID         int64     `json:"staff_id"`
	Role            string    `json:"role"`
	Timestamp       time.Time `json:"timestamp"`
}

// AssignmentConfirmedEvent is published after a one-way confirm transition.
type AssignmentConfirmedEvent struct {
	AssignmentID  int64     `json:"assignment_id"`
	StaffID       int64     `json:"staff_id"`
	DepartureCode string    `json:"departure_code"`
	Timestamp     time.Time `json:"timestamp"`
}

// AssignmentDeletedEvent is published after a hard delete.
type AssignmentDeletedEvent struct {
	AssignmentID    int64     `json:"assignment_id"`
	TourDepartureID int64     `json:"tour_departure_id"`
	StaffID         int64     `json:"staff_id"`
	Timestamp       time.Time `json:"timestamp"`
}

// SeatAssignedEvent is published after a passenger is seated on a leg.
type SeatAssignedEvent struct {
	SeatAssignmentID int64     `json:"seat_assignment_id"`
	TourTransportID  int64     `json:"tour_transport_id"`
	PassengerID      int64     `json:"passenger_id"`
	SeatNumber       *string   `json:"seat_number"`
	Timestamp        time.Time `json:"timestamp"`
}

// SeatReleasedEvent is published after a seat assignment is removed.
type SeatReleasedEvent struct {
	SeatAssignmentID int64     `json:"seat_assignment_id"`
	TourTransportID  int64     `json:"tour_transport_id"`
	Timestamp        time.Time `json:"timestamp"`
}

// SeatsBulkAssignedEvent is published once per successful batch.
type SeatsBulkAssignedEvent struct {
	TransportIDs []int64   `json:"transport_ids"`
	Created      int       `json:"created"`
	Timestamp    time.Time `json:"timestamp"`
}
