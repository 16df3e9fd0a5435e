package models

// CreateAssignmentRequest is the payload for assigning staff to a departure.
// AssignmentDate is a YYYY-MM-DD date; when empty it defaults to the
// departure date of the referenced departure.
type CreateAssignmentRequest struct {
	TourDepartureID int64  `json:"tour_departure_id" binding:"required"`
	StaffID         int64  `json:"staff_id" binding:"required"`
	Role            string `json:"role" binding:"required"`
	AssignmentDate  string `json:"assignment_date,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// UpdateAssignmentRequest carries field-level edits. Nil fields are left
// untouched. Staff and departure references are immutable after create.
type UpdateAssignmentRequest struct {
	Role           *string `json:"role,omitempty"`
	AssignmentDate *string `json:"assignment_date,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

// AssignmentFilters are the ListAssignments query parameters.
type AssignmentFilters struct {
	Search          string
	Role            string
	Confirmed       *bool
	TourDepartureID *int64
	StaffID         *int64
	DateFrom        string
	DateTo          string
	DepartureStatus string
}

// PagedAssignmentsResponse is one page of joined assignment rows plus
// pagination metadata.
type PagedAssignmentsResponse struct {
	Items      []AssignmentRecord `json:"items"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	TotalItems int64              `json:"totalItems"`
	TotalPages int64              `json:"totalPages"`
}

// AvailabilityResponse is the result of a staff availability pre-check.
type AvailabilityResponse struct {
	StaffID   int64 `json:"staff_id"`
	Available bool  `json:"available"`
}

// TransportAvailabilityResponse mirrors the capacity tracker's view of a
// leg. AvailableSeats is nil when the leg has no declared capacity.
type TransportAvailabilityResponse struct {
	TransportID    int64 `json:"transport_id"`
	TotalSeats     *int  `json:"total_seats"`
	AssignedGuests int   `json:"assigned_guests"`
	AvailableSeats *int  `json:"available_seats"`
}

// CreateSeatAssignmentRequest is the payload for seating one passenger on a
// transport leg.
type CreateSeatAssignmentRequest struct {
	TourTransportID int64   `json:"tour_transport_id" binding:"required"`
	PassengerID     int64   `json:"passenger_id" binding:"required"`
	SeatNumber      *string `json:"seat_number,omitempty"`
	TicketNumber    *string `json:"ticket_number,omitempty"`
	BaggageCount    int     `json:"baggage_count,omitempty"`
	BaggageNotes    *string `json:"baggage_notes,omitempty"`
	SpecialNeeds    *string `json:"special_needs,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// UpdateSeatAssignmentRequest carries seat-assignment edits. The owning leg
// cannot change; moving a passenger is modeled as delete plus create.
type UpdateSeatAssignmentRequest struct {
	// Nil leaves the current seat number in place. A seat cannot be
	// cleared back to unassigned through update; release the row and
	// re-create it without a seat number instead.
	SeatNumber   *string `json:"seat_number,omitempty"`
	TicketNumber *string `json:"ticket_number,omitempty"`
	BaggageCount *int    `json:"baggage_count,omitempty"`
	BaggageNotes *string `json:"baggage_notes,omitempty"`
	SpecialNeeds *string `json:"special_needs,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// BulkCreateSeatAssignmentsRequest is an all-or-nothing batch of seatings.
type BulkCreateSeatAssignmentsRequest struct {
	Assignments []CreateSeatAssignmentRequest `json:"assignments" binding:"required,dive"`
}

// BulkCreateResponse reports how many rows a successful batch created.
type BulkCreateResponse struct {
	Created int `json:"created"`
}

// ListDeparturesResponseItem is one row of the departures quick-search list.
type ListDeparturesResponseItem struct {
	ID            int64  `json:"id"`
	DepartureCode string `json:"departure_code"`
	Title         string `json:"title"`
	DepartureDate string `json:"departure_date"`
	ReturnDate    string `json:"return_date"`
	Status        string `json:"status"`
}
