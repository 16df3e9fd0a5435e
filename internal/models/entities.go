package models

import (
	"time"

	"tourops/internal/schedule"
)

// Staff assignment roles
const (
	RoleTourLeader  = "tour_leader"
	RoleTourGuide   = "tour_guide"
	RoleDriver      = "driver"
	RoleAssistant   = "assistant"
	RoleCoordinator = "coordinator"
)

// Departure statuses
const (
	DepartureScheduled  = "scheduled"
	DepartureConfirmed  = "confirmed"
	DepartureInProgress = "in_progress"
	DepartureCompleted  = "completed"
	DepartureCancelled  = "cancelled"
)

// ValidRole reports whether role is one of the known assignment roles.
func ValidRole(role string) bool {
	switch role {
	case RoleTourLeader, RoleTourGuide, RoleDriver, RoleAssistant, RoleCoordinator:
		return true
	}
	return false
}

// User represents a back-office operator account
type User struct {
	UserID       int64     `json:"user_id" db:"user_id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	Surname      string    `json:"surname" db:"surname"`
	RegisteredAt time.Time `json:"registered_at" db:"registered_at"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	LastLoggedIn time.Time `json:"last_logged_in" db:"last_logged_in"`
}

// Staff represents a tour staff member (guide, driver, coordinator...)
type Staff struct {
	ID        int64     `json:"id" db:"id"`
	StaffCode string    `json:"staff_code" db:"staff_code"`
	FullName  string    `json:"full_name" db:"full_name"`
	Phone     *string   `json:"phone" db:"phone"`
	Email     *string   `json:"email" db:"email"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Guest represents a passenger on a departure
type Guest struct {
	ID             int64     `json:"id" db:"id"`
	FullName       string    `json:"full_name" db:"full_name"`
	Phone          *string   `json:"phone" db:"phone"`
	DocumentNumber *string   `json:"document_number" db:"document_number"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Departure represents a scheduled run of a tour product on a fixed date
// range. Read-only from this core's perspective.
type Departure struct {
	ID            int64     `json:"id" db:"id"`
	DepartureCode string    `json:"departure_code" db:"departure_code"`
	Title         string    `json:"title" db:"title"`
	DepartureDate time.Time `json:"departure_date" db:"departure_date"`
	ReturnDate    time.Time `json:"return_date" db:"return_date"`
	Status        string    `json:"status" db:"status"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// StaffAssignment links one staff member to one departure in a given role.
type StaffAssignment struct {
	ID              int64      `json:"id" db:"id"`
	TourDepartureID int64      `json:"tour_departure_id" db:"tour_departure_id"`
	StaffID         int64      `json:"staff_id" db:"staff_id"`
	Role            string     `json:"role" db:"role"`
	AssignmentDate  time.Time  `json:"assignment_date" db:"assignment_date"`
	Confirmed       bool       `json:"confirmed" db:"confirmed"`
	ConfirmedAt     *time.Time `json:"confirmed_at" db:"confirmed_at"`
	Notes           *string    `json:"notes" db:"notes"`
	CreatedBy       *int64     `json:"created_by" db:"created_by"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// AssignmentRecord is a StaffAssignment joined with staff, departure and
// creator display fields, as returned to callers.
type AssignmentRecord struct {
	StaffAssignment
	StaffCode       string    `json:"staff_code"`
	StaffName       string    `json:"staff_name"`
	DepartureCode   string    `json:"departure_code"`
	DepartureDate   time.Time `json:"departure_date"`
	ReturnDate      time.Time `json:"return_date"`
	DepartureStatus string    `json:"departure_status"`
	CreatedByName   *string   `json:"created_by_name"`
}

// StaffWindow pairs a departure a staff member is committed to with its
// date window, for availability scans.
type StaffWindow struct {
	DepartureID   int64
	DepartureCode string
	Window        schedule.Window
}

// TransportLeg represents one scheduled transport segment of a departure
// with finite seat capacity. AssignedGuests is a cached projection of the
// seat_assignments table, never an independent source of truth.
type TransportLeg struct {
	ID                int64      `json:"id" db:"id"`
	TourDepartureID   int64      `json:"tour_departure_id" db:"tour_departure_id"`
	TransportType     string     `json:"transport_type" db:"transport_type"`
	RouteFrom         string     `json:"route_from" db:"route_from"`
	RouteTo           string     `json:"route_to" db:"route_to"`
	DepartureDatetime time.Time  `json:"departure_datetime" db:"departure_datetime"`
	ArrivalDatetime   *time.Time `json:"arrival_datetime" db:"arrival_datetime"`
	TotalSeats        *int       `json:"total_seats" db:"total_seats"`
	AssignedGuests    int        `json:"assigned_guests" db:"assigned_guests"`
	BookingStatus     string     `json:"booking_status" db:"booking_status"`
	DriverID          *int64     `json:"driver_id" db:"driver_id"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// SeatAssignment links one passenger to one transport leg, optionally to a
// specific seat. Within a leg, non-null seat numbers are unique.
type SeatAssignment struct {
	ID              int64     `json:"id" db:"id"`
	TourTransportID int64     `json:"tour_transport_id" db:"tour_transport_id"`
	PassengerID     int64     `json:"passenger_id" db:"passenger_id"`
	SeatNumber      *string   `json:"seat_number" db:"seat_number"`
	TicketNumber    *string   `json:"ticket_number" db:"ticket_number"`
	BaggageCount    int       `json:"baggage_count" db:"baggage_count"`
	BaggageNotes    *string   `json:"baggage_notes" db:"baggage_notes"`
	SpecialNeeds    *string   `json:"special_needs" db:"special_needs"`
	Notes           *string   `json:"notes" db:"notes"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// SeatAssignmentRecord is a SeatAssignment joined with passenger and leg
// display fields.
type SeatAssignmentRecord struct {
	SeatAssignment
	PassengerName string `json:"passenger_name"`
	TransportType string `json:"transport_type"`
	RouteFrom     string `json:"route_from"`
	RouteTo       string `json:"route_to"`
}
