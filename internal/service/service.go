package service

import (
	"tourops/internal/messaging"
	"tourops/internal/repository"
	"tourops/internal/search"
)

// Options carries the behavior toggles documented in the configuration.
type Options struct {
	// RevalidateOnUpdate re-runs the availability check when an assignment
	// is edited in place. Off by default to match the established
	// back-office behavior.
	RevalidateOnUpdate bool
	// BulkStrictCapacity rejects bulk seatings that would overshoot a
	// leg's remaining capacity.
	BulkStrictCapacity bool
}

type Services struct {
	Assignments *AssignmentService
	Seats       *SeatService
	Transports  *TransportService
	Departures  *DepartureService
}

func NewServices(repos *repository.Repositories, natsClient *messaging.NATSClient, searchClient *search.DepartureSearchClient, opts Options) *Services {
	assignmentService := NewAssignmentService(repos.Assignments, repos.Departures, repos.Staff, natsClient, opts)
	seatService := NewSeatService(repos.Seats, repos.Transports, natsClient, opts)
	transportService := NewTransportService(repos.Transports)
	departureService := NewDepartureService(repos.Departures, searchClient)

	return &Services{
		Assignments: assignmentService,
		Seats:       seatService,
		Transports:  transportService,
		Departures:  departureService,
	}
}
