package repository

import (
	"tourops/internal/database"
)

type Repositories struct {
	Departures  *DepartureRepository
	Staff       *StaffRepository
	Assignments *AssignmentRepository
	Transports  *TransportRepository
	Seats       *SeatAssignmentRepository
	Users       *UserRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Departures:  NewDepartureRepository(db),
		Staff:       NewStaffRepository(db),
		Assignments: NewAssignmentRepository(db),
		Transports:  NewTransportRepository(db),
		Seats:       NewSeatAssignmentRepository(db),
		Users:       NewUserRepository(db),
	}
}
