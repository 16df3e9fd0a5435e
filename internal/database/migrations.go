package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createUsersTable,
		createStaffTable,
		createGuestsTable,
		createDeparturesTable,
		createStaffAssignmentsTable,
		createTransportLegsTable,
		createSeatAssignmentsTable,
		createSeatNumberUniqueIndex,
		createDepartureWindowIndex,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    user_id SERIAL PRIMARY KEY,
    email VARCHAR(255) UNIQUE NOT NULL,
    password_hash VARCHAR(64) NOT NULL,
    first_name VARCHAR(100) NOT NULL,
    surname VARCHAR(100) NOT NULL,
    registered_at TIMESTAMP NOT NULL DEFAULT NOW(),
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    last_logged_in TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createStaffTable = `
CREATE TABLE IF NOT EXISTS staff (
    id SERIAL PRIMARY KEY,
    staff_code VARCHAR(20) UNIQUE NOT NULL,
    full_name VARCHAR(200) NOT NULL,
    phone VARCHAR(50),
    email VARCHAR(255),
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createGuestsTable = `
CREATE TABLE IF NOT EXISTS guests (
    id SERIAL PRIMARY KEY,
    full_name VARCHAR(200) NOT NULL,
    phone VARCHAR(50),
    document_number VARCHAR(50),
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createDeparturesTable = `
CREATE TABLE IF NOT EXISTS departures (
    id SERIAL PRIMARY KEY,
    departure_code VARCHAR(30) UNIQUE NOT NULL,
    title VARCHAR(500) NOT NULL,
    departure_date DATE NOT NULL,
    return_date DATE NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'scheduled',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (return_date >= departure_date),
    CHECK (status IN ('scheduled', 'confirmed', 'in_progress', 'completed', 'cancelled'))
);`

const createStaffAssignmentsTable = `
CREATE TABLE IF NOT EXISTS staff_assignments (
    id SERIAL PRIMARY KEY,
    tour_departure_id INTEGER NOT NULL REFERENCES departures(id),
    staff_id INTEGER NOT NULL REFERENCES staff(id),
    role VARCHAR(20) NOT NULL,
    assignment_date DATE NOT NULL,
    confirmed BOOLEAN NOT NULL DEFAULT FALSE,
    confirmed_at TIMESTAMP,
    notes TEXT,
    created_by INTEGER REFERENCES users(user_id),
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (role IN ('tour_leader', 'tour_guide', 'driver', 'assistant', 'coordinator'))
);`

const createTransportLegsTable = `
CREATE TABLE IF NOT EXISTS transport_legs (
    id SERIAL PRIMARY KEY,
    tour_departure_id INTEGER NOT NULL REFERENCES departures(id),
    transport_type VARCHAR(30) NOT NULL,
    route_from VARCHAR(200) NOT NULL,
    route_to VARCHAR(200) NOT NULL,
    departure_datetime TIMESTAMP NOT NULL,
    arrival_datetime TIMESTAMP,
    total_seats INTEGER CHECK (total_seats >= 0),
    assigned_guests INTEGER NOT NULL DEFAULT 0 CHECK (assigned_guests >= 0),
    booking_status VARCHAR(20) NOT NULL DEFAULT 'pending',
    driver_id INTEGER REFERENCES staff(id),
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createSeatAssignmentsTable = `
CREATE TABLE IF NOT EXISTS seat_assignments (
    id SERIAL PRIMARY KEY,
    tour_transport_id INTEGER NOT NULL REFERENCES transport_legs(id),
    passenger_id INTEGER NOT NULL REFERENCES guests(id),
    seat_number VARCHAR(10),
    ticket_number VARCHAR(50),
    baggage_count INTEGER NOT NULL DEFAULT 0,
    baggage_notes TEXT,
    special_needs TEXT,
    notes TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

// Storage-level backstop for the per-leg seat uniqueness rule. NULL seat
// numbers (unassigned seats) are allowed to repeat.
const createSeatNumberUniqueIndex = `
CREATE UNIQUE INDEX IF NOT EXISTS seat_assignments_leg_seat_idx
ON seat_assignments (tour_transport_id, seat_number)
WHERE seat_number IS NOT NULL;`

const createDepartureWindowIndex = `
CREATE INDEX IF NOT EXISTS departures_window_idx
ON departures (departure_date, return_date);`
