package service

import (
	"context"
	"testing"
	"time"

	"tourops/internal/apperrors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func legRow(id int64, totalSeats interface{}, assignedGuests int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "tour_departure_id", "transport_type", "route_from", "route_to",
		"departure_datetime", "arrival_datetime", "total_seats", "assigned_guests",
		"booking_status", "driver_id", "created_at", "updated_at",
	}).AddRow(id, 5, "bus", "Almaty", "Shymkent", now, nil, totalSeats, assignedGuests, "pending", nil, now, now)
}

func TestGetAvailabilityDerivesFreeSeats(t *testing.T) {
	services, mock := newTestServices(t, Options{})

	mock.ExpectQuery("FROM transport_legs").WithArgs(int64(11)).
		WillReturnRows(legRow(11, 45, 43))

	resp, err := services.Transports.GetAvailability(context.Background(), 11)

	require.NoError(t, err)
	require.NotNil(t, resp.TotalSeats)
	assert.Equal(t, 45, *resp.TotalSeats)
	assert.Equal(t, 43, resp.AssignedGuests)
	require.NotNil(t, resp.AvailableSeats)
	assert.Equal(t, 2, *resp.AvailableSeats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAvailabilityUnboundedLeg(t *testing.T) {
	services, mock := newTestServices(t, Options{})

	// No declared capacity: available stays nil rather than pretending a
	// number.
	mock.ExpectQuery("FROM transport_legs").WithArgs(int64(11)).
		WillReturnRows(legRow(11, nil, 300))

	resp, err := services.Transports.GetAvailability(context.Background(), 11)

	require.NoError(t, err)
	assert.Nil(t, resp.TotalSeats)
	assert.Nil(t, resp.AvailableSeats)
	assert.Equal(t, 300, resp.AssignedGuests)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAvailabilityUnknownLeg(t *testing.T) {
	services, mock := newTestServices(t, Options{})

	mock.ExpectQuery("FROM transport_legs").WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := services.Transports.GetAvailability(context.Background(), 99)

	var notFound *apperrors.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "transport leg", notFound.Resource)
}
