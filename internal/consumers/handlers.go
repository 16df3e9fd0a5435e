package consumers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"tourops/internal/cache"
	"tourops/internal/external"
	"tourops/internal/models"
	"tourops/internal/repository"

	"github.com/nats-io/stan.go"
)

type Handlers struct {
	repos          *repository.Repositories
	notifierClient *external.NotifierClient
	valkeyClient   *cache.ValkeyClient
}

func NewHandlers(repos *repository.Repositories, notifierClient *external.NotifierClient, valkeyClient *cache.ValkeyClient) *Handlers {
	return &Handlers{
		repos:          repos,
		notifierClient: notifierClient,
		valkeyClient:   valkeyClient,
	}
}

func (h *Handlers) notify(subject, message string) {
	if !h.notifierClient.Enabled() {
		return
	}
	if err := h.notifierClient.Notify(subject, message); err != nil {
		slog.Error("Failed to deliver ops notification", "subject", subject, "error", err)
	}
}

func (h *Handlers) invalidateAvailability(legIDs ...int64) {
	if h.valkeyClient == nil {
		return
	}
	if err := h.valkeyClient.InvalidateAvailability(context.Background(), legIDs...); err != nil {
		slog.Error("Failed to invalidate availability cache", "transport_ids", legIDs, "error", err)
	}
}

func (h *Handlers) HandleAssignmentCreated(m *stan.Msg) {
	var event models.AssignmentCreatedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal assignment created event", "error", err)
		return
	}

	slog.Info("Processing assignment created event",
		"assignment_id", event.AssignmentID, "staff_id", event.StaffID, "role", event.Role)

	m.Ack()
}

func (h *Handlers) HandleAssignmentConfirmed(m *stan.Msg) {
	var event models.AssignmentConfirmedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal assignment confirmed event", "error", err)
		return
	}

	slog.Info("Processing assignment confirmed event",
		"assignment_id", event.AssignmentID, "departure_code", event.DepartureCode)

	ctx := context.Background()
	staff, err := h.repos.Staff.GetByID(ctx, event.StaffID)
	if err != nil {
		slog.Error("Failed to get staff for notification", "staff_id", event.StaffID, "error", err)
		return
	}

	staffName := fmt.Sprintf("staff %d", event.StaffID)
	if staff != nil {
		staffName = staff.FullName
	}
	h.notify("Assignment confirmed",
		fmt.Sprintf("%s confirmed for departure %s", staffName, event.DepartureCode))

	m.Ack()
}

func (h *Handlers) HandleAssignmentDeleted(m *stan.Msg) {
	var event models.AssignmentDeletedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal assignment deleted event", "error", err)
		return
	}

	slog.Info("Processing assignment deleted event",
		"assignment_id", event.AssignmentID, "staff_id", event.StaffID)

	h.notify("Assignment removed",
		fmt.Sprintf("staff %d removed from departure %d", event.StaffID, event.TourDepartureID))

	m.Ack()
}

func (h *Handlers) HandleSeatAssigned(m *stan.Msg) {
	var event models.SeatAssignedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal seat assigned event", "error", err)
		return
	}

	slog.Info("Processing seat assigned event",
		"seat_assignment_id", event.SeatAssignmentID, "tour_transport_id", event.TourTransportID)

	// The API instance that made the change already dropped its cache
	// entry; this covers caches warmed by other instances.
	h.invalidateAvailability(event.TourTransportID)

	guest, err := h.repos.Staff.GetGuestByID(context.Background(), event.PassengerID)
	if err != nil {
		slog.Error("Failed to get guest for notification", "passenger_id", event.PassengerID, "error", err)
		return
	}

	guestName := fmt.Sprintf("guest %d", event.PassengerID)
	if guest != nil {
		guestName = guest.FullName
	}
	seat := "no seat number"
	if event.SeatNumber != nil {
		seat = "seat " + *event.SeatNumber
	}
	h.notify("Seat assigned",
		fmt.Sprintf("%s seated on transport leg %d (%s)", guestName, event.TourTransportID, seat))

	m.Ack()
}

func (h *Handlers) HandleSeatReleased(m *stan.Msg) {
	var event models.SeatReleasedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal seat released event", "error", err)
		return
	}

	slog.Info("Processing seat released event",
		"seat_assignment_id", event.SeatAssignmentID, "tour_transport_id", event.TourTransportID)

	h.invalidateAvailability(event.TourTransportID)

	m.Ack()
}

func (h *Handlers) HandleSeatsBulkAssigned(m *stan.Msg) {
	var event models.SeatsBulkAssignedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal bulk seat event", "error", err)
		return
	}

	slog.Info("Processing bulk seat event",
		"transport_ids", event.TransportIDs, "created", event.Created)

	h.invalidateAvailability(event.TransportIDs...)
	h.notify("Seats assigned",
		fmt.Sprintf("%d passengers seated across %d transport legs", event.Created, len(event.TransportIDs)))

	m.Ack()
}
