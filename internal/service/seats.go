package service

import (
	"context"
	"fmt"
	"time"

	"tourops/internal/apperrors"
	"tourops/internal/logger"
	"tourops/internal/messaging"
	"tourops/internal/models"
	"tourops/internal/repository"
)

type SeatService struct {
	seatRepo      *repository.SeatAssignmentRepository
	transportRepo *repository.TransportRepository
	natsClient    *messaging.NATSClient
	opts          Options
}

func NewSeatService(seatRepo *repository.SeatAssignmentRepository, transportRepo *repository.TransportRepository, natsClient *messaging.NATSClient, opts Options) *SeatService {
	return &SeatService{
		seatRepo:      seatRepo,
		transportRepo: transportRepo,
		natsClient:    natsClient,
		opts:          opts,
	}
}

// Create seats one passenger on a leg. Capacity and seat-uniqueness checks
// run under the leg row lock inside the repository transaction.
func (s *SeatService) Create(ctx context.Context, req *models.CreateSeatAssignmentRequest) (*models.SeatAssignmentRecord, error) {
	if req.BaggageCount < 0 {
		return nil, &apperrors.ValidationError{Field: "baggage_count", Message: "must not be negative"}
	}

	seat := &models.SeatAssignment{
		TourTransportID: req.TourTransportID,
		PassengerID:     req.PassengerID,
		SeatNumber:      req.SeatNumber,
		TicketNumber:    req.TicketNumber,
		BaggageCount:    req.BaggageCount,
		BaggageNotes:    req.BaggageNotes,
		SpecialNeeds:    req.SpecialNeeds,
		Notes:           req.Notes,
	}

	if err := s.seatRepo.CreateChecked(ctx, seat); err != nil {
		return nil, err
	}

	event := models.SeatAssignedEvent{
		SeatAssignmentID: seat.ID,
		TourTransportID:  seat.TourTransportID,
		PassengerID:      seat.PassengerID,
		SeatNumber:       seat.SeatNumber,
		Timestamp:        time.Now(),
	}
	if err := s.natsClient.Publish(models.EventSeatAssigned, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish seat assigned event",
			"error", err, "seat_assignment_id", seat.ID)
	}

	return s.seatRepo.GetRecordByID(ctx, seat.ID)
}

// Get returns one joined seat assignment row.
func (s *SeatService) Get(ctx context.Context, id int64) (*models.SeatAssignmentRecord, error) {
	record, err := s.seatRepo.GetRecordByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get seat assignment: %w", err)
	}
	if record == nil {
		return nil, &apperrors.NotFoundError{Resource: "seat assignment", ID: id}
	}
	return record, nil
}

// Update edits a seat assignment in place. The seat-number change re-runs
// the uniqueness check; occupancy does not change so the counter is left
// alone.
func (s *SeatService) Update(ctx context.Context, id int64, req *models.UpdateSeatAssignmentRequest) (*models.SeatAssignmentRecord, error) {
	existing, err := s.seatRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get seat assignment: %w", err)
	}
	if existing == nil {
		return nil, &apperrors.NotFoundError{Resource: "seat assignment", ID: id}
	}

	if req.SeatNumber != nil {
		existing.SeatNumber = req.SeatNumber
	}
	if req.TicketNumber != nil {
		existing.TicketNumber = req.TicketNumber
	}
	if req.BaggageCount != nil {
		if *req.BaggageCount < 0 {
			return nil, &apperrors.ValidationError{Field: "baggage_count", Message: "must not be negative"}
		}
		existing.BaggageCount = *req.BaggageCount
	}
	if req.BaggageNotes != nil {
		existing.BaggageNotes = req.BaggageNotes
	}
	if req.SpecialNeeds != nil {
		existing.SpecialNeeds = req.SpecialNeeds
	}
	if req.Notes != nil {
		existing.Notes = req.Notes
	}

	if err := s.seatRepo.UpdateChecked(ctx, existing); err != nil {
		return nil, err
	}

	return s.seatRepo.GetRecordByID(ctx, id)
}

// Delete frees the seat and returns the leg whose counter changed, so the
// handler can drop the cached availability for it.
func (s *SeatService) Delete(ctx context.Context, id int64) (int64, error) {
	legID, err := s.seatRepo.Delete(ctx, id)
	if err != nil {
		return 0, err
	}

	event := models.SeatReleasedEvent{
		SeatAssignmentID: id,
		TourTransportID:  legID,
		Timestamp:        time.Now(),
	}
	if err := s.natsClient.Publish(models.EventSeatReleased, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish seat released event",
			"error", err, "seat_assignment_id", id)
	}

	return legID, nil
}

// BulkCreate persists a batch atomically: the first failing row aborts the
// whole batch and nothing is written. Returns the legs touched by the batch.
func (s *SeatService) BulkCreate(ctx context.Context, req *models.BulkCreateSeatAssignmentsRequest) (*models.BulkCreateResponse, []int64, error) {
	if len(req.Assignments) == 0 {
		return nil, nil, &apperrors.ValidationError{Field: "assignments", Message: "must not be empty"}
	}

	seats := make([]models.SeatAssignment, len(req.Assignments))
	for i, item := range req.Assignments {
		if item.BaggageCount < 0 {
			return nil, nil, &apperrors.ValidationError{Field: "baggage_count", Message: "must not be negative"}
		}
		seats[i] = models.SeatAssignment{
			TourTransportID: item.TourTransportID,
			PassengerID:     item.PassengerID,
			SeatNumber:      item.SeatNumber,
			TicketNumber:    item.TicketNumber,
			BaggageCount:    item.BaggageCount,
			BaggageNotes:    item.BaggageNotes,
			SpecialNeeds:    item.SpecialNeeds,
			Notes:           item.Notes,
		}
	}

	legIDs, err := s.seatRepo.BulkCreateChecked(ctx, seats, s.opts.BulkStrictCapacity)
	if err != nil {
		return nil, nil, err
	}

	event := models.SeatsBulkAssignedEvent{
		TransportIDs: legIDs,
		Created:      len(seats),
		Timestamp:    time.Now(),
	}
	if err := s.natsClient.Publish(models.EventSeatsBulkAssigned, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish bulk seat event",
			"error", err, "created", len(seats))
	}

	return &models.BulkCreateResponse{Created: len(seats)}, legIDs, nil
}

// UsedSeats lists the occupied seat numbers on one leg, sorted.
func (s *SeatService) UsedSeats(ctx context.Context, legID int64) ([]string, error) {
	leg, err := s.transportRepo.GetByID(ctx, legID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transport leg: %w", err)
	}
	if leg == nil {
		return nil, &apperrors.NotFoundError{Resource: "transport leg", ID: legID}
	}

	seats, err := s.seatRepo.UsedSeats(ctx, legID)
	if err != nil {
		return nil, fmt.Errorf("failed to list used seats: %w", err)
	}
	if seats == nil {
		seats = []string{}
	}
	return seats, nil
}
