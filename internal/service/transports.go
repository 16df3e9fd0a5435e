package service

import (
	"context"
	"fmt"

	"tourops/internal/apperrors"
	"tourops/internal/models"
	"tourops/internal/repository"
)

type TransportService struct {
	transportRepo *repository.TransportRepository
}

func NewTransportService(transportRepo *repository.TransportRepository) *TransportService {
	return &TransportService{transportRepo: transportRepo}
}

// GetAvailability reports a leg's capacity view. AvailableSeats stays nil
// for legs without a declared capacity.
func (s *TransportService) GetAvailability(ctx context.Context, legID int64) (*models.TransportAvailabilityResponse, error) {
	leg, err := s.transportRepo.GetByID(ctx, legID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transport leg: %w", err)
	}
	if leg == nil {
		return nil, &apperrors.NotFoundError{Resource: "transport leg", ID: legID}
	}

	resp := &models.TransportAvailabilityResponse{
		TransportID:    leg.ID,
		TotalSeats:     leg.TotalSeats,
		AssignedGuests: leg.AssignedGuests,
	}
	if leg.TotalSeats != nil {
		available := *leg.TotalSeats - leg.AssignedGuests
		resp.AvailableSeats = &available
	}
	return resp, nil
}

// Recompute rebuilds one leg's assigned_guests counter from the seat rows.
func (s *TransportService) Recompute(ctx context.Context, legID int64) (*models.TransportAvailabilityResponse, error) {
	leg, err := s.transportRepo.GetByID(ctx, legID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transport leg: %w", err)
	}
	if leg == nil {
		return nil, &apperrors.NotFoundError{Resource: "transport leg", ID: legID}
	}

	if err := s.transportRepo.Recompute(ctx, legID); err != nil {
		return nil, fmt.Errorf("failed to recompute transport leg: %w", err)
	}

	return s.GetAvailability(ctx, legID)
}
