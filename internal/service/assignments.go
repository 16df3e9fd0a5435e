package service

import (
	"context"
	"fmt"
	"time"

	"tourops/internal/apperrors"
	"tourops/internal/logger"
	"tourops/internal/messaging"
	"tourops/internal/middleware"
	"tourops/internal/models"
	"tourops/internal/repository"
	"tourops/internal/schedule"
)

type AssignmentService struct {
	assignmentRepo *repository.AssignmentRepository
	departureRepo  *repository.DepartureRepository
	staffRepo      *repository.StaffRepository
	natsClient     *messaging.NATSClient
	opts           Options
}

func NewAssignmentService(assignmentRepo *repository.AssignmentRepository, departureRepo *repository.DepartureRepository, staffRepo *repository.StaffRepository, natsClient *messaging.NATSClient, opts Options) *AssignmentService {
	return &AssignmentService{
		assignmentRepo: assignmentRepo,
		departureRepo:  departureRepo,
		staffRepo:      staffRepo,
		natsClient:     natsClient,
		opts:           opts,
	}
}

const dateLayout = "2006-01-02"

func parseDate(field, value string) (time.Time, error) {
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, &apperrors.ValidationError{Field: field, Message: "must be a YYYY-MM-DD date"}
	}
	return parsed, nil
}

// RevalidateOnUpdate reports whether in-place edits should re-run the
// availability check. Routing lives in the handler.
func (s *AssignmentService) RevalidateOnUpdate() bool {
	return s.opts.RevalidateOnUpdate
}

// Create assigns a staff member to a departure. The availability check and
// the insert share one transaction, so two concurrent creates for the same
// staff member cannot both pass the check.
func (s *AssignmentService) Create(ctx context.Context, req *models.CreateAssignmentRequest) (*models.AssignmentRecord, error) {
	if !models.ValidRole(req.Role) {
		return nil, &apperrors.ValidationError{Field: "role", Message: "unknown role " + req.Role}
	}

	departure, err := s.departureRepo.GetByID(ctx, req.TourDepartureID)
	if err != nil {
		return nil, fmt.Errorf("failed to get departure: %w", err)
	}
	if departure == nil {
		return nil, &apperrors.NotFoundError{Resource: "departure", ID: req.TourDepartureID}
	}

	staff, err := s.staffRepo.GetByID(ctx, req.StaffID)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff: %w", err)
	}
	if staff == nil {
		return nil, &apperrors.NotFoundError{Resource: "staff", ID: req.StaffID}
	}

	assignmentDate := departure.DepartureDate
	if req.AssignmentDate != "" {
		if assignmentDate, err = parseDate("assignment_date", req.AssignmentDate); err != nil {
			return nil, err
		}
	}

	assignment := &models.StaffAssignment{
		TourDepartureID: req.TourDepartureID,
		StaffID:         req.StaffID,
		Role:            req.Role,
		AssignmentDate:  assignmentDate,
	}
	if req.Notes != "" {
		assignment.Notes = &req.Notes
	}
	if userID, ok := middleware.UserIDFromContext(ctx); ok {
		assignment.CreatedBy = &userID
	}

	window := schedule.Window{Start: departure.DepartureDate, End: departure.ReturnDate}
	if err := s.assignmentRepo.CreateChecked(ctx, assignment, window); err != nil {
		return nil, err
	}

	event := models.AssignmentCreatedEvent{
		AssignmentID:    assignment.ID,
		TourDepartureID: assignment.TourDepartureID,
		StaffID:         assignment.StaffID,
		Role:            assignment.Role,
		Timestamp:       time.Now(),
	}
	if err := s.natsClient.Publish(models.EventAssignmentCreated, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish assignment created event",
			"error", err, "assignment_id", assignment.ID)
	}

	return s.assignmentRepo.GetRecordByID(ctx, assignment.ID)
}

// isAvailable is the single availability routine shared by the public
// pre-check and the update-path revalidation. The overlap predicate itself
// lives in the schedule package; this adds the non-blocking-status filter.
func (s *AssignmentService) isAvailable(ctx context.Context, staffID int64, window schedule.Window, excludeDepartureID *int64) (bool, *models.StaffWindow, error) {
	windows, err := s.assignmentRepo.ActiveWindows(ctx, staffID, excludeDepartureID)
	if err != nil {
		return false, nil, fmt.Errorf("failed to get staff windows: %w", err)
	}

	held := make([]schedule.Window, len(windows))
	for i, w := range windows {
		held[i] = w.Window
	}

	if idx := schedule.FirstConflict(window, held); idx >= 0 {
		return false, &windows[idx], nil
	}
	return true, nil, nil
}

// CheckAvailability is the read-only pre-check the UI calls before
// attempting a create.
func (s *AssignmentService) CheckAvailability(ctx context.Context, staffID int64, departureDate, returnDate string) (*models.AvailabilityResponse, error) {
	start, err := parseDate("departure_date", departureDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("return_date", returnDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, &apperrors.ValidationError{Field: "return_date", Message: "must not be before departure_date"}
	}

	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff: %w", err)
	}
	if staff == nil {
		return nil, &apperrors.NotFoundError{Resource: "staff", ID: staffID}
	}

	available, _, err := s.isAvailable(ctx, staffID, schedule.Window{Start: start, End: end}, nil)
	if err != nil {
		return nil, err
	}

	return &models.AvailabilityResponse{StaffID: staffID, Available: available}, nil
}

// Update applies field-level edits without re-running the availability
// check, matching the established behavior. Use UpdateWithRevalidation for
// the strict variant.
func (s *AssignmentService) Update(ctx context.Context, id int64, req *models.UpdateAssignmentRequest) (*models.AssignmentRecord, error) {
	return s.update(ctx, id, req, false)
}

// UpdateWithRevalidation applies the same edits but re-checks the staff
// member's availability against the departure window first, ignoring the
// assignment's own departure.
func (s *AssignmentService) UpdateWithRevalidation(ctx context.Context, id int64, req *models.UpdateAssignmentRequest) (*models.AssignmentRecord, error) {
	return s.update(ctx, id, req, true)
}

func (s *AssignmentService) update(ctx context.Context, id int64, req *models.UpdateAssignmentRequest, revalidate bool) (*models.AssignmentRecord, error) {
	existing, err := s.assignmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	if existing == nil {
		return nil, &apperrors.NotFoundError{Resource: "assignment", ID: id}
	}

	role := existing.Role
	if req.Role != nil {
		if !models.ValidRole(*req.Role) {
			return nil, &apperrors.ValidationError{Field: "role", Message: "unknown role " + *req.Role}
		}
		role = *req.Role
	}

	assignmentDate := existing.AssignmentDate
	if req.AssignmentDate != nil {
		if assignmentDate, err = parseDate("assignment_date", *req.AssignmentDate); err != nil {
			return nil, err
		}
	}

	notes := existing.Notes
	if req.Notes != nil {
		notes = req.Notes
	}

	if revalidate {
		departure, err := s.departureRepo.GetByID(ctx, existing.TourDepartureID)
		if err != nil {
			return nil, fmt.Errorf("failed to get departure: %w", err)
		}
		if departure == nil {
			return nil, &apperrors.NotFoundError{Resource: "departure", ID: existing.TourDepartureID}
		}

		window := schedule.Window{Start: departure.DepartureDate, End: departure.ReturnDate}
		available, conflict, err := s.isAvailable(ctx, existing.StaffID, window, &existing.TourDepartureID)
		if err != nil {
			return nil, err
		}
		if !available {
			return nil, &apperrors.ScheduleConflictError{
				StaffID:       existing.StaffID,
				DepartureCode: conflict.DepartureCode,
			}
		}
	}

	updated, err := s.assignmentRepo.Update(ctx, id, role, assignmentDate, notes)
	if err != nil {
		return nil, fmt.Errorf("failed to update assignment: %w", err)
	}
	if !updated {
		return nil, &apperrors.NotFoundError{Resource: "assignment", ID: id}
	}

	return s.assignmentRepo.GetRecordByID(ctx, id)
}

// Get returns one joined assignment row.
func (s *AssignmentService) Get(ctx context.Context, id int64) (*models.AssignmentRecord, error) {
	record, err := s.assignmentRepo.GetRecordByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	if record == nil {
		return nil, &apperrors.NotFoundError{Resource: "assignment", ID: id}
	}
	return record, nil
}

// Confirm is the one-way transition to confirmed. Confirming twice leaves
// the first confirmation time in place.
func (s *AssignmentService) Confirm(ctx context.Context, id int64) (*models.AssignmentRecord, error) {
	confirmed, err := s.assignmentRepo.Confirm(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm assignment: %w", err)
	}
	if !confirmed {
		return nil, &apperrors.NotFoundError{Resource: "assignment", ID: id}
	}

	record, err := s.assignmentRepo.GetRecordByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	event := models.AssignmentConfirmedEvent{
		AssignmentID:  record.ID,
		StaffID:       record.StaffID,
		DepartureCode: record.DepartureCode,
		Timestamp:     time.Now(),
	}
	if err := s.natsClient.Publish(models.EventAssignmentConfirmed, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish assignment confirmed event",
			"error", err, "assignment_id", record.ID)
	}

	return record, nil
}

// Delete removes an assignment permanently.
func (s *AssignmentService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.assignmentRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	if deleted == nil {
		return &apperrors.NotFoundError{Resource: "assignment", ID: id}
	}

	event := models.AssignmentDeletedEvent{
		AssignmentID:    deleted.ID,
		TourDepartureID: deleted.TourDepartureID,
		StaffID:         deleted.StaffID,
		Timestamp:       time.Now(),
	}
	if err := s.natsClient.Publish(models.EventAssignmentDeleted, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish assignment deleted event",
			"error", err, "assignment_id", deleted.ID)
	}

	return nil
}

// ListPaged returns one page of joined assignment rows plus pagination
// metadata.
func (s *AssignmentService) ListPaged(ctx context.Context, filters models.AssignmentFilters, page, pageSize int) (*models.PagedAssignmentsResponse, error) {
	records, total, err := s.assignmentRepo.ListPaged(ctx, filters, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	if records == nil {
		records = []models.AssignmentRecord{}
	}

	totalPages := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		totalPages++
	}

	return &models.PagedAssignmentsResponse{
		Items:      records,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

// GetStaffSchedule returns a staff member's non-cancelled assignments whose
// departure window falls inside [dateFrom, dateTo].
func (s *AssignmentService) GetStaffSchedule(ctx context.Context, staffID int64, dateFrom, dateTo string) ([]models.AssignmentRecord, error) {
	if _, err := parseDate("date_from", dateFrom); err != nil {
		return nil, err
	}
	if _, err := parseDate("date_to", dateTo); err != nil {
		return nil, err
	}

	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff: %w", err)
	}
	if staff == nil {
		return nil, &apperrors.NotFoundError{Resource: "staff", ID: staffID}
	}

	records, err := s.assignmentRepo.StaffSchedule(ctx, staffID, dateFrom, dateTo)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff schedule: %w", err)
	}
	if records == nil {
		records = []models.AssignmentRecord{}
	}

	return records, nil
}
