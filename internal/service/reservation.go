package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"toolshare-reservation-backend/internal/domain"
	"toolshare-reservation-backend/internal/logger"
	"toolshare-reservation-backend/internal/repository"
)

type reservationService struct {
	reservationRepo  repository.ReservationRepository
	toolRepo         repository.ToolRepository
	noteRepo         repository.NotificationRepository
	allowEarlyPickup bool
}

func NewReservationService(
	reservationRepo repository.ReservationRepository,
	toolRepo repository.ToolRepository,
	noteRepo repository.NotificationRepository,
	allowEarlyPickup bool,
) ReservationService {
	return &reservationService{
		reservationRepo:  reservationRepo,
		toolRepo:         toolRepo,
		noteRepo:         noteRepo,
		allowEarlyPickup: allowEarlyPickup,
	}
}

func (s *reservationService) CreateReservation(ctx context.Context, borrowerID, toolID int32, startDate, endDate, note string) (*domain.Reservation, error) {
	dateRange, err := domain.ParseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	tool, err := s.toolRepo.GetByID(ctx, toolID)
	if err != nil {
		return nil, err
	}
	if tool.Status != domain.ToolStatusAvailable {
		return nil, domain.ErrToolUnavailable
	}
	if tool.OwnerID == borrowerID {
		return nil, domain.NewValidationError("cannot reserve your own tool")
	}

	if err := domain.CheckAvailability(tool, dateRange, time.Now()); err != nil {
		return nil, err
	}

	// Only confirmed/active reservations block creation. Competing pending
	// requests may stack on the same window; the owner chooses at approval.
	blocking, err := s.reservationRepo.ListForTool(ctx, toolID, domain.BlockingStatuses, 0)
	if err != nil {
		return nil, err
	}
	if c := domain.FindConflict(dateRange, blocking); c != nil {
		return nil, domain.NewConflictError(c.DateRange)
	}

	// Pending requests do not block other borrowers, but an identical
	// resubmission by the same borrower is a double-submit.
	pending, err := s.reservationRepo.ListForTool(ctx, toolID, []domain.ReservationStatus{domain.ReservationStatusPending}, 0)
	if err != nil {
		return nil, err
	}
	if domain.FindDuplicate(dateRange, borrowerID, pending) != nil {
		return nil, domain.NewValidationError("an identical pending request for this tool already exists")
	}

	res := &domain.Reservation{
		ToolID:     toolID,
		BorrowerID: borrowerID,
		OwnerID:    tool.OwnerID,
		Status:     domain.ReservationStatusPending,
		DateRange:  dateRange,
		Note:       note,
	}
	if err := s.reservationRepo.Create(ctx, res); err != nil {
		return nil, err
	}

	s.notify(ctx, res.OwnerID, res.ID, domain.EventRequestCreated,
		fmt.Sprintf("New borrow request for tool %d (%s to %s)", toolID, startDate, endDate))
	return res, nil
}

func (s *reservationService) ApproveReservation(ctx context.Context, actorID, reservationID int32, note string) (*domain.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if _, err := domain.Transition(res.Status, domain.ActionApprove, domain.RoleFor(res, actorID)); err != nil {
		return nil, err
	}

	// The notice rule is re-checked at approval: time has passed since the
	// request was submitted and the start date may no longer be reachable.
	tool, err := s.toolRepo.GetByID(ctx, res.ToolID)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckAvailability(tool, res.DateRange, time.Now()); err != nil {
		return nil, err
	}

	res.OwnerNote = note
	// The conflict re-check runs inside the same transaction as the status
	// write; a sibling confirmed since the request was made aborts it.
	if err := s.reservationRepo.ConfirmPending(ctx, res); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, fmt.Errorf("%w: reservation is no longer pending", domain.ErrConflict)
		}
		return nil, err
	}

	s.notify(ctx, res.BorrowerID, res.ID, domain.EventRequestApproved,
		fmt.Sprintf("Your borrow request for tool %d was approved", res.ToolID))
	return res, nil
}

func (s *reservationService) DeclineReservation(ctx context.Context, actorID, reservationID int32, reason string) (*domain.Reservation, error) {
	if reason == "" {
		return nil, domain.NewValidationError("a reason is required to decline a request")
	}

	res, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	next, err := domain.Transition(res.Status, domain.ActionDecline, domain.RoleFor(res, actorID))
	if err != nil {
		return nil, err
	}

	res.Status = next
	res.OwnerNote = reason
	if err := s.commit(ctx, res, domain.ReservationStatusPending); err != nil {
		return nil, err
	}

	s.notify(ctx, res.BorrowerID, res.ID, domain.EventRequestDeclined,
		fmt.Sprintf("Your borrow request for tool %d was declined: %s", res.ToolID, reason))
	return res, nil
}

func (s *reservationService) CancelReservation(ctx context.Context, actorID, reservationID int32, note string) (*domain.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	role := domain.RoleFor(res, actorID)
	prev := res.Status
	next, err := domain.Transition(res.Status, domain.ActionCancel, role)
	if err != nil {
		return nil, err
	}

	res.Status = next
	if note != "" {
		if role == domain.RoleOwner {
			res.OwnerNote = note
		} else {
			res.Note = note
		}
	}
	if err := s.commit(ctx, res, prev); err != nil {
		return nil, err
	}

	counterpart := res.OwnerID
	if role == domain.RoleOwner {
		counterpart = res.BorrowerID
	}
	s.notify(ctx, counterpart, res.ID, domain.EventReservationCancelled,
		fmt.Sprintf("Reservation %d for tool %d was cancelled", res.ID, res.ToolID))
	return res, nil
}

func (s *reservationService) ConfirmPickup(ctx context.Context, actorID, reservationID int32, note string) (*domain.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	next, err := domain.Transition(res.Status, domain.ActionPickup, domain.RoleFor(res, actorID))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if domain.Today(now).Before(res.Start) {
		if !s.allowEarlyPickup {
			return nil, domain.NewValidationError("pickup before the start date %s is not allowed", res.Start.Format(domain.DateLayout))
		}
		logger.Warn("Early pickup confirmed before reservation start date",
			"reservation_id", res.ID, "start_date", res.Start.Format(domain.DateLayout))
	}

	res.Status = next
	res.PickupConfirmedAt = &now
	if note != "" {
		res.Note = note
	}
	if err := s.commit(ctx, res, domain.ReservationStatusConfirmed); err != nil {
		return nil, err
	}

	s.notify(ctx, res.OwnerID, res.ID, domain.EventPickupConfirmed,
		fmt.Sprintf("Tool %d was picked up for reservation %d", res.ToolID, res.ID))
	return res, nil
}

func (s *reservationService) ConfirmReturn(ctx context.Context, actorID, reservationID int32, note string) (*domain.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	next, err := domain.Transition(res.Status, domain.ActionReturn, domain.RoleFor(res, actorID))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	res.Status = next
	res.ReturnConfirmedAt = &now
	if note != "" {
		res.Note = note
	}
	if err := s.commit(ctx, res, domain.ReservationStatusActive); err != nil {
		return nil, err
	}

	s.notify(ctx, res.OwnerID, res.ID, domain.EventReturnConfirmed,
		fmt.Sprintf("Tool %d was returned for reservation %d", res.ToolID, res.ID))
	return res, nil
}

func (s *reservationService) GetReservation(ctx context.Context, actorID, reservationID int32) (*domain.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if domain.RoleFor(res, actorID) == domain.RoleNone {
		return nil, fmt.Errorf("%w: not a party to this reservation", domain.ErrForbidden)
	}
	return res, nil
}

func (s *reservationService) PermittedActions(ctx context.Context, actorID, reservationID int32) ([]domain.Action, error) {
	res, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	return domain.PermittedActions(res.Status, domain.RoleFor(res, actorID)), nil
}

func (s *reservationService) ListBorrowings(ctx context.Context, userID int32, status domain.ReservationStatus, page, pageSize int32) ([]domain.Reservation, int32, error) {
	return s.reservationRepo.ListByBorrower(ctx, userID, status, page, pageSize)
}

func (s *reservationService) ListLendings(ctx context.Context, userID int32, status domain.ReservationStatus, page, pageSize int32) ([]domain.Reservation, int32, error) {
	return s.reservationRepo.ListByOwner(ctx, userID, status, page, pageSize)
}

func (s *reservationService) CheckToolAvailability(ctx context.Context, toolID int32, startDate, endDate string) error {
	dateRange, err := domain.ParseDateRange(startDate, endDate)
	if err != nil {
		return err
	}
	tool, err := s.toolRepo.GetByID(ctx, toolID)
	if err != nil {
		return err
	}
	if tool.Status != domain.ToolStatusAvailable {
		return domain.ErrToolUnavailable
	}
	if err := domain.CheckAvailability(tool, dateRange, time.Now()); err != nil {
		return err
	}
	blocking, err := s.reservationRepo.ListForTool(ctx, toolID, domain.BlockingStatuses, 0)
	if err != nil {
		return err
	}
	if c := domain.FindConflict(dateRange, blocking); c != nil {
		return domain.NewConflictError(c.DateRange)
	}
	return nil
}

// commit persists a transition conditioned on the previous status. A stale
// row means some other actor won a race for this reservation; surfaced as
// InvalidTransition since the action is no longer legal.
func (s *reservationService) commit(ctx context.Context, res *domain.Reservation, from domain.ReservationStatus) error {
	if err := s.reservationRepo.UpdateStatus(ctx, res, from); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return fmt.Errorf("%w: reservation was modified concurrently", domain.ErrInvalidTransition)
		}
		return err
	}
	return nil
}

// notify writes an in-app notification after a successful transition.
// Delivery failure never rolls back the transition.
func (s *reservationService) notify(ctx context.Context, userID, reservationID int32, eventType, message string) {
	note := &domain.Notification{
		UserID:        userID,
		ReservationID: reservationID,
		EventType:     eventType,
		Message:       message,
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Warn("Failed to record notification", "event", eventType, "reservation_id", reservationID, "error", err)
	}
}
