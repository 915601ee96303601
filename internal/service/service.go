package service

import (
	"context"

	"toolshare-reservation-backend/internal/domain"
)

// ReservationService owns the reservation lifecycle. Every mutating operation
// returns the updated reservation or a typed domain error; no partial state
// is ever visible and nothing is retried internally.
type ReservationService interface {
	CreateReservation(ctx context.Context, borrowerID, toolID int32, startDate, endDate, note string) (*domain.Reservation, error)
	ApproveReservation(ctx context.Context, actorID, reservationID int32, note string) (*domain.Reservation, error)
	DeclineReservation(ctx context.Context, actorID, reservationID int32, reason string) (*domain.Reservation, error)
	CancelReservation(ctx context.Context, actorID, reservationID int32, note string) (*domain.Reservation, error)
	ConfirmPickup(ctx context.Context, actorID, reservationID int32, note string) (*domain.Reservation, error)
	ConfirmReturn(ctx context.Context, actorID, reservationID int32, note string) (*domain.Reservation, error)

	GetReservation(ctx context.Context, actorID, reservationID int32) (*domain.Reservation, error)
	PermittedActions(ctx context.Context, actorID, reservationID int32) ([]domain.Action, error)
	ListBorrowings(ctx context.Context, userID int32, status domain.ReservationStatus, page, pageSize int32) ([]domain.Reservation, int32, error)
	ListLendings(ctx context.Context, userID int32, status domain.ReservationStatus, page, pageSize int32) ([]domain.Reservation, int32, error)

	// CheckToolAvailability runs the availability and creation-time conflict
	// checks for a candidate range without writing anything.
	CheckToolAvailability(ctx context.Context, toolID int32, startDate, endDate string) error
}

type NotificationService interface {
	ListNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}
