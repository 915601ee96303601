package repository

import (
	"context"
	"errors"

	"toolshare-reservation-backend/internal/domain"
)

// ErrStaleStatus is returned by conditional writes when the reservation is no
// longer in the expected status. The caller decides whether that surfaces as
// a conflict (lost approval race) or an invalid transition.
var ErrStaleStatus = errors.New("reservation status changed concurrently")

// ToolRepository is the narrow read contract against the tool catalog; the
// reservation engine never mutates listings.
type ToolRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Tool, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) error
	GetByID(ctx context.Context, id int32) (*domain.Reservation, error)

	// ListForTool returns the tool's reservations in the given statuses,
	// excluding excludeID (pass 0 to exclude nothing).
	ListForTool(ctx context.Context, toolID int32, statuses []domain.ReservationStatus, excludeID int32) ([]domain.Reservation, error)

	// UpdateStatus persists res conditioned on the row still being in the
	// `from` status; ErrStaleStatus otherwise. At most one write per call.
	UpdateStatus(ctx context.Context, res *domain.Reservation, from domain.ReservationStatus) error

	// ConfirmPending commits the pending->confirmed transition with the
	// conflict re-check inside the same transaction: the tool's rows are
	// locked, blocking siblings re-read, and the write aborted with
	// domain.ErrConflict if an overlap appeared since the request was made.
	ConfirmPending(ctx context.Context, res *domain.Reservation) error

	ListByBorrower(ctx context.Context, borrowerID int32, status domain.ReservationStatus, page, pageSize int32) ([]domain.Reservation, int32, error)
	ListByOwner(ctx context.Context, ownerID int32, status domain.ReservationStatus, page, pageSize int32) ([]domain.Reservation, int32, error)

	// ListLapsedPending returns pending requests whose start date is before
	// the given date. Used by the cronjob sweep.
	ListLapsedPending(ctx context.Context, before string) ([]domain.Reservation, error)
	// ListOverdueActive returns active reservations whose end date is before
	// the given date.
	ListOverdueActive(ctx context.Context, before string) ([]domain.Reservation, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}
