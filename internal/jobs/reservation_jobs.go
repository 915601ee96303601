package jobs

import (
	"context"
	"fmt"
	"time"

	"toolshare-reservation-backend/internal/domain"
	"toolshare-reservation-backend/internal/logger"
)

// CancelLapsedRequests sweeps pending requests whose start date has already
// passed. They can never be approved (the notice re-check would reject them),
// so the sweep takes the legal pending->cancelled edge on the system's behalf
// and tells the borrower.
func (jr *JobRunner) CancelLapsedRequests() {
	jr.runWithRecovery("CancelLapsedRequests", func() {
		ctx := context.Background()
		today := domain.Today(time.Now()).Format(domain.DateLayout)

		lapsed, err := jr.reservationRepo.ListLapsedPending(ctx, today)
		if err != nil {
			logger.Error("Failed to list lapsed pending requests", "error", err)
			return
		}

		count := 0
		for i := range lapsed {
			res := &lapsed[i]
			res.Status = domain.ReservationStatusCancelled
			res.OwnerNote = "request lapsed: start date passed without approval"
			if err := jr.reservationRepo.UpdateStatus(ctx, res, domain.ReservationStatusPending); err != nil {
				// Someone acted on it between list and update; skip it.
				logger.Debug("Skipping lapsed request", "reservation_id", res.ID, "error", err)
				continue
			}
			count++

			note := &domain.Notification{
				UserID:        res.BorrowerID,
				ReservationID: res.ID,
				EventType:     domain.EventRequestLapsed,
				Message:       fmt.Sprintf("Your request for tool %d lapsed: the start date passed without approval", res.ToolID),
			}
			if err := jr.noteRepo.Create(ctx, note); err != nil {
				logger.Warn("Failed to record lapse notification", "reservation_id", res.ID, "error", err)
			}
		}

		logger.Info("Cancelled lapsed pending requests", "count", count)
	})
}

// SendReturnReminders notifies borrowers of active reservations whose end
// date has passed. Reminders repeat on each run until the tool comes back;
// the reservation itself stays ACTIVE (return is always borrower-confirmed).
func (jr *JobRunner) SendReturnReminders() {
	jr.runWithRecovery("SendReturnReminders", func() {
		ctx := context.Background()
		today := domain.Today(time.Now()).Format(domain.DateLayout)

		overdue, err := jr.reservationRepo.ListOverdueActive(ctx, today)
		if err != nil {
			logger.Error("Failed to list overdue reservations", "error", err)
			return
		}

		count := 0
		for i := range overdue {
			res := &overdue[i]
			note := &domain.Notification{
				UserID:        res.BorrowerID,
				ReservationID: res.ID,
				EventType:     domain.EventReturnOverdue,
				Message:       fmt.Sprintf("Tool %d was due back on %s, please confirm its return", res.ToolID, res.End.Format(domain.DateLayout)),
			}
			if err := jr.noteRepo.Create(ctx, note); err != nil {
				logger.Warn("Failed to record overdue reminder", "reservation_id", res.ID, "error", err)
				continue
			}
			count++
		}

		logger.Info("Sent return reminders", "count", count)
	})
}
