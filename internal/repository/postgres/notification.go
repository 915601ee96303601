package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"toolshare-reservation-backend/internal/domain"
	"toolshare-reservation-backend/internal/repository"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, note *domain.Notification) error {
	query := `INSERT INTO notifications (user_id, reservation_id, event_type, message, is_read, created_on)
	          VALUES ($1, $2, $3, $4, false, $5) RETURNING id`
	note.CreatedOn = time.Now().UTC()
	return r.db.QueryRowContext(ctx, query,
		note.UserID, note.ReservationID, note.EventType, note.Message, note.CreatedOn,
	).Scan(&note.ID)
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM notifications WHERE user_id = $1`, userID,
	).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, user_id, reservation_id, event_type, message, is_read, created_on
	          FROM notifications WHERE user_id = $1
	          ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.ReservationID, &n.EventType, &n.Message, &n.IsRead, &n.CreatedOn); err != nil {
			return nil, 0, err
		}
		notes = append(notes, n)
	}
	return notes, count, rows.Err()
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID int32) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: notification %d", domain.ErrNotFound, id)
	}
	return nil
}
