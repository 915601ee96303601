package postgres

import (
	"database/sql"

	"toolshare-reservation-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.ToolRepository
	repository.ReservationRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		ToolRepository:         NewToolRepository(db),
		ReservationRepository:  NewReservationRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
