package postgres_test

import (
	"context"
	"testing"

	"toolshare-reservation-backend/internal/domain"
	"toolshare-reservation-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepository_MarkAsRead(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewNotificationRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE notifications SET is_read").
			WithArgs(int32(5), int32(20)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.MarkAsRead(ctx, 5, 20)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("WrongUserOrMissingRowIsNotFound", func(t *testing.T) {
		mock.ExpectExec("UPDATE notifications SET is_read").
			WithArgs(int32(5), int32(30)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.MarkAsRead(ctx, 5, 30)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
