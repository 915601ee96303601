package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"toolshare-reservation-backend/internal/domain"
	"toolshare-reservation-backend/internal/repository"
)

type toolRepository struct {
	db *sql.DB
}

func NewToolRepository(db *sql.DB) repository.ToolRepository {
	return &toolRepository{db: db}
}

func (r *toolRepository) GetByID(ctx context.Context, id int32) (*domain.Tool, error) {
	t := &domain.Tool{}
	query := `SELECT id, owner_id, status, advance_notice_days, max_loan_days, created_on FROM tools WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.OwnerID, &t.Status, &t.AdvanceNoticeDays, &t.MaxLoanDays, &t.CreatedOn,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: tool %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}
