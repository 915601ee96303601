package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"toolshare-reservation-backend/internal/domain"
	"toolshare-reservation-backend/internal/repository"

	"github.com/lib/pq"
)

const reservationColumns = `id, tool_id, borrower_id, owner_id, status, start_date, end_date, note, owner_note, pickup_confirmed_at, return_confirmed_at, created_on, updated_on`

type reservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	query := `INSERT INTO reservations (tool_id, borrower_id, owner_id, status, start_date, end_date, note, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	now := time.Now().UTC()
	res.CreatedOn = now
	res.UpdatedOn = now
	return r.db.QueryRowContext(ctx, query,
		res.ToolID, res.BorrowerID, res.OwnerID, res.Status,
		res.Start, res.End, res.Note, now, now,
	).Scan(&res.ID)
}

func (r *reservationRepository) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	res, err := scanReservation(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: reservation %d", domain.ErrNotFound, id)
	}
	return res, err
}

func (r *reservationRepository) ListForTool(ctx context.Context, toolID int32, statuses []domain.ReservationStatus, excludeID int32) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE tool_id = $1 AND status = ANY($2) AND id <> $3
	          ORDER BY start_date`
	rows, err := r.db.QueryContext(ctx, query, toolID, statusArray(statuses), excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReservations(rows)
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, res *domain.Reservation, from domain.ReservationStatus) error {
	query := `UPDATE reservations
	          SET status=$1, note=$2, owner_note=$3, pickup_confirmed_at=$4, return_confirmed_at=$5, updated_on=$6
	          WHERE id=$7 AND status=$8`
	res.UpdatedOn = time.Now().UTC()
	result, err := r.db.ExecContext(ctx, query,
		res.Status, res.Note, res.OwnerNote, res.PickupConfirmedAt, res.ReturnConfirmedAt, res.UpdatedOn,
		res.ID, from,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrStaleStatus
	}
	return nil
}

// ConfirmPending serializes approvals per tool by locking the tool row, then
// re-runs the conflict check against the blocking set before the conditional
// status write. All of it happens in one transaction so no overlapping pair
// can both reach CONFIRMED.
func (r *reservationRepository) ConfirmPending(ctx context.Context, res *domain.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT id FROM tools WHERE id = $1 FOR UPDATE`, res.ToolID); err != nil {
		return err
	}

	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE tool_id = $1 AND status = ANY($2) AND id <> $3`
	rows, err := tx.QueryContext(ctx, query, res.ToolID, statusArray(domain.BlockingStatuses), res.ID)
	if err != nil {
		return err
	}
	blocking, err := scanReservations(rows)
	rows.Close()
	if err != nil {
		return err
	}

	if c := domain.FindConflict(res.DateRange, blocking); c != nil {
		return domain.NewConflictError(c.DateRange)
	}

	res.Status = domain.ReservationStatusConfirmed
	res.UpdatedOn = time.Now().UTC()
	result, err := tx.ExecContext(ctx,
		`UPDATE reservations SET status=$1, owner_note=$2, updated_on=$3 WHERE id=$4 AND status=$5`,
		res.Status, res.OwnerNote, res.UpdatedOn, res.ID, domain.ReservationStatusPending,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrStaleStatus
	}

	return tx.Commit()
}

func (r *reservationRepository) ListByBorrower(ctx context.Context, borrowerID int32, status domain.ReservationStatus, page, pageSize int32) ([]domain.Reservation, int32, error) {
	return r.list(ctx, "borrower_id", borrowerID, status, page, pageSize)
}

func (r *reservationRepository) ListByOwner(ctx context.Context, ownerID int32, status domain.ReservationStatus, page, pageSize int32) ([]domain.Reservation, int32, error) {
	return r.list(ctx, "owner_id", ownerID, status, page, pageSize)
}

func (r *reservationRepository) list(ctx context.Context, idColumn string, id int32, status domain.ReservationStatus, page, pageSize int32) ([]domain.Reservation, int32, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE ` + idColumn + ` = $1`
	args := []interface{}{id}
	argIdx := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") AS sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	reservations, err := scanReservations(rows)
	if err != nil {
		return nil, 0, err
	}
	return reservations, count, nil
}

func (r *reservationRepository) ListLapsedPending(ctx context.Context, before string) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE status = $1 AND start_date < $2`
	rows, err := r.db.QueryContext(ctx, query, domain.ReservationStatusPending, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReservations(rows)
}

func (r *reservationRepository) ListOverdueActive(ctx context.Context, before string) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE status = $1 AND end_date < $2`
	rows, err := r.db.QueryContext(ctx, query, domain.ReservationStatusActive, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReservations(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	res := &domain.Reservation{}
	err := row.Scan(
		&res.ID, &res.ToolID, &res.BorrowerID, &res.OwnerID, &res.Status,
		&res.Start, &res.End, &res.Note, &res.OwnerNote,
		&res.PickupConfirmedAt, &res.ReturnConfirmedAt,
		&res.CreatedOn, &res.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func scanReservations(rows *sql.Rows) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

func statusArray(statuses []domain.ReservationStatus) interface{} {
	strs := make([]string, len(statuses))
	for i, s := range statuses {
		strs[i] = string(s)
	}
	return pq.Array(strs)
}
