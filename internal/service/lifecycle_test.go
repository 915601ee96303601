package service_test

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"sync"
	"testing"

	"toolshare-reservation-backend/internal/domain"
	"toolshare-reservation-backend/internal/repository"
	"toolshare-reservation-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReservationStore is an in-memory reservation store with the same
// conditional-write semantics as the postgres repository: UpdateStatus and
// ConfirmPending only commit when the row is still in the expected status,
// and ConfirmPending re-runs the conflict check atomically with the write.
type fakeReservationStore struct {
	mu   sync.Mutex
	next int32
	rows map[int32]*domain.Reservation
}

func newFakeReservationStore() *fakeReservationStore {
	return &fakeReservationStore{rows: map[int32]*domain.Reservation{}}
}

func (f *fakeReservationStore) Create(_ context.Context, res *domain.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	res.ID = f.next
	cp := *res
	f.rows[res.ID] = &cp
	return nil
}

func (f *fakeReservationStore) GetByID(_ context.Context, id int32) (*domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (f *fakeReservationStore) ListForTool(_ context.Context, toolID int32, statuses []domain.ReservationStatus, excludeID int32) ([]domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listLocked(toolID, statuses, excludeID), nil
}

func (f *fakeReservationStore) listLocked(toolID int32, statuses []domain.ReservationStatus, excludeID int32) []domain.Reservation {
	var out []domain.Reservation
	for _, row := range f.rows {
		if row.ToolID != toolID || row.ID == excludeID {
			continue
		}
		for _, s := range statuses {
			if row.Status == s {
				out = append(out, *row)
				break
			}
		}
	}
	return out
}

func (f *fakeReservationStore) UpdateStatus(_ context.Context, res *domain.Reservation, from domain.ReservationStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[res.ID]
	if !ok || row.Status != from {
		return repository.ErrStaleStatus
	}
	cp := *res
	f.rows[res.ID] = &cp
	return nil
}

func (f *fakeReservationStore) ConfirmPending(_ context.Context, res *domain.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	blocking := f.listLocked(res.ToolID, domain.BlockingStatuses, res.ID)
	if c := domain.FindConflict(res.DateRange, blocking); c != nil {
		return domain.NewConflictError(c.DateRange)
	}
	row, ok := f.rows[res.ID]
	if !ok || row.Status != domain.ReservationStatusPending {
		return repository.ErrStaleStatus
	}
	row.Status = domain.ReservationStatusConfirmed
	row.OwnerNote = res.OwnerNote
	res.Status = domain.ReservationStatusConfirmed
	return nil
}

func (f *fakeReservationStore) ListByBorrower(_ context.Context, _ int32, _ domain.ReservationStatus, _, _ int32) ([]domain.Reservation, int32, error) {
	return nil, 0, nil
}

func (f *fakeReservationStore) ListByOwner(_ context.Context, _ int32, _ domain.ReservationStatus, _, _ int32) ([]domain.Reservation, int32, error) {
	return nil, 0, nil
}

func (f *fakeReservationStore) ListLapsedPending(_ context.Context, _ string) ([]domain.Reservation, error) {
	return nil, nil
}

func (f *fakeReservationStore) ListOverdueActive(_ context.Context, _ string) ([]domain.Reservation, error) {
	return nil, nil
}

func (f *fakeReservationStore) randomPending(rng *rand.Rand) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []int32
	for id, row := range f.rows {
		if row.Status == domain.ReservationStatusPending {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return 0
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids[rng.Intn(len(ids))]
}

func (f *fakeReservationStore) countByStatus(status domain.ReservationStatus) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, row := range f.rows {
		if row.Status == status {
			n++
		}
	}
	return n
}

type fakeToolStore struct {
	tool *domain.Tool
}

func (f *fakeToolStore) GetByID(_ context.Context, _ int32) (*domain.Tool, error) {
	cp := *f.tool
	return &cp, nil
}

type fakeNoteStore struct{}

func (f *fakeNoteStore) Create(_ context.Context, _ *domain.Notification) error { return nil }
func (f *fakeNoteStore) ListByUser(_ context.Context, _ int32, _, _ int32) ([]domain.Notification, int32, error) {
	return nil, 0, nil
}
func (f *fakeNoteStore) MarkAsRead(_ context.Context, _, _ int32) error { return nil }

// assertNoOverlappingBlocking checks the one property everything else hangs
// off: no two reservations in a blocking status ever cover a shared day.
func assertNoOverlappingBlocking(t *testing.T, store *fakeReservationStore) {
	t.Helper()
	store.mu.Lock()
	defer store.mu.Unlock()
	var blocking []domain.Reservation
	for _, row := range store.rows {
		if row.Status == domain.ReservationStatusConfirmed || row.Status == domain.ReservationStatusActive {
			blocking = append(blocking, *row)
		}
	}
	for i := range blocking {
		for j := i + 1; j < len(blocking); j++ {
			require.Falsef(t, domain.Overlaps(blocking[i].DateRange, blocking[j].DateRange),
				"reservations %d and %d overlap while both blocking", blocking[i].ID, blocking[j].ID)
		}
	}
}

// Random create/approve sequences against the fake store. Individual calls
// may fail with conflicts, policy violations, or duplicate rejections; the
// store must never hold two overlapping confirmed rows after any step.
func TestLifecycle_RandomSequencesNeverDoubleBook(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(7))
	store := newFakeReservationStore()
	svc := service.NewReservationService(store, &fakeToolStore{tool: availableTool()}, &fakeNoteStore{}, true)

	for step := 0; step < 400; step++ {
		if rng.Intn(2) == 0 {
			borrower := int32(21 + rng.Intn(5))
			start := 1 + rng.Intn(25)
			length := rng.Intn(8) // inclusive spans of 1..8 days against a 7 day limit
			_, err := svc.CreateReservation(ctx, borrower, toolID, dateStr(start), dateStr(start+length), "")
			if err != nil {
				require.Truef(t,
					errors.Is(err, domain.ErrConflict) ||
						errors.Is(err, domain.ErrPolicyViolation) ||
						errors.Is(err, domain.ErrValidation),
					"unexpected create error at step %d: %v", step, err)
			}
		} else if id := store.randomPending(rng); id != 0 {
			_, err := svc.ApproveReservation(ctx, ownerID, id, "")
			if err != nil {
				require.Truef(t, errors.Is(err, domain.ErrConflict),
					"unexpected approve error at step %d: %v", step, err)
			}
		}

		assertNoOverlappingBlocking(t, store)
	}

	require.Greater(t, store.countByStatus(domain.ReservationStatusConfirmed), 0,
		"the sequence should have confirmed at least one reservation")
}

// Two concurrent approvals of overlapping pending requests: exactly one
// confirms, the other is told the slot is gone.
func TestLifecycle_ConcurrentApprovalsConfirmExactlyOne(t *testing.T) {
	ctx := context.Background()
	store := newFakeReservationStore()
	svc := service.NewReservationService(store, &fakeToolStore{tool: availableTool()}, &fakeNoteStore{}, true)

	first, err := svc.CreateReservation(ctx, borrowerID, toolID, dateStr(2), dateStr(4), "")
	require.NoError(t, err)
	second, err := svc.CreateReservation(ctx, strangerID, toolID, dateStr(3), dateStr(5), "")
	require.NoError(t, err)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, id := range []int32{first.ID, second.ID} {
		wg.Add(1)
		go func(i int, id int32) {
			defer wg.Done()
			_, errs[i] = svc.ApproveReservation(ctx, ownerID, id, "")
		}(i, id)
	}
	wg.Wait()

	confirmed, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			confirmed++
		case errors.Is(err, domain.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected approval error: %v", err)
		}
	}
	assert.Equal(t, 1, confirmed)
	assert.Equal(t, 1, conflicts)
	assert.Equal(t, 1, store.countByStatus(domain.ReservationStatusConfirmed))
	assertNoOverlappingBlocking(t, store)
}
