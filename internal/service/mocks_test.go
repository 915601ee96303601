package service_test

import (
	"context"

	"toolshare-reservation-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockReservationRepo
type MockReservationRepo struct {
	mock.Mock
}

func (m *MockReservationRepo) Create(ctx context.Context, res *domain.Reservation) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}
func (m *MockReservationRepo) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) ListForTool(ctx context.Context, toolID int32, statuses []domain.ReservationStatus, excludeID int32) ([]domain.Reservation, error) {
	args := m.Called(ctx, toolID, statuses, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) UpdateStatus(ctx context.Context, res *domain.Reservation, from domain.ReservationStatus) error {
	args := m.Called(ctx, res, from)
	return args.Error(0)
}
func (m *MockReservationRepo) ConfirmPending(ctx context.Context, res *domain.Reservation) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}
func (m *MockReservationRepo) ListByBorrower(ctx context.Context, borrowerID int32, status domain.ReservationStatus, page, pageSize int32) ([]domain.Reservation, int32, error) {
	args := m.Called(ctx, borrowerID, status, page, pageSize)
	return args.Get(0).([]domain.Reservation), args.Get(1).(int32), args.Error(2)
}
func (m *MockReservationRepo) ListByOwner(ctx context.Context, ownerID int32, status domain.ReservationStatus, page, pageSize int32) ([]domain.Reservation, int32, error) {
	args := m.Called(ctx, ownerID, status, page, pageSize)
	return args.Get(0).([]domain.Reservation), args.Get(1).(int32), args.Error(2)
}
func (m *MockReservationRepo) ListLapsedPending(ctx context.Context, before string) ([]domain.Reservation, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) ListOverdueActive(ctx context.Context, before string) ([]domain.Reservation, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

// MockToolRepo
type MockToolRepo struct {
	mock.Mock
}

func (m *MockToolRepo) GetByID(ctx context.Context, id int32) (*domain.Tool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tool), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int32), args.Error(2)
	}
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}
