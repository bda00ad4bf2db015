package application

import (
	"context"

	"github.com/stretchr/testify/mock"

	"travelbooking/internal/pkg/pagination"
	"travelbooking/internal/service/booking/domain"
	"travelbooking/internal/service/booking/domain/port"
)

type MockInventory struct {
	mock.Mock
}

func (m *MockInventory) DailyStatus(ctx context.Context, line domain.InventoryLine) (*port.DailyStatus, error) {
	args := m.Called(ctx, line)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.DailyStatus), args.Error(1)
}

func (m *MockInventory) Reserve(ctx context.Context, line domain.InventoryLine) error {
	return m.Called(ctx, line).Error(0)
}

func (m *MockInventory) Release(ctx context.Context, line domain.InventoryLine) error {
	return m.Called(ctx, line).Error(0)
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, b *domain.Booking) (uint64, error) {
	args := m.Called(ctx, b)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id uint64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockRepository) FindByUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, page pagination.Params) (*domain.BookingPage, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingPage), args.Error(1)
}

func (m *MockRepository) Filter(ctx context.Context, criteria domain.FilterCriteria, page pagination.Params) (*domain.BookingPage, error) {
	args := m.Called(ctx, criteria, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingPage), args.Error(1)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id uint64, status domain.Status) (int64, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) UpdatePaymentStatus(ctx context.Context, id uint64, status domain.PaymentStatus) (int64, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(int64), args.Error(1)
}

type MockPayments struct {
	mock.Mock
}

func (m *MockPayments) InitiatePayment(ctx context.Context, req port.PaymentRequest) (*port.PaymentResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.PaymentResult), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event domain.BookingEvent) error {
	return m.Called(ctx, event).Error(0)
}
