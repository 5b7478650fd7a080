package mocks

import (
	"context"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	models "github.com/sushilldhakal/tourmarket/internal"
	"time"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) CreateBooking(ctx context.Context, booking *models.Booking, dayStart, dayEnd time.Time) (*models.Booking, error) {
	args := m.Called(ctx, booking, dayStart, dayEnd)
	if fn, ok := args.Get(0).(func(context.Context, *models.Booking, time.Time, time.Time) (*models.Booking, error)); ok {
		return fn(ctx, booking, dayStart, dayEnd)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) SumActiveParticipants(ctx context.Context, tourID uuid.UUID, dayStart, dayEnd time.Time) (int, error) {
	args := m.Called(ctx, tourID, dayStart, dayEnd)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingRepository) GetBookingByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetBookingByReference(ctx context.Context, reference string) (*models.Booking, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetBookingsPaginated(ctx context.Context, scope models.BookingScope, afterCursor string, limit int) ([]models.Booking, string, error) {
	args := m.Called(ctx, scope, afterCursor, limit)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]models.Booking), args.String(1), args.Error(2)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from models.BookingStatus, booking *models.Booking) error {
	args := m.Called(ctx, id, from, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) UpdatePayment(ctx context.Context, id uuid.UUID, status models.PaymentStatus, paidAmount *float64, transactionID *string) (*models.Booking, error) {
	args := m.Called(ctx, id, status, paidAmount, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetStats(ctx context.Context, scope models.BookingScope) ([]models.StatusStat, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StatusStat), args.Error(1)
}

func (m *MockBookingRepository) CompleteDepartedBookings(ctx context.Context, before time.Time) ([]models.Booking, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}

type MockTourRepository struct {
	mock.Mock
}

func (m *MockTourRepository) CreateTour(ctx context.Context, tour *models.Tour) (*models.Tour, error) {
	args := m.Called(ctx, tour)
	if fn, ok := args.Get(0).(func(context.Context, *models.Tour) (*models.Tour, error)); ok {
		return fn(ctx, tour)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tour), args.Error(1)
}

func (m *MockTourRepository) GetTourByID(ctx context.Context, id uuid.UUID) (*models.Tour, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tour), args.Error(1)
}

func (m *MockTourRepository) UpdateTourStatus(ctx context.Context, id uuid.UUID, status models.TourStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) CreateNotification(ctx context.Context, n *models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListNotifications(ctx context.Context, recipientID uuid.UUID, limit int) ([]models.Notification, error) {
	args := m.Called(ctx, recipientID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, recipientID, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, recipientID, id, at)
	return args.Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event any) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
