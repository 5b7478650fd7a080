package mocks

import (
	"context"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	models "github.com/sushilldhakal/tourmarket/internal"
	"time"
)

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) CheckAvailability(ctx context.Context, tourID uuid.UUID, date time.Time) (*models.Availability, error) {
	args := m.Called(ctx, tourID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Availability), args.Error(1)
}

func (m *MockBookingService) CreateBooking(ctx context.Context, actor models.Principal, request *models.BookingRequest) (*models.Booking, error) {
	return m.booking(m.Called(ctx, actor, request))
}

func (m *MockBookingService) GetBooking(ctx context.Context, actor models.Principal, id uuid.UUID) (*models.Booking, error) {
	return m.booking(m.Called(ctx, actor, id))
}

func (m *MockBookingService) GetBookingByReference(ctx context.Context, reference string) (*models.Booking, error) {
	return m.booking(m.Called(ctx, reference))
}

func (m *MockBookingService) AllBookings(ctx context.Context, actor models.Principal, req models.GetBookingsRequest) (*models.AllBookingsResponse, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AllBookingsResponse), args.Error(1)
}

func (m *MockBookingService) UpdateBookingStatus(ctx context.Context, actor models.Principal, id uuid.UUID, status models.BookingStatus, notes string) (*models.Booking, error) {
	return m.booking(m.Called(ctx, actor, id, status, notes))
}

func (m *MockBookingService) CancelBooking(ctx context.Context, actor models.Principal, id uuid.UUID, reason string) (*models.Booking, error) {
	return m.booking(m.Called(ctx, actor, id, reason))
}

func (m *MockBookingService) UpdatePaymentStatus(ctx context.Context, actor models.Principal, id uuid.UUID, request *models.PaymentUpdateRequest) (*models.Booking, error) {
	return m.booking(m.Called(ctx, actor, id, request))
}

func (m *MockBookingService) Stats(ctx context.Context, actor models.Principal) (*models.BookingStats, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingStats), args.Error(1)
}

func (m *MockBookingService) CompletePastBookings(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingService) booking(args mock.Arguments) (*models.Booking, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

type MockTourService struct {
	mock.Mock
}

func (m *MockTourService) CreateTour(ctx context.Context, actor models.Principal, request *models.TourRequest) (*models.Tour, error) {
	return m.tour(m.Called(ctx, actor, request))
}

func (m *MockTourService) GetTour(ctx context.Context, id uuid.UUID) (*models.Tour, error) {
	return m.tour(m.Called(ctx, id))
}

func (m *MockTourService) PublishTour(ctx context.Context, actor models.Principal, id uuid.UUID) (*models.Tour, error) {
	return m.tour(m.Called(ctx, actor, id))
}

func (m *MockTourService) tour(args mock.Arguments) (*models.Tour, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tour), args.Error(1)
}

type MockApprovalService struct {
	mock.Mock
}

func (m *MockApprovalService) Submit(ctx context.Context, actor models.Principal, kind models.EntityKind, request *models.EntityRequest) (*models.GlobalEntity, error) {
	return m.entity(m.Called(ctx, actor, kind, request))
}

func (m *MockApprovalService) Update(ctx context.Context, actor models.Principal, kind models.EntityKind, id uuid.UUID, request *models.EntityUpdateRequest) (*models.GlobalEntity, error) {
	return m.entity(m.Called(ctx, actor, kind, id, request))
}

func (m *MockApprovalService) Approve(ctx context.Context, actor models.Principal, kind models.EntityKind, id uuid.UUID) (*models.GlobalEntity, error) {
	return m.entity(m.Called(ctx, actor, kind, id))
}

func (m *MockApprovalService) Reject(ctx context.Context, actor models.Principal, kind models.EntityKind, id uuid.UUID, reason string) (*models.GlobalEntity, error) {
	return m.entity(m.Called(ctx, actor, kind, id, reason))
}

func (m *MockApprovalService) ToggleActive(ctx context.Context, actor models.Principal, kind models.EntityKind, id uuid.UUID) (*models.SellerPreference, error) {
	return m.preference(m.Called(ctx, actor, kind, id))
}

func (m *MockApprovalService) AddToSellerList(ctx context.Context, actor models.Principal, kind models.EntityKind, id uuid.UUID) (*models.SellerPreference, error) {
	return m.preference(m.Called(ctx, actor, kind, id))
}

func (m *MockApprovalService) RemoveFromSellerList(ctx context.Context, actor models.Principal, kind models.EntityKind, id uuid.UUID) error {
	args := m.Called(ctx, actor, kind, id)
	return args.Error(0)
}

func (m *MockApprovalService) Get(ctx context.Context, kind models.EntityKind, id uuid.UUID) (*models.GlobalEntity, error) {
	return m.entity(m.Called(ctx, kind, id))
}

func (m *MockApprovalService) ListByStatus(ctx context.Context, kind models.EntityKind, status models.ApprovalStatus) ([]models.GlobalEntity, error) {
	args := m.Called(ctx, kind, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GlobalEntity), args.Error(1)
}

func (m *MockApprovalService) ListSellerEntities(ctx context.Context, actor models.Principal, kind models.EntityKind) ([]models.SellerEntity, error) {
	args := m.Called(ctx, actor, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SellerEntity), args.Error(1)
}

func (m *MockApprovalService) entity(args mock.Arguments) (*models.GlobalEntity, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GlobalEntity), args.Error(1)
}

func (m *MockApprovalService) preference(args mock.Arguments) (*models.SellerPreference, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SellerPreference), args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Notify(ctx context.Context, n *models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationService) List(ctx context.Context, actor models.Principal) ([]models.Notification, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, actor models.Principal, id uuid.UUID) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

type MockLogouter struct {
	mock.Mock
}

func (m *MockLogouter) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}
