package ports

import (
	"context"
	"github.com/google/uuid"
	models "github.com/sushilldhakal/tourmarket/internal"
	"time"
)

type TourRepository interface {
	CreateTour(ctx context.Context, tour *models.Tour) (*models.Tour, error)
	GetTourByID(ctx context.Context, id uuid.UUID) (*models.Tour, error)
	UpdateTourStatus(ctx context.Context, id uuid.UUID, status models.TourStatus) error
}

type BookingRepository interface {
	// CreateBooking persists the booking only if the tour still has room for it on the departure day.
	// The capacity check and the insert run in one transaction holding the tour row lock.
	CreateBooking(ctx context.Context, booking *models.Booking, dayStart, dayEnd time.Time) (*models.Booking, error)
	SumActiveParticipants(ctx context.Context, tourID uuid.UUID, dayStart, dayEnd time.Time) (int, error)
	GetBookingByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	GetBookingByReference(ctx context.Context, reference string) (*models.Booking, error)
	GetBookingsPaginated(ctx context.Context, scope models.BookingScope, afterCursor string, limit int) ([]models.Booking, string, error)
	// UpdateStatus applies the change only while the booking is still in status from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from models.BookingStatus, booking *models.Booking) error
	UpdatePayment(ctx context.Context, id uuid.UUID, status models.PaymentStatus, paidAmount *float64, transactionID *string) (*models.Booking, error)
	GetStats(ctx context.Context, scope models.BookingScope) ([]models.StatusStat, error)
	CompleteDepartedBookings(ctx context.Context, before time.Time) ([]models.Booking, error)
}

type ApprovalRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateEntity(ctx context.Context, entity *models.GlobalEntity) error
	GetEntity(ctx context.Context, kind models.EntityKind, id uuid.UUID) (*models.GlobalEntity, error)
	UpdateEntity(ctx context.Context, entity *models.GlobalEntity) error
	DeleteEntity(ctx context.Context, kind models.EntityKind, id uuid.UUID) error
	ListEntities(ctx context.Context, kind models.EntityKind, status models.ApprovalStatus) ([]models.GlobalEntity, error)
	GetPreference(ctx context.Context, sellerID, entityID uuid.UUID) (*models.SellerPreference, error)
	UpsertPreference(ctx context.Context, pref *models.SellerPreference) error
	DeletePreference(ctx context.Context, sellerID, entityID uuid.UUID) error
	// SyncPreferences mirrors an entity review outcome into every seller's preference for it.
	SyncPreferences(ctx context.Context, entityID uuid.UUID, status models.ApprovalStatus) error
	ListSellerEntities(ctx context.Context, kind models.EntityKind, sellerID uuid.UUID) ([]models.SellerEntity, error)
}

type NotificationRepository interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, recipientID uuid.UUID, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, recipientID, id uuid.UUID, at time.Time) error
}

// EventPublisher publishes domain events after the state change is committed.
type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}

type TourService interface {
	CreateTour(ctx context.Context, actor models.Principal, request *models.TourRequest) (*models.Tour, error)
	GetTour(ctx context.Context, id uuid.UUID) (*models.Tour, error)
	PublishTour(ctx context.Context, actor models.Principal, id uuid.UUID) (*models.Tour, error)
}

type BookingService interface {
	CheckAvailability(ctx context.Context, tourID uuid.UUID, date time.Time) (*models.Availability, error)
	CreateBooking(ctx context.Context, actor models.Principal, request *models.BookingRequest) (*models.Booking, error)
	GetBooking(ctx context.Context, actor models.Principal, id uuid.UUID) (*models.Booking, error)
	GetBookingByReference(ctx context.Context, reference string) (*models.Booking, error)
	AllBookings(ctx context.Context, actor models.Principal, req models.GetBookingsRequest) (*models.AllBookingsResponse, error)
	UpdateBookingStatus(ctx context.Context, actor models.Principal, id uuid.UUID, status models.BookingStatus, notes string) (*models.Booking, error)
	CancelBooking(ctx context.Context, actor models.Principal, id uuid.UUID, reason string) (*models.Booking, error)
	UpdatePaymentStatus(ctx context.Context, actor models.Principal, id uuid.UUID, request *models.PaymentUpdateRequest) (*models.Booking, error)
	Stats(ctx context.Context, actor models.Principal) (*models.BookingStats, error)
	CompletePastBookings(ctx context.Context) (int64, error)
}

type ApprovalService interface {
	Submit(ctx context.Context, actor models.Principal, kind models.EntityKind, request *models.EntityRequest) (*models.GlobalEntity, error)
	Update(ctx context.Context, actor models.Principal, kind models.EntityKind, id uuid.UUID, request *models.EntityUpdateRequest) (*models.GlobalEntity, error)
	Approve(ctx context.Context, actor models.Principal, kind models.EntityKind, id uuid.UUID) (*models.GlobalEntity, error)
	Reject(ctx context.Context, actor models.Principal, kind models.EntityKind, id uuid.UUID, reason string) (*models.GlobalEntity, error)
	ToggleActive(ctx context.Context, actor models.Principal, kind models.EntityKind, id uuid.UUID) (*models.SellerPreference, error)
	AddToSellerList(ctx context.Context, actor models.Principal, kind models.EntityKind, id uuid.UUID) (*models.SellerPreference, error)
	RemoveFromSellerList(ctx context.Context, actor models.Principal, kind models.EntityKind, id uuid.UUID) error
	Get(ctx context.Context, kind models.EntityKind, id uuid.UUID) (*models.GlobalEntity, error)
	ListByStatus(ctx context.Context, kind models.EntityKind, status models.ApprovalStatus) ([]models.GlobalEntity, error)
	ListSellerEntities(ctx context.Context, actor models.Principal, kind models.EntityKind) ([]models.SellerEntity, error)
}

type NotificationService interface {
	Notify(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, actor models.Principal) ([]models.Notification, error)
	MarkRead(ctx context.Context, actor models.Principal, id uuid.UUID) error
}
