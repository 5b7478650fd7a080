package models

import (
	"time"

	"github.com/google/uuid"
)

const DefaultTourCapacity = 10

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSeller     Role = "seller"
	RoleSubscriber Role = "subscriber"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSeller, RoleSubscriber:
		return true
	}
	return false
}

// Principal is the authenticated caller of an operation. A zero Principal is an anonymous guest.
type Principal struct {
	UserID uuid.UUID `json:"user_id"`
	Role   Role      `json:"role"`
}

func (p Principal) IsAnonymous() bool {
	return p.UserID == uuid.Nil
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func (p Principal) IsSeller() bool {
	return p.Role == RoleSeller
}

type TourStatus string

const (
	TourStatusDraft     TourStatus = "draft"
	TourStatusPublished TourStatus = "published"
	TourStatusArchived  TourStatus = "archived"
)

type Tour struct {
	ID          uuid.UUID  `json:"id" xml:"id"`
	SellerID    uuid.UUID  `json:"seller_id" xml:"seller_id"`
	Title       string     `json:"title" xml:"title"`
	Description string     `json:"description,omitempty" xml:"description,omitempty"`
	Price       float64    `json:"price" xml:"price"`
	Currency    string     `json:"currency" xml:"currency"`
	MaxSize     int        `json:"max_size" xml:"max_size"`
	MinSize     int        `json:"min_size" xml:"min_size"`
	Status      TourStatus `json:"status" xml:"status"`
	CreatedAt   time.Time  `json:"created_at" xml:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" xml:"updated_at"`
}

// Capacity is the per-departure ceiling on adults plus children.
func (t Tour) Capacity() int {
	if t.MaxSize <= 0 {
		return DefaultTourCapacity
	}
	return t.MaxSize
}

type TourRequest struct {
	Title       string  `json:"title" validate:"required,min=3,max=200"`
	Description string  `json:"description" validate:"max=5000"`
	Price       float64 `json:"price" validate:"gte=0"`
	Currency    string  `json:"currency" validate:"omitempty,len=3"`
	MaxSize     int     `json:"max_size" validate:"gte=0"`
	MinSize     int     `json:"min_size" validate:"gte=0,ltefield=MaxSize"`
}

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// ActiveStatuses are the booking states that hold tour capacity.
var ActiveStatuses = []BookingStatus{StatusPending, StatusConfirmed}

var bookingTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
}

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPartial  PaymentStatus = "partial"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentUnpaid, PaymentPartial, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

type Participants struct {
	Adults   int `json:"adults" xml:"adults" validate:"gte=1"`
	Children int `json:"children" xml:"children" validate:"gte=0"`
	Infants  int `json:"infants" xml:"infants" validate:"gte=0"`
}

// Counted returns the participants that occupy capacity. Infants travel free of capacity.
func (p Participants) Counted() int {
	return p.Adults + p.Children
}

type Pricing struct {
	PricePerPerson float64 `json:"price_per_person" xml:"price_per_person" validate:"gte=0"`
	TotalPrice     float64 `json:"total_price" xml:"total_price" validate:"gte=0"`
	Currency       string  `json:"currency" xml:"currency" validate:"omitempty,len=3"`
}

type ContactInfo struct {
	FullName string `json:"full_name" xml:"full_name" validate:"required,min=2,max=100"`
	Email    string `json:"email" xml:"email" validate:"required,email"`
	Phone    string `json:"phone" xml:"phone" validate:"required,min=5,max=30"`
	Country  string `json:"country,omitempty" xml:"country,omitempty" validate:"max=60"`
}

func (c ContactInfo) IsZero() bool {
	return c == ContactInfo{}
}

type Booking struct {
	ID                 uuid.UUID     `json:"id" xml:"id"`
	Reference          string        `json:"booking_reference" xml:"booking_reference"`
	TourID             uuid.UUID     `json:"tour_id" xml:"tour_id"`
	UserID             *uuid.UUID    `json:"user_id,omitempty" xml:"user_id,omitempty"`
	DepartureDate      time.Time     `json:"departure_date" xml:"departure_date"`
	Participants       Participants  `json:"participants" xml:"participants"`
	Pricing            Pricing       `json:"pricing" xml:"pricing"`
	Contact            ContactInfo   `json:"contact_info" xml:"contact_info"`
	Status             BookingStatus `json:"status" xml:"status"`
	PaymentStatus      PaymentStatus `json:"payment_status" xml:"payment_status"`
	PaidAmount         float64       `json:"paid_amount" xml:"paid_amount"`
	TransactionID      string        `json:"transaction_id,omitempty" xml:"transaction_id,omitempty"`
	Notes              string        `json:"notes,omitempty" xml:"notes,omitempty"`
	CancellationReason string        `json:"cancellation_reason,omitempty" xml:"cancellation_reason,omitempty"`
	ConfirmedAt        *time.Time    `json:"confirmed_at,omitempty" xml:"confirmed_at,omitempty"`
	CancelledAt        *time.Time    `json:"cancelled_at,omitempty" xml:"cancelled_at,omitempty"`
	CreatedAt          time.Time     `json:"created_at" xml:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at" xml:"updated_at"`
}

func (b Booking) IsGuest() bool {
	return b.UserID == nil
}

func (b Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

type BookingRequest struct {
	TourID        uuid.UUID    `json:"tour_id" validate:"required"`
	DepartureDate time.Time    `json:"departure_date" validate:"required,future_date"`
	Participants  Participants `json:"participants"`
	Pricing       Pricing      `json:"pricing"`
	Contact       ContactInfo  `json:"contact_info" validate:"-"`
	Reference     string       `json:"booking_reference,omitempty" validate:"omitempty,booking_reference"`
	Notes         string       `json:"notes,omitempty" validate:"max=2000"`
}

type StatusUpdateRequest struct {
	Status BookingStatus `json:"status" validate:"required,booking_status"`
	Notes  string        `json:"notes" validate:"max=2000"`
}

type CancelRequest struct {
	Reason string `json:"reason" validate:"max=2000"`
}

type PaymentUpdateRequest struct {
	PaymentStatus PaymentStatus `json:"payment_status" validate:"required,payment_status"`
	PaidAmount    *float64      `json:"paid_amount,omitempty" validate:"omitempty,gte=0"`
	TransactionID *string       `json:"transaction_id,omitempty" validate:"omitempty,max=200"`
}

type AvailabilityQuery struct {
	TourID string `param:"tourId" validate:"required,valid_uuid"`
	Date   string `query:"date"`
}

type Availability struct {
	TourID            uuid.UUID `json:"tour_id" xml:"tour_id"`
	Date              time.Time `json:"date" xml:"date"`
	MaxSize           int       `json:"max_size" xml:"max_size"`
	Booked            int       `json:"booked" xml:"booked"`
	RemainingCapacity int       `json:"remaining_capacity" xml:"remaining_capacity"`
	Available         bool      `json:"available" xml:"available"`
}

// BookingScope narrows booking queries to what a principal may see.
// A nil field means no restriction on that axis.
type BookingScope struct {
	UserID   *uuid.UUID
	SellerID *uuid.UUID
}

type GetBookingsRequest struct {
	Limit  int
	Cursor string
	Scope  BookingScope
}

type AllBookingsResponse struct {
	Bookings []Booking `json:"bookings" xml:"bookings"`
	Limit    int       `json:"limit" xml:"limit"`
	Cursor   string    `json:"cursor" xml:"cursor"`
}

type StatusStat struct {
	Status  BookingStatus `json:"status" xml:"status"`
	Count   int           `json:"count" xml:"count"`
	Revenue float64       `json:"revenue" xml:"revenue"`
}

type BookingStats struct {
	TotalBookings int          `json:"total_bookings" xml:"total_bookings"`
	TotalRevenue  float64      `json:"total_revenue" xml:"total_revenue"`
	ByStatus      []StatusStat `json:"by_status" xml:"by_status"`
}

type EntityKind string

const (
	KindCategory    EntityKind = "category"
	KindDestination EntityKind = "destination"
)

func (k EntityKind) Valid() bool {
	return k == KindCategory || k == KindDestination
}

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// EntityContent is the seller-editable part of a global entity. Any change to it sends an
// approved entity back to review.
type EntityContent struct {
	Name        string            `json:"name" xml:"name"`
	Description string            `json:"description,omitempty" xml:"description,omitempty"`
	ImageURL    string            `json:"image_url,omitempty" xml:"image_url,omitempty"`
	Details     map[string]string `json:"details,omitempty" xml:"-"`
}

// GlobalEntity is a category or destination shared by every seller.
type GlobalEntity struct {
	ID   uuid.UUID  `json:"id" xml:"id"`
	Kind EntityKind `json:"kind" xml:"kind"`
	EntityContent
	Slug            string         `json:"slug" xml:"slug"`
	IsActive        bool           `json:"is_active" xml:"is_active"`
	CreatedBy       uuid.UUID      `json:"created_by" xml:"created_by"`
	ApprovalStatus  ApprovalStatus `json:"approval_status" xml:"approval_status"`
	ApprovedBy      *uuid.UUID     `json:"approved_by,omitempty" xml:"approved_by,omitempty"`
	ApprovedAt      *time.Time     `json:"approved_at,omitempty" xml:"approved_at,omitempty"`
	RejectedBy      *uuid.UUID     `json:"rejected_by,omitempty" xml:"rejected_by,omitempty"`
	RejectedAt      *time.Time     `json:"rejected_at,omitempty" xml:"rejected_at,omitempty"`
	RejectionReason string         `json:"rejection_reason,omitempty" xml:"rejection_reason,omitempty"`
	CreatedAt       time.Time      `json:"created_at" xml:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" xml:"updated_at"`
}

// SellerPreference is a seller's private view of a global entity.
type SellerPreference struct {
	SellerID       uuid.UUID      `json:"seller_id" xml:"seller_id"`
	EntityID       uuid.UUID      `json:"entity_id" xml:"entity_id"`
	Kind           EntityKind     `json:"kind" xml:"kind"`
	IsActive       bool           `json:"is_active" xml:"is_active"`
	IsApproved     bool           `json:"is_approved" xml:"is_approved"`
	ApprovalStatus ApprovalStatus `json:"approval_status" xml:"approval_status"`
	IsVisible      bool           `json:"is_visible" xml:"is_visible"`
	AddedAt        time.Time      `json:"added_at" xml:"added_at"`
	UpdatedAt      time.Time      `json:"updated_at" xml:"updated_at"`
}

// SellerEntity is a global entity as seen through one seller's preference.
type SellerEntity struct {
	GlobalEntity
	Preference SellerPreference `json:"preference" xml:"preference"`
}

type EntityRequest struct {
	Name        string            `json:"name" validate:"required,min=2,max=120"`
	Description string            `json:"description" validate:"max=5000"`
	ImageURL    string            `json:"image_url" validate:"omitempty,url"`
	Details     map[string]string `json:"details" validate:"omitempty,max=30"`
}

type EntityUpdateRequest struct {
	Name        *string            `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Description *string            `json:"description,omitempty" validate:"omitempty,max=5000"`
	ImageURL    *string            `json:"image_url,omitempty" validate:"omitempty,url"`
	Details     *map[string]string `json:"details,omitempty"`
	IsActive    *bool              `json:"is_active,omitempty"`
}

type RejectRequest struct {
	Reason string `json:"reason" validate:"max=2000"`
}

type NotificationKind string

const (
	NotificationEntityApproved NotificationKind = "entity_approved"
	NotificationEntityRejected NotificationKind = "entity_rejected"
	NotificationBookingStatus  NotificationKind = "booking_status"
)

type Notification struct {
	ID          uuid.UUID        `json:"id" xml:"id"`
	RecipientID uuid.UUID        `json:"recipient_id" xml:"recipient_id"`
	Kind        NotificationKind `json:"kind" xml:"kind"`
	Title       string           `json:"title" xml:"title"`
	Message     string           `json:"message" xml:"message"`
	SubjectID   *uuid.UUID       `json:"subject_id,omitempty" xml:"subject_id,omitempty"`
	ReadAt      *time.Time       `json:"read_at,omitempty" xml:"read_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at" xml:"created_at"`
}
