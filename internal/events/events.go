package events

import (
	"github.com/google/uuid"
	models "github.com/sushilldhakal/tourmarket/internal"
	"time"
)

type Header struct {
	ID          string    `json:"id"`
	PublishedAt time.Time `json:"published_at"`
}

func NewHeader() Header {
	return Header{
		ID:          uuid.NewString(),
		PublishedAt: time.Now().UTC(),
	}
}

type BookingCreated struct {
	Header        Header     `json:"header"`
	BookingID     uuid.UUID  `json:"booking_id"`
	Reference     string     `json:"booking_reference"`
	TourID        uuid.UUID  `json:"tour_id"`
	UserID        *uuid.UUID `json:"user_id,omitempty"`
	DepartureDate time.Time  `json:"departure_date"`
	Participants  int        `json:"participants"`
	TotalPrice    float64    `json:"total_price"`
	Currency      string     `json:"currency"`
}

type BookingStatusChanged struct {
	Header    Header               `json:"header"`
	BookingID uuid.UUID            `json:"booking_id"`
	Reference string               `json:"booking_reference"`
	UserID    *uuid.UUID           `json:"user_id,omitempty"`
	From      models.BookingStatus `json:"from"`
	To        models.BookingStatus `json:"to"`
	Reason    string               `json:"reason,omitempty"`
}

// EntityReviewed is published when an admin approves or rejects a category or destination.
type EntityReviewed struct {
	Header     Header                `json:"header"`
	EntityID   uuid.UUID             `json:"entity_id"`
	Kind       models.EntityKind     `json:"kind"`
	Name       string                `json:"name"`
	CreatedBy  uuid.UUID             `json:"created_by"`
	ReviewedBy uuid.UUID             `json:"reviewed_by"`
	Outcome    models.ApprovalStatus `json:"outcome"`
	Reason     string                `json:"reason,omitempty"`
}
