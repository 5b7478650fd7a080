package events

import (
	"context"
	"fmt"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/google/uuid"
	models "github.com/sushilldhakal/tourmarket/internal"
	"github.com/sushilldhakal/tourmarket/internal/log"
	"github.com/sushilldhakal/tourmarket/internal/ports"
)

// NotificationHandlers turn review and booking events into stored notifications.
type NotificationHandlers struct {
	notifier ports.NotificationService
}

func NewNotificationHandlers(notifier ports.NotificationService) NotificationHandlers {
	return NotificationHandlers{notifier: notifier}
}

func (h NotificationHandlers) Handlers() []cqrs.EventHandler {
	return []cqrs.EventHandler{
		h.EntityReviewedHandler(),
		h.BookingStatusChangedHandler(),
	}
}

func (h NotificationHandlers) EntityReviewedHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"NotifyEntityReviewed",
		func(ctx context.Context, event *EntityReviewed) error {
			n := &models.Notification{
				RecipientID: event.CreatedBy,
				SubjectID:   &event.EntityID,
			}
			switch event.Outcome {
			case models.ApprovalApproved:
				n.Kind = models.NotificationEntityApproved
				n.Title = fmt.Sprintf("Your %s was approved", event.Kind)
				n.Message = fmt.Sprintf("%q is now available to all sellers.", event.Name)
			case models.ApprovalRejected:
				n.Kind = models.NotificationEntityRejected
				n.Title = fmt.Sprintf("Your %s was rejected", event.Kind)
				n.Message = fmt.Sprintf("%q was rejected: %s", event.Name, event.Reason)
			default:
				log.FromContext(ctx).WithField("outcome", event.Outcome).Warn("Ignoring review with unknown outcome")
				return nil
			}
			return h.notifier.Notify(ctx, n)
		},
	)
}

func (h NotificationHandlers) BookingStatusChangedHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"NotifyBookingStatusChanged",
		func(ctx context.Context, event *BookingStatusChanged) error {
			// guests have no inbox
			if event.UserID == nil || *event.UserID == uuid.Nil {
				return nil
			}
			msg := fmt.Sprintf("Booking %s moved from %s to %s.", event.Reference, event.From, event.To)
			if event.Reason != "" {
				msg += " Reason: " + event.Reason
			}
			return h.notifier.Notify(ctx, &models.Notification{
				RecipientID: *event.UserID,
				Kind:        models.NotificationBookingStatus,
				Title:       fmt.Sprintf("Booking %s is %s", event.Reference, event.To),
				Message:     msg,
				SubjectID:   &event.BookingID,
			})
		},
	)
}
