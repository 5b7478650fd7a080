package service

import (
	"context"
	"github.com/google/uuid"
	models "github.com/sushilldhakal/tourmarket/internal"
	"github.com/sushilldhakal/tourmarket/internal/clock"
	"github.com/sushilldhakal/tourmarket/internal/ports"
)

const notificationPageSize = 50

type notificationService struct {
	repo  ports.NotificationRepository
	clock clock.Clock
}

func NewNotificationService(repo ports.NotificationRepository, c clock.Clock) *notificationService {
	return &notificationService{repo: repo, clock: c}
}

func (s *notificationService) Notify(ctx context.Context, n *models.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.clock.Now()
	}
	return s.repo.CreateNotification(ctx, n)
}

func (s *notificationService) List(ctx context.Context, actor models.Principal) ([]models.Notification, error) {
	if actor.IsAnonymous() {
		return nil, models.ErrUnauthorized
	}
	return s.repo.ListNotifications(ctx, actor.UserID, notificationPageSize)
}

func (s *notificationService) MarkRead(ctx context.Context, actor models.Principal, id uuid.UUID) error {
	if actor.IsAnonymous() {
		return models.ErrUnauthorized
	}
	return s.repo.MarkRead(ctx, actor.UserID, id, s.clock.Now())
}
