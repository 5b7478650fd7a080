package repository

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	models "github.com/sushilldhakal/tourmarket/internal"
	"time"
)

type NotificationRepository struct {
	db DBConn
}

func NewNotificationRepository(db DBConn) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) CreateNotification(ctx context.Context, n *models.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	query := `
        INSERT INTO notifications (id, recipient_id, kind, title, message, subject_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := conn(ctx, r.db).Exec(ctx, query,
		n.ID, n.RecipientID, n.Kind, n.Title, n.Message, n.SubjectID, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) ListNotifications(ctx context.Context, recipientID uuid.UUID, limit int) ([]models.Notification, error) {
	query := `
        SELECT id, recipient_id, kind, title, message, subject_id, read_at, created_at
        FROM notifications
        WHERE recipient_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `
	rows, err := conn(ctx, r.db).Query(ctx, query, recipientID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Kind, &n.Title, &n.Message, &n.SubjectID, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkRead keeps the first read timestamp when called again.
func (r *NotificationRepository) MarkRead(ctx context.Context, recipientID, id uuid.UUID, at time.Time) error {
	tag, err := conn(ctx, r.db).Exec(ctx,
		`UPDATE notifications SET read_at = COALESCE(read_at, $3) WHERE id = $1 AND recipient_id = $2`,
		id, recipientID, at)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotificationNotFound
	}
	return nil
}
