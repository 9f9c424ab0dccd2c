package repository

import (
	"context"

	"github.com/conformitia/conformitia-api/internal/domain/entity"
)

// NotificationRepository définit le port de persistance des notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id, userID string) error
}
