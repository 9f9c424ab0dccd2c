package usecase

import (
	"context"

	"github.com/conformitia/conformitia-api/internal/application/dto"
	"github.com/conformitia/conformitia-api/internal/domain/repository"
)

// NotificationUseCase lecture des notifications internes de l'utilisateur.
type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationUseCase construit le cas d'usage notifications.
func NewNotificationUseCase(notificationRepo repository.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{notificationRepo: notificationRepo}
}

// List retourne les notifications les plus récentes de l'utilisateur.
func (uc *NotificationUseCase) List(ctx context.Context, userID string, limit int) ([]dto.NotificationResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	notifications, err := uc.notificationRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	result := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		result = append(result, dto.NotificationResponse{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	return result, nil
}

// UnreadCount compte les notifications non lues.
func (uc *NotificationUseCase) UnreadCount(ctx context.Context, userID string) (*dto.UnreadCountResponse, error) {
	count, err := uc.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.UnreadCountResponse{Count: count}, nil
}

// MarkRead marque une notification comme lue. L'identifiant utilisateur sert
// de garde : on ne peut pas lire la notification d'un autre compte.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, id, userID string) error {
	return uc.notificationRepo.MarkRead(ctx, id, userID)
}
