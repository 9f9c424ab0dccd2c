package repository

import (
	"context"

	"github.com/conformitia/conformitia-api/internal/domain/entity"
)

// PaymentRepository définit le port de persistance des paiements Stripe.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByStripeSessionID(ctx context.Context, sessionID string) (*entity.Payment, error)
	Update(ctx context.Context, payment *entity.Payment) error
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Payment, error)
}
