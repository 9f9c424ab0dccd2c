package repository

import (
	"context"

	"github.com/conformitia/conformitia-api/internal/domain/entity"
)

// PlanRepository définit le port de persistance du catalogue de plans.
type PlanRepository interface {
	Create(ctx context.Context, plan *entity.SubscriptionPlan) error
	GetByID(ctx context.Context, id string) (*entity.SubscriptionPlan, error)
	Update(ctx context.Context, plan *entity.SubscriptionPlan) error
	List(ctx context.Context) ([]*entity.SubscriptionPlan, error)
	ListActive(ctx context.Context) ([]*entity.SubscriptionPlan, error)
	Delete(ctx context.Context, id string) error
}
