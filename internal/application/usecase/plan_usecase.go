package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/conformitia/conformitia-api/internal/application/dto"
	"github.com/conformitia/conformitia-api/internal/domain"
	"github.com/conformitia/conformitia-api/internal/domain/entity"
	"github.com/conformitia/conformitia-api/internal/domain/repository"
)

var (
	discountMin = decimal.Zero
	discountMax = decimal.NewFromInt(100)
)

// PlanUseCase gestion du catalogue de plans d'abonnement (SuperAdmin).
type PlanUseCase struct {
	planRepo repository.PlanRepository
}

// NewPlanUseCase construit le cas d'usage du catalogue.
func NewPlanUseCase(planRepo repository.PlanRepository) *PlanUseCase {
	return &PlanUseCase{planRepo: planRepo}
}

// Create ajoute un plan au catalogue. La remise est bornée entre 0 et 100.
func (uc *PlanUseCase) Create(ctx context.Context, in dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	if in.Name == "" || in.UserLimit <= 0 || in.BasePrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	features, err := json.Marshal(in.Features)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	plan := &entity.SubscriptionPlan{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		BasePrice:   in.BasePrice,
		UserLimit:   in.UserLimit,
		Discount:    clampDiscount(in.Discount),
		TaxRate:     in.TaxRate,
		Features:    string(features),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.IsActive != nil {
		plan.IsActive = *in.IsActive
	}
	if err := uc.planRepo.Create(ctx, plan); err != nil {
		return nil, err
	}
	resp := toPlanResponse(plan)
	return &resp, nil
}

// Update remplace les champs d'un plan existant.
func (uc *PlanUseCase) Update(ctx context.Context, planID string, in dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	plan, err := uc.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name == "" || in.UserLimit <= 0 || in.BasePrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	features, err := json.Marshal(in.Features)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	plan.Name = in.Name
	plan.Description = in.Description
	plan.BasePrice = in.BasePrice
	plan.UserLimit = in.UserLimit
	plan.Discount = clampDiscount(in.Discount)
	plan.TaxRate = in.TaxRate
	plan.Features = string(features)
	if in.IsActive != nil {
		plan.IsActive = *in.IsActive
	}
	plan.UpdatedAt = time.Now()
	if err := uc.planRepo.Update(ctx, plan); err != nil {
		return nil, err
	}
	resp := toPlanResponse(plan)
	return &resp, nil
}

// GetByID retourne un plan du catalogue.
func (uc *PlanUseCase) GetByID(ctx context.Context, planID string) (*dto.PlanResponse, error) {
	plan, err := uc.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrNotFound
	}
	resp := toPlanResponse(plan)
	return &resp, nil
}

// List retourne tout le catalogue (SuperAdmin).
func (uc *PlanUseCase) List(ctx context.Context) ([]dto.PlanResponse, error) {
	plans, err := uc.planRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toPlanResponses(plans), nil
}

// ListActive retourne les plans souscriptibles, pour la page de tarification.
func (uc *PlanUseCase) ListActive(ctx context.Context) ([]dto.PlanResponse, error) {
	plans, err := uc.planRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return toPlanResponses(plans), nil
}

// Delete retire un plan du catalogue. Les abonnements déjà souscrits
// conservent leur référence au plan.
func (uc *PlanUseCase) Delete(ctx context.Context, planID string) error {
	plan, err := uc.planRepo.GetByID(ctx, planID)
	if err != nil {
		return err
	}
	if plan == nil {
		return domain.ErrNotFound
	}
	return uc.planRepo.Delete(ctx, planID)
}

// clampDiscount borne la remise entre 0 et 100 %.
func clampDiscount(d decimal.Decimal) decimal.Decimal {
	if d.LessThan(discountMin) {
		return discountMin
	}
	if d.GreaterThan(discountMax) {
		return discountMax
	}
	return d
}

func toPlanResponse(p *entity.SubscriptionPlan) dto.PlanResponse {
	return dto.PlanResponse{
		PlanID:      p.ID,
		Name:        p.Name,
		Description: p.Description,
		BasePrice:   p.BasePrice,
		UserLimit:   p.UserLimit,
		Discount:    p.Discount,
		TaxRate:     p.TaxRate,
		FinalPrice:  p.FinalPrice(),
		Features:    p.FeatureList(),
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toPlanResponses(plans []*entity.SubscriptionPlan) []dto.PlanResponse {
	result := make([]dto.PlanResponse, 0, len(plans))
	for _, p := range plans {
		result = append(result, toPlanResponse(p))
	}
	return result
}
