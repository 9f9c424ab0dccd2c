package usecase

import (
	"context"

	"github.com/conformitia/conformitia-api/internal/application/dto"
	"github.com/conformitia/conformitia-api/internal/application/entitlement"
	"github.com/conformitia/conformitia-api/internal/domain"
	"github.com/conformitia/conformitia-api/internal/domain/entity"
	"github.com/conformitia/conformitia-api/internal/domain/repository"
)

// StatisticsUseCase agrège la vue analytique d'une entreprise. L'accès est
// déjà filtré en amont par la porte de fonctionnalités ; ici on ne fait que
// produire les chiffres.
type StatisticsUseCase struct {
	companyRepo      repository.CompanyRepository
	userRepo         repository.UserRepository
	subscriptionRepo repository.SubscriptionRepository
	paymentRepo      repository.PaymentRepository
	entitlements     *entitlement.Service
}

// NewStatisticsUseCase construit le cas d'usage statistiques.
func NewStatisticsUseCase(
	companyRepo repository.CompanyRepository,
	userRepo repository.UserRepository,
	subscriptionRepo repository.SubscriptionRepository,
	paymentRepo repository.PaymentRepository,
	entitlements *entitlement.Service,
) *StatisticsUseCase {
	return &StatisticsUseCase{
		companyRepo:      companyRepo,
		userRepo:         userRepo,
		subscriptionRepo: subscriptionRepo,
		paymentRepo:      paymentRepo,
		entitlements:     entitlements,
	}
}

// Overview produit la vue d'ensemble de l'entreprise : répartition des
// utilisateurs, occupation des sièges et historique d'abonnement.
func (uc *StatisticsUseCase) Overview(ctx context.Context, companyID string) (*dto.StatisticsOverviewResponse, error) {
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrCompanyNotFound
	}

	users, err := uc.userRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	overview := &dto.StatisticsOverviewResponse{
		CompanyName: company.Name,
		TotalUsers:  len(users),
		UsersByRole: map[string]int{},
	}
	for _, u := range users {
		overview.UsersByRole[u.Role]++
		switch u.Status {
		case entity.UserStatusActive:
			overview.ActiveUsers++
		case entity.UserStatusPending:
			overview.PendingUsers++
		}
	}
	overview.SeatsUsed = overview.ActiveUsers

	ent := uc.entitlements.Evaluate(ctx, companyID)
	if ent.HasActiveSubscription {
		overview.SeatLimit = ent.UserLimit
		overview.PlanName = ent.PlanName
		end := ent.EndDate
		overview.SubscriptionEnd = &end
	}

	subs, err := uc.subscriptionRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	overview.SubscriptionsTotal = len(subs)

	payments, err := uc.paymentRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	overview.PaymentsTotal = len(payments)

	return overview, nil
}
