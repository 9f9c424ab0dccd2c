package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/conformitia/conformitia-api/internal/application/dto"
	"github.com/conformitia/conformitia-api/internal/application/entitlement"
	"github.com/conformitia/conformitia-api/internal/application/ports"
	"github.com/conformitia/conformitia-api/internal/domain"
	"github.com/conformitia/conformitia-api/internal/domain/entity"
	"github.com/conformitia/conformitia-api/internal/domain/repository"
)

// idempotencyWindow fenêtre du garde-fou d'idempotence : si un abonnement
// actif a été créé dans cet intervalle, le webhook et la vérification
// manuelle sont considérés comme déjà traités.
const idempotencyWindow = 5 * time.Minute

// checkoutExpiry durée de vie de la session de paiement côté interne.
const checkoutExpiry = 24 * time.Hour

// UseCase orchestration des paiements Stripe : création de session,
// traitement du webhook et activation transactionnelle de l'abonnement.
type UseCase struct {
	planRepo         repository.PlanRepository
	subscriptionRepo repository.SubscriptionRepository
	paymentRepo      repository.PaymentRepository
	entitlements     *entitlement.Service
	gateway          ports.PaymentGateway
	tx               ports.TxRunner
	baseURL          string
	now              func() time.Time
}

// NewUseCase construit le cas d'usage paiements.
func NewUseCase(
	planRepo repository.PlanRepository,
	subscriptionRepo repository.SubscriptionRepository,
	paymentRepo repository.PaymentRepository,
	entitlements *entitlement.Service,
	gateway ports.PaymentGateway,
	tx ports.TxRunner,
	baseURL string,
) *UseCase {
	return &UseCase{
		planRepo:         planRepo,
		subscriptionRepo: subscriptionRepo,
		paymentRepo:      paymentRepo,
		entitlements:     entitlements,
		gateway:          gateway,
		tx:               tx,
		baseURL:          baseURL,
		now:              time.Now,
	}
}

// WithClock fixe l'horloge, pour les tests.
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// CreateCheckoutSession crée la session Stripe pour un plan actif et trace un
// Payment pending avec le prix TTC figé à cet instant.
func (uc *UseCase) CreateCheckoutSession(ctx context.Context, companyID, companyName string, in dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	plan, err := uc.planRepo.GetByID(ctx, in.PlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrNotFound
	}
	if !plan.IsActive {
		return nil, domain.ErrPlanInactive
	}

	amount := plan.FinalPrice()
	session, err := uc.gateway.CreateCheckoutSession(ctx, ports.CheckoutParams{
		CompanyID:   companyID,
		CompanyName: companyName,
		PlanID:      plan.ID,
		PlanName:    plan.Name,
		Description: plan.Description,
		Amount:      amount,
		SuccessURL:  fmt.Sprintf("%s/payment/success?session_id={CHECKOUT_SESSION_ID}", uc.baseURL),
		CancelURL:   fmt.Sprintf("%s/payment/cancel", uc.baseURL),
	})
	if err != nil {
		return nil, fmt.Errorf("créer la session de paiement: %w", err)
	}

	now := uc.now()
	record := &entity.Payment{
		ID:              uuid.New().String(),
		CompanyID:       companyID,
		PlanID:          plan.ID,
		StripeSessionID: session.ID,
		Amount:          amount,
		Status:          entity.PaymentStatusPending,
		Description:     fmt.Sprintf("Abonnement %s", plan.Name),
		ExpiresAt:       now.Add(checkoutExpiry),
		CreatedAt:       now,
	}
	if err := uc.paymentRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("tracer le paiement: %w", err)
	}

	return &dto.CheckoutResponse{SessionID: session.ID, URL: session.URL}, nil
}

// HandleWebhook traite un événement signé du prestataire. Les événements qui
// ne sont pas des paiements aboutis sont acquittés sans effet.
func (uc *UseCase) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	status, err := uc.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return fmt.Errorf("webhook invalide: %w", err)
	}
	if status == nil || !status.Paid {
		return nil
	}
	return uc.activate(ctx, status)
}

// VerifySession vérification manuelle depuis la page de succès : interroge le
// prestataire et active l'abonnement si la session est payée. Filet de
// sécurité quand le webhook n'est pas encore arrivé ; l'activation reste
// idempotente entre les deux chemins.
func (uc *UseCase) VerifySession(ctx context.Context, companyID, sessionID string) (*dto.VerifySessionResponse, error) {
	status, err := uc.gateway.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("interroger la session: %w", err)
	}
	if status == nil {
		return nil, domain.ErrNotFound
	}
	if status.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if !status.Paid {
		return &dto.VerifySessionResponse{Success: false, Message: "Le paiement n'est pas encore confirmé."}, nil
	}
	if err := uc.activate(ctx, status); err != nil {
		return nil, err
	}
	return &dto.VerifySessionResponse{Success: true, Message: "Votre abonnement est actif."}, nil
}

// CompanySubscription expose l'abonnement courant de l'entreprise. L'absence
// d'abonnement est une réponse normale, jamais une erreur.
func (uc *UseCase) CompanySubscription(ctx context.Context, companyID string) *dto.CompanySubscriptionResponse {
	ent := uc.entitlements.Evaluate(ctx, companyID)
	if !ent.HasActiveSubscription {
		return &dto.CompanySubscriptionResponse{HasSubscription: false}
	}
	return &dto.CompanySubscriptionResponse{
		HasSubscription: true,
		Subscription: &dto.SubscriptionDetails{
			SubscriptionID: ent.SubscriptionID,
			PlanID:         ent.PlanID,
			PlanName:       ent.PlanName,
			Status:         ent.Status,
			StartDate:      ent.StartDate,
			EndDate:        ent.EndDate,
			UserLimit:      ent.UserLimit,
			Features:       ent.Features,
		},
	}
}

// activate clôt le paiement et bascule l'abonnement en UNE transaction :
// paiement succeeded, abonnements actifs existants annulés, nouvel abonnement
// actif d'un mois. Le garde-fou d'idempotence absorbe les doubles livraisons
// webhook + vérification manuelle.
func (uc *UseCase) activate(ctx context.Context, status *ports.SessionStatus) error {
	now := uc.now()
	already, err := uc.subscriptionRepo.ExistsActiveCreatedSince(ctx, status.CompanyID, now.Add(-idempotencyWindow))
	if err != nil {
		return fmt.Errorf("vérifier l'idempotence: %w", err)
	}
	if already {
		log.Info().
			Str("company_id", status.CompanyID).
			Str("session_id", status.ID).
			Msg("session de paiement déjà traitée, activation ignorée")
		return nil
	}

	return uc.tx.WithinTransaction(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		record, err := repos.Payments.GetByStripeSessionID(ctx, status.ID)
		if err != nil {
			return err
		}
		if record != nil && record.Status != entity.PaymentStatusSucceeded {
			record.Status = entity.PaymentStatusSucceeded
			record.StripePaymentIntentID = status.PaymentIntentID
			paidAt := now
			record.PaidAt = &paidAt
			if err := repos.Payments.Update(ctx, record); err != nil {
				return err
			}
		}

		actives, err := repos.Subscriptions.ListActiveByStatus(ctx, status.CompanyID)
		if err != nil {
			return err
		}
		for _, s := range actives {
			if err := repos.Subscriptions.Cancel(ctx, s.ID, now); err != nil {
				return err
			}
		}

		sub := &entity.CompanySubscription{
			ID:        uuid.New().String(),
			CompanyID: status.CompanyID,
			PlanID:    status.PlanID,
			Status:    entity.SubscriptionStatusActive,
			StartDate: now,
			EndDate:   now.AddDate(0, 1, 0),
			CreatedAt: now,
		}
		return repos.Subscriptions.Create(ctx, sub)
	})
}
