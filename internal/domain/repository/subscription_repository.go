package repository

import (
	"context"
	"time"

	"github.com/conformitia/conformitia-api/internal/domain/entity"
)

// SubscriptionRepository définit le port de persistance des abonnements.
// Le filtrage "actif à l'instant t" n'est PAS fait ici : l'évaluateur
// d'entitlements re-dérive l'activité via entity.IsCurrentlyActive pour
// garder l'expiration paresseuse centralisée en un seul point.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *entity.CompanySubscription) error
	// ListByCompany retourne tous les abonnements d'une entreprise, du plus
	// récemment créé au plus ancien.
	ListByCompany(ctx context.Context, companyID string) ([]*entity.CompanySubscription, error)
	// ListActiveByStatus retourne les abonnements dont le statut STOCKÉ est
	// "active" (sans regarder EndDate), pour l'annulation lors d'un nouveau
	// paiement.
	ListActiveByStatus(ctx context.Context, companyID string) ([]*entity.CompanySubscription, error)
	// ListAllActiveByStatus retourne tous les abonnements stockés "active" de
	// la plateforme, pour les statistiques du tableau de bord SuperAdmin.
	ListAllActiveByStatus(ctx context.Context) ([]*entity.CompanySubscription, error)
	// ExistsActiveCreatedSince sert au garde-fou d'idempotence du webhook :
	// un abonnement actif créé après l'instant donné signifie que la session
	// de paiement a déjà été traitée.
	ExistsActiveCreatedSince(ctx context.Context, companyID string, since time.Time) (bool, error)
	Cancel(ctx context.Context, id string, canceledAt time.Time) error
}
