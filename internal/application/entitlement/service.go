package entitlement

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/conformitia/conformitia-api/internal/domain/entity"
	"github.com/conformitia/conformitia-api/internal/domain/repository"
)

// Entitlement capacités dérivées d'une entreprise à un instant donné.
// "Pas d'abonnement actif" est une valeur normale et représentable
// (HasActiveSubscription=false, Features vide, UserLimit 0), jamais une erreur.
type Entitlement struct {
	HasActiveSubscription bool
	Features              []string
	UserLimit             int

	// Détails du "current subscription" pour l'endpoint company-subscription ;
	// zéro quand HasActiveSubscription est faux.
	SubscriptionID string
	PlanID         string
	PlanName       string
	Status         string
	StartDate      time.Time
	EndDate        time.Time
}

// Service évaluateur d'entitlements. Point unique de l'application qui sait
// déterminer l'abonnement courant d'une entreprise et les fonctionnalités
// qu'il accorde. Fail-closed : toute panne de persistance vaut absence
// d'entitlement (journalisée), elle ne remonte jamais aux gardes de routes.
type Service struct {
	subRepo  repository.SubscriptionRepository
	planRepo repository.PlanRepository
	userRepo repository.UserRepository
	now      func() time.Time // injectable pour les tests
}

// NewService construit l'évaluateur.
func NewService(subRepo repository.SubscriptionRepository, planRepo repository.PlanRepository, userRepo repository.UserRepository) *Service {
	return &Service{subRepo: subRepo, planRepo: planRepo, userRepo: userRepo, now: time.Now}
}

// WithClock remplace l'horloge (tests d'expiration paresseuse).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// zeroEntitlement la valeur fail-closed : aucune fonctionnalité, zéro siège.
func zeroEntitlement() Entitlement {
	return Entitlement{HasActiveSubscription: false, Features: []string{}, UserLimit: 0}
}

// Evaluate calcule l'Entitlement de l'entreprise. L'abonnement courant est la
// ligne la plus récemment créée dont le statut stocké est "active" ET dont
// EndDate est dans le futur ; si plusieurs lignes satisfont ce filtre
// (anomalie de données), la plus récente gagne.
func (s *Service) Evaluate(ctx context.Context, companyID string) Entitlement {
	sub, err := s.currentSubscription(ctx, companyID)
	if err != nil {
		log.Warn().Err(err).Str("company_id", companyID).
			Msg("évaluation d'entitlement : panne de persistance, accès fermé")
		return zeroEntitlement()
	}
	if sub == nil {
		return zeroEntitlement()
	}

	plan, err := s.planRepo.GetByID(ctx, sub.PlanID)
	if err != nil {
		log.Warn().Err(err).Str("plan_id", sub.PlanID).
			Msg("évaluation d'entitlement : plan illisible, accès fermé")
		return zeroEntitlement()
	}
	if plan == nil {
		return zeroEntitlement()
	}

	return Entitlement{
		HasActiveSubscription: true,
		Features:              plan.FeatureList(),
		UserLimit:             plan.UserLimit,
		SubscriptionID:        sub.ID,
		PlanID:                plan.ID,
		PlanName:              plan.Name,
		Status:                sub.Status,
		StartDate:             sub.StartDate,
		EndDate:               sub.EndDate,
	}
}

// HasFeature indique si le plan courant accorde la fonctionnalité nommée.
// Comparaison exacte, sensible à la casse, avec les noms du catalogue.
func (s *Service) HasFeature(ctx context.Context, companyID, feature string) bool {
	for _, f := range s.Evaluate(ctx, companyID).Features {
		if f == feature {
			return true
		}
	}
	return false
}

// FeaturesOf retourne les fonctionnalités accordées par l'abonnement courant,
// liste vide sans abonnement actif.
func (s *Service) FeaturesOf(ctx context.Context, companyID string) []string {
	return s.Evaluate(ctx, companyID).Features
}

// CanCreateUser indique si l'entreprise peut créer un utilisateur de plus.
// Seuls les utilisateurs Active comptent : les comptes Pending (non vérifiés)
// ne consomment pas de siège — politique délibérée, pas un bug.
// Sans abonnement actif, UserLimit vaut 0 et la réponse est toujours false.
func (s *Service) CanCreateUser(ctx context.Context, companyID string) bool {
	ent := s.Evaluate(ctx, companyID)
	if !ent.HasActiveSubscription {
		return false
	}
	count, err := s.userRepo.CountActiveByCompany(ctx, companyID)
	if err != nil {
		log.Warn().Err(err).Str("company_id", companyID).
			Msg("comptage des utilisateurs actifs impossible, création refusée")
		return false
	}
	return count < ent.UserLimit
}

// currentSubscription re-dérive l'activité effective de chaque ligne via
// entity.IsCurrentlyActive plutôt que de faire confiance au statut stocké
// (l'expiration est paresseuse : aucun job ne bascule le statut à l'échéance).
// Ne fait pas non plus confiance à l'ordre du dépôt : le plus récent CreatedAt
// est sélectionné explicitement.
func (s *Service) currentSubscription(ctx context.Context, companyID string) (*entity.CompanySubscription, error) {
	subs, err := s.subRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	var current *entity.CompanySubscription
	for _, sub := range subs {
		if !sub.IsCurrentlyActive(now) {
			continue
		}
		if current == nil || sub.CreatedAt.After(current.CreatedAt) {
			current = sub
		}
	}
	return current, nil
}
