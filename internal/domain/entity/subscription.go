package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Statuts d'un CompanySubscription. Attention : le statut stocké peut rester
// "active" après EndDate (pas de balayage en arrière-plan) ; l'activité réelle
// se dérive toujours via IsCurrentlyActive.
const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusExpired  = "expired"
	SubscriptionStatusCanceled = "canceled"
)

// Fonctionnalités du catalogue. Les noms sont comparés à l'identique
// (sensible à la casse) avec le contenu du champ Features des plans.
const (
	FeatureStatistics    = "Statistiques et analyses"
	FeatureAdvancedTexts = "Textes réglementaires avancés"
	FeatureManagementRev = "Revue de direction"
)

// SubscriptionPlan entrée du catalogue d'abonnements, indépendante des
// entreprises. Mutée uniquement par un SuperAdmin.
type SubscriptionPlan struct {
	ID          string
	Name        string
	Description string
	BasePrice   decimal.Decimal
	UserLimit   int
	Discount    decimal.Decimal // pourcentage 0-100
	TaxRate     decimal.Decimal // pourcentage
	Features    string          // tableau JSON sérialisé, ex. ["Statistiques et analyses"]
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FeatureList décode le champ Features. Décodage défensif : toute valeur
// vide ou non parsable donne une liste vide, jamais une erreur.
func (p *SubscriptionPlan) FeatureList() []string {
	if p == nil || p.Features == "" {
		return []string{}
	}
	var features []string
	if err := json.Unmarshal([]byte(p.Features), &features); err != nil {
		return []string{}
	}
	if features == nil {
		return []string{}
	}
	return features
}

// FinalPrice calcule le prix TTC : base remisée puis taxée.
// finalPrice = basePrice * (1 - discount/100) * (1 + taxRate/100)
func (p *SubscriptionPlan) FinalPrice() decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	discounted := p.BasePrice.Mul(hundred.Sub(p.Discount)).Div(hundred)
	tax := discounted.Mul(p.TaxRate).Div(hundred)
	return discounted.Add(tax).Round(2)
}

// CompanySubscription lie une Company à un SubscriptionPlan pour une période.
type CompanySubscription struct {
	ID         string
	CompanyID  string
	PlanID     string
	Status     string // active, expired, canceled
	StartDate  time.Time
	EndDate    time.Time
	CreatedAt  time.Time
	CanceledAt *time.Time
}

// IsCurrentlyActive dérive l'activité effective à l'instant now. C'est LE
// point unique de vérité : le statut stocké seul ne suffit jamais car
// l'expiration est paresseuse (EndDate dépassée sans mise à jour du statut).
func (s *CompanySubscription) IsCurrentlyActive(now time.Time) bool {
	return s.Status == SubscriptionStatusActive && s.EndDate.After(now)
}
