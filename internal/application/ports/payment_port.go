package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// CheckoutParams données nécessaires à la création d'une session de paiement.
// Les métadonnées company/plan reviennent dans le webhook pour activer
// l'abonnement.
type CheckoutParams struct {
	CompanyID   string
	CompanyName string
	PlanID      string
	PlanName    string
	Description string
	Amount      decimal.Decimal // prix TTC
	SuccessURL  string
	CancelURL   string
}

// CheckoutSession session créée chez le prestataire.
type CheckoutSession struct {
	ID  string
	URL string
}

// SessionStatus état d'une session interrogée chez le prestataire.
type SessionStatus struct {
	ID              string
	Paid            bool
	PaymentIntentID string
	CompanyID       string // depuis les métadonnées
	PlanID          string
}

// PaymentGateway port du prestataire de paiement (Stripe). Le webhook est
// vérifié par signature dans l'implémentation.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
	GetSession(ctx context.Context, sessionID string) (*SessionStatus, error)
	// ParseWebhook vérifie la signature et retourne la session payée, ou
	// (nil, nil) si l'événement n'est pas un paiement abouti.
	ParseWebhook(payload []byte, signature string) (*SessionStatus, error)
}
