package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statuts d'un Payment.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
)

// Payment trace une session de paiement Stripe pour un plan. Le montant est
// figé au moment de la création de la session (prix TTC du plan à cet instant).
type Payment struct {
	ID                    string
	CompanyID             string
	PlanID                string
	StripeSessionID       string
	StripePaymentIntentID string
	Amount                decimal.Decimal
	Status                string // pending, succeeded
	Description           string
	ExpiresAt             time.Time
	PaidAt                *time.Time
	CreatedAt             time.Time
}
