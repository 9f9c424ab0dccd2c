package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/conformitia/conformitia-api/internal/application/ports"
)

var _ ports.PaymentGateway = (*StripeGateway)(nil)

// StripeGateway adaptateur Stripe Checkout. Les identifiants entreprise et
// plan voyagent dans les métadonnées de la session et reviennent intacts dans
// le webhook.
type StripeGateway struct {
	webhookSecret string
}

// NewStripeGateway configure la clé API globale du SDK et construit
// l'adaptateur.
func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{webhookSecret: webhookSecret}
}

// CreateCheckoutSession crée une session Checkout en mode paiement unique.
// Le montant TTC est converti en centimes d'euro.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, params ports.CheckoutParams) (*ports.CheckoutSession, error) {
	productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
		Name: stripe.String(params.PlanName),
	}
	if params.Description != "" {
		productData.Description = stripe.String(params.Description)
	}
	sessionParams := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(string(stripe.CurrencyEUR)),
				ProductData: productData,
				UnitAmount:  stripe.Int64(toCents(params.Amount)),
			},
			Quantity: stripe.Int64(1),
		}},
		SuccessURL:        stripe.String(params.SuccessURL),
		CancelURL:         stripe.String(params.CancelURL),
		ClientReferenceID: stripe.String(params.CompanyID),
	}
	sessionParams.Context = ctx
	sessionParams.AddMetadata("company_id", params.CompanyID)
	sessionParams.AddMetadata("company_name", params.CompanyName)
	sessionParams.AddMetadata("plan_id", params.PlanID)

	sess, err := session.New(sessionParams)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout session: %w", err)
	}
	return &ports.CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// GetSession interroge l'état d'une session Checkout.
func (g *StripeGateway) GetSession(ctx context.Context, sessionID string) (*ports.SessionStatus, error) {
	getParams := &stripe.CheckoutSessionParams{}
	getParams.Context = ctx
	sess, err := session.Get(sessionID, getParams)
	if err != nil {
		return nil, fmt.Errorf("stripe get session: %w", err)
	}
	return toSessionStatus(sess), nil
}

// ParseWebhook vérifie la signature de l'événement et retourne la session
// pour un checkout.session.completed payé, (nil, nil) pour tout autre
// événement.
func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*ports.SessionStatus, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("signature webhook invalide: %w", err)
	}
	if event.Type != "checkout.session.completed" {
		return nil, nil
	}
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("décoder la session du webhook: %w", err)
	}
	return toSessionStatus(&sess), nil
}

func toSessionStatus(sess *stripe.CheckoutSession) *ports.SessionStatus {
	status := &ports.SessionStatus{
		ID:        sess.ID,
		Paid:      sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		CompanyID: sess.Metadata["company_id"],
		PlanID:    sess.Metadata["plan_id"],
	}
	if sess.PaymentIntent != nil {
		status.PaymentIntentID = sess.PaymentIntent.ID
	}
	return status
}

// toCents convertit un montant décimal en centimes, arrondi au centime.
func toCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
