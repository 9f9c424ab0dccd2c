package dto

import "time"

// CheckoutRequest demande de session de paiement pour un plan.
type CheckoutRequest struct {
	PlanID string `json:"planId"`
}

// CheckoutResponse session Stripe créée : le front redirige vers URL.
type CheckoutResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// VerifySessionResponse résultat d'une vérification manuelle de session.
type VerifySessionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CompanySubscriptionResponse l'Entitlement exposé au front. hasSubscription
// à false est une réponse normale (200), jamais une erreur.
type CompanySubscriptionResponse struct {
	HasSubscription bool                 `json:"hasSubscription"`
	Subscription    *SubscriptionDetails `json:"subscription,omitempty"`
}

// SubscriptionDetails détail de l'abonnement courant et de son plan.
type SubscriptionDetails struct {
	SubscriptionID string    `json:"subscriptionId"`
	PlanID         string    `json:"planId"`
	PlanName       string    `json:"planName"`
	Status         string    `json:"status"`
	StartDate      time.Time `json:"startDate"`
	EndDate        time.Time `json:"endDate"`
	UserLimit      int       `json:"userLimit"`
	Features       []string  `json:"features"`
}
