package dto

import "time"

// StatisticsOverviewResponse vue d'ensemble analytique d'une entreprise.
// Servie uniquement si l'abonnement couvre "Statistiques et analyses".
type StatisticsOverviewResponse struct {
	CompanyName        string         `json:"companyName"`
	TotalUsers         int            `json:"totalUsers"`
	ActiveUsers        int            `json:"activeUsers"`
	PendingUsers       int            `json:"pendingUsers"`
	UsersByRole        map[string]int `json:"usersByRole"`
	SeatLimit          int            `json:"seatLimit"`
	SeatsUsed          int            `json:"seatsUsed"`
	PlanName           string         `json:"planName,omitempty"`
	SubscriptionEnd    *time.Time     `json:"subscriptionEnd,omitempty"`
	SubscriptionsTotal int            `json:"subscriptionsTotal"`
	PaymentsTotal      int            `json:"paymentsTotal"`
}

// UserDashboardResponse accueil d'un utilisateur standard.
type UserDashboardResponse struct {
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	CompanyName string   `json:"companyName"`
	Features    []string `json:"features"`
}

// RegulatoryTextResponse entrée du fonds documentaire réglementaire avancé.
type RegulatoryTextResponse struct {
	Reference string `json:"reference"`
	Title     string `json:"title"`
	Domain    string `json:"domain"`
	Summary   string `json:"summary"`
}
