package dto

import "time"

// DashboardStatsResponse statistiques du tableau de bord SuperAdmin.
type DashboardStatsResponse struct {
	TotalCompanies      int `json:"totalCompanies"`
	TotalUsers          int `json:"totalUsers"`
	PendingRequests     int `json:"pendingRequests"`
	ActiveSubscriptions int `json:"activeSubscriptions"`
}

// PendingCompanyResponse entreprise en attente avec son gestionnaire.
type PendingCompanyResponse struct {
	CompanyID   string    `json:"companyId"`
	CompanyName string    `json:"companyName"`
	Industry    string    `json:"industry"`
	ManagerName string    `json:"managerName,omitempty"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CompanyResponse représentation d'une entreprise pour l'administration.
type CompanyResponse struct {
	CompanyID string    `json:"companyId"`
	Name      string    `json:"name"`
	Industry  string    `json:"industry"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}
