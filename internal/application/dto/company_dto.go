package dto

import "time"

// DashboardInfoResponse informations du tableau de bord entreprise.
type DashboardInfoResponse struct {
	CompanyName string    `json:"companyName"`
	Industry    string    `json:"industry"`
	Status      string    `json:"status"`
	TotalUsers  int       `json:"totalUsers"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateUserRequest création d'un utilisateur par le gestionnaire.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"` // Auditor ou User
}

// UpdateUserRequest mise à jour d'un utilisateur de l'entreprise.
type UpdateUserRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

// UserResponse représentation publique d'un utilisateur (jamais le hash).
type UserResponse struct {
	UserID          string    `json:"userId"`
	CompanyID       string    `json:"companyId,omitempty"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone,omitempty"`
	Role            string    `json:"role"`
	Status          string    `json:"status"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	CreatedAt       time.Time `json:"createdAt"`
}
