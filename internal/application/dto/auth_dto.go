package dto

// SignupRequest inscription d'une entreprise avec son premier gestionnaire.
// L'entreprise naît Pending, le gestionnaire (SubscriptionManager) aussi.
type SignupRequest struct {
	CompanyName string `json:"companyName"`
	Industry    string `json:"industry"`
	ManagerName string `json:"managerName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Password    string `json:"password"`
}

// LoginRequest identifiants de connexion.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse session ouverte : le cookie est posé par le handler, le corps
// donne au front de quoi router vers le bon tableau de bord.
type LoginResponse struct {
	UserID      string `json:"userId"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	CompanyID   string `json:"companyId,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
	HomePath    string `json:"homePath"`
}

// VerifyResponse réponse de GET /api/auth/verify pour le garde de routes du
// front.
type VerifyResponse struct {
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CompanyID string `json:"companyId,omitempty"`
}

// ForgotPasswordRequest demande d'envoi du lien de réinitialisation.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest réinitialisation via le jeton signé reçu par email.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}
