package entity

import "time"

// Rôles valides pour User. Les chaînes sont figées : elles sont stockées en
// base, en session et comparées par la porte d'autorisation.
const (
	RoleSuperAdmin          = "SuperAdmin"
	RoleSubscriptionManager = "SubscriptionManager"
	RoleAuditor             = "Auditor"
	RoleUser                = "User"
)

// Statuts d'un User. Un utilisateur reste Pending tant que son email n'est pas
// vérifié (et, pour le premier utilisateur, tant que l'entreprise n'est pas
// approuvée). Seuls les utilisateurs Active comptent dans la limite de sièges.
const (
	UserStatusPending = "Pending"
	UserStatusActive  = "Active"
)

// User représente un utilisateur du système. Invariant : tout rôle autre que
// SuperAdmin appartient à exactement une Company (CompanyID non nil).
type User struct {
	ID                           string
	CompanyID                    *string // nil pour les SuperAdmin
	Name                         string
	Email                        string
	Phone                        string
	PasswordHash                 string // hash bcrypt, jamais en clair après persistance
	Role                         string
	Status                       string // Pending, Active
	IsEmailVerified              bool
	EmailVerificationToken       *string
	EmailVerificationTokenExpiry *time.Time
	CreatedAt                    time.Time
	UpdatedAt                    time.Time
}

// IsPrivileged indique si le rôle échappe au groupe "User" de la porte
// d'autorisation (voir application/authz).
func IsPrivileged(role string) bool {
	return role == RoleSuperAdmin || role == RoleSubscriptionManager
}
