package authz

import "github.com/conformitia/conformitia-api/internal/domain/entity"

// RoleGroup catégorie d'exigence d'accès attachée à un groupe de routes.
// Ce n'est PAS un rôle individuel : le groupe GroupUser couvre tout rôle qui
// n'est ni SuperAdmin ni SubscriptionManager (Auditor et User).
type RoleGroup string

const (
	GroupSuperAdmin          RoleGroup = "SuperAdmin"
	GroupSubscriptionManager RoleGroup = "SubscriptionManager"
	GroupUser                RoleGroup = "User"
)

// Cibles de redirection indexées par rôle. Un refus renvoie toujours vers le
// tableau de bord du rôle RÉEL de l'appelant, jamais vers une page d'erreur
// générique.
const (
	PathLogin       = "/"
	PathAdminHome   = "/admin/dashboard"
	PathCompanyHome = "/company/dashboard"
	PathUserHome    = "/user/dashboard"
)

// groupMatchers table explicite groupe -> prédicat sur le rôle. La règle
// asymétrique du groupe User est volontairement visible ici plutôt
// qu'enfouie dans des branches conditionnelles.
var groupMatchers = map[RoleGroup]func(role string) bool{
	GroupSuperAdmin: func(role string) bool {
		return role == entity.RoleSuperAdmin
	},
	GroupSubscriptionManager: func(role string) bool {
		return role == entity.RoleSubscriptionManager
	},
	GroupUser: func(role string) bool {
		return !entity.IsPrivileged(role)
	},
}

// Decision résultat de la porte d'autorisation. Quand Allowed est faux,
// RedirectPath indique où renvoyer l'appelant (login ou son propre tableau
// de bord).
type Decision struct {
	Allowed      bool
	RedirectPath string
}

// Authorize décide l'accès d'un principal à un groupe de routes. Fonction
// pure, sans effet de bord :
//  1. principal nil (non authentifié) -> refus, redirection login.
//  2. groupe User -> accès ssi le rôle n'est ni SuperAdmin ni SubscriptionManager.
//  3. autre groupe -> égalité stricte du rôle.
//  4. refus -> redirection vers le tableau de bord du rôle réel du principal,
//     jamais déterminée par le groupe demandé.
func Authorize(p *Principal, group RoleGroup) Decision {
	if p == nil {
		return Decision{Allowed: false, RedirectPath: PathLogin}
	}
	match, ok := groupMatchers[group]
	if ok && match(p.Role) {
		return Decision{Allowed: true}
	}
	return Decision{Allowed: false, RedirectPath: HomePath(p.Role)}
}

// HomePath retourne le tableau de bord associé à un rôle réel.
func HomePath(role string) string {
	switch role {
	case entity.RoleSuperAdmin:
		return PathAdminHome
	case entity.RoleSubscriptionManager:
		return PathCompanyHome
	default:
		return PathUserHome
	}
}
