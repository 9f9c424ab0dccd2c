package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/conformitia/conformitia-api/internal/application/authz"
	"github.com/conformitia/conformitia-api/internal/application/ports"
)

// LocalPrincipal clé Locals du principal résolu par SessionMiddleware.
const LocalPrincipal = "principal"

// SessionMiddleware résout l'identité depuis le cookie de session. Session
// absente, évincée par le timeout d'inactivité ou magasin indisponible :
// redirection vers la page de connexion (fail-closed, jamais de 500 ici).
// Le principal reflète l'état au moment du login ; un changement de rôle en
// base ne s'applique qu'à la prochaine connexion.
func SessionMiddleware(store ports.SessionStore, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(cookieName)
		if sessionID == "" {
			return c.Redirect(authz.PathLogin, fiber.StatusSeeOther)
		}
		data, err := store.Get(c.Context(), sessionID)
		if err != nil {
			log.Warn().Err(err).Msg("magasin de sessions indisponible, requête traitée comme anonyme")
			return c.Redirect(authz.PathLogin, fiber.StatusSeeOther)
		}
		if data == nil {
			return c.Redirect(authz.PathLogin, fiber.StatusSeeOther)
		}
		c.Locals(LocalPrincipal, &authz.Principal{
			UserID:      data.UserID,
			Role:        data.Role,
			CompanyID:   data.CompanyID,
			Name:        data.Name,
			CompanyName: data.CompanyName,
		})
		return c.Next()
	}
}

// GetPrincipal retourne le principal du contexte, nil hors session.
func GetPrincipal(c *fiber.Ctx) *authz.Principal {
	v := c.Locals(LocalPrincipal)
	if v == nil {
		return nil
	}
	p, _ := v.(*authz.Principal)
	return p
}

// RequireGroup autorise l'accès au groupe de rôles demandé. Un refus
// redirige vers l'accueil du rôle RÉEL du principal, jamais vers celui du
// groupe demandé. À utiliser APRÈS SessionMiddleware.
func RequireGroup(group authz.RoleGroup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		decision := authz.Authorize(GetPrincipal(c), group)
		if !decision.Allowed {
			return c.Redirect(decision.RedirectPath, fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

// featureChecker contrat minimal du middleware de fonctionnalités ;
// implémenté par *entitlement.Service. L'interface évite l'import circulaire.
type featureChecker interface {
	HasFeature(ctx context.Context, companyID, feature string) bool
}

// RequireFeature vérifie que l'abonnement courant de l'entreprise du
// principal couvre la fonctionnalité. Pas d'abonnement, fonctionnalité
// absente ou persistance en panne : redirection vers fallbackPath, où
// l'entreprise peut souscrire. Jamais de 5xx ici.
func RequireFeature(feature string, checker featureChecker, fallbackPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := GetPrincipal(c)
		if p == nil {
			return c.Redirect(authz.PathLogin, fiber.StatusSeeOther)
		}
		if p.CompanyID == "" || !checker.HasFeature(c.Context(), p.CompanyID, feature) {
			return c.Redirect(fallbackPath, fiber.StatusSeeOther)
		}
		return c.Next()
	}
}
