package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conformitia/conformitia-api/internal/application/authz"
	"github.com/conformitia/conformitia-api/internal/application/ports"
	"github.com/conformitia/conformitia-api/internal/domain/entity"
	apphttp "github.com/conformitia/conformitia-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testCookie = "conformitia_sid"

// fakeSessionStore magasin en mémoire, avec panne simulable.
type fakeSessionStore struct {
	sessions map[string]ports.SessionData
	err      error
}

func (f *fakeSessionStore) Create(ctx context.Context, data ports.SessionData) (string, error) {
	return "", errors.New("non utilisé dans ces tests")
}

func (f *fakeSessionStore) Get(ctx context.Context, id string) (*ports.SessionData, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	return &data, nil
}

func (f *fakeSessionStore) Delete(ctx context.Context, id string) error { return nil }

// fakeFeatureChecker répond depuis une table fonctionnalité -> autorisé.
type fakeFeatureChecker struct {
	allowed map[string]bool
}

func (f *fakeFeatureChecker) HasFeature(ctx context.Context, companyID, feature string) bool {
	return f.allowed[feature]
}

// buildApp construit une application Fiber minimale : résolution de session,
// autorisation de groupe, et un handler qui répond 200 avec le rôle.
func buildApp(store ports.SessionStore, group authz.RoleGroup) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.SessionMiddleware(store, testCookie),
		apphttp.RequireGroup(group),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"role": apphttp.GetPrincipal(c).Role})
		},
	)
	return app
}

func doRequest(t *testing.T, app *fiber.App, sessionID string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: sessionID})
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func storeWith(role, companyID string) *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]ports.SessionData{
		"sid-1": {UserID: "u1", Role: role, CompanyID: companyID, Name: "Test"},
	}}
}

// ──────────────────────────────────────────────────────────────────────────────
// Résolution de session
// ──────────────────────────────────────────────────────────────────────────────

func TestSessionMiddleware_SansCookieRedirigeVersLaConnexion(t *testing.T) {
	app := buildApp(&fakeSessionStore{}, authz.GroupUser)

	resp := doRequest(t, app, "")
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, authz.PathLogin, resp.Header.Get("Location"))
}

func TestSessionMiddleware_SessionEvinceeRedirigeVersLaConnexion(t *testing.T) {
	// Cookie présent mais session absente du magasin (timeout d'inactivité).
	app := buildApp(&fakeSessionStore{sessions: map[string]ports.SessionData{}}, authz.GroupUser)

	resp := doRequest(t, app, "sid-disparu")
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, authz.PathLogin, resp.Header.Get("Location"))
}

func TestSessionMiddleware_MagasinEnPanneTraiteCommeAnonyme(t *testing.T) {
	// Fail-closed : panne du magasin = anonyme, jamais de 500.
	app := buildApp(&fakeSessionStore{err: errors.New("connexion refusée")}, authz.GroupUser)

	resp := doRequest(t, app, "sid-1")
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, authz.PathLogin, resp.Header.Get("Location"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Autorisation de groupe
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireGroup_AccepteLeRoleDuGroupe(t *testing.T) {
	app := buildApp(storeWith(entity.RoleSuperAdmin, ""), authz.GroupSuperAdmin)

	resp := doRequest(t, app, "sid-1")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireGroup_GroupeUserAccepteAuditorEtRolesInconnus(t *testing.T) {
	for _, role := range []string{entity.RoleAuditor, entity.RoleUser, "Observateur"} {
		app := buildApp(storeWith(role, "c1"), authz.GroupUser)
		resp := doRequest(t, app, "sid-1")
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, "rôle %s", role)
	}
}

func TestRequireGroup_RefusRedirigeVersLAccueilDuRoleReel(t *testing.T) {
	// Un SuperAdmin qui vise une page gestionnaire retourne chez lui,
	// pas vers l'accueil du groupe demandé.
	app := buildApp(storeWith(entity.RoleSuperAdmin, ""), authz.GroupSubscriptionManager)

	resp := doRequest(t, app, "sid-1")
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, authz.PathAdminHome, resp.Header.Get("Location"))
}

func TestRequireGroup_SuperAdminExcluDuGroupeUser(t *testing.T) {
	app := buildApp(storeWith(entity.RoleSuperAdmin, ""), authz.GroupUser)

	resp := doRequest(t, app, "sid-1")
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, authz.PathAdminHome, resp.Header.Get("Location"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Porte de fonctionnalités
// ──────────────────────────────────────────────────────────────────────────────

func buildFeatureApp(store ports.SessionStore, checker *fakeFeatureChecker) *fiber.App {
	app := fiber.New()
	app.Get("/statistics",
		apphttp.SessionMiddleware(store, testCookie),
		apphttp.RequireFeature(entity.FeatureStatistics, checker, authz.PathCompanyHome),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)
	return app
}

func TestRequireFeature_AccepteQuandLaFonctionnaliteEstCouverte(t *testing.T) {
	checker := &fakeFeatureChecker{allowed: map[string]bool{entity.FeatureStatistics: true}}
	app := buildFeatureApp(storeWith(entity.RoleSubscriptionManager, "c1"), checker)

	req := httptest.NewRequest(http.MethodGet, "/statistics", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "sid-1"})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireFeature_RedirigeVersLeFallbackSansCouverture(t *testing.T) {
	checker := &fakeFeatureChecker{allowed: map[string]bool{}}
	app := buildFeatureApp(storeWith(entity.RoleSubscriptionManager, "c1"), checker)

	req := httptest.NewRequest(http.MethodGet, "/statistics", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "sid-1"})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, authz.PathCompanyHome, resp.Header.Get("Location"))
}

func TestRequireFeature_SansEntrepriseRedirigeVersLeFallback(t *testing.T) {
	// Un principal sans entreprise (SuperAdmin) n'a aucun abonnement à évaluer.
	checker := &fakeFeatureChecker{allowed: map[string]bool{entity.FeatureStatistics: true}}
	app := buildFeatureApp(storeWith(entity.RoleSuperAdmin, ""), checker)

	req := httptest.NewRequest(http.MethodGet, "/statistics", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "sid-1"})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, authz.PathCompanyHome, resp.Header.Get("Location"))
}
