package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/conformitia/conformitia-api/internal/application/auth"
	"github.com/conformitia/conformitia-api/internal/application/authz"
	"github.com/conformitia/conformitia-api/internal/application/dto"
	"github.com/conformitia/conformitia-api/internal/application/ports"
	"github.com/conformitia/conformitia-api/internal/domain"
	"github.com/conformitia/conformitia-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en mémoire des ports
// ──────────────────────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	byEmail map[string]*entity.User
	err     error
	updated *entity.User
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error { return nil }
func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byEmail[email], nil
}
func (f *fakeUserRepo) GetByVerificationToken(ctx context.Context, token string) (*entity.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	f.updated = user
	return nil
}
func (f *fakeUserRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) CountActiveByCompany(ctx context.Context, companyID string) (int, error) {
	return 0, nil
}
func (f *fakeUserRepo) CountAll(ctx context.Context) (int, error) { return 0, nil }
func (f *fakeUserRepo) Delete(ctx context.Context, id string) error { return nil }

type fakeCompanyRepo struct {
	byID map[string]*entity.Company
}

func (f *fakeCompanyRepo) Create(ctx context.Context, company *entity.Company) error { return nil }
func (f *fakeCompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	return f.byID[id], nil
}
func (f *fakeCompanyRepo) GetByName(ctx context.Context, name string) (*entity.Company, error) {
	return nil, nil
}
func (f *fakeCompanyRepo) Update(ctx context.Context, company *entity.Company) error { return nil }
func (f *fakeCompanyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	return nil, nil
}
func (f *fakeCompanyRepo) ListByStatus(ctx context.Context, status string) ([]*entity.Company, error) {
	return nil, nil
}
func (f *fakeCompanyRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	return 0, nil
}
func (f *fakeCompanyRepo) Delete(ctx context.Context, id string) error { return nil }

type fakeSessionStore struct {
	created   []ports.SessionData
	createErr error
	deleted   []string
}

func (f *fakeSessionStore) Create(ctx context.Context, data ports.SessionData) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, data)
	return "sid-0001", nil
}
func (f *fakeSessionStore) Get(ctx context.Context, id string) (*ports.SessionData, error) {
	return nil, nil
}
func (f *fakeSessionStore) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeMailer struct{ sent int }

func (f *fakeMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	f.sent++
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const motDePasse = "S3cret!!"

func hash(t *testing.T) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(motDePasse), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func activeManager(t *testing.T, companyID string) *entity.User {
	return &entity.User{
		ID:           "u-0001",
		CompanyID:    &companyID,
		Name:         "Claire Martin",
		Email:        "claire@acme.fr",
		PasswordHash: hash(t),
		Role:         entity.RoleSubscriptionManager,
		Status:       entity.UserStatusActive,
	}
}

func buildUseCase(users *fakeUserRepo, companies *fakeCompanyRepo, sessions *fakeSessionStore) *auth.UseCase {
	return auth.NewUseCase(users, companies, sessions, &fakeMailer{}, auth.Config{
		BaseURL:           "https://app.example.test",
		ResetSecret:       "secret-de-test",
		ResetExpMinutes:   30,
		VerifyTokenExpiry: 24 * time.Hour,
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Login
// ──────────────────────────────────────────────────────────────────────────────

// Un compte Active se connecte même sans aucun abonnement : les entitlements
// ne sont jamais consultés au login, seule l'ouverture des fonctionnalités
// payantes en dépend.
func TestLogin_SansAbonnementLaConnexionReussit(t *testing.T) {
	user := activeManager(t, "c-0001")
	users := &fakeUserRepo{byEmail: map[string]*entity.User{user.Email: user}}
	companies := &fakeCompanyRepo{byID: map[string]*entity.Company{
		"c-0001": {ID: "c-0001", Name: "ACME Conformité", Status: entity.CompanyStatusApproved},
	}}
	sessions := &fakeSessionStore{}
	uc := buildUseCase(users, companies, sessions)

	resp, sessionID, err := uc.Login(context.Background(), dto.LoginRequest{
		Email:    user.Email,
		Password: motDePasse,
	})

	require.NoError(t, err)
	assert.Equal(t, "sid-0001", sessionID)
	assert.Equal(t, authz.PathCompanyHome, resp.HomePath)
	assert.Equal(t, "ACME Conformité", resp.CompanyName)
	require.Len(t, sessions.created, 1)
	assert.Equal(t, entity.RoleSubscriptionManager, sessions.created[0].Role)
	assert.Equal(t, "c-0001", sessions.created[0].CompanyID)
}

// Panne de persistance au login : fail-closed, la réponse est indiscernable
// d'identifiants invalides (jamais de 5xx, jamais de session).
func TestLogin_PannePersistanceFermeLaPorte(t *testing.T) {
	users := &fakeUserRepo{err: errors.New("connexion refusée")}
	sessions := &fakeSessionStore{}
	uc := buildUseCase(users, &fakeCompanyRepo{}, sessions)

	resp, sessionID, err := uc.Login(context.Background(), dto.LoginRequest{
		Email:    "claire@acme.fr",
		Password: motDePasse,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Nil(t, resp)
	assert.Empty(t, sessionID)
	assert.Empty(t, sessions.created)
}

// Email inconnu et mauvais mot de passe donnent la même erreur.
func TestLogin_IdentifiantsInvalides(t *testing.T) {
	user := activeManager(t, "c-0001")
	users := &fakeUserRepo{byEmail: map[string]*entity.User{user.Email: user}}
	uc := buildUseCase(users, &fakeCompanyRepo{}, &fakeSessionStore{})
	ctx := context.Background()

	_, _, err := uc.Login(ctx, dto.LoginRequest{Email: "inconnu@acme.fr", Password: motDePasse})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, _, err = uc.Login(ctx, dto.LoginRequest{Email: user.Email, Password: "mauvais"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

// Un compte Pending (email non vérifié ou entreprise non approuvée) est
// refusé avec une erreur distincte des identifiants invalides.
func TestLogin_ComptePendingRefuse(t *testing.T) {
	user := activeManager(t, "c-0001")
	user.Status = entity.UserStatusPending
	users := &fakeUserRepo{byEmail: map[string]*entity.User{user.Email: user}}
	sessions := &fakeSessionStore{}
	uc := buildUseCase(users, &fakeCompanyRepo{}, sessions)

	_, _, err := uc.Login(context.Background(), dto.LoginRequest{
		Email:    user.Email,
		Password: motDePasse,
	})

	assert.ErrorIs(t, err, domain.ErrAccountNotActive)
	assert.Empty(t, sessions.created)
}

// Un SuperAdmin (sans entreprise) se connecte et est routé vers son tableau
// de bord d'administration.
func TestLogin_SuperAdminSansEntreprise(t *testing.T) {
	admin := &entity.User{
		ID:           "u-admin",
		Name:         "Admin plateforme",
		Email:        "admin@conformitia.fr",
		PasswordHash: hash(t),
		Role:         entity.RoleSuperAdmin,
		Status:       entity.UserStatusActive,
	}
	users := &fakeUserRepo{byEmail: map[string]*entity.User{admin.Email: admin}}
	uc := buildUseCase(users, &fakeCompanyRepo{}, &fakeSessionStore{})

	resp, _, err := uc.Login(context.Background(), dto.LoginRequest{
		Email:    admin.Email,
		Password: motDePasse,
	})

	require.NoError(t, err)
	assert.Equal(t, authz.PathAdminHome, resp.HomePath)
	assert.Empty(t, resp.CompanyID)
}

// Magasin de sessions indisponible : la connexion échoue proprement.
func TestLogin_MagasinDeSessionsIndisponible(t *testing.T) {
	user := activeManager(t, "c-0001")
	users := &fakeUserRepo{byEmail: map[string]*entity.User{user.Email: user}}
	sessions := &fakeSessionStore{createErr: errors.New("redis injoignable")}
	uc := buildUseCase(users, &fakeCompanyRepo{}, sessions)

	resp, sessionID, err := uc.Login(context.Background(), dto.LoginRequest{
		Email:    user.Email,
		Password: motDePasse,
	})

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Empty(t, sessionID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Logout
// ──────────────────────────────────────────────────────────────────────────────

func TestLogout_RevoqueLaSessionServeur(t *testing.T) {
	sessions := &fakeSessionStore{}
	uc := buildUseCase(&fakeUserRepo{}, &fakeCompanyRepo{}, sessions)

	uc.Logout(context.Background(), "sid-0001")
	assert.Equal(t, []string{"sid-0001"}, sessions.deleted)

	// Sans identifiant, rien à révoquer.
	uc.Logout(context.Background(), "")
	assert.Len(t, sessions.deleted, 1)
}
