package entitlement_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/conformitia/conformitia-api/internal/application/entitlement"
	"github.com/conformitia/conformitia-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en mémoire des ports de persistance
// ──────────────────────────────────────────────────────────────────────────────

type fakeSubRepo struct {
	subs []*entity.CompanySubscription
	err  error
}

func (f *fakeSubRepo) Create(ctx context.Context, sub *entity.CompanySubscription) error {
	f.subs = append(f.subs, sub)
	return nil
}

func (f *fakeSubRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.CompanySubscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*entity.CompanySubscription
	for _, s := range f.subs {
		if s.CompanyID == companyID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubRepo) ListActiveByStatus(ctx context.Context, companyID string) ([]*entity.CompanySubscription, error) {
	return nil, nil
}

func (f *fakeSubRepo) ListAllActiveByStatus(ctx context.Context) ([]*entity.CompanySubscription, error) {
	return nil, nil
}

func (f *fakeSubRepo) ExistsActiveCreatedSince(ctx context.Context, companyID string, since time.Time) (bool, error) {
	return false, nil
}

func (f *fakeSubRepo) Cancel(ctx context.Context, id string, canceledAt time.Time) error {
	return nil
}

type fakePlanRepo struct {
	plans map[string]*entity.SubscriptionPlan
	err   error
}

func (f *fakePlanRepo) Create(ctx context.Context, plan *entity.SubscriptionPlan) error { return nil }
func (f *fakePlanRepo) Update(ctx context.Context, plan *entity.SubscriptionPlan) error { return nil }
func (f *fakePlanRepo) List(ctx context.Context) ([]*entity.SubscriptionPlan, error)    { return nil, nil }
func (f *fakePlanRepo) ListActive(ctx context.Context) ([]*entity.SubscriptionPlan, error) {
	return nil, nil
}
func (f *fakePlanRepo) Delete(ctx context.Context, id string) error { return nil }

func (f *fakePlanRepo) GetByID(ctx context.Context, id string) (*entity.SubscriptionPlan, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.plans[id], nil
}

type fakeUserRepo struct {
	activeCount int
	err         error
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error          { return nil }
func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) { return nil, nil }
func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) GetByVerificationToken(ctx context.Context, token string) (*entity.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) Update(ctx context.Context, user *entity.User) error { return nil }
func (f *fakeUserRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) CountAll(ctx context.Context) (int, error)  { return 0, nil }
func (f *fakeUserRepo) Delete(ctx context.Context, id string) error { return nil }

func (f *fakeUserRepo) CountActiveByCompany(ctx context.Context, companyID string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.activeCount, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

const companyID = "c-0001"

func newService(subs *fakeSubRepo, plans *fakePlanRepo, users *fakeUserRepo) *entitlement.Service {
	return entitlement.NewService(subs, plans, users).WithClock(func() time.Time { return testNow })
}

func activeSub(id, planID string, endInDays int, createdAt time.Time) *entity.CompanySubscription {
	return &entity.CompanySubscription{
		ID:        id,
		CompanyID: companyID,
		PlanID:    planID,
		Status:    entity.SubscriptionStatusActive,
		StartDate: createdAt,
		EndDate:   testNow.AddDate(0, 0, endInDays),
		CreatedAt: createdAt,
	}
}

func planWithFeatures(id string, userLimit int, features string) *entity.SubscriptionPlan {
	return &entity.SubscriptionPlan{ID: id, Name: "Plan " + id, UserLimit: userLimit, Features: features, IsActive: true}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Evaluate
// ──────────────────────────────────────────────────────────────────────────────

// Aucune ligne d'abonnement : entitlement zéro, sans erreur.
func TestEvaluate_SansAbonnement(t *testing.T) {
	svc := newService(&fakeSubRepo{}, &fakePlanRepo{}, &fakeUserRepo{})

	ent := svc.Evaluate(context.Background(), companyID)

	assert.False(t, ent.HasActiveSubscription)
	assert.Empty(t, ent.Features)
	assert.Equal(t, 0, ent.UserLimit)
}

// Deux abonnements actifs valides (anomalie de données) : la ligne la plus
// récemment créée gagne, indépendamment des dates d'échéance.
func TestEvaluate_DeuxActifsLePlusRecentGagne(t *testing.T) {
	t1 := testNow.AddDate(0, -2, 0)
	t2 := testNow.AddDate(0, -1, 0)
	subs := &fakeSubRepo{subs: []*entity.CompanySubscription{
		activeSub("s-ancien", "p-ancien", 30, t1),
		activeSub("s-recent", "p-recent", 60, t2),
	}}
	plans := &fakePlanRepo{plans: map[string]*entity.SubscriptionPlan{
		"p-ancien": planWithFeatures("p-ancien", 5, `["Ancienne fonctionnalité"]`),
		"p-recent": planWithFeatures("p-recent", 10, `["Statistiques et analyses"]`),
	}}
	svc := newService(subs, plans, &fakeUserRepo{})

	ent := svc.Evaluate(context.Background(), companyID)

	assert.True(t, ent.HasActiveSubscription)
	assert.Equal(t, "s-recent", ent.SubscriptionID)
	assert.Equal(t, []string{"Statistiques et analyses"}, ent.Features)
	assert.Equal(t, 10, ent.UserLimit)
}

// Statut stocké "active" mais EndDate dépassée : l'expiration paresseuse
// est honorée, l'abonnement est effectivement expiré.
func TestEvaluate_ExpirationParesseuseHonoree(t *testing.T) {
	stale := activeSub("s-perime", "p-1", -1, testNow.AddDate(0, -2, 0))
	subs := &fakeSubRepo{subs: []*entity.CompanySubscription{stale}}
	plans := &fakePlanRepo{plans: map[string]*entity.SubscriptionPlan{
		"p-1": planWithFeatures("p-1", 5, `["Statistiques et analyses"]`),
	}}
	svc := newService(subs, plans, &fakeUserRepo{})

	ent := svc.Evaluate(context.Background(), companyID)

	assert.False(t, ent.HasActiveSubscription,
		"un statut stocké 'active' ne suffit pas quand EndDate est passée")
	assert.Empty(t, ent.Features)
}

// Liste de fonctionnalités malformée : décodage défensif, jamais d'erreur.
func TestEvaluate_FeaturesMalformeesDonnentListeVide(t *testing.T) {
	subs := &fakeSubRepo{subs: []*entity.CompanySubscription{
		activeSub("s-1", "p-1", 30, testNow.AddDate(0, -1, 0)),
	}}
	plans := &fakePlanRepo{plans: map[string]*entity.SubscriptionPlan{
		"p-1": planWithFeatures("p-1", 5, `{pas du json valide`),
	}}
	svc := newService(subs, plans, &fakeUserRepo{})

	ent := svc.Evaluate(context.Background(), companyID)

	assert.True(t, ent.HasActiveSubscription)
	assert.Empty(t, ent.Features)
}

// Panne de persistance : fail-closed, entitlement zéro.
func TestEvaluate_PannePersistanceFermeTout(t *testing.T) {
	subs := &fakeSubRepo{err: errors.New("connexion refusée")}
	svc := newService(subs, &fakePlanRepo{}, &fakeUserRepo{})

	ent := svc.Evaluate(context.Background(), companyID)

	assert.False(t, ent.HasActiveSubscription)
	assert.Equal(t, 0, ent.UserLimit)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests HasFeature
// ──────────────────────────────────────────────────────────────────────────────

// Correspondance exacte et sensible à la casse avec le nom du catalogue.
func TestHasFeature_CorrespondanceExacte(t *testing.T) {
	subs := &fakeSubRepo{subs: []*entity.CompanySubscription{
		activeSub("s-1", "p-1", 30, testNow.AddDate(0, -1, 0)),
	}}
	plans := &fakePlanRepo{plans: map[string]*entity.SubscriptionPlan{
		"p-1": planWithFeatures("p-1", 5, `["Statistiques et analyses"]`),
	}}
	svc := newService(subs, plans, &fakeUserRepo{})
	ctx := context.Background()

	assert.True(t, svc.HasFeature(ctx, companyID, "Statistiques et analyses"))
	assert.False(t, svc.HasFeature(ctx, companyID, "statistiques et analyses"),
		"la casse doit correspondre exactement")
	assert.False(t, svc.HasFeature(ctx, companyID, "Textes réglementaires avancés"))
}

// Sans abonnement, aucune fonctionnalité n'est accordée.
func TestHasFeature_SansAbonnementToutFaux(t *testing.T) {
	svc := newService(&fakeSubRepo{}, &fakePlanRepo{}, &fakeUserRepo{})

	assert.False(t, svc.HasFeature(context.Background(), companyID, entity.FeatureStatistics))
	assert.False(t, svc.HasFeature(context.Background(), companyID, "n'importe quoi"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests CanCreateUser
// ──────────────────────────────────────────────────────────────────────────────

// true ssi le nombre d'utilisateurs Active est STRICTEMENT inférieur à la
// limite du plan ; les comptes Pending sont ignorés quel que soit leur nombre.
func TestCanCreateUser_CompteSeulementLesActifs(t *testing.T) {
	subs := &fakeSubRepo{subs: []*entity.CompanySubscription{
		activeSub("s-1", "p-1", 30, testNow.AddDate(0, -1, 0)),
	}}
	plans := &fakePlanRepo{plans: map[string]*entity.SubscriptionPlan{
		"p-1": planWithFeatures("p-1", 3, `[]`),
	}}
	ctx := context.Background()

	// 2 actifs sur une limite de 3 : un siège reste (les Pending éventuels
	// n'apparaissent pas dans le comptage, c'est le contrat du port).
	svc := newService(subs, plans, &fakeUserRepo{activeCount: 2})
	assert.True(t, svc.CanCreateUser(ctx, companyID))

	// 3 actifs sur 3 : limite atteinte.
	svc = newService(subs, plans, &fakeUserRepo{activeCount: 3})
	assert.False(t, svc.CanCreateUser(ctx, companyID))
}

// Sans abonnement actif, la création est toujours refusée (limite 0).
func TestCanCreateUser_SansAbonnementToujoursFaux(t *testing.T) {
	svc := newService(&fakeSubRepo{}, &fakePlanRepo{}, &fakeUserRepo{activeCount: 0})

	assert.False(t, svc.CanCreateUser(context.Background(), companyID))
}

// Panne du comptage : fail-closed.
func TestCanCreateUser_PanneComptageRefuse(t *testing.T) {
	subs := &fakeSubRepo{subs: []*entity.CompanySubscription{
		activeSub("s-1", "p-1", 30, testNow.AddDate(0, -1, 0)),
	}}
	plans := &fakePlanRepo{plans: map[string]*entity.SubscriptionPlan{
		"p-1": planWithFeatures("p-1", 10, `[]`),
	}}
	svc := newService(subs, plans, &fakeUserRepo{err: errors.New("timeout")})

	assert.False(t, svc.CanCreateUser(context.Background(), companyID))
}
