package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conformitia/conformitia-api/internal/application/dto"
	"github.com/conformitia/conformitia-api/internal/application/entitlement"
	"github.com/conformitia/conformitia-api/internal/application/ports"
	"github.com/conformitia/conformitia-api/internal/domain"
	"github.com/conformitia/conformitia-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Doubles de test
// ──────────────────────────────────────────────────────────────────────────────

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

type fakePlanRepo struct {
	plans map[string]*entity.SubscriptionPlan
}

func (f *fakePlanRepo) Create(ctx context.Context, p *entity.SubscriptionPlan) error { return nil }
func (f *fakePlanRepo) GetByID(ctx context.Context, id string) (*entity.SubscriptionPlan, error) {
	return f.plans[id], nil
}
func (f *fakePlanRepo) Update(ctx context.Context, p *entity.SubscriptionPlan) error { return nil }
func (f *fakePlanRepo) List(ctx context.Context) ([]*entity.SubscriptionPlan, error) {
	return nil, nil
}
func (f *fakePlanRepo) ListActive(ctx context.Context) ([]*entity.SubscriptionPlan, error) {
	return nil, nil
}
func (f *fakePlanRepo) Delete(ctx context.Context, id string) error { return nil }

type fakeSubRepo struct {
	subs        []*entity.CompanySubscription
	canceledIDs []string
	existsErr   error
}

func (f *fakeSubRepo) Create(ctx context.Context, s *entity.CompanySubscription) error {
	f.subs = append(f.subs, s)
	return nil
}
func (f *fakeSubRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.CompanySubscription, error) {
	var out []*entity.CompanySubscription
	for _, s := range f.subs {
		if s.CompanyID == companyID {
			out = append(out, s)
		}
	}
	return out, nil
}
func (f *fakeSubRepo) ListActiveByStatus(ctx context.Context, companyID string) ([]*entity.CompanySubscription, error) {
	var out []*entity.CompanySubscription
	for _, s := range f.subs {
		if s.CompanyID == companyID && s.Status == entity.SubscriptionStatusActive {
			out = append(out, s)
		}
	}
	return out, nil
}
func (f *fakeSubRepo) ListAllActiveByStatus(ctx context.Context) ([]*entity.CompanySubscription, error) {
	return nil, nil
}
func (f *fakeSubRepo) ExistsActiveCreatedSince(ctx context.Context, companyID string, since time.Time) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	for _, s := range f.subs {
		if s.CompanyID == companyID && s.Status == entity.SubscriptionStatusActive && s.CreatedAt.After(since) {
			return true, nil
		}
	}
	return false, nil
}
func (f *fakeSubRepo) Cancel(ctx context.Context, id string, canceledAt time.Time) error {
	for _, s := range f.subs {
		if s.ID == id {
			s.Status = entity.SubscriptionStatusCanceled
			at := canceledAt
			s.CanceledAt = &at
			f.canceledIDs = append(f.canceledIDs, id)
		}
	}
	return nil
}

type fakePaymentRepo struct {
	payments map[string]*entity.Payment // clé : StripeSessionID
}

func (f *fakePaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	if f.payments == nil {
		f.payments = map[string]*entity.Payment{}
	}
	f.payments[p.StripeSessionID] = p
	return nil
}
func (f *fakePaymentRepo) GetByStripeSessionID(ctx context.Context, sessionID string) (*entity.Payment, error) {
	return f.payments[sessionID], nil
}
func (f *fakePaymentRepo) Update(ctx context.Context, p *entity.Payment) error {
	f.payments[p.StripeSessionID] = p
	return nil
}
func (f *fakePaymentRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Payment, error) {
	return nil, nil
}

type fakeUserRepo struct{}

func (f *fakeUserRepo) Create(ctx context.Context, u *entity.User) error { return nil }
func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) GetByVerificationToken(ctx context.Context, token string) (*entity.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) Update(ctx context.Context, u *entity.User) error { return nil }
func (f *fakeUserRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) CountActiveByCompany(ctx context.Context, companyID string) (int, error) {
	return 0, nil
}
func (f *fakeUserRepo) CountAll(ctx context.Context) (int, error) { return 0, nil }
func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	return nil
}

type fakeGateway struct {
	session *ports.CheckoutSession
	status  *ports.SessionStatus
}

func (f *fakeGateway) CreateCheckoutSession(ctx context.Context, params ports.CheckoutParams) (*ports.CheckoutSession, error) {
	return f.session, nil
}
func (f *fakeGateway) GetSession(ctx context.Context, sessionID string) (*ports.SessionStatus, error) {
	return f.status, nil
}
func (f *fakeGateway) ParseWebhook(payload []byte, signature string) (*ports.SessionStatus, error) {
	return f.status, nil
}

// fakeTx exécute fn directement sur les dépôts en mémoire : pas de vraie
// transaction, mais la même séquence d'écritures.
type fakeTx struct {
	subs     *fakeSubRepo
	payments *fakePaymentRepo
}

func (f *fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos ports.TxRepos) error) error {
	return fn(ctx, ports.TxRepos{Subscriptions: f.subs, Payments: f.payments})
}

func buildUseCase(subs *fakeSubRepo, payments *fakePaymentRepo, plans *fakePlanRepo, gw *fakeGateway) *UseCase {
	ent := entitlement.NewService(subs, plans, &fakeUserRepo{}).WithClock(func() time.Time { return testNow })
	return NewUseCase(plans, subs, payments, ent, gw, &fakeTx{subs: subs, payments: payments}, "https://app.example.test").
		WithClock(func() time.Time { return testNow })
}

// ──────────────────────────────────────────────────────────────────────────────
// Activation via webhook
// ──────────────────────────────────────────────────────────────────────────────

func TestHandleWebhook_ActiveLAbonnementEtClotLePaiement(t *testing.T) {
	subs := &fakeSubRepo{}
	payments := &fakePaymentRepo{payments: map[string]*entity.Payment{
		"cs_123": {ID: "p1", CompanyID: "c1", PlanID: "plan1", StripeSessionID: "cs_123", Status: entity.PaymentStatusPending},
	}}
	gw := &fakeGateway{status: &ports.SessionStatus{ID: "cs_123", Paid: true, PaymentIntentID: "pi_9", CompanyID: "c1", PlanID: "plan1"}}
	uc := buildUseCase(subs, payments, &fakePlanRepo{}, gw)

	err := uc.HandleWebhook(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err)

	require.Len(t, subs.subs, 1)
	created := subs.subs[0]
	assert.Equal(t, entity.SubscriptionStatusActive, created.Status)
	assert.Equal(t, "c1", created.CompanyID)
	assert.Equal(t, "plan1", created.PlanID)
	assert.Equal(t, testNow, created.StartDate)
	assert.Equal(t, testNow.AddDate(0, 1, 0), created.EndDate)

	record := payments.payments["cs_123"]
	assert.Equal(t, entity.PaymentStatusSucceeded, record.Status)
	assert.Equal(t, "pi_9", record.StripePaymentIntentID)
	require.NotNil(t, record.PaidAt)
}

func TestHandleWebhook_AnnuleLesAbonnementsActifsExistants(t *testing.T) {
	// Un abonnement actif ancien doit être annulé quand le nouveau arrive.
	subs := &fakeSubRepo{subs: []*entity.CompanySubscription{
		{ID: "old", CompanyID: "c1", PlanID: "plan0", Status: entity.SubscriptionStatusActive,
			EndDate: testNow.AddDate(0, 0, 10), CreatedAt: testNow.AddDate(0, -1, 0)},
	}}
	payments := &fakePaymentRepo{payments: map[string]*entity.Payment{}}
	gw := &fakeGateway{status: &ports.SessionStatus{ID: "cs_1", Paid: true, CompanyID: "c1", PlanID: "plan1"}}
	uc := buildUseCase(subs, payments, &fakePlanRepo{}, gw)

	require.NoError(t, uc.HandleWebhook(context.Background(), []byte("{}"), "sig"))

	assert.Equal(t, []string{"old"}, subs.canceledIDs)
	require.Len(t, subs.subs, 2)
	assert.Equal(t, entity.SubscriptionStatusCanceled, subs.subs[0].Status)
	assert.Equal(t, entity.SubscriptionStatusActive, subs.subs[1].Status)
}

func TestHandleWebhook_IdempotentSurDoubleLivraison(t *testing.T) {
	// Un abonnement actif créé il y a 2 minutes : la seconde livraison du
	// webhook ne doit rien créer ni rien annuler.
	subs := &fakeSubRepo{subs: []*entity.CompanySubscription{
		{ID: "fresh", CompanyID: "c1", PlanID: "plan1", Status: entity.SubscriptionStatusActive,
			EndDate: testNow.AddDate(0, 1, 0), CreatedAt: testNow.Add(-2 * time.Minute)},
	}}
	payments := &fakePaymentRepo{payments: map[string]*entity.Payment{}}
	gw := &fakeGateway{status: &ports.SessionStatus{ID: "cs_1", Paid: true, CompanyID: "c1", PlanID: "plan1"}}
	uc := buildUseCase(subs, payments, &fakePlanRepo{}, gw)

	require.NoError(t, uc.HandleWebhook(context.Background(), []byte("{}"), "sig"))

	assert.Len(t, subs.subs, 1, "aucun nouvel abonnement ne doit être créé")
	assert.Empty(t, subs.canceledIDs)
}

func TestHandleWebhook_IgnoreLesEvenementsNonPayes(t *testing.T) {
	subs := &fakeSubRepo{}
	gw := &fakeGateway{status: nil}
	uc := buildUseCase(subs, &fakePaymentRepo{}, &fakePlanRepo{}, gw)

	require.NoError(t, uc.HandleWebhook(context.Background(), []byte("{}"), "sig"))
	assert.Empty(t, subs.subs)
}

// ──────────────────────────────────────────────────────────────────────────────
// Vérification manuelle de session
// ──────────────────────────────────────────────────────────────────────────────

func TestVerifySession_RefuseLaSessionDUneAutreEntreprise(t *testing.T) {
	gw := &fakeGateway{status: &ports.SessionStatus{ID: "cs_1", Paid: true, CompanyID: "autre", PlanID: "plan1"}}
	uc := buildUseCase(&fakeSubRepo{}, &fakePaymentRepo{}, &fakePlanRepo{}, gw)

	_, err := uc.VerifySession(context.Background(), "c1", "cs_1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestVerifySession_PaiementNonConfirme(t *testing.T) {
	gw := &fakeGateway{status: &ports.SessionStatus{ID: "cs_1", Paid: false, CompanyID: "c1"}}
	uc := buildUseCase(&fakeSubRepo{}, &fakePaymentRepo{}, &fakePlanRepo{}, gw)

	resp, err := uc.VerifySession(context.Background(), "c1", "cs_1")
	require.NoError(t, err)
	assert.False(t, resp.Success)
}

// ──────────────────────────────────────────────────────────────────────────────
// Création de session et erreurs
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateCheckoutSession_RefuseUnPlanInactif(t *testing.T) {
	plans := &fakePlanRepo{plans: map[string]*entity.SubscriptionPlan{
		"plan1": {ID: "plan1", Name: "Essentiel", BasePrice: decimal.NewFromInt(100), IsActive: false},
	}}
	uc := buildUseCase(&fakeSubRepo{}, &fakePaymentRepo{}, plans, &fakeGateway{})

	_, err := uc.CreateCheckoutSession(context.Background(), "c1", "ACME", dto.CheckoutRequest{PlanID: "plan1"})
	assert.ErrorIs(t, err, domain.ErrPlanInactive)
}

func TestCreateCheckoutSession_TraceUnPaiementPending(t *testing.T) {
	plans := &fakePlanRepo{plans: map[string]*entity.SubscriptionPlan{
		"plan1": {ID: "plan1", Name: "Essentiel", BasePrice: decimal.NewFromInt(100),
			Discount: decimal.NewFromInt(10), TaxRate: decimal.NewFromInt(20), IsActive: true},
	}}
	payments := &fakePaymentRepo{}
	gw := &fakeGateway{session: &ports.CheckoutSession{ID: "cs_new", URL: "https://stripe.test/cs_new"}}
	uc := buildUseCase(&fakeSubRepo{}, payments, plans, gw)

	resp, err := uc.CreateCheckoutSession(context.Background(), "c1", "ACME", dto.CheckoutRequest{PlanID: "plan1"})
	require.NoError(t, err)
	assert.Equal(t, "cs_new", resp.SessionID)

	record := payments.payments["cs_new"]
	require.NotNil(t, record)
	assert.Equal(t, entity.PaymentStatusPending, record.Status)
	// 100 * 0,90 * 1,20 = 108,00 TTC
	assert.True(t, record.Amount.Equal(decimal.NewFromInt(108)), "montant TTC figé: %s", record.Amount)
}

func TestActivate_EchoueSiLeGardeFouEstIndisponible(t *testing.T) {
	subs := &fakeSubRepo{existsErr: errors.New("connexion refusée")}
	gw := &fakeGateway{status: &ports.SessionStatus{ID: "cs_1", Paid: true, CompanyID: "c1", PlanID: "plan1"}}
	uc := buildUseCase(subs, &fakePaymentRepo{}, &fakePlanRepo{}, gw)

	err := uc.HandleWebhook(context.Background(), []byte("{}"), "sig")
	assert.Error(t, err, "le webhook doit échouer pour être relivré par le prestataire")
}
