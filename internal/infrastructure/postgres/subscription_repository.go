package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/conformitia/conformitia-api/internal/domain/entity"
	"github.com/conformitia/conformitia-api/internal/domain/repository"
)

var _ repository.SubscriptionRepository = (*SubscriptionRepo)(nil)

const subscriptionColumns = `id, company_id, plan_id, status, start_date, end_date, created_at, canceled_at`

// SubscriptionRepo implémentation du port SubscriptionRepository sur
// PostgreSQL, utilisable avec un pool ou une transaction (Querier).
type SubscriptionRepo struct {
	q Querier
}

// NewSubscriptionRepository construit l'adaptateur. Passer un pool ou une tx.
func NewSubscriptionRepository(q Querier) *SubscriptionRepo {
	return &SubscriptionRepo{q: q}
}

// Create persiste un nouvel abonnement.
func (r *SubscriptionRepo) Create(ctx context.Context, sub *entity.CompanySubscription) error {
	query := `
		INSERT INTO company_subscriptions (` + subscriptionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		sub.ID, sub.CompanyID, sub.PlanID, sub.Status,
		sub.StartDate, sub.EndDate, sub.CreatedAt, sub.CanceledAt,
	)
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

// ListByCompany retourne les abonnements d'une entreprise, du plus récemment
// créé au plus ancien.
func (r *SubscriptionRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.CompanySubscription, error) {
	query := `SELECT ` + subscriptionColumns + `
		FROM company_subscriptions WHERE company_id = $1 ORDER BY created_at DESC`
	return r.findAll(ctx, query, companyID)
}

// ListActiveByStatus retourne les abonnements dont le statut stocké est
// "active", sans regarder EndDate.
func (r *SubscriptionRepo) ListActiveByStatus(ctx context.Context, companyID string) ([]*entity.CompanySubscription, error) {
	query := `SELECT ` + subscriptionColumns + `
		FROM company_subscriptions WHERE company_id = $1 AND status = $2 ORDER BY created_at DESC`
	return r.findAll(ctx, query, companyID, entity.SubscriptionStatusActive)
}

// ListAllActiveByStatus retourne tous les abonnements stockés "active" de la
// plateforme.
func (r *SubscriptionRepo) ListAllActiveByStatus(ctx context.Context) ([]*entity.CompanySubscription, error) {
	query := `SELECT ` + subscriptionColumns + `
		FROM company_subscriptions WHERE status = $1`
	return r.findAll(ctx, query, entity.SubscriptionStatusActive)
}

// ExistsActiveCreatedSince garde-fou d'idempotence du traitement de paiement.
func (r *SubscriptionRepo) ExistsActiveCreatedSince(ctx context.Context, companyID string, since time.Time) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM company_subscriptions
			WHERE company_id = $1 AND status = $2 AND created_at > $3
		)`, companyID, entity.SubscriptionStatusActive, since).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check recent subscription: %w", err)
	}
	return exists, nil
}

// Cancel bascule un abonnement en "canceled" avec son horodatage.
func (r *SubscriptionRepo) Cancel(ctx context.Context, id string, canceledAt time.Time) error {
	_, err := r.q.Exec(ctx, `
		UPDATE company_subscriptions SET status = $2, canceled_at = $3 WHERE id = $1`,
		id, entity.SubscriptionStatusCanceled, canceledAt,
	)
	if err != nil {
		return fmt.Errorf("cancel subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepo) findAll(ctx context.Context, query string, args ...any) ([]*entity.CompanySubscription, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()
	var list []*entity.CompanySubscription
	for rows.Next() {
		var s entity.CompanySubscription
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.PlanID, &s.Status,
			&s.StartDate, &s.EndDate, &s.CreatedAt, &s.CanceledAt); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
