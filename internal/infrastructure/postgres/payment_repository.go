package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/conformitia/conformitia-api/internal/domain/entity"
	"github.com/conformitia/conformitia-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

const paymentColumns = `id, company_id, plan_id, stripe_session_id, stripe_payment_intent_id,
		amount, status, description, expires_at, paid_at, created_at`

// PaymentRepo implémentation du port PaymentRepository sur PostgreSQL,
// utilisable avec un pool ou une transaction (Querier).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construit l'adaptateur. Passer un pool ou une tx.
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// Create trace une session de paiement.
func (r *PaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		payment.ID, payment.CompanyID, payment.PlanID, payment.StripeSessionID,
		payment.StripePaymentIntentID, payment.Amount, payment.Status,
		payment.Description, payment.ExpiresAt, payment.PaidAt, payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByStripeSessionID retourne le paiement lié à une session Stripe,
// (nil, nil) s'il n'existe pas.
func (r *PaymentRepo) GetByStripeSessionID(ctx context.Context, sessionID string) (*entity.Payment, error) {
	var p entity.Payment
	err := r.q.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE stripe_session_id = $1`, sessionID,
	).Scan(
		&p.ID, &p.CompanyID, &p.PlanID, &p.StripeSessionID, &p.StripePaymentIntentID,
		&p.Amount, &p.Status, &p.Description, &p.ExpiresAt, &p.PaidAt, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return &p, nil
}

// Update met à jour un paiement (clôture webhook).
func (r *PaymentRepo) Update(ctx context.Context, payment *entity.Payment) error {
	query := `
		UPDATE payments SET stripe_payment_intent_id = $2, status = $3, paid_at = $4 WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		payment.ID, payment.StripePaymentIntentID, payment.Status, payment.PaidAt,
	)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	return nil
}

// ListByCompany retourne l'historique des paiements d'une entreprise.
func (r *PaymentRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE company_id = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Payment
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.PlanID, &p.StripeSessionID, &p.StripePaymentIntentID,
			&p.Amount, &p.Status, &p.Description, &p.ExpiresAt, &p.PaidAt, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
