package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/conformitia/conformitia-api/internal/domain"
	"github.com/conformitia/conformitia-api/internal/domain/entity"
	"github.com/conformitia/conformitia-api/internal/domain/repository"
)

var _ repository.PlanRepository = (*PlanRepo)(nil)

const planColumns = `id, name, description, base_price, user_limit, discount, tax_rate,
		features, is_active, created_at, updated_at`

// PlanRepo implémentation du port PlanRepository sur PostgreSQL. Le champ
// features est stocké tel quel (texte JSON) : le décodage défensif vit dans
// l'entité, pas ici.
type PlanRepo struct {
	pool *pgxpool.Pool
}

// NewPlanRepository construit l'adaptateur de persistance du catalogue.
func NewPlanRepository(pool *pgxpool.Pool) *PlanRepo {
	return &PlanRepo{pool: pool}
}

// Create persiste un nouveau plan.
func (r *PlanRepo) Create(ctx context.Context, plan *entity.SubscriptionPlan) error {
	query := `
		INSERT INTO subscription_plans (` + planColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.pool.Exec(ctx, query,
		plan.ID, plan.Name, plan.Description, plan.BasePrice, plan.UserLimit,
		plan.Discount, plan.TaxRate, plan.Features, plan.IsActive,
		plan.CreatedAt, plan.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert plan: %w", err)
	}
	return nil
}

// GetByID retourne un plan par ID, (nil, nil) s'il n'existe pas.
func (r *PlanRepo) GetByID(ctx context.Context, id string) (*entity.SubscriptionPlan, error) {
	var p entity.SubscriptionPlan
	err := r.pool.QueryRow(ctx, `SELECT `+planColumns+` FROM subscription_plans WHERE id = $1`, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.BasePrice, &p.UserLimit,
		&p.Discount, &p.TaxRate, &p.Features, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return &p, nil
}

// Update met à jour un plan.
func (r *PlanRepo) Update(ctx context.Context, plan *entity.SubscriptionPlan) error {
	query := `
		UPDATE subscription_plans SET name = $2, description = $3, base_price = $4, user_limit = $5,
			discount = $6, tax_rate = $7, features = $8, is_active = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.pool.Exec(ctx, query,
		plan.ID, plan.Name, plan.Description, plan.BasePrice, plan.UserLimit,
		plan.Discount, plan.TaxRate, plan.Features, plan.IsActive, plan.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update plan: %w", err)
	}
	return nil
}

// List retourne tout le catalogue.
func (r *PlanRepo) List(ctx context.Context) ([]*entity.SubscriptionPlan, error) {
	return r.findAll(ctx, `SELECT `+planColumns+` FROM subscription_plans ORDER BY base_price ASC`)
}

// ListActive retourne les plans souscriptibles.
func (r *PlanRepo) ListActive(ctx context.Context) ([]*entity.SubscriptionPlan, error) {
	return r.findAll(ctx, `SELECT `+planColumns+` FROM subscription_plans WHERE is_active = TRUE ORDER BY base_price ASC`)
}

// Delete retire un plan du catalogue.
func (r *PlanRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM subscription_plans WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return nil
}

func (r *PlanRepo) findAll(ctx context.Context, query string) ([]*entity.SubscriptionPlan, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()
	var list []*entity.SubscriptionPlan
	for rows.Next() {
		var p entity.SubscriptionPlan
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.BasePrice, &p.UserLimit,
			&p.Discount, &p.TaxRate, &p.Features, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
