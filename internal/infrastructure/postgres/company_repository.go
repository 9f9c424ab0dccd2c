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

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

const companyColumns = `id, name, industry, status, is_email_verified, created_at, updated_at`

// CompanyRepo implémentation du port CompanyRepository sur PostgreSQL.
type CompanyRepo struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository construit l'adaptateur de persistance des entreprises.
func NewCompanyRepository(pool *pgxpool.Pool) *CompanyRepo {
	return &CompanyRepo{pool: pool}
}

// Create persiste une nouvelle entreprise.
func (r *CompanyRepo) Create(ctx context.Context, company *entity.Company) error {
	query := `
		INSERT INTO companies (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.pool.Exec(ctx, query,
		company.ID, company.Name, company.Industry, company.Status,
		company.IsEmailVerified, company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCompanyNameTaken
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID retourne une entreprise par ID, (nil, nil) si elle n'existe pas.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	return r.findOne(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
}

// GetByName retourne une entreprise par nom exact.
func (r *CompanyRepo) GetByName(ctx context.Context, name string) (*entity.Company, error) {
	return r.findOne(ctx, `SELECT `+companyColumns+` FROM companies WHERE name = $1`, name)
}

// Update met à jour une entreprise.
func (r *CompanyRepo) Update(ctx context.Context, company *entity.Company) error {
	query := `
		UPDATE companies SET name = $2, industry = $3, status = $4, is_email_verified = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.pool.Exec(ctx, query,
		company.ID, company.Name, company.Industry, company.Status,
		company.IsEmailVerified, company.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	return nil
}

// List liste les entreprises, paginée, des plus récentes aux plus anciennes.
func (r *CompanyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.findAll(ctx, query, limit, offset)
}

// ListByStatus liste les entreprises d'un statut donné.
func (r *CompanyRepo) ListByStatus(ctx context.Context, status string) ([]*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE status = $1 ORDER BY created_at ASC`
	return r.findAll(ctx, query, status)
}

// CountByStatus compte les entreprises d'un statut donné.
func (r *CompanyRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM companies WHERE status = $1`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count companies: %w", err)
	}
	return count, nil
}

// Delete supprime une entreprise. Les utilisateurs, abonnements, paiements et
// notifications liés partent par ON DELETE CASCADE.
func (r *CompanyRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	return nil
}

func (r *CompanyRepo) findOne(ctx context.Context, query string, arg any) (*entity.Company, error) {
	var c entity.Company
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&c.ID, &c.Name, &c.Industry, &c.Status, &c.IsEmailVerified, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

func (r *CompanyRepo) findAll(ctx context.Context, query string, args ...any) ([]*entity.Company, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()
	var list []*entity.Company
	for rows.Next() {
		var c entity.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Industry, &c.Status, &c.IsEmailVerified, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
