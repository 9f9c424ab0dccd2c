package repository

import (
	"context"

	"github.com/conformitia/conformitia-api/internal/domain/entity"
)

// CompanyRepository définit le port de persistance pour Company (DIP).
// L'implémentation vit dans infrastructure.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	GetByName(ctx context.Context, name string) (*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
	List(ctx context.Context, limit, offset int) ([]*entity.Company, error)
	ListByStatus(ctx context.Context, status string) ([]*entity.Company, error)
	CountByStatus(ctx context.Context, status string) (int, error)
	// Delete supprime l'entreprise et, par cascade, ses lignes dépendantes
	// (utilisateurs, abonnements, paiements, notifications).
	Delete(ctx context.Context, id string) error
}
