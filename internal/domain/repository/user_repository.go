package repository

import (
	"context"

	"github.com/conformitia/conformitia-api/internal/domain/entity"
)

// UserRepository définit le port de persistance pour User (DIP).
// Les implémentations retournent (nil, nil) quand la ligne n'existe pas.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	ListByCompany(ctx context.Context, companyID string) ([]*entity.User, error)
	// CountActiveByCompany compte uniquement les utilisateurs Active : les
	// comptes Pending ne consomment pas de siège tant qu'ils ne sont pas vérifiés.
	CountActiveByCompany(ctx context.Context, companyID string) (int, error)
	CountAll(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error
}
