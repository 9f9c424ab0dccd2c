// seed initialise les données de base : le compte SuperAdmin de la
// plateforme et le catalogue de plans par défaut.
//
// Usage : go run ./cmd/seed
// Idempotent : un enregistrement déjà présent (même email, même nom de plan)
// est laissé tel quel.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/conformitia/conformitia-api/internal/domain"
	"github.com/conformitia/conformitia-api/internal/domain/entity"
	"github.com/conformitia/conformitia-api/internal/infrastructure/postgres"
	"github.com/conformitia/conformitia-api/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Charger la configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connexion à PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := seedSuperAdmin(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "Seed SuperAdmin: %v\n", err)
		os.Exit(1)
	}
	if err := seedPlans(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "Seed plans: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Seed terminé")
}

func seedSuperAdmin(ctx context.Context, pool *pgxpool.Pool) error {
	userRepo := postgres.NewUserRepository(pool)

	email := os.Getenv("SEED_ADMIN_EMAIL")
	if email == "" {
		email = "admin@conformitia.fr"
	}
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "ChangeMoi123!"
	}

	existing, err := userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		fmt.Printf("SuperAdmin déjà présent (%s)\n", email)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now()
	admin := &entity.User{
		ID:              uuid.NewString(),
		CompanyID:       nil, // le SuperAdmin n'appartient à aucune entreprise
		Name:            "Administrateur plateforme",
		Email:           email,
		PasswordHash:    string(hash),
		Role:            entity.RoleSuperAdmin,
		Status:          entity.UserStatusActive,
		IsEmailVerified: true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return err
	}
	fmt.Printf("SuperAdmin créé (%s)\n", email)
	return nil
}

func seedPlans(ctx context.Context, pool *pgxpool.Pool) error {
	planRepo := postgres.NewPlanRepository(pool)

	plans := []*entity.SubscriptionPlan{
		{
			Name:        "Essentiel",
			Description: "Veille réglementaire et gestion documentaire pour les petites structures.",
			BasePrice:   decimal.NewFromInt(49),
			UserLimit:   5,
			Discount:    decimal.Zero,
			TaxRate:     decimal.NewFromInt(20),
			Features:    `[]`,
			IsActive:    true,
		},
		{
			Name:        "Professionnel",
			Description: "Suivi de conformité complet avec analyses pour les PME.",
			BasePrice:   decimal.NewFromInt(149),
			UserLimit:   20,
			Discount:    decimal.Zero,
			TaxRate:     decimal.NewFromInt(20),
			Features:    `["` + entity.FeatureStatistics + `"]`,
			IsActive:    true,
		},
		{
			Name:        "Entreprise",
			Description: "Toutes les fonctionnalités, textes réglementaires avancés inclus.",
			BasePrice:   decimal.NewFromInt(349),
			UserLimit:   100,
			Discount:    decimal.NewFromInt(10),
			TaxRate:     decimal.NewFromInt(20),
			Features: `["` + entity.FeatureStatistics + `","` +
				entity.FeatureAdvancedTexts + `","` + entity.FeatureManagementRev + `"]`,
			IsActive: true,
		},
	}

	now := time.Now()
	for _, p := range plans {
		p.ID = uuid.NewString()
		p.CreatedAt = now
		p.UpdatedAt = now
		if err := planRepo.Create(ctx, p); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				fmt.Printf("Plan déjà présent : %s\n", p.Name)
				continue
			}
			return err
		}
		fmt.Printf("Plan créé : %s\n", p.Name)
	}
	return nil
}
