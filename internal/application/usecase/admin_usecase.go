package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/conformitia/conformitia-api/internal/application/dto"
	"github.com/conformitia/conformitia-api/internal/application/ports"
	"github.com/conformitia/conformitia-api/internal/domain"
	"github.com/conformitia/conformitia-api/internal/domain/entity"
	"github.com/conformitia/conformitia-api/internal/domain/repository"
)

// AdminUseCase opérations réservées au SuperAdmin : supervision des
// entreprises et statistiques globales de la plateforme.
type AdminUseCase struct {
	companyRepo      repository.CompanyRepository
	userRepo         repository.UserRepository
	subscriptionRepo repository.SubscriptionRepository
	notificationRepo repository.NotificationRepository
	mailer           ports.Mailer
}

// NewAdminUseCase construit le cas d'usage d'administration.
func NewAdminUseCase(
	companyRepo repository.CompanyRepository,
	userRepo repository.UserRepository,
	subscriptionRepo repository.SubscriptionRepository,
	notificationRepo repository.NotificationRepository,
	mailer ports.Mailer,
) *AdminUseCase {
	return &AdminUseCase{
		companyRepo:      companyRepo,
		userRepo:         userRepo,
		subscriptionRepo: subscriptionRepo,
		notificationRepo: notificationRepo,
		mailer:           mailer,
	}
}

// DashboardStats agrège les compteurs du tableau de bord SuperAdmin.
func (uc *AdminUseCase) DashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	totalUsers, err := uc.userRepo.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("compter les utilisateurs: %w", err)
	}
	pending, err := uc.companyRepo.CountByStatus(ctx, entity.CompanyStatusPending)
	if err != nil {
		return nil, fmt.Errorf("compter les entreprises en attente: %w", err)
	}
	approved, err := uc.companyRepo.CountByStatus(ctx, entity.CompanyStatusApproved)
	if err != nil {
		return nil, fmt.Errorf("compter les entreprises approuvées: %w", err)
	}
	rejected, err := uc.companyRepo.CountByStatus(ctx, entity.CompanyStatusRejected)
	if err != nil {
		return nil, fmt.Errorf("compter les entreprises refusées: %w", err)
	}
	activeSubs, err := uc.subscriptionRepo.ListAllActiveByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("lister les abonnements actifs: %w", err)
	}
	// Le statut stocké peut être périmé : on ne compte que les abonnements
	// réellement en cours.
	now := time.Now()
	activeCount := 0
	for _, s := range activeSubs {
		if s.IsCurrentlyActive(now) {
			activeCount++
		}
	}
	return &dto.DashboardStatsResponse{
		TotalCompanies:      pending + approved + rejected,
		TotalUsers:          totalUsers,
		PendingRequests:     pending,
		ActiveSubscriptions: activeCount,
	}, nil
}

// PendingCompanies liste les entreprises en attente d'approbation, avec les
// coordonnées de leur gestionnaire.
func (uc *AdminUseCase) PendingCompanies(ctx context.Context) ([]dto.PendingCompanyResponse, error) {
	companies, err := uc.companyRepo.ListByStatus(ctx, entity.CompanyStatusPending)
	if err != nil {
		return nil, err
	}
	result := make([]dto.PendingCompanyResponse, 0, len(companies))
	for _, c := range companies {
		item := dto.PendingCompanyResponse{
			CompanyID:   c.ID,
			CompanyName: c.Name,
			Industry:    c.Industry,
			CreatedAt:   c.CreatedAt,
		}
		if manager := uc.findManager(ctx, c.ID); manager != nil {
			item.ManagerName = manager.Name
			item.Email = manager.Email
			item.Phone = manager.Phone
		}
		result = append(result, item)
	}
	return result, nil
}

// ApproveCompany approuve une entreprise Pending, active ses gestionnaires
// dont l'email est vérifié et les notifie.
func (uc *AdminUseCase) ApproveCompany(ctx context.Context, companyID string) error {
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return err
	}
	if company == nil {
		return domain.ErrCompanyNotFound
	}
	if company.Status != entity.CompanyStatusPending {
		return domain.ErrConflict
	}
	company.Status = entity.CompanyStatusApproved
	company.UpdatedAt = time.Now()
	if err := uc.companyRepo.Update(ctx, company); err != nil {
		return err
	}

	users, err := uc.userRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.Status == entity.UserStatusPending && u.IsEmailVerified {
			u.Status = entity.UserStatusActive
			u.UpdatedAt = time.Now()
			if err := uc.userRepo.Update(ctx, u); err != nil {
				return err
			}
		}
		if u.Role == entity.RoleSubscriptionManager {
			uc.notify(ctx, u.ID, "Entreprise approuvée",
				fmt.Sprintf("Votre entreprise %s a été approuvée. Vous pouvez maintenant souscrire un abonnement.", company.Name))
			uc.sendMail(ctx, u.Email, "Votre entreprise a été approuvée",
				fmt.Sprintf("<p>Bonjour %s,</p><p>Votre entreprise <strong>%s</strong> a été approuvée.</p>", u.Name, company.Name))
		}
	}
	return nil
}

// RejectCompany rejette une entreprise Pending et prévient son gestionnaire.
func (uc *AdminUseCase) RejectCompany(ctx context.Context, companyID string) error {
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return err
	}
	if company == nil {
		return domain.ErrCompanyNotFound
	}
	if company.Status != entity.CompanyStatusPending {
		return domain.ErrConflict
	}
	company.Status = entity.CompanyStatusRejected
	company.UpdatedAt = time.Now()
	if err := uc.companyRepo.Update(ctx, company); err != nil {
		return err
	}
	if manager := uc.findManager(ctx, companyID); manager != nil {
		uc.sendMail(ctx, manager.Email, "Votre demande d'inscription a été refusée",
			fmt.Sprintf("<p>Bonjour %s,</p><p>La demande d'inscription de <strong>%s</strong> a été refusée.</p>", manager.Name, company.Name))
	}
	return nil
}

// ListCompanies liste paginée de toutes les entreprises.
func (uc *AdminUseCase) ListCompanies(ctx context.Context, limit, offset int) ([]dto.CompanyResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	companies, err := uc.companyRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CompanyResponse, 0, len(companies))
	for _, c := range companies {
		result = append(result, dto.CompanyResponse{
			CompanyID: c.ID,
			Name:      c.Name,
			Industry:  c.Industry,
			Status:    c.Status,
			CreatedAt: c.CreatedAt,
		})
	}
	return result, nil
}

// DeleteCompany supprime une entreprise et, en cascade, ses utilisateurs,
// abonnements et paiements.
func (uc *AdminUseCase) DeleteCompany(ctx context.Context, companyID string) error {
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return err
	}
	if company == nil {
		return domain.ErrCompanyNotFound
	}
	return uc.companyRepo.Delete(ctx, companyID)
}

func (uc *AdminUseCase) findManager(ctx context.Context, companyID string) *entity.User {
	users, err := uc.userRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil
	}
	for _, u := range users {
		if u.Role == entity.RoleSubscriptionManager {
			return u
		}
	}
	return nil
}

func (uc *AdminUseCase) notify(ctx context.Context, userID, title, message string) {
	n := &entity.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now(),
	}
	if err := uc.notificationRepo.Create(ctx, n); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("création de notification impossible")
	}
}

func (uc *AdminUseCase) sendMail(ctx context.Context, to, subject, body string) {
	if err := uc.mailer.Send(ctx, to, subject, body); err != nil {
		log.Warn().Err(err).Str("to", to).Msg("envoi d'email impossible")
	}
}
