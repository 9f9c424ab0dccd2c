package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/conformitia/conformitia-api/internal/application/dto"
	"github.com/conformitia/conformitia-api/internal/application/entitlement"
	"github.com/conformitia/conformitia-api/internal/application/ports"
	"github.com/conformitia/conformitia-api/internal/domain"
	"github.com/conformitia/conformitia-api/internal/domain/entity"
	"github.com/conformitia/conformitia-api/internal/domain/repository"
)

// CompanyUseCase opérations du gestionnaire d'abonnement sur sa propre
// entreprise : tableau de bord et gestion des utilisateurs dans la limite de
// sièges de l'abonnement.
type CompanyUseCase struct {
	companyRepo  repository.CompanyRepository
	userRepo     repository.UserRepository
	entitlements *entitlement.Service
	mailer       ports.Mailer
	baseURL      string
	verifyExpiry time.Duration
}

// NewCompanyUseCase construit le cas d'usage entreprise.
func NewCompanyUseCase(
	companyRepo repository.CompanyRepository,
	userRepo repository.UserRepository,
	entitlements *entitlement.Service,
	mailer ports.Mailer,
	baseURL string,
	verifyExpiry time.Duration,
) *CompanyUseCase {
	return &CompanyUseCase{
		companyRepo:  companyRepo,
		userRepo:     userRepo,
		entitlements: entitlements,
		mailer:       mailer,
		baseURL:      baseURL,
		verifyExpiry: verifyExpiry,
	}
}

// DashboardInfo retourne la fiche de l'entreprise du principal.
func (uc *CompanyUseCase) DashboardInfo(ctx context.Context, companyID string) (*dto.DashboardInfoResponse, error) {
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrCompanyNotFound
	}
	total, err := uc.userRepo.CountActiveByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return &dto.DashboardInfoResponse{
		CompanyName: company.Name,
		Industry:    company.Industry,
		Status:      company.Status,
		TotalUsers:  total,
		CreatedAt:   company.CreatedAt,
	}, nil
}

// ListUsers liste les utilisateurs de l'entreprise du principal.
func (uc *CompanyUseCase) ListUsers(ctx context.Context, companyID string) ([]dto.UserResponse, error) {
	users, err := uc.userRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		result = append(result, toUserResponse(u))
	}
	return result, nil
}

// CreateUser crée un utilisateur Pending dans l'entreprise du gestionnaire.
// Refusé si la limite de sièges de l'abonnement courant est atteinte ou si
// l'entreprise n'a pas d'abonnement actif.
func (uc *CompanyUseCase) CreateUser(ctx context.Context, companyID string, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if in.Role != entity.RoleAuditor && in.Role != entity.RoleUser {
		return nil, domain.ErrInvalidInput
	}
	if !uc.entitlements.CanCreateUser(ctx, companyID) {
		return nil, domain.ErrSeatLimitReached
	}
	if existing, _ := uc.userRepo.GetByEmail(ctx, in.Email); existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	verifyToken := uuid.New().String()
	verifyExpiry := now.Add(uc.verifyExpiry)
	user := &entity.User{
		ID:                           uuid.New().String(),
		CompanyID:                    &companyID,
		Name:                         in.Name,
		Email:                        in.Email,
		Phone:                        in.Phone,
		PasswordHash:                 string(hash),
		Role:                         in.Role,
		Status:                       entity.UserStatusPending,
		EmailVerificationToken:       &verifyToken,
		EmailVerificationTokenExpiry: &verifyExpiry,
		CreatedAt:                    now,
		UpdatedAt:                    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	link := fmt.Sprintf("%s/verify-email?token=%s", uc.baseURL, verifyToken)
	body := fmt.Sprintf(
		"<p>Bonjour %s,</p><p>Un compte vous a été créé. Confirmez votre adresse email pour l'activer :</p><p><a href=%q>%s</a></p>",
		user.Name, link, link,
	)
	if err := uc.mailer.Send(ctx, user.Email, "Activez votre compte", body); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("envoi de l'email d'activation impossible")
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// UpdateUser modifie un utilisateur de l'entreprise du principal. Le rôle ne
// peut être changé que vers Auditor ou User.
func (uc *CompanyUseCase) UpdateUser(ctx context.Context, companyID, userID string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.CompanyID == nil || *user.CompanyID != companyID {
		return nil, domain.ErrUserNotFound
	}
	if user.Role == entity.RoleSubscriptionManager {
		// Le gestionnaire ne se modifie pas via cette route.
		return nil, domain.ErrForbidden
	}
	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Phone != "" {
		user.Phone = in.Phone
	}
	if in.Role != "" {
		if in.Role != entity.RoleAuditor && in.Role != entity.RoleUser {
			return nil, domain.ErrInvalidInput
		}
		user.Role = in.Role
	}
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// DeleteUser supprime un utilisateur de l'entreprise du principal et libère
// son siège. Le gestionnaire lui-même n'est pas supprimable.
func (uc *CompanyUseCase) DeleteUser(ctx context.Context, companyID, userID string) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil || user.CompanyID == nil || *user.CompanyID != companyID {
		return domain.ErrUserNotFound
	}
	if user.Role == entity.RoleSubscriptionManager {
		return domain.ErrForbidden
	}
	return uc.userRepo.Delete(ctx, userID)
}

func toUserResponse(u *entity.User) dto.UserResponse {
	resp := dto.UserResponse{
		UserID:          u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Phone:           u.Phone,
		Role:            u.Role,
		Status:          u.Status,
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
	}
	if u.CompanyID != nil {
		resp.CompanyID = *u.CompanyID
	}
	return resp
}
