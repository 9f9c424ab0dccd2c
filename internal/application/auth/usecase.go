package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/conformitia/conformitia-api/internal/application/authz"
	"github.com/conformitia/conformitia-api/internal/application/dto"
	"github.com/conformitia/conformitia-api/internal/application/ports"
	"github.com/conformitia/conformitia-api/internal/domain"
	"github.com/conformitia/conformitia-api/internal/domain/entity"
	"github.com/conformitia/conformitia-api/internal/domain/repository"
	"github.com/conformitia/conformitia-api/pkg/token"
)

// Config paramètres du cas d'usage auth.
type Config struct {
	BaseURL           string // URL du front pour les liens emails
	ResetSecret       string
	ResetExpMinutes   int
	VerifyTokenExpiry time.Duration // validité du jeton de vérification d'email
}

// UseCase cas d'usage d'authentification : inscription d'entreprise,
// connexion par session serveur, vérification d'email et réinitialisation de
// mot de passe. La connexion ne consulte JAMAIS les entitlements : une
// entreprise sans abonnement actif garde l'accès à son compte.
type UseCase struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	sessions    ports.SessionStore
	mailer      ports.Mailer
	cfg         Config
}

// NewUseCase construit le cas d'usage auth.
func NewUseCase(userRepo repository.UserRepository, companyRepo repository.CompanyRepository, sessions ports.SessionStore, mailer ports.Mailer, cfg Config) *UseCase {
	return &UseCase{userRepo: userRepo, companyRepo: companyRepo, sessions: sessions, mailer: mailer, cfg: cfg}
}

// Signup crée l'entreprise (Pending) et son premier gestionnaire
// (SubscriptionManager, Pending) puis envoie le lien de vérification d'email.
// Le compte ne devient Active qu'après vérification ET approbation de
// l'entreprise par un SuperAdmin.
func (uc *UseCase) Signup(ctx context.Context, in dto.SignupRequest) error {
	if existing, _ := uc.companyRepo.GetByName(ctx, in.CompanyName); existing != nil {
		return domain.ErrCompanyNameTaken
	}
	if existing, _ := uc.userRepo.GetByEmail(ctx, in.Email); existing != nil {
		return domain.ErrEmailAlreadyExists
	}

	now := time.Now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      in.CompanyName,
		Industry:  in.Industry,
		Status:    entity.CompanyStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.companyRepo.Create(ctx, company); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	verifyToken := uuid.New().String()
	verifyExpiry := now.Add(uc.cfg.VerifyTokenExpiry)
	manager := &entity.User{
		ID:                           uuid.New().String(),
		CompanyID:                    &company.ID,
		Name:                         in.ManagerName,
		Email:                        in.Email,
		Phone:                        in.Phone,
		PasswordHash:                 string(hash),
		Role:                         entity.RoleSubscriptionManager,
		Status:                       entity.UserStatusPending,
		EmailVerificationToken:       &verifyToken,
		EmailVerificationTokenExpiry: &verifyExpiry,
		CreatedAt:                    now,
		UpdatedAt:                    now,
	}
	if err := uc.userRepo.Create(ctx, manager); err != nil {
		return err
	}

	uc.sendVerificationEmail(ctx, manager, verifyToken)
	return nil
}

// Login vérifie les identifiants, exige un compte Active et ouvre une session
// serveur. Les entitlements ne sont pas consultés ici : une entreprise sans
// abonnement peut toujours se connecter.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, string, error) {
	user, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		// Panne de persistance : fail-closed, traitée comme identifiants invalides.
		log.Warn().Err(err).Msg("login : persistance indisponible")
		return nil, "", domain.ErrInvalidCredentials
	}
	if user == nil {
		return nil, "", domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}
	if user.Status != entity.UserStatusActive {
		return nil, "", domain.ErrAccountNotActive
	}

	data := ports.SessionData{
		UserID: user.ID,
		Role:   user.Role,
		Name:   user.Name,
	}
	if user.CompanyID != nil {
		data.CompanyID = *user.CompanyID
		if company, err := uc.companyRepo.GetByID(ctx, *user.CompanyID); err == nil && company != nil {
			data.CompanyName = company.Name
		}
	}
	sessionID, err := uc.sessions.Create(ctx, data)
	if err != nil {
		return nil, "", fmt.Errorf("créer la session: %w", err)
	}

	return &dto.LoginResponse{
		UserID:      user.ID,
		Name:        user.Name,
		Role:        user.Role,
		CompanyID:   data.CompanyID,
		CompanyName: data.CompanyName,
		HomePath:    authz.HomePath(user.Role),
	}, sessionID, nil
}

// Logout détruit la session côté serveur.
func (uc *UseCase) Logout(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	if err := uc.sessions.Delete(ctx, sessionID); err != nil {
		log.Warn().Err(err).Msg("logout : suppression de session impossible")
	}
}

// VerifyEmail consomme le jeton de vérification. Le compte passe Active
// seulement si l'entreprise est déjà approuvée ; sinon il reste Pending et
// sera activé à l'approbation.
func (uc *UseCase) VerifyEmail(ctx context.Context, verifyToken string) error {
	if verifyToken == "" {
		return domain.ErrTokenInvalid
	}
	user, err := uc.userRepo.GetByVerificationToken(ctx, verifyToken)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrTokenInvalid
	}
	if user.EmailVerificationTokenExpiry != nil && user.EmailVerificationTokenExpiry.Before(time.Now()) {
		return domain.ErrTokenExpired
	}

	user.IsEmailVerified = true
	user.EmailVerificationToken = nil
	user.EmailVerificationTokenExpiry = nil
	if uc.companyApproved(ctx, user) {
		user.Status = entity.UserStatusActive
	}
	user.UpdatedAt = time.Now()
	return uc.userRepo.Update(ctx, user)
}

// RequestPasswordReset envoie un lien de réinitialisation si l'email existe.
// Répond toujours sans erreur côté appelant pour ne pas révéler l'existence
// d'un compte.
func (uc *UseCase) RequestPasswordReset(ctx context.Context, email string) {
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil || user == nil {
		return
	}
	resetToken, err := token.GenerateReset(uc.cfg.ResetSecret, user.ID, user.Email, uc.cfg.ResetExpMinutes)
	if err != nil {
		log.Error().Err(err).Msg("génération du jeton de réinitialisation")
		return
	}
	link := fmt.Sprintf("%s/reset-password?token=%s", uc.cfg.BaseURL, resetToken)
	body := fmt.Sprintf(
		"<p>Bonjour %s,</p><p>Pour réinitialiser votre mot de passe, suivez ce lien (valable %d minutes) :</p><p><a href=%q>%s</a></p>",
		user.Name, uc.cfg.ResetExpMinutes, link, link,
	)
	if err := uc.mailer.Send(ctx, user.Email, "Réinitialisation de votre mot de passe", body); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("envoi de l'email de réinitialisation")
	}
}

// ResetPassword valide le jeton signé et remplace le mot de passe.
func (uc *UseCase) ResetPassword(ctx context.Context, in dto.ResetPasswordRequest) error {
	userID, email, err := token.ParseReset(uc.cfg.ResetSecret, in.Token)
	if err != nil {
		return domain.ErrTokenInvalid
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil || user.Email != email {
		return domain.ErrTokenInvalid
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now()
	return uc.userRepo.Update(ctx, user)
}

func (uc *UseCase) companyApproved(ctx context.Context, user *entity.User) bool {
	if user.CompanyID == nil {
		return true // SuperAdmin, pas d'entreprise à approuver
	}
	company, err := uc.companyRepo.GetByID(ctx, *user.CompanyID)
	return err == nil && company != nil && company.IsApproved()
}

func (uc *UseCase) sendVerificationEmail(ctx context.Context, user *entity.User, verifyToken string) {
	link := fmt.Sprintf("%s/verify-email?token=%s", uc.cfg.BaseURL, verifyToken)
	body := fmt.Sprintf(
		"<p>Bonjour %s,</p><p>Confirmez votre adresse email pour activer votre compte :</p><p><a href=%q>%s</a></p>",
		user.Name, link, link,
	)
	// L'échec d'envoi ne bloque pas l'inscription : le gestionnaire pourra
	// redemander un email depuis l'interface.
	if err := uc.mailer.Send(ctx, user.Email, "Vérifiez votre adresse email", body); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("envoi de l'email de vérification")
	}
}
