package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/conformitia/conformitia-api/internal/application/auth"
	"github.com/conformitia/conformitia-api/internal/application/dto"
	"github.com/conformitia/conformitia-api/internal/domain"
)

// AuthHandler gère inscription, connexion par session et gestion du mot de
// passe.
type AuthHandler struct {
	uc         *auth.UseCase
	cookieName string
}

// NewAuthHandler construit le handler auth.
func NewAuthHandler(uc *auth.UseCase, cookieName string) *AuthHandler {
	return &AuthHandler{uc: uc, cookieName: cookieName}
}

// Signup godoc
// @Summary      Inscription d'une entreprise et de son gestionnaire
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SignupRequest  true  "entreprise + gestionnaire"
// @Success      201   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var in dto.SignupRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
	}
	if in.CompanyName == "" || in.ManagerName == "" || in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "companyName, managerName, email et password sont obligatoires"})
	}
	if len(in.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "le mot de passe doit contenir au moins 8 caractères"})
	}
	if err := h.uc.Signup(c.Context(), in); err != nil {
		if errors.Is(err, domain.ErrCompanyNameTaken) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "COMPANY_NAME_TAKEN", Message: "ce nom d'entreprise est déjà utilisé"})
		}
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "cet email est déjà enregistré"})
		}
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{
		Message: "Inscription enregistrée. Vérifiez votre email puis attendez l'approbation de votre entreprise.",
	})
}

// Login godoc
// @Summary      Connexion par session serveur
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
	}
	if in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email et password sont obligatoires"})
	}
	out, sessionID, err := h.uc.Login(c.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_CREDENTIALS", Message: "identifiants invalides"})
		}
		if errors.Is(err, domain.ErrAccountNotActive) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "ACCOUNT_NOT_ACTIVE", Message: "compte en attente de vérification ou d'approbation"})
		}
		return internalError(c, err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    sessionID,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(out)
}

// Logout godoc
// @Summary      Déconnexion : destruction de la session serveur
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.uc.Logout(c.Context(), c.Cookies(h.cookieName))
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(dto.MessageResponse{Message: "Déconnecté."})
}

// VerifyEmail godoc
// @Summary      Vérification de l'adresse email par jeton
// @Tags         auth
// @Produce      json
// @Param        token  query  string  true  "jeton de vérification"
// @Success      200    {object}  dto.MessageResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/auth/verify-email [get]
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	if err := h.uc.VerifyEmail(c.Context(), c.Query("token")); err != nil {
		if errors.Is(err, domain.ErrTokenExpired) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "TOKEN_EXPIRED", Message: "le jeton de vérification a expiré"})
		}
		if errors.Is(err, domain.ErrTokenInvalid) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "TOKEN_INVALID", Message: "jeton de vérification invalide"})
		}
		return internalError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Adresse email vérifiée."})
}

// ForgotPassword godoc
// @Summary      Demande de réinitialisation de mot de passe
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ForgotPasswordRequest  true  "email"
// @Success      200   {object}  dto.MessageResponse
// @Router       /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var in dto.ForgotPasswordRequest
	if err := c.BodyParser(&in); err != nil || in.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email obligatoire"})
	}
	// Réponse identique que le compte existe ou non.
	h.uc.RequestPasswordReset(c.Context(), in.Email)
	return c.JSON(dto.MessageResponse{Message: "Si ce compte existe, un email de réinitialisation a été envoyé."})
}

// ResetPassword godoc
// @Summary      Réinitialisation du mot de passe par jeton signé
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResetPasswordRequest  true  "token, password"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var in dto.ResetPasswordRequest
	if err := c.BodyParser(&in); err != nil || in.Token == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "token et password sont obligatoires"})
	}
	if len(in.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "le mot de passe doit contenir au moins 8 caractères"})
	}
	if err := h.uc.ResetPassword(c.Context(), in); err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "TOKEN_INVALID", Message: "jeton de réinitialisation invalide ou expiré"})
		}
		return internalError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Mot de passe réinitialisé."})
}

// Me godoc
// @Summary      Identité de la session courante
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.LoginResponse
// @Router       /api/auth/verify [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	p := GetPrincipal(c)
	return c.JSON(dto.LoginResponse{
		UserID:      p.UserID,
		Name:        p.Name,
		Role:        p.Role,
		CompanyID:   p.CompanyID,
		CompanyName: p.CompanyName,
		HomePath:    homePathOf(p),
	})
}
