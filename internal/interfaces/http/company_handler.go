package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/conformitia/conformitia-api/internal/application/dto"
	"github.com/conformitia/conformitia-api/internal/application/usecase"
	"github.com/conformitia/conformitia-api/internal/domain"
)

// CompanyHandler endpoints du gestionnaire sur sa propre entreprise. Le
// companyID vient toujours du principal, jamais de la requête.
type CompanyHandler struct {
	uc *usecase.CompanyUseCase
}

// NewCompanyHandler construit le handler entreprise.
func NewCompanyHandler(uc *usecase.CompanyUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// DashboardInfo godoc
// @Summary      Fiche de l'entreprise du principal
// @Tags         company
// @Produce      json
// @Success      200  {object}  dto.DashboardInfoResponse
// @Router       /api/company/dashboard-info [get]
func (h *CompanyHandler) DashboardInfo(c *fiber.Ctx) error {
	info, err := h.uc.DashboardInfo(c.Context(), GetPrincipal(c).CompanyID)
	if err != nil {
		if errors.Is(err, domain.ErrCompanyNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "COMPANY_NOT_FOUND", Message: "entreprise introuvable"})
		}
		return internalError(c, err)
	}
	return c.JSON(info)
}

// ListUsers godoc
// @Summary      Utilisateurs de l'entreprise du principal
// @Tags         company
// @Produce      json
// @Success      200  {array}  dto.UserResponse
// @Router       /api/company/users [get]
func (h *CompanyHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.uc.ListUsers(c.Context(), GetPrincipal(c).CompanyID)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(users)
}

// CreateUser godoc
// @Summary      Créer un utilisateur dans la limite de sièges
// @Tags         company
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "utilisateur"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/company/users [post]
func (h *CompanyHandler) CreateUser(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
	}
	if in.Name == "" || in.Email == "" || in.Password == "" || in.Role == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name, email, password et role sont obligatoires"})
	}
	if len(in.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "le mot de passe doit contenir au moins 8 caractères"})
	}
	user, err := h.uc.CreateUser(c.Context(), GetPrincipal(c).CompanyID, in)
	if err != nil {
		if errors.Is(err, domain.ErrSeatLimitReached) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "SEAT_LIMIT_REACHED", Message: "limite d'utilisateurs de l'abonnement atteinte ou aucun abonnement actif"})
		}
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "cet email est déjà enregistré"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rôle invalide : Auditor ou User"})
		}
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// UpdateUser godoc
// @Summary      Modifier un utilisateur de l'entreprise
// @Tags         company
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "identifiant utilisateur"
// @Param        body  body  dto.UpdateUserRequest  true  "champs à modifier"
// @Success      200   {object}  dto.UserResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/company/users/{id} [put]
func (h *CompanyHandler) UpdateUser(c *fiber.Ctx) error {
	var in dto.UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
	}
	user, err := h.uc.UpdateUser(c.Context(), GetPrincipal(c).CompanyID, c.Params("id"), in)
	if err != nil {
		return userActionError(c, err)
	}
	return c.JSON(user)
}

// DeleteUser godoc
// @Summary      Supprimer un utilisateur de l'entreprise
// @Tags         company
// @Produce      json
// @Param        id  path  string  true  "identifiant utilisateur"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/company/users/{id} [delete]
func (h *CompanyHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.uc.DeleteUser(c.Context(), GetPrincipal(c).CompanyID, c.Params("id")); err != nil {
		return userActionError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Utilisateur supprimé."})
}

func userActionError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrUserNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "USER_NOT_FOUND", Message: "utilisateur introuvable dans cette entreprise"})
	}
	if errors.Is(err, domain.ErrForbidden) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "le gestionnaire ne peut pas être modifié via cette route"})
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rôle invalide : Auditor ou User"})
	}
	return internalError(c, err)
}
