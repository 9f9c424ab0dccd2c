package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/conformitia/conformitia-api/internal/application/dto"
	"github.com/conformitia/conformitia-api/internal/application/usecase"
	"github.com/conformitia/conformitia-api/internal/domain"
)

// PlanHandler catalogue des plans. CRUD réservé au SuperAdmin ; la liste des
// plans actifs est accessible aux gestionnaires pour la page de tarification.
type PlanHandler struct {
	uc *usecase.PlanUseCase
}

// NewPlanHandler construit le handler du catalogue.
func NewPlanHandler(uc *usecase.PlanUseCase) *PlanHandler {
	return &PlanHandler{uc: uc}
}

// Create godoc
// @Summary      Créer un plan d'abonnement
// @Tags         plans
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePlanRequest  true  "plan"
// @Success      201   {object}  dto.PlanResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/subscription-plans [post]
func (h *PlanHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePlanRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
	}
	plan, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return planActionError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(plan)
}

// Update godoc
// @Summary      Modifier un plan
// @Tags         plans
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "identifiant plan"
// @Param        body  body  dto.CreatePlanRequest  true  "plan"
// @Success      200   {object}  dto.PlanResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/subscription-plans/{id} [put]
func (h *PlanHandler) Update(c *fiber.Ctx) error {
	var in dto.CreatePlanRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
	}
	plan, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return planActionError(c, err)
	}
	return c.JSON(plan)
}

// GetByID godoc
// @Summary      Détail d'un plan
// @Tags         plans
// @Produce      json
// @Param        id  path  string  true  "identifiant plan"
// @Success      200  {object}  dto.PlanResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/subscription-plans/{id} [get]
func (h *PlanHandler) GetByID(c *fiber.Ctx) error {
	plan, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return planActionError(c, err)
	}
	return c.JSON(plan)
}

// List godoc
// @Summary      Tout le catalogue, plans inactifs compris
// @Tags         plans
// @Produce      json
// @Success      200  {array}  dto.PlanResponse
// @Router       /api/subscription-plans [get]
func (h *PlanHandler) List(c *fiber.Ctx) error {
	plans, err := h.uc.List(c.Context())
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(plans)
}

// ListActive godoc
// @Summary      Plans souscriptibles, pour la page de tarification
// @Tags         plans
// @Produce      json
// @Success      200  {array}  dto.PlanResponse
// @Router       /api/subscription-plans/public [get]
func (h *PlanHandler) ListActive(c *fiber.Ctx) error {
	plans, err := h.uc.ListActive(c.Context())
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(plans)
}

// Delete godoc
// @Summary      Retirer un plan du catalogue
// @Tags         plans
// @Produce      json
// @Param        id  path  string  true  "identifiant plan"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/subscription-plans/{id} [delete]
func (h *PlanHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return planActionError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Plan supprimé."})
}

func planActionError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "PLAN_NOT_FOUND", Message: "plan introuvable"})
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name, userLimit > 0 et basePrice >= 0 sont obligatoires"})
	}
	if errors.Is(err, domain.ErrConflict) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "PLAN_EXISTS", Message: "un plan porte déjà ce nom"})
	}
	return internalError(c, err)
}
