package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/conformitia/conformitia-api/internal/application/dto"
	"github.com/conformitia/conformitia-api/internal/application/ports"
	"github.com/conformitia/conformitia-api/internal/application/usecase"
	"github.com/conformitia/conformitia-api/internal/domain"
)

// AIHandler suggestion de tarification assistée, réservée au SuperAdmin.
type AIHandler struct {
	uc *usecase.AIUseCase
}

// NewAIHandler construit le handler IA.
func NewAIHandler(uc *usecase.AIUseCase) *AIHandler {
	return &AIHandler{uc: uc}
}

// SuggestPricing godoc
// @Summary      Suggestion de tarification d'un plan par le modèle NLP
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PricingSuggestionRequest  true  "descriptif du plan"
// @Success      200   {object}  dto.PricingSuggestionDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/subscription-plans/suggest-pricing [post]
func (h *AIHandler) SuggestPricing(c *fiber.Ctx) error {
	var in dto.PricingSuggestionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
	}
	out, err := h.uc.SuggestPlanPricing(c.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "planName obligatoire"})
		}
		if errors.Is(err, ports.ErrNoAPIKey) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "AI_UNAVAILABLE", Message: "le service de suggestion n'est pas configuré"})
		}
		return internalError(c, err)
	}
	return c.JSON(out)
}
