package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/conformitia/conformitia-api/internal/application/dto"
	"github.com/conformitia/conformitia-api/internal/application/payment"
	"github.com/conformitia/conformitia-api/internal/domain"
)

// PaymentHandler endpoints de paiement et d'abonnement. Le webhook est la
// seule route publique : il est authentifié par la signature Stripe, pas par
// une session.
type PaymentHandler struct {
	uc *payment.UseCase
}

// NewPaymentHandler construit le handler paiements.
func NewPaymentHandler(uc *payment.UseCase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

// CreateCheckout godoc
// @Summary      Créer une session de paiement pour un plan
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutRequest  true  "planId"
// @Success      200   {object}  dto.CheckoutResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/payments/create-checkout-session [post]
func (h *PaymentHandler) CreateCheckout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil || in.PlanID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "planId obligatoire"})
	}
	p := GetPrincipal(c)
	out, err := h.uc.CreateCheckoutSession(c.Context(), p.CompanyID, p.CompanyName, in)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "PLAN_NOT_FOUND", Message: "plan introuvable"})
		}
		if errors.Is(err, domain.ErrPlanInactive) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "PLAN_INACTIVE", Message: "ce plan n'est plus souscriptible"})
		}
		return internalError(c, err)
	}
	return c.JSON(out)
}

// Webhook godoc
// @Summary      Webhook Stripe (signé)
// @Tags         payments
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/payments/webhook [post]
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	// Corps brut obligatoire : la signature couvre les octets exacts.
	if err := h.uc.HandleWebhook(c.Context(), c.Body(), c.Get("Stripe-Signature")); err != nil {
		// Un non-200 déclenche la relivraison par Stripe.
		log.Warn().Err(err).Msg("traitement du webhook échoué")
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "WEBHOOK_FAILED", Message: "événement non traité"})
	}
	return c.JSON(dto.MessageResponse{Message: "ok"})
}

// VerifySession godoc
// @Summary      Vérification manuelle d'une session de paiement
// @Tags         payments
// @Produce      json
// @Param        sessionId  path  string  true  "identifiant de session Stripe"
// @Success      200  {object}  dto.VerifySessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/payments/verify-session/{sessionId} [get]
func (h *PaymentHandler) VerifySession(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "sessionId obligatoire"})
	}
	out, err := h.uc.VerifySession(c.Context(), GetPrincipal(c).CompanyID, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "SESSION_NOT_FOUND", Message: "session de paiement introuvable"})
		}
		if errors.Is(err, domain.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "cette session appartient à une autre entreprise"})
		}
		return internalError(c, err)
	}
	return c.JSON(out)
}

// CompanySubscription godoc
// @Summary      Abonnement courant de l'entreprise du principal
// @Tags         payments
// @Produce      json
// @Success      200  {object}  dto.CompanySubscriptionResponse
// @Router       /api/payments/company-subscription [get]
func (h *PaymentHandler) CompanySubscription(c *fiber.Ctx) error {
	return c.JSON(h.uc.CompanySubscription(c.Context(), GetPrincipal(c).CompanyID))
}
