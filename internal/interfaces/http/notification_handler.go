package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/conformitia/conformitia-api/internal/application/dto"
	"github.com/conformitia/conformitia-api/internal/application/usecase"
)

// NotificationHandler notifications internes de l'utilisateur connecté.
type NotificationHandler struct {
	uc *usecase.NotificationUseCase
}

// NewNotificationHandler construit le handler notifications.
func NewNotificationHandler(uc *usecase.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

// List godoc
// @Summary      Notifications récentes de l'utilisateur
// @Tags         notifications
// @Produce      json
// @Param        limit  query  int  false  "nombre maximum (défaut 20)"
// @Success      200  {array}  dto.NotificationResponse
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	notifications, err := h.uc.List(c.Context(), GetPrincipal(c).UserID, c.QueryInt("limit", 20))
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(notifications)
}

// UnreadCount godoc
// @Summary      Nombre de notifications non lues
// @Tags         notifications
// @Produce      json
// @Success      200  {object}  dto.UnreadCountResponse
// @Router       /api/notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	count, err := h.uc.UnreadCount(c.Context(), GetPrincipal(c).UserID)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(count)
}

// MarkRead godoc
// @Summary      Marquer une notification comme lue
// @Tags         notifications
// @Produce      json
// @Param        id  path  string  true  "identifiant notification"
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.uc.MarkRead(c.Context(), c.Params("id"), GetPrincipal(c).UserID); err != nil {
		return internalError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Notification lue."})
}
