package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/conformitia/conformitia-api/internal/application/authz"
	"github.com/conformitia/conformitia-api/internal/application/dto"
)

// internalError journalise l'erreur et répond 500 sans fuiter de détail.
func internalError(c *fiber.Ctx, err error) error {
	log.Error().Err(err).Str("path", c.Path()).Msg("erreur interne")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Code:    "INTERNAL",
		Message: "erreur interne, réessayez plus tard",
	})
}

func homePathOf(p *authz.Principal) string {
	if p == nil {
		return authz.PathLogin
	}
	return authz.HomePath(p.Role)
}
