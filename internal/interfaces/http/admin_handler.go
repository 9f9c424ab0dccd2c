package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/conformitia/conformitia-api/internal/application/dto"
	"github.com/conformitia/conformitia-api/internal/application/usecase"
	"github.com/conformitia/conformitia-api/internal/domain"
)

// AdminHandler endpoints réservés au SuperAdmin.
type AdminHandler struct {
	uc *usecase.AdminUseCase
}

// NewAdminHandler construit le handler d'administration.
func NewAdminHandler(uc *usecase.AdminUseCase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

// DashboardStats godoc
// @Summary      Statistiques globales de la plateforme
// @Tags         admin
// @Produce      json
// @Success      200  {object}  dto.DashboardStatsResponse
// @Router       /api/admin/dashboard-stats [get]
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	stats, err := h.uc.DashboardStats(c.Context())
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(stats)
}

// PendingCompanies godoc
// @Summary      Entreprises en attente d'approbation
// @Tags         admin
// @Produce      json
// @Success      200  {array}  dto.PendingCompanyResponse
// @Router       /api/admin/pending-companies [get]
func (h *AdminHandler) PendingCompanies(c *fiber.Ctx) error {
	companies, err := h.uc.PendingCompanies(c.Context())
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(companies)
}

// ApproveCompany godoc
// @Summary      Approuver une entreprise Pending
// @Tags         admin
// @Produce      json
// @Param        id  path  string  true  "identifiant entreprise"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/admin/approve-company/{id} [put]
func (h *AdminHandler) ApproveCompany(c *fiber.Ctx) error {
	if err := h.uc.ApproveCompany(c.Context(), c.Params("id")); err != nil {
		return companyActionError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Entreprise approuvée."})
}

// RejectCompany godoc
// @Summary      Rejeter une entreprise Pending
// @Tags         admin
// @Produce      json
// @Param        id  path  string  true  "identifiant entreprise"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/admin/reject-company/{id} [put]
func (h *AdminHandler) RejectCompany(c *fiber.Ctx) error {
	if err := h.uc.RejectCompany(c.Context(), c.Params("id")); err != nil {
		return companyActionError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Entreprise rejetée."})
}

// ListCompanies godoc
// @Summary      Liste paginée des entreprises
// @Tags         admin
// @Produce      json
// @Param        limit   query  int  false  "taille de page (max 100)"
// @Param        offset  query  int  false  "décalage"
// @Success      200  {array}  dto.CompanyResponse
// @Router       /api/admin/companies [get]
func (h *AdminHandler) ListCompanies(c *fiber.Ctx) error {
	companies, err := h.uc.ListCompanies(c.Context(), c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(companies)
}

// DeleteCompany godoc
// @Summary      Supprimer une entreprise et ses données liées
// @Tags         admin
// @Produce      json
// @Param        id  path  string  true  "identifiant entreprise"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/companies/{id} [delete]
func (h *AdminHandler) DeleteCompany(c *fiber.Ctx) error {
	if err := h.uc.DeleteCompany(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrCompanyNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "COMPANY_NOT_FOUND", Message: "entreprise introuvable"})
		}
		return internalError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Entreprise supprimée."})
}

func companyActionError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrCompanyNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "COMPANY_NOT_FOUND", Message: "entreprise introuvable"})
	}
	if errors.Is(err, domain.ErrConflict) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATUS", Message: "l'entreprise n'est pas en attente"})
	}
	return internalError(c, err)
}
