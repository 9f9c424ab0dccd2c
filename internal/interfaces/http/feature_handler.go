package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/conformitia/conformitia-api/internal/application/dto"
	"github.com/conformitia/conformitia-api/internal/application/usecase"
	"github.com/conformitia/conformitia-api/internal/domain"
)

// entitlementReader contrat minimal pour exposer les fonctionnalités du
// principal sur son tableau de bord.
type entitlementReader interface {
	FeaturesOf(ctx context.Context, companyID string) []string
}

// FeatureHandler endpoints placés derrière la porte de fonctionnalités :
// statistiques et fonds documentaire réglementaire avancé, plus l'accueil
// utilisateur.
type FeatureHandler struct {
	statsUC      *usecase.StatisticsUseCase
	entitlements entitlementReader
}

// NewFeatureHandler construit le handler des fonctionnalités d'abonnement.
func NewFeatureHandler(statsUC *usecase.StatisticsUseCase, entitlements entitlementReader) *FeatureHandler {
	return &FeatureHandler{statsUC: statsUC, entitlements: entitlements}
}

// StatisticsOverview godoc
// @Summary      Vue analytique de l'entreprise
// @Tags         features
// @Produce      json
// @Success      200  {object}  dto.StatisticsOverviewResponse
// @Router       /api/statistics/overview [get]
func (h *FeatureHandler) StatisticsOverview(c *fiber.Ctx) error {
	overview, err := h.statsUC.Overview(c.Context(), GetPrincipal(c).CompanyID)
	if err != nil {
		if errors.Is(err, domain.ErrCompanyNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "COMPANY_NOT_FOUND", Message: "entreprise introuvable"})
		}
		return internalError(c, err)
	}
	return c.JSON(overview)
}

// UserDashboard godoc
// @Summary      Accueil de l'utilisateur standard
// @Tags         features
// @Produce      json
// @Success      200  {object}  dto.UserDashboardResponse
// @Router       /api/user/dashboard-info [get]
func (h *FeatureHandler) UserDashboard(c *fiber.Ctx) error {
	p := GetPrincipal(c)
	return c.JSON(dto.UserDashboardResponse{
		Name:        p.Name,
		Role:        p.Role,
		CompanyName: p.CompanyName,
		Features:    h.entitlements.FeaturesOf(c.Context(), p.CompanyID),
	})
}

// AdvancedTexts godoc
// @Summary      Fonds documentaire réglementaire avancé
// @Tags         features
// @Produce      json
// @Success      200  {array}  dto.RegulatoryTextResponse
// @Router       /api/texts/advanced [get]
func (h *FeatureHandler) AdvancedTexts(c *fiber.Ctx) error {
	return c.JSON(advancedTexts)
}

// advancedTexts fonds documentaire embarqué. Un vrai connecteur Légifrance
// viendra le remplacer ; le contrat de réponse est déjà le bon.
var advancedTexts = []dto.RegulatoryTextResponse{
	{
		Reference: "Code du travail, art. L4121-1",
		Title:     "Obligation générale de sécurité de l'employeur",
		Domain:    "Santé et sécurité au travail",
		Summary:   "L'employeur prend les mesures nécessaires pour assurer la sécurité et protéger la santé physique et mentale des travailleurs.",
	},
	{
		Reference: "Code de l'environnement, art. L511-1",
		Title:     "Installations classées pour la protection de l'environnement",
		Domain:    "Environnement",
		Summary:   "Régime des installations pouvant présenter des dangers ou inconvénients pour la santé, la sécurité ou l'environnement.",
	},
	{
		Reference: "Règlement (UE) 2016/679 (RGPD)",
		Title:     "Protection des données à caractère personnel",
		Domain:    "Données personnelles",
		Summary:   "Cadre européen applicable au traitement des données personnelles et à la libre circulation de ces données.",
	},
	{
		Reference: "ISO 45001:2018",
		Title:     "Systèmes de management de la santé et de la sécurité au travail",
		Domain:    "Santé et sécurité au travail",
		Summary:   "Exigences et lignes directrices pour un système de management SST, avec amélioration continue et revue de direction.",
	},
	{
		Reference: "ISO 14001:2015",
		Title:     "Systèmes de management environnemental",
		Domain:    "Environnement",
		Summary:   "Exigences pour un système de management environnemental utilisable par tout organisme.",
	},
}
