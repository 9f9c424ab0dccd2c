package ports

import (
	"context"
	"errors"

	"github.com/conformitia/conformitia-api/internal/application/dto"
)

// ErrNoAPIKey renvoyé quand aucun accès au modèle n'est configuré ; le
// handler le traduit en 503 plutôt qu'en erreur interne.
var ErrNoAPIKey = errors.New("aucune clé API configurée pour le service NLP")

// LLMService port du service NLP de suggestion de tarification. Le modèle
// reçoit le descriptif d'un plan et propose un prix de base et une remise,
// avec un score de confiance.
type LLMService interface {
	SuggestPlanPricing(ctx context.Context, req dto.PricingSuggestionRequest) (*dto.PricingSuggestionDTO, error)
}
