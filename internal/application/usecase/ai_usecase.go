package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/conformitia/conformitia-api/internal/application/dto"
	"github.com/conformitia/conformitia-api/internal/application/ports"
	"github.com/conformitia/conformitia-api/internal/domain"
)

// AIUseCase orchestre la suggestion de tarification assistée par IA.
// Chaque appel au LLM est borné par un timeout de 10 secondes pour que les
// latences externes ne bloquent pas les goroutines du serveur.
type AIUseCase struct {
	llm ports.LLMService
}

// NewAIUseCase construit le cas d'usage en injectant le port LLMService.
func NewAIUseCase(llm ports.LLMService) *AIUseCase {
	return &AIUseCase{llm: llm}
}

// SuggestPlanPricing valide l'entrée puis délègue au service LLM.
func (uc *AIUseCase) SuggestPlanPricing(
	ctx context.Context,
	req dto.PricingSuggestionRequest,
) (*dto.PricingSuggestionDTO, error) {
	if req.PlanName == "" {
		return nil, domain.ErrInvalidInput
	}

	// Timeout de 10 s : les appels aux LLMs peuvent durer plusieurs secondes.
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := uc.llm.SuggestPlanPricing(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("suggestion de tarification IA: %w", err)
	}

	return result, nil
}
