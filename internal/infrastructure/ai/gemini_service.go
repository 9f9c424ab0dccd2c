package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/conformitia/conformitia-api/internal/application/dto"
	"github.com/conformitia/conformitia-api/internal/application/ports"
)

// Vérification à la compilation que GeminiService implémente LLMService.
var _ ports.LLMService = (*GeminiService)(nil)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s"

	// systemPrompt définit le rôle du modèle et le format de sortie.
	// responseMimeType=application/json force Gemini à rendre du JSON pur,
	// sans blocs markdown à nettoyer.
	systemPrompt = `Tu es un expert en tarification de logiciels SaaS B2B de conformité réglementaire (HSE, qualité, audits) sur le marché français et européen.
À partir du nom, de la description, des fonctionnalités et de la limite d'utilisateurs d'un plan d'abonnement, renvoie UNIQUEMENT un objet JSON (sans texte additionnel) avec la structure exacte suivante :
{
  "suggestedBasePrice": <prix mensuel HT en euros, nombre décimal>,
  "suggestedDiscount": <remise recommandée en pourcentage, entre 0 et 100>,
  "confidenceScore": <nombre décimal entre 0.0 et 1.0>,
  "reasoning": "<justification concise en français>",
  "comparablePlans": ["<offre comparable du marché>", ...]
}

Règles :
- suggestedBasePrice : cohérent avec les tarifs SaaS B2B français (entre 20 et 2000 euros par mois selon la cible).
- suggestedDiscount : 0 si aucune remise de lancement n'est pertinente.
- confidenceScore : 0.9-1.0 = certitude haute, 0.7-0.89 = probable, <0.7 = estimation.
- reasoning : 200 caractères maximum, en français.
- comparablePlans : 3 offres au plus, noms seuls.`
)

// GeminiService adaptateur LLMService sur l'API REST de Google Gemini.
// Uniquement net/http de la bibliothèque standard : l'API se réduit à un POST
// JSON, un SDK n'apporterait rien ici.
type GeminiService struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGeminiService construit l'adaptateur. model vaut typiquement
// "gemini-1.5-flash". Avec une clé vide, les appels renvoient ErrNoAPIKey au
// lieu d'échouer en production.
func NewGeminiService(apiKey, model string) *GeminiService {
	return &GeminiService{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: 20 * time.Second, // timeout réseau ; l'appelant pose aussi un WithTimeout
		},
	}
}

// ── Structures internes de l'API Gemini ──────────────────────────────────────

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  genConfig       `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type genConfig struct {
	ResponseMIMEType string  `json:"responseMimeType"`
	Temperature      float32 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ── Implémentation du port ───────────────────────────────────────────────────

// SuggestPlanPricing appelle Gemini avec le descriptif du plan et retourne la
// suggestion de tarification.
func (s *GeminiService) SuggestPlanPricing(
	ctx context.Context,
	req dto.PricingSuggestionRequest,
) (*dto.PricingSuggestionDTO, error) {
	if s.apiKey == "" {
		return nil, ports.ErrNoAPIKey
	}

	userText := fmt.Sprintf(
		"Nom du plan : %s\nDescription : %s\nFonctionnalités : %s\nLimite d'utilisateurs : %d",
		req.PlanName, req.Description, strings.Join(req.Features, ", "), req.UserLimit,
	)

	payload := geminiRequest{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: systemPrompt}},
		},
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: []geminiPart{{Text: userText}},
			},
		},
		GenerationConfig: genConfig{
			ResponseMIMEType: "application/json",
			Temperature:      0.2, // basse température pour des réponses plus déterministes
			MaxOutputTokens:  512,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("AI: sérialiser la requête: %w", err)
	}

	url := fmt.Sprintf(geminiBaseURL, s.model, s.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("AI: créer la requête HTTP: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("AI: timeout ou annulation: %w", ctx.Err())
		}
		return nil, fmt.Errorf("AI: appel HTTP échoué: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, fmt.Errorf("AI: lire la réponse: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp geminiResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return nil, fmt.Errorf("AI: erreur Gemini %d: %s", errResp.Error.Code, errResp.Error.Message)
		}
		return nil, fmt.Errorf("AI: Gemini HTTP %d", resp.StatusCode)
	}

	var gemResp geminiResponse
	if err := json.Unmarshal(rawBody, &gemResp); err != nil {
		return nil, fmt.Errorf("AI: désérialiser la réponse Gemini: %w", err)
	}
	if len(gemResp.Candidates) == 0 || len(gemResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("AI: réponse Gemini vide")
	}

	rawJSON := strings.TrimSpace(gemResp.Candidates[0].Content.Parts[0].Text)

	var suggestion dto.PricingSuggestionDTO
	if err := json.Unmarshal([]byte(rawJSON), &suggestion); err != nil {
		return nil, fmt.Errorf("AI: la réponse du modèle n'est pas du JSON valide: %w (réponse: %s)", err, rawJSON)
	}

	suggestion.SuggestedDiscount = clamp(suggestion.SuggestedDiscount, 0, 100)
	suggestion.ConfidenceScore = clamp(suggestion.ConfidenceScore, 0, 1)
	if suggestion.SuggestedBasePrice < 0 {
		suggestion.SuggestedBasePrice = 0
	}
	return &suggestion, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
