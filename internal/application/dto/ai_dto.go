package dto

// PricingSuggestionRequest entrée de la suggestion de tarification assistée.
type PricingSuggestionRequest struct {
	PlanName    string   `json:"planName"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	UserLimit   int      `json:"userLimit"`
}

// PricingSuggestionDTO sortie structurée du modèle NLP.
type PricingSuggestionDTO struct {
	SuggestedBasePrice float64  `json:"suggestedBasePrice"`
	SuggestedDiscount  float64  `json:"suggestedDiscount"`
	ConfidenceScore    float64  `json:"confidenceScore"`
	Reasoning          string   `json:"reasoning"`
	ComparablePlans    []string `json:"comparablePlans,omitempty"`
}
