package ports

import "context"

// SessionData l'état serveur d'une session, figé au login. Le résolveur
// d'identité renvoie ces valeurs telles quelles à chaque requête : une
// modification du rôle en base ne se propage qu'à la prochaine connexion
// (compromis documenté : lectures rapides, cohérence à terme).
type SessionData struct {
	UserID      string `json:"user_id"`
	Role        string `json:"role"`
	CompanyID   string `json:"company_id,omitempty"` // vide pour les SuperAdmin
	Name        string `json:"name"`
	CompanyName string `json:"company_name,omitempty"`
}

// SessionStore port du magasin de sessions côté serveur. L'identifiant
// retourné est opaque et porté par un cookie HttpOnly.
type SessionStore interface {
	// Create enregistre la session et retourne son identifiant opaque.
	Create(ctx context.Context, data SessionData) (string, error)
	// Get retourne la session ou (nil, nil) si elle est absente ou évincée
	// par le timeout d'inactivité. Un Get réussi rafraîchit ce timeout.
	Get(ctx context.Context, id string) (*SessionData, error)
	Delete(ctx context.Context, id string) error
}
