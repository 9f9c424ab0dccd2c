package authz

// Principal identité résolue de l'appelant pour UNE requête. Éphémère :
// recalculé à chaque requête depuis le session store, jamais persisté.
// Les champs reflètent l'état au moment du login (compromis assumé : une
// modification de rôle en base ne prend effet qu'à la prochaine session).
type Principal struct {
	UserID      string
	Role        string
	CompanyID   string // vide pour les SuperAdmin
	Name        string
	CompanyName string
}
