package entity

import "time"

// Notification message interne destiné à un utilisateur (validation
// d'entreprise, paiement confirmé, abonnement proche de l'échéance...).
type Notification struct {
	ID        string
	UserID    string
	Title     string
	Message   string
	IsRead    bool
	CreatedAt time.Time
}
