package dto

import "time"

// NotificationResponse notification interne d'un utilisateur.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// UnreadCountResponse nombre de notifications non lues.
type UnreadCountResponse struct {
	Count int `json:"count"`
}
