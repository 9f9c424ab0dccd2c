package dto

// ErrorResponse corps d'erreur HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse corps de succès simple.
type MessageResponse struct {
	Message string `json:"message"`
}
