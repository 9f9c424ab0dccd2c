package ports

import "context"

// Mailer port du transport d'emails transactionnels (vérification d'adresse,
// réinitialisation de mot de passe, confirmations). L'implémentation SMTP vit
// dans infrastructure/mail.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
