package ports

import (
	"context"

	"github.com/conformitia/conformitia-api/internal/domain/repository"
)

// TxRepos dépôts liés à une même transaction SQL. Seules l'activation
// d'abonnement et la clôture du paiement écrivent en transaction.
type TxRepos struct {
	Subscriptions repository.SubscriptionRepository
	Payments      repository.PaymentRepository
}

// TxRunner exécute fn dans une transaction : commit si fn retourne nil,
// rollback sinon.
type TxRunner interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error
}
