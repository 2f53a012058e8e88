package out

import (
	"context"
	"time"

	"paywatch/internal/domain/entities"
	apperrors "paywatch/internal/shared_kernel/errors"
)

// ChainClient fetches transaction history for one address from a remote
// indexing service. Implementations rate-limit themselves and fall back to a
// secondary provider before reporting a retryable failure.
type ChainClient interface {
	AddressTransactions(
		ctx context.Context,
		address string,
		since time.Time,
	) ([]entities.Transaction, *apperrors.AppError)

	// TransactionConfirmations refreshes the confirmation count of one
	// already-known transaction without a full history scan. Lookup failures
	// yield 0 rather than an error.
	TransactionConfirmations(ctx context.Context, txHash string) int
}
