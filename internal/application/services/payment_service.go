package services

import (
	"context"
	"strings"

	"paywatch/internal/application/dto"
	apperrors "paywatch/internal/shared_kernel/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentService is the per-currency facade the order lifecycle consumes.
// All implementations must satisfy the same contract:
//   - CreateAddress allocates a receiving address plus a fresh payment id,
//     independent of the address, so multiple orders can reuse one wallet.
//   - CheckPaid reports true only when a matched payment meets the currency's
//     confirmation threshold. Provider outages surface as retryable errors;
//     anything else degrades to "not yet paid".
//   - Confirmations and MatchedTxHash serve only from the confirmation cache
//     seeded by CheckPaid.
//   - Balance reports the custodied wallet balance, zero where no wallet is
//     custodied (BTC, ETH).
type PaymentService interface {
	CreateAddress(ctx context.Context, vendorWallet string) (dto.PaymentAddress, *apperrors.AppError)
	CheckPaid(ctx context.Context, query dto.PaymentCheckQuery) (bool, *apperrors.AppError)
	Confirmations(ctx context.Context, paymentID string) int
	MatchedTxHash(paymentID string) (string, bool)
	Balance(ctx context.Context) decimal.Decimal
}

func newPaymentID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}
