package out

import (
	"context"

	apperrors "paywatch/internal/shared_kernel/errors"

	"github.com/shopspring/decimal"
)

type MoneroWalletGateway interface {
	MakeIntegratedAddress(ctx context.Context, paymentID string) (string, *apperrors.AppError)
	IncomingAmount(ctx context.Context, paymentID string) (decimal.Decimal, *apperrors.AppError)
	Balance(ctx context.Context) (decimal.Decimal, *apperrors.AppError)
}
