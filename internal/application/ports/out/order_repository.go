package out

import (
	"context"
	"time"

	"paywatch/internal/domain/entities"
	apperrors "paywatch/internal/shared_kernel/errors"
)

type OrderRepository interface {
	Insert(ctx context.Context, order entities.Order) *apperrors.AppError
	FindByID(ctx context.Context, orderID string) (entities.Order, *apperrors.AppError)
	ListPending(ctx context.Context, limit int) ([]entities.Order, *apperrors.AppError)
	MarkPaid(ctx context.Context, orderID string, txHash string, confirmations int, paidAt time.Time) *apperrors.AppError
	MarkExpired(ctx context.Context, orderID string, expiredAt time.Time) *apperrors.AppError
	UpdateConfirmations(ctx context.Context, orderID string, confirmations int) *apperrors.AppError
}
