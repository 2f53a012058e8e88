package in

import (
	"context"

	"paywatch/internal/application/dto"
	apperrors "paywatch/internal/shared_kernel/errors"
)

type CreateOrderUseCase interface {
	Execute(ctx context.Context, command dto.CreateOrderCommand) (dto.CreateOrderOutput, *apperrors.AppError)
}
