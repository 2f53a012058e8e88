package in

import (
	"context"

	"paywatch/internal/application/dto"
	apperrors "paywatch/internal/shared_kernel/errors"
)

type GetOrderStatusUseCase interface {
	Execute(ctx context.Context, query dto.GetOrderStatusQuery) (dto.GetOrderStatusOutput, *apperrors.AppError)
}
