package in

import (
	"context"

	"paywatch/internal/application/dto"
	apperrors "paywatch/internal/shared_kernel/errors"
)

type GetHealthUseCase interface {
	Execute(ctx context.Context, query dto.GetHealthQuery) (dto.GetHealthOutput, *apperrors.AppError)
}
