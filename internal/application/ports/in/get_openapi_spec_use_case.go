package in

import (
	"context"

	"paywatch/internal/application/dto"
	apperrors "paywatch/internal/shared_kernel/errors"
)

type GetOpenAPISpecUseCase interface {
	Execute(ctx context.Context, query dto.GetOpenAPISpecQuery) (dto.GetOpenAPISpecOutput, *apperrors.AppError)
}
