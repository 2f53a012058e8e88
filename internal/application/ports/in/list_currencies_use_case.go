package in

import (
	"context"

	"paywatch/internal/application/dto"
	apperrors "paywatch/internal/shared_kernel/errors"
)

type ListCurrenciesUseCase interface {
	Execute(ctx context.Context, query dto.ListCurrenciesQuery) (dto.ListCurrenciesOutput, *apperrors.AppError)
}
