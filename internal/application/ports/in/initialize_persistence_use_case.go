package in

import (
	"context"

	"paywatch/internal/application/dto"
	apperrors "paywatch/internal/shared_kernel/errors"
)

type InitializePersistenceUseCase interface {
	Execute(ctx context.Context, command dto.InitializePersistenceCommand) *apperrors.AppError
}
