package in

import (
	"context"

	"paywatch/internal/application/dto"
	apperrors "paywatch/internal/shared_kernel/errors"
)

type PollPendingOrdersUseCase interface {
	Execute(ctx context.Context, command dto.PollPendingOrdersCommand) (dto.PollPendingOrdersOutput, *apperrors.AppError)
}
