package use_cases

import (
	"context"

	"paywatch/internal/application/dto"
	portsin "paywatch/internal/application/ports/in"
	portsout "paywatch/internal/application/ports/out"
	"paywatch/internal/application/services"
	apperrors "paywatch/internal/shared_kernel/errors"
)

type pollPendingOrdersUseCase struct {
	registry   *services.Registry
	repository portsout.OrderRepository
	clock      Clock
}

func NewPollPendingOrdersUseCase(
	registry *services.Registry,
	repository portsout.OrderRepository,
	clock Clock,
) portsin.PollPendingOrdersUseCase {
	return &pollPendingOrdersUseCase{registry: registry, repository: repository, clock: clock}
}

// Execute sweeps a batch of pending orders. A provider failure on one order
// counts as an error and the sweep moves on; only repository failures abort,
// since every later order would hit the same store.
func (u *pollPendingOrdersUseCase) Execute(
	ctx context.Context,
	command dto.PollPendingOrdersCommand,
) (dto.PollPendingOrdersOutput, *apperrors.AppError) {
	if u.registry == nil {
		return dto.PollPendingOrdersOutput{}, apperrors.NewInternal(
			"payment_service_registry_missing",
			"payment service registry is required",
			nil,
		)
	}
	if u.repository == nil {
		return dto.PollPendingOrdersOutput{}, apperrors.NewInternal(
			"order_repository_missing",
			"order repository is required",
			nil,
		)
	}
	if command.BatchSize <= 0 {
		return dto.PollPendingOrdersOutput{}, apperrors.NewValidation(
			"poll_batch_size_invalid",
			"poll batch size must be greater than zero",
			map[string]any{"batch_size": command.BatchSize},
		)
	}

	now := command.Now.UTC()
	if command.Now.IsZero() {
		now = u.clock.NowUTC()
	}

	pending, appErr := u.repository.ListPending(ctx, command.BatchSize)
	if appErr != nil {
		return dto.PollPendingOrdersOutput{}, appErr
	}

	output := dto.PollPendingOrdersOutput{Scanned: len(pending)}
	for _, order := range pending {
		service, resolveErr := u.registry.Resolve(string(order.Currency))
		if resolveErr != nil {
			output.Errors++
			continue
		}

		paid, checkErr := service.CheckPaid(ctx, dto.PaymentCheckQuery{
			PaymentID:      order.PaymentID,
			ExpectedAmount: order.ExpectedAmount,
			Address:        order.Address,
			CreatedAt:      order.CreatedAt,
		})
		if checkErr != nil {
			output.Errors++
			continue
		}

		switch {
		case paid:
			confirmations := service.Confirmations(ctx, order.PaymentID)
			txHash, _ := service.MatchedTxHash(order.PaymentID)
			if markErr := u.repository.MarkPaid(ctx, order.ID, txHash, confirmations, now); markErr != nil {
				return output, markErr
			}
			output.Paid++
		case !order.ExpiresAt.After(now):
			if markErr := u.repository.MarkExpired(ctx, order.ID, now); markErr != nil {
				return output, markErr
			}
			output.Expired++
		default:
			confirmations := service.Confirmations(ctx, order.PaymentID)
			if confirmations != order.Confirmations {
				if updateErr := u.repository.UpdateConfirmations(ctx, order.ID, confirmations); updateErr != nil {
					return output, updateErr
				}
			}
			output.Waiting++
		}
	}

	return output, nil
}
