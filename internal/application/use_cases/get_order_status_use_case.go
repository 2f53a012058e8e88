package use_cases

import (
	"context"

	"paywatch/internal/application/dto"
	portsin "paywatch/internal/application/ports/in"
	portsout "paywatch/internal/application/ports/out"
	"paywatch/internal/application/services"
	"paywatch/internal/domain/entities"
	valueobjects "paywatch/internal/domain/value_objects"
	apperrors "paywatch/internal/shared_kernel/errors"
)

type getOrderStatusUseCase struct {
	registry   *services.Registry
	repository portsout.OrderRepository
	clock      Clock
}

func NewGetOrderStatusUseCase(
	registry *services.Registry,
	repository portsout.OrderRepository,
	clock Clock,
) portsin.GetOrderStatusUseCase {
	return &getOrderStatusUseCase{registry: registry, repository: repository, clock: clock}
}

// Execute settles the order on read: a pending order is checked against the
// chain and transitions to paid or expired before the status is reported.
func (u *getOrderStatusUseCase) Execute(
	ctx context.Context,
	query dto.GetOrderStatusQuery,
) (dto.GetOrderStatusOutput, *apperrors.AppError) {
	if u.registry == nil {
		return dto.GetOrderStatusOutput{}, apperrors.NewInternal(
			"payment_service_registry_missing",
			"payment service registry is required",
			nil,
		)
	}
	if u.repository == nil {
		return dto.GetOrderStatusOutput{}, apperrors.NewInternal(
			"order_repository_missing",
			"order repository is required",
			nil,
		)
	}
	if query.OrderID == "" {
		return dto.GetOrderStatusOutput{}, apperrors.NewValidation(
			"order_id_invalid",
			"order id is required",
			nil,
		)
	}

	order, appErr := u.repository.FindByID(ctx, query.OrderID)
	if appErr != nil {
		return dto.GetOrderStatusOutput{}, appErr
	}

	if order.Status == entities.OrderStatusPending {
		now := query.Now.UTC()
		if query.Now.IsZero() {
			now = u.clock.NowUTC()
		}

		service, resolveErr := u.registry.Resolve(string(order.Currency))
		if resolveErr != nil {
			return dto.GetOrderStatusOutput{}, resolveErr
		}

		paid, checkErr := service.CheckPaid(ctx, dto.PaymentCheckQuery{
			PaymentID:      order.PaymentID,
			ExpectedAmount: order.ExpectedAmount,
			Address:        order.Address,
			CreatedAt:      order.CreatedAt,
		})
		if checkErr != nil {
			return dto.GetOrderStatusOutput{}, checkErr
		}

		switch {
		case paid:
			confirmations := service.Confirmations(ctx, order.PaymentID)
			txHash, _ := service.MatchedTxHash(order.PaymentID)
			if markErr := u.repository.MarkPaid(ctx, order.ID, txHash, confirmations, now); markErr != nil {
				return dto.GetOrderStatusOutput{}, markErr
			}
			order.Status = entities.OrderStatusPaid
			order.Confirmations = confirmations
			order.MatchedTxHash = txHash
		case !order.ExpiresAt.After(now):
			if markErr := u.repository.MarkExpired(ctx, order.ID, now); markErr != nil {
				return dto.GetOrderStatusOutput{}, markErr
			}
			order.Status = entities.OrderStatusExpired
		default:
			confirmations := service.Confirmations(ctx, order.PaymentID)
			if txHash, matched := service.MatchedTxHash(order.PaymentID); matched {
				order.MatchedTxHash = txHash
			}
			if confirmations != order.Confirmations {
				if updateErr := u.repository.UpdateConfirmations(ctx, order.ID, confirmations); updateErr != nil {
					return dto.GetOrderStatusOutput{}, updateErr
				}
				order.Confirmations = confirmations
			}
		}
	}

	displayAddress, appErr := valueobjects.FormatAddressForResponse(order.Currency, order.Address)
	if appErr != nil {
		return dto.GetOrderStatusOutput{}, appErr
	}

	return dto.GetOrderStatusOutput{
		OrderID:               order.ID,
		PaymentID:             order.PaymentID,
		Currency:              string(order.Currency),
		Address:               order.Address,
		DisplayAddress:        displayAddress,
		ExpectedAmount:        order.ExpectedAmount.String(),
		Status:                string(order.Status),
		Confirmations:         order.Confirmations,
		RequiredConfirmations: u.registry.ConfirmationThreshold(string(order.Currency)),
		MatchedTxHash:         order.MatchedTxHash,
		CreatedAt:             order.CreatedAt,
		ExpiresAt:             order.ExpiresAt,
	}, nil
}
