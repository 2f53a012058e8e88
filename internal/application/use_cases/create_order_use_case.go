package use_cases

import (
	"context"
	"time"

	"paywatch/internal/application/dto"
	portsin "paywatch/internal/application/ports/in"
	portsout "paywatch/internal/application/ports/out"
	"paywatch/internal/application/services"
	"paywatch/internal/domain/entities"
	valueobjects "paywatch/internal/domain/value_objects"
	apperrors "paywatch/internal/shared_kernel/errors"

	"github.com/google/uuid"
)

// Orders expire together with the payment match window. An order that lived
// longer would keep matching transactions its window already rejects.
const maxOrderLifetime = 24 * time.Hour

type createOrderUseCase struct {
	registry   *services.Registry
	repository portsout.OrderRepository
	clock      Clock
}

func NewCreateOrderUseCase(
	registry *services.Registry,
	repository portsout.OrderRepository,
	clock Clock,
) portsin.CreateOrderUseCase {
	return &createOrderUseCase{registry: registry, repository: repository, clock: clock}
}

func (u *createOrderUseCase) Execute(
	ctx context.Context,
	command dto.CreateOrderCommand,
) (dto.CreateOrderOutput, *apperrors.AppError) {
	if u.registry == nil {
		return dto.CreateOrderOutput{}, apperrors.NewInternal(
			"payment_service_registry_missing",
			"payment service registry is required",
			nil,
		)
	}
	if u.repository == nil {
		return dto.CreateOrderOutput{}, apperrors.NewInternal(
			"order_repository_missing",
			"order repository is required",
			nil,
		)
	}
	if !command.ExpectedAmount.IsPositive() {
		return dto.CreateOrderOutput{}, apperrors.NewValidation(
			"expected_amount_invalid",
			"expected amount must be greater than zero",
			map[string]any{"expected_amount": command.ExpectedAmount.String()},
		)
	}

	currency, appErr := valueobjects.ParseCurrency(command.Currency)
	if appErr != nil {
		return dto.CreateOrderOutput{}, appErr
	}

	lifetime := time.Duration(command.ExpiresInSeconds) * time.Second
	if command.ExpiresInSeconds <= 0 {
		lifetime = maxOrderLifetime
	}
	if lifetime > maxOrderLifetime {
		return dto.CreateOrderOutput{}, apperrors.NewValidation(
			"expires_in_invalid",
			"order lifetime must not exceed the payment match window",
			map[string]any{
				"expires_in_seconds": command.ExpiresInSeconds,
				"max_seconds":        int64(maxOrderLifetime / time.Second),
			},
		)
	}

	service, appErr := u.registry.Resolve(string(currency))
	if appErr != nil {
		return dto.CreateOrderOutput{}, appErr
	}

	paymentAddress, appErr := service.CreateAddress(ctx, command.VendorWallet)
	if appErr != nil {
		return dto.CreateOrderOutput{}, appErr
	}

	now := command.Now.UTC()
	if command.Now.IsZero() {
		now = u.clock.NowUTC()
	}

	order, appErr := entities.NewPendingOrder(entities.NewOrderInput{
		ID:             uuid.NewString(),
		PaymentID:      paymentAddress.PaymentID,
		Currency:       currency,
		Address:        paymentAddress.Address,
		ExpectedAmount: command.ExpectedAmount,
		CreatedAt:      now,
		ExpiresAt:      now.Add(lifetime),
	})
	if appErr != nil {
		return dto.CreateOrderOutput{}, appErr
	}

	if appErr := u.repository.Insert(ctx, order); appErr != nil {
		return dto.CreateOrderOutput{}, appErr
	}

	displayAddress, appErr := valueobjects.FormatAddressForResponse(currency, order.Address)
	if appErr != nil {
		return dto.CreateOrderOutput{}, appErr
	}

	return dto.CreateOrderOutput{
		OrderID:        order.ID,
		PaymentID:      order.PaymentID,
		Currency:       string(order.Currency),
		Address:        order.Address,
		DisplayAddress: displayAddress,
		ExpectedAmount: order.ExpectedAmount.String(),
		Status:         string(order.Status),
		CreatedAt:      order.CreatedAt,
		ExpiresAt:      order.ExpiresAt,
	}, nil
}
