package use_cases

import (
	"context"

	"paywatch/internal/application/dto"
	portsin "paywatch/internal/application/ports/in"
	"paywatch/internal/application/services"
	apperrors "paywatch/internal/shared_kernel/errors"
)

type listCurrenciesUseCase struct {
	registry *services.Registry
}

func NewListCurrenciesUseCase(registry *services.Registry) portsin.ListCurrenciesUseCase {
	return &listCurrenciesUseCase{registry: registry}
}

func (u *listCurrenciesUseCase) Execute(_ context.Context, _ dto.ListCurrenciesQuery) (dto.ListCurrenciesOutput, *apperrors.AppError) {
	if u.registry == nil {
		return dto.ListCurrenciesOutput{}, apperrors.NewInternal(
			"payment_service_registry_missing",
			"payment service registry is required",
			nil,
		)
	}

	codes := u.registry.SupportedCurrencies()
	currencies := make([]dto.CurrencyOutput, 0, len(codes))
	for _, code := range codes {
		currencies = append(currencies, dto.CurrencyOutput{
			Code:                  code,
			RequiredConfirmations: u.registry.ConfirmationThreshold(code),
		})
	}

	return dto.ListCurrenciesOutput{Currencies: currencies}, nil
}
