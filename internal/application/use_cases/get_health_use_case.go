package use_cases

import (
	"context"

	"paywatch/internal/application/dto"
	portsin "paywatch/internal/application/ports/in"
	apperrors "paywatch/internal/shared_kernel/errors"
)

type getHealthUseCase struct{}

func NewGetHealthUseCase() portsin.GetHealthUseCase {
	return &getHealthUseCase{}
}

func (u *getHealthUseCase) Execute(_ context.Context, _ dto.GetHealthQuery) (dto.GetHealthOutput, *apperrors.AppError) {
	return dto.GetHealthOutput{
		Status: "healthy",
	}, nil
}
