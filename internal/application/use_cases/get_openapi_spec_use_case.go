package use_cases

import (
	"context"

	"paywatch/internal/application/dto"
	portsin "paywatch/internal/application/ports/in"
	portsout "paywatch/internal/application/ports/out"
	apperrors "paywatch/internal/shared_kernel/errors"
)

type getOpenAPISpecUseCase struct {
	readModel portsout.OpenAPISpecReadModel
}

func NewGetOpenAPISpecUseCase(readModel portsout.OpenAPISpecReadModel) portsin.GetOpenAPISpecUseCase {
	return &getOpenAPISpecUseCase{
		readModel: readModel,
	}
}

func (u *getOpenAPISpecUseCase) Execute(ctx context.Context, _ dto.GetOpenAPISpecQuery) (dto.GetOpenAPISpecOutput, *apperrors.AppError) {
	content, contentType, appErr := u.readModel.Read(ctx)
	if appErr != nil {
		return dto.GetOpenAPISpecOutput{}, appErr
	}

	return dto.GetOpenAPISpecOutput{
		Content:     content,
		ContentType: contentType,
	}, nil
}
