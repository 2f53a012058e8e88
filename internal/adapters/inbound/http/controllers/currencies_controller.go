package controllers

import (
	"log"
	"net/http"

	"paywatch/internal/application/dto"
	portsin "paywatch/internal/application/ports/in"
)

type CurrenciesController struct {
	useCase portsin.ListCurrenciesUseCase
	logger  *log.Logger
}

func NewCurrenciesController(useCase portsin.ListCurrenciesUseCase, logger *log.Logger) *CurrenciesController {
	return &CurrenciesController{useCase: useCase, logger: logger}
}

func (c *CurrenciesController) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	output, appErr := c.useCase.Execute(r.Context(), dto.ListCurrenciesQuery{})
	if appErr != nil {
		c.logger.Printf("request error path=/v1/currencies method=%s code=%s message=%s", r.Method, appErr.Code, appErr.Message)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, output)
}
