package controllers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"paywatch/internal/application/dto"
	portsin "paywatch/internal/application/ports/in"
	apperrors "paywatch/internal/shared_kernel/errors"

	"github.com/shopspring/decimal"
)

type OrdersController struct {
	createUseCase portsin.CreateOrderUseCase
	statusUseCase portsin.GetOrderStatusUseCase
	logger        *log.Logger
}

type createOrderPayload struct {
	Currency         string `json:"currency"`
	VendorWallet     string `json:"vendor_wallet,omitempty"`
	ExpectedAmount   string `json:"expected_amount"`
	ExpiresInSeconds *int64 `json:"expires_in_seconds,omitempty"`
}

func NewOrdersController(
	createUseCase portsin.CreateOrderUseCase,
	statusUseCase portsin.GetOrderStatusUseCase,
	logger *log.Logger,
) *OrdersController {
	return &OrdersController{
		createUseCase: createUseCase,
		statusUseCase: statusUseCase,
		logger:        logger,
	}
}

func (c *OrdersController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	payload, expectedAmount, appErr := parseCreateOrderPayload(r.Body)
	if appErr != nil {
		writeAppError(w, appErr)
		return
	}

	command := dto.CreateOrderCommand{
		Currency:       payload.Currency,
		VendorWallet:   payload.VendorWallet,
		ExpectedAmount: expectedAmount,
	}
	if payload.ExpiresInSeconds != nil {
		command.ExpiresInSeconds = *payload.ExpiresInSeconds
	}

	output, appErr := c.createUseCase.Execute(r.Context(), command)
	if appErr != nil {
		c.logger.Printf("request error path=/v1/orders method=%s code=%s message=%s", r.Method, appErr.Code, appErr.Message)
		writeAppError(w, appErr)
		return
	}

	w.Header().Set("Location", "/v1/orders/"+output.OrderID)
	writeJSON(w, http.StatusCreated, output)
}

func (c *OrdersController) GetOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	output, appErr := c.statusUseCase.Execute(r.Context(), dto.GetOrderStatusQuery{OrderID: id})
	if appErr != nil {
		c.logger.Printf("request error path=/v1/orders/{id} method=%s code=%s message=%s", r.Method, appErr.Code, appErr.Message)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

func parseCreateOrderPayload(body io.Reader) (createOrderPayload, decimal.Decimal, *apperrors.AppError) {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()

	payload := createOrderPayload{}
	if err := decoder.Decode(&payload); err != nil {
		return createOrderPayload{}, decimal.Zero, apperrors.NewValidation(
			"invalid_request",
			"request body must be valid JSON",
			map[string]any{"error": err.Error()},
		)
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return createOrderPayload{}, decimal.Zero, apperrors.NewValidation(
			"invalid_request",
			"request body must contain a single JSON object",
			nil,
		)
	}

	payload.Currency = strings.TrimSpace(payload.Currency)
	if payload.Currency == "" {
		return createOrderPayload{}, decimal.Zero, apperrors.NewValidation(
			"invalid_request",
			"currency is required",
			map[string]any{"field": "currency"},
		)
	}

	payload.VendorWallet = strings.TrimSpace(payload.VendorWallet)

	amountRaw := strings.TrimSpace(payload.ExpectedAmount)
	if amountRaw == "" {
		return createOrderPayload{}, decimal.Zero, apperrors.NewValidation(
			"invalid_request",
			"expected_amount is required",
			map[string]any{"field": "expected_amount"},
		)
	}
	expectedAmount, err := decimal.NewFromString(amountRaw)
	if err != nil {
		return createOrderPayload{}, decimal.Zero, apperrors.NewValidation(
			"invalid_request",
			"expected_amount must be a decimal number",
			map[string]any{"field": "expected_amount", "value": amountRaw},
		)
	}

	return payload, expectedAmount, nil
}
