package entities

import (
	"time"

	valueobjects "paywatch/internal/domain/value_objects"
	apperrors "paywatch/internal/shared_kernel/errors"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
	OrderStatusExpired OrderStatus = "expired"
)

type Order struct {
	ID             string
	PaymentID      string
	Currency       valueobjects.Currency
	Address        string
	ExpectedAmount decimal.Decimal
	Status         OrderStatus
	Confirmations  int
	MatchedTxHash  string
	CreatedAt      time.Time
	ExpiresAt      time.Time
}

type NewOrderInput struct {
	ID             string
	PaymentID      string
	Currency       valueobjects.Currency
	Address        string
	ExpectedAmount decimal.Decimal
	CreatedAt      time.Time
	ExpiresAt      time.Time
}

func NewPendingOrder(input NewOrderInput) (Order, *apperrors.AppError) {
	if input.ID == "" {
		return Order{}, apperrors.NewInternal(
			"order_id_missing",
			"order id is required",
			nil,
		)
	}
	if input.PaymentID == "" {
		return Order{}, apperrors.NewInternal(
			"payment_id_missing",
			"payment id is required",
			nil,
		)
	}
	if !input.ExpectedAmount.IsPositive() {
		return Order{}, apperrors.NewValidation(
			"expected_amount_invalid",
			"expected amount must be greater than zero",
			map[string]any{"expected_amount": input.ExpectedAmount.String()},
		)
	}
	if !input.ExpiresAt.After(input.CreatedAt) {
		return Order{}, apperrors.NewValidation(
			"expires_at_invalid",
			"expires_at must be greater than created_at",
			map[string]any{"expires_at": input.ExpiresAt},
		)
	}

	return Order{
		ID:             input.ID,
		PaymentID:      input.PaymentID,
		Currency:       input.Currency,
		Address:        input.Address,
		ExpectedAmount: input.ExpectedAmount,
		Status:         OrderStatusPending,
		CreatedAt:      input.CreatedAt.UTC(),
		ExpiresAt:      input.ExpiresAt.UTC(),
	}, nil
}
