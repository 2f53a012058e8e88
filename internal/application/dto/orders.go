package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateOrderCommand struct {
	Currency         string
	VendorWallet     string
	ExpectedAmount   decimal.Decimal
	ExpiresInSeconds int64
	Now              time.Time
}

type CreateOrderOutput struct {
	OrderID        string    `json:"order_id"`
	PaymentID      string    `json:"payment_id"`
	Currency       string    `json:"currency"`
	Address        string    `json:"address"`
	DisplayAddress string    `json:"display_address"`
	ExpectedAmount string    `json:"expected_amount"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

type GetOrderStatusQuery struct {
	OrderID string
	Now     time.Time
}

type GetOrderStatusOutput struct {
	OrderID               string    `json:"order_id"`
	PaymentID             string    `json:"payment_id"`
	Currency              string    `json:"currency"`
	Address               string    `json:"address"`
	DisplayAddress        string    `json:"display_address"`
	ExpectedAmount        string    `json:"expected_amount"`
	Status                string    `json:"status"`
	Confirmations         int       `json:"confirmations"`
	RequiredConfirmations int       `json:"required_confirmations"`
	MatchedTxHash         string    `json:"matched_tx_hash,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	ExpiresAt             time.Time `json:"expires_at"`
}
