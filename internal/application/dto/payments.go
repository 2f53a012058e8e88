package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentAddress struct {
	Address   string
	PaymentID string
}

// PaymentCheckQuery identifies one expected inbound payment. A zero
// ExpectedAmount or empty Address makes the check answer false without a
// search; a zero CreatedAt falls back to the value cached for the payment id.
type PaymentCheckQuery struct {
	PaymentID      string
	ExpectedAmount decimal.Decimal
	Address        string
	CreatedAt      time.Time
}
