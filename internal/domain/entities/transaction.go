package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the provider-independent view of a chain transaction.
// Amount is in the receiving currency's native unit (BTC, ETH, XMR),
// already converted from the chain's smallest unit.
type Transaction struct {
	Hash          string
	Timestamp     time.Time
	Amount        decimal.Decimal
	Confirmations int
	ToAddress     string
}
