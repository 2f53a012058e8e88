package policies

import (
	"time"

	"paywatch/internal/domain/entities"

	"github.com/shopspring/decimal"
)

const matchWindow = 24 * time.Hour

// FindMatchingPayment scans candidates in provider-reported order and returns
// the first transaction inside the [createdAt, createdAt+24h) window whose
// amount is within tolerance of the expected amount. Ties are broken by
// provider order on purpose; candidates are never re-sorted. A nil result is
// the normal "still waiting" outcome, not an error.
func FindMatchingPayment(
	expectedAmount decimal.Decimal,
	tolerance decimal.Decimal,
	createdAt time.Time,
	candidates []entities.Transaction,
) *entities.Transaction {
	windowStart := createdAt
	windowEnd := createdAt.Add(matchWindow)

	for i := range candidates {
		candidate := candidates[i]
		if candidate.Timestamp.Before(windowStart) || !candidate.Timestamp.Before(windowEnd) {
			continue
		}

		diff := candidate.Amount.Sub(expectedAmount).Abs()
		if diff.LessThanOrEqual(tolerance) {
			matched := candidate
			return &matched
		}
	}

	return nil
}
