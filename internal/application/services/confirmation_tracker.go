package services

import (
	"context"
	"sync"
	"time"

	"paywatch/internal/domain/entities"

	"github.com/shopspring/decimal"
)

type confirmationSource interface {
	TransactionConfirmations(ctx context.Context, txHash string) int
}

type matchRecord struct {
	address        string
	expectedAmount decimal.Decimal
	createdAt      time.Time
	transaction    *entities.Transaction
}

// confirmationTracker remembers which transaction settled which payment id so
// subsequent checks refresh a single confirmation count instead of re-scanning
// the address history. Entries live for the process lifetime; the registry's
// ClearCache discards them together with the owning service.
type confirmationTracker struct {
	mu      sync.Mutex
	source  confirmationSource
	entries map[string]*matchRecord
}

func newConfirmationTracker(source confirmationSource) *confirmationTracker {
	return &confirmationTracker{
		source:  source,
		entries: map[string]*matchRecord{},
	}
}

func (t *confirmationTracker) recordRequest(
	paymentID string,
	address string,
	expectedAmount decimal.Decimal,
	createdAt time.Time,
) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, exists := t.entries[paymentID]
	if !exists {
		t.entries[paymentID] = &matchRecord{
			address:        address,
			expectedAmount: expectedAmount,
			createdAt:      createdAt,
		}
		return
	}

	entry.address = address
	entry.expectedAmount = expectedAmount
	entry.createdAt = createdAt
}

// recordMatch binds a transaction to a payment id. The first bound transaction
// is final: a later call with a different transaction leaves the entry as is.
func (t *confirmationTracker) recordMatch(
	paymentID string,
	address string,
	expectedAmount decimal.Decimal,
	createdAt time.Time,
	transaction entities.Transaction,
) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, exists := t.entries[paymentID]
	if exists && entry.transaction != nil {
		return
	}

	matched := transaction
	t.entries[paymentID] = &matchRecord{
		address:        address,
		expectedAmount: expectedAmount,
		createdAt:      createdAt,
		transaction:    &matched,
	}
}

func (t *confirmationTracker) cachedCreatedAt(paymentID string) (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, exists := t.entries[paymentID]
	if !exists {
		return time.Time{}, false
	}

	return entry.createdAt, true
}

func (t *confirmationTracker) hasMatch(paymentID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, exists := t.entries[paymentID]
	return exists && entry.transaction != nil
}

func (t *confirmationTracker) matchedTxHash(paymentID string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, exists := t.entries[paymentID]
	if !exists || entry.transaction == nil {
		return "", false
	}

	return entry.transaction.Hash, true
}

// isSettled refreshes the matched transaction's confirmation count and compares
// it against the required depth. Without a cached match it answers false and
// makes no network call; the caller owns the full search path.
func (t *confirmationTracker) isSettled(ctx context.Context, paymentID string, requiredConfirmations int) bool {
	return t.confirmations(ctx, paymentID) >= requiredConfirmations
}

func (t *confirmationTracker) confirmations(ctx context.Context, paymentID string) int {
	txHash, exists := t.matchedTxHash(paymentID)
	if !exists {
		return 0
	}

	confirmations := t.source.TransactionConfirmations(ctx, txHash)

	t.mu.Lock()
	defer t.mu.Unlock()
	if entry, ok := t.entries[paymentID]; ok && entry.transaction != nil && entry.transaction.Hash == txHash {
		entry.transaction.Confirmations = confirmations
	}

	return confirmations
}
