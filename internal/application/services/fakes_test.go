//go:build !integration

package services

import (
	"context"
	"io"
	"log"
	"sync"
	"time"

	"paywatch/internal/domain/entities"
	apperrors "paywatch/internal/shared_kernel/errors"

	"github.com/shopspring/decimal"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type fakeChainClient struct {
	mu                sync.Mutex
	transactions      []entities.Transaction
	fetchErr          *apperrors.AppError
	confirmations     map[string]int
	addressCalls      int
	confirmationCalls int
}

func (f *fakeChainClient) AddressTransactions(_ context.Context, _ string, _ time.Time) ([]entities.Transaction, *apperrors.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addressCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.transactions, nil
}

func (f *fakeChainClient) TransactionConfirmations(_ context.Context, txHash string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmationCalls++
	return f.confirmations[txHash]
}

func (f *fakeChainClient) setConfirmations(txHash string, count int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.confirmations == nil {
		f.confirmations = map[string]int{}
	}
	f.confirmations[txHash] = count
}

func (f *fakeChainClient) addressCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addressCalls
}

func (f *fakeChainClient) confirmationCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.confirmationCalls
}

type fakeMoneroWallet struct {
	integratedAddress string
	makeAddressErr    *apperrors.AppError
	incoming          decimal.Decimal
	incomingErr       *apperrors.AppError
	balance           decimal.Decimal
	balanceErr        *apperrors.AppError
}

func (f *fakeMoneroWallet) MakeIntegratedAddress(_ context.Context, _ string) (string, *apperrors.AppError) {
	if f.makeAddressErr != nil {
		return "", f.makeAddressErr
	}
	return f.integratedAddress, nil
}

func (f *fakeMoneroWallet) IncomingAmount(_ context.Context, _ string) (decimal.Decimal, *apperrors.AppError) {
	if f.incomingErr != nil {
		return decimal.Zero, f.incomingErr
	}
	return f.incoming, nil
}

func (f *fakeMoneroWallet) Balance(_ context.Context) (decimal.Decimal, *apperrors.AppError) {
	if f.balanceErr != nil {
		return decimal.Zero, f.balanceErr
	}
	return f.balance, nil
}
