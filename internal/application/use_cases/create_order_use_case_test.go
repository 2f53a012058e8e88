//go:build !integration

package use_cases

import (
	"context"
	"strings"
	"testing"
	"time"

	"paywatch/internal/application/dto"

	"github.com/shopspring/decimal"
)

func TestCreateOrderUseCaseBitcoinDevelopmentMode(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeOrderRepository()
	useCase := NewCreateOrderUseCase(newTestRegistry(nil, nil, nil), repo, fixedClock{now: now})

	output, appErr := useCase.Execute(context.Background(), dto.CreateOrderCommand{
		Currency:       "btc",
		ExpectedAmount: decimal.RequireFromString("0.005"),
		Now:            now,
	})
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if output.Currency != "BTC" {
		t.Fatalf("expected normalized currency BTC, got %s", output.Currency)
	}
	if output.Status != "pending" {
		t.Fatalf("expected pending status, got %s", output.Status)
	}
	if !strings.HasSuffix(output.Address, "MockBitcoinAddr") {
		t.Fatalf("expected mock address in development mode, got %s", output.Address)
	}
	if !output.ExpiresAt.Equal(now.Add(24 * time.Hour)) {
		t.Fatalf("expected default 24h lifetime, got %s", output.ExpiresAt)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected one inserted order, got %d", len(repo.inserted))
	}
	if repo.inserted[0].PaymentID != output.PaymentID {
		t.Fatalf("expected persisted payment id %s, got %s", output.PaymentID, repo.inserted[0].PaymentID)
	}
}

func TestCreateOrderUseCaseMoneroUsesIntegratedAddress(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	wallet := &fakeMoneroWallet{integratedAddress: "4IntegratedAddr"}
	useCase := NewCreateOrderUseCase(newTestRegistry(nil, nil, wallet), newFakeOrderRepository(), fixedClock{now: now})

	output, appErr := useCase.Execute(context.Background(), dto.CreateOrderCommand{
		Currency:       "XMR",
		ExpectedAmount: decimal.RequireFromString("1.5"),
		Now:            now,
	})
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if output.Address != "4IntegratedAddr" {
		t.Fatalf("expected integrated address, got %s", output.Address)
	}
}

func TestCreateOrderUseCaseUnsupportedCurrency(t *testing.T) {
	useCase := NewCreateOrderUseCase(newTestRegistry(nil, nil, nil), newFakeOrderRepository(), NewSystemClock())

	_, appErr := useCase.Execute(context.Background(), dto.CreateOrderCommand{
		Currency:       "DOGE",
		ExpectedAmount: decimal.RequireFromString("1"),
	})
	if appErr == nil || appErr.Code != "currency_unsupported" {
		t.Fatalf("expected currency_unsupported, got %+v", appErr)
	}
}

func TestCreateOrderUseCaseRejectsNonPositiveAmount(t *testing.T) {
	useCase := NewCreateOrderUseCase(newTestRegistry(nil, nil, nil), newFakeOrderRepository(), NewSystemClock())

	_, appErr := useCase.Execute(context.Background(), dto.CreateOrderCommand{
		Currency:       "BTC",
		ExpectedAmount: decimal.Zero,
	})
	if appErr == nil || appErr.Code != "expected_amount_invalid" {
		t.Fatalf("expected expected_amount_invalid, got %+v", appErr)
	}
}

func TestCreateOrderUseCaseRejectsLifetimeBeyondWindow(t *testing.T) {
	useCase := NewCreateOrderUseCase(newTestRegistry(nil, nil, nil), newFakeOrderRepository(), NewSystemClock())

	_, appErr := useCase.Execute(context.Background(), dto.CreateOrderCommand{
		Currency:         "BTC",
		ExpectedAmount:   decimal.RequireFromString("0.005"),
		ExpiresInSeconds: 86401,
	})
	if appErr == nil || appErr.Code != "expires_in_invalid" {
		t.Fatalf("expected expires_in_invalid, got %+v", appErr)
	}
}

func TestCreateOrderUseCaseEthereumAddressChecksumDisplay(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	useCase := NewCreateOrderUseCase(newTestRegistry(nil, nil, nil), newFakeOrderRepository(), fixedClock{now: now})

	output, appErr := useCase.Execute(context.Background(), dto.CreateOrderCommand{
		Currency:       "eth",
		VendorWallet:   "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		ExpectedAmount: decimal.RequireFromString("0.5"),
		Now:            now,
	})
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if output.Address != "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed" {
		t.Fatalf("expected lowercase canonical address, got %s", output.Address)
	}
	if output.DisplayAddress != "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed" {
		t.Fatalf("expected checksummed display address, got %s", output.DisplayAddress)
	}
}
