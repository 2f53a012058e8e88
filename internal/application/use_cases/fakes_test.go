//go:build !integration

package use_cases

import (
	"context"
	"io"
	"log"
	"time"

	"paywatch/internal/application/services"
	"paywatch/internal/domain/entities"
	apperrors "paywatch/internal/shared_kernel/errors"

	"github.com/shopspring/decimal"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) NowUTC() time.Time {
	return c.now.UTC()
}

type fakeChainClient struct {
	transactions  []entities.Transaction
	fetchErr      *apperrors.AppError
	confirmations map[string]int
}

func (f *fakeChainClient) AddressTransactions(_ context.Context, _ string, _ time.Time) ([]entities.Transaction, *apperrors.AppError) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.transactions, nil
}

func (f *fakeChainClient) TransactionConfirmations(_ context.Context, txHash string) int {
	return f.confirmations[txHash]
}

type fakeMoneroWallet struct {
	integratedAddress string
	incoming          decimal.Decimal
}

func (f *fakeMoneroWallet) MakeIntegratedAddress(_ context.Context, _ string) (string, *apperrors.AppError) {
	return f.integratedAddress, nil
}

func (f *fakeMoneroWallet) IncomingAmount(_ context.Context, _ string) (decimal.Decimal, *apperrors.AppError) {
	return f.incoming, nil
}

func (f *fakeMoneroWallet) Balance(_ context.Context) (decimal.Decimal, *apperrors.AppError) {
	return decimal.Zero, nil
}

func newTestRegistry(bitcoin *fakeChainClient, ethereum *fakeChainClient, wallet *fakeMoneroWallet) *services.Registry {
	if bitcoin == nil {
		bitcoin = &fakeChainClient{}
	}
	if ethereum == nil {
		ethereum = &fakeChainClient{}
	}
	if wallet == nil {
		wallet = &fakeMoneroWallet{integratedAddress: "4IntegratedAddr"}
	}
	return services.NewRegistry(services.RegistryDeps{
		DevelopmentMode: true,
		BitcoinClient:   bitcoin,
		EthereumClient:  ethereum,
		MoneroWallet:    wallet,
		Logger:          testLogger(),
	})
}

type statusUpdate struct {
	orderID       string
	status        entities.OrderStatus
	txHash        string
	confirmations int
}

type fakeOrderRepository struct {
	orders      map[string]entities.Order
	insertErr   *apperrors.AppError
	listErr     *apperrors.AppError
	inserted    []entities.Order
	updates     []statusUpdate
	confUpdates []statusUpdate
}

func newFakeOrderRepository(orders ...entities.Order) *fakeOrderRepository {
	repo := &fakeOrderRepository{orders: map[string]entities.Order{}}
	for _, order := range orders {
		repo.orders[order.ID] = order
	}
	return repo
}

func (f *fakeOrderRepository) Insert(_ context.Context, order entities.Order) *apperrors.AppError {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, order)
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderRepository) FindByID(_ context.Context, orderID string) (entities.Order, *apperrors.AppError) {
	order, exists := f.orders[orderID]
	if !exists {
		return entities.Order{}, apperrors.NewNotFound("order_not_found", "order does not exist", nil)
	}
	return order, nil
}

func (f *fakeOrderRepository) ListPending(_ context.Context, limit int) ([]entities.Order, *apperrors.AppError) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	pending := []entities.Order{}
	for _, order := range f.orders {
		if order.Status == entities.OrderStatusPending && len(pending) < limit {
			pending = append(pending, order)
		}
	}
	return pending, nil
}

func (f *fakeOrderRepository) MarkPaid(_ context.Context, orderID string, txHash string, confirmations int, _ time.Time) *apperrors.AppError {
	order := f.orders[orderID]
	order.Status = entities.OrderStatusPaid
	order.MatchedTxHash = txHash
	order.Confirmations = confirmations
	f.orders[orderID] = order
	f.updates = append(f.updates, statusUpdate{orderID: orderID, status: entities.OrderStatusPaid, txHash: txHash, confirmations: confirmations})
	return nil
}

func (f *fakeOrderRepository) MarkExpired(_ context.Context, orderID string, _ time.Time) *apperrors.AppError {
	order := f.orders[orderID]
	order.Status = entities.OrderStatusExpired
	f.orders[orderID] = order
	f.updates = append(f.updates, statusUpdate{orderID: orderID, status: entities.OrderStatusExpired})
	return nil
}

func (f *fakeOrderRepository) UpdateConfirmations(_ context.Context, orderID string, confirmations int) *apperrors.AppError {
	order := f.orders[orderID]
	order.Confirmations = confirmations
	f.orders[orderID] = order
	f.confUpdates = append(f.confUpdates, statusUpdate{orderID: orderID, confirmations: confirmations})
	return nil
}
