package services

import (
	"log"
	"strings"
	"sync"

	portsout "paywatch/internal/application/ports/out"
	valueobjects "paywatch/internal/domain/value_objects"
	apperrors "paywatch/internal/shared_kernel/errors"
)

const defaultConfirmationThreshold = 10

var confirmationThresholds = map[valueobjects.Currency]int{
	valueobjects.CurrencyXMR: 10,
	valueobjects.CurrencyBTC: 6,
	valueobjects.CurrencyETH: 12,
}

type RegistryDeps struct {
	DevelopmentMode bool
	BitcoinClient   portsout.ChainClient
	EthereumClient  portsout.ChainClient
	MoneroWallet    portsout.MoneroWalletGateway
	Logger          *log.Logger
}

// Registry resolves a currency code to a process-lifetime singleton
// PaymentService. One instance per currency means one confirmation cache per
// currency, shared by every order in that currency.
type Registry struct {
	mu        sync.Mutex
	deps      RegistryDeps
	instances map[valueobjects.Currency]PaymentService
}

func NewRegistry(deps RegistryDeps) *Registry {
	return &Registry{
		deps:      deps,
		instances: map[valueobjects.Currency]PaymentService{},
	}
}

func (r *Registry) Resolve(currencyCode string) (PaymentService, *apperrors.AppError) {
	currency, appErr := valueobjects.ParseCurrency(currencyCode)
	if appErr != nil {
		return nil, appErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if instance, exists := r.instances[currency]; exists {
		return instance, nil
	}

	var instance PaymentService
	switch currency {
	case valueobjects.CurrencyXMR:
		instance = NewMoneroPaymentService(r.deps.DevelopmentMode, r.deps.MoneroWallet, r.deps.Logger)
	case valueobjects.CurrencyBTC:
		instance = NewBitcoinPaymentService(r.deps.DevelopmentMode, r.deps.BitcoinClient, r.deps.Logger)
	case valueobjects.CurrencyETH:
		instance = NewEthereumPaymentService(r.deps.DevelopmentMode, r.deps.EthereumClient, r.deps.Logger)
	default:
		return nil, apperrors.NewUnsupported(
			"currency_unsupported",
			"currency is not supported",
			map[string]any{"currency": currencyCode},
		)
	}

	r.instances[currency] = instance
	r.deps.Logger.Printf("created payment service currency=%s", currency)
	return instance, nil
}

func (r *Registry) ConfirmationThreshold(currencyCode string) int {
	currency := valueobjects.Currency(strings.ToUpper(strings.TrimSpace(currencyCode)))
	if threshold, exists := confirmationThresholds[currency]; exists {
		return threshold
	}
	return defaultConfirmationThreshold
}

func (r *Registry) IsSupported(currencyCode string) bool {
	return valueobjects.IsSupportedCurrency(currencyCode)
}

func (r *Registry) SupportedCurrencies() []string {
	currencies := valueobjects.SupportedCurrencies()
	out := make([]string, len(currencies))
	for i, currency := range currencies {
		out[i] = string(currency)
	}
	return out
}

// ClearCache discards every singleton, and with it every confirmation cache.
// Intended for tests and configuration reloads.
func (r *Registry) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.instances = map[valueobjects.Currency]PaymentService{}
	r.deps.Logger.Printf("cleared payment service cache")
}
