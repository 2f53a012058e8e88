package valueobjects

import (
	"strings"

	apperrors "paywatch/internal/shared_kernel/errors"
)

type Currency string

const (
	CurrencyXMR Currency = "XMR"
	CurrencyBTC Currency = "BTC"
	CurrencyETH Currency = "ETH"
)

var supportedCurrencies = []Currency{CurrencyXMR, CurrencyBTC, CurrencyETH}

func SupportedCurrencies() []Currency {
	out := make([]Currency, len(supportedCurrencies))
	copy(out, supportedCurrencies)
	return out
}

func IsSupportedCurrency(code string) bool {
	_, appErr := ParseCurrency(code)
	return appErr == nil
}

func ParseCurrency(code string) (Currency, *apperrors.AppError) {
	normalized := Currency(strings.ToUpper(strings.TrimSpace(code)))
	for _, currency := range supportedCurrencies {
		if normalized == currency {
			return currency, nil
		}
	}

	supported := make([]string, len(supportedCurrencies))
	for i, currency := range supportedCurrencies {
		supported[i] = string(currency)
	}

	return "", apperrors.NewUnsupported(
		"currency_unsupported",
		"currency is not supported",
		map[string]any{"currency": code, "supported": supported},
	)
}

func (c Currency) String() string {
	return string(c)
}
