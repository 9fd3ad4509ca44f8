package providers

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/adesokan/walletcore/pkg/money"
)

type ExchangeRateRequest struct {
	FromCurrency money.Currency
	ToCurrency   money.Currency
}

type ExchangeRateResponse struct {
	Rate decimal.Decimal
}

type Provider interface {
	Name() string
}

type ExchangeRateProvider interface {
	Provider
	GetExchangeRate(ctx context.Context, req ExchangeRateRequest) (*ExchangeRateResponse, error)
	SupportsPair(from, to money.Currency) bool
}
