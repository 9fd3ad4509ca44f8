package providers

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/adesokan/walletcore/pkg/money"
)

// StaticRateProvider serves a fixed rate table. It stands in for a
// market-data vendor in the simulator.
type StaticRateProvider struct {
	name  string
	rates map[string]decimal.Decimal
}

func NewStaticRateProvider() *StaticRateProvider {
	return &StaticRateProvider{
		name: "StaticRates",
		rates: map[string]decimal.Decimal{
			"NGN-USD": decimal.NewFromFloat(1545.50),
			"USD-NGN": decimal.NewFromFloat(1545.50),
		},
	}
}

func (p *StaticRateProvider) Name() string {
	return p.name
}

func (p *StaticRateProvider) SupportsPair(from, to money.Currency) bool {
	_, ok := p.rates[pairKey(from, to)]
	return ok
}

func (p *StaticRateProvider) GetExchangeRate(ctx context.Context, req ExchangeRateRequest) (*ExchangeRateResponse, error) {
	rate, ok := p.rates[pairKey(req.FromCurrency, req.ToCurrency)]
	if !ok {
		return nil, fmt.Errorf("unsupported currency pair: %s/%s", req.FromCurrency, req.ToCurrency)
	}
	return &ExchangeRateResponse{Rate: rate}, nil
}

// SetRate overrides a pair, used by tests to pin a known rate.
func (p *StaticRateProvider) SetRate(from, to money.Currency, rate decimal.Decimal) {
	p.rates[pairKey(from, to)] = rate
}

func pairKey(from, to money.Currency) string {
	return fmt.Sprintf("%s-%s", from, to)
}
