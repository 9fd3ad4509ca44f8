package providers

import (
	"context"
	"fmt"

	"github.com/adesokan/walletcore/pkg/money"
)

type Processor struct {
	providers []ExchangeRateProvider
}

func NewProcessor() *Processor {
	return &Processor{providers: []ExchangeRateProvider{}}
}

func (p *Processor) RegisterRateProvider(provider ExchangeRateProvider) {
	p.providers = append(p.providers, provider)
}

func (p *Processor) SelectProvider(from, to money.Currency) (ExchangeRateProvider, error) {
	for _, provider := range p.providers {
		if provider.SupportsPair(from, to) {
			return provider, nil
		}
	}
	return nil, fmt.Errorf("no rate provider available for %s/%s", from, to)
}

func (p *Processor) GetExchangeRate(ctx context.Context, req ExchangeRateRequest) (*ExchangeRateResponse, error) {
	provider, err := p.SelectProvider(req.FromCurrency, req.ToCurrency)
	if err != nil {
		return nil, err
	}
	return provider.GetExchangeRate(ctx, req)
}
