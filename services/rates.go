package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/adesokan/walletcore/pkg/money"
	"github.com/adesokan/walletcore/providers"
)

type RateService interface {
	// Current returns the NGN per USD rate from the configured provider.
	Current(ctx context.Context) (decimal.Decimal, error)
}

type rateService struct {
	processor *providers.Processor
}

func (s *Services) Rates() RateService {
	return &rateService{processor: s.processor}
}

func (r *rateService) Current(ctx context.Context) (decimal.Decimal, error) {
	resp, err := r.processor.GetExchangeRate(ctx, providers.ExchangeRateRequest{
		FromCurrency: money.NGN,
		ToCurrency:   money.USD,
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("exchange rate lookup: %w", err)
	}
	if !resp.Rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("provider returned non-positive rate %s", resp.Rate)
	}
	return resp.Rate, nil
}
