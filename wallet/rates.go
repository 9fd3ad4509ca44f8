package wallet

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/adesokan/walletcore/api"
	"github.com/adesokan/walletcore/utils"
)

// RateGateway fetches the current NGN per USD rate. One attempt per
// invocation, no internal retry; the caller owns loading state and must
// block progression while no rate is available. A non-positive rate is
// never handed to fee math.
type RateGateway struct {
	backend api.Backend
	logger  zerolog.Logger
}

func NewRateGateway(backend api.Backend) *RateGateway {
	return &RateGateway{
		backend: backend,
		logger:  utils.ComponentLogger("rate-gateway"),
	}
}

func (g *RateGateway) FetchRate(ctx context.Context) (decimal.Decimal, error) {
	rate, err := g.backend.GetExchangeRate(ctx)
	if err != nil {
		g.logger.Warn().Err(err).Msg("exchange rate fetch failed")
		return decimal.Zero, err
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("exchange rate unavailable")
	}
	return rate, nil
}
