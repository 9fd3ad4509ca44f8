package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/adesokan/walletcore/wallet/mocks"
)

func TestRateGateway_FetchRate(t *testing.T) {
	backend := &mocks.MockBackend{}
	backend.On("GetExchangeRate", mock.Anything).Return(decimal.NewFromFloat(1545.50), nil)

	g := NewRateGateway(backend)
	rate, err := g.FetchRate(context.Background())

	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromFloat(1545.50)))
}

func TestRateGateway_FetchRate_BackendError(t *testing.T) {
	backend := &mocks.MockBackend{}
	backend.On("GetExchangeRate", mock.Anything).Return(decimal.Zero, errors.New("timeout"))

	g := NewRateGateway(backend)
	_, err := g.FetchRate(context.Background())

	assert.Error(t, err)

	// One attempt per call; no hidden retry.
	backend.AssertNumberOfCalls(t, "GetExchangeRate", 1)
}

func TestRateGateway_FetchRate_NonPositive(t *testing.T) {
	backend := &mocks.MockBackend{}
	backend.On("GetExchangeRate", mock.Anything).Return(decimal.Zero, nil)

	g := NewRateGateway(backend)
	_, err := g.FetchRate(context.Background())

	assert.Error(t, err)
}
