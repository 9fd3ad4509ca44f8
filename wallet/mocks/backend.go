package mocks

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/adesokan/walletcore/api"
	"github.com/adesokan/walletcore/models"
	"github.com/adesokan/walletcore/pkg/money"
)

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func (m *MockBackend) GetUser(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockBackend) DepositUSD(ctx context.Context, usdGross money.Money) (*api.DepositUSDResult, error) {
	args := m.Called(ctx, usdGross)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.DepositUSDResult), args.Error(1)
}

func (m *MockBackend) GetUSDStatus(ctx context.Context, reference string) (*api.USDStatus, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.USDStatus), args.Error(1)
}

func (m *MockBackend) GetExchangeRate(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockBackend) VerifyBVN(ctx context.Context, params api.IdentityParams) (*api.KYCResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.KYCResult), args.Error(1)
}

func (m *MockBackend) VerifyNIN(ctx context.Context, params api.IdentityParams) (*api.KYCResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.KYCResult), args.Error(1)
}

func (m *MockBackend) VerifyCAC(ctx context.Context, params api.IdentityParams) (*api.KYCResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.KYCResult), args.Error(1)
}

func (m *MockBackend) VerifyCorporate(ctx context.Context, params api.IdentityParams) (*api.KYCResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.KYCResult), args.Error(1)
}
