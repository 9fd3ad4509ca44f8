package api

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/adesokan/walletcore/models"
	"github.com/adesokan/walletcore/pkg/money"
)

// DepositUSDResult is the outcome of executing a conversion: the
// transaction that credited the dollar wallet plus the caller's updated
// naira balance.
type DepositUSDResult struct {
	NewTrx         *models.Transaction
	AccountBalance money.Money
}

type USDStatus struct {
	Status  models.TransactionStatus
	Balance money.Money
}

// IdentityParams carries the query-string identity fields for a KYC
// verification call. The wallet layer builds these from a typed
// verification variant; the client just forwards them.
type IdentityParams map[string]string

type KYCResult struct {
	OTP      string   `json:"otp"`
	Trx      string   `json:"trx"`
	Success  bool     `json:"success"`
	Warnings []string `json:"warnings"`
}

// Backend is the remote wallet API as seen by client flows. The real
// implementation is Client; MockBackend stands in for tests.
type Backend interface {
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	DepositUSD(ctx context.Context, usdGross money.Money) (*DepositUSDResult, error)
	GetUSDStatus(ctx context.Context, reference string) (*USDStatus, error)
	GetExchangeRate(ctx context.Context) (decimal.Decimal, error)
	VerifyBVN(ctx context.Context, params IdentityParams) (*KYCResult, error)
	VerifyNIN(ctx context.Context, params IdentityParams) (*KYCResult, error)
	VerifyCAC(ctx context.Context, params IdentityParams) (*KYCResult, error)
	VerifyCorporate(ctx context.Context, params IdentityParams) (*KYCResult, error)
}
