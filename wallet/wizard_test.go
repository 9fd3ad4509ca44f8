package wallet

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/adesokan/walletcore/api"
	"github.com/adesokan/walletcore/models"
	"github.com/adesokan/walletcore/pkg/money"
	"github.com/adesokan/walletcore/session"
	"github.com/adesokan/walletcore/wallet/mocks"
)

type memPersister struct {
	mu      sync.Mutex
	session *session.Session
}

func (p *memPersister) Save(_ context.Context, s *session.Session) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	copied := *s
	p.session = &copied
	return nil
}

func (p *memPersister) Load(_ context.Context) (*session.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session, nil
}

func (p *memPersister) Clear(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.session = nil
	return nil
}

func testUser(ngnKobo, usdCents int64) *models.User {
	return &models.User{
		ID:             "user-1",
		Email:          "ade@example.com",
		FirstName:      "Ade",
		LastName:       "Sokan",
		AccountBalance: ngnKobo,
		USDBalance:     usdCents,
		Tier:           models.TierIndividual,
		BankInformation: &models.BankInformation{
			BankName:      "Providus Bank",
			AccountNumber: "9901234567",
			AccountName:   "Ade Sokan",
		},
	}
}

func loggedInStore(t *testing.T, user *models.User) *session.Store {
	t.Helper()
	store := session.NewStore(&memPersister{})
	require.NoError(t, store.Login(context.Background(), user, "test-token"))
	return store
}

func TestDepositWizard_AmountGating(t *testing.T) {
	store := loggedInStore(t, testUser(0, 0))
	w := NewDepositWizard(store, &mocks.MockBackend{}, fastConfig())

	tests := []struct {
		name        string
		input       string
		canContinue bool
	}{
		{"empty input", "", false},
		{"non-numeric", "abc", false},
		{"negative", "-50", false},
		{"three decimal places", "10.555", false},
		{"fees eat the whole amount", "50", false},
		{"valid amount", "10000", true},
		{"valid with decimals", "10000.50", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w.SetAmount(tt.input)
			assert.Equal(t, tt.canContinue, w.CanContinue())
		})
	}
}

func TestDepositWizard_StepNavigation(t *testing.T) {
	store := loggedInStore(t, testUser(0, 0))
	w := NewDepositWizard(store, &mocks.MockBackend{}, fastConfig())

	assert.Equal(t, StepConfigure, w.Step())

	// Cannot continue with an invalid amount.
	w.SetAmount("bad")
	assert.Error(t, w.Continue())
	assert.Equal(t, StepConfigure, w.Step())

	w.SetAmount("10000")
	require.NoError(t, w.Continue())
	assert.Equal(t, StepConfirm, w.Step())

	// Continue is a configure-step operation only.
	assert.Error(t, w.Continue())

	// Back keeps the entered amount.
	require.NoError(t, w.Back())
	assert.Equal(t, StepConfigure, w.Step())
	assert.Equal(t, "10000", w.AmountInput())
}

func TestDepositWizard_FeePreview(t *testing.T) {
	store := loggedInStore(t, testUser(0, 0))
	w := NewDepositWizard(store, &mocks.MockBackend{}, fastConfig())

	w.SetAmount("10000")
	b := w.Fees()
	assert.Equal(t, int64(35000), b.Total.Amount)
	assert.Equal(t, int64(965000), b.Net.Amount)
	assert.Empty(t, w.InlineError())

	// An invalid edit clears the preview but never traps the user.
	w.SetAmount("nope")
	assert.True(t, w.Fees().Net.IsZero())
	assert.NotEmpty(t, w.InlineError())
}

func TestDepositWizard_ConfirmSuccess(t *testing.T) {
	user := testUser(100000, 0)
	store := loggedInStore(t, user)

	backend := &mocks.MockBackend{}
	// First poll sees no change, second sees the transfer landed.
	backend.On("GetUser", mock.Anything, "user-1").Return(testUser(100000, 0), nil).Once()
	backend.On("GetUser", mock.Anything, "user-1").Return(testUser(1065000, 0), nil)

	w := NewDepositWizard(store, backend, fastConfig())
	w.SetAmount("10000")
	require.NoError(t, w.Continue())

	instructions, err := w.BankInstructions()
	require.NoError(t, err)
	assert.Equal(t, "Providus Bank", instructions.BankName)

	require.NoError(t, w.Confirm(context.Background()))

	assert.Equal(t, StatusCompleted, w.Status())
	assert.Equal(t, StepResult, w.Step())

	// The confirmed balance is visible on the session before the
	// result step is reachable.
	assert.Equal(t, int64(1065000), store.CurrentUser().AccountBalance)

	// A fresh transaction starts clean.
	require.NoError(t, w.Reset())
	assert.Equal(t, StepConfigure, w.Step())
	assert.Equal(t, StatusIdle, w.Status())
	assert.Empty(t, w.AmountInput())
}

func TestDepositWizard_ConfirmTimeoutThenRetry(t *testing.T) {
	user := testUser(100000, 0)
	store := loggedInStore(t, user)

	backend := &mocks.MockBackend{}
	backend.On("GetUser", mock.Anything, "user-1").Return(testUser(100000, 0), nil)

	cfg := fastConfig()
	cfg.CountdownBudget = 20 * time.Millisecond
	cfg.ExtendedBudget = 25 * time.Millisecond

	w := NewDepositWizard(store, backend, cfg)
	w.SetAmount("10000")
	require.NoError(t, w.Continue())

	err := w.Confirm(context.Background())
	require.ErrorIs(t, err, ErrVerificationTimeout)

	assert.Equal(t, StatusFailed, w.Status())
	assert.Equal(t, StepConfirm, w.Step())
	assert.NotEmpty(t, w.InlineError())

	// A failed verification never touches the session balance.
	assert.Equal(t, int64(100000), store.CurrentUser().AccountBalance)

	// Retry re-arms the confirm step.
	require.NoError(t, w.Retry())
	assert.Equal(t, StatusIdle, w.Status())
}

func TestDepositWizard_ConfirmCancelled(t *testing.T) {
	user := testUser(100000, 0)
	store := loggedInStore(t, user)

	backend := &mocks.MockBackend{}
	backend.On("GetUser", mock.Anything, "user-1").Return(testUser(100000, 0), nil)

	w := NewDepositWizard(store, backend, fastConfig())
	w.SetAmount("10000")
	require.NoError(t, w.Continue())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Confirm(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("confirm did not return after cancel")
	}

	// Cancellation is a teardown, not a failure.
	assert.Equal(t, StatusIdle, w.Status())
	assert.Equal(t, int64(100000), store.CurrentUser().AccountBalance)
}

func TestDepositWizard_ConfirmRequiresLogin(t *testing.T) {
	store := session.NewStore(&memPersister{})
	w := NewDepositWizard(store, &mocks.MockBackend{}, fastConfig())

	err := w.Confirm(context.Background())
	assert.Error(t, err)
}

func TestConversionWizard_RateUnavailableBlocksFlow(t *testing.T) {
	store := loggedInStore(t, testUser(2000000, 0))

	backend := &mocks.MockBackend{}
	backend.On("GetExchangeRate", mock.Anything).Return(decimal.Zero, errors.New("rate service down"))

	w := NewConversionWizard(store, backend)
	assert.Error(t, w.LoadRate(context.Background()))

	w.SetAmount("10000")
	assert.False(t, w.CanContinue())
	assert.NotEmpty(t, w.InlineError())
	assert.Error(t, w.Continue())
}

func TestConversionWizard_MinimumNetGating(t *testing.T) {
	store := loggedInStore(t, testUser(2000000, 0))

	backend := &mocks.MockBackend{}
	backend.On("GetExchangeRate", mock.Anything).Return(decimal.NewFromInt(1000), nil)

	w := NewConversionWizard(store, backend)
	require.NoError(t, w.LoadRate(context.Background()))

	// ₦3,000 at 1000 grosses $3 but nets $2.44, below the minimum.
	w.SetAmount("3000")
	assert.False(t, w.CanContinue())

	// ₦10,000 nets $9.31, well above it.
	w.SetAmount("10000")
	assert.True(t, w.CanContinue())
	assert.Equal(t, int64(931), w.Fees().Net.Amount)
}

func TestConversionWizard_ConfirmSuccess(t *testing.T) {
	user := testUser(2000000, 0)
	store := loggedInStore(t, user)

	usdGross := money.FromMajorUnits(10, money.USD)
	newTrx := &models.Transaction{
		Reference: "CNV-abc123",
		Type:      models.TransactionTypeConversion,
		Amount:    931,
		Currency:  "USD",
		Status:    models.TransactionStatusCompleted,
	}

	backend := &mocks.MockBackend{}
	backend.On("GetExchangeRate", mock.Anything).Return(decimal.NewFromInt(1000), nil)
	backend.On("DepositUSD", mock.Anything, usdGross).Return(&api.DepositUSDResult{
		NewTrx:         newTrx,
		AccountBalance: money.NewMoney(1000000, money.NGN),
	}, nil)
	backend.On("GetUSDStatus", mock.Anything, "CNV-abc123").Return(&api.USDStatus{
		Status:  models.TransactionStatusCompleted,
		Balance: money.NewMoney(931, money.USD),
	}, nil)

	w := NewConversionWizard(store, backend)
	require.NoError(t, w.LoadRate(context.Background()))
	w.SetAmount("10000")
	require.NoError(t, w.Continue())
	require.NoError(t, w.Confirm(context.Background()))

	assert.Equal(t, StatusCompleted, w.Status())
	assert.Equal(t, StepResult, w.Step())

	// Both sides of the conversion land on the session atomically.
	current := store.CurrentUser()
	assert.Equal(t, int64(1000000), current.AccountBalance)
	assert.Equal(t, int64(931), current.USDBalance)

	backend.AssertExpectations(t)
}

func TestConversionWizard_InsufficientBalance(t *testing.T) {
	// ₦1,000 on hand, trying to convert ₦10,000.
	store := loggedInStore(t, testUser(100000, 0))

	backend := &mocks.MockBackend{}
	backend.On("GetExchangeRate", mock.Anything).Return(decimal.NewFromInt(1000), nil)

	w := NewConversionWizard(store, backend)
	require.NoError(t, w.LoadRate(context.Background()))
	w.SetAmount("10000")
	require.NoError(t, w.Continue())

	err := w.Confirm(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient balance")
	assert.Equal(t, StatusFailed, w.Status())

	// The backend is never asked to execute an unfundable conversion.
	backend.AssertNotCalled(t, "DepositUSD", mock.Anything, mock.Anything)

	// The session keeps the pre-attempt balances.
	assert.Equal(t, int64(100000), store.CurrentUser().AccountBalance)
}

func TestConversionWizard_BackendRejectionIsRetryable(t *testing.T) {
	store := loggedInStore(t, testUser(2000000, 0))

	backend := &mocks.MockBackend{}
	backend.On("GetExchangeRate", mock.Anything).Return(decimal.NewFromInt(1000), nil)
	backend.On("DepositUSD", mock.Anything, mock.Anything).Return(nil, errors.New("conversion temporarily unavailable"))

	w := NewConversionWizard(store, backend)
	require.NoError(t, w.LoadRate(context.Background()))
	w.SetAmount("10000")
	require.NoError(t, w.Continue())

	require.Error(t, w.Confirm(context.Background()))
	assert.Equal(t, StatusFailed, w.Status())
	assert.Equal(t, StepConfirm, w.Step())

	require.NoError(t, w.Retry())
	assert.Equal(t, StatusIdle, w.Status())
	assert.Equal(t, "10000", w.AmountInput())
}

func TestValidAmountInput(t *testing.T) {
	valid := []string{"0", "1", "100", "100.5", "100.50", "0.01"}
	invalid := []string{"", "-1", "1.", ".5", "1.234", "1,000", "abc", "1e3"}

	for _, in := range valid {
		assert.True(t, ValidAmountInput(in), in)
	}
	for _, in := range invalid {
		assert.False(t, ValidAmountInput(in), in)
	}
}
