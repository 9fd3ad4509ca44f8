package wallet

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/adesokan/walletcore/api"
	"github.com/adesokan/walletcore/models"
	"github.com/adesokan/walletcore/pkg/fees"
	"github.com/adesokan/walletcore/pkg/money"
	"github.com/adesokan/walletcore/session"
	"github.com/adesokan/walletcore/utils"
)

// backendBalanceFetcher adapts the API client to the single call the
// poller needs.
type backendBalanceFetcher struct {
	backend api.Backend
}

func (f *backendBalanceFetcher) FetchBalance(ctx context.Context, userID string) (money.Money, error) {
	user, err := f.backend.GetUser(ctx, userID)
	if err != nil {
		return money.Money{}, err
	}
	return user.NGNBalance(), nil
}

// DepositWizard drives the bank-transfer funding flow: configure an
// amount, show transfer instructions, then verify the money landed by
// polling the backend balance against the pre-transfer baseline.
type DepositWizard struct {
	wizardCore

	store     *session.Store
	backend   api.Backend
	pollerCfg PollerConfig
	logger    zerolog.Logger

	feesMu sync.Mutex
	fees   fees.FeeBreakdown

	pollerMu sync.Mutex
	poller   *BalancePoller
}

func NewDepositWizard(store *session.Store, backend api.Backend, pollerCfg PollerConfig) *DepositWizard {
	return &DepositWizard{
		wizardCore: newWizardCore(),
		store:      store,
		backend:    backend,
		pollerCfg:  pollerCfg,
		logger:     utils.ComponentLogger("deposit-wizard"),
	}
}

// SetAmount records the entered gross amount and recomputes the fee
// breakdown. An unparsable amount clears the breakdown and surfaces an
// inline error; it never blocks further edits.
func (w *DepositWizard) SetAmount(input string) {
	w.setAmountInput(input)

	w.feesMu.Lock()
	defer w.feesMu.Unlock()

	if !ValidAmountInput(input) {
		w.fees = fees.FeeBreakdown{}
		w.setInlineError("enter a valid amount with at most two decimal places")
		return
	}

	gross, err := decimal.NewFromString(input)
	if err != nil {
		w.fees = fees.FeeBreakdown{}
		w.setInlineError("enter a valid amount with at most two decimal places")
		return
	}

	breakdown, err := fees.ComputeDepositFee(money.FromDecimal(gross, money.NGN))
	if err != nil {
		w.fees = fees.FeeBreakdown{}
		w.setInlineError(err.Error())
		return
	}

	w.fees = breakdown
	w.setInlineError("")
}

func (w *DepositWizard) Fees() fees.FeeBreakdown {
	w.feesMu.Lock()
	defer w.feesMu.Unlock()
	return w.fees
}

// CanContinue gates progression off the configure step: the entered
// amount must be valid and the post-fee amount positive.
func (w *DepositWizard) CanContinue() bool {
	if !ValidAmountInput(w.AmountInput()) {
		return false
	}
	return w.Fees().Net.IsPositive()
}

func (w *DepositWizard) Continue() error {
	if !w.CanContinue() {
		w.setInlineError("amount after fees must be greater than zero")
		return fmt.Errorf("amount after fees must be greater than zero")
	}
	return w.advance()
}

// BankInstructions returns the account the user should transfer into.
func (w *DepositWizard) BankInstructions() (*models.BankInformation, error) {
	user := w.store.CurrentUser()
	if user == nil {
		return nil, utils.UnauthorizedErr("no user is logged in")
	}
	if user.BankInformation == nil {
		return nil, utils.NotFoundErr("no funding account on record for this user")
	}
	return user.BankInformation, nil
}

// Confirm starts balance verification against the pre-transfer
// baseline and blocks until it resolves. On success the session store
// is updated with the confirmed balance before the result step becomes
// visible. A cancelled confirmation returns the attempt to idle; a
// timeout or backend rejection marks it failed and leaves the user on
// the confirm step to retry.
func (w *DepositWizard) Confirm(ctx context.Context) error {
	user := w.store.CurrentUser()
	if user == nil {
		return utils.UnauthorizedErr("no user is logged in")
	}

	if err := w.beginAttempt(); err != nil {
		return err
	}

	baseline := user.NGNBalance()
	poller := NewBalancePoller(&backendBalanceFetcher{backend: w.backend}, w.pollerCfg)

	w.pollerMu.Lock()
	w.poller = poller
	w.pollerMu.Unlock()

	newBalance, err := poller.Run(ctx, user.ID, baseline)

	w.pollerMu.Lock()
	w.poller = nil
	w.pollerMu.Unlock()

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			w.abortAttempt()
			return err
		}
		w.failAttempt(err.Error())
		return err
	}

	if err := w.store.ApplyDepositConfirmed(ctx, newBalance); err != nil {
		w.failAttempt(err.Error())
		return err
	}

	w.logger.Info().
		Str("user_id", user.ID).
		Int64("baseline", baseline.Amount).
		Int64("new_balance", newBalance.Amount).
		Msg("deposit flow completed")

	w.completeAttempt()
	return nil
}

// Teardown stops any verification still in flight. Must be called when
// the owning view goes away so no timer outlives the wizard.
func (w *DepositWizard) Teardown() {
	w.pollerMu.Lock()
	defer w.pollerMu.Unlock()
	if w.poller != nil {
		w.poller.Stop()
	}
}
