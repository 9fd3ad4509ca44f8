package wallet

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/adesokan/walletcore/api"
	"github.com/adesokan/walletcore/pkg/fees"
	"github.com/adesokan/walletcore/pkg/money"
	"github.com/adesokan/walletcore/session"
	"github.com/adesokan/walletcore/utils"
)

// ConversionWizard drives the naira-to-dollar conversion flow. The
// exchange rate is fetched once when the flow mounts and held locally;
// if the fetch failed the flow stays blocked rather than falling back
// to a stale or default rate.
type ConversionWizard struct {
	wizardCore

	store   *session.Store
	backend api.Backend
	gateway *RateGateway
	logger  zerolog.Logger

	rateMu     sync.Mutex
	rate       decimal.Decimal
	rateLoaded bool

	feesMu sync.Mutex
	fees   fees.FeeBreakdown
}

func NewConversionWizard(store *session.Store, backend api.Backend) *ConversionWizard {
	return &ConversionWizard{
		wizardCore: newWizardCore(),
		store:      store,
		backend:    backend,
		gateway:    NewRateGateway(backend),
		logger:     utils.ComponentLogger("conversion-wizard"),
	}
}

// LoadRate fetches the rate for this flow. Single attempt; on failure
// the wizard reports the rate as unavailable and blocks continuation
// until a reload succeeds.
func (w *ConversionWizard) LoadRate(ctx context.Context) error {
	rate, err := w.gateway.FetchRate(ctx)

	w.rateMu.Lock()
	defer w.rateMu.Unlock()

	if err != nil {
		w.rate = decimal.Zero
		w.rateLoaded = false
		w.setInlineError("exchange rate unavailable, please try again")
		return err
	}

	w.rate = rate
	w.rateLoaded = true
	return nil
}

// Rate returns the held rate and whether one is available.
func (w *ConversionWizard) Rate() (decimal.Decimal, bool) {
	w.rateMu.Lock()
	defer w.rateMu.Unlock()
	return w.rate, w.rateLoaded
}

// SetAmount records the gross naira amount and recomputes the USD fee
// breakdown at the held rate.
func (w *ConversionWizard) SetAmount(input string) {
	w.setAmountInput(input)

	rate, ok := w.Rate()

	w.feesMu.Lock()
	defer w.feesMu.Unlock()

	if !ok {
		w.fees = fees.FeeBreakdown{}
		w.setInlineError("exchange rate unavailable, please try again")
		return
	}

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

	breakdown, err := fees.ComputeConversionFee(money.FromDecimal(gross, money.NGN), rate, fees.NGNToUSD)
	if err != nil {
		w.fees = fees.FeeBreakdown{}
		w.setInlineError(err.Error())
		return
	}

	w.fees = breakdown
	w.setInlineError("")
}

func (w *ConversionWizard) Fees() fees.FeeBreakdown {
	w.feesMu.Lock()
	defer w.feesMu.Unlock()
	return w.fees
}

// CanContinue requires a valid amount, an available rate, and a post-fee
// amount at or above the conversion minimum.
func (w *ConversionWizard) CanContinue() bool {
	rate, ok := w.Rate()
	if !ok {
		return false
	}
	if !ValidAmountInput(w.AmountInput()) {
		return false
	}
	return fees.MeetsConversionMinimum(w.Fees(), fees.NGNToUSD, rate)
}

func (w *ConversionWizard) Continue() error {
	if !w.CanContinue() {
		msg := fmt.Sprintf("converted amount after fees must be at least %s", fees.MinConversionNetUSD)
		if _, ok := w.Rate(); !ok {
			msg = "exchange rate unavailable, please try again"
		}
		w.setInlineError(msg)
		return errors.New(msg)
	}
	return w.advance()
}

// Confirm executes the conversion. Preconditions (rate available,
// sufficient naira balance) are checked against current session state
// before any backend call; a rejection or transient failure marks the
// attempt failed without corrupting wizard state, so the user can
// retry from the same step.
func (w *ConversionWizard) Confirm(ctx context.Context) error {
	user := w.store.CurrentUser()
	if user == nil {
		return utils.UnauthorizedErr("no user is logged in")
	}

	if err := w.beginAttempt(); err != nil {
		return err
	}

	rate, ok := w.Rate()
	if !ok {
		w.failAttempt("exchange rate unavailable, please try again")
		return errors.New("exchange rate unavailable")
	}

	gross, err := decimal.NewFromString(w.AmountInput())
	if err != nil || !ValidAmountInput(w.AmountInput()) {
		w.failAttempt("enter a valid amount with at most two decimal places")
		return errors.New("invalid amount")
	}
	grossNGN := money.FromDecimal(gross, money.NGN)

	// The naira balance on the session user is the authoritative
	// balance for this check.
	if user.AccountBalance < grossNGN.Amount {
		deficit := money.NewMoney(grossNGN.Amount-user.AccountBalance, money.NGN)
		msg := fmt.Sprintf("insufficient balance: you need %s more to convert %s", deficit, grossNGN)
		w.failAttempt(msg)
		return errors.New(msg)
	}

	usdGross := money.FromDecimal(grossNGN.Decimal().Div(rate), money.USD)

	result, err := w.backend.DepositUSD(ctx, usdGross)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			w.abortAttempt()
			return err
		}
		w.failAttempt(err.Error())
		return err
	}

	status, err := w.backend.GetUSDStatus(ctx, result.NewTrx.Reference)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			w.abortAttempt()
			return err
		}
		w.failAttempt(err.Error())
		return err
	}

	if err := w.store.ApplyConversionConfirmed(ctx, result.AccountBalance, status.Balance); err != nil {
		w.failAttempt(err.Error())
		return err
	}

	w.logger.Info().
		Str("user_id", user.ID).
		Str("reference", result.NewTrx.Reference).
		Int64("usd_credited", result.NewTrx.Amount).
		Msg("conversion flow completed")

	w.completeAttempt()
	return nil
}
