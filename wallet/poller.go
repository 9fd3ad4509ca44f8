package wallet

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/adesokan/walletcore/pkg/money"
	"github.com/adesokan/walletcore/utils"
)

// ErrVerificationTimeout is returned when the polling budget is
// exhausted without a balance increase. It does not mean the transfer
// is lost; a legitimate transfer may still post later.
var ErrVerificationTimeout = errors.New("we could not confirm your transfer yet; if you sent it, it may still arrive shortly")

type PollState string

const (
	PollStateIdle         PollState = "idle"
	PollStatePolling      PollState = "polling"
	PollStateExtendedWait PollState = "extended_wait"
	PollStateSucceeded    PollState = "succeeded"
	PollStateFailed       PollState = "failed"
)

var validPollTransitions = map[PollState][]PollState{
	PollStateIdle:         {PollStatePolling},
	PollStatePolling:      {PollStateExtendedWait, PollStateSucceeded},
	PollStateExtendedWait: {PollStateSucceeded, PollStateFailed},
	PollStateSucceeded:    {},
	PollStateFailed:       {},
}

func (s PollState) CanTransitionTo(next PollState) bool {
	for _, allowed := range validPollTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s PollState) IsTerminal() bool {
	return s == PollStateSucceeded || s == PollStateFailed
}

// BalanceFetcher is the single backend call the poller needs.
type BalanceFetcher interface {
	FetchBalance(ctx context.Context, userID string) (money.Money, error)
}

type PollerConfig struct {
	PollInterval     time.Duration
	CountdownBudget  time.Duration
	ExtendedInterval time.Duration
	ExtendedBudget   time.Duration
}

func DefaultPollerConfig() PollerConfig {
	return PollerConfig{
		PollInterval:     20 * time.Second,
		CountdownBudget:  5 * time.Minute,
		ExtendedInterval: 5 * time.Second,
		ExtendedBudget:   40 * time.Second,
	}
}

// BalancePoller confirms that a bank-transfer deposit has landed by
// repeatedly fetching the account balance and comparing it against the
// baseline captured when polling started. It polls at PollInterval
// until the countdown budget elapses, then switches to a tighter
// ExtendedInterval for one bounded extra window before giving up.
//
// A poller runs at most once. Stop cancels everything it started; a
// fetch that resolves after Stop is discarded without touching state.
type BalancePoller struct {
	fetcher BalanceFetcher
	cfg     PollerConfig
	logger  zerolog.Logger

	mu      sync.Mutex
	state   PollState
	cancel  context.CancelFunc
	stopped bool
	started bool
}

func NewBalancePoller(fetcher BalanceFetcher, cfg PollerConfig) *BalancePoller {
	return &BalancePoller{
		fetcher: fetcher,
		cfg:     cfg,
		logger:  utils.ComponentLogger("balance-poller"),
		state:   PollStateIdle,
	}
}

func (p *BalancePoller) State() PollState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Stop tears the poller down. All timers are released and any in-flight
// fetch result is discarded. Safe to call more than once, and safe to
// call on a poller that never ran.
func (p *BalancePoller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
	if p.cancel != nil {
		p.cancel()
	}
}

func (p *BalancePoller) transition(next PollState) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped && !next.IsTerminal() {
		return false
	}
	if !p.state.CanTransitionTo(next) {
		p.logger.Warn().Str("from", string(p.state)).Str("to", string(next)).Msg("invalid poll state transition")
		return false
	}
	p.state = next
	return true
}

// Run blocks until the deposit is confirmed, the budget is exhausted,
// or the context is cancelled. Poll attempts are strictly sequential; a
// failed check counts as "no change yet", not as a terminal failure.
func (p *BalancePoller) Run(ctx context.Context, userID string, baseline money.Money) (money.Money, error) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return money.Money{}, fmt.Errorf("poller already started")
	}
	if p.stopped {
		p.mu.Unlock()
		return money.Money{}, context.Canceled
	}
	p.started = true
	ctx, p.cancel = context.WithCancel(ctx)
	p.mu.Unlock()

	defer p.Stop()

	if !p.transition(PollStatePolling) {
		return money.Money{}, fmt.Errorf("poller cannot start from state %s", p.State())
	}

	p.logger.Info().
		Str("user_id", userID).
		Int64("baseline", baseline.Amount).
		Dur("poll_interval", p.cfg.PollInterval).
		Msg("balance verification started")

	countdown := time.NewTimer(p.cfg.CountdownBudget)
	defer countdown.Stop()

	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return money.Money{}, ctx.Err()
		case <-countdown.C:
			if !p.transition(PollStateExtendedWait) {
				return money.Money{}, ctx.Err()
			}
			p.logger.Info().Str("user_id", userID).Msg("countdown elapsed, entering extended wait")
			return p.runExtendedWait(ctx, userID, baseline)
		case <-ticker.C:
			if newBalance, ok := p.checkOnce(ctx, userID, baseline); ok {
				if !p.transition(PollStateSucceeded) {
					return money.Money{}, ctx.Err()
				}
				p.logger.Info().Str("user_id", userID).Int64("new_balance", newBalance.Amount).Msg("deposit confirmed")
				return newBalance, nil
			}
			if err := ctx.Err(); err != nil {
				return money.Money{}, err
			}
		}
	}
}

func (p *BalancePoller) runExtendedWait(ctx context.Context, userID string, baseline money.Money) (money.Money, error) {
	window := time.NewTimer(p.cfg.ExtendedBudget)
	defer window.Stop()

	ticker := time.NewTicker(p.cfg.ExtendedInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return money.Money{}, ctx.Err()
		case <-window.C:
			if !p.transition(PollStateFailed) {
				return money.Money{}, ctx.Err()
			}
			p.logger.Warn().Str("user_id", userID).Msg("balance verification budget exhausted")
			return money.Money{}, ErrVerificationTimeout
		case <-ticker.C:
			if newBalance, ok := p.checkOnce(ctx, userID, baseline); ok {
				if !p.transition(PollStateSucceeded) {
					return money.Money{}, ctx.Err()
				}
				p.logger.Info().Str("user_id", userID).Int64("new_balance", newBalance.Amount).Msg("deposit confirmed in extended wait")
				return newBalance, nil
			}
			if err := ctx.Err(); err != nil {
				return money.Money{}, err
			}
		}
	}
}

// checkOnce issues one balance fetch. A fetch error or an unchanged
// balance both report "no change yet"; results arriving after the
// poller was stopped are discarded.
func (p *BalancePoller) checkOnce(ctx context.Context, userID string, baseline money.Money) (money.Money, bool) {
	balance, err := p.fetcher.FetchBalance(ctx, userID)
	if ctx.Err() != nil {
		return money.Money{}, false
	}
	if err != nil {
		p.logger.Debug().Err(err).Str("user_id", userID).Msg("balance check failed, treating as no change yet")
		return money.Money{}, false
	}
	if balance.Currency == baseline.Currency && balance.Amount > baseline.Amount {
		return balance, true
	}
	return money.Money{}, false
}
