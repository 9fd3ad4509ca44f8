package wallet

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adesokan/walletcore/pkg/money"
)

// stubFetcher returns canned balances in order, repeating the last one
// once the script runs out.
type stubFetcher struct {
	mu       sync.Mutex
	balances []money.Money
	errs     []error
	calls    int
}

func (f *stubFetcher) FetchBalance(_ context.Context, _ string) (money.Money, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return money.Money{}, f.errs[i]
	}
	if i >= len(f.balances) {
		i = len(f.balances) - 1
	}
	return f.balances[i], nil
}

func (f *stubFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func fastConfig() PollerConfig {
	return PollerConfig{
		PollInterval:     5 * time.Millisecond,
		CountdownBudget:  500 * time.Millisecond,
		ExtendedInterval: 5 * time.Millisecond,
		ExtendedBudget:   500 * time.Millisecond,
	}
}

func TestPoller_SucceedsWhenBalanceRises(t *testing.T) {
	baseline := money.NewMoney(100000, money.NGN)
	fetcher := &stubFetcher{balances: []money.Money{
		baseline,
		baseline,
		money.NewMoney(150000, money.NGN),
	}}

	p := NewBalancePoller(fetcher, fastConfig())
	got, err := p.Run(context.Background(), "user-1", baseline)

	require.NoError(t, err)
	assert.Equal(t, int64(150000), got.Amount)
	assert.Equal(t, PollStateSucceeded, p.State())
}

func TestPoller_FetchErrorsAreNoChange(t *testing.T) {
	baseline := money.NewMoney(100000, money.NGN)
	fetcher := &stubFetcher{
		errs:     []error{errors.New("boom"), errors.New("boom")},
		balances: []money.Money{baseline, baseline, money.NewMoney(200000, money.NGN)},
	}

	p := NewBalancePoller(fetcher, fastConfig())
	got, err := p.Run(context.Background(), "user-1", baseline)

	require.NoError(t, err)
	assert.Equal(t, int64(200000), got.Amount)
	assert.GreaterOrEqual(t, fetcher.callCount(), 3)
}

func TestPoller_UnchangedBalanceTimesOut(t *testing.T) {
	baseline := money.NewMoney(100000, money.NGN)
	fetcher := &stubFetcher{balances: []money.Money{baseline}}

	cfg := fastConfig()
	cfg.CountdownBudget = 25 * time.Millisecond
	cfg.ExtendedBudget = 30 * time.Millisecond

	p := NewBalancePoller(fetcher, cfg)
	_, err := p.Run(context.Background(), "user-1", baseline)

	require.ErrorIs(t, err, ErrVerificationTimeout)
	assert.Equal(t, PollStateFailed, p.State())

	// Once failed, polling has stopped for good.
	calls := fetcher.callCount()
	time.Sleep(4 * cfg.PollInterval)
	assert.Equal(t, calls, fetcher.callCount())
}

func TestPoller_SucceedsDuringExtendedWait(t *testing.T) {
	baseline := money.NewMoney(100000, money.NGN)

	// The balance only rises well after the countdown has elapsed.
	script := make([]money.Money, 0, 12)
	for i := 0; i < 10; i++ {
		script = append(script, baseline)
	}
	script = append(script, money.NewMoney(130000, money.NGN))
	fetcher := &stubFetcher{balances: script}

	cfg := fastConfig()
	cfg.CountdownBudget = 20 * time.Millisecond

	p := NewBalancePoller(fetcher, cfg)
	got, err := p.Run(context.Background(), "user-1", baseline)

	require.NoError(t, err)
	assert.Equal(t, int64(130000), got.Amount)
	assert.Equal(t, PollStateSucceeded, p.State())
}

func TestPoller_StopCancelsRun(t *testing.T) {
	baseline := money.NewMoney(100000, money.NGN)
	fetcher := &stubFetcher{balances: []money.Money{baseline}}

	p := NewBalancePoller(fetcher, fastConfig())

	done := make(chan error, 1)
	go func() {
		_, err := p.Run(context.Background(), "user-1", baseline)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	p.Stop()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}

	// The terminal state is frozen; a late success cannot overwrite it.
	assert.NotEqual(t, PollStateSucceeded, p.State())
}

func TestPoller_RunsOnlyOnce(t *testing.T) {
	baseline := money.NewMoney(100, money.NGN)
	fetcher := &stubFetcher{balances: []money.Money{money.NewMoney(200, money.NGN)}}

	p := NewBalancePoller(fetcher, fastConfig())
	_, err := p.Run(context.Background(), "user-1", baseline)
	require.NoError(t, err)

	_, err = p.Run(context.Background(), "user-1", baseline)
	assert.Error(t, err)
}

func TestPoller_StopBeforeRun(t *testing.T) {
	p := NewBalancePoller(&stubFetcher{balances: []money.Money{{}}}, fastConfig())
	p.Stop()

	_, err := p.Run(context.Background(), "user-1", money.NewMoney(0, money.NGN))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPollState_Transitions(t *testing.T) {
	tests := []struct {
		from    PollState
		to      PollState
		allowed bool
	}{
		{PollStateIdle, PollStatePolling, true},
		{PollStatePolling, PollStateSucceeded, true},
		{PollStatePolling, PollStateExtendedWait, true},
		{PollStatePolling, PollStateFailed, false},
		{PollStateExtendedWait, PollStateSucceeded, true},
		{PollStateExtendedWait, PollStateFailed, true},
		{PollStateSucceeded, PollStatePolling, false},
		{PollStateFailed, PollStatePolling, false},
		{PollStateIdle, PollStateSucceeded, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}

	assert.True(t, PollStateSucceeded.IsTerminal())
	assert.True(t, PollStateFailed.IsTerminal())
	assert.False(t, PollStatePolling.IsTerminal())
}
