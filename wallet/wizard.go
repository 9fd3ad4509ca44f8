// Package wallet implements the client-side transaction flows: the
// multi-step wizards for funding and conversion, the balance
// verification poller, the exchange-rate gateway and KYC verification
// dispatch. Flows talk to the backend through api.Backend and publish
// confirmed state changes through the session store, which is the only
// component allowed to mutate the current user.
package wallet

import (
	"fmt"
	"regexp"
	"sync"
)

type Step int

const (
	StepConfigure Step = iota + 1
	StepConfirm
	StepResult
)

type AttemptStatus string

const (
	StatusIdle      AttemptStatus = "idle"
	StatusPending   AttemptStatus = "pending"
	StatusCompleted AttemptStatus = "completed"
	StatusFailed    AttemptStatus = "failed"
)

// A syntactically valid amount is a non-negative decimal with at most
// two fraction digits.
var amountPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

func ValidAmountInput(input string) bool {
	return amountPattern.MatchString(input)
}

// wizardCore holds the step/status state shared by the deposit and
// conversion wizards. Steps only move forward except for the explicit
// Back and Reset operations; each attempt's status is one-directional
// (idle → pending → completed or failed) and a retry returns to idle
// before pending can be re-entered.
type wizardCore struct {
	mu          sync.Mutex
	step        Step
	status      AttemptStatus
	amountInput string
	inlineError string
}

func newWizardCore() wizardCore {
	return wizardCore{step: StepConfigure, status: StatusIdle}
}

func (w *wizardCore) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

func (w *wizardCore) Status() AttemptStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

func (w *wizardCore) AmountInput() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.amountInput
}

// InlineError is the message currently shown next to the active step,
// empty when there is none.
func (w *wizardCore) InlineError() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inlineError
}

func (w *wizardCore) setInlineError(msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.inlineError = msg
}

// beginAttempt moves status to pending. Only valid on the confirm step
// with no attempt in flight.
func (w *wizardCore) beginAttempt() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepConfirm {
		return fmt.Errorf("confirm is only available on step %d, currently on step %d", StepConfirm, w.step)
	}
	if w.status != StatusIdle {
		return fmt.Errorf("an attempt is already %s; retry first", w.status)
	}
	w.status = StatusPending
	w.inlineError = ""
	return nil
}

// completeAttempt marks the attempt successful and advances to the
// result step. Callers must have applied the confirmed backend state to
// the session store before calling this: the result step must never be
// visible while the store still holds the pre-transaction balance.
func (w *wizardCore) completeAttempt() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status = StatusCompleted
	w.step = StepResult
	w.inlineError = ""
}

func (w *wizardCore) failAttempt(msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status = StatusFailed
	w.inlineError = msg
}

// abortAttempt rolls a cancelled attempt back to idle. Cancellation is
// a teardown, not an outcome, so it does not count as a failure.
func (w *wizardCore) abortAttempt() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.status == StatusPending {
		w.status = StatusIdle
	}
}

func (w *wizardCore) advance() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepConfigure {
		return fmt.Errorf("continue is only available on step %d", StepConfigure)
	}
	w.step = StepConfirm
	w.inlineError = ""
	return nil
}

// Back returns from the confirm step to the configure step. Entered
// data is kept.
func (w *wizardCore) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepConfirm {
		return fmt.Errorf("back is only available on step %d", StepConfirm)
	}
	if w.status == StatusPending {
		return fmt.Errorf("cannot go back while an attempt is pending")
	}
	w.step = StepConfigure
	w.status = StatusIdle
	w.inlineError = ""
	return nil
}

// Retry clears a failed attempt so confirm can be re-triggered. The
// user stays on the confirm step with entered data intact.
func (w *wizardCore) Retry() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.status != StatusFailed {
		return fmt.Errorf("retry is only available after a failed attempt")
	}
	w.status = StatusIdle
	w.inlineError = ""
	return nil
}

// Reset starts a fresh transaction from the result step.
func (w *wizardCore) Reset() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepResult {
		return fmt.Errorf("reset is only available on step %d", StepResult)
	}
	w.step = StepConfigure
	w.status = StatusIdle
	w.amountInput = ""
	w.inlineError = ""
	return nil
}

func (w *wizardCore) setAmountInput(input string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.amountInput = input
}
