package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/adesokan/walletcore/db"
	"github.com/adesokan/walletcore/models"
	"github.com/adesokan/walletcore/queue"
	"github.com/adesokan/walletcore/utils"
)

const (
	workerPollInterval = 2 * time.Second
	dequeueTimeout     = 5 * time.Second
)

// settlementWorker drains the settlement queue and credits inbound bank
// transfers once their settle-at time has passed. Jobs picked up early
// go back on the queue.
type settlementWorker struct {
	store db.Store
	queue queue.Queue
}

func newSettlementWorker(store db.Store, q queue.Queue) *settlementWorker {
	return &settlementWorker{store: store, queue: q}
}

func (w *settlementWorker) StartWorker(ctx context.Context) error {
	ticker := time.NewTicker(workerPollInterval)
	defer ticker.Stop()

	utils.Logger.Info().Msg("settlement worker started")

	for {
		select {
		case <-ctx.Done():
			utils.Logger.Info().Msg("settlement worker stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := w.queue.Process(ctx, queue.JobTypeSettlement, w.handleJob, dequeueTimeout); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				utils.Logger.Error().Err(err).Msg("settlement job failed")
			}
		}
	}
}

func (w *settlementWorker) handleJob(ctx context.Context, job *queue.Job) error {
	var payload queue.SettlementJobPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal settlement payload: %w", err)
	}

	if remaining := time.Until(payload.SettleAt); remaining > 0 {
		// Not due yet. Requeue without counting an attempt.
		return w.queue.Retry(ctx, job)
	}

	newBalance, err := w.store.CreditAccountBalance(ctx, payload.UserID, payload.Amount)
	if err != nil {
		return fmt.Errorf("credit balance for %s: %w", payload.Reference, err)
	}

	if err := w.store.UpdateTransactionStatus(ctx, payload.Reference, models.TransactionStatusCompleted, nil); err != nil {
		return fmt.Errorf("mark %s completed: %w", payload.Reference, err)
	}

	utils.Logger.Info().
		Str("trace_id", payload.TraceID).
		Str("user_id", payload.UserID).
		Str("reference", payload.Reference).
		Int64("amount", payload.Amount).
		Int64("new_balance", newBalance).
		Msg("bank transfer settled")

	return nil
}
