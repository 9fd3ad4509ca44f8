// Package services holds the simulator's server-side business logic:
// authentication, account operations, exchange rates, KYC verification
// and the settlement worker that credits inbound bank transfers.
package services

import (
	"context"

	"github.com/adesokan/walletcore/config"
	"github.com/adesokan/walletcore/db"
	"github.com/adesokan/walletcore/providers"
	"github.com/adesokan/walletcore/queue"
	"github.com/adesokan/walletcore/utils"
)

type Services struct {
	store     db.Store
	cfg       *config.Config
	queue     queue.Queue
	processor *providers.Processor
}

func NewServices(store db.Store, cfg *config.Config, q queue.Queue, processor *providers.Processor) *Services {
	return &Services{
		store:     store,
		cfg:       cfg,
		queue:     q,
		processor: processor,
	}
}

func (s *Services) StartWorkers(ctx context.Context) {
	worker := newSettlementWorker(s.store, s.queue)
	go func() {
		if err := worker.StartWorker(ctx); err != nil && ctx.Err() == nil {
			utils.Logger.Error().Err(err).Msg("settlement worker exited")
		}
	}()
}
