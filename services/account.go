package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/adesokan/walletcore/config"
	"github.com/adesokan/walletcore/db"
	"github.com/adesokan/walletcore/models"
	"github.com/adesokan/walletcore/pkg/fees"
	"github.com/adesokan/walletcore/pkg/money"
	"github.com/adesokan/walletcore/queue"
	"github.com/adesokan/walletcore/utils"
)

type ConversionResult struct {
	Transaction *models.Transaction
	User        *models.User
}

type AccountService interface {
	GetUser(ctx context.Context, id string) (*models.User, error)

	// RegisterBankTransfer records an inbound naira transfer that will
	// be credited once the settlement delay elapses.
	RegisterBankTransfer(ctx context.Context, userID string, amount money.Money) (*models.Transaction, error)

	// ExecuteConversion debits the naira gross and credits the post-fee
	// dollar amount at the current rate.
	ExecuteConversion(ctx context.Context, userID string, usdGross money.Money) (*ConversionResult, error)

	GetUSDStatus(ctx context.Context, reference string) (*models.Transaction, *models.User, error)
	ListTransactions(ctx context.Context, userID string, limit int, cursor *utils.Cursor) ([]*models.Transaction, *string, error)
}

type accountService struct {
	store db.Store
	cfg   *config.Config
	queue queue.Queue
	rates RateService
}

func (s *Services) Account() AccountService {
	return &accountService{
		store: s.store,
		cfg:   s.cfg,
		queue: s.queue,
		rates: s.Rates(),
	}
}

func (as *accountService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := as.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, utils.NotFoundErr("user not found")
		}
		return nil, utils.ServerErr(fmt.Errorf("get user: %w", err))
	}
	return user, nil
}

func (as *accountService) RegisterBankTransfer(ctx context.Context, userID string, amount money.Money) (*models.Transaction, error) {
	if amount.Currency != money.NGN {
		return nil, utils.BadRequestErr("bank transfers must be in NGN")
	}
	if !amount.IsPositive() {
		return nil, utils.BadRequestErr("transfer amount must be positive")
	}

	if _, err := as.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	tx := &models.Transaction{
		ID:        uuid.New().String(),
		Reference: fmt.Sprintf("DEP-%s", uuid.New().String()[:8]),
		UserID:    userID,
		Type:      models.TransactionTypeDeposit,
		Amount:    amount.Amount,
		Currency:  amount.Currency.String(),
		Status:    models.TransactionStatusPending,
	}
	if err := as.store.CreateTransaction(ctx, tx); err != nil {
		return nil, utils.ServerErr(fmt.Errorf("create transaction: %w", err))
	}

	payload := queue.SettlementJobPayload{
		TraceID:   utils.TraceIDFromContext(ctx),
		UserID:    userID,
		Reference: tx.Reference,
		Amount:    tx.Amount,
		Currency:  tx.Currency,
		SettleAt:  time.Now().Add(as.cfg.SettlementDelay),
	}
	if err := as.queue.Enqueue(ctx, queue.JobTypeSettlement, payload); err != nil {
		return nil, utils.ServerErr(fmt.Errorf("enqueue settlement: %w", err))
	}

	return tx, nil
}

func (as *accountService) ExecuteConversion(ctx context.Context, userID string, usdGross money.Money) (*ConversionResult, error) {
	if usdGross.Currency != money.USD {
		return nil, utils.BadRequestErr("conversion amount must be in USD")
	}
	if !usdGross.IsPositive() {
		return nil, utils.BadRequestErr("conversion amount must be positive")
	}

	rate, err := as.rates.Current(ctx)
	if err != nil {
		return nil, utils.ServerErr(fmt.Errorf("fetch rate: %w", err))
	}

	grossNGN := money.FromDecimal(usdGross.Decimal().Mul(rate), money.NGN)

	breakdown, err := fees.ComputeConversionFee(grossNGN, rate, fees.NGNToUSD)
	if err != nil {
		return nil, utils.BadRequestErr(err.Error())
	}
	if !fees.MeetsConversionMinimum(breakdown, fees.NGNToUSD, rate) {
		return nil, utils.BadRequestErr(fmt.Sprintf("converted amount after fees must be at least %s", fees.MinConversionNetUSD))
	}

	user, err := as.store.ApplyConversion(ctx, userID, grossNGN.Amount, breakdown.Net.Amount)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			return nil, utils.NotFoundErr("user not found")
		case errors.Is(err, db.ErrInsufficientFunds):
			return nil, utils.BadRequestErr("insufficient balance for this conversion")
		default:
			return nil, utils.ServerErr(fmt.Errorf("apply conversion: %w", err))
		}
	}

	tx := &models.Transaction{
		ID:        uuid.New().String(),
		Reference: fmt.Sprintf("CNV-%s", uuid.New().String()[:8]),
		UserID:    userID,
		Type:      models.TransactionTypeConversion,
		Amount:    breakdown.Net.Amount,
		Currency:  money.USD.String(),
		Status:    models.TransactionStatusCompleted,
	}
	if err := as.store.CreateTransaction(ctx, tx); err != nil {
		return nil, utils.ServerErr(fmt.Errorf("create transaction: %w", err))
	}

	utils.Logger.Info().
		Str("trace_id", utils.TraceIDFromContext(ctx)).
		Str("user_id", userID).
		Str("reference", tx.Reference).
		Int64("gross_ngn", grossNGN.Amount).
		Int64("net_usd", breakdown.Net.Amount).
		Msg("conversion executed")

	return &ConversionResult{Transaction: tx, User: user}, nil
}

func (as *accountService) GetUSDStatus(ctx context.Context, reference string) (*models.Transaction, *models.User, error) {
	tx, err := as.store.GetTransactionByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, nil, utils.NotFoundErr("transaction not found")
		}
		return nil, nil, utils.ServerErr(fmt.Errorf("get transaction: %w", err))
	}

	user, err := as.GetUser(ctx, tx.UserID)
	if err != nil {
		return nil, nil, err
	}
	return tx, user, nil
}

func (as *accountService) ListTransactions(ctx context.Context, userID string, limit int, cursor *utils.Cursor) ([]*models.Transaction, *string, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	txs, err := as.store.ListTransactionsByUser(ctx, userID, limit, cursor)
	if err != nil {
		return nil, nil, utils.ServerErr(fmt.Errorf("list transactions: %w", err))
	}

	var nextCursor *string
	if len(txs) == limit {
		last := txs[len(txs)-1]
		encoded := utils.EncodeCursor(last.CreatedAt, last.ID)
		nextCursor = &encoded
	}
	return txs, nextCursor, nil
}
