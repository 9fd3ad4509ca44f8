// Package db is the simulator's storage layer. The Store interface has
// an in-memory implementation for tests and quick local runs, and a
// Postgres implementation for durable setups.
package db

import (
	"context"
	"errors"

	"github.com/adesokan/walletcore/models"
	"github.com/adesokan/walletcore/utils"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicate         = errors.New("record already exists")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

type Store interface {
	CreateUser(ctx context.Context, user *models.User, passwordHash string) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, string, error)

	// CreditAccountBalance adds kobo to a user's naira balance and
	// returns the new balance.
	CreditAccountBalance(ctx context.Context, userID string, amount int64) (int64, error)

	// ApplyConversion atomically debits the naira balance and credits
	// the dollar balance, returning the updated user.
	ApplyConversion(ctx context.Context, userID string, debitKobo, creditCents int64) (*models.User, error)

	// MarkVerified flags the given method as verified and upgrades the
	// user's tier.
	MarkVerified(ctx context.Context, userID string, method string, tier models.Tier) error

	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	GetTransactionByReference(ctx context.Context, reference string) (*models.Transaction, error)
	UpdateTransactionStatus(ctx context.Context, reference string, status models.TransactionStatus, failureReason *string) error
	ListTransactionsByUser(ctx context.Context, userID string, limit int, cursor *utils.Cursor) ([]*models.Transaction, error)

	Close() error
}
