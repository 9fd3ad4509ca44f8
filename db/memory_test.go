package db

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adesokan/walletcore/models"
	"github.com/adesokan/walletcore/utils"
)

func seedUser(t *testing.T, store *MemoryStore, id string, balance int64) {
	t.Helper()
	err := store.CreateUser(context.Background(), &models.User{
		ID:             id,
		Email:          id + "@example.com",
		FirstName:      "Test",
		LastName:       "User",
		AccountBalance: balance,
		Tier:           models.TierIndividual,
	}, "hash")
	require.NoError(t, err)
}

func TestMemoryStore_Users(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	seedUser(t, store, "user-1", 100000)

	t.Run("get by id", func(t *testing.T) {
		user, err := store.GetUserByID(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, int64(100000), user.AccountBalance)
	})

	t.Run("get by email is case insensitive", func(t *testing.T) {
		user, hash, err := store.GetUserByEmail(ctx, "USER-1@Example.COM")
		require.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)
		assert.Equal(t, "hash", hash)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := store.GetUserByID(ctx, "ghost")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		err := store.CreateUser(ctx, &models.User{ID: "user-2", Email: "USER-1@example.com"}, "hash")
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("reads return copies", func(t *testing.T) {
		user, err := store.GetUserByID(ctx, "user-1")
		require.NoError(t, err)
		user.AccountBalance = 0

		again, err := store.GetUserByID(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, int64(100000), again.AccountBalance)
	})
}

func TestMemoryStore_CreditAccountBalance(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	seedUser(t, store, "user-1", 100000)

	balance, err := store.CreditAccountBalance(ctx, "user-1", 50000)
	require.NoError(t, err)
	assert.Equal(t, int64(150000), balance)

	_, err = store.CreditAccountBalance(ctx, "ghost", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ApplyConversion(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	seedUser(t, store, "user-1", 1000000)

	user, err := store.ApplyConversion(ctx, "user-1", 1000000, 931)
	require.NoError(t, err)
	assert.Equal(t, int64(0), user.AccountBalance)
	assert.Equal(t, int64(931), user.USDBalance)

	_, err = store.ApplyConversion(ctx, "user-1", 1, 1)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	_, err = store.ApplyConversion(ctx, "ghost", 1, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_MarkVerified(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	seedUser(t, store, "user-1", 0)

	require.NoError(t, store.MarkVerified(ctx, "user-1", "bvn", models.TierIndividual))
	require.NoError(t, store.MarkVerified(ctx, "user-1", "cac", models.TierBusiness))

	user, err := store.GetUserByID(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, user.BVNVerified)
	assert.Equal(t, models.TierBusiness, user.Tier)
}

func TestMemoryStore_Transactions(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	seedUser(t, store, "user-1", 0)

	tx := &models.Transaction{
		ID:        "tx-1",
		Reference: "DEP-abc",
		UserID:    "user-1",
		Type:      models.TransactionTypeDeposit,
		Amount:    50000,
		Currency:  "NGN",
		Status:    models.TransactionStatusPending,
	}
	require.NoError(t, store.CreateTransaction(ctx, tx))
	assert.ErrorIs(t, store.CreateTransaction(ctx, tx), ErrDuplicate)

	got, err := store.GetTransactionByReference(ctx, "DEP-abc")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPending, got.Status)

	require.NoError(t, store.UpdateTransactionStatus(ctx, "DEP-abc", models.TransactionStatusCompleted, nil))
	got, err = store.GetTransactionByReference(ctx, "DEP-abc")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCompleted, got.Status)

	assert.ErrorIs(t, store.UpdateTransactionStatus(ctx, "ghost", models.TransactionStatusFailed, nil), ErrNotFound)
}

func TestMemoryStore_ListTransactionsByUser(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	seedUser(t, store, "user-1", 0)

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.CreateTransaction(ctx, &models.Transaction{
			ID:        fmt.Sprintf("tx-%d", i),
			Reference: fmt.Sprintf("DEP-%d", i),
			UserID:    "user-1",
			Type:      models.TransactionTypeDeposit,
			Amount:    int64(i * 1000),
			Currency:  "NGN",
			Status:    models.TransactionStatusCompleted,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	// Another user's transaction never shows up.
	require.NoError(t, store.CreateTransaction(ctx, &models.Transaction{
		ID: "tx-x", Reference: "DEP-x", UserID: "user-2", CreatedAt: base,
	}))

	page, err := store.ListTransactionsByUser(ctx, "user-1", 3, nil)
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, "tx-4", page[0].ID)
	assert.Equal(t, "tx-2", page[2].ID)

	cursor := &utils.Cursor{CreatedAt: page[2].CreatedAt, ID: page[2].ID}
	rest, err := store.ListTransactionsByUser(ctx, "user-1", 3, cursor)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Equal(t, "tx-1", rest[0].ID)
	assert.Equal(t, "tx-0", rest[1].ID)
}
