package db

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/adesokan/walletcore/models"
	"github.com/adesokan/walletcore/utils"
)

type MemoryStore struct {
	mu           sync.RWMutex
	users        map[string]*models.User
	passwords    map[string]string // userID -> bcrypt hash
	emailIndex   map[string]string // lowercased email -> userID
	transactions map[string]*models.Transaction // reference -> tx
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        make(map[string]*models.User),
		passwords:    make(map[string]string),
		emailIndex:   make(map[string]string),
		transactions: make(map[string]*models.Transaction),
	}
}

func (s *MemoryStore) CreateUser(_ context.Context, user *models.User, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, exists := s.emailIndex[email]; exists {
		return ErrDuplicate
	}

	u := *user
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	s.users[u.ID] = &u
	s.passwords[u.ID] = passwordHash
	s.emailIndex[email] = u.ID
	return nil
}

func (s *MemoryStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u := *user
	return &u, nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emailIndex[strings.ToLower(email)]
	if !ok {
		return nil, "", ErrNotFound
	}
	u := *s.users[id]
	return &u, s.passwords[id], nil
}

func (s *MemoryStore) CreditAccountBalance(_ context.Context, userID string, amount int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return 0, ErrNotFound
	}
	user.AccountBalance += amount
	user.UpdatedAt = time.Now().UTC()
	return user.AccountBalance, nil
}

func (s *MemoryStore) ApplyConversion(_ context.Context, userID string, debitKobo, creditCents int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	if user.AccountBalance < debitKobo {
		return nil, ErrInsufficientFunds
	}
	user.AccountBalance -= debitKobo
	user.USDBalance += creditCents
	user.UpdatedAt = time.Now().UTC()

	u := *user
	return &u, nil
}

func (s *MemoryStore) MarkVerified(_ context.Context, userID string, method string, tier models.Tier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	switch method {
	case "bvn":
		user.BVNVerified = true
	case "nin":
		user.NINVerified = true
	}
	user.Tier = tier
	user.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) CreateTransaction(_ context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.transactions[tx.Reference]; exists {
		return ErrDuplicate
	}
	t := *tx
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	s.transactions[t.Reference] = &t
	return nil
}

func (s *MemoryStore) GetTransactionByReference(_ context.Context, reference string) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.transactions[reference]
	if !ok {
		return nil, ErrNotFound
	}
	t := *tx
	return &t, nil
}

func (s *MemoryStore) UpdateTransactionStatus(_ context.Context, reference string, status models.TransactionStatus, failureReason *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.transactions[reference]
	if !ok {
		return ErrNotFound
	}
	tx.Status = status
	tx.FailureReason = failureReason
	tx.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) ListTransactionsByUser(_ context.Context, userID string, limit int, cursor *utils.Cursor) ([]*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []*models.Transaction
	for _, tx := range s.transactions {
		if tx.UserID != userID {
			continue
		}
		t := *tx
		all = append(all, &t)
	}

	// Newest first, ID as tiebreaker, matching the Postgres ordering.
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	var out []*models.Transaction
	for _, tx := range all {
		if cursor != nil {
			if tx.CreatedAt.After(cursor.CreatedAt) {
				continue
			}
			if tx.CreatedAt.Equal(cursor.CreatedAt) && tx.ID >= cursor.ID {
				continue
			}
		}
		out = append(out, tx)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
