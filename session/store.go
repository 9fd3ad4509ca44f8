// Package session holds the authenticated user between flows and across
// restarts. The store is the single source of truth for the balances
// shown anywhere in the client; only the login flow and a wizard acting
// on a confirmed backend result may write to it.
package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/adesokan/walletcore/models"
	"github.com/adesokan/walletcore/pkg/money"
	"github.com/adesokan/walletcore/utils"
)

// Session is the persisted shape: user, bearer token, auth flag.
type Session struct {
	User            *models.User `json:"user"`
	Token           string       `json:"token"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

// Persister saves a session under a fixed storage key so it survives
// restarts. Load returns (nil, nil) when nothing is stored.
type Persister interface {
	Save(ctx context.Context, s *Session) error
	Load(ctx context.Context) (*Session, error)
	Clear(ctx context.Context) error
}

type Store struct {
	mu        sync.RWMutex
	session   Session
	persister Persister
	logger    zerolog.Logger
}

func NewStore(persister Persister) *Store {
	return &Store{
		persister: persister,
		logger:    utils.ComponentLogger("session"),
	}
}

// Restore loads a previously persisted session, if any.
func (s *Store) Restore(ctx context.Context) error {
	loaded, err := s.persister.Load(ctx)
	if err != nil {
		return err
	}
	if loaded == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = *loaded
	return nil
}

func (s *Store) Login(ctx context.Context, user *models.User, token string) error {
	s.mu.Lock()
	u := *user
	s.session = Session{User: &u, Token: token, IsAuthenticated: true}
	s.mu.Unlock()

	s.logger.Info().Str("user_id", user.ID).Msg("session started")
	return s.persist(ctx)
}

func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.session = Session{}
	s.mu.Unlock()

	return s.persister.Clear(ctx)
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.IsAuthenticated
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

// CurrentUser returns a copy of the logged-in user, or nil. Callers
// must not hold onto it across renders; the store is the only place
// balance state lives.
func (s *Store) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session.User == nil {
		return nil
	}
	u := *s.session.User
	return &u
}

// UserPatch is a shallow merge of mutable profile fields. Balance
// fields are deliberately absent: balances only change through the
// ApplyDepositConfirmed and ApplyConversionConfirmed transitions.
type UserPatch struct {
	FirstName       *string
	LastName        *string
	Tier            *models.Tier
	BVNVerified     *bool
	NINVerified     *bool
	BankInformation *models.BankInformation
}

// UpdateUser merges the patch into the current user. No-op when no
// user is logged in.
func (s *Store) UpdateUser(ctx context.Context, patch UserPatch) error {
	s.mu.Lock()
	if s.session.User == nil {
		s.mu.Unlock()
		return nil
	}

	u := s.session.User
	if patch.FirstName != nil {
		u.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		u.LastName = *patch.LastName
	}
	if patch.Tier != nil {
		u.Tier = *patch.Tier
	}
	if patch.BVNVerified != nil {
		u.BVNVerified = *patch.BVNVerified
	}
	if patch.NINVerified != nil {
		u.NINVerified = *patch.NINVerified
	}
	if patch.BankInformation != nil {
		u.BankInformation = patch.BankInformation
	}
	s.mu.Unlock()

	return s.persist(ctx)
}

// ApplyDepositConfirmed records the naira balance confirmed by a
// successful deposit verification.
func (s *Store) ApplyDepositConfirmed(ctx context.Context, newBalance money.Money) error {
	if newBalance.Currency != money.NGN {
		return utils.BadRequestErr("deposit confirmation must carry an NGN balance")
	}

	s.mu.Lock()
	if s.session.User == nil {
		s.mu.Unlock()
		return utils.UnauthorizedErr("no user is logged in")
	}
	s.session.User.AccountBalance = newBalance.Amount
	userID := s.session.User.ID
	s.mu.Unlock()

	s.logger.Info().Str("user_id", userID).Int64("account_balance", newBalance.Amount).Msg("deposit confirmed")
	return s.persist(ctx)
}

// ApplyConversionConfirmed records both balances reported by a
// successful conversion: the debited naira side and the credited
// dollar side.
func (s *Store) ApplyConversionConfirmed(ctx context.Context, ngnBalance, usdBalance money.Money) error {
	if ngnBalance.Currency != money.NGN || usdBalance.Currency != money.USD {
		return utils.BadRequestErr("conversion confirmation must carry an NGN and a USD balance")
	}

	s.mu.Lock()
	if s.session.User == nil {
		s.mu.Unlock()
		return utils.UnauthorizedErr("no user is logged in")
	}
	s.session.User.AccountBalance = ngnBalance.Amount
	s.session.User.USDBalance = usdBalance.Amount
	userID := s.session.User.ID
	s.mu.Unlock()

	s.logger.Info().
		Str("user_id", userID).
		Int64("account_balance", ngnBalance.Amount).
		Int64("usd_balance", usdBalance.Amount).
		Msg("conversion confirmed")
	return s.persist(ctx)
}

func (s *Store) persist(ctx context.Context) error {
	s.mu.RLock()
	snapshot := s.session
	if snapshot.User != nil {
		u := *snapshot.User
		snapshot.User = &u
	}
	s.mu.RUnlock()

	if err := s.persister.Save(ctx, &snapshot); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist session")
		return err
	}
	return nil
}
