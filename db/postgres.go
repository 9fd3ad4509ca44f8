package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/adesokan/walletcore/models"
	"github.com/adesokan/walletcore/utils"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const userColumns = `id, email, first_name, last_name, account_balance, usd_balance, tier,
	bvn_verified, nin_verified, bank_name, bank_account_number, bank_account_name, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var (
		u                 models.User
		bankName          sql.NullString
		bankAccountNumber sql.NullString
		bankAccountName   sql.NullString
	)
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.AccountBalance, &u.USDBalance,
		&u.Tier, &u.BVNVerified, &u.NINVerified, &bankName, &bankAccountNumber, &bankAccountName,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if bankName.Valid {
		u.BankInformation = &models.BankInformation{
			BankName:      bankName.String,
			AccountNumber: bankAccountNumber.String,
			AccountName:   bankAccountName.String,
		}
	}
	return &u, nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User, passwordHash string) error {
	var bankName, bankAccountNumber, bankAccountName sql.NullString
	if user.BankInformation != nil {
		bankName = sql.NullString{String: user.BankInformation.BankName, Valid: true}
		bankAccountNumber = sql.NullString{String: user.BankInformation.AccountNumber, Valid: true}
		bankAccountName = sql.NullString{String: user.BankInformation.AccountName, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, first_name, last_name, account_balance, usd_balance,
			tier, bvn_verified, nin_verified, bank_name, bank_account_number, bank_account_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		user.ID, strings.ToLower(user.Email), passwordHash, user.FirstName, user.LastName,
		user.AccountBalance, user.USDBalance, user.Tier, user.BVNVerified, user.NINVerified,
		bankName, bankAccountNumber, bankAccountName)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicate
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, string, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+`, password_hash FROM users WHERE email = $1`, strings.ToLower(email))

	var (
		u                 models.User
		bankName          sql.NullString
		bankAccountNumber sql.NullString
		bankAccountName   sql.NullString
		passwordHash      string
	)
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.AccountBalance, &u.USDBalance,
		&u.Tier, &u.BVNVerified, &u.NINVerified, &bankName, &bankAccountNumber, &bankAccountName,
		&u.CreatedAt, &u.UpdatedAt, &passwordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}
	if bankName.Valid {
		u.BankInformation = &models.BankInformation{
			BankName:      bankName.String,
			AccountNumber: bankAccountNumber.String,
			AccountName:   bankAccountName.String,
		}
	}
	return &u, passwordHash, nil
}

func (s *PostgresStore) CreditAccountBalance(ctx context.Context, userID string, amount int64) (int64, error) {
	var newBalance int64
	err := s.db.QueryRowContext(ctx, `
		UPDATE users SET account_balance = account_balance + $1, updated_at = now()
		WHERE id = $2
		RETURNING account_balance`, amount, userID).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("credit account balance: %w", err)
	}
	return newBalance, nil
}

func (s *PostgresStore) ApplyConversion(ctx context.Context, userID string, debitKobo, creditCents int64) (*models.User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var balance int64
	err = tx.QueryRowContext(ctx,
		`SELECT account_balance FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock user: %w", err)
	}
	if balance < debitKobo {
		return nil, ErrInsufficientFunds
	}

	row := tx.QueryRowContext(ctx, `
		UPDATE users
		SET account_balance = account_balance - $1, usd_balance = usd_balance + $2, updated_at = now()
		WHERE id = $3
		RETURNING `+userColumns, debitKobo, creditCents, userID)
	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("apply conversion: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit conversion: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) MarkVerified(ctx context.Context, userID string, method string, tier models.Tier) error {
	column := ""
	switch method {
	case "bvn":
		column = "bvn_verified"
	case "nin":
		column = "nin_verified"
	default:
		_, err := s.db.ExecContext(ctx,
			`UPDATE users SET tier = $1, updated_at = now() WHERE id = $2`, tier, userID)
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET `+column+` = true, tier = $1, updated_at = now() WHERE id = $2`, tier, userID)
	if err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return ErrNotFound
	}
	return err
}

func (s *PostgresStore) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, reference, user_id, type, amount, currency, status, failure_reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.Reference, t.UserID, t.Type, t.Amount, t.Currency, t.Status, t.FailureReason, createdAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicate
		}
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetTransactionByReference(ctx context.Context, reference string) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, reference, user_id, type, amount, currency, status, failure_reason, created_at, updated_at
		FROM transactions WHERE reference = $1`, reference)

	var t models.Transaction
	err := row.Scan(&t.ID, &t.Reference, &t.UserID, &t.Type, &t.Amount, &t.Currency,
		&t.Status, &t.FailureReason, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &t, nil
}

func (s *PostgresStore) UpdateTransactionStatus(ctx context.Context, reference string, status models.TransactionStatus, failureReason *string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE transactions SET status = $1, failure_reason = $2, updated_at = now()
		WHERE reference = $3`, status, failureReason, reference)
	if err != nil {
		return fmt.Errorf("update transaction status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return ErrNotFound
	}
	return err
}

func (s *PostgresStore) ListTransactionsByUser(ctx context.Context, userID string, limit int, cursor *utils.Cursor) ([]*models.Transaction, error) {
	query := `
		SELECT id, reference, user_id, type, amount, currency, status, failure_reason, created_at, updated_at
		FROM transactions WHERE user_id = $1`
	args := []any{userID}

	if cursor != nil {
		query += ` AND (created_at, id) < ($2, $3)`
		args = append(args, cursor.CreatedAt, cursor.ID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT %d`, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.Reference, &t.UserID, &t.Type, &t.Amount, &t.Currency,
			&t.Status, &t.FailureReason, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
