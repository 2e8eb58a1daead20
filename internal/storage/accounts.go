package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"kharcha/internal/core"
)

// AccountStore is the durable table of registered accounts.
type AccountStore struct {
	db *DB
	mu sync.Mutex // serializes mutations; reads run concurrently
}

func NewAccountStore(db *DB) *AccountStore {
	return &AccountStore{db: db}
}

const accountColumns = `username, password_hash, email, income_cents, rule_name, verification_token, is_verified, created_at, updated_at`

// Create persists a new account. The uniqueness check and the insert run in
// one transaction under the store lock, so two concurrent registrations with
// the same username cannot both succeed.
func (s *AccountStore) Create(ctx context.Context, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return core.Account{}, fmt.Errorf("begin create account: %w", err)
	}
	defer tx.Rollback()

	var taken int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE username = ?`, a.Username,
	).Scan(&taken); err != nil {
		return core.Account{}, fmt.Errorf("check username: %w", err)
	}
	if taken > 0 {
		return core.Account{}, core.ErrUsernameTaken
	}

	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO accounts (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Username, a.PasswordHash, a.Email, a.Income.Cents, a.RuleName,
		nullIfEmpty(a.VerificationToken), a.IsVerified, a.CreatedAt, a.UpdatedAt,
	); err != nil {
		return core.Account{}, fmt.Errorf("insert account: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return core.Account{}, fmt.Errorf("commit create account: %w", err)
	}

	slog.InfoContext(ctx, "Account created",
		"username", a.Username,
		"rule", a.RuleName,
		"verified", a.IsVerified)

	return a, nil
}

// GetByUsername looks an account up by exact, case-sensitive username.
func (s *AccountStore) GetByUsername(ctx context.Context, username string) (core.Account, error) {
	row := s.db.conn.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE username = ?`, username)
	return scanAccount(row)
}

// MarkVerified redeems a verification token. The token is consumed: the row
// is flipped to verified and the token cleared in one update, so a second
// redemption of the same token fails with ErrInvalidToken.
func (s *AccountStore) MarkVerified(ctx context.Context, token string) (core.Account, error) {
	if token == "" {
		return core.Account{}, core.ErrInvalidToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return core.Account{}, fmt.Errorf("begin mark verified: %w", err)
	}
	defer tx.Rollback()

	var username string
	err = tx.QueryRowContext(ctx,
		`SELECT username FROM accounts WHERE verification_token = ?`, token,
	).Scan(&username)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, core.ErrInvalidToken
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("find token: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE accounts SET is_verified = 1, verification_token = NULL, updated_at = ? WHERE username = ?`,
		time.Now().UTC(), username,
	); err != nil {
		return core.Account{}, fmt.Errorf("mark verified: %w", err)
	}

	row := tx.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE username = ?`, username)
	account, err := scanAccount(row)
	if err != nil {
		return core.Account{}, err
	}

	if err := tx.Commit(); err != nil {
		return core.Account{}, fmt.Errorf("commit mark verified: %w", err)
	}

	slog.InfoContext(ctx, "Account verified", "username", username)

	return account, nil
}

func scanAccount(row *sql.Row) (core.Account, error) {
	var a core.Account
	var token sql.NullString
	err := row.Scan(&a.Username, &a.PasswordHash, &a.Email, &a.Income.Cents,
		&a.RuleName, &token, &a.IsVerified, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, core.ErrNotFound
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("scan account: %w", err)
	}
	a.VerificationToken = token.String
	return a, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
