// Package services orchestrates the stores, the rule catalog and the
// outbound collaborators into the operations the transport layer exposes.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"kharcha/internal/amqp"
	"kharcha/internal/auth"
	"kharcha/internal/core"
	"kharcha/internal/rules"
	"kharcha/internal/storage"
)

// VerificationPublisher hands a freshly issued token to the mail pipeline.
type VerificationPublisher interface {
	PublishVerification(ctx context.Context, msg *amqp.VerificationMessage) error
}

// AccountService implements registration, authentication and verification.
type AccountService struct {
	accounts            *storage.AccountStore
	catalog             rules.Catalog
	hasher              auth.PasswordHasher
	tokens              auth.TokenSource
	publisher           VerificationPublisher // may be nil
	verificationEnabled bool
}

func NewAccountService(accounts *storage.AccountStore, catalog rules.Catalog, hasher auth.PasswordHasher, tokens auth.TokenSource, publisher VerificationPublisher, verificationEnabled bool) *AccountService {
	return &AccountService{
		accounts:            accounts,
		catalog:             catalog,
		hasher:              hasher,
		tokens:              tokens,
		publisher:           publisher,
		verificationEnabled: verificationEnabled,
	}
}

// RegisterParams carries the registration form fields.
type RegisterParams struct {
	Username string
	Secret   string
	Email    string
	Income   core.Money
	RuleName string
}

// Register creates a new account. When verification is enabled the account
// starts unverified with a fresh single-use token and a mail message is
// published; publishing failures do not fail the registration, the account
// simply stays unverified until the mail is retried out of band.
func (s *AccountService) Register(ctx context.Context, p RegisterParams) (core.Account, error) {
	if strings.TrimSpace(p.Username) == "" {
		return core.Account{}, core.ErrEmptyUsername
	}
	if p.Secret == "" {
		return core.Account{}, core.ErrEmptySecret
	}
	if p.Income.Cents < 0 {
		return core.Account{}, core.ErrNegativeIncome
	}

	hash, err := s.hasher.Hash(p.Secret)
	if err != nil {
		return core.Account{}, fmt.Errorf("hash credential: %w", err)
	}

	account := core.Account{
		Username:     p.Username,
		PasswordHash: hash,
		Email:        p.Email,
		Income:       p.Income,
		RuleName:     p.RuleName,
		IsVerified:   true,
	}
	if s.verificationEnabled {
		account.IsVerified = false
		account.VerificationToken = s.tokens.NewToken()
	}

	created, err := s.accounts.Create(ctx, account)
	if err != nil {
		return core.Account{}, err
	}

	if s.verificationEnabled && s.publisher != nil {
		msg := amqp.NewVerificationMessage(created.Username, created.Email, created.VerificationToken)
		if err := s.publisher.PublishVerification(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to publish verification message",
				"username", created.Username, "error", err)
		}
	}

	return created, nil
}

// Authenticate checks a username/secret pair. Absent accounts and hash
// mismatches are indistinguishable to the caller; an unverified account with
// correct credentials is reported as such.
func (s *AccountService) Authenticate(ctx context.Context, username, secret string) (core.Account, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if err == core.ErrNotFound {
			return core.Account{}, core.ErrInvalidCredentials
		}
		return core.Account{}, err
	}

	if !s.hasher.Verify(account.PasswordHash, secret) {
		return core.Account{}, core.ErrInvalidCredentials
	}

	if s.verificationEnabled && !account.IsVerified {
		return core.Account{}, core.ErrUnverifiedAccount
	}

	return account, nil
}

// Get returns the account with the given username.
func (s *AccountService) Get(ctx context.Context, username string) (core.Account, error) {
	return s.accounts.GetByUsername(ctx, username)
}

// Verify redeems a verification token.
func (s *AccountService) Verify(ctx context.Context, token string) (core.Account, error) {
	return s.accounts.MarkVerified(ctx, token)
}

// RuleNames lists the catalog's rules for registration forms.
func (s *AccountService) RuleNames() []string {
	return s.catalog.Names()
}
