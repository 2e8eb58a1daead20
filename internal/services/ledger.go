package services

import (
	"context"
	"errors"
	"fmt"

	"kharcha/internal/core"
	"kharcha/internal/rules"
	"kharcha/internal/storage"
)

// LedgerService validates and appends expense records.
//
// Unlike the raw store it checks the category against the owner's resolved
// rule, so an expense can only land in a bucket the owner's reports will
// show. Owners without an account fall back to the default rule's
// vocabulary.
type LedgerService struct {
	ledger   *storage.LedgerStore
	accounts *storage.AccountStore
	catalog  rules.Catalog
}

func NewLedgerService(ledger *storage.LedgerStore, accounts *storage.AccountStore, catalog rules.Catalog) *LedgerService {
	return &LedgerService{
		ledger:   ledger,
		accounts: accounts,
		catalog:  catalog,
	}
}

// Add appends one expense for owner.
func (s *LedgerService) Add(ctx context.Context, owner string, date core.Date, amount core.Money, reason, category string) (core.ExpenseRecord, error) {
	rec := core.ExpenseRecord{
		Owner:    owner,
		Date:     date,
		Amount:   amount,
		Reason:   reason,
		Category: category,
	}
	if err := rec.Validate(); err != nil {
		return core.ExpenseRecord{}, err
	}

	rule, err := s.resolveOwnerRule(ctx, owner)
	if err != nil {
		return core.ExpenseRecord{}, err
	}
	if !rule.HasCategory(category) {
		return core.ExpenseRecord{}, fmt.Errorf("%w: %q is not in rule %s", core.ErrUnknownCategory, category, rule.Name)
	}

	return s.ledger.Append(ctx, rec)
}

// List returns the owner's records in insertion order.
func (s *LedgerService) List(ctx context.Context, owner string) ([]core.ExpenseRecord, error) {
	return s.ledger.ListByOwner(ctx, owner)
}

// Version exposes the owner's ledger version for cache keying.
func (s *LedgerService) Version(ctx context.Context, owner string) (int64, error) {
	return s.ledger.Version(ctx, owner)
}

// Categories returns the category vocabulary the owner may record under.
func (s *LedgerService) Categories(ctx context.Context, owner string) ([]string, error) {
	rule, err := s.resolveOwnerRule(ctx, owner)
	if err != nil {
		return nil, err
	}
	return rule.Categories(), nil
}

func (s *LedgerService) resolveOwnerRule(ctx context.Context, owner string) (rules.Rule, error) {
	account, err := s.accounts.GetByUsername(ctx, owner)
	if errors.Is(err, core.ErrNotFound) {
		return s.catalog.Resolve(""), nil
	}
	if err != nil {
		return rules.Rule{}, err
	}
	return s.catalog.Resolve(account.RuleName), nil
}
