package services

import (
	"context"
	"sort"

	"kharcha/internal/core"
	"kharcha/internal/rules"
	"kharcha/internal/storage"
)

// ReportService computes the read-side aggregates: per-category totals,
// per-day totals and the actual-vs-ideal comparison. Everything is
// recomputed from the ledger on each call; for a fixed ledger the results
// are deterministic, order included.
type ReportService struct {
	ledger   *storage.LedgerStore
	accounts *storage.AccountStore
	catalog  rules.Catalog
}

func NewReportService(ledger *storage.LedgerStore, accounts *storage.AccountStore, catalog rules.Catalog) *ReportService {
	return &ReportService{
		ledger:   ledger,
		accounts: accounts,
		catalog:  catalog,
	}
}

// CategoryTotals sums the owner's expenses per category. Every category of
// the owner's resolved rule is present, zero when nothing was spent there.
// Categories recorded under older, laxer validation stay visible too.
func (s *ReportService) CategoryTotals(ctx context.Context, owner string) (map[string]core.Money, error) {
	account, err := s.accounts.GetByUsername(ctx, owner)
	if err != nil {
		return nil, err
	}
	rule := s.catalog.Resolve(account.RuleName)

	records, err := s.ledger.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]core.Money, len(rule.Shares))
	for _, category := range rule.Categories() {
		totals[category] = core.Money{}
	}
	for _, rec := range records {
		totals[rec.Category] = totals[rec.Category].Add(rec.Amount)
	}

	return totals, nil
}

// DailyTotals sums the owner's expenses per calendar date, ascending, one
// entry per date with at least one expense.
func (s *ReportService) DailyTotals(ctx context.Context, owner string) ([]core.DailyTotal, error) {
	records, err := s.ledger.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]core.DailyTotal)
	for _, rec := range records {
		key := rec.Date.String()
		entry, ok := byDate[key]
		if !ok {
			entry = core.DailyTotal{Date: rec.Date}
		}
		entry.Total = entry.Total.Add(rec.Amount)
		byDate[key] = entry
	}

	out := make([]core.DailyTotal, 0, len(byDate))
	for _, entry := range byDate {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	return out, nil
}

// Compare produces one entry per category of the owner's resolved rule, in
// the rule's defined order: the actual spend next to the ideal allocation
// income × fraction.
func (s *ReportService) Compare(ctx context.Context, owner string) ([]core.Comparison, error) {
	account, err := s.accounts.GetByUsername(ctx, owner)
	if err != nil {
		return nil, err
	}
	rule := s.catalog.Resolve(account.RuleName)

	totals, err := s.CategoryTotals(ctx, owner)
	if err != nil {
		return nil, err
	}

	out := make([]core.Comparison, 0, len(rule.Shares))
	for _, share := range rule.Shares {
		out = append(out, core.Comparison{
			Category: share.Category,
			Actual:   totals[share.Category],
			Ideal:    account.Income.Portion(share.BasisPoints),
		})
	}

	return out, nil
}
