package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"kharcha/internal/core"
)

// LedgerStore is the append-only table of expense records.
//
// The store itself stays permissive about ownership and categories: a record
// is never rejected because its owner does not resolve to an account or its
// category is not part of the owner's rule. That policy lives in the service
// layer.
type LedgerStore struct {
	db *DB
	mu sync.Mutex // serializes appends
}

func NewLedgerStore(db *DB) *LedgerStore {
	return &LedgerStore{db: db}
}

// Append durably adds one record to the ledger and returns it with its
// assigned ID.
func (s *LedgerStore) Append(ctx context.Context, rec core.ExpenseRecord) (core.ExpenseRecord, error) {
	if err := rec.Validate(); err != nil {
		return core.ExpenseRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec.CreatedAt = time.Now().UTC()

	res, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO expenses (owner, spent_on, amount_cents, reason, category, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Owner, rec.Date.String(), rec.Amount.Cents, rec.Reason, rec.Category, rec.CreatedAt,
	)
	if err != nil {
		return core.ExpenseRecord{}, fmt.Errorf("append expense: %w", err)
	}

	rec.ID, err = res.LastInsertId()
	if err != nil {
		return core.ExpenseRecord{}, fmt.Errorf("expense id: %w", err)
	}

	slog.InfoContext(ctx, "Expense appended",
		"expense_id", rec.ID,
		"owner", rec.Owner,
		"category", rec.Category,
		"amount_cents", rec.Amount.Cents)

	return rec, nil
}

// ListByOwner returns the owner's records in insertion order. Callers that
// want reverse-chronological display reverse the slice themselves.
func (s *LedgerStore) ListByOwner(ctx context.Context, owner string) ([]core.ExpenseRecord, error) {
	rows, err := s.db.conn.QueryContext(ctx,
		`SELECT id, owner, spent_on, amount_cents, reason, category, created_at
		 FROM expenses WHERE owner = ? ORDER BY id ASC`, owner)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var records []core.ExpenseRecord
	for rows.Next() {
		var rec core.ExpenseRecord
		var spentOn string
		if err := rows.Scan(&rec.ID, &rec.Owner, &spentOn, &rec.Amount.Cents,
			&rec.Reason, &rec.Category, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		rec.Date, err = core.ParseDate(spentOn)
		if err != nil {
			return nil, fmt.Errorf("stored date %q: %w", spentOn, err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Version returns a counter that changes whenever the owner's ledger grows.
// Since the ledger is append-only, the highest record ID is sufficient.
// Callers use it to key external caches.
func (s *LedgerStore) Version(ctx context.Context, owner string) (int64, error) {
	var v int64
	err := s.db.conn.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(id), 0) FROM expenses WHERE owner = ?`, owner,
	).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("ledger version: %w", err)
	}
	return v, nil
}
