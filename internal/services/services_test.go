package services

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"kharcha/internal/amqp"
	"kharcha/internal/auth"
	"kharcha/internal/core"
	"kharcha/internal/rules"
	"kharcha/internal/storage"
)

// stubPublisher records published verification messages.
type stubPublisher struct {
	msgs []*amqp.VerificationMessage
	fail bool
}

func (p *stubPublisher) PublishVerification(_ context.Context, msg *amqp.VerificationMessage) error {
	if p.fail {
		return fmt.Errorf("broker unavailable")
	}
	p.msgs = append(p.msgs, msg)
	return nil
}

// seqTokens issues predictable tokens for tests.
type seqTokens struct{ n int }

func (t *seqTokens) NewToken() string {
	t.n++
	return fmt.Sprintf("tok-%d", t.n)
}

type testEnv struct {
	accounts  *AccountService
	ledger    *LedgerService
	reports   *ReportService
	publisher *stubPublisher
}

func newTestEnv(t *testing.T, verificationEnabled bool) *testEnv {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "kharcha.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	accountStore := storage.NewAccountStore(db)
	ledgerStore := storage.NewLedgerStore(db)
	catalog := rules.DefaultCatalog()
	publisher := &stubPublisher{}

	return &testEnv{
		accounts:  NewAccountService(accountStore, catalog, auth.NewBcryptHasher(4), &seqTokens{}, publisher, verificationEnabled),
		ledger:    NewLedgerService(ledgerStore, accountStore, catalog),
		reports:   NewReportService(ledgerStore, accountStore, catalog),
		publisher: publisher,
	}
}

func mustRegister(t *testing.T, env *testEnv, username, rule string, incomeCents int64) core.Account {
	t.Helper()
	account, err := env.accounts.Register(context.Background(), RegisterParams{
		Username: username,
		Secret:   "hunter2",
		Email:    username + "@example.com",
		Income:   core.Money{Cents: incomeCents},
		RuleName: rule,
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return account
}

func mustAdd(t *testing.T, env *testEnv, owner, date, category string, cents int64) {
	t.Helper()
	d, err := core.ParseDate(date)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	if _, err := env.ledger.Add(context.Background(), owner, d, core.Money{Cents: cents}, "test", category); err != nil {
		t.Fatalf("add expense: %v", err)
	}
}
