package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"kharcha/internal/core"
)

func TestCategoryTotalsZeroFill(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, false)
	mustRegister(t, env, "alice", "50-30-20", 5000000)

	totals, err := env.reports.CategoryTotals(ctx, "alice")
	if err != nil {
		t.Fatalf("category totals: %v", err)
	}

	want := map[string]core.Money{"Need": {}, "Want": {}, "Saving": {}}
	if !reflect.DeepEqual(totals, want) {
		t.Fatalf("totals = %v, want all-zero rule categories %v", totals, want)
	}
}

func TestBudgetScenario(t *testing.T) {
	// Account alice, income 50000, rule 50-30-20, expenses
	// (2024-01-01, 1000, Need) and (2024-01-02, 500, Want).
	ctx := context.Background()
	env := newTestEnv(t, false)
	mustRegister(t, env, "alice", "50-30-20", 5000000)
	mustAdd(t, env, "alice", "2024-01-01", "Need", 100000)
	mustAdd(t, env, "alice", "2024-01-02", "Want", 50000)

	totals, err := env.reports.CategoryTotals(ctx, "alice")
	if err != nil {
		t.Fatalf("category totals: %v", err)
	}
	wantTotals := map[string]core.Money{
		"Need":   {Cents: 100000},
		"Want":   {Cents: 50000},
		"Saving": {},
	}
	if !reflect.DeepEqual(totals, wantTotals) {
		t.Fatalf("totals = %v, want %v", totals, wantTotals)
	}

	cmp, err := env.reports.Compare(ctx, "alice")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	wantCmp := []core.Comparison{
		{Category: "Need", Actual: core.Money{Cents: 100000}, Ideal: core.Money{Cents: 2500000}},
		{Category: "Want", Actual: core.Money{Cents: 50000}, Ideal: core.Money{Cents: 1500000}},
		{Category: "Saving", Actual: core.Money{}, Ideal: core.Money{Cents: 1000000}},
	}
	if !reflect.DeepEqual(cmp, wantCmp) {
		t.Fatalf("compare = %v, want %v", cmp, wantCmp)
	}
}

func TestCompareCategorySetMatchesRule(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, false)
	mustRegister(t, env, "carol", "70-20-10", 1000000)

	cmp, err := env.reports.Compare(ctx, "carol")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}

	var categories []string
	for _, c := range cmp {
		categories = append(categories, c.Category)
	}
	want := []string{"Need", "Want", "Saving", "Giving"}
	if !reflect.DeepEqual(categories, want) {
		t.Fatalf("categories = %v, want %v", categories, want)
	}

	// Zero Want fraction yields a legitimate zero ideal.
	if cmp[1].Ideal.Cents != 0 {
		t.Fatalf("Want ideal = %d, want 0", cmp[1].Ideal.Cents)
	}
	if cmp[3].Ideal.Cents != 100000 {
		t.Fatalf("Giving ideal = %d, want 100000", cmp[3].Ideal.Cents)
	}
}

func TestUnknownRuleFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, false)
	mustRegister(t, env, "eve", "definitely-not-a-rule", 1000000)

	cmp, err := env.reports.Compare(ctx, "eve")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if len(cmp) != 3 || cmp[0].Category != "Need" || cmp[0].Ideal.Cents != 500000 {
		t.Fatalf("expected 50-30-20 fallback, got %v", cmp)
	}
}

func TestDailyTotals(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, false)
	mustRegister(t, env, "alice", "50-30-20", 5000000)

	// Appended out of date order, with two expenses on the same day.
	mustAdd(t, env, "alice", "2024-01-05", "Want", 50000)
	mustAdd(t, env, "alice", "2024-01-01", "Need", 100000)
	mustAdd(t, env, "alice", "2024-01-01", "Need", 25000)

	daily, err := env.reports.DailyTotals(ctx, "alice")
	if err != nil {
		t.Fatalf("daily totals: %v", err)
	}

	if len(daily) != 2 {
		t.Fatalf("expected 2 distinct dates, got %d", len(daily))
	}
	if daily[0].Date.String() != "2024-01-01" || daily[0].Total.Cents != 125000 {
		t.Fatalf("first bucket = %s/%d", daily[0].Date, daily[0].Total.Cents)
	}
	if daily[1].Date.String() != "2024-01-05" || daily[1].Total.Cents != 50000 {
		t.Fatalf("second bucket = %s/%d", daily[1].Date, daily[1].Total.Cents)
	}
}

func TestReportsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, false)
	mustRegister(t, env, "alice", "50-30-20", 5000000)
	mustAdd(t, env, "alice", "2024-01-01", "Need", 100000)
	mustAdd(t, env, "alice", "2024-01-02", "Want", 50000)

	totals1, err := env.reports.CategoryTotals(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	totals2, err := env.reports.CategoryTotals(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(totals1, totals2) {
		t.Fatal("category totals differ across calls with no mutation")
	}

	daily1, _ := env.reports.DailyTotals(ctx, "alice")
	daily2, _ := env.reports.DailyTotals(ctx, "alice")
	if !reflect.DeepEqual(daily1, daily2) {
		t.Fatal("daily totals differ across calls with no mutation")
	}

	cmp1, _ := env.reports.Compare(ctx, "alice")
	cmp2, _ := env.reports.Compare(ctx, "alice")
	if !reflect.DeepEqual(cmp1, cmp2) {
		t.Fatal("comparisons differ across calls with no mutation")
	}
}

func TestReportsForUnknownAccount(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, false)

	if _, err := env.reports.CategoryTotals(ctx, "ghost"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := env.reports.Compare(ctx, "ghost"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
