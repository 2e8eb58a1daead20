package rules

import (
	"reflect"
	"testing"

	"kharcha/internal/core"
)

func TestResolveFallback(t *testing.T) {
	c := DefaultCatalog()

	for _, name := range []string{"", "unknown", "90-10"} {
		r := c.Resolve(name)
		if r.Name != DefaultRuleName {
			t.Fatalf("Resolve(%q) = %s, want %s", name, r.Name, DefaultRuleName)
		}
	}

	if r := c.Resolve("70-20-10"); r.Name != "70-20-10" {
		t.Fatalf("Resolve(70-20-10) = %s", r.Name)
	}
}

func TestCategoryOrder(t *testing.T) {
	c := DefaultCatalog()

	got := c.Resolve("50-30-20").Categories()
	want := []string{"Need", "Want", "Saving"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("categories = %v, want %v", got, want)
	}

	got = c.Resolve("70-20-10").Categories()
	want = []string{"Need", "Want", "Saving", "Giving"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("categories = %v, want %v", got, want)
	}
}

func TestHasCategory(t *testing.T) {
	r := DefaultCatalog().Resolve("50-30-20")
	if !r.HasCategory("Need") {
		t.Fatal("expected Need in 50-30-20")
	}
	if r.HasCategory("Giving") {
		t.Fatal("Giving is not part of 50-30-20")
	}
}

func TestIdeal(t *testing.T) {
	income := core.Money{Cents: 5000000} // 50000.00
	r := DefaultCatalog().Resolve("50-30-20")

	cases := []struct {
		category string
		want     int64
	}{
		{"Need", 2500000},
		{"Want", 1500000},
		{"Saving", 1000000},
		{"Giving", 0}, // not defined by this rule
	}
	for _, tc := range cases {
		if got := r.Ideal(income, tc.category); got.Cents != tc.want {
			t.Errorf("Ideal(%s) = %d, want %d", tc.category, got.Cents, tc.want)
		}
	}

	// Zero Want share of 70-20-10 yields a legitimate zero ideal.
	r = DefaultCatalog().Resolve("70-20-10")
	if got := r.Ideal(income, "Want"); got.Cents != 0 {
		t.Errorf("70-20-10 Want ideal = %d, want 0", got.Cents)
	}
}

func TestNames(t *testing.T) {
	names := DefaultCatalog().Names()
	want := []string{"50-30-20", "60-20-20", "70-20-10"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
}
