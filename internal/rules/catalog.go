// Package rules defines the static budget-rule catalog: named allocations of
// income across spending categories. The catalog is an immutable value built
// once at startup; resolving a rule is a pure lookup with a fixed fallback.
package rules

import "kharcha/internal/core"

// DefaultRuleName is the canonical rule applied when an account references
// an unknown or absent rule.
const DefaultRuleName = "50-30-20"

type (
	// Share is one category's slice of the income, in basis points
	// (1/10000). Integer basis points keep the catalog free of floats.
	Share struct {
		Category    string
		BasisPoints int64
	}

	// Rule is a named, ordered allocation. The order of Shares defines the
	// category order of every report produced for accounts on this rule.
	Rule struct {
		Name   string
		Shares []Share
	}

	// Catalog maps rule names to allocations.
	Catalog struct {
		rules map[string]Rule
		order []string
	}
)

// DefaultCatalog returns the built-in catalog. The allocations mirror the
// classic budgeting splits; note that 70-20-10 keeps a zero Want share and
// adds a Giving category.
func DefaultCatalog() Catalog {
	return NewCatalog(
		Rule{Name: "50-30-20", Shares: []Share{
			{Category: "Need", BasisPoints: 5000},
			{Category: "Want", BasisPoints: 3000},
			{Category: "Saving", BasisPoints: 2000},
		}},
		Rule{Name: "60-20-20", Shares: []Share{
			{Category: "Need", BasisPoints: 6000},
			{Category: "Want", BasisPoints: 2000},
			{Category: "Saving", BasisPoints: 2000},
		}},
		Rule{Name: "70-20-10", Shares: []Share{
			{Category: "Need", BasisPoints: 7000},
			{Category: "Want", BasisPoints: 0},
			{Category: "Saving", BasisPoints: 2000},
			{Category: "Giving", BasisPoints: 1000},
		}},
	)
}

// NewCatalog builds a catalog from the given rules. The first rule's name
// position is irrelevant; the fallback is always DefaultRuleName, which must
// be present.
func NewCatalog(rs ...Rule) Catalog {
	c := Catalog{rules: make(map[string]Rule, len(rs))}
	for _, r := range rs {
		if _, dup := c.rules[r.Name]; dup {
			continue
		}
		c.rules[r.Name] = r
		c.order = append(c.order, r.Name)
	}
	if _, ok := c.rules[DefaultRuleName]; !ok {
		panic("rules: catalog is missing the default rule " + DefaultRuleName)
	}
	return c
}

// Resolve returns the allocation for name, falling back to the default rule
// when the name is unknown or empty.
func (c Catalog) Resolve(name string) Rule {
	if r, ok := c.rules[name]; ok {
		return r
	}
	return c.rules[DefaultRuleName]
}

// Names returns the rule names in definition order, for registration forms.
func (c Catalog) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Categories returns the rule's category names in defined order.
func (r Rule) Categories() []string {
	out := make([]string, len(r.Shares))
	for i, s := range r.Shares {
		out[i] = s.Category
	}
	return out
}

// HasCategory reports whether the rule defines the given category.
func (r Rule) HasCategory(category string) bool {
	for _, s := range r.Shares {
		if s.Category == category {
			return true
		}
	}
	return false
}

// Ideal computes the ideal allocation of income for one category, rounding
// half-up to the cent. Categories the rule does not define get zero.
func (r Rule) Ideal(income core.Money, category string) core.Money {
	for _, s := range r.Shares {
		if s.Category == category {
			return income.Portion(s.BasisPoints)
		}
	}
	return core.Money{}
}
