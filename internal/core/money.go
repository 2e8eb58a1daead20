// Package core holds the domain types of the ledger: accounts, expense
// records, money amounts and the aggregate shapes the reporting layer
// produces.
//
// This file contains parsing and formatting of monetary amounts. Amounts are
// carried as integer cents; decimal strings are only a boundary format.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseDecimalToCents converts a decimal string to cents with half-up
// rounding on the third decimal place.
//
// Both dot (12.34) and comma (12,34) separators are accepted. Signs are
// rejected: expense amounts and incomes are entered as plain positive
// decimals. Zero is rejected too, so callers validating incomes (where zero
// is legal) handle the empty case themselves.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if strings.Contains(fracPart, ".") {
		return 0, ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return 0, ErrInvalidAmount
	}

	var frac int64
	if len(fracPart) > 0 {
		frac = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			frac += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				frac++
			}
		}
	}

	cents := iv*100 + frac
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// ParseNonNegativeCents parses a decimal amount that may legitimately be
// zero, such as an income. It shares the grammar of ParseDecimalToCents.
func ParseNonNegativeCents(s string) (int64, error) {
	if t := strings.TrimSpace(s); t == "0" || t == "0.00" || t == "0,00" || t == "0.0" {
		return 0, nil
	}
	return ParseDecimalToCents(s)
}

// Portion returns the share of m described by basis points (1/10000),
// rounded half-up to the cent. A 50% share is 5000 basis points.
func (m Money) Portion(basisPoints int64) Money {
	return Money{Cents: (m.Cents*basisPoints + 5000) / 10000}
}

// Decimal renders the amount as a plain decimal string with two fraction
// digits, e.g. 1234 -> "12.34". This is the export and JSON format.
func (m Money) Decimal() string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10) + "." + pad2(cents%100)
	if neg {
		return "-" + s
	}
	return s
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
