package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Money is a monetary amount in integer cents. All arithmetic happens on
	// cents so aggregation never loses precision to floating point.
	Money struct {
		Cents int64
	}

	// Date is a calendar date without a time-of-day component.
	Date struct {
		time.Time
	}

	// Account is a registered user of the ledger.
	Account struct {
		Username          string
		PasswordHash      string // opaque salted hash, never a raw secret
		Email             string
		Income            Money
		RuleName          string
		VerificationToken string // present only while the account is unverified
		IsVerified        bool
		CreatedAt         time.Time
		UpdatedAt         time.Time
	}

	// ExpenseRecord is one immutable row of the ledger.
	ExpenseRecord struct {
		ID        int64
		Owner     string // Account.Username of the owning account
		Date      Date
		Amount    Money
		Reason    string
		Category  string
		CreatedAt time.Time
	}
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnverifiedAccount  = errors.New("account not verified")
	ErrInvalidToken       = errors.New("invalid verification token")
	ErrNotFound           = errors.New("account not found")

	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrEmptyReason     = errors.New("empty reason")
	ErrEmptyCategory   = errors.New("empty category")
	ErrEmptyOwner      = errors.New("empty owner")
	ErrEmptyUsername   = errors.New("empty username")
	ErrEmptySecret     = errors.New("empty password")
	ErrNegativeIncome  = errors.New("income cannot be negative")
	ErrUnknownCategory = errors.New("category not defined by the account's rule")
)

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month and day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String renders the date in the stable YYYY-MM-DD form used by the store
// and the export artifact.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// Before reports whether d falls on an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

func (e ExpenseRecord) Validate() error {
	if strings.TrimSpace(e.Owner) == "" {
		return ErrEmptyOwner
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Reason) == "" {
		return ErrEmptyReason
	}
	if len(e.Reason) > 200 {
		return errors.New("reason too long (max 200 characters)")
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Username) == "" {
		return ErrEmptyUsername
	}
	if len(a.Username) > 50 {
		return errors.New("username too long (max 50 characters)")
	}
	if a.PasswordHash == "" {
		return ErrEmptySecret
	}
	if a.Income.Cents < 0 {
		return ErrNegativeIncome
	}
	return nil
}
