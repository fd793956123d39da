package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  Kind = "Income"
	Expense Kind = "Expense"
)

// SentinelCategory is the fallback category that always exists. Transactions of a
// deleted category are moved here.
const SentinelCategory = "Other"

const DateLayout = "2006-01-02"

type (
	// Kind tells whether money came in or went out. The zero value means "any kind"
	// where a filter is accepted.
	Kind string

	Category struct {
		Name string
		Kind Kind
	}

	Transaction struct {
		ID       int64
		Date     string // calendar date as stored, YYYY-MM-DD
		Kind     Kind
		Category string
		Amount   decimal.Decimal
		Note     string
	}
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrNegativeAmount      = errors.New("negative amount")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidKind         = errors.New("invalid kind")
	ErrEmptyCategory       = errors.New("empty category")
	ErrInvalidRange        = errors.New("invalid date range")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrProtectedCategory   = errors.New("protected category")
)

// ParseKind accepts the persisted labels case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return Income, nil
	case "expense":
		return Expense, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

func (k Kind) String() string {
	return string(k)
}

// IsValid returns true for Income and Expense.
func (k Kind) IsValid() bool {
	return k == Income || k == Expense
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateOf drops the clock part of t, keeping its calendar day as UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsSentinel reports whether name is the undeletable fallback category.
func IsSentinel(name string) bool {
	return name == SentinelCategory
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyCategory
	}
	if !c.Kind.IsValid() {
		return ErrInvalidKind
	}
	return nil
}

func (t Transaction) Validate() error {
	if _, err := ParseDate(t.Date); err != nil {
		return err
	}
	if !t.Kind.IsValid() {
		return ErrInvalidKind
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if !IsStorableAmount(t.Amount) {
		return ErrInvalidAmount
	}
	if t.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}
