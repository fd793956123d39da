// Package filter reduces the full transaction list to the visible window and its
// totals. Everything here is pure: no I/O, and "today" is always passed in.
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finance/internal/core"
)

const (
	All Period = iota
	Today
	CurrentWeek
	CurrentMonth
	CurrentYear
	Custom
)

// AllCategories disables the category predicate. The empty string does too.
const AllCategories = "All"

type (
	Period int

	Selection struct {
		Period   Period
		From     time.Time // Custom only; zero means unset
		To       time.Time
		Category string
	}

	Result struct {
		Transactions []core.Transaction
		TotalIncome  decimal.Decimal
		TotalExpense decimal.Decimal
		Balance      decimal.Decimal
	}

	// Standing is the display classification of a balance.
	Standing int
)

const (
	Surplus Standing = iota
	Deficit
)

func (s Standing) String() string {
	if s == Deficit {
		return "Deficit"
	}
	return "Surplus"
}

var periodNames = map[Period]string{
	All:          "all",
	Today:        "today",
	CurrentWeek:  "week",
	CurrentMonth: "month",
	CurrentYear:  "year",
	Custom:       "custom",
}

func (p Period) String() string {
	if name, ok := periodNames[p]; ok {
		return name
	}
	return fmt.Sprintf("period(%d)", int(p))
}

// ParsePeriod accepts the names returned by Period.String.
func ParsePeriod(s string) (Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return All, nil
	}
	for p, name := range periodNames {
		if name == s {
			return p, nil
		}
	}
	return All, fmt.Errorf("unknown period %q", s)
}

// Validate rejects a custom range whose start is after its end.
func (s Selection) Validate() error {
	if s.Period != Custom || s.From.IsZero() || s.To.IsZero() {
		return nil
	}
	if core.DateOf(s.From).After(core.DateOf(s.To)) {
		return fmt.Errorf("%w: %s is after %s", core.ErrInvalidRange, core.FormatDate(s.From), core.FormatDate(s.To))
	}
	return nil
}

// Apply keeps the transactions matching sel, in input order, and totals them.
// Transactions whose stored date does not parse are skipped.
func Apply(txs []core.Transaction, sel Selection, today time.Time) Result {
	match := periodPredicate(sel, core.DateOf(today))
	res := Result{
		Transactions: make([]core.Transaction, 0, len(txs)),
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}

	for _, tx := range txs {
		d, err := core.ParseDate(tx.Date)
		if err != nil {
			continue
		}
		if !match(d) || !categoryMatches(sel.Category, tx.Category) {
			continue
		}
		res.Transactions = append(res.Transactions, tx)
		switch tx.Kind {
		case core.Income:
			res.TotalIncome = res.TotalIncome.Add(tx.Amount)
		case core.Expense:
			res.TotalExpense = res.TotalExpense.Add(tx.Amount)
		}
	}

	res.Balance = res.TotalIncome.Sub(res.TotalExpense)
	return res
}

func periodPredicate(sel Selection, today time.Time) func(time.Time) bool {
	switch sel.Period {
	case Today:
		return func(d time.Time) bool { return d.Equal(today) }
	case CurrentWeek:
		start, end := WeekBounds(today)
		return between(start, end)
	case CurrentMonth:
		return func(d time.Time) bool { return d.Year() == today.Year() && d.Month() == today.Month() }
	case CurrentYear:
		return func(d time.Time) bool { return d.Year() == today.Year() }
	case Custom:
		if sel.From.IsZero() || sel.To.IsZero() {
			break
		}
		return between(core.DateOf(sel.From), core.DateOf(sel.To))
	}
	return func(time.Time) bool { return true }
}

// WeekBounds returns the Monday and Sunday of the week containing day.
func WeekBounds(day time.Time) (time.Time, time.Time) {
	day = core.DateOf(day)
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 6)
}

func between(from, to time.Time) func(time.Time) bool {
	return func(d time.Time) bool { return !d.Before(from) && !d.After(to) }
}

func categoryMatches(selected, category string) bool {
	if selected == "" || selected == AllCategories {
		return true
	}
	return selected == category
}

// Standing classifies the balance sign for display.
func (r Result) Standing() Standing {
	if r.Balance.IsNegative() {
		return Deficit
	}
	return Surplus
}

// FormatBalance renders a signed balance, "+500.00" or "-12.30".
func FormatBalance(d decimal.Decimal) string {
	if d.IsNegative() {
		return d.StringFixed(2)
	}
	return "+" + d.StringFixed(2)
}
