package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"Income", Income, true},
		{"expense", Expense, true},
		{" INCOME ", Income, true},
		{"", "", false},
		{"Venit", "", false},
	}
	for _, tc := range cases {
		got, err := ParseKind(tc.in)
		if tc.ok {
			require.NoError(t, err, tc.in)
			assert.Equal(t, tc.want, got)
		} else {
			assert.ErrorIs(t, err, ErrInvalidKind, tc.in)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), d)
	assert.Equal(t, "2024-03-01", FormatDate(d))

	for _, bad := range []string{"", "2024-13-01", "01/03/2024", "2024-02-30"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}
}

func TestDateOf(t *testing.T) {
	in := time.Date(2024, 5, 6, 23, 59, 1, 5, time.UTC)
	assert.Equal(t, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), DateOf(in))
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{Date: "2024-01-01", Kind: Expense, Category: "Food", Amount: decimal.NewFromInt(3)}
	require.NoError(t, good.Validate())

	zero := good
	zero.Amount = decimal.Zero
	assert.NoError(t, zero.Validate(), "zero amounts are allowed")

	bads := []struct {
		mutate func(*Transaction)
		want   error
	}{
		{func(tx *Transaction) { tx.Date = "yesterday" }, ErrInvalidDate},
		{func(tx *Transaction) { tx.Kind = "Venit" }, ErrInvalidKind},
		{func(tx *Transaction) { tx.Category = "  " }, ErrEmptyCategory},
		{func(tx *Transaction) { tx.Amount = decimal.NewFromInt(-1) }, ErrNegativeAmount},
		{func(tx *Transaction) { tx.Amount = decimal.RequireFromString("1e400") }, ErrInvalidAmount},
	}
	for i, b := range bads {
		tx := good
		b.mutate(&tx)
		assert.ErrorIs(t, tx.Validate(), b.want, "case %d", i)
	}
}

func TestCategoryValidate(t *testing.T) {
	assert.NoError(t, Category{Name: "Freelance", Kind: Income}.Validate())
	assert.ErrorIs(t, Category{Name: "", Kind: Income}.Validate(), ErrEmptyCategory)
	assert.ErrorIs(t, Category{Name: "X"}.Validate(), ErrInvalidKind)
}

func TestDefaultCategoriesContainSentinel(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range DefaultCategories() {
		require.NoError(t, c.Validate())
		assert.False(t, seen[c.Name], "duplicate default %s", c.Name)
		seen[c.Name] = true
	}
	assert.True(t, seen[SentinelCategory])
	assert.True(t, IsSentinel("Other"))
	assert.False(t, IsSentinel("other"))
}
