package appstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance/internal/core"
	"finance/internal/filter"
)

func day(s string) core.Transaction {
	return core.Transaction{Date: s}
}

func TestNewDefaults(t *testing.T) {
	s := New()
	assert.Equal(t, filter.All, s.Selection.Period)
	assert.Equal(t, filter.AllCategories, s.Selection.Category)
	assert.Empty(t, s.SelectedIDs())
}

func TestWithCustomRange(t *testing.T) {
	from, _ := core.ParseDate("2024-01-10")
	to, _ := core.ParseDate("2024-01-20")

	s, err := New().WithCustomRange(from, to)
	require.NoError(t, err)
	assert.Equal(t, filter.Custom, s.Selection.Period)

	prev := s
	s, err = s.WithCustomRange(to, from)
	assert.ErrorIs(t, err, core.ErrInvalidRange)
	assert.Equal(t, prev, s)

	s = s.WithPeriod(filter.Today).WithPeriod(filter.Custom)
	assert.Equal(t, from, s.Selection.From, "bounds survive a period switch")
}

func TestToggleDoesNotMutate(t *testing.T) {
	base := New().Toggle(3).Toggle(1)
	next := base.Toggle(3)

	assert.Equal(t, []int64{1, 3}, base.SelectedIDs())
	assert.Equal(t, []int64{1}, next.SelectedIDs())
	assert.Empty(t, next.ClearSelection().SelectedIDs())
}

func TestReconcileCategories(t *testing.T) {
	s := New().WithCategory("Freelance")
	assert.Equal(t, "Freelance", s.ReconcileCategories([]string{"Food", "Freelance"}).Selection.Category)
	assert.Equal(t, filter.AllCategories, s.ReconcileCategories([]string{"Food"}).Selection.Category)
	assert.Equal(t, filter.AllCategories, New().WithCategory("").Selection.Category)
}

func TestPrune(t *testing.T) {
	s := New().Toggle(1).Toggle(2).Toggle(5)
	a, b := day("2024-01-01"), day("2024-01-02")
	a.ID, b.ID = 2, 9
	assert.Equal(t, []int64{2}, s.Prune([]core.Transaction{a, b}).SelectedIDs())
}

func TestFilterOptions(t *testing.T) {
	in := []string{"Salary", "Bills", "Food"}
	assert.Equal(t, []string{"All", "Bills", "Food", "Salary"}, FilterOptions(in))
	assert.Equal(t, []string{"Salary", "Bills", "Food"}, in)
}
