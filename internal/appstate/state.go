// Package appstate holds what the user is currently looking at: the active
// filters and the selected rows. Every function returns a new State and leaves
// its argument untouched, so no rendering toolkit owns this data.
package appstate

import (
	"sort"
	"time"

	"finance/internal/core"
	"finance/internal/filter"
)

type State struct {
	Selection filter.Selection
	Selected  map[int64]struct{}
}

func New() State {
	return State{Selection: filter.Selection{Period: filter.All, Category: filter.AllCategories}}
}

// WithPeriod switches to a preset period. Custom bounds are kept so that
// switching back to Custom restores them.
func (s State) WithPeriod(p filter.Period) State {
	next := s.clone()
	next.Selection.Period = p
	return next
}

// WithCustomRange selects a custom inclusive range. An inverted range is
// rejected and s is returned unchanged alongside the error.
func (s State) WithCustomRange(from, to time.Time) (State, error) {
	sel := s.Selection
	sel.Period = filter.Custom
	sel.From = core.DateOf(from)
	sel.To = core.DateOf(to)
	if err := sel.Validate(); err != nil {
		return s, err
	}
	next := s.clone()
	next.Selection = sel
	return next, nil
}

func (s State) WithCategory(name string) State {
	next := s.clone()
	if name == "" {
		name = filter.AllCategories
	}
	next.Selection.Category = name
	return next
}

// ReconcileCategories resets the category filter to All when the selected
// category is no longer among names.
func (s State) ReconcileCategories(names []string) State {
	cur := s.Selection.Category
	if cur == "" || cur == filter.AllCategories {
		return s
	}
	for _, n := range names {
		if n == cur {
			return s
		}
	}
	return s.WithCategory(filter.AllCategories)
}

// Toggle adds id to the selection, or removes it if already selected.
func (s State) Toggle(id int64) State {
	next := s.clone()
	if _, ok := next.Selected[id]; ok {
		delete(next.Selected, id)
	} else {
		next.Selected[id] = struct{}{}
	}
	return next
}

func (s State) ClearSelection() State {
	next := s.clone()
	next.Selected = map[int64]struct{}{}
	return next
}

// Prune drops selected ids that are not among the visible transactions.
func (s State) Prune(visible []core.Transaction) State {
	keep := make(map[int64]struct{}, len(visible))
	for _, tx := range visible {
		if _, ok := s.Selected[tx.ID]; ok {
			keep[tx.ID] = struct{}{}
		}
	}
	next := s.clone()
	next.Selected = keep
	return next
}

// SelectedIDs returns the selection in ascending order.
func (s State) SelectedIDs() []int64 {
	ids := make([]int64, 0, len(s.Selected))
	for id := range s.Selected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// FilterOptions is the list a category picker shows: All first, then names sorted.
func FilterOptions(names []string) []string {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return append([]string{filter.AllCategories}, sorted...)
}

func (s State) clone() State {
	sel := make(map[int64]struct{}, len(s.Selected))
	for id := range s.Selected {
		sel[id] = struct{}{}
	}
	return State{Selection: s.Selection, Selected: sel}
}
