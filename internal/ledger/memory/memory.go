package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"finance/internal/core"
)

// Store keeps the ledger in process memory. Every method takes the lock for its
// whole body, so each mutation is atomic.
type Store struct {
	mu     sync.Mutex
	cats   []core.Category
	txs    []core.Transaction
	nextID int64
}

func New(cats []core.Category) *Store {
	s := &Store{nextID: 1}
	for _, c := range cats {
		s.addCategoryLocked(c)
	}
	if s.indexOfCategory(core.SentinelCategory) < 0 {
		s.cats = append(s.cats, core.Category{Name: core.SentinelCategory, Kind: core.Expense})
	}
	return s
}

// NewWithDefaults returns a store seeded the same way a fresh database is.
func NewWithDefaults() *Store {
	return New(core.DefaultCategories())
}

func (s *Store) ListCategories(ctx context.Context, kind core.Kind) ([]string, error) {
	cats, err := s.Categories(ctx, kind)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.Name
	}
	return names, nil
}

func (s *Store) Categories(_ context.Context, kind core.Kind) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Category, 0, len(s.cats))
	for _, c := range s.cats {
		if kind != "" && c.Kind != kind {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Store) AddCategory(_ context.Context, c core.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addCategoryLocked(c)
	return nil
}

func (s *Store) DeleteCategory(_ context.Context, name string) error {
	if core.IsSentinel(name) {
		return fmt.Errorf("delete category %q: %w", name, core.ErrProtectedCategory)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfCategory(name)
	if i < 0 {
		return fmt.Errorf("delete category %q: %w", name, core.ErrCategoryNotFound)
	}
	for j := range s.txs {
		if s.txs[j].Category == name {
			s.txs[j].Category = core.SentinelCategory
		}
	}
	s.cats = append(s.cats[:i], s.cats[i+1:]...)
	return nil
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := append([]core.Transaction(nil), s.txs...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) GetTransaction(_ context.Context, id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOfTransaction(id); i >= 0 {
		return s.txs[i], nil
	}
	return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, core.ErrTransactionNotFound)
}

func (s *Store) AddTransaction(_ context.Context, tx core.Transaction) (int64, error) {
	tx.Category = strings.TrimSpace(tx.Category)
	if err := tx.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.addCategoryLocked(core.Category{Name: tx.Category, Kind: tx.Kind})
	tx.ID = s.nextID
	s.nextID++
	s.txs = append(s.txs, tx)
	return tx.ID, nil
}

func (s *Store) UpdateTransaction(_ context.Context, tx core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfTransaction(tx.ID)
	if i < 0 {
		return fmt.Errorf("update transaction %d: %w", tx.ID, core.ErrTransactionNotFound)
	}
	if s.indexOfCategory(tx.Category) < 0 {
		return fmt.Errorf("update transaction %d: %w: %q", tx.ID, core.ErrCategoryNotFound, tx.Category)
	}
	cur := &s.txs[i]
	cur.Date = tx.Date
	cur.Category = tx.Category
	cur.Amount = tx.Amount
	cur.Note = tx.Note
	return nil
}

func (s *Store) DeleteTransactions(_ context.Context, ids []int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	drop := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := s.txs[:0]
	removed := 0
	for _, tx := range s.txs {
		if _, ok := drop[tx.ID]; ok {
			removed++
			continue
		}
		kept = append(kept, tx)
	}
	s.txs = kept
	return removed, nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) addCategoryLocked(c core.Category) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" || s.indexOfCategory(c.Name) >= 0 {
		return
	}
	s.cats = append(s.cats, c)
}

func (s *Store) indexOfCategory(name string) int {
	for i, c := range s.cats {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func (s *Store) indexOfTransaction(id int64) int {
	for i, tx := range s.txs {
		if tx.ID == id {
			return i
		}
	}
	return -1
}
