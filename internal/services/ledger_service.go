package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"finance/internal/core"
	"finance/internal/export"
	"finance/internal/filter"
	"finance/internal/ledger"
	applog "finance/internal/log"
)

// LedgerService is the input boundary in front of a ledger.Store. Raw field values
// are parsed and validated here; nothing invalid reaches the store.
type LedgerService struct {
	store  ledger.Store
	logger *applog.Logger
	now    func() time.Time
}

type Option func(*LedgerService)

// WithClock overrides the source of "today".
func WithClock(now func() time.Time) Option {
	return func(s *LedgerService) { s.now = now }
}

func WithLogger(l *applog.Logger) Option {
	return func(s *LedgerService) { s.logger = l.WithComponent(applog.ComponentLedger) }
}

func NewLedgerService(store ledger.Store, opts ...Option) *LedgerService {
	s := &LedgerService{
		store:  store,
		logger: applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentLedger),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TransactionInput carries form values as typed by the user.
type TransactionInput struct {
	Date     string // empty means today
	Kind     string
	Category string
	Amount   string
	Note     string
}

// EditInput carries the editable fields of an existing transaction.
type EditInput struct {
	Date     string
	Category string
	Amount   string
	Note     string
}

// Categories lists category names; an empty kind lists both kinds.
func (s *LedgerService) Categories(ctx context.Context, kind string) ([]string, error) {
	k, err := parseOptionalKind(kind)
	if err != nil {
		return nil, err
	}
	names, err := s.store.ListCategories(ctx, k)
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "Categories listed",
		applog.NewFields().WithOperation(applog.OpList).WithCount(len(names)).ToSlice()...)
	return names, nil
}

// CategoryRecords is Categories with the kind of each entry.
func (s *LedgerService) CategoryRecords(ctx context.Context, kind string) ([]core.Category, error) {
	k, err := parseOptionalKind(kind)
	if err != nil {
		return nil, err
	}
	return s.store.Categories(ctx, k)
}

func (s *LedgerService) AddCategory(ctx context.Context, name, kind string) error {
	c, err := parseCategory(name, kind)
	if err != nil {
		s.logValidation(ctx, applog.OpCreate, err)
		return err
	}
	if err := s.store.AddCategory(ctx, c); err != nil {
		return fmt.Errorf("add category: %w", err)
	}
	return nil
}

func (s *LedgerService) DeleteCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.ErrEmptyCategory
	}
	if err := s.store.DeleteCategory(ctx, name); err != nil {
		s.logFailure(ctx, applog.OpDelete, err)
		return err
	}
	s.logger.InfoContext(ctx, "Category deleted",
		applog.NewFields().WithOperation(applog.OpDelete).WithCategory(name).ToSlice()...)
	return nil
}

// AddTransaction validates in, makes sure its category exists, then stores it.
func (s *LedgerService) AddTransaction(ctx context.Context, in TransactionInput) (int64, error) {
	tx, err := s.parseTransaction(in)
	if err != nil {
		s.logValidation(ctx, applog.OpCreate, err)
		return 0, err
	}

	existing, err := s.store.ListCategories(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("list categories: %w", err)
	}
	created := !slices.Contains(existing, tx.Category)

	if err := s.store.AddCategory(ctx, core.Category{Name: tx.Category, Kind: tx.Kind}); err != nil {
		return 0, fmt.Errorf("ensure category: %w", err)
	}
	id, err := s.store.AddTransaction(ctx, tx)
	if err != nil {
		if created {
			s.discardCategory(ctx, tx.Category)
		}
		return 0, fmt.Errorf("add transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "Transaction added", applog.NewFields().
		WithOperation(applog.OpCreate).
		WithTransaction(id, tx.Date, tx.Kind.String(), tx.Category, tx.Amount.String()).
		ToSlice()...)
	return id, nil
}

// discardCategory removes a category created for a transaction that was then
// not stored.
func (s *LedgerService) discardCategory(ctx context.Context, name string) {
	if err := s.store.DeleteCategory(ctx, name); err != nil {
		s.logger.WarnContext(ctx, "Failed to remove unused category",
			applog.NewFields().WithCategory(name).WithError(err, errorType(err)).ToSlice()...)
	}
}

// UpdateTransaction overwrites date, category, amount and note of transaction id.
func (s *LedgerService) UpdateTransaction(ctx context.Context, id int64, in EditInput) error {
	date, err := s.parseDate(in.Date)
	if err != nil {
		s.logValidation(ctx, applog.OpUpdate, err)
		return err
	}
	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		s.logValidation(ctx, applog.OpUpdate, err)
		return err
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		return core.ErrEmptyCategory
	}

	tx := core.Transaction{
		ID:       id,
		Date:     date,
		Category: category,
		Amount:   amount,
		Note:     strings.TrimSpace(in.Note),
	}
	if err := s.store.UpdateTransaction(ctx, tx); err != nil {
		s.logFailure(ctx, applog.OpUpdate, err)
		return err
	}
	return nil
}

// DeleteTransactions removes the given ids and reports how many existed.
func (s *LedgerService) DeleteTransactions(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := s.store.DeleteTransactions(ctx, ids)
	if err != nil {
		return 0, err
	}
	s.logger.InfoContext(ctx, "Transactions deleted",
		applog.NewFields().WithOperation(applog.OpDelete).WithCount(n).ToSlice()...)
	return n, nil
}

// Transactions lists every stored transaction, unfiltered.
func (s *LedgerService) Transactions(ctx context.Context) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx)
}

func (s *LedgerService) Transaction(ctx context.Context, id int64) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

// View returns the transactions visible under sel together with their totals.
func (s *LedgerService) View(ctx context.Context, sel filter.Selection) (filter.Result, error) {
	if err := sel.Validate(); err != nil {
		s.logValidation(ctx, applog.OpValidate, err)
		return filter.Result{}, err
	}
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return filter.Result{}, err
	}
	res := filter.Apply(txs, sel, s.now())
	s.logger.DebugContext(ctx, "Transactions filtered", applog.NewFields().
		WithOperation(applog.OpFilter).
		WithPeriod(sel.Period.String()).
		WithCategory(sel.Category).
		WithCount(len(res.Transactions)).
		ToSlice()...)
	return res, nil
}

// Export writes every transaction to path as CSV and returns the row count.
func (s *LedgerService) Export(ctx context.Context, path string) (int, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return 0, errors.New("export path is required")
	}
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return 0, err
	}
	if err := export.WriteFile(path, txs); err != nil {
		return 0, fmt.Errorf("export: %w", err)
	}
	s.logger.WithComponent(applog.ComponentExport).InfoContext(ctx, "Transactions exported",
		applog.NewFields().WithOperation(applog.OpExport).WithCount(len(txs)).ToSlice()...)
	return len(txs), nil
}

func (s *LedgerService) Close() error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Close(); err != nil {
		return fmt.Errorf("close ledger service: %w", err)
	}
	return nil
}

func (s *LedgerService) parseTransaction(in TransactionInput) (core.Transaction, error) {
	if strings.TrimSpace(in.Category) == "" {
		return core.Transaction{}, core.ErrEmptyCategory
	}
	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	kind, err := core.ParseKind(in.Kind)
	if err != nil {
		return core.Transaction{}, err
	}
	date, err := s.parseDate(in.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		Date:     date,
		Kind:     kind,
		Category: strings.TrimSpace(in.Category),
		Amount:   amount,
		Note:     strings.TrimSpace(in.Note),
	}, nil
}

func (s *LedgerService) parseDate(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return core.FormatDate(s.now()), nil
	}
	d, err := core.ParseDate(raw)
	if err != nil {
		return "", err
	}
	return core.FormatDate(d), nil
}

func (s *LedgerService) logValidation(ctx context.Context, op string, err error) {
	s.logger.WarnContext(ctx, "Input rejected",
		applog.NewFields().WithOperation(op).WithError(err, applog.ErrorTypeValidation).ToSlice()...)
}

func (s *LedgerService) logFailure(ctx context.Context, op string, err error) {
	s.logger.WarnContext(ctx, "Operation failed",
		applog.NewFields().WithOperation(op).WithError(err, errorType(err)).ToSlice()...)
}

func errorType(err error) string {
	switch {
	case errors.Is(err, core.ErrTransactionNotFound), errors.Is(err, core.ErrCategoryNotFound):
		return applog.ErrorTypeNotFound
	case errors.Is(err, core.ErrProtectedCategory):
		return applog.ErrorTypeProtected
	default:
		return applog.ErrorTypeDatabase
	}
}

func parseOptionalKind(raw string) (core.Kind, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	return core.ParseKind(raw)
}

func parseCategory(name, kind string) (core.Category, error) {
	k, err := core.ParseKind(kind)
	if err != nil {
		return core.Category{}, err
	}
	c := core.Category{Name: strings.TrimSpace(name), Kind: k}
	return c, c.Validate()
}
