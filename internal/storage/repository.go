package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"finance/internal/core"
	applog "finance/internal/log"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	logger  *applog.Logger
}

type Option func(*SQLiteRepository)

// WithLogger sets the logger; it is tagged with the storage component.
func WithLogger(l *applog.Logger) Option {
	return func(r *SQLiteRepository) { r.logger = l }
}

func NewSQLiteRepository(dbPath string, opts ...Option) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer at a time; SQLite serializes anyway and this keeps BEGIN from
	// racing a second pooled connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	r := &SQLiteRepository{
		db:      db,
		queries: New(db),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = applog.New(applog.DefaultConfig())
	}
	r.logger = r.logger.WithComponent(applog.ComponentStorage)
	return r, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ListCategories implements ledger.CategoryReader
func (r *SQLiteRepository) ListCategories(ctx context.Context, kind core.Kind) ([]string, error) {
	cats, err := r.Categories(ctx, kind)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.Name
	}
	return names, nil
}

// Categories implements ledger.CategoryReader
func (r *SQLiteRepository) Categories(ctx context.Context, kind core.Kind) ([]core.Category, error) {
	var (
		rows []Category
		err  error
	)
	if kind == "" {
		rows, err = r.queries.ListCategories(ctx)
	} else {
		rows, err = r.queries.ListCategoriesByKind(ctx, kind.String())
	}
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	cats := make([]core.Category, len(rows))
	for i, c := range rows {
		cats[i] = core.Category{Name: c.Name, Kind: core.Kind(c.Kind)}
	}
	return cats, nil
}

// AddCategory implements ledger.CategoryWriter
func (r *SQLiteRepository) AddCategory(ctx context.Context, c core.Category) error {
	c.Name = strings.TrimSpace(c.Name)
	if err := c.Validate(); err != nil {
		return err
	}
	inserted, err := r.queries.InsertCategoryIfAbsent(ctx, c.Name, c.Kind.String())
	if err != nil {
		return fmt.Errorf("insert category %q: %w", c.Name, err)
	}
	if inserted > 0 {
		r.logger.DebugContext(ctx, "Category saved to SQLite",
			applog.FieldCategory, c.Name, applog.FieldKind, c.Kind.String())
	}
	return nil
}

// DeleteCategory implements ledger.CategoryWriter
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, name string) error {
	if core.IsSentinel(name) {
		return fmt.Errorf("delete category %q: %w", name, core.ErrProtectedCategory)
	}

	var moved int64
	err := r.inTx(ctx, func(q *Queries) error {
		exists, err := q.CategoryExists(ctx, name)
		if err != nil {
			return fmt.Errorf("check category: %w", err)
		}
		if !exists {
			return core.ErrCategoryNotFound
		}
		if moved, err = q.ReassignCategory(ctx, core.SentinelCategory, name); err != nil {
			return fmt.Errorf("reassign transactions: %w", err)
		}
		if _, err := q.DeleteCategory(ctx, name); err != nil {
			return fmt.Errorf("remove category: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete category %q: %w", name, err)
	}

	r.logger.DebugContext(ctx, "Category removed from SQLite",
		applog.FieldOperation, applog.OpDelete,
		applog.FieldCategory, name,
		"reassigned", moved)
	return nil
}

// ListTransactions implements ledger.TransactionReader
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	txs := make([]core.Transaction, 0, len(rows))
	for _, t := range rows {
		tx, err := toCore(t)
		if err != nil {
			// Rows with a non-finite amount are left out of the listing.
			r.logger.WarnContext(ctx, "Skipping unreadable transaction",
				applog.FieldID, t.ID, applog.FieldError, err)
			continue
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// GetTransaction implements ledger.TransactionReader
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	t, err := r.queries.GetTransaction(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, core.ErrTransactionNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	tx, err := toCore(t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return tx, nil
}

// AddTransaction implements ledger.TransactionWriter
func (r *SQLiteRepository) AddTransaction(ctx context.Context, tx core.Transaction) (int64, error) {
	tx.Category = strings.TrimSpace(tx.Category)
	if err := tx.Validate(); err != nil {
		return 0, err
	}

	var id int64
	err := r.inTx(ctx, func(q *Queries) error {
		if _, err := q.InsertCategoryIfAbsent(ctx, tx.Category, tx.Kind.String()); err != nil {
			return fmt.Errorf("ensure category: %w", err)
		}
		var err error
		id, err = q.CreateTransaction(ctx, CreateTransactionParams{
			Date:     tx.Date,
			Kind:     tx.Kind.String(),
			Category: tx.Category,
			Amount:   tx.Amount.InexactFloat64(),
			Note:     tx.Note,
		})
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("create transaction: %w", err)
	}

	r.logger.DebugContext(ctx, "Transaction saved to SQLite", applog.NewFields().
		WithOperation(applog.OpCreate).
		WithTransaction(id, tx.Date, tx.Kind.String(), tx.Category, tx.Amount.String()).
		ToSlice()...)

	return id, nil
}

// UpdateTransaction implements ledger.TransactionWriter
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, tx core.Transaction) error {
	if !core.IsStorableAmount(tx.Amount) {
		return fmt.Errorf("update transaction %d: %w", tx.ID, core.ErrInvalidAmount)
	}
	err := r.inTx(ctx, func(q *Queries) error {
		if _, err := q.GetTransaction(ctx, tx.ID); errors.Is(err, sql.ErrNoRows) {
			return core.ErrTransactionNotFound
		} else if err != nil {
			return fmt.Errorf("load transaction: %w", err)
		}
		exists, err := q.CategoryExists(ctx, tx.Category)
		if err != nil {
			return fmt.Errorf("check category: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: %q", core.ErrCategoryNotFound, tx.Category)
		}
		_, err = q.UpdateTransaction(ctx, UpdateTransactionParams{
			Date:     tx.Date,
			Category: tx.Category,
			Amount:   tx.Amount.InexactFloat64(),
			Note:     tx.Note,
			ID:       tx.ID,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("update transaction %d: %w", tx.ID, err)
	}

	r.logger.DebugContext(ctx, "Transaction updated in SQLite",
		applog.FieldOperation, applog.OpUpdate, applog.FieldID, tx.ID)
	return nil
}

// DeleteTransactions implements ledger.TransactionWriter
func (r *SQLiteRepository) DeleteTransactions(ctx context.Context, ids []int64) (int, error) {
	removed := 0
	err := r.inTx(ctx, func(q *Queries) error {
		for _, id := range ids {
			n, err := q.DeleteTransaction(ctx, id)
			if err != nil {
				return fmt.Errorf("delete transaction %d: %w", id, err)
			}
			removed += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete transactions: %w", err)
	}

	r.logger.DebugContext(ctx, "Transactions removed from SQLite",
		applog.FieldOperation, applog.OpDelete,
		"requested", len(ids),
		applog.FieldCount, removed)
	return removed, nil
}

// CountTransactions returns the number of stored transactions.
func (r *SQLiteRepository) CountTransactions(ctx context.Context) (int64, error) {
	n, err := r.queries.CountTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

// inTx runs fn inside a database transaction, rolling back when fn fails.
func (r *SQLiteRepository) inTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(r.queries.WithTx(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.logger.ErrorContext(ctx, "Rollback failed", applog.FieldError, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func toCore(t Transaction) (core.Transaction, error) {
	if math.IsInf(t.Amount, 0) || math.IsNaN(t.Amount) {
		return core.Transaction{}, fmt.Errorf("%w: stored amount %v", core.ErrInvalidAmount, t.Amount)
	}
	return core.Transaction{
		ID:       t.ID,
		Date:     t.Date,
		Kind:     core.Kind(t.Kind),
		Category: t.Category,
		Amount:   decimal.NewFromFloat(t.Amount),
		Note:     t.Note,
	}, nil
}
