// Package ledger declares the storage ports the services depend on. Concrete
// stores live in internal/storage (SQLite) and internal/ledger/memory.
package ledger

import (
	"context"

	"finance/internal/core"
)

type (
	CategoryReader interface {
		// ListCategories returns names ordered by kind then name, or by name when
		// kind is set.
		ListCategories(ctx context.Context, kind core.Kind) ([]string, error)
		Categories(ctx context.Context, kind core.Kind) ([]core.Category, error)
	}

	CategoryWriter interface {
		// AddCategory is a no-op when the name already exists under either kind.
		AddCategory(ctx context.Context, c core.Category) error
		// DeleteCategory moves referencing transactions to the sentinel category and
		// removes the record in one unit.
		DeleteCategory(ctx context.Context, name string) error
	}

	TransactionReader interface {
		// ListTransactions returns every transaction, newest date first.
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
		GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
	}

	TransactionWriter interface {
		// AddTransaction ensures the category exists, then inserts. Returns the new id.
		AddTransaction(ctx context.Context, tx core.Transaction) (int64, error)
		UpdateTransaction(ctx context.Context, tx core.Transaction) error
		// DeleteTransactions ignores ids that do not exist and returns how many rows
		// were removed.
		DeleteTransactions(ctx context.Context, ids []int64) (int, error)
	}

	// Store is everything the ledger service needs from persistence.
	Store interface {
		CategoryReader
		CategoryWriter
		TransactionReader
		TransactionWriter
		Close() error
	}
)
