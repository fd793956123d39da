package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type Category struct {
	ID   int64
	Name string
	Kind string
}

type Transaction struct {
	ID       int64
	Date     string
	Kind     string
	Category string
	Amount   float64
	Note     string
}

const listCategories = `SELECT id, name, kind FROM categories ORDER BY kind, name`

func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.QueryContext(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	return scanCategories(rows)
}

const listCategoriesByKind = `SELECT id, name, kind FROM categories WHERE kind = ? ORDER BY name`

func (q *Queries) ListCategoriesByKind(ctx context.Context, kind string) ([]Category, error) {
	rows, err := q.db.QueryContext(ctx, listCategoriesByKind, kind)
	if err != nil {
		return nil, err
	}
	return scanCategories(rows)
}

const categoryExists = `SELECT EXISTS (SELECT 1 FROM categories WHERE name = ?)`

func (q *Queries) CategoryExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, categoryExists, name).Scan(&exists)
	return exists, err
}

const insertCategoryIfAbsent = `INSERT INTO categories (name, kind) VALUES (?, ?) ON CONFLICT (name) DO NOTHING`

func (q *Queries) InsertCategoryIfAbsent(ctx context.Context, name, kind string) (int64, error) {
	res, err := q.db.ExecContext(ctx, insertCategoryIfAbsent, name, kind)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const reassignCategory = `UPDATE transactions SET category = ? WHERE category = ?`

func (q *Queries) ReassignCategory(ctx context.Context, to, from string) (int64, error) {
	res, err := q.db.ExecContext(ctx, reassignCategory, to, from)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteCategory = `DELETE FROM categories WHERE name = ?`

func (q *Queries) DeleteCategory(ctx context.Context, name string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteCategory, name)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const listTransactions = `SELECT id, date, kind, category, amount, note FROM transactions ORDER BY date DESC, id DESC`

func (q *Queries) ListTransactions(ctx context.Context) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.Date, &t.Kind, &t.Category, &t.Amount, &t.Note); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getTransaction = `SELECT id, date, kind, category, amount, note FROM transactions WHERE id = ?`

func (q *Queries) GetTransaction(ctx context.Context, id int64) (Transaction, error) {
	var t Transaction
	err := q.db.QueryRowContext(ctx, getTransaction, id).
		Scan(&t.ID, &t.Date, &t.Kind, &t.Category, &t.Amount, &t.Note)
	return t, err
}

const createTransaction = `INSERT INTO transactions (date, kind, category, amount, note) VALUES (?, ?, ?, ?, ?)`

type CreateTransactionParams struct {
	Date     string
	Kind     string
	Category string
	Amount   float64
	Note     string
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, createTransaction, arg.Date, arg.Kind, arg.Category, arg.Amount, arg.Note)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const updateTransaction = `UPDATE transactions SET date = ?, category = ?, amount = ?, note = ? WHERE id = ?`

type UpdateTransactionParams struct {
	Date     string
	Category string
	Amount   float64
	Note     string
	ID       int64
}

func (q *Queries) UpdateTransaction(ctx context.Context, arg UpdateTransactionParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateTransaction, arg.Date, arg.Category, arg.Amount, arg.Note, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteTransaction = `DELETE FROM transactions WHERE id = ?`

func (q *Queries) DeleteTransaction(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteTransaction, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const countTransactions = `SELECT COUNT(*) FROM transactions`

func (q *Queries) CountTransactions(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countTransactions).Scan(&n)
	return n, err
}

func scanCategories(rows *sql.Rows) ([]Category, error) {
	defer rows.Close()

	var items []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Kind); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
