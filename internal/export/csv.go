package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"finance/internal/core"
)

// Header is the first row of every export. The id column is left out.
const Header = "Date,Kind,Category,Amount,Note"

const (
	numFields   = 5
	colDate     = 0
	colKind     = 1
	colCategory = 2
	colAmount   = 3
	colNote     = 4
)

// WriteTransactions writes the header and one row per transaction, in the order given.
func WriteTransactions(w io.Writer, txs []core.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, tx := range txs {
		if err := cw.Write(MarshalTransaction(tx)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile creates (or truncates) path and writes txs to it.
func WriteFile(path string, txs []core.Transaction) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating export dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}

	if err := WriteTransactions(f, txs); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing export file: %w", err)
	}
	return nil
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(tx core.Transaction) []string {
	row := make([]string, numFields)
	row[colDate] = tx.Date
	row[colKind] = tx.Kind.String()
	row[colCategory] = tx.Category
	row[colAmount] = core.FormatAmount(tx.Amount)
	row[colNote] = tx.Note
	return row
}
