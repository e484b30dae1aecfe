// Package storage persists the transaction ledger in SQLite and serves it
// back as a table. Cells are stored verbatim; typing happens at read time
// in the analytics layer, exactly as with the file-based backends.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cardstats/internal/core"
	"cardstats/internal/table"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const insertTransaction = `
INSERT INTO transactions (
	operation_date, payment_date, payment_amount, operation_amount,
	category, description, card_number, mcc, cashback
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

// InsertRows appends ledger rows, ordered as core.LedgerColumns. Used by
// the import command; the analytics pipeline itself never writes.
func (r *SQLiteRepository) InsertRows(ctx context.Context, rows [][]string) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertTransaction)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, row := range rows {
		cells := make([]any, len(core.LedgerColumns))
		for i := range core.LedgerColumns {
			if i < len(row) {
				cells[i] = row[i]
			} else {
				cells[i] = ""
			}
		}
		if _, err := stmt.ExecContext(ctx, cells...); err != nil {
			return inserted, fmt.Errorf("insert transaction: %w", err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Transactions saved to SQLite", "rows", inserted)
	return inserted, nil
}

const selectTransactions = `
SELECT operation_date, payment_date, payment_amount, operation_amount,
       category, description, card_number, mcc, cashback
FROM transactions
ORDER BY id`

// Load implements ledger.Reader: the whole ledger as a table, in insert
// order.
func (r *SQLiteRepository) Load(ctx context.Context) (*table.Table, error) {
	dbRows, err := r.db.QueryContext(ctx, selectTransactions)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer dbRows.Close()

	var rows [][]string
	for dbRows.Next() {
		row := make([]string, len(core.LedgerColumns))
		dest := make([]any, len(row))
		for i := range row {
			dest[i] = &row[i]
		}
		if err := dbRows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		rows = append(rows, row)
	}
	if err := dbRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return table.New(core.LedgerColumns, rows), nil
}
