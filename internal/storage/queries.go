package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
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

type ImportRun struct {
	ID          string
	SourceFile  string
	CleanedFile string
	Bank        string
	BankType    string
	Month       int64
	Year        int64
	RowsWritten int64
	RowsSkipped int64
	RowsCoerced int64
	SummaryRow  int64
	Status      string
	Error       string
	StartedAt   string
	FinishedAt  string
}

type CategoryTotal struct {
	RunID    string
	Position int64
	Category string
	Amount   string
}

const createImportRun = `
INSERT INTO import_runs (
    id, source_file, cleaned_file, bank, bank_type, month, year,
    rows_written, rows_skipped, rows_coerced, summary_row,
    status, error, started_at, finished_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateImportRun(ctx context.Context, arg ImportRun) error {
	_, err := q.db.ExecContext(ctx, createImportRun,
		arg.ID, arg.SourceFile, arg.CleanedFile, arg.Bank, arg.BankType, arg.Month, arg.Year,
		arg.RowsWritten, arg.RowsSkipped, arg.RowsCoerced, arg.SummaryRow,
		arg.Status, arg.Error, arg.StartedAt, arg.FinishedAt,
	)
	return err
}

const createCategoryTotal = `
INSERT INTO category_totals (run_id, position, category, amount) VALUES (?, ?, ?, ?)`

func (q *Queries) CreateCategoryTotal(ctx context.Context, arg CategoryTotal) error {
	_, err := q.db.ExecContext(ctx, createCategoryTotal, arg.RunID, arg.Position, arg.Category, arg.Amount)
	return err
}

const listImportRuns = `
SELECT id, source_file, cleaned_file, bank, bank_type, month, year,
       rows_written, rows_skipped, rows_coerced, summary_row,
       status, error, started_at, finished_at
FROM import_runs
ORDER BY started_at DESC, id
LIMIT ?`

func (q *Queries) ListImportRuns(ctx context.Context, limit int64) ([]ImportRun, error) {
	rows, err := q.db.QueryContext(ctx, listImportRuns, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ImportRun
	for rows.Next() {
		var i ImportRun
		if err := rows.Scan(
			&i.ID, &i.SourceFile, &i.CleanedFile, &i.Bank, &i.BankType, &i.Month, &i.Year,
			&i.RowsWritten, &i.RowsSkipped, &i.RowsCoerced, &i.SummaryRow,
			&i.Status, &i.Error, &i.StartedAt, &i.FinishedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listCategoryTotals = `
SELECT run_id, position, category, amount
FROM category_totals
WHERE run_id = ?
ORDER BY position`

func (q *Queries) ListCategoryTotals(ctx context.Context, runID string) ([]CategoryTotal, error) {
	rows, err := q.db.QueryContext(ctx, listCategoryTotals, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CategoryTotal
	for rows.Next() {
		var i CategoryTotal
		if err := rows.Scan(&i.RunID, &i.Position, &i.Category, &i.Amount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
