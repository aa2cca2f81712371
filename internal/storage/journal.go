// Package storage keeps a local SQLite journal of import runs. The journal
// is an audit log; the import pipeline never reads it back.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"finsheet/internal/core"
	"finsheet/internal/log"

	_ "modernc.org/sqlite"
)

const timeLayout = time.RFC3339Nano

type Journal struct {
	db      *sql.DB
	queries *Queries
}

func NewJournal(dbPath string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Journal{db: db, queries: New(db)}, nil
}

func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// RecordRun stores a run and its category totals in one transaction.
func (j *Journal) RecordRun(ctx context.Context, run core.ImportRun) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := j.queries.WithTx(tx)
	if err := q.CreateImportRun(ctx, ImportRun{
		ID:          run.ID,
		SourceFile:  run.SourceFile,
		CleanedFile: run.CleanedFile,
		Bank:        run.Bank,
		BankType:    string(run.BankType),
		Month:       int64(run.Period.Month),
		Year:        int64(run.Period.Year),
		RowsWritten: int64(run.Rows),
		RowsSkipped: int64(run.Skipped),
		RowsCoerced: int64(run.Coerced),
		SummaryRow:  int64(run.SummaryRow),
		Status:      string(run.Status),
		Error:       run.Error,
		StartedAt:   run.StartedAt.UTC().Format(timeLayout),
		FinishedAt:  run.FinishedAt.UTC().Format(timeLayout),
	}); err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	for i, t := range run.Totals {
		if err := q.CreateCategoryTotal(ctx, CategoryTotal{
			RunID:    run.ID,
			Position: int64(i),
			Category: string(t.Category),
			Amount:   core.RoundMoney(t.Amount).StringFixed(core.MoneyPlaces),
		}); err != nil {
			return fmt.Errorf("insert total %s for run %s: %w", t.Category, run.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", run.ID, err)
	}

	log.FromContext(ctx).WithComponent(log.ComponentStorage).DebugContext(ctx, "Run journaled",
		log.FieldRunID, run.ID, "status", run.Status, "totals", len(run.Totals))
	return nil
}

// ListRuns returns up to limit runs, most recent first.
func (j *Journal) ListRuns(ctx context.Context, limit int) ([]core.ImportRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.queries.ListImportRuns(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	out := make([]core.ImportRun, 0, len(rows))
	for _, r := range rows {
		run, err := toImportRun(r)
		if err != nil {
			return nil, err
		}
		totals, err := j.queries.ListCategoryTotals(ctx, r.ID)
		if err != nil {
			return nil, fmt.Errorf("list totals for run %s: %w", r.ID, err)
		}
		for _, t := range totals {
			amt, err := decimal.NewFromString(t.Amount)
			if err != nil {
				return nil, fmt.Errorf("run %s: bad amount %q for %s: %w", r.ID, t.Amount, t.Category, err)
			}
			run.Totals = append(run.Totals, core.CategoryAmount{Category: core.Category(t.Category), Amount: amt})
		}
		out = append(out, run)
	}
	return out, nil
}

func toImportRun(r ImportRun) (core.ImportRun, error) {
	started, err := time.Parse(timeLayout, r.StartedAt)
	if err != nil {
		return core.ImportRun{}, fmt.Errorf("run %s: parse started_at: %w", r.ID, err)
	}
	finished, err := time.Parse(timeLayout, r.FinishedAt)
	if err != nil {
		return core.ImportRun{}, fmt.Errorf("run %s: parse finished_at: %w", r.ID, err)
	}
	return core.ImportRun{
		ID:          r.ID,
		SourceFile:  r.SourceFile,
		CleanedFile: r.CleanedFile,
		Bank:        r.Bank,
		BankType:    core.BankType(r.BankType),
		Period:      core.Period{Month: time.Month(r.Month), Year: int(r.Year)},
		Rows:        int(r.RowsWritten),
		Skipped:     int(r.RowsSkipped),
		Coerced:     int(r.RowsCoerced),
		SummaryRow:  int(r.SummaryRow),
		Status:      core.RunStatus(r.Status),
		Error:       r.Error,
		StartedAt:   started,
		FinishedAt:  finished,
	}, nil
}
