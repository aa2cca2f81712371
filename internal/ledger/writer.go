package ledger

import (
	"context"
	"fmt"

	"finsheet/internal/core"
	"finsheet/internal/log"
	"finsheet/internal/sheets"
)

const (
	// Year tabs are created with this grid size.
	YearSheetRows = 1000
	YearSheetCols = 100

	BankTypeRow  = 2
	FirstDataRow = 3

	// ColumnsPerRow is the width of one written transaction:
	// date, description, amount, category.
	ColumnsPerRow = 4
)

// Batch is one statement's rows bound for a year tab.
type Batch struct {
	Period core.Period
	Bank   string
	Rows   []core.LedgerRow
}

// WriteResult reports where a batch landed.
type WriteResult struct {
	Sheet      string
	BlockStart int
	BankType   core.BankType
	Range      sheets.CellRange
	Rows       int
}

type WriterOption func(*Writer)

// WithClearStaleRows clears the whole sub-block below the header before
// writing, so a shorter re-import leaves no rows from a previous run.
func WithClearStaleRows(on bool) WriterOption {
	return func(w *Writer) { w.clearStale = on }
}

// Writer puts transaction batches on year tabs.
type Writer struct {
	wb         sheets.Workbook
	alloc      *Allocator
	profile    Profile
	banks      BankTypes
	clearStale bool
}

func NewWriter(wb sheets.Workbook, profile Profile, banks BankTypes, opts ...WriterOption) *Writer {
	w := &Writer{
		wb:      wb,
		alloc:   NewAllocator(wb),
		profile: profile,
		banks:   banks,
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// BankType resolves a bank identifier with the writer's mapping.
func (w *Writer) BankType(bank string) core.BankType {
	return w.banks.Resolve(bank)
}

// Write stores b on its year tab. Re-running the same period and bank
// overwrites the same range. Without WithClearStaleRows a shorter batch
// leaves the previous run's trailing rows in place.
func (w *Writer) Write(ctx context.Context, b Batch) (WriteResult, error) {
	sheet := b.Period.YearSheet()
	if err := w.EnsureSheet(ctx, sheet); err != nil {
		return WriteResult{}, err
	}

	start, err := w.alloc.Allocate(ctx, sheet, b.Period.MonthName())
	if err != nil {
		return WriteResult{}, fmt.Errorf("allocate %s: %w", b.Period, err)
	}

	bt := w.banks.Resolve(b.Bank)
	col := start + w.profile.Offset(bt)

	if err := w.wb.WriteCell(ctx, sheet, BankTypeRow, col, string(bt)); err != nil {
		return WriteResult{}, fmt.Errorf("write bank type header: %w", err)
	}

	if w.clearStale {
		stale := sheets.CellRange{StartRow: FirstDataRow, StartCol: col, EndCol: col + ColumnsPerRow - 1}
		if err := w.wb.ClearRange(ctx, sheet, stale); err != nil {
			return WriteResult{}, fmt.Errorf("clear previous rows: %w", err)
		}
	}

	res := WriteResult{Sheet: sheet, BlockStart: start, BankType: bt, Rows: len(b.Rows)}
	if len(b.Rows) == 0 {
		logger(ctx).InfoContext(ctx, "No rows to write", log.FieldSheet, sheet, log.FieldMonth, b.Period.MonthName(), log.FieldBankType, bt)
		return res, nil
	}

	values := make([][]any, len(b.Rows))
	for i, r := range b.Rows {
		values[i] = r.Values()
	}
	res.Range = sheets.Rect(FirstDataRow, col, len(values), ColumnsPerRow)
	if err := w.wb.WriteRange(ctx, sheet, res.Range, values); err != nil {
		return WriteResult{}, fmt.Errorf("write transactions: %w", err)
	}

	logger(ctx).InfoContext(ctx, "Wrote transactions",
		log.FieldSheet, sheet,
		log.FieldMonth, b.Period.MonthName(),
		log.FieldBankType, bt,
		"range", res.Range.A1(sheet),
		log.FieldRows, len(values))
	return res, nil
}

// EnsureSheet creates the tab when it does not exist.
func (w *Writer) EnsureSheet(ctx context.Context, sheet string) error {
	ok, err := w.wb.HasSheet(ctx, sheet)
	if err != nil {
		return fmt.Errorf("look up sheet %q: %w", sheet, err)
	}
	if ok {
		return nil
	}
	if err := w.wb.AddSheet(ctx, sheet, YearSheetRows, YearSheetCols); err != nil {
		return fmt.Errorf("create sheet %q: %w", sheet, err)
	}
	return nil
}
