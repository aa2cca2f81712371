package ledger

import (
	"context"
	"fmt"
	"strings"

	"finsheet/internal/log"
	"finsheet/internal/sheets"
)

// BlockWidth is the number of columns reserved per month on a year tab.
const BlockWidth = 10

// LabelRow is the row holding month labels.
const LabelRow = 1

type allocatorSheet interface {
	sheets.RowReader
	sheets.RangeWriter
}

// Allocator finds or reserves month blocks on a year tab.
type Allocator struct {
	wb allocatorSheet
}

func NewAllocator(wb allocatorSheet) *Allocator {
	return &Allocator{wb: wb}
}

// Allocate returns the 1-based start column of the month's block. An
// existing block is returned without writing; otherwise the next free block
// is labeled with month and returned.
func (a *Allocator) Allocate(ctx context.Context, sheet, month string) (int, error) {
	row, err := a.wb.ReadRow(ctx, sheet, LabelRow)
	if err != nil {
		return 0, fmt.Errorf("read month labels: %w", err)
	}

	if col, ok := FindBlock(row, month); ok {
		logger(ctx).DebugContext(ctx, "Found month block", log.FieldSheet, sheet, log.FieldMonth, month, "column", col)
		return col, nil
	}

	start := NextBlock(row)
	if err := a.wb.WriteCell(ctx, sheet, LabelRow, start+BlockWidth/2+1, month); err != nil {
		return 0, fmt.Errorf("label month block: %w", err)
	}
	logger(ctx).InfoContext(ctx, "Allocated month block", log.FieldSheet, sheet, log.FieldMonth, month, "column", start+1)
	return start + 1, nil
}

// FindBlock scans row 1 for a block whose midpoint equals month, ignoring
// case and surrounding space, and returns its 1-based start column.
func FindBlock(row []string, month string) (int, bool) {
	month = strings.TrimSpace(month)
	for start := 0; start < len(row); start += BlockWidth {
		mid := start + BlockWidth/2
		if mid < len(row) && strings.EqualFold(strings.TrimSpace(row[mid]), month) {
			return start + 1, true
		}
	}
	return 0, false
}

// NextBlock returns the 0-based start of the block after the one holding
// the right-most non-empty cell, or 0 for an empty row.
func NextBlock(row []string) int {
	last := -1
	for i, v := range row {
		if strings.TrimSpace(v) != "" {
			last = i
		}
	}
	if last < 0 {
		return 0
	}
	return (last/BlockWidth + 1) * BlockWidth
}
