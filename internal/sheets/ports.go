package sheets

import (
	"context"
	"errors"
)

// ErrSheetNotFound is returned when a named tab does not exist.
var ErrSheetNotFound = errors.New("sheet not found")

// Ports for outbound adapters. Rows and columns are 1-based.
type (
	SheetProvisioner interface {
		HasSheet(ctx context.Context, title string) (bool, error)
		AddSheet(ctx context.Context, title string, rows, cols int) error
	}

	// RowReader returns cell values as displayed text. Trailing empty cells
	// are omitted, as the Sheets API does.
	RowReader interface {
		ReadRow(ctx context.Context, sheet string, row int) ([]string, error)
		ReadRows(ctx context.Context, sheet string) ([][]string, error)
	}

	RangeReader interface {
		ReadRange(ctx context.Context, sheet string, r CellRange) ([][]any, error)
	}

	RangeWriter interface {
		// WriteRange writes values into r starting at its top-left cell. The
		// value grid must fit inside r.
		WriteRange(ctx context.Context, sheet string, r CellRange, values [][]any) error
		WriteCell(ctx context.Context, sheet string, row, col int, value any) error
		ClearRange(ctx context.Context, sheet string, r CellRange) error
	}

	// RowInserter inserts a row before the given index, shifting the rows
	// below down by one, and fills it with values from column A.
	RowInserter interface {
		InsertRow(ctx context.Context, sheet string, row int, values []any) error
	}

	Formatter interface {
		Format(ctx context.Context, sheet string, r CellRange, f CellFormat) error
	}

	// Workbook is everything the ledger needs from a spreadsheet.
	Workbook interface {
		SheetProvisioner
		RowReader
		RangeReader
		RangeWriter
		RowInserter
		Formatter
	}
)
