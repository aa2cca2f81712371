// Package sheets defines the spreadsheet ports used by the ledger and the
// typed values passed through them.
package sheets

import (
	"fmt"
	"strconv"
	"strings"
)

// CellRange is a rectangular, 1-based, inclusive region. EndRow == 0 means
// the range runs to the bottom of the sheet.
type CellRange struct {
	StartRow, StartCol int
	EndRow, EndCol     int
}

// Cell returns the single-cell range at row, col.
func Cell(row, col int) CellRange {
	return CellRange{StartRow: row, StartCol: col, EndRow: row, EndCol: col}
}

// Rect returns the range of rows×cols cells anchored at row, col.
func Rect(row, col, rows, cols int) CellRange {
	return CellRange{StartRow: row, StartCol: col, EndRow: row + rows - 1, EndCol: col + cols - 1}
}

// OpenEnded reports whether the range has no bottom row.
func (r CellRange) OpenEnded() bool { return r.EndRow == 0 }

// Rows returns the row count, or 0 for an open-ended range.
func (r CellRange) Rows() int {
	if r.OpenEnded() {
		return 0
	}
	return r.EndRow - r.StartRow + 1
}

func (r CellRange) Cols() int { return r.EndCol - r.StartCol + 1 }

func (r CellRange) Validate() error {
	switch {
	case r.StartRow < 1 || r.StartCol < 1:
		return fmt.Errorf("range %+v: start must be >= 1", r)
	case r.EndCol < r.StartCol:
		return fmt.Errorf("range %+v: end column before start", r)
	case !r.OpenEnded() && r.EndRow < r.StartRow:
		return fmt.Errorf("range %+v: end row before start", r)
	}
	return nil
}

// A1 formats the range in A1 notation. With a sheet name the result is
// qualified, e.g. '2024'!B3:E10. A single cell renders as B3 and an
// open-ended range as B3:E.
func (r CellRange) A1(sheet string) string {
	var b strings.Builder
	if sheet != "" {
		b.WriteString(QuoteSheet(sheet))
		b.WriteByte('!')
	}
	b.WriteString(ColumnName(r.StartCol))
	b.WriteString(strconv.Itoa(r.StartRow))
	if r.StartRow == r.EndRow && r.StartCol == r.EndCol {
		return b.String()
	}
	b.WriteByte(':')
	b.WriteString(ColumnName(r.EndCol))
	if !r.OpenEnded() {
		b.WriteString(strconv.Itoa(r.EndRow))
	}
	return b.String()
}

// ColumnName converts a 1-based column index to letters: 1 → A, 27 → AA.
func ColumnName(col int) string {
	if col < 1 {
		return ""
	}
	var buf [8]byte
	i := len(buf)
	for col > 0 {
		col--
		i--
		buf[i] = byte('A' + col%26)
		col /= 26
	}
	return string(buf[i:])
}

// QuoteSheet wraps a sheet title in single quotes, doubling embedded quotes.
// Numeric titles such as "2024" must be quoted to be read as sheet names.
func QuoteSheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
