// Package memory is an in-process spreadsheet used for dry runs and tests.
package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	ports "finsheet/internal/sheets"
)

var _ ports.Workbook = (*Workbook)(nil)

// FormatCall records one Format request.
type FormatCall struct {
	Range  ports.CellRange
	Format ports.CellFormat
}

type sheet struct {
	rows, cols int
	grid       [][]any
	formats    []FormatCall
}

// Workbook keeps every tab as a sparse grid of raw values.
type Workbook struct {
	mu     sync.Mutex
	sheets map[string]*sheet
	order  []string
	writes int
}

// New returns a workbook holding empty tabs with the given titles.
func New(titles ...string) *Workbook {
	w := &Workbook{sheets: map[string]*sheet{}}
	for _, t := range titles {
		w.add(t, 1000, 26)
	}
	return w
}

func (w *Workbook) add(title string, rows, cols int) {
	w.sheets[title] = &sheet{rows: rows, cols: cols}
	w.order = append(w.order, title)
}

func (w *Workbook) get(title string) (*sheet, error) {
	s, ok := w.sheets[title]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ports.ErrSheetNotFound, title)
	}
	return s, nil
}

func (w *Workbook) HasSheet(_ context.Context, title string) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.sheets[title]
	return ok, nil
}

func (w *Workbook) AddSheet(_ context.Context, title string, rows, cols int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.sheets[title]; ok {
		return fmt.Errorf("add sheet %q: already exists", title)
	}
	w.add(title, rows, cols)
	w.writes++
	return nil
}

func (w *Workbook) ReadRow(_ context.Context, title string, row int) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, err := w.get(title)
	if err != nil {
		return nil, err
	}
	if row < 1 || row > len(s.grid) {
		return nil, nil
	}
	return displayRow(s.grid[row-1]), nil
}

func (w *Workbook) ReadRows(_ context.Context, title string) ([][]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, err := w.get(title)
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(s.grid))
	for i, r := range s.grid {
		out[i] = displayRow(r)
	}
	return trimRows(out), nil
}

func (w *Workbook) ReadRange(_ context.Context, title string, r ports.CellRange) ([][]any, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	s, err := w.get(title)
	if err != nil {
		return nil, err
	}
	end := r.EndRow
	if r.OpenEnded() || end > len(s.grid) {
		end = len(s.grid)
	}
	var out [][]any
	for row := r.StartRow; row <= end; row++ {
		src := s.grid[row-1]
		var vals []any
		for col := r.StartCol; col <= r.EndCol && col <= len(src); col++ {
			vals = append(vals, src[col-1])
		}
		out = append(out, trimValues(vals))
	}
	return trimRows(out), nil
}

func (w *Workbook) WriteRange(_ context.Context, title string, r ports.CellRange, values [][]any) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if !r.OpenEnded() && len(values) > r.Rows() {
		return fmt.Errorf("write %s: %d rows do not fit", r.A1(title), len(values))
	}
	for i, v := range values {
		if len(v) > r.Cols() {
			return fmt.Errorf("write %s: row %d has %d values, range has %d columns", r.A1(title), i+1, len(v), r.Cols())
		}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	s, err := w.get(title)
	if err != nil {
		return err
	}
	for i, v := range values {
		for j, cell := range v {
			s.set(r.StartRow+i, r.StartCol+j, cell)
		}
	}
	w.writes++
	return nil
}

func (w *Workbook) WriteCell(_ context.Context, title string, row, col int, value any) error {
	if err := ports.Cell(row, col).Validate(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	s, err := w.get(title)
	if err != nil {
		return err
	}
	s.set(row, col, value)
	w.writes++
	return nil
}

func (w *Workbook) ClearRange(_ context.Context, title string, r ports.CellRange) error {
	if err := r.Validate(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	s, err := w.get(title)
	if err != nil {
		return err
	}
	end := r.EndRow
	if r.OpenEnded() || end > len(s.grid) {
		end = len(s.grid)
	}
	for row := r.StartRow; row <= end; row++ {
		cells := s.grid[row-1]
		for col := r.StartCol; col <= r.EndCol && col <= len(cells); col++ {
			cells[col-1] = nil
		}
	}
	w.writes++
	return nil
}

func (w *Workbook) InsertRow(_ context.Context, title string, row int, values []any) error {
	if row < 1 {
		return fmt.Errorf("insert row %d: must be >= 1", row)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	s, err := w.get(title)
	if err != nil {
		return err
	}
	for len(s.grid) < row-1 {
		s.grid = append(s.grid, nil)
	}
	s.grid = append(s.grid, nil)
	copy(s.grid[row:], s.grid[row-1:])
	s.grid[row-1] = append([]any(nil), values...)
	s.rows++
	w.writes++
	return nil
}

func (w *Workbook) Format(_ context.Context, title string, r ports.CellRange, f ports.CellFormat) error {
	if err := r.Validate(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	s, err := w.get(title)
	if err != nil {
		return err
	}
	s.formats = append(s.formats, FormatCall{Range: r, Format: f})
	w.writes++
	return nil
}

// Writes counts mutating calls since the workbook was created.
func (w *Workbook) Writes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writes
}

// Titles lists tabs in creation order.
func (w *Workbook) Titles() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.order...)
}

// Cell returns the raw value at row, col, or nil.
func (w *Workbook) Cell(title string, row, col int) any {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.sheets[title]
	if !ok || row < 1 || row > len(s.grid) || col < 1 || col > len(s.grid[row-1]) {
		return nil
	}
	return s.grid[row-1][col-1]
}

// Formats returns the Format calls made against a tab, in order.
func (w *Workbook) Formats(title string) []FormatCall {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.sheets[title]
	if !ok {
		return nil
	}
	return append([]FormatCall(nil), s.formats...)
}

// Size returns the grid dimensions a tab was created with.
func (w *Workbook) Size(title string) (rows, cols int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if s, ok := w.sheets[title]; ok {
		return s.rows, s.cols
	}
	return 0, 0
}

func (s *sheet) set(row, col int, v any) {
	for len(s.grid) < row {
		s.grid = append(s.grid, nil)
	}
	cells := s.grid[row-1]
	for len(cells) < col {
		cells = append(cells, nil)
	}
	cells[col-1] = v
	s.grid[row-1] = cells
}

func display(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	default:
		return fmt.Sprint(x)
	}
}

func displayRow(r []any) []string {
	out := make([]string, len(r))
	for i, v := range r {
		out[i] = display(v)
	}
	n := len(out)
	for n > 0 && out[n-1] == "" {
		n--
	}
	return out[:n]
}

func trimValues(r []any) []any {
	n := len(r)
	for n > 0 && display(r[n-1]) == "" {
		n--
	}
	return r[:n]
}

func trimRows[T any](rows [][]T) [][]T {
	n := len(rows)
	for n > 0 && len(rows[n-1]) == 0 {
		n--
	}
	return rows[:n]
}
