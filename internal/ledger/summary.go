package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"finsheet/internal/core"
	"finsheet/internal/log"
	"finsheet/internal/sheets"
)

const (
	DefaultMasterSheet     = "Master"
	DefaultCurrencyPattern = "£#,##0.00"

	// Title is written to A1 of the Master tab along with the headers.
	Title     = "Finance Overview"
	HeaderRow = 2
)

// Entry is one Master row to add.
type Entry struct {
	Period   core.Period
	BankType core.BankType
	// Totals must follow the profile's category order, as CategoryTotals
	// returns them.
	Totals []core.CategoryAmount
}

// Label is the row label, e.g. "March - Debit".
func (e Entry) Label() string {
	return fmt.Sprintf("%s - %s", e.Period.MonthName(), e.BankType)
}

// SummaryResult reports the inserted Master row.
type SummaryResult struct {
	Row           int
	Label         string
	TotalNoSalary decimal.Decimal
	Total         decimal.Decimal
	HeaderWritten bool
}

// CategoryTotals sums rows per category in the order of cats. Categories
// without rows total zero; rows whose category is not in cats are ignored.
func CategoryTotals(rows []core.LedgerRow, cats []core.Category) []core.CategoryAmount {
	sums := make(map[core.Category]decimal.Decimal, len(cats))
	for _, r := range rows {
		sums[r.Category] = sums[r.Category].Add(r.Amount)
	}
	out := make([]core.CategoryAmount, len(cats))
	for i, c := range cats {
		out[i] = core.CategoryAmount{Category: c, Amount: core.RoundMoney(sums[c])}
	}
	return out
}

type SummaryOption func(*Summary)

func WithMasterSheet(name string) SummaryOption {
	return func(s *Summary) { s.sheet = name }
}

func WithCurrencyPattern(p string) SummaryOption {
	return func(s *Summary) { s.currency = p }
}

// Summary maintains the Master tab.
type Summary struct {
	wb       sheets.Workbook
	profile  Profile
	sheet    string
	currency string
}

func NewSummary(wb sheets.Workbook, profile Profile, opts ...SummaryOption) *Summary {
	s := &Summary{
		wb:       wb,
		profile:  profile,
		sheet:    DefaultMasterSheet,
		currency: DefaultCurrencyPattern,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Update makes sure the header is in place, inserts the entry's row and
// formats its money cells.
func (s *Summary) Update(ctx context.Context, e Entry) (SummaryResult, error) {
	if err := s.checkTotals(e.Totals); err != nil {
		return SummaryResult{}, err
	}

	ok, err := s.wb.HasSheet(ctx, s.sheet)
	if err != nil {
		return SummaryResult{}, fmt.Errorf("look up sheet %q: %w", s.sheet, err)
	}
	if !ok {
		return SummaryResult{}, fmt.Errorf("%w: %q", sheets.ErrSheetNotFound, s.sheet)
	}

	written, err := s.ensureHeaders(ctx)
	if err != nil {
		return SummaryResult{}, err
	}

	amounts := make([]decimal.Decimal, len(e.Totals))
	for i, t := range e.Totals {
		amounts[i] = core.RoundMoney(t.Amount)
	}
	res := SummaryResult{
		Label:         e.Label(),
		TotalNoSalary: core.SumMoney(amounts[1:]),
		Total:         core.SumMoney(amounts),
		HeaderWritten: written,
	}

	lead := s.leadValues(e)
	values := append([]any(nil), lead...)
	for _, a := range amounts {
		values = append(values, a.InexactFloat64())
	}
	values = append(values, res.TotalNoSalary.InexactFloat64(), res.Total.InexactFloat64())

	row, err := s.insertRow(ctx, e.Period.Year, values)
	if err != nil {
		return SummaryResult{}, err
	}
	res.Row = row

	money := sheets.Rect(row, len(lead)+1, 1, len(amounts)+2)
	if err := s.wb.Format(ctx, s.sheet, money, sheets.Currency{Pattern: s.currency}); err != nil {
		return SummaryResult{}, fmt.Errorf("format totals: %w", err)
	}

	logger(ctx).InfoContext(ctx, "Updated master sheet", log.FieldSheet, s.sheet, "label", res.Label, log.FieldRow, row, "total", res.Total.String())
	return res, nil
}

func (s *Summary) checkTotals(totals []core.CategoryAmount) error {
	if len(totals) != len(s.profile.Categories) {
		return fmt.Errorf("got %d category totals, profile %s has %d categories", len(totals), s.profile.Name, len(s.profile.Categories))
	}
	for i, t := range totals {
		if t.Category != s.profile.Categories[i] {
			return fmt.Errorf("category total %d is %q, want %q", i+1, t.Category, s.profile.Categories[i])
		}
	}
	return nil
}

// ensureHeaders rewrites the title and header row unless row 2 already
// starts with the expected headers. It reports whether it wrote.
func (s *Summary) ensureHeaders(ctx context.Context) (bool, error) {
	want := s.profile.Headers()
	got, err := s.wb.ReadRow(ctx, s.sheet, HeaderRow)
	if err != nil {
		return false, fmt.Errorf("read master headers: %w", err)
	}
	if HeadersMatch(got, want) {
		return false, nil
	}

	logger(ctx).InfoContext(ctx, "Writing master headers", log.FieldSheet, s.sheet, "found", got)
	if err := s.wb.WriteCell(ctx, s.sheet, 1, 1, Title); err != nil {
		return false, fmt.Errorf("write title: %w", err)
	}
	cells := make([]any, len(want))
	for i, h := range want {
		cells[i] = h
	}
	header := sheets.Rect(HeaderRow, 1, 1, len(want))
	if err := s.wb.WriteRange(ctx, s.sheet, header, [][]any{cells}); err != nil {
		return false, fmt.Errorf("write headers: %w", err)
	}
	if err := s.wb.Format(ctx, s.sheet, sheets.Cell(1, 1), sheets.Bold{}); err != nil {
		return false, fmt.Errorf("format title: %w", err)
	}
	if err := s.wb.Format(ctx, s.sheet, header, sheets.Bold{}); err != nil {
		return false, fmt.Errorf("format headers: %w", err)
	}
	return true, nil
}

// HeadersMatch compares got against want position by position, ignoring
// surrounding space. Extra trailing cells in got are allowed.
func HeadersMatch(got, want []string) bool {
	for i, w := range want {
		g := ""
		if i < len(got) {
			g = got[i]
		}
		if strings.TrimSpace(g) != w {
			return false
		}
	}
	return true
}

func (s *Summary) leadValues(e Entry) []any {
	if s.profile.Placement == PlaceTop {
		return []any{e.Period.Year, e.Label()}
	}
	return []any{e.Label()}
}

func (s *Summary) insertRow(ctx context.Context, year int, values []any) (int, error) {
	if s.profile.Placement == PlaceTop {
		if err := s.wb.InsertRow(ctx, s.sheet, FirstDataRow, values); err != nil {
			return 0, fmt.Errorf("insert summary row: %w", err)
		}
		return FirstDataRow, nil
	}

	row, err := s.yearMarkerRow(ctx, year)
	if err != nil {
		return 0, err
	}
	if err := s.wb.InsertRow(ctx, s.sheet, row+1, values); err != nil {
		return 0, fmt.Errorf("insert summary row: %w", err)
	}
	return row + 1, nil
}

// YearMarker is the column A text that opens a year's section.
func YearMarker(year int) string {
	return fmt.Sprintf("=== %d ===", year)
}

// yearMarkerRow returns the last row at or below FirstDataRow holding the
// year's marker, inserting the marker at FirstDataRow when there is none.
func (s *Summary) yearMarkerRow(ctx context.Context, year int) (int, error) {
	marker := YearMarker(year)
	rows, err := s.wb.ReadRows(ctx, s.sheet)
	if err != nil {
		return 0, fmt.Errorf("read master rows: %w", err)
	}
	found := 0
	for i := FirstDataRow - 1; i < len(rows); i++ {
		if len(rows[i]) > 0 && strings.TrimSpace(rows[i][0]) == marker {
			found = i + 1
		}
	}
	if found > 0 {
		return found, nil
	}
	if err := s.wb.InsertRow(ctx, s.sheet, FirstDataRow, []any{marker}); err != nil {
		return 0, fmt.Errorf("insert year marker: %w", err)
	}
	return FirstDataRow, nil
}
