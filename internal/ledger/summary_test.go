package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsheet/internal/core"
	"finsheet/internal/sheets"
	"finsheet/internal/sheets/memory"
)

func TestCategoryTotals(t *testing.T) {
	cats := Classic().Categories
	rows := []core.LedgerRow{
		ledgerRow("01/03/2024", "TESCO", "-32.50", core.CategoryGroceries),
		ledgerRow("02/03/2024", "SALARY", "2500.00", core.CategoryOther),
		ledgerRow("03/03/2024", "WAITROSE", "-0.125", core.CategoryGroceries),
		ledgerRow("04/03/2024", "VANGUARD", "-100", core.CategoryInvestment),
	}

	got := CategoryTotals(rows, cats)

	require.Len(t, got, len(cats))
	byCat := map[core.Category]string{}
	for i, ca := range got {
		assert.Equal(t, cats[i], ca.Category)
		byCat[ca.Category] = ca.Amount.StringFixed(2)
	}
	// -32.625 rounds half to even.
	assert.Equal(t, "-32.62", byCat[core.CategoryGroceries])
	assert.Equal(t, "2500.00", byCat[core.CategoryOther])
	for _, c := range []core.Category{
		core.CategorySalary, core.CategoryFoodDining, core.CategoryTransport,
		core.CategoryBills, core.CategoryRentHousing, core.CategoryLeisure,
	} {
		assert.Equal(t, "0.00", byCat[c], "category %s", c)
	}
}

func TestCategoryTotals_NoRows(t *testing.T) {
	got := CategoryTotals(nil, Investment().Categories)
	require.Len(t, got, 9)
	for _, ca := range got {
		assert.True(t, ca.Amount.Equal(decimal.Zero), "category %s", ca.Category)
	}
}

func TestSummary_ClassicFirstEntry(t *testing.T) {
	ctx := context.Background()
	wb := memory.New("Master")
	p := Classic()
	s := NewSummary(wb, p)

	totals := CategoryTotals([]core.LedgerRow{
		ledgerRow("01/03/2024", "TESCO", "-32.50", core.CategoryGroceries),
		ledgerRow("02/03/2024", "SALARY", "2500.00", core.CategoryOther),
		ledgerRow("03/03/2024", "SKYSCANNER", "3000", core.CategorySalary),
	}, p.Categories)

	res, err := s.Update(ctx, Entry{Period: march2024, BankType: core.BankTypeDebit, Totals: totals})
	require.NoError(t, err)

	assert.True(t, res.HeaderWritten)
	assert.Equal(t, "March - Debit", res.Label)
	assert.Equal(t, 4, res.Row)
	assert.Equal(t, "2467.50", res.TotalNoSalary.StringFixed(2))
	assert.Equal(t, "5467.50", res.Total.StringFixed(2))

	rows, err := wb.ReadRows(ctx, "Master")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{Title}, rows[0])
	assert.Equal(t, p.Headers(), rows[1])
	assert.Equal(t, []string{"=== 2024 ==="}, rows[2])
	assert.Equal(t, []string{
		"March - Debit", "3000", "0", "0", "-32.5", "0", "0", "0", "2500", "2467.5", "5467.5",
	}, rows[3])

	formats := wb.Formats("Master")
	require.Len(t, formats, 3)
	assert.Equal(t, memory.FormatCall{Range: sheets.Cell(1, 1), Format: sheets.Bold{}}, formats[0])
	assert.Equal(t, memory.FormatCall{Range: sheets.Rect(2, 1, 1, 11), Format: sheets.Bold{}}, formats[1])
	assert.Equal(t, memory.FormatCall{
		Range:  sheets.Rect(4, 2, 1, 10),
		Format: sheets.Currency{Pattern: DefaultCurrencyPattern},
	}, formats[2])
}

func TestSummary_ClassicGroupsUnderYearMarkers(t *testing.T) {
	ctx := context.Background()
	wb := memory.New("Master")
	p := Classic()
	s := NewSummary(wb, p)
	zero := CategoryTotals(nil, p.Categories)

	update := func(m time.Month, year int, bt core.BankType) SummaryResult {
		t.Helper()
		res, err := s.Update(ctx, Entry{Period: core.Period{Month: m, Year: year}, BankType: bt, Totals: zero})
		require.NoError(t, err)
		return res
	}

	assert.Equal(t, 4, update(time.March, 2024, core.BankTypeDebit).Row)
	second := update(time.March, 2024, core.BankTypeCredit)
	assert.Equal(t, 4, second.Row)
	assert.False(t, second.HeaderWritten)
	assert.Equal(t, 4, update(time.January, 2025, core.BankTypeDebit).Row)
	assert.Equal(t, 6, update(time.April, 2024, core.BankTypeDebit).Row)

	rows, err := wb.ReadRows(ctx, "Master")
	require.NoError(t, err)
	var colA []string
	for _, r := range rows[2:] {
		colA = append(colA, r[0])
	}
	assert.Equal(t, []string{
		"=== 2025 ===",
		"January - Debit",
		"=== 2024 ===",
		"April - Debit",
		"March - Credit",
		"March - Debit",
	}, colA)
}

func TestSummary_InvestmentInsertsAtTop(t *testing.T) {
	ctx := context.Background()
	wb := memory.New("Overview")
	p := Investment()
	s := NewSummary(wb, p, WithMasterSheet("Overview"), WithCurrencyPattern("$#,##0.00"))

	totals := CategoryTotals([]core.LedgerRow{
		ledgerRow("01/03/2024", "VANGUARD", "-200", core.CategoryInvestment),
	}, p.Categories)

	_, err := s.Update(ctx, Entry{Period: march2024, BankType: core.BankTypeDebit, Totals: totals})
	require.NoError(t, err)
	res, err := s.Update(ctx, Entry{Period: core.Period{Month: time.April, Year: 2024}, BankType: core.BankTypeCredit, Totals: totals})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Row)
	assert.Equal(t, 2024, wb.Cell("Overview", 3, 1))
	assert.Equal(t, "April - Credit", wb.Cell("Overview", 3, 2))
	assert.Equal(t, "March - Debit", wb.Cell("Overview", 4, 2))
	assert.Equal(t, -200.0, wb.Cell("Overview", 3, 10))

	hdr, err := wb.ReadRow(ctx, "Overview", HeaderRow)
	require.NoError(t, err)
	assert.Equal(t, "Year", hdr[0])
	assert.Equal(t, "Period", hdr[1])
	assert.Equal(t, "Investment", hdr[9])
	assert.Equal(t, HeaderTotal, hdr[12])

	formats := wb.Formats("Overview")
	last := formats[len(formats)-1]
	assert.Equal(t, sheets.Rect(3, 3, 1, 11), last.Range)
	assert.Equal(t, sheets.Currency{Pattern: "$#,##0.00"}, last.Format)
}

func TestSummary_RewritesMismatchedHeader(t *testing.T) {
	ctx := context.Background()
	wb := memory.New("Master")
	p := Classic()
	s := NewSummary(wb, p)

	// An older layout with the categories in a different order.
	require.NoError(t, wb.WriteRange(ctx, "Master", sheets.Rect(2, 2, 1, 2), [][]any{{"Food & Dining", "Salary"}}))

	res, err := s.Update(ctx, Entry{Period: march2024, BankType: core.BankTypeDebit, Totals: CategoryTotals(nil, p.Categories)})
	require.NoError(t, err)
	assert.True(t, res.HeaderWritten)

	hdr, err := wb.ReadRow(ctx, "Master", HeaderRow)
	require.NoError(t, err)
	assert.Equal(t, p.Headers(), hdr)
}

func TestSummary_MissingMasterSheet(t *testing.T) {
	wb := memory.New()
	s := NewSummary(wb, Classic())

	_, err := s.Update(context.Background(), Entry{Period: march2024, BankType: core.BankTypeDebit, Totals: CategoryTotals(nil, Classic().Categories)})

	require.Error(t, err)
	assert.True(t, errors.Is(err, sheets.ErrSheetNotFound))
	assert.Zero(t, wb.Writes())
}

func TestSummary_RejectsMisalignedTotals(t *testing.T) {
	wb := memory.New("Master")
	s := NewSummary(wb, Classic())

	_, err := s.Update(context.Background(), Entry{Period: march2024, BankType: core.BankTypeDebit, Totals: CategoryTotals(nil, Investment().Categories)})
	assert.Error(t, err)
	assert.Zero(t, wb.Writes())
}

func TestHeadersMatch(t *testing.T) {
	want := Classic().Headers()

	assert.True(t, HeadersMatch(want, want))
	assert.True(t, HeadersMatch(append(append([]string(nil), want...), "Notes"), want))
	assert.False(t, HeadersMatch(want[:5], want))
	assert.False(t, HeadersMatch(nil, want))
}
