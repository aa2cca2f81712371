package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsheet/internal/core"
	"finsheet/internal/sheets"
	"finsheet/internal/sheets/memory"
)

var march2024 = core.Period{Month: time.March, Year: 2024}

func ledgerRow(date, desc, amount string, cat core.Category) core.LedgerRow {
	return core.LedgerRow{Date: date, Description: desc, Amount: decimal.RequireFromString(amount), Category: cat}
}

func TestWriter_RoundTripOnFreshSheet(t *testing.T) {
	ctx := context.Background()
	wb := memory.New("Master")
	w := NewWriter(wb, Classic(), DefaultBankTypes())

	rows := []core.LedgerRow{
		ledgerRow("01/03/2024", "TESCO STORES", "-32.50", core.CategoryGroceries),
		ledgerRow("02/03/2024", "SALARY PAYMENT", "2500.00", core.CategoryOther),
		ledgerRow("03/03/2024", "TFL TRAVEL", "-2.80", core.CategoryTransport),
	}

	res, err := w.Write(ctx, Batch{Period: march2024, Bank: "HSBC", Rows: rows})
	require.NoError(t, err)

	assert.Equal(t, "2024", res.Sheet)
	assert.Equal(t, 1, res.BlockStart)
	assert.Equal(t, core.BankTypeDebit, res.BankType)
	assert.Equal(t, sheets.Rect(3, 1, 3, 4), res.Range)

	gotRows, gotCols := wb.Size("2024")
	assert.Equal(t, YearSheetRows, gotRows)
	assert.Equal(t, YearSheetCols, gotCols)

	back, err := wb.ReadRange(ctx, "2024", res.Range)
	require.NoError(t, err)
	want := make([][]any, len(rows))
	for i, r := range rows {
		want[i] = r.Values()
	}
	assert.Equal(t, want, back)

	assert.Equal(t, "March", wb.Cell("2024", 1, 6))
	assert.Equal(t, "Debit", wb.Cell("2024", 2, 1))
}

func TestWriter_CreditOffsetPerProfile(t *testing.T) {
	ctx := context.Background()
	rows := []core.LedgerRow{ledgerRow("05/03/2024", "AMAZON", "-10", core.CategoryLeisure)}

	for _, p := range []Profile{Classic(), Investment()} {
		t.Run(p.Name, func(t *testing.T) {
			wb := memory.New()
			w := NewWriter(wb, p, DefaultBankTypes())

			res, err := w.Write(ctx, Batch{Period: march2024, Bank: "amex", Rows: rows})
			require.NoError(t, err)

			col := 1 + p.CreditOffset
			assert.Equal(t, sheets.Rect(3, col, 1, 4), res.Range)
			assert.Equal(t, "Credit", wb.Cell("2024", 2, col))
		})
	}
}

func TestWriter_UnknownBankUsesOther(t *testing.T) {
	ctx := context.Background()
	wb := memory.New()
	w := NewWriter(wb, Classic(), DefaultBankTypes())

	res, err := w.Write(ctx, Batch{Period: march2024, Bank: "monzo", Rows: []core.LedgerRow{
		ledgerRow("01/03/2024", "X", "1", core.CategoryOther),
	}})
	require.NoError(t, err)

	assert.Equal(t, core.BankTypeOther, res.BankType)
	assert.Equal(t, "Other", wb.Cell("2024", 2, 1))
}

func TestWriter_SecondMonthUsesNextBlock(t *testing.T) {
	ctx := context.Background()
	wb := memory.New()
	w := NewWriter(wb, Classic(), DefaultBankTypes())
	row := []core.LedgerRow{ledgerRow("01/01/2024", "X", "1", core.CategoryOther)}

	_, err := w.Write(ctx, Batch{Period: core.Period{Month: time.January, Year: 2024}, Bank: "hsbc", Rows: row})
	require.NoError(t, err)
	res, err := w.Write(ctx, Batch{Period: core.Period{Month: time.February, Year: 2024}, Bank: "hsbc", Rows: row})
	require.NoError(t, err)

	assert.Equal(t, 11, res.BlockStart)
	assert.Equal(t, []string{"2024"}, wb.Titles())
}

func TestWriter_RerunOverwritesAndKeepsStaleRows(t *testing.T) {
	ctx := context.Background()
	wb := memory.New()
	w := NewWriter(wb, Classic(), DefaultBankTypes())

	long := []core.LedgerRow{
		ledgerRow("01/03/2024", "A", "1", core.CategoryOther),
		ledgerRow("02/03/2024", "B", "2", core.CategoryOther),
		ledgerRow("03/03/2024", "C", "3", core.CategoryOther),
	}
	short := []core.LedgerRow{ledgerRow("01/03/2024", "Z", "9", core.CategoryOther)}

	_, err := w.Write(ctx, Batch{Period: march2024, Bank: "hsbc", Rows: long})
	require.NoError(t, err)
	res, err := w.Write(ctx, Batch{Period: march2024, Bank: "hsbc", Rows: short})
	require.NoError(t, err)

	assert.Equal(t, 1, res.BlockStart)
	assert.Equal(t, "Z", wb.Cell("2024", 3, 2))
	// Rows 4 and 5 are left over from the longer run.
	assert.Equal(t, "B", wb.Cell("2024", 4, 2))
	assert.Equal(t, "C", wb.Cell("2024", 5, 2))
}

func TestWriter_ClearStaleRows(t *testing.T) {
	ctx := context.Background()
	wb := memory.New()
	w := NewWriter(wb, Classic(), DefaultBankTypes(), WithClearStaleRows(true))

	long := []core.LedgerRow{
		ledgerRow("01/03/2024", "A", "1", core.CategoryOther),
		ledgerRow("02/03/2024", "B", "2", core.CategoryOther),
	}
	_, err := w.Write(ctx, Batch{Period: march2024, Bank: "hsbc", Rows: long})
	require.NoError(t, err)
	// Credit sub-block of the same month must survive a debit re-run.
	_, err = w.Write(ctx, Batch{Period: march2024, Bank: "amex", Rows: long})
	require.NoError(t, err)

	_, err = w.Write(ctx, Batch{Period: march2024, Bank: "hsbc", Rows: long[:1]})
	require.NoError(t, err)

	assert.Equal(t, "A", wb.Cell("2024", 3, 2))
	assert.Nil(t, wb.Cell("2024", 4, 2))
	assert.Equal(t, "B", wb.Cell("2024", 4, 7))
}

func TestWriter_EmptyBatchWritesHeaderOnly(t *testing.T) {
	ctx := context.Background()
	wb := memory.New()
	w := NewWriter(wb, Classic(), DefaultBankTypes())

	res, err := w.Write(ctx, Batch{Period: march2024, Bank: "hsbc"})
	require.NoError(t, err)

	assert.Zero(t, res.Rows)
	assert.Equal(t, sheets.CellRange{}, res.Range)
	assert.Equal(t, "Debit", wb.Cell("2024", 2, 1))
	assert.Nil(t, wb.Cell("2024", 3, 1))
}
