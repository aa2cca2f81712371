package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsheet/internal/sheets/memory"
)

func TestFindBlock(t *testing.T) {
	row := make([]string, 16)
	row[5] = "January"
	row[15] = " march "

	col, ok := FindBlock(row, "March")
	require.True(t, ok)
	assert.Equal(t, 11, col)

	col, ok = FindBlock(row, "JANUARY")
	require.True(t, ok)
	assert.Equal(t, 1, col)

	_, ok = FindBlock(row, "April")
	assert.False(t, ok)

	_, ok = FindBlock(nil, "April")
	assert.False(t, ok)
}

func TestNextBlock(t *testing.T) {
	tests := []struct {
		name string
		row  []string
		want int
	}{
		{"empty", nil, 0},
		{"blank cells only", []string{"", "  "}, 0},
		{"first block label", pad(6, 5, "January"), 10},
		{"stray cell in first block", pad(10, 9, "note"), 10},
		{"second block label", pad(16, 15, "February"), 20},
		{"first column of third block", pad(21, 20, "x"), 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextBlock(tt.row))
		})
	}
}

func TestAllocate_NewMonthsGrowInStrides(t *testing.T) {
	ctx := context.Background()
	wb := memory.New("2024")
	a := NewAllocator(wb)

	var cols []int
	for _, m := range []string{"January", "February", "March"} {
		col, err := a.Allocate(ctx, "2024", m)
		require.NoError(t, err)
		cols = append(cols, col)
	}

	assert.Equal(t, []int{1, 11, 21}, cols)
	for _, c := range cols {
		assert.Zero(t, (c-1)%BlockWidth, "start column %d is not 1+k*10", c)
	}
	assert.Equal(t, "January", wb.Cell("2024", 1, 6))
	assert.Equal(t, "February", wb.Cell("2024", 1, 16))
	assert.Equal(t, "March", wb.Cell("2024", 1, 26))
}

func TestAllocate_ExistingMonthIsIdempotent(t *testing.T) {
	ctx := context.Background()
	wb := memory.New("2024")
	a := NewAllocator(wb)

	first, err := a.Allocate(ctx, "2024", "March")
	require.NoError(t, err)
	writes := wb.Writes()

	second, err := a.Allocate(ctx, "2024", "march")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, writes, wb.Writes(), "second allocation must not write")
}

func TestAllocate_NeverCollidesWithLabeledBlock(t *testing.T) {
	ctx := context.Background()
	wb := memory.New("2024")
	// A hand-edited sheet with a label in the third block only.
	require.NoError(t, wb.WriteCell(ctx, "2024", 1, 26, "June"))
	a := NewAllocator(wb)

	col, err := a.Allocate(ctx, "2024", "July")
	require.NoError(t, err)

	assert.Equal(t, 31, col)
	assert.Equal(t, "June", wb.Cell("2024", 1, 26))
	assert.Equal(t, "July", wb.Cell("2024", 1, 36))
}

func pad(n, at int, v string) []string {
	row := make([]string, n)
	row[at] = v
	return row
}
