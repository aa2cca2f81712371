package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"-32.50", "-32.5", true},
		{"2500.00", "2500", true},
		{" 12 ", "12", true},
		{"0.005", "0.005", true},
		{"", "0", false},
		{"abc", "0", false},
		{"1.2.3", "0", false},
	}
	for _, tc := range cases {
		got, ok := ParseAmount(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.True(t, got.Equal(decimal.RequireFromString(tc.out)), "%q: got %s", tc.in, got)
	}
}

func TestRoundMoney_HalfEven(t *testing.T) {
	cases := map[string]string{
		"1.005":  "1",
		"1.015":  "1.02",
		"2.345":  "2.34",
		"-0.125": "-0.12",
		"10.999": "11",
	}
	for in, want := range cases {
		got := RoundMoney(decimal.RequireFromString(in))
		assert.Equal(t, decimal.RequireFromString(want).StringFixed(2), got.StringFixed(2), in)
	}
}

func TestSumMoney(t *testing.T) {
	amounts := []decimal.Decimal{
		decimal.RequireFromString("0.10"),
		decimal.RequireFromString("0.20"),
		decimal.RequireFromString("-32.50"),
	}
	assert.Equal(t, "-32.20", SumMoney(amounts).StringFixed(2))
	assert.Equal(t, "0.00", SumMoney(nil).StringFixed(2))
}

func TestLedgerRowValues(t *testing.T) {
	r := LedgerRow{
		Date:        "01/03/2024",
		Description: "TESCO STORES",
		Amount:      decimal.RequireFromString("-32.50"),
		Category:    CategoryGroceries,
	}
	assert.Equal(t, []any{"01/03/2024", "TESCO STORES", -32.5, "Groceries"}, r.Values())
}
