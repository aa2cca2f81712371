// Package core holds the statement and ledger domain types shared by the
// normalizer, the classifier and the ledger writers.
//
// This file contains amount coercion and the money rounding rule used for
// every total written to the spreadsheet.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places kept for written totals.
const MoneyPlaces = 2

// CategoryAmount is a total for one category.
type CategoryAmount struct {
	Category Category
	Amount   decimal.Decimal
}

// ParseAmount coerces a cleaned amount string to a decimal.
//
// Blank or unparseable input yields zero and ok=false; callers decide whether
// to record the coercion. The input is expected to be free of thousands
// separators already.
//
// Examples:
//
//	ParseAmount("-32.50") -> -32.5, true
//	ParseAmount(" 2500 ") -> 2500, true
//	ParseAmount("n/a")    -> 0, false
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// RoundMoney rounds to two places using round-half-to-even.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(MoneyPlaces)
}

// SumMoney adds the amounts and rounds the result.
func SumMoney(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return RoundMoney(total)
}
