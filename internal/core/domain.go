package core

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Spending categories. The slices in the ledger profiles decide which of
// these are in use and in which order they are summarised.
const (
	CategorySalary      Category = "Salary"
	CategoryFoodDining  Category = "Food & Dining"
	CategoryTransport   Category = "Transport"
	CategoryGroceries   Category = "Groceries"
	CategoryBills       Category = "Bills & Subscriptions"
	CategoryRentHousing Category = "Rent & Housing"
	CategoryLeisure     Category = "Leisure"
	CategoryInvestment  Category = "Investment"
	CategoryOther       Category = "Other"
)

const (
	BankTypeDebit  BankType = "Debit"
	BankTypeCredit BankType = "Credit"
	BankTypeOther  BankType = "Other"
)

const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

type (
	Category  string
	BankType  string
	RunStatus string

	// Transaction is one cleaned statement row. Amount is kept as text until
	// the ledger step coerces it.
	Transaction struct {
		Date        string
		Description string
		Amount      string
	}

	LabeledTransaction struct {
		Transaction
		Category Category
	}

	// LedgerRow is a labeled transaction read back from the cleaned file with
	// its amount coerced to a number.
	LedgerRow struct {
		Date        string
		Description string
		Amount      decimal.Decimal
		Category    Category
	}

	// ImportRun describes one processed statement.
	ImportRun struct {
		ID          string
		SourceFile  string
		CleanedFile string
		Bank        string
		BankType    BankType
		Period      Period
		Rows        int
		Skipped     int
		Coerced     int
		Totals      []CategoryAmount
		SummaryRow  int
		Status      RunStatus
		Error       string
		StartedAt   time.Time
		FinishedAt  time.Time
	}
)

var (
	ErrInvalidStatementName = errors.New("invalid statement file name")
	ErrEmptyBank            = errors.New("empty bank identifier")
)

// Values returns the ledger cell values for the row in column order.
func (r LedgerRow) Values() []any {
	return []any{r.Date, r.Description, r.Amount.InexactFloat64(), string(r.Category)}
}

// ContainsCategory reports whether c is one of cats.
func ContainsCategory(cats []Category, c Category) bool {
	for _, v := range cats {
		if v == c {
			return true
		}
	}
	return false
}
