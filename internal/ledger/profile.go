package ledger

import (
	"errors"
	"fmt"
	"strings"

	"finsheet/internal/categorize"
	"finsheet/internal/core"
)

// ErrUnknownProfile is returned for a profile name other than classic or
// investment.
var ErrUnknownProfile = errors.New("unknown ledger profile")

// Placement decides where a Master summary row is inserted.
type Placement int

const (
	// PlaceUnderYearMarker inserts directly below the "=== <year> ===" row,
	// creating the marker at row 3 when missing.
	PlaceUnderYearMarker Placement = iota
	// PlaceTop always inserts at row 3, most recent first.
	PlaceTop
)

func (p Placement) String() string {
	switch p {
	case PlaceUnderYearMarker:
		return "year_marker"
	case PlaceTop:
		return "top"
	default:
		return "unknown"
	}
}

// Derived total column labels, appended after the categories.
const (
	HeaderTotalNoSalary = "Total (No Salary)"
	HeaderTotal         = "Total"
)

// Profile is one Master layout and category vocabulary. The first category
// is excluded from the "Total (No Salary)" column.
type Profile struct {
	Name         string
	Categories   []core.Category
	CreditOffset int
	Placement    Placement
	// LeadHeaders are the Master header cells before the categories. Data
	// rows fill them with the year and/or the row label.
	LeadHeaders []string
	Rules       []categorize.Rule
}

// Classic is the canonical profile: 8 categories, credit sub-block at
// offset 5, rows grouped under yearly marker rows.
func Classic() Profile {
	return Profile{
		Name: "classic",
		Categories: []core.Category{
			core.CategorySalary,
			core.CategoryFoodDining,
			core.CategoryTransport,
			core.CategoryGroceries,
			core.CategoryBills,
			core.CategoryRentHousing,
			core.CategoryLeisure,
			core.CategoryOther,
		},
		CreditOffset: 5,
		Placement:    PlaceUnderYearMarker,
		LeadHeaders:  []string{""},
		Rules:        categorize.DefaultRules(),
	}
}

// Investment adds an Investment category, moves the credit sub-block to
// offset 6 and keeps the Master sheet most-recent-first with an explicit
// year column.
func Investment() Profile {
	return Profile{
		Name: "investment",
		Categories: []core.Category{
			core.CategorySalary,
			core.CategoryFoodDining,
			core.CategoryTransport,
			core.CategoryGroceries,
			core.CategoryBills,
			core.CategoryRentHousing,
			core.CategoryLeisure,
			core.CategoryInvestment,
			core.CategoryOther,
		},
		CreditOffset: 6,
		Placement:    PlaceTop,
		LeadHeaders:  []string{"Year", "Period"},
		Rules:        categorize.InvestmentRules(),
	}
}

// ProfileByName returns the named profile.
func ProfileByName(name string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "classic":
		return Classic(), nil
	case "investment":
		return Investment(), nil
	}
	return Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
}

// Offset returns the column offset of a bank type's sub-block.
func (p Profile) Offset(bt core.BankType) int {
	if bt == core.BankTypeCredit {
		return p.CreditOffset
	}
	return 0
}

// Headers returns the expected Master header row, starting at column A.
func (p Profile) Headers() []string {
	out := append([]string(nil), p.LeadHeaders...)
	for _, c := range p.Categories {
		out = append(out, string(c))
	}
	return append(out, HeaderTotalNoSalary, HeaderTotal)
}

// BankTypes maps lower-case bank identifiers to their card type.
type BankTypes map[string]core.BankType

// DefaultBankTypes returns the built-in mapping.
func DefaultBankTypes() BankTypes {
	return BankTypes{"hsbc": core.BankTypeDebit, "amex": core.BankTypeCredit}
}

// Resolve returns the bank's type, or core.BankTypeOther when unknown.
func (b BankTypes) Resolve(bank string) core.BankType {
	if bt, ok := b[strings.ToLower(strings.TrimSpace(bank))]; ok {
		return bt
	}
	return core.BankTypeOther
}

// ParseBankTypes parses "hsbc:Debit,amex:Credit". Types are matched case
// insensitively against Debit, Credit and Other.
func ParseBankTypes(s string) (BankTypes, error) {
	out := BankTypes{}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		bank, typ, ok := strings.Cut(pair, ":")
		bank = strings.ToLower(strings.TrimSpace(bank))
		if !ok || bank == "" {
			return nil, fmt.Errorf("bank type %q: expected <bank>:<type>", pair)
		}
		var bt core.BankType
		switch strings.ToLower(strings.TrimSpace(typ)) {
		case "debit":
			bt = core.BankTypeDebit
		case "credit":
			bt = core.BankTypeCredit
		case "other":
			bt = core.BankTypeOther
		default:
			return nil, fmt.Errorf("bank type %q: unknown type %q", pair, typ)
		}
		out[bank] = bt
	}
	if len(out) == 0 {
		return nil, errors.New("no bank types configured")
	}
	return out, nil
}
