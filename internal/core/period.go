package core

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Period is the calendar month a statement covers.
type Period struct {
	Month time.Month
	Year  int
}

// MonthName returns the capitalised English month name, e.g. "March".
func (p Period) MonthName() string {
	return p.Month.String()
}

// YearSheet returns the title of the year tab for the period.
func (p Period) YearSheet() string {
	return strconv.Itoa(p.Year)
}

func (p Period) String() string {
	return fmt.Sprintf("%s %d", p.MonthName(), p.Year)
}

// ParseStatementName derives the period from a "<Month>_<Year>.csv" path.
// The month is a full English month name in any case; the year has four
// digits.
func ParseStatementName(path string) (Period, error) {
	name := filepath.Base(path)
	stem := name
	if ext := filepath.Ext(name); strings.EqualFold(ext, ".csv") {
		stem = strings.TrimSuffix(name, ext)
	}

	parts := strings.Split(stem, "_")
	if len(parts) != 2 {
		return Period{}, fmt.Errorf("%w: %q: expected <Month>_<Year>.csv", ErrInvalidStatementName, name)
	}

	month, ok := parseMonth(parts[0])
	if !ok {
		return Period{}, fmt.Errorf("%w: %q: unknown month %q", ErrInvalidStatementName, name, parts[0])
	}

	if len(parts[1]) != 4 {
		return Period{}, fmt.Errorf("%w: %q: year must have four digits", ErrInvalidStatementName, name)
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q: invalid year %q", ErrInvalidStatementName, name, parts[1])
	}

	return Period{Month: month, Year: year}, nil
}

func parseMonth(s string) (time.Month, bool) {
	s = strings.TrimSpace(s)
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(m.String(), s) {
			return m, true
		}
	}
	return 0, false
}
