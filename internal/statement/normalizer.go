// Package statement turns raw bank exports into cleaned transactions and
// reads and writes the cleaned, categorized intermediate file.
package statement

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	"finsheet/internal/core"
)

// FieldCount is the only record width the normalizer keeps:
// date, description, amount.
const FieldCount = 3

// SkipReason says why a raw record was left out.
type SkipReason int

const (
	// SkipWrongFieldCount marks records with a width other than FieldCount,
	// including most header and footer lines.
	SkipWrongFieldCount SkipReason = iota + 1
	// SkipUnreadable marks records the CSV reader could not parse.
	SkipUnreadable
)

func (r SkipReason) String() string {
	switch r {
	case SkipWrongFieldCount:
		return "wrong_field_count"
	case SkipUnreadable:
		return "unreadable"
	default:
		return "unknown"
	}
}

// Skipped describes one dropped record.
type Skipped struct {
	Line   int
	Fields int
	Reason SkipReason
}

// Result is the outcome of normalizing one export.
type Result struct {
	Transactions []core.Transaction
	Skipped      []Skipped
}

var repeatedSpace = regexp.MustCompile(`[\s\v\p{Z}\x{85}]{2,}`)

// Normalize reads a raw export and returns its well-formed rows in input
// order. Malformed records are dropped, never reported as errors; only a
// failing reader aborts.
func Normalize(r io.Reader) (Result, error) {
	utf8r, err := NewUTF8Reader(r)
	if err != nil {
		return Result{}, fmt.Errorf("decode statement: %w", err)
	}

	cr := csv.NewReader(utf8r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var res Result
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return Result{}, fmt.Errorf("read statement: %w", err)
			}
			res.Skipped = append(res.Skipped, Skipped{Line: perr.Line, Fields: len(rec), Reason: SkipUnreadable})
			continue
		}

		if len(rec) != FieldCount {
			line, _ := cr.FieldPos(0)
			res.Skipped = append(res.Skipped, Skipped{Line: line, Fields: len(rec), Reason: SkipWrongFieldCount})
			continue
		}

		res.Transactions = append(res.Transactions, NormalizeRecord(rec[0], rec[1], rec[2]))
	}

	return res, nil
}

// NormalizeRecord cleans one three-field record.
func NormalizeRecord(date, description, amount string) core.Transaction {
	return core.Transaction{
		Date:        strings.TrimSpace(date),
		Description: CleanDescription(description),
		Amount:      CleanAmount(amount),
	}
}

// CleanDescription drops trailing closing parentheses and whitespace, then
// collapses whitespace runs to a single space.
func CleanDescription(s string) string {
	s = strings.TrimRightFunc(s, func(r rune) bool {
		return r == ')' || unicode.IsSpace(r)
	})
	return repeatedSpace.ReplaceAllString(s, " ")
}

// CleanAmount removes thousands separators and surrounding whitespace. The
// result stays textual.
func CleanAmount(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
}
