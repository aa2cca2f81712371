package statement

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"finsheet/internal/core"
)

// Header of the cleaned, categorized file.
var CleanedHeader = []string{"Date", "Description", "Amount", "Category"}

// CoerceReason says why an amount was replaced by zero.
type CoerceReason int

const (
	CoerceBlankAmount CoerceReason = iota + 1
	CoerceUnparseableAmount
)

func (r CoerceReason) String() string {
	switch r {
	case CoerceBlankAmount:
		return "blank_amount"
	case CoerceUnparseableAmount:
		return "unparseable_amount"
	default:
		return "unknown"
	}
}

// Coercion records an amount that was read as zero.
type Coercion struct {
	Row    int // 1-based data row, header excluded
	Raw    string
	Reason CoerceReason
}

// Cleaned is the content of a cleaned file ready for the ledger.
type Cleaned struct {
	Rows    []core.LedgerRow
	Coerced []Coercion
}

var errMissingColumn = errors.New("missing column")

// CleanedPath returns where the cleaned copy of input is stored:
// <baseDir>/<bank>/cleaned/<basename>.
func CleanedPath(baseDir, bank, input string) string {
	return filepath.Join(baseDir, bank, "cleaned", filepath.Base(input))
}

// SaveCleaned writes rows with CleanedHeader to path, creating parent
// directories as needed.
func SaveCleaned(path string, rows []core.LabeledTransaction) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteCleaned(f, rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func WriteCleaned(w io.Writer, rows []core.LabeledTransaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CleanedHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.Date, r.Description, r.Amount, string(r.Category)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// LoadCleaned reads a cleaned file from disk.
func LoadCleaned(path string) (Cleaned, error) {
	f, err := os.Open(path)
	if err != nil {
		return Cleaned{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	c, err := ReadCleaned(f)
	if err != nil {
		return Cleaned{}, fmt.Errorf("read %s: %w", path, err)
	}
	return c, nil
}

// ReadCleaned parses a cleaned file. Columns are located by their trimmed
// header names. Amounts that do not parse are read as zero and reported in
// Coerced; they are not rejected.
func ReadCleaned(r io.Reader) (Cleaned, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return Cleaned{}, fmt.Errorf("%w: empty file", errMissingColumn)
	}
	if err != nil {
		return Cleaned{}, fmt.Errorf("read header: %w", err)
	}

	idx := map[string]int{}
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	for _, col := range []string{"Date", "Description", "Amount"} {
		if _, ok := idx[col]; !ok {
			return Cleaned{}, fmt.Errorf("%w: %s", errMissingColumn, col)
		}
	}
	catIdx, hasCat := idx["Category"]

	field := func(rec []string, i int) string {
		if i < len(rec) {
			return rec[i]
		}
		return ""
	}

	var out Cleaned
	for n := 1; ; n++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Cleaned{}, fmt.Errorf("read row %d: %w", n, err)
		}

		raw := field(rec, idx["Amount"])
		amount, ok := core.ParseAmount(raw)
		if !ok {
			reason := CoerceUnparseableAmount
			if strings.TrimSpace(raw) == "" {
				reason = CoerceBlankAmount
			}
			out.Coerced = append(out.Coerced, Coercion{Row: n, Raw: raw, Reason: reason})
		}

		row := core.LedgerRow{
			Date:        field(rec, idx["Date"]),
			Description: field(rec, idx["Description"]),
			Amount:      amount,
		}
		if hasCat {
			row.Category = core.Category(strings.TrimSpace(field(rec, catIdx)))
		}
		out.Rows = append(out.Rows, row)
	}

	return out, nil
}
