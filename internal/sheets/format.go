package sheets

// CellFormat is a formatting instruction for a range. It is implemented only
// by the types in this package.
type CellFormat interface {
	isCellFormat()
}

// Bold sets bold text.
type Bold struct{}

// Currency applies a CURRENCY number format with the given pattern,
// e.g. "£#,##0.00".
type Currency struct {
	Pattern string
}

func (Bold) isCellFormat()     {}
func (Currency) isCellFormat() {}
