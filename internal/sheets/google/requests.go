package google

import (
	"fmt"

	ports "finsheet/internal/sheets"

	gsheet "google.golang.org/api/sheets/v4"
)

// rowRange addresses a whole row, e.g. '2024'!1:1.
func rowRange(sheet string, row int) string {
	return fmt.Sprintf("%s!%d:%d", ports.QuoteSheet(sheet), row, row)
}

// gridRange converts a 1-based inclusive range to the API's 0-based,
// end-exclusive GridRange. An open-ended range leaves EndRowIndex unset.
func gridRange(sheetID int64, r ports.CellRange) *gsheet.GridRange {
	g := &gsheet.GridRange{
		SheetId:          sheetID,
		StartRowIndex:    int64(r.StartRow - 1),
		StartColumnIndex: int64(r.StartCol - 1),
		EndColumnIndex:   int64(r.EndCol),
	}
	if !r.OpenEnded() {
		g.EndRowIndex = int64(r.EndRow)
	}
	return g
}

func addSheetRequest(title string, rows, cols int) *gsheet.Request {
	return &gsheet.Request{
		AddSheet: &gsheet.AddSheetRequest{
			Properties: &gsheet.SheetProperties{
				Title: title,
				GridProperties: &gsheet.GridProperties{
					RowCount:    int64(rows),
					ColumnCount: int64(cols),
				},
			},
		},
	}
}

func insertRowRequest(sheetID int64, row int) *gsheet.Request {
	return &gsheet.Request{
		InsertDimension: &gsheet.InsertDimensionRequest{
			Range: &gsheet.DimensionRange{
				SheetId:    sheetID,
				Dimension:  "ROWS",
				StartIndex: int64(row - 1),
				EndIndex:   int64(row),
			},
			// New rows start unformatted rather than copying the row above,
			// which on the Master tab is the bold header.
			InheritFromBefore: false,
		},
	}
}

func repeatCellRequest(sheetID int64, r ports.CellRange, f ports.CellFormat) (*gsheet.Request, error) {
	var (
		format *gsheet.CellFormat
		fields string
	)
	switch v := f.(type) {
	case ports.Bold:
		format = &gsheet.CellFormat{TextFormat: &gsheet.TextFormat{Bold: true}}
		fields = "userEnteredFormat.textFormat.bold"
	case ports.Currency:
		format = &gsheet.CellFormat{NumberFormat: &gsheet.NumberFormat{Type: "CURRENCY", Pattern: v.Pattern}}
		fields = "userEnteredFormat.numberFormat"
	default:
		return nil, fmt.Errorf("unsupported cell format %T", f)
	}
	return &gsheet.Request{
		RepeatCell: &gsheet.RepeatCellRequest{
			Range:  gridRange(sheetID, r),
			Cell:   &gsheet.CellData{UserEnteredFormat: format},
			Fields: fields,
		},
	}, nil
}
