//go:build integration

package google

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	ports "finsheet/internal/sheets"
)

// Integration tests require real Google Sheets credentials
// Run with: go test -tags=integration ./internal/sheets/google

func newIntegrationClient(t *testing.T) *Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	s := Settings{
		SpreadsheetID:      os.Getenv("GOOGLE_SPREADSHEET_ID"),
		ServiceAccountJSON: os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
		ServiceAccountFile: os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"),
		OAuthClientFile:    os.Getenv("GOOGLE_OAUTH_CLIENT_FILE"),
		OAuthTokenFile:     os.Getenv("GOOGLE_OAUTH_TOKEN_FILE"),
	}
	if s.SpreadsheetID == "" {
		t.Skip("GOOGLE_SPREADSHEET_ID not set, skipping integration test")
	}
	if s.ServiceAccountJSON == "" && s.ServiceAccountFile == "" && (s.OAuthClientFile == "" || s.OAuthTokenFile == "") {
		t.Skip("credentials not configured, skipping integration test")
	}

	client, err := New(context.Background(), s)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return client
}

func TestIntegration_WorkbookFlow(t *testing.T) {
	client := newIntegrationClient(t)
	ctx := context.Background()

	// Use a throwaway tab so a real ledger is never touched.
	sheet := fmt.Sprintf("it-%d", time.Now().UnixNano())
	if err := client.AddSheet(ctx, sheet, 50, 20); err != nil {
		t.Fatalf("AddSheet: %v", err)
	}
	t.Logf("created scratch sheet %q; delete it by hand", sheet)

	t.Run("HasSheet", func(t *testing.T) {
		ok, err := client.HasSheet(ctx, sheet)
		if err != nil || !ok {
			t.Fatalf("HasSheet = %v, %v", ok, err)
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		values := [][]any{
			{"01/03/2024", "TESCO STORES", -32.5, "Groceries"},
			{"02/03/2024", "SALARY PAYMENT", 2500.0, "Other"},
		}
		r := ports.Rect(3, 11, 2, 4)
		if err := client.WriteRange(ctx, sheet, r, values); err != nil {
			t.Fatalf("WriteRange: %v", err)
		}
		got, err := client.ReadRange(ctx, sheet, r)
		if err != nil {
			t.Fatalf("ReadRange: %v", err)
		}
		if len(got) != 2 || len(got[0]) != 4 {
			t.Fatalf("unexpected shape: %v", got)
		}
		if got[0][2] != -32.5 || got[1][1] != "SALARY PAYMENT" {
			t.Fatalf("unexpected values: %v", got)
		}
	})

	t.Run("InsertAndFormat", func(t *testing.T) {
		if err := client.InsertRow(ctx, sheet, 3, []any{"March - Debit", 1.25}); err != nil {
			t.Fatalf("InsertRow: %v", err)
		}
		row, err := client.ReadRow(ctx, sheet, 3)
		if err != nil {
			t.Fatalf("ReadRow: %v", err)
		}
		if len(row) == 0 || row[0] != "March - Debit" {
			t.Fatalf("unexpected row: %v", row)
		}
		if err := client.Format(ctx, sheet, ports.Cell(3, 2), ports.Currency{Pattern: "£#,##0.00"}); err != nil {
			t.Fatalf("Format: %v", err)
		}
		if err := client.Format(ctx, sheet, ports.Cell(3, 1), ports.Bold{}); err != nil {
			t.Fatalf("Format: %v", err)
		}
	})
}

func TestIntegration_MissingSheet(t *testing.T) {
	client := newIntegrationClient(t)
	ctx := context.Background()

	ok, err := client.HasSheet(ctx, "definitely-not-a-sheet")
	if err != nil {
		t.Fatalf("HasSheet: %v", err)
	}
	if ok {
		t.Fatalf("expected missing sheet")
	}
}
