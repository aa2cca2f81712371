package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2"
	goauth "golang.org/x/oauth2/google"

	"finsheet/internal/log"
	ports "finsheet/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Settings selects the spreadsheet and the credentials used to reach it.
// Inline service account JSON wins over an OAuth client/token pair, which
// wins over a service account file.
type Settings struct {
	SpreadsheetID      string
	ServiceAccountJSON string
	ServiceAccountFile string
	OAuthClientFile    string
	OAuthTokenFile     string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
}

// Ensure interface conformance
var _ ports.Workbook = (*Client)(nil)

// New creates a Sheets client for one spreadsheet.
func New(ctx context.Context, s Settings) (*Client, error) {
	spreadsheetID := strings.TrimSpace(s.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	opt, err := credentialsOption(ctx, s)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx, opt, goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	logger(ctx).DebugContext(ctx, "Google Sheets service created", "spreadsheet_id", spreadsheetID)
	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func logger(ctx context.Context) *log.Logger {
	return log.FromContext(ctx).WithComponent(log.ComponentSheets)
}

func credentialsOption(ctx context.Context, s Settings) (goption.ClientOption, error) {
	switch {
	case strings.TrimSpace(s.ServiceAccountJSON) != "":
		logger(ctx).DebugContext(ctx, "Using inline service account credentials")
		return goption.WithCredentialsJSON([]byte(s.ServiceAccountJSON)), nil

	case s.OAuthClientFile != "" && s.OAuthTokenFile != "":
		logger(ctx).DebugContext(ctx, "Using OAuth client credentials", "client_file", s.OAuthClientFile, "token_file", s.OAuthTokenFile)
		ts, err := oauthTokenSource(ctx, s.OAuthClientFile, s.OAuthTokenFile)
		if err != nil {
			return nil, err
		}
		return goption.WithTokenSource(ts), nil

	case s.ServiceAccountFile != "":
		logger(ctx).DebugContext(ctx, "Reading service account file", "path", s.ServiceAccountFile)
		b, err := os.ReadFile(s.ServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return goption.WithCredentialsJSON(b), nil
	}
	return nil, errors.New("missing credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_OAUTH_CLIENT_FILE with GOOGLE_OAUTH_TOKEN_FILE)")
}

// oauthTokenSource builds a refreshing token source from a stored token.
// The token file is produced out of band; this package never runs the
// consent flow.
func oauthTokenSource(ctx context.Context, clientFile, tokenFile string) (oauth2.TokenSource, error) {
	cb, err := os.ReadFile(clientFile)
	if err != nil {
		return nil, fmt.Errorf("read oauth client file: %w", err)
	}
	cfg, err := goauth.ConfigFromJSON(cb, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("oauth config: %w", err)
	}

	tb, err := os.ReadFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("read oauth token file: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(tb, &tok); err != nil {
		return nil, fmt.Errorf("parse oauth token: %w", err)
	}
	return cfg.TokenSource(ctx, &tok), nil
}

func (c *Client) HasSheet(ctx context.Context, title string) (bool, error) {
	_, ok, err := c.sheetID(ctx, title)
	return ok, err
}

func (c *Client) AddSheet(ctx context.Context, title string, rows, cols int) error {
	if err := c.batchUpdate(ctx, addSheetRequest(title, rows, cols)); err != nil {
		return fmt.Errorf("add sheet %q: %w", title, err)
	}
	logger(ctx).InfoContext(ctx, "Created sheet", "sheet", title, "rows", rows, "cols", cols)
	return nil
}

func (c *Client) ReadRow(ctx context.Context, sheet string, row int) ([]string, error) {
	rng := rowRange(sheet, row)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}
	return toStrings(resp.Values[0]), nil
}

func (c *Client) ReadRows(ctx context.Context, sheet string) ([][]string, error) {
	rng := ports.QuoteSheet(sheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	out := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		out[i] = toStrings(row)
	}
	return out, nil
}

// ReadRange returns unformatted values, so numbers come back as float64.
func (c *Client) ReadRange(ctx context.Context, sheet string, r ports.CellRange) ([][]any, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	rng := r.A1(sheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return resp.Values, nil
}

// WriteRange stores values as given (RAW), without locale parsing.
func (c *Client) WriteRange(ctx context.Context, sheet string, r ports.CellRange, values [][]any) error {
	if err := r.Validate(); err != nil {
		return err
	}
	rng := r.A1(sheet)
	vr := &gsheet.ValueRange{Values: values}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	logger(ctx).DebugContext(ctx, "Wrote range", "range", rng, "rows", len(values))
	return nil
}

func (c *Client) WriteCell(ctx context.Context, sheet string, row, col int, value any) error {
	return c.WriteRange(ctx, sheet, ports.Cell(row, col), [][]any{{value}})
}

func (c *Client) ClearRange(ctx context.Context, sheet string, r ports.CellRange) error {
	if err := r.Validate(); err != nil {
		return err
	}
	rng := r.A1(sheet)
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear %s: %w", rng, err)
	}
	return nil
}

// InsertRow inserts an empty row through a batch update, then writes values
// into it.
func (c *Client) InsertRow(ctx context.Context, sheet string, row int, values []any) error {
	id, err := c.mustSheetID(ctx, sheet)
	if err != nil {
		return err
	}
	if err := c.batchUpdate(ctx, insertRowRequest(id, row)); err != nil {
		return fmt.Errorf("insert row %d in %q: %w", row, sheet, err)
	}
	if len(values) == 0 {
		return nil
	}
	return c.WriteRange(ctx, sheet, ports.Rect(row, 1, 1, len(values)), [][]any{values})
}

func (c *Client) Format(ctx context.Context, sheet string, r ports.CellRange, f ports.CellFormat) error {
	if err := r.Validate(); err != nil {
		return err
	}
	id, err := c.mustSheetID(ctx, sheet)
	if err != nil {
		return err
	}
	req, err := repeatCellRequest(id, r, f)
	if err != nil {
		return err
	}
	if err := c.batchUpdate(ctx, req); err != nil {
		return fmt.Errorf("format %s: %w", r.A1(sheet), err)
	}
	return nil
}

// sheetID resolves a tab title to its numeric id. It is looked up on every
// call; tabs may be added or renamed by hand between calls.
func (c *Client) sheetID(ctx context.Context, title string) (int64, bool, error) {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, false, fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, s := range ss.Sheets {
		if s.Properties != nil && s.Properties.Title == title {
			return s.Properties.SheetId, true, nil
		}
	}
	return 0, false, nil
}

func (c *Client) mustSheetID(ctx context.Context, title string) (int64, error) {
	id, ok, err := c.sheetID(ctx, title)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: %q", ports.ErrSheetNotFound, title)
	}
	return id, nil
}

func (c *Client) batchUpdate(ctx context.Context, reqs ...*gsheet.Request) error {
	_, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: reqs,
	}).Context(ctx).Do()
	return err
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = fmt.Sprint(v)
	}
	return out
}
