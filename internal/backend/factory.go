package backend

import (
	"context"
	"fmt"
	"log/slog"

	gsheet "finsheet/internal/sheets/google"
	"finsheet/internal/sheets/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SheetsBackend:
		return f.createSheetsBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*BackendResult, error) {
	cli, err := gsheet.New(ctx, gsheet.Settings{
		SpreadsheetID:      config.GoogleSpreadsheetID,
		ServiceAccountJSON: config.GoogleServiceAccountJSON,
		ServiceAccountFile: config.GoogleServiceAccountFile,
		OAuthClientFile:    config.GoogleOAuthClientFile,
		OAuthTokenFile:     config.GoogleOAuthTokenFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend", "spreadsheet_id", config.GoogleSpreadsheetID)

	return &BackendResult{
		Workbook: cli,
		Cleanup:  nil, // No cleanup needed for sheets backend
	}, nil
}

// createMemoryBackend starts with an empty Master tab so a dry run goes
// through the same path as a real import. Nothing is persisted.
func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	master := config.MasterSheetName
	if master == "" {
		master = "Master"
	}

	wb := memory.New(master)

	f.logger.Info("Initialized memory backend", "master_sheet", master)

	return &BackendResult{
		Workbook: wb,
		Cleanup:  nil, // No cleanup needed for memory backend
	}, nil
}
