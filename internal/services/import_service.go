package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"finsheet/internal/categorize"
	"finsheet/internal/core"
	"finsheet/internal/ledger"
	"finsheet/internal/log"
	"finsheet/internal/sheets"
	"finsheet/internal/statement"
)

// RunRecorder stores finished import runs.
type RunRecorder interface {
	RecordRun(ctx context.Context, run core.ImportRun) error
}

// EventPublisher announces finished import runs.
type EventPublisher interface {
	PublishStatementImported(ctx context.Context, run core.ImportRun) error
}

// ImportServiceConfig holds configuration for the import service
type ImportServiceConfig struct {
	// Profile selects the categories, offsets and Master placement (default: classic)
	Profile ledger.Profile

	// Rules overrides the profile's default keyword rules when non-empty
	Rules []categorize.Rule

	// Banks maps bank identifiers to bank types (default: hsbc:Debit, amex:Credit)
	Banks ledger.BankTypes

	// StatementsDir is where cleaned files are written (default: statements)
	StatementsDir string

	// MasterSheet is the summary tab name (default: Master)
	MasterSheet string

	// CurrencyPattern formats Master totals (default: £#,##0.00)
	CurrencyPattern string

	// ClearStaleRows clears a sub-block before rewriting it (default: false)
	ClearStaleRows bool

	// Output receives the progress lines (default: os.Stdout)
	Output io.Writer
}

// DefaultImportServiceConfig returns sensible defaults
func DefaultImportServiceConfig() ImportServiceConfig {
	return ImportServiceConfig{
		Profile:         ledger.Classic(),
		Banks:           ledger.DefaultBankTypes(),
		StatementsDir:   "statements",
		MasterSheet:     ledger.DefaultMasterSheet,
		CurrencyPattern: ledger.DefaultCurrencyPattern,
		Output:          os.Stdout,
	}
}

// ImportService runs the statement pipeline: normalize and label a raw
// export, then write it to its year tab and add a Master row.
type ImportService struct {
	rules   categorize.RuleSet
	writer  *ledger.Writer
	summary *ledger.Summary
	profile ledger.Profile
	config  ImportServiceConfig

	journal   RunRecorder
	publisher EventPublisher
	logger    *log.Logger
	now       func() time.Time
}

// Option configures optional collaborators of the import service.
type Option func(*ImportService)

// WithJournal records every run, successful or not.
func WithJournal(r RunRecorder) Option {
	return func(s *ImportService) { s.journal = r }
}

// WithPublisher publishes an event after each successful run.
func WithPublisher(p EventPublisher) Option {
	return func(s *ImportService) { s.publisher = p }
}

func WithLogger(l *log.Logger) Option {
	return func(s *ImportService) { s.logger = l }
}

// loggerFor returns the run logger carried by ctx, falling back to the
// service logger and then to the default one.
func (s *ImportService) loggerFor(ctx context.Context) *log.Logger {
	if log.InContext(ctx) {
		return log.FromContext(ctx)
	}
	if s.logger != nil {
		return s.logger
	}
	return log.Default().WithComponent(log.ComponentImport)
}

// NewImportService builds the pipeline on wb. It fails when a rule names a
// category the profile does not summarise.
func NewImportService(wb sheets.Workbook, config ImportServiceConfig, opts ...Option) (*ImportService, error) {
	if config.Profile.Name == "" {
		config.Profile = ledger.Classic()
	}
	if config.Banks == nil {
		config.Banks = ledger.DefaultBankTypes()
	}
	if config.Output == nil {
		config.Output = os.Stdout
	}

	rules := config.Rules
	if len(rules) == 0 {
		rules = config.Profile.Rules
	}
	rs := categorize.NewRuleSet(rules)
	if err := rs.Validate(config.Profile.Categories); err != nil {
		return nil, fmt.Errorf("rules for profile %s: %w", config.Profile.Name, err)
	}

	var summaryOpts []ledger.SummaryOption
	if config.MasterSheet != "" {
		summaryOpts = append(summaryOpts, ledger.WithMasterSheet(config.MasterSheet))
	}
	if config.CurrencyPattern != "" {
		summaryOpts = append(summaryOpts, ledger.WithCurrencyPattern(config.CurrencyPattern))
	}

	s := &ImportService{
		rules:   rs,
		writer:  ledger.NewWriter(wb, config.Profile, config.Banks, ledger.WithClearStaleRows(config.ClearStaleRows)),
		summary: ledger.NewSummary(wb, config.Profile, summaryOpts...),
		profile: config.Profile,
		config:  config,
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// CategorizeResult describes the cleaned file written for a statement.
type CategorizeResult struct {
	Period      core.Period
	CleanedPath string
	Rows        int
	Skipped     []statement.Skipped
}

// Categorize normalizes the raw export at input, labels each row and saves
// the cleaned file under the statements directory.
func (s *ImportService) Categorize(ctx context.Context, input, bank string) (CategorizeResult, error) {
	if bank == "" {
		return CategorizeResult{}, core.ErrEmptyBank
	}
	period, err := core.ParseStatementName(input)
	if err != nil {
		return CategorizeResult{}, err
	}

	logger := s.loggerFor(ctx).WithFields(log.NewFields().
		WithComponent(log.ComponentImport).
		WithOperation(log.OpCategorize))
	ctx = log.WithContext(ctx, logger)

	f, err := os.Open(input)
	if err != nil {
		return CategorizeResult{}, fmt.Errorf("open statement: %w", err)
	}
	defer f.Close()

	norm, err := statement.Normalize(f)
	if err != nil {
		return CategorizeResult{}, fmt.Errorf("normalize %s: %w", input, err)
	}
	for _, sk := range norm.Skipped {
		logger.WithComponent(log.ComponentStatement).DebugContext(ctx, "Skipped record",
			log.FieldFile, input,
			"line", sk.Line,
			"fields", sk.Fields,
			"reason", sk.Reason)
	}

	labeled := s.rules.Label(norm.Transactions)
	out := statement.CleanedPath(s.config.StatementsDir, bank, input)
	if err := statement.SaveCleaned(out, labeled); err != nil {
		return CategorizeResult{}, fmt.Errorf("save cleaned file: %w", err)
	}

	logger.InfoContext(ctx, "Statement categorized",
		log.FieldFile, input,
		log.FieldBank, bank,
		log.FieldRows, len(labeled),
		log.FieldSkipped, len(norm.Skipped))
	fmt.Fprintf(s.config.Output, "Categorized data saved to %s\n", out)

	return CategorizeResult{
		Period:      period,
		CleanedPath: out,
		Rows:        len(labeled),
		Skipped:     norm.Skipped,
	}, nil
}

// UpdateResult describes the ledger and Master writes for a cleaned file.
type UpdateResult struct {
	Period  core.Period
	Written ledger.WriteResult
	Summary ledger.SummaryResult
	Totals  []core.CategoryAmount
	Coerced []statement.Coercion
}

// Update writes a cleaned file to its year tab and adds the month's totals
// to the Master tab. The period comes from the file name.
func (s *ImportService) Update(ctx context.Context, cleanedPath, bank string) (UpdateResult, error) {
	if bank == "" {
		return UpdateResult{}, core.ErrEmptyBank
	}
	period, err := core.ParseStatementName(cleanedPath)
	if err != nil {
		return UpdateResult{}, err
	}

	logger := s.loggerFor(ctx).WithFields(log.NewFields().
		WithComponent(log.ComponentImport).
		WithOperation(log.OpUpdate).
		WithStatement(cleanedPath, period.Year, period.MonthName(), bank))
	ctx = log.WithContext(ctx, logger)

	cleaned, err := statement.LoadCleaned(cleanedPath)
	if err != nil {
		return UpdateResult{}, err
	}
	for _, c := range cleaned.Coerced {
		logger.WithComponent(log.ComponentStatement).WarnContext(ctx, "Amount coerced to zero",
			log.FieldRow, c.Row,
			"raw", c.Raw,
			"reason", c.Reason)
	}
	logger.DebugContext(ctx, "Cleaned file loaded",
		log.FieldRows, len(cleaned.Rows),
		log.FieldCoerced, len(cleaned.Coerced))

	written, err := s.writer.Write(ctx, ledger.Batch{Period: period, Bank: bank, Rows: cleaned.Rows})
	if err != nil {
		return UpdateResult{}, fmt.Errorf("update worksheet %s: %w", period.YearSheet(), err)
	}
	fmt.Fprintf(s.config.Output, "Successfully updated worksheet %s with %s / %s data\n",
		written.Sheet, period.MonthName(), written.BankType)

	totals := ledger.CategoryTotals(cleaned.Rows, s.profile.Categories)
	sum, err := s.summary.Update(ctx, ledger.Entry{Period: period, BankType: written.BankType, Totals: totals})
	if err != nil {
		return UpdateResult{}, fmt.Errorf("update master sheet: %w", err)
	}
	fmt.Fprintf(s.config.Output, "Master sheet updated: %s (row %d)\n", sum.Label, sum.Row)

	return UpdateResult{
		Period:  period,
		Written: written,
		Summary: sum,
		Totals:  totals,
		Coerced: cleaned.Coerced,
	}, nil
}

// Run categorizes input and pushes it to the ledger. The run is journaled
// whether it succeeds or not. The event is only published on success.
// Journal and publish failures are logged and do not fail the run.
func (s *ImportService) Run(ctx context.Context, input, bank string) (core.ImportRun, error) {
	run := core.ImportRun{
		ID:         uuid.NewString(),
		SourceFile: input,
		Bank:       bank,
		BankType:   s.writer.BankType(bank),
		StartedAt:  s.now(),
	}
	ctx = log.WithContext(ctx, s.loggerFor(ctx).WithFields(log.NewFields().
		WithComponent(log.ComponentImport).
		WithRunID(run.ID)))
	logger := log.FromContext(ctx).WithFields(log.NewFields().WithOperation(log.OpImport))

	err := s.run(ctx, &run)
	run.FinishedAt = s.now()
	if err != nil {
		run.Status = core.RunFailed
		run.Error = err.Error()
		logger.ErrorContext(ctx, "Import failed", log.FieldError, err)
	} else {
		run.Status = core.RunSucceeded
		logger.InfoContext(ctx, "Import complete",
			log.FieldSheet, run.Period.YearSheet(),
			log.FieldMonth, run.Period.MonthName(),
			log.FieldBankType, run.BankType,
			log.FieldRows, run.Rows,
			log.FieldDuration, run.FinishedAt.Sub(run.StartedAt).Milliseconds())
	}

	if s.journal != nil {
		if jerr := s.journal.RecordRun(ctx, run); jerr != nil {
			logger.ErrorContext(ctx, "Failed to journal run", log.FieldError, jerr)
		}
	}

	if err != nil {
		return run, err
	}

	if s.publisher != nil {
		if perr := s.publisher.PublishStatementImported(ctx, run); perr != nil {
			logger.ErrorContext(ctx, "Failed to publish import event", log.FieldError, perr)
		}
	} else {
		logger.DebugContext(ctx, "No publisher configured, skipping import event")
	}

	return run, nil
}

func (s *ImportService) run(ctx context.Context, run *core.ImportRun) error {
	cat, err := s.Categorize(ctx, run.SourceFile, run.Bank)
	if err != nil {
		return err
	}
	run.Period = cat.Period
	run.CleanedFile = cat.CleanedPath
	run.Skipped = len(cat.Skipped)

	upd, err := s.Update(ctx, cat.CleanedPath, run.Bank)
	if err != nil {
		return err
	}
	run.BankType = upd.Written.BankType
	run.Rows = upd.Written.Rows
	run.Coerced = len(upd.Coerced)
	run.Totals = upd.Totals
	run.SummaryRow = upd.Summary.Row
	return nil
}
