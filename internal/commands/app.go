package commands

import (
	"context"
	"fmt"
	"io"

	"finsheet/internal/backend"
	"finsheet/internal/categorize"
	"finsheet/internal/cli"
	"finsheet/internal/config"
	"finsheet/internal/log"
	"finsheet/internal/services"
)

// app holds what every command needs once the environment is loaded.
type app struct {
	cfg    *config.Config
	logger *log.Logger
}

func loadApp() (*app, error) {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return nil, err
	}
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, logger: cli.SetupLogger(level)}, nil
}

// importService wires the workbook backend, the journal and the publisher
// into an import service. The returned cleanup releases all of them.
func (a *app) importService(ctx context.Context, out io.Writer) (*services.ImportService, func(), error) {
	profile, err := a.cfg.Profile()
	if err != nil {
		return nil, nil, err
	}
	banks, err := a.cfg.Banks()
	if err != nil {
		return nil, nil, err
	}

	var rules []categorize.Rule
	if a.cfg.CategoryRulesFile != "" {
		rules, err = categorize.LoadRules(a.cfg.CategoryRulesFile)
		if err != nil {
			return nil, nil, err
		}
	}

	bcfg, err := backend.FromAppConfig(a.cfg)
	if err != nil {
		return nil, nil, err
	}
	res, err := backend.NewFactory(a.logger.WithComponent(log.ComponentBackend).Logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, nil, err
	}

	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	if res.Cleanup != nil {
		cleanups = append(cleanups, func() {
			if err := res.Cleanup(); err != nil {
				a.logger.Warn("Backend cleanup failed", log.FieldError, err)
			}
		})
	}

	opts := []services.Option{services.WithLogger(a.logger.WithComponent(log.ComponentImport))}

	journal, err := cli.OpenJournal(a.logger, a.cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if journal != nil {
		opts = append(opts, services.WithJournal(journal))
		cleanups = append(cleanups, func() { _ = journal.Close() })
	}

	if pub := cli.OpenPublisher(a.logger, a.cfg); pub != nil {
		opts = append(opts, services.WithPublisher(pub))
		cleanups = append(cleanups, func() { _ = pub.Close() })
	}

	svc, err := services.NewImportService(res.Workbook, services.ImportServiceConfig{
		Profile:         profile,
		Rules:           rules,
		Banks:           banks,
		StatementsDir:   a.cfg.StatementsDir,
		MasterSheet:     a.cfg.MasterSheetName,
		CurrencyPattern: a.cfg.CurrencyPattern,
		ClearStaleRows:  a.cfg.ClearStaleRows,
		Output:          out,
	}, opts...)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("build import service: %w", err)
	}
	return svc, cleanup, nil
}
