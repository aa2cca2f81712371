package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"finsheet/internal/ledger"
)

type Config struct {
	// Google Sheets
	GoogleSpreadsheetID      string `envconfig:"GOOGLE_SPREADSHEET_ID"`
	GoogleServiceAccountJSON string `envconfig:"GOOGLE_SERVICE_ACCOUNT_JSON"`
	GoogleServiceAccountFile string `envconfig:"GOOGLE_SERVICE_ACCOUNT_FILE" default:"credentials.json"`
	GoogleOAuthClientFile    string `envconfig:"GOOGLE_OAUTH_CLIENT_FILE"`
	GoogleOAuthTokenFile     string `envconfig:"GOOGLE_OAUTH_TOKEN_FILE"`
	MasterSheetName          string `envconfig:"MASTER_SHEET_NAME" default:"Master"`

	// Backend selection
	DataBackend string `envconfig:"DATA_BACKEND" default:"sheets"`

	// Ledger layout
	LedgerProfile     string `envconfig:"LEDGER_PROFILE" default:"classic"`
	BankTypes         string `envconfig:"BANK_TYPES" default:"hsbc:Debit,amex:Credit"`
	CategoryRulesFile string `envconfig:"CATEGORY_RULES_FILE"`
	StatementsDir     string `envconfig:"STATEMENTS_DIR" default:"statements"`
	ClearStaleRows    bool   `envconfig:"CLEAR_STALE_ROWS" default:"false"`
	CurrencyPattern   string `envconfig:"CURRENCY_PATTERN" default:"£#,##0.00"`

	// Run journal, disabled when empty
	SQLiteDBPath string `envconfig:"SQLITE_DB_PATH"`

	// AMQP, disabled when URL is empty
	AMQPURL        string `envconfig:"AMQP_URL"`
	AMQPExchange   string `envconfig:"AMQP_EXCHANGE" default:"finsheet"`
	AMQPRoutingKey string `envconfig:"AMQP_ROUTING_KEY" default:"statement_imported"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &cfg, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate data backend
	validBackends := []string{"memory", "sheets"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate Google Sheets configuration if backend is sheets
	if c.DataBackend == "sheets" {
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets backend")
		}
		if c.MasterSheetName == "" {
			errors = append(errors, "Master sheet name is required when using sheets backend")
		}

		hasOAuth := c.GoogleOAuthClientFile != "" || c.GoogleOAuthTokenFile != ""
		if hasOAuth && (c.GoogleOAuthClientFile == "" || c.GoogleOAuthTokenFile == "") {
			errors = append(errors, "GOOGLE_OAUTH_CLIENT_FILE and GOOGLE_OAUTH_TOKEN_FILE must be set together")
		}
		if c.GoogleServiceAccountJSON == "" && !hasOAuth {
			if c.GoogleServiceAccountFile == "" {
				errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_OAUTH_CLIENT_FILE must be provided for sheets backend")
			} else if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	if _, err := ledger.ProfileByName(c.LedgerProfile); err != nil {
		errors = append(errors, fmt.Sprintf("invalid ledger profile '%s': must be classic or investment", c.LedgerProfile))
	}
	if _, err := ledger.ParseBankTypes(c.BankTypes); err != nil {
		errors = append(errors, fmt.Sprintf("invalid BANK_TYPES: %v", err))
	}
	if c.CategoryRulesFile != "" {
		if _, err := os.Stat(c.CategoryRulesFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("category rules file does not exist: %s", c.CategoryRulesFile))
		}
	}
	if strings.TrimSpace(c.StatementsDir) == "" {
		errors = append(errors, "statements directory cannot be empty")
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPRoutingKey == "" {
			errors = append(errors, "AMQP routing key cannot be empty when AMQP URL is provided")
		}
	}

	if _, err := c.Level(); err != nil {
		errors = append(errors, err.Error())
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel)
	}
	return l, nil
}

// Profile returns the configured ledger profile.
func (c *Config) Profile() (ledger.Profile, error) {
	return ledger.ProfileByName(c.LedgerProfile)
}

// Banks returns the configured bank type mapping.
func (c *Config) Banks() (ledger.BankTypes, error) {
	return ledger.ParseBankTypes(c.BankTypes)
}
