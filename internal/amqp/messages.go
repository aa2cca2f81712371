package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"finsheet/internal/core"
)

// CategoryTotal is one category amount as a fixed two-place decimal string.
type CategoryTotal struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

// StatementImportedMessage announces that a statement reached the ledger.
type StatementImportedMessage struct {
	RunID      string          `json:"run_id"`
	Year       int             `json:"year"`
	Month      string          `json:"month"`
	Bank       string          `json:"bank"`
	BankType   string          `json:"bank_type"`
	Label      string          `json:"label"`
	Rows       int             `json:"rows"`
	SummaryRow int             `json:"summary_row"`
	Totals     []CategoryTotal `json:"totals"`
	Timestamp  time.Time       `json:"timestamp"`
}

// NewStatementImportedMessage builds the event for a finished run.
func NewStatementImportedMessage(run core.ImportRun) *StatementImportedMessage {
	totals := make([]CategoryTotal, len(run.Totals))
	for i, t := range run.Totals {
		totals[i] = CategoryTotal{
			Category: string(t.Category),
			Amount:   core.RoundMoney(t.Amount).StringFixed(core.MoneyPlaces),
		}
	}
	ts := run.FinishedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return &StatementImportedMessage{
		RunID:      run.ID,
		Year:       run.Period.Year,
		Month:      run.Period.MonthName(),
		Bank:       run.Bank,
		BankType:   string(run.BankType),
		Label:      fmt.Sprintf("%s - %s", run.Period.MonthName(), run.BankType),
		Rows:       run.Rows,
		SummaryRow: run.SummaryRow,
		Totals:     totals,
		Timestamp:  ts.UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *StatementImportedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
