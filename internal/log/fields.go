package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldFile      = "file"
	FieldSheet     = "sheet"
	FieldYear      = "year"
	FieldMonth     = "month"
	FieldBank      = "bank"
	FieldBankType  = "bank_type"
	FieldRows      = "rows"
	FieldSkipped   = "skipped"
	FieldCoerced   = "coerced"
	FieldRow       = "row"
	FieldDuration  = "duration_ms"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentImport    = "import"
	ComponentStatement = "statement"
	ComponentLedger    = "ledger"
	ComponentSheets    = "sheets"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentBackend   = "backend"
)

// Operations defines standard operation names
const (
	OpCategorize = "categorize"
	OpUpdate     = "update"
	OpImport     = "import"
	OpHistory    = "history"
	OpPublish    = "publish"
	OpMigrate    = "migrate"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent sets the component; Logger.WithFields swaps it in for the
// logger's own
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithRunID adds the import run id
func (f LogFields) WithRunID(id string) LogFields {
	f[FieldRunID] = id
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithStatement adds the statement period and bank
func (f LogFields) WithStatement(file string, year int, month, bank string) LogFields {
	f[FieldFile] = file
	f[FieldYear] = year
	f[FieldMonth] = month
	f[FieldBank] = bank
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
