package ledger

import (
	"context"

	"finsheet/internal/log"
)

// logger returns the caller's logger tagged as the ledger component, so
// run-scoped fields set upstream carry through.
func logger(ctx context.Context) *log.Logger {
	return log.FromContext(ctx).WithComponent(log.ComponentLedger)
}
