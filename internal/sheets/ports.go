// Package sheets defines the ports for importing ledger data from
// external spreadsheets.
package sheets

import (
	"context"

	"clarity/internal/core"
)

// TransactionSource yields transaction rows from an external sheet.
type TransactionSource interface {
	ReadTransactions(ctx context.Context) ([]core.Transaction, error)
}
