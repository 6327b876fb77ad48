package google

import (
	"fmt"
	"strings"

	"clarity/internal/core"
)

// parseTransactions converts a values matrix (as returned by the Sheets API)
// into transactions. The first row must be a header containing ID, Date,
// Merchant, Category, Amount, Type and Account; a Recurring column is
// optional. Rows that fail to parse are skipped.
func parseTransactions(values [][]interface{}) ([]core.Transaction, error) {
	if len(values) == 0 {
		return nil, nil
	}
	headers := toStrings(values[0])
	colID := indexOf(headers, "ID")
	colDate := indexOf(headers, "Date")
	colMerchant := indexOf(headers, "Merchant")
	colCategory := indexOf(headers, "Category")
	colAmount := indexOf(headers, "Amount")
	colType := indexOf(headers, "Type")
	colAccount := indexOf(headers, "Account")
	colRecurring := indexOf(headers, "Recurring")

	missing := make([]string, 0, 7)
	for _, col := range []struct {
		name string
		idx  int
	}{
		{"ID", colID},
		{"Date", colDate},
		{"Merchant", colMerchant},
		{"Category", colCategory},
		{"Amount", colAmount},
		{"Type", colType},
		{"Account", colAccount},
	} {
		if col.idx == -1 {
			missing = append(missing, col.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("unexpected sheet header: missing %s; got headers=%v", strings.Join(missing, ","), headers)
	}

	var txns []core.Transaction
	for i := 1; i < len(values); i++ {
		row := toStrings(values[i])
		if isBlankRow(row) {
			continue
		}

		id := safeGet(row, colID)
		if id == "" {
			continue
		}

		date, err := core.ParseDate(safeGet(row, colDate))
		if err != nil {
			continue
		}

		cents, err := core.ParseDecimalToCents(safeGet(row, colAmount))
		if err != nil {
			continue
		}

		txnType, ok := parseTxnType(safeGet(row, colType))
		if !ok {
			continue
		}

		txn := core.Transaction{
			ID:          id,
			Date:        date,
			Merchant:    safeGet(row, colMerchant),
			Category:    safeGet(row, colCategory),
			Amount:      core.Money{Cents: cents},
			Type:        txnType,
			AccountID:   safeGet(row, colAccount),
			IsRecurring: parseRecurring(safeGet(row, colRecurring)),
		}
		if err := txn.Validate(); err != nil {
			continue
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

func parseTxnType(s string) (core.TransactionType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return core.TxnIncome, true
	case "expense", "":
		// Sheets exported before the Type column existed hold expenses only.
		return core.TxnExpense, true
	default:
		return "", false
	}
}

func parseRecurring(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "1":
		return true
	default:
		return false
	}
}
