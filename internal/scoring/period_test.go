package scoring

import (
	"testing"
	"time"

	"clarity/internal/core"
)

var testNow = time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)

func expense(id string, date core.Date, category string, cents int64) core.Transaction {
	return core.Transaction{
		ID: id, Date: date, Merchant: "m", Category: category,
		Amount: core.Money{Cents: cents}, Type: core.TxnExpense, AccountID: "a",
	}
}

func income(id string, date core.Date, cents int64) core.Transaction {
	return core.Transaction{
		ID: id, Date: date, Merchant: "m", Category: "Salary",
		Amount: core.Money{Cents: cents}, Type: core.TxnIncome, AccountID: "a",
	}
}

func TestExpensesForPeriodThisMonth(t *testing.T) {
	txns := []core.Transaction{
		expense("t1", core.NewDate(2025, 8, 1), "Dining", 100),
		expense("t2", core.NewDate(2025, 7, 31), "Dining", 100),
		expense("t3", core.NewDate(2024, 8, 15), "Dining", 100), // same month, wrong year
		income("t4", core.NewDate(2025, 8, 10), 100),
	}
	got := ExpensesForPeriod(txns, PeriodThisMonth, testNow)
	if len(got) != 1 || got[0].ID != "t1" {
		t.Fatalf("expected only t1, got %+v", got)
	}
}

func TestExpensesForPeriodLast30Days(t *testing.T) {
	txns := []core.Transaction{
		expense("boundary", core.NewDate(2025, 7, 16), "Dining", 100), // exactly 30 days back
		expense("inside", core.NewDate(2025, 8, 15), "Dining", 100),
		expense("outside", core.NewDate(2025, 7, 15), "Dining", 100),
		income("inc", core.NewDate(2025, 8, 1), 100),
	}
	got := ExpensesForPeriod(txns, PeriodLast30Days, testNow)
	if len(got) != 2 {
		t.Fatalf("expected 2, got %d", len(got))
	}
	ids := map[string]bool{}
	for _, tx := range got {
		ids[tx.ID] = true
	}
	if !ids["boundary"] {
		t.Fatal("transaction dated exactly 30 days ago must be included")
	}
	if ids["outside"] {
		t.Fatal("transaction dated 31 days ago must be excluded")
	}
}

func TestExpensesForPeriodIdempotent(t *testing.T) {
	txns := []core.Transaction{
		expense("t1", core.NewDate(2025, 8, 1), "Dining", 100),
		expense("t2", core.NewDate(2025, 8, 2), "Fees", 200),
	}
	first := ExpensesForPeriod(txns, PeriodThisMonth, testNow)
	second := ExpensesForPeriod(txns, PeriodThisMonth, testNow)
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("element %d differs", i)
		}
	}
}
