package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"clarity/internal/core"
	"clarity/internal/scoring"
	"clarity/internal/storage"
)

var testNow = time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)

func testLedger(t *testing.T) (*LedgerService, *DashboardService) {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "clarity.db"))
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	return NewLedgerService(repo, nil), NewDashboardService(repo)
}

func seedLedger(t *testing.T, ledger *LedgerService) {
	t.Helper()
	ctx := context.Background()

	for _, inst := range []core.Institution{
		{ID: "inst-1", Name: "First Bank"},
		{ID: "inst-2", Name: "Second Bank"},
	} {
		if err := ledger.UpsertInstitution(ctx, inst); err != nil {
			t.Fatalf("upsert institution: %v", err)
		}
	}

	accounts := []core.Account{
		{ID: "acc-1", InstitutionID: "inst-1", Name: "Checking", Type: core.AccountChecking, Balance: core.Money{Cents: 500000}},
		{ID: "acc-2", InstitutionID: "inst-2", Name: "Savings", Type: core.AccountSavings, Balance: core.Money{Cents: 1000000}},
	}
	for _, a := range accounts {
		if err := ledger.UpsertAccount(ctx, a); err != nil {
			t.Fatalf("upsert account: %v", err)
		}
	}

	txns := []core.Transaction{
		{ID: "t-income", Date: core.NewDate(2025, 8, 1), Merchant: "Employer", Category: "Salary", Amount: core.Money{Cents: 500000}, Type: core.TxnIncome, AccountID: "acc-1"},
		{ID: "t-grocery", Date: core.NewDate(2025, 8, 5), Merchant: "Market", Category: "Groceries", Amount: core.Money{Cents: 40000}, Type: core.TxnExpense, AccountID: "acc-1"},
		{ID: "t-dining", Date: core.NewDate(2025, 8, 10), Merchant: "Bistro", Category: "Dining", Amount: core.Money{Cents: 20000}, Type: core.TxnExpense, AccountID: "acc-1"},
		{ID: "t-last-month", Date: core.NewDate(2025, 7, 20), Merchant: "Market", Category: "Groceries", Amount: core.Money{Cents: 50000}, Type: core.TxnExpense, AccountID: "acc-1"},
		{ID: "t-other-inst", Date: core.NewDate(2025, 8, 7), Merchant: "Cafe", Category: "Dining", Amount: core.Money{Cents: 5000}, Type: core.TxnExpense, AccountID: "acc-2"},
	}
	for _, txn := range txns {
		if err := ledger.CreateTransaction(ctx, txn); err != nil {
			t.Fatalf("create transaction %s: %v", txn.ID, err)
		}
	}

	sub := core.Subscription{
		ID:          "sub-1",
		AccountID:   "acc-1",
		Merchant:    "StreamFlix",
		MonthlyCost: core.Money{Cents: 1599},
		Status:      core.SubscriptionActive,
		Category:    "Entertainment",
	}
	if err := ledger.UpsertSubscription(ctx, sub); err != nil {
		t.Fatalf("upsert subscription: %v", err)
	}
}

func TestDashboardBuild_AllAccounts(t *testing.T) {
	ledger, dashboards := testLedger(t)
	seedLedger(t, ledger)

	d, err := dashboards.Build(context.Background(), "", scoring.PeriodThisMonth, testNow)
	if err != nil {
		t.Fatalf("build dashboard: %v", err)
	}

	if d.MonthlyIncomeCents != 500000 {
		t.Errorf("expected income 500000, got %d", d.MonthlyIncomeCents)
	}
	// This month across both institutions: 40000 + 20000 + 5000
	if d.CashControl.ExpensesThisMonth.Cents != 65000 {
		t.Errorf("expected this month expenses 65000, got %d", d.CashControl.ExpensesThisMonth.Cents)
	}
	if d.CashControl.ExpensesLastMonth.Cents != 50000 {
		t.Errorf("expected last month expenses 50000, got %d", d.CashControl.ExpensesLastMonth.Cents)
	}
	if d.CategoryBreakdown.Total.Cents != 65000 {
		t.Errorf("expected breakdown total 65000, got %d", d.CategoryBreakdown.Total.Cents)
	}
	if d.MonthlySubCostCents != 1599 || d.AnnualSubCostCents != 1599*12 {
		t.Errorf("unexpected subscription cost %d/%d", d.MonthlySubCostCents, d.AnnualSubCostCents)
	}
	if d.SubscriptionLoadPct == nil {
		t.Fatal("expected subscription load with positive income")
	}
	// Two institutions and one billing subscription: full visibility
	if d.Clarity.Breakdown.Visibility != scoring.VisibilityMax {
		t.Errorf("expected full visibility, got %d", d.Clarity.Breakdown.Visibility)
	}
	if d.ClarityLabel != scoring.ClarityLabel(d.Clarity.Score) {
		t.Errorf("label %q does not match score %d", d.ClarityLabel, d.Clarity.Score)
	}
}

func TestDashboardBuild_InstitutionScope(t *testing.T) {
	ledger, dashboards := testLedger(t)
	seedLedger(t, ledger)

	d, err := dashboards.Build(context.Background(), "inst-2", scoring.PeriodThisMonth, testNow)
	if err != nil {
		t.Fatalf("build dashboard: %v", err)
	}

	// Only acc-2 is visible: one dining expense, no income
	if d.CashControl.ExpensesThisMonth.Cents != 5000 {
		t.Errorf("expected scoped expenses 5000, got %d", d.CashControl.ExpensesThisMonth.Cents)
	}
	if d.MonthlyIncomeCents != 0 {
		t.Errorf("expected no income in scope, got %d", d.MonthlyIncomeCents)
	}
	if d.SubscriptionLoadPct != nil {
		t.Error("expected nil subscription load with zero income")
	}
	// One institution in scope loses the multi-institution bonus
	if d.Clarity.Breakdown.Visibility >= scoring.VisibilityMax {
		t.Errorf("expected reduced visibility, got %d", d.Clarity.Breakdown.Visibility)
	}
}

func TestDashboardBuild_UnknownInstitution(t *testing.T) {
	ledger, dashboards := testLedger(t)
	seedLedger(t, ledger)

	d, err := dashboards.Build(context.Background(), "inst-nope", scoring.PeriodThisMonth, testNow)
	if err != nil {
		t.Fatalf("build dashboard: %v", err)
	}
	if d.CashControl.ExpensesThisMonth.Cents != 0 || d.CategoryBreakdown.Total.Cents != 0 {
		t.Errorf("expected empty scope, got %+v", d.CashControl)
	}
}

func TestDashboardInsights(t *testing.T) {
	ledger, dashboards := testLedger(t)
	seedLedger(t, ledger)

	insights, err := dashboards.Insights(context.Background(), "", testNow)
	if err != nil {
		t.Fatalf("insights: %v", err)
	}
	// Dining is 25000/65000 of this month's spend, above the threshold
	found := false
	for _, ins := range insights {
		if ins.Type == scoring.InsightHighDiningRatio {
			found = true
		}
	}
	if !found {
		t.Errorf("expected dining insight, got %+v", insights)
	}
	if len(insights) > scoring.MaxInsights {
		t.Errorf("insights exceed cap: %d", len(insights))
	}
}

func TestLedgerValidation(t *testing.T) {
	ledger, _ := testLedger(t)
	ctx := context.Background()

	err := ledger.CreateTransaction(ctx, core.Transaction{ID: "t-1"})
	if err == nil {
		t.Fatal("expected validation error for empty transaction")
	}

	// Valid shape but unknown account
	err = ledger.CreateTransaction(ctx, core.Transaction{
		ID:        "t-1",
		Date:      core.NewDate(2025, 8, 1),
		Merchant:  "M",
		Category:  "C",
		Amount:    core.Money{Cents: 100},
		Type:      core.TxnExpense,
		AccountID: "missing",
	})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown account, got %v", err)
	}
}

func TestLedgerDebtRoundTrip(t *testing.T) {
	ledger, _ := testLedger(t)
	ctx := context.Background()

	debt := core.Debt{ID: "d-1", Name: "Card", Balance: core.Money{Cents: 10000}, Status: core.DebtActive}
	if err := ledger.UpsertDebt(ctx, debt); err != nil {
		t.Fatalf("upsert debt: %v", err)
	}
	debts, err := ledger.ListDebts(ctx)
	if err != nil {
		t.Fatalf("list debts: %v", err)
	}
	if len(debts) != 1 || debts[0].Name != "Card" {
		t.Fatalf("unexpected debts: %+v", debts)
	}
	if err := ledger.DeleteDebt(ctx, "d-1"); err != nil {
		t.Fatalf("delete debt: %v", err)
	}
}
