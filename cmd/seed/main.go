package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"

	"clarity/internal/config"
	"clarity/internal/core"
	applog "clarity/internal/log"
	"clarity/internal/services"
	"clarity/internal/storage"
	"clarity/internal/worker"
)

// Seeds the database with a demo ledger and computes the first snapshots.
func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx := context.Background()
	if err := seed(ctx, repo); err != nil {
		logger.Error("Seeding failed", "error", err)
		os.Exit(1)
	}

	refreshWorker := worker.NewRefreshWorker(repo, services.NewDashboardService(repo))
	if err := refreshWorker.RefreshAll(ctx); err != nil {
		logger.Error("Initial snapshot computation failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Seeded demo data", "path", cfg.SQLiteDBPath)
}

func seed(ctx context.Context, repo *storage.SQLiteRepository) error {
	now := time.Now()
	thisMonth := func(day int) core.Date {
		return core.NewDate(now.Year(), int(now.Month()), day)
	}
	lastMonth := func(day int) core.Date {
		prev := now.AddDate(0, -1, 0)
		return core.NewDate(prev.Year(), int(prev.Month()), day)
	}

	for _, inst := range []core.Institution{
		{ID: "demo-bank", Name: "Demo Bank"},
		{ID: "demo-credit", Name: "Demo Credit Union"},
	} {
		if err := repo.UpsertInstitution(ctx, inst); err != nil {
			return err
		}
	}

	accounts := []core.Account{
		{ID: "demo-checking", InstitutionID: "demo-bank", Name: "Everyday Checking", Type: core.AccountChecking, Balance: core.Money{Cents: 342500}},
		{ID: "demo-savings", InstitutionID: "demo-bank", Name: "Rainy Day Savings", Type: core.AccountSavings, Balance: core.Money{Cents: 1250000}},
		{ID: "demo-card", InstitutionID: "demo-credit", Name: "Rewards Card", Type: core.AccountCredit, Balance: core.Money{Cents: 87300}},
	}
	for _, a := range accounts {
		if err := repo.UpsertAccount(ctx, a); err != nil {
			return err
		}
	}

	txns := []core.Transaction{
		{ID: "demo-t1", Date: thisMonth(1), Merchant: "Acme Payroll", Category: "Salary", Amount: core.Money{Cents: 420000}, Type: core.TxnIncome, AccountID: "demo-checking"},
		{ID: "demo-t2", Date: thisMonth(2), Merchant: "City Market", Category: "Groceries", Amount: core.Money{Cents: 18450}, Type: core.TxnExpense, AccountID: "demo-checking"},
		{ID: "demo-t3", Date: thisMonth(5), Merchant: "Corner Bistro", Category: "Dining", Amount: core.Money{Cents: 6200}, Type: core.TxnExpense, AccountID: "demo-card"},
		{ID: "demo-t4", Date: thisMonth(8), Merchant: "Metro Transit", Category: "Transport", Amount: core.Money{Cents: 4500}, Type: core.TxnExpense, AccountID: "demo-checking"},
		{ID: "demo-t5", Date: thisMonth(10), Merchant: "Power & Light Co", Category: "Utilities", Amount: core.Money{Cents: 9800}, Type: core.TxnExpense, AccountID: "demo-checking", IsRecurring: true},
		{ID: "demo-t6", Date: lastMonth(3), Merchant: "City Market", Category: "Groceries", Amount: core.Money{Cents: 21300}, Type: core.TxnExpense, AccountID: "demo-checking"},
		{ID: "demo-t7", Date: lastMonth(12), Merchant: "Corner Bistro", Category: "Dining", Amount: core.Money{Cents: 8900}, Type: core.TxnExpense, AccountID: "demo-card"},
		{ID: "demo-t8", Date: lastMonth(15), Merchant: "Power & Light Co", Category: "Utilities", Amount: core.Money{Cents: 9100}, Type: core.TxnExpense, AccountID: "demo-checking", IsRecurring: true},
		{ID: "demo-t9", Date: lastMonth(1), Merchant: "Acme Payroll", Category: "Salary", Amount: core.Money{Cents: 420000}, Type: core.TxnIncome, AccountID: "demo-checking"},
	}
	for _, t := range txns {
		if err := repo.CreateTransaction(ctx, t); err != nil {
			return err
		}
	}

	subs := []core.Subscription{
		{ID: "demo-s1", Merchant: "Streamflix", MonthlyCost: core.Money{Cents: 1599}, Status: core.SubscriptionActive, Category: "Entertainment", AccountID: "demo-card", LastChargeDate: thisMonth(3)},
		{ID: "demo-s2", Merchant: "Cloud Notes", MonthlyCost: core.Money{Cents: 499}, Status: core.SubscriptionTrial, Category: "Productivity", AccountID: "demo-checking"},
	}
	for _, s := range subs {
		if err := repo.UpsertSubscription(ctx, s); err != nil {
			return err
		}
	}

	apr := 21.9
	minPayment := int64(3500)
	dueDay := 15
	debt := core.Debt{
		ID:             "demo-d1",
		Name:           "Rewards Card Balance",
		Type:           "credit_card",
		Balance:        core.Money{Cents: 87300},
		APR:            &apr,
		MinimumPayment: &core.Money{Cents: minPayment},
		DueDay:         &dueDay,
		Status:         core.DebtActive,
	}
	return repo.UpsertDebt(ctx, debt)
}
