package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"clarity/internal/core"
	"clarity/internal/sheets/memory"
	"clarity/internal/storage"
)

func testImport(t *testing.T, source *memory.Store) (*ImportService, *storage.SQLiteRepository) {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "clarity.db"))
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	return NewImportService(repo, source, nil), repo
}

func sheetTxn(id string, day int, cents int64) core.Transaction {
	return core.Transaction{
		ID:        id,
		Date:      core.NewDate(2025, 8, day),
		Merchant:  "Imported Merchant",
		Category:  "Misc",
		Amount:    core.Money{Cents: cents},
		Type:      core.TxnExpense,
		AccountID: "sheet-acc",
	}
}

func TestImportRun(t *testing.T) {
	source := memory.New(
		sheetTxn("imp-1", 1, 1200),
		sheetTxn("imp-2", 2, 3400),
	)
	svc, repo := testImport(t, source)
	ctx := context.Background()

	stats, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Read != 2 || stats.Imported != 2 || stats.Duplicates != 0 || stats.Failed != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.CreatedAccounts != 1 {
		t.Fatalf("expected 1 created account, got %d", stats.CreatedAccounts)
	}

	account, err := repo.GetAccount(ctx, "sheet-acc")
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if account.InstitutionID != ImportedInstitutionID {
		t.Fatalf("expected account under %q, got %q", ImportedInstitutionID, account.InstitutionID)
	}

	txns, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txns) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txns))
	}
}

func TestImportRun_SkipsDuplicates(t *testing.T) {
	source := memory.New(sheetTxn("imp-1", 1, 1200))
	svc, _ := testImport(t, source)
	ctx := context.Background()

	if _, err := svc.Run(ctx); err != nil {
		t.Fatalf("first run: %v", err)
	}

	source.Add(sheetTxn("imp-2", 2, 3400))
	stats, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if stats.Read != 2 || stats.Imported != 1 || stats.Duplicates != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestImportRun_KeepsExistingAccount(t *testing.T) {
	txn := sheetTxn("imp-1", 1, 1200)
	txn.AccountID = "acc-1"
	source := memory.New(txn)
	svc, repo := testImport(t, source)
	ctx := context.Background()

	if err := repo.UpsertInstitution(ctx, core.Institution{ID: "inst-1", Name: "First Bank"}); err != nil {
		t.Fatalf("upsert institution: %v", err)
	}
	if err := repo.UpsertAccount(ctx, core.Account{ID: "acc-1", InstitutionID: "inst-1", Name: "Checking", Type: core.AccountChecking}); err != nil {
		t.Fatalf("upsert account: %v", err)
	}

	stats, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Imported != 1 || stats.CreatedAccounts != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	account, err := repo.GetAccount(ctx, "acc-1")
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if account.InstitutionID != "inst-1" {
		t.Fatalf("import must not move the account, got institution %q", account.InstitutionID)
	}
}

func TestImportRun_SourceError(t *testing.T) {
	source := memory.New()
	wantErr := errors.New("sheet unavailable")
	source.FailWith(wantErr)

	svc, _ := testImport(t, source)
	if _, err := svc.Run(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("expected %v, got %v", wantErr, err)
	}
}
