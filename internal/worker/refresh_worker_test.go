package worker

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"clarity/internal/amqp"
	"clarity/internal/core"
	"clarity/internal/services"
	"clarity/internal/storage"
)

func testWorker(t *testing.T) (*RefreshWorker, *storage.SQLiteRepository) {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "clarity.db"))
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	return NewRefreshWorker(repo, services.NewDashboardService(repo)), repo
}

func seedWorkerData(t *testing.T, repo *storage.SQLiteRepository) {
	t.Helper()
	ctx := context.Background()

	if err := repo.UpsertInstitution(ctx, core.Institution{ID: "inst-1", Name: "Bank"}); err != nil {
		t.Fatalf("upsert institution: %v", err)
	}
	err := repo.UpsertAccount(ctx, core.Account{
		ID:            "acc-1",
		InstitutionID: "inst-1",
		Name:          "Checking",
		Type:          core.AccountChecking,
		Balance:       core.Money{Cents: 250000},
	})
	if err != nil {
		t.Fatalf("upsert account: %v", err)
	}
}

func TestHandleRefreshMessage_AllScopes(t *testing.T) {
	w, repo := testWorker(t)
	seedWorkerData(t, repo)
	ctx := context.Background()

	msg := amqp.NewRefreshMessage("", amqp.ReasonMutation)
	if err := w.HandleRefreshMessage(ctx, msg); err != nil {
		t.Fatalf("handle refresh message: %v", err)
	}

	// Both the all-accounts scope and inst-1 get a snapshot
	global, err := repo.LatestSnapshot(ctx, "")
	if err != nil {
		t.Fatalf("latest global snapshot: %v", err)
	}
	scoped, err := repo.LatestSnapshot(ctx, "inst-1")
	if err != nil {
		t.Fatalf("latest scoped snapshot: %v", err)
	}

	var dashboard services.Dashboard
	if err := json.Unmarshal([]byte(global.Payload), &dashboard); err != nil {
		t.Fatalf("unmarshal snapshot payload: %v", err)
	}
	if dashboard.Clarity.Score != global.ClarityScore {
		t.Errorf("payload score %d does not match snapshot column %d", dashboard.Clarity.Score, global.ClarityScore)
	}
	if scoped.InstitutionID != "inst-1" {
		t.Errorf("unexpected scoped snapshot: %+v", scoped)
	}
}

func TestHandleRefreshMessage_SingleScope(t *testing.T) {
	w, repo := testWorker(t)
	seedWorkerData(t, repo)
	ctx := context.Background()

	msg := amqp.NewRefreshMessage("inst-1", amqp.ReasonPeriodic)
	if err := w.HandleRefreshMessage(ctx, msg); err != nil {
		t.Fatalf("handle refresh message: %v", err)
	}

	if _, err := repo.LatestSnapshot(ctx, "inst-1"); err != nil {
		t.Fatalf("latest scoped snapshot: %v", err)
	}
	// The all-accounts scope was not requested
	if _, err := repo.LatestSnapshot(ctx, ""); err == nil {
		t.Fatal("expected no global snapshot for single-scope refresh")
	}
}

func TestRefreshAll_EmptyDatabase(t *testing.T) {
	w, repo := testWorker(t)
	ctx := context.Background()

	if err := w.RefreshAll(ctx); err != nil {
		t.Fatalf("refresh all on empty database: %v", err)
	}
	snap, err := repo.LatestSnapshot(ctx, "")
	if err != nil {
		t.Fatalf("latest snapshot: %v", err)
	}
	if snap.CashScore == 0 {
		// Empty data still yields the neutral baseline score
		t.Errorf("expected baseline cash score, got %d", snap.CashScore)
	}
}
