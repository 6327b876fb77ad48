package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"clarity/internal/amqp"
	"clarity/internal/scoring"
	"clarity/internal/services"
	"clarity/internal/storage"
)

// RefreshWorker recomputes scores and persists them as snapshots. It
// serves both AMQP refresh messages and the periodic timer.
type RefreshWorker struct {
	storage    *storage.SQLiteRepository
	dashboards *services.DashboardService
}

func NewRefreshWorker(storage *storage.SQLiteRepository, dashboards *services.DashboardService) *RefreshWorker {
	return &RefreshWorker{
		storage:    storage,
		dashboards: dashboards,
	}
}

// HandleRefreshMessage processes a single refresh message from AMQP.
// An empty institution id in the message refreshes every scope.
func (w *RefreshWorker) HandleRefreshMessage(ctx context.Context, msg *amqp.RefreshMessage) error {
	slog.InfoContext(ctx, "Processing refresh message",
		"institution_id", msg.InstitutionID,
		"reason", msg.Reason)

	if msg.InstitutionID != "" {
		return w.RefreshScope(ctx, msg.InstitutionID)
	}
	return w.RefreshAll(ctx)
}

// RefreshAll recomputes the all-accounts scope and every institution
// scope. The first failure aborts the run so the message is requeued.
func (w *RefreshWorker) RefreshAll(ctx context.Context) error {
	if err := w.RefreshScope(ctx, ""); err != nil {
		return err
	}

	institutions, err := w.storage.ListInstitutions(ctx)
	if err != nil {
		return fmt.Errorf("list institutions: %w", err)
	}
	for _, inst := range institutions {
		if err := w.RefreshScope(ctx, inst.ID); err != nil {
			return err
		}
	}
	return nil
}

// RefreshScope rebuilds the dashboard for one scope and stores it as a
// snapshot.
func (w *RefreshWorker) RefreshScope(ctx context.Context, institutionID string) error {
	dashboard, err := w.dashboards.Build(ctx, institutionID, scoring.PeriodThisMonth, time.Now())
	if err != nil {
		return fmt.Errorf("build dashboard for scope %q: %w", institutionID, err)
	}

	payload, err := json.Marshal(dashboard)
	if err != nil {
		return fmt.Errorf("marshal dashboard: %w", err)
	}

	id, err := w.storage.SaveSnapshot(ctx, storage.Snapshot{
		InstitutionID: institutionID,
		ClarityScore:  dashboard.Clarity.Score,
		CashScore:     dashboard.CashControl.Score,
		Payload:       string(payload),
	})
	if err != nil {
		return fmt.Errorf("save snapshot for scope %q: %w", institutionID, err)
	}

	slog.InfoContext(ctx, "Saved score snapshot",
		"snapshot_id", id,
		"institution_id", institutionID,
		"clarity_score", dashboard.Clarity.Score,
		"cash_score", dashboard.CashControl.Score)

	return nil
}

// RunPeriodic refreshes all scopes on a fixed interval until the
// context is done. One run happens immediately on start. Failed runs
// are logged and retried on the next tick.
func (w *RefreshWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	if err := w.RefreshAll(ctx); err != nil {
		slog.ErrorContext(ctx, "Initial refresh failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping periodic refresh", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			if err := w.RefreshAll(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic refresh failed", "error", err)
			}
		}
	}
}
