package services

import (
	"context"
	"fmt"
	"log/slog"

	"clarity/internal/amqp"
	"clarity/internal/core"
	"clarity/internal/storage"
)

// LedgerService orchestrates data mutations across SQLite and AMQP.
// Every successful mutation publishes a refresh message so the worker
// recomputes persisted scores; publish failures never fail the write.
type LedgerService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewLedgerService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *LedgerService {
	return &LedgerService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

func (s *LedgerService) CreateTransaction(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("validate transaction: %w", err)
	}
	if _, err := s.storage.GetAccount(ctx, t.AccountID); err != nil {
		return fmt.Errorf("transaction account: %w", err)
	}
	if err := s.storage.CreateTransaction(ctx, t); err != nil {
		return err
	}
	s.publishRefresh(ctx)
	return nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.storage.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.publishRefresh(ctx)
	return nil
}

func (s *LedgerService) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return s.storage.ListTransactions(ctx)
}

func (s *LedgerService) UpsertInstitution(ctx context.Context, inst core.Institution) error {
	if err := inst.Validate(); err != nil {
		return fmt.Errorf("validate institution: %w", err)
	}
	if err := s.storage.UpsertInstitution(ctx, inst); err != nil {
		return err
	}
	s.publishRefresh(ctx)
	return nil
}

func (s *LedgerService) ListInstitutions(ctx context.Context) ([]core.Institution, error) {
	return s.storage.ListInstitutions(ctx)
}

func (s *LedgerService) UpsertAccount(ctx context.Context, a core.Account) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("validate account: %w", err)
	}
	if err := s.storage.UpsertAccount(ctx, a); err != nil {
		return err
	}
	s.publishRefresh(ctx)
	return nil
}

func (s *LedgerService) DeleteAccount(ctx context.Context, id string) error {
	if err := s.storage.DeleteAccount(ctx, id); err != nil {
		return err
	}
	s.publishRefresh(ctx)
	return nil
}

func (s *LedgerService) ListAccounts(ctx context.Context) ([]core.Account, error) {
	return s.storage.ListAccounts(ctx)
}

func (s *LedgerService) UpsertSubscription(ctx context.Context, sub core.Subscription) error {
	if err := sub.Validate(); err != nil {
		return fmt.Errorf("validate subscription: %w", err)
	}
	if _, err := s.storage.GetAccount(ctx, sub.AccountID); err != nil {
		return fmt.Errorf("subscription account: %w", err)
	}
	if err := s.storage.UpsertSubscription(ctx, sub); err != nil {
		return err
	}
	s.publishRefresh(ctx)
	return nil
}

func (s *LedgerService) DeleteSubscription(ctx context.Context, id string) error {
	if err := s.storage.DeleteSubscription(ctx, id); err != nil {
		return err
	}
	s.publishRefresh(ctx)
	return nil
}

func (s *LedgerService) ListSubscriptions(ctx context.Context) ([]core.Subscription, error) {
	return s.storage.ListSubscriptions(ctx)
}

func (s *LedgerService) UpsertDebt(ctx context.Context, d core.Debt) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("validate debt: %w", err)
	}
	return s.storage.UpsertDebt(ctx, d)
}

func (s *LedgerService) DeleteDebt(ctx context.Context, id string) error {
	return s.storage.DeleteDebt(ctx, id)
}

func (s *LedgerService) ListDebts(ctx context.Context) ([]core.Debt, error) {
	return s.storage.ListDebts(ctx)
}

// publishRefresh asks the worker to recompute every scope. Debt
// mutations skip it since debts do not feed the scores.
func (s *LedgerService) publishRefresh(ctx context.Context) {
	if s.amqpClient == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping refresh message")
		return
	}
	if err := s.amqpClient.PublishRefresh(ctx, "", amqp.ReasonMutation); err != nil {
		slog.ErrorContext(ctx, "Failed to publish refresh message", "error", err)
	}
}

// Close closes both storage and AMQP connections
func (s *LedgerService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}
	return nil
}
