package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"clarity/internal/amqp"
	"clarity/internal/core"
	"clarity/internal/sheets"
	"clarity/internal/storage"
)

// ImportedInstitutionID owns accounts that appear in a sheet but not in the
// ledger yet. They can be reassigned later through the accounts API.
const ImportedInstitutionID = "imported"

// ImportStats summarizes a single import run.
type ImportStats struct {
	Read            int
	Imported        int
	Duplicates      int
	Failed          int
	CreatedAccounts int
}

// ImportService pulls transactions from an external sheet into the ledger.
// Rows whose ID already exists are skipped, so re-running an import against
// the same sheet is safe.
type ImportService struct {
	storage    *storage.SQLiteRepository
	source     sheets.TransactionSource
	amqpClient *amqp.Client
}

func NewImportService(storage *storage.SQLiteRepository, source sheets.TransactionSource, amqpClient *amqp.Client) *ImportService {
	return &ImportService{
		storage:    storage,
		source:     source,
		amqpClient: amqpClient,
	}
}

// Run reads every row from the source and stores the new ones. A refresh
// message is published when at least one transaction was imported.
func (s *ImportService) Run(ctx context.Context) (ImportStats, error) {
	var stats ImportStats

	txns, err := s.source.ReadTransactions(ctx)
	if err != nil {
		return stats, fmt.Errorf("read transactions: %w", err)
	}
	stats.Read = len(txns)

	for _, txn := range txns {
		switch _, err := s.storage.GetTransaction(ctx, txn.ID); {
		case err == nil:
			stats.Duplicates++
			continue
		case !errors.Is(err, storage.ErrNotFound):
			return stats, fmt.Errorf("lookup transaction %s: %w", txn.ID, err)
		}

		created, err := s.ensureAccount(ctx, txn.AccountID)
		if err != nil {
			slog.WarnContext(ctx, "Skipping row, account could not be prepared",
				"transaction_id", txn.ID, "account_id", txn.AccountID, "error", err)
			stats.Failed++
			continue
		}
		if created {
			stats.CreatedAccounts++
		}

		if err := s.storage.CreateTransaction(ctx, txn); err != nil {
			slog.WarnContext(ctx, "Skipping row, insert failed",
				"transaction_id", txn.ID, "error", err)
			stats.Failed++
			continue
		}
		stats.Imported++
	}

	if stats.Imported > 0 {
		s.publishImportRefresh(ctx)
	}

	return stats, nil
}

// ensureAccount creates a placeholder checking account under the imported
// institution when the sheet references an account the ledger does not know.
func (s *ImportService) ensureAccount(ctx context.Context, accountID string) (bool, error) {
	_, err := s.storage.GetAccount(ctx, accountID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return false, fmt.Errorf("lookup account: %w", err)
	}

	inst := core.Institution{ID: ImportedInstitutionID, Name: "Imported"}
	if err := s.storage.UpsertInstitution(ctx, inst); err != nil {
		return false, fmt.Errorf("upsert institution: %w", err)
	}

	account := core.Account{
		ID:            accountID,
		InstitutionID: ImportedInstitutionID,
		Name:          accountID,
		Type:          core.AccountChecking,
	}
	if err := s.storage.UpsertAccount(ctx, account); err != nil {
		return false, fmt.Errorf("upsert account: %w", err)
	}
	return true, nil
}

func (s *ImportService) publishImportRefresh(ctx context.Context) {
	if s.amqpClient == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping refresh message")
		return
	}
	if err := s.amqpClient.PublishRefresh(ctx, "", amqp.ReasonImport); err != nil {
		slog.ErrorContext(ctx, "Failed to publish refresh message", "error", err)
	}
}
