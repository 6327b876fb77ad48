package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"

	"clarity/internal/amqp"
	"clarity/internal/config"
	applog "clarity/internal/log"
	"clarity/internal/services"
	gsheet "clarity/internal/sheets/google"
	"clarity/internal/storage"
)

// One-shot import of transactions from a Google spreadsheet into the ledger.
func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Component: applog.ComponentSheets,
	})
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if err := cfg.SheetsValidate(); err != nil {
		logger.Error("Sheets configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	source, err := gsheet.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
	}

	importer := services.NewImportService(repo, source, amqpClient)

	logger.Info("Starting sheets import",
		"spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)

	stats, err := importer.Run(ctx)
	if err != nil {
		logger.Error("Import failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Import finished",
		"read", stats.Read,
		"imported", stats.Imported,
		"duplicates", stats.Duplicates,
		"failed", stats.Failed,
		"created_accounts", stats.CreatedAccounts)
}
