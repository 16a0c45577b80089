// fetch-sheet is a one-shot fetcher: it pulls both CSVs, persists them to
// the snapshot store and announces the new dataset over AMQP. Run it from
// cron when the dashboard itself should not talk to Google.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/jsineriz-commits/decampoacampo-dashboard/internal/amqp"
	"github.com/jsineriz-commits/decampoacampo-dashboard/internal/config"
	"github.com/jsineriz-commits/decampoacampo-dashboard/internal/dataset"
	"github.com/jsineriz-commits/decampoacampo-dashboard/internal/ingest"
	"github.com/jsineriz-commits/decampoacampo-dashboard/internal/source"
	"github.com/jsineriz-commits/decampoacampo-dashboard/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting sheet fetch")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.SQLiteDBPath == "" {
		logger.Error("SQLITE_DB_PATH is required: the fetcher has nowhere to store snapshots")
		os.Exit(1)
	}

	schema, err := ingest.SchemaByName(cfg.Schema)
	if err != nil {
		logger.Error("Failed to resolve sheet schema", "error", err)
		os.Exit(1)
	}
	schema = schema.WithUserColumn(cfg.UserColumn)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout)
	defer cancel()

	src, err := source.New(ctx, source.Config{
		Kind:              source.Kind(cfg.DataSource),
		TransactionsURL:   cfg.SheetExportURL,
		MileageURL:        cfg.MileageExportURL,
		FetchTimeout:      cfg.FetchTimeout,
		GoogleAPIKey:      cfg.GoogleAPIKey,
		SpreadsheetID:     cfg.SpreadsheetID,
		TransactionsRange: cfg.TransactionsRange,
		MileageRange:      cfg.MileageRange,
		TransactionsFile:  cfg.TransactionsFile,
		MileageFile:       cfg.MileageFile,
	})
	if err != nil {
		logger.Error("Failed to initialize data source", "error", err, "source", cfg.DataSource)
		os.Exit(1)
	}

	snapshots, err := storage.NewSnapshotStore(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize snapshot store", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer snapshots.Close()

	refresher := dataset.NewRefresher(src, dataset.NewStore(), snapshots, schema)

	snap, err := refresher.Refresh(ctx)
	if err != nil {
		logger.Error("Fetch failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Snapshot stored",
		"transactions", len(snap.Transactions),
		"mileage_records", len(snap.Mileage))

	// Announce the refresh so a running dashboard reloads from storage.
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()

		if err := amqpClient.PublishDatasetRefreshed(ctx, snap.Version, snap.FetchedAt); err != nil {
			logger.Error("Failed to publish refresh message", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("Sheet fetch completed")
}
