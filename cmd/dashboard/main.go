package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jsineriz-commits/decampoacampo-dashboard/internal/amqp"
	"github.com/jsineriz-commits/decampoacampo-dashboard/internal/config"
	"github.com/jsineriz-commits/decampoacampo-dashboard/internal/dataset"
	apphttp "github.com/jsineriz-commits/decampoacampo-dashboard/internal/http"
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

	logger.Info("Starting dashboard server")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	schema, err := ingest.SchemaByName(cfg.Schema)
	if err != nil {
		logger.Error("Failed to resolve sheet schema", "error", err)
		os.Exit(1)
	}
	schema = schema.WithUserColumn(cfg.UserColumn)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src, err := source.New(ctx, sourceConfig(cfg))
	if err != nil {
		logger.Error("Failed to initialize data source", "error", err, "source", cfg.DataSource)
		os.Exit(1)
	}

	// Snapshot persistence is optional; without it the first fetch is blocking.
	var snapshots *storage.SnapshotStore
	if cfg.SQLiteDBPath != "" {
		snapshots, err = storage.NewSnapshotStore(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize snapshot store", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer snapshots.Close()
	}

	store := dataset.NewStore()
	refresher := dataset.NewRefresher(src, store, snapshots, schema)

	// Serve the last persisted dataset while the first live fetch runs.
	if snapshots != nil {
		if _, err := refresher.LoadFromStorage(ctx); err != nil && !errors.Is(err, storage.ErrNoSnapshot) {
			logger.Warn("Failed to restore dataset from storage", "error", err)
		}
	}

	fetchCtx, fetchCancel := context.WithTimeout(ctx, cfg.FetchTimeout)
	if _, err := refresher.Refresh(fetchCtx); err != nil {
		if store.Snapshot().Empty() {
			logger.Error("Initial dataset fetch failed with no stored fallback", "error", err)
			fetchCancel()
			os.Exit(1)
		}
		logger.Warn("Initial dataset fetch failed, serving stored dataset", "error", err)
	}
	fetchCancel()

	// Periodic background refresh
	if cfg.RefreshInterval > 0 {
		go func() {
			ticker := time.NewTicker(cfg.RefreshInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					refreshCtx, refreshCancel := context.WithTimeout(ctx, cfg.FetchTimeout)
					if _, err := refresher.Refresh(refreshCtx); err != nil {
						logger.Error("Periodic refresh failed", "error", err)
					}
					refreshCancel()
				}
			}
		}()
	}

	// Optional AMQP consumer: reload from storage when a fetcher announces
	// a new snapshot.
	if cfg.AMQPURL != "" && snapshots != nil {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()

		go func() {
			err := amqpClient.ConsumeDatasetRefreshed(ctx, func(msg *amqp.DatasetRefreshedMessage) error {
				_, err := refresher.LoadFromStorage(ctx)
				return err
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Dataset refresh consumption failed", "error", err)
			}
		}()
	}

	srv := apphttp.NewServer(":"+cfg.Port, store, refresher, cfg.CacheTTL)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Dashboard listening", "port", cfg.Port, "source", cfg.DataSource, "schema", schema.Name)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

func sourceConfig(cfg *config.Config) source.Config {
	return source.Config{
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
	}
}
