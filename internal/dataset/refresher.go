package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/jsineriz-commits/decampoacampo-dashboard/internal/core"
	"github.com/jsineriz-commits/decampoacampo-dashboard/internal/ingest"
	"github.com/jsineriz-commits/decampoacampo-dashboard/internal/source"
	"github.com/jsineriz-commits/decampoacampo-dashboard/internal/storage"
)

// Refresher pulls both CSVs from the configured source, decodes them and
// swaps the store's snapshot. When a snapshot store is attached, raw bodies
// are persisted so a later start can serve data without reaching the sheet.
type Refresher struct {
	src       source.Source
	store     *Store
	snapshots *storage.SnapshotStore
	schema    ingest.Schema
}

func NewRefresher(src source.Source, store *Store, snapshots *storage.SnapshotStore, schema ingest.Schema) *Refresher {
	return &Refresher{
		src:       src,
		store:     store,
		snapshots: snapshots,
		schema:    schema,
	}
}

// Refresh fetches both sheets concurrently and installs the decoded dataset.
// A transactions fetch failure aborts the refresh; a mileage failure only
// degrades the dataset to transactions without vehicle data.
func (r *Refresher) Refresh(ctx context.Context) (Snapshot, error) {
	var txBody, kmBody string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		body, err := r.src.FetchTransactions(gctx)
		if err != nil {
			return fmt.Errorf("fetch transactions: %w", err)
		}
		txBody = body
		return nil
	})
	g.Go(func() error {
		body, err := r.src.FetchMileage(gctx)
		if err != nil {
			slog.WarnContext(gctx, "Mileage fetch failed, continuing without vehicle data", "error", err)
			return nil
		}
		kmBody = body
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	snap := r.install(ctx, txBody, kmBody)

	if r.snapshots != nil {
		if err := r.snapshots.Save(ctx, storage.KindTransactions, txBody); err != nil {
			slog.WarnContext(ctx, "Failed to persist transactions snapshot", "error", err)
		}
		if kmBody != "" {
			if err := r.snapshots.Save(ctx, storage.KindMileage, kmBody); err != nil {
				slog.WarnContext(ctx, "Failed to persist mileage snapshot", "error", err)
			}
		}
	}

	return snap, nil
}

// LoadFromStorage installs the last persisted dataset, if any. Used at
// startup so the dashboard can answer before the first live fetch lands.
func (r *Refresher) LoadFromStorage(ctx context.Context) (Snapshot, error) {
	if r.snapshots == nil {
		return Snapshot{}, storage.ErrNoSnapshot
	}

	txBody, fetchedAt, err := r.snapshots.LoadLatest(ctx, storage.KindTransactions)
	if err != nil {
		return Snapshot{}, err
	}

	kmBody, _, err := r.snapshots.LoadLatest(ctx, storage.KindMileage)
	if err != nil && !errors.Is(err, storage.ErrNoSnapshot) {
		return Snapshot{}, err
	}

	snap := r.install(ctx, txBody, kmBody)
	slog.InfoContext(ctx, "Dataset restored from storage",
		"version", snap.Version,
		"fetched_at", fetchedAt,
		"transactions", len(snap.Transactions))
	return snap, nil
}

func (r *Refresher) install(ctx context.Context, txBody, kmBody string) Snapshot {
	txs := ingest.Decode(txBody, r.schema)

	var mileage []core.MileageRecord
	if kmBody != "" {
		mileage = ingest.DecodeMileage(kmBody)
	}

	snap := r.store.Replace(txs, mileage)
	slog.InfoContext(ctx, "Dataset replaced",
		"version", snap.Version,
		"transactions", len(snap.Transactions),
		"mileage_records", len(snap.Mileage))
	return snap
}
