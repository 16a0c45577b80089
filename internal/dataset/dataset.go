// Package dataset holds the in-memory record collections the aggregation
// engine reads. A refresh replaces the whole snapshot atomically: readers
// never observe a mix of old and new data.
package dataset

import (
	"sync"
	"time"

	"github.com/jsineriz-commits/decampoacampo-dashboard/internal/core"
)

// Snapshot is one immutable generation of decoded records. The slices must
// not be mutated after the snapshot is published.
type Snapshot struct {
	Transactions []core.Transaction
	Mileage      []core.MileageRecord
	Version      int64
	FetchedAt    time.Time
}

// Empty reports whether the snapshot carries no records at all.
func (s Snapshot) Empty() bool {
	return len(s.Transactions) == 0 && len(s.Mileage) == 0
}

// Store is the single swap point between ingestion and the read path.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot
}

func NewStore() *Store {
	return &Store{}
}

// Replace publishes a new snapshot and returns it. The version increases
// monotonically so response caches can key on it.
func (s *Store) Replace(txs []core.Transaction, mileage []core.MileageRecord) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = Snapshot{
		Transactions: txs,
		Mileage:      mileage,
		Version:      s.snap.Version + 1,
		FetchedAt:    time.Now(),
	}
	return s.snap
}

// Snapshot returns the current generation.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}
