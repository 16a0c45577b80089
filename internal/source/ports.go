// Package source abstracts where the raw CSV exports come from. Every
// implementation returns CSV text; decoding always happens in ingest so the
// column-mapping configuration applies no matter the transport.
package source

import "context"

// Source supplies the two raw exports. FetchMileage returns "" without an
// error when the deployment has no mileage sheet configured; the caller
// treats that as an empty dataset, not a failure.
type Source interface {
	FetchTransactions(ctx context.Context) (string, error)
	FetchMileage(ctx context.Context) (string, error)
}
