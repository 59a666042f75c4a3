package syncindex

import "context"

// Repository is the durable ledger preventing duplicate ingestion.
type Repository interface {
	// LoadEventIDs returns the set of event ids already ingested for
	// the league. Re-read at the start of every run; never cached
	// across runs.
	LoadEventIDs(ctx context.Context, league string) (map[int64]struct{}, error)

	// Record appends one entry after the match rows were written.
	Record(ctx context.Context, entry Entry) error

	// Reset drops every entry for the league.
	Reset(ctx context.Context, league string) error
}
