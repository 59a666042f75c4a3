package memory

import (
	"context"
	"sync"

	"github.com/halfstats/ingestor/internal/domain/syncindex"
)

// SyncIndexRepository is the in-memory ingestion ledger used by tests.
type SyncIndexRepository struct {
	mu              sync.RWMutex
	entriesByLeague map[string][]syncindex.Entry
}

func NewSyncIndexRepository() *SyncIndexRepository {
	return &SyncIndexRepository{entriesByLeague: make(map[string][]syncindex.Entry)}
}

func (r *SyncIndexRepository) LoadEventIDs(_ context.Context, league string) (map[int64]struct{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[int64]struct{}, len(r.entriesByLeague[league]))
	for _, entry := range r.entriesByLeague[league] {
		out[entry.EventID] = struct{}{}
	}
	return out, nil
}

func (r *SyncIndexRepository) Record(_ context.Context, entry syncindex.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-recording after a crashed run is allowed; the first entry wins.
	for _, existing := range r.entriesByLeague[entry.League] {
		if existing.EventID == entry.EventID {
			return nil
		}
	}
	r.entriesByLeague[entry.League] = append(r.entriesByLeague[entry.League], entry)
	return nil
}

func (r *SyncIndexRepository) Reset(_ context.Context, league string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entriesByLeague, league)
	return nil
}

// Entries returns the league's recorded entries in insertion order.
func (r *SyncIndexRepository) Entries(league string) []syncindex.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.entriesByLeague[league]
	out := make([]syncindex.Entry, 0, len(items))
	out = append(out, items...)
	return out
}
