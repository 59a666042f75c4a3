package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/halfstats/ingestor/internal/domain/syncindex"
	qb "github.com/halfstats/ingestor/internal/platform/querybuilder"
)

// SyncIndexRepository persists the ingestion ledger. (league, event_id)
// is unique, so replaying the at-least-once window cannot produce a
// second ledger entry.
type SyncIndexRepository struct {
	db *sqlx.DB
}

func NewSyncIndexRepository(db *sqlx.DB) *SyncIndexRepository {
	return &SyncIndexRepository{db: db}
}

type syncIndexInsertModel struct {
	League   string `db:"league"`
	EventID  int64  `db:"event_id"`
	Round    int    `db:"round"`
	RowStart int    `db:"row_start"`
}

func (r *SyncIndexRepository) LoadEventIDs(ctx context.Context, league string) (map[int64]struct{}, error) {
	query, args, err := qb.Select("event_id").
		From("sync_index").
		Where(qb.Eq("league", league)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select sync index query: %w", err)
	}

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("select sync index league=%s: %w", league, err)
	}

	out := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}

func (r *SyncIndexRepository) Record(ctx context.Context, entry syncindex.Entry) error {
	query, args, err := qb.InsertModel("sync_index", syncIndexInsertModel{
		League:   entry.League,
		EventID:  entry.EventID,
		Round:    entry.Round,
		RowStart: entry.RowStart,
	}, "ON CONFLICT (league, event_id) DO NOTHING")
	if err != nil {
		return fmt.Errorf("build insert sync index query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert sync index league=%s event=%d: %w", entry.League, entry.EventID, err)
	}
	return nil
}

func (r *SyncIndexRepository) Reset(ctx context.Context, league string) error {
	query, args, err := qb.DeleteFrom("sync_index").Where(qb.Eq("league", league)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete sync index query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete sync index league=%s: %w", league, err)
	}
	return nil
}
