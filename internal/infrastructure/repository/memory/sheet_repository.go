package memory

import (
	"context"
	"sync"

	"github.com/halfstats/ingestor/internal/domain/sheet"
)

// SheetRepository is the in-memory output sink used by tests and dry
// runs. Positions start at 1 per league, with the header occupying no
// position of its own.
type SheetRepository struct {
	mu             sync.RWMutex
	rowsByLeague   map[string][]sheet.Row
	headerByLeague map[string][]string
}

func NewSheetRepository() *SheetRepository {
	return &SheetRepository{
		rowsByLeague:   make(map[string][]sheet.Row),
		headerByLeague: make(map[string][]string),
	}
}

func (r *SheetRepository) EnsureHeader(_ context.Context, league string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.headerByLeague[league]
	if equalCells(current, sheet.Header) {
		return false, nil
	}
	r.headerByLeague[league] = append([]string(nil), sheet.Header...)
	return len(current) > 0, nil
}

func (r *SheetRepository) HasSection(_ context.Context, league, title string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, row := range r.rowsByLeague[league] {
		if row.Kind == sheet.RowKindSection && len(row.Cells) > 0 && row.Cells[0] == title {
			return true, nil
		}
	}
	return false, nil
}

func (r *SheetRepository) AppendRows(_ context.Context, rows []sheet.Row) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	league := rows[0].League
	start := len(r.rowsByLeague[league]) + 1
	for i, row := range rows {
		row.Position = start + i
		r.rowsByLeague[league] = append(r.rowsByLeague[league], row)
	}
	return start, nil
}

func (r *SheetRepository) ListRows(_ context.Context, league string) ([]sheet.Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.rowsByLeague[league]
	out := make([]sheet.Row, 0, len(items))
	out = append(out, items...)
	return out, nil
}

func (r *SheetRepository) Reset(_ context.Context, league string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.rowsByLeague, league)
	delete(r.headerByLeague, league)
	return nil
}

func equalCells(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
