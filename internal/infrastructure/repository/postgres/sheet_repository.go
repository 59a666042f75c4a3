package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/halfstats/ingestor/internal/domain/sheet"
	qb "github.com/halfstats/ingestor/internal/platform/querybuilder"
)

// SheetRepository persists output lines and per-league headers. It
// assumes the single-writer model: one ingestion process appends at a
// time, so positions are assigned from MAX(position) inside the append
// transaction.
type SheetRepository struct {
	db *sqlx.DB
}

func NewSheetRepository(db *sqlx.DB) *SheetRepository {
	return &SheetRepository{db: db}
}

func (r *SheetRepository) EnsureHeader(ctx context.Context, league string) (bool, error) {
	query, args, err := qb.Select("league", "columns").
		From("sheet_headers").
		Where(qb.Eq("league", league)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build select header query: %w", err)
	}

	var current sheetHeaderModel
	err = r.db.GetContext(ctx, &current, query, args...)
	if err != nil && !isNotFound(err) {
		return false, fmt.Errorf("select header league=%s: %w", league, err)
	}

	if err == nil && equalColumns(current.Columns, sheet.Header) {
		return false, nil
	}
	drifted := err == nil

	upsert, upsertArgs, err := qb.InsertModel("sheet_headers", sheetHeaderModel{
		League:  league,
		Columns: pq.StringArray(sheet.Header),
	}, `ON CONFLICT (league)
DO UPDATE SET
    columns = EXCLUDED.columns,
    updated_at = NOW()`)
	if err != nil {
		return false, fmt.Errorf("build upsert header query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, upsert, upsertArgs...); err != nil {
		return false, fmt.Errorf("upsert header league=%s: %w", league, err)
	}
	return drifted, nil
}

func (r *SheetRepository) HasSection(ctx context.Context, league, title string) (bool, error) {
	query, args, err := qb.Select("position").
		From("sheet_rows").
		Where(qb.Eq("league", league), qb.Eq("kind", sheet.RowKindSection), qb.Eq("cells[1]", title)).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build select section query: %w", err)
	}

	var position int
	err = r.db.GetContext(ctx, &position, query, args...)
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("select section league=%s title=%s: %w", league, title, err)
	}
	return true, nil
}

func (r *SheetRepository) AppendRows(ctx context.Context, rows []sheet.Row) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx append rows: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	league := rows[0].League
	var last int
	if err := tx.GetContext(ctx, &last,
		"SELECT COALESCE(MAX(position), 0) FROM sheet_rows WHERE league = $1", league); err != nil {
		return 0, fmt.Errorf("select last position league=%s: %w", league, err)
	}
	start := last + 1

	for i, row := range rows {
		query, args, err := qb.InsertModel("sheet_rows", sheetRowInsertModel{
			League:   row.League,
			Position: start + i,
			Kind:     row.Kind,
			Cells:    pq.StringArray(row.Cells),
		}, "")
		if err != nil {
			return 0, fmt.Errorf("build insert row query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("insert row league=%s position=%d: %w", row.League, start+i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit append rows tx: %w", err)
	}
	return start, nil
}

func (r *SheetRepository) ListRows(ctx context.Context, league string) ([]sheet.Row, error) {
	query, args, err := qb.Select("league", "position", "kind", "cells").
		From("sheet_rows").
		Where(qb.Eq("league", league)).
		OrderBy("position ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select rows query: %w", err)
	}

	var models []sheetRowModel
	if err := r.db.SelectContext(ctx, &models, query, args...); err != nil {
		return nil, fmt.Errorf("select rows league=%s: %w", league, err)
	}

	out := make([]sheet.Row, 0, len(models))
	for _, model := range models {
		out = append(out, model.toDomain())
	}
	return out, nil
}

func (r *SheetRepository) Reset(ctx context.Context, league string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx reset sheet: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, table := range []string{"sheet_rows", "sheet_headers"} {
		query, args, err := qb.DeleteFrom(table).Where(qb.Eq("league", league)).ToSQL()
		if err != nil {
			return fmt.Errorf("build delete %s query: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete %s league=%s: %w", table, league, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset sheet tx: %w", err)
	}
	return nil
}

func equalColumns(a pq.StringArray, b []string) bool {
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
