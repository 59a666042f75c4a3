package querybuilder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectBuilder(t *testing.T) {
	t.Parallel()

	query, args, err := Select("league", "position", "cells").
		From("sheet_rows").
		Where(Eq("league", "Premier League")).
		OrderBy("position").
		ToSQL()
	require.NoError(t, err)
	require.Equal(t, "SELECT league, position, cells FROM sheet_rows WHERE league = $1 ORDER BY position", query)
	require.Equal(t, []any{"Premier League"}, args)
}

func TestInsertBuilderWithSuffix(t *testing.T) {
	t.Parallel()

	query, args, err := InsertInto("sync_index").
		Columns("league", "event_id").
		Values("La Liga", int64(42)).
		Suffix("ON CONFLICT (league, event_id) DO NOTHING").
		ToSQL()
	require.NoError(t, err)
	require.Equal(t, "INSERT INTO sync_index (league, event_id) VALUES ($1, $2) ON CONFLICT (league, event_id) DO NOTHING", query)
	require.Equal(t, []any{"La Liga", int64(42)}, args)
}

func TestInsertBuilderRejectsShortRow(t *testing.T) {
	t.Parallel()

	_, _, err := InsertInto("sync_index").
		Columns("league", "event_id").
		Values("La Liga").
		ToSQL()
	require.Error(t, err)
}

func TestDeleteBuilder(t *testing.T) {
	t.Parallel()

	query, args, err := DeleteFrom("sheet_rows").
		Where(Eq("league", "MLS")).
		ToSQL()
	require.NoError(t, err)
	require.Equal(t, "DELETE FROM sheet_rows WHERE league = $1", query)
	require.Equal(t, []any{"MLS"}, args)
}

func TestInsertModel(t *testing.T) {
	t.Parallel()

	type row struct {
		League  string `db:"league"`
		EventID int64  `db:"event_id"`
		skipped string
		NoTag   string
	}

	query, args, err := InsertModel("sync_index", row{League: "Serie A", EventID: 7}, "")
	require.NoError(t, err)
	require.Equal(t, "INSERT INTO sync_index (league, event_id) VALUES ($1, $2)", query)
	require.Equal(t, []any{"Serie A", int64(7)}, args)
}
