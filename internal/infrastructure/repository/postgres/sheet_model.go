package postgres

import (
	"github.com/lib/pq"

	"github.com/halfstats/ingestor/internal/domain/sheet"
)

type sheetRowModel struct {
	League   string         `db:"league"`
	Position int            `db:"position"`
	Kind     string         `db:"kind"`
	Cells    pq.StringArray `db:"cells"`
}

func (m sheetRowModel) toDomain() sheet.Row {
	return sheet.Row{
		League:   m.League,
		Position: m.Position,
		Kind:     m.Kind,
		Cells:    append([]string(nil), m.Cells...),
	}
}

type sheetRowInsertModel struct {
	League   string         `db:"league"`
	Position int            `db:"position"`
	Kind     string         `db:"kind"`
	Cells    pq.StringArray `db:"cells"`
}

type sheetHeaderModel struct {
	League  string         `db:"league"`
	Columns pq.StringArray `db:"columns"`
}
