package sheet

import "context"

// Repository is the appendable, readable output sink. Implementations
// must hand out monotonically increasing positions per league.
type Repository interface {
	// EnsureHeader compares the stored header for the league against
	// the canonical one and rewrites it when they differ. It reports
	// whether a rewrite happened.
	EnsureHeader(ctx context.Context, league string) (bool, error)

	// HasSection reports whether the round title line was already
	// appended for the league.
	HasSection(ctx context.Context, league, title string) (bool, error)

	// AppendRows appends the given lines atomically and returns the
	// position of the first one.
	AppendRows(ctx context.Context, rows []Row) (int, error)

	// ListRows returns all lines for the league in position order.
	ListRows(ctx context.Context, league string) ([]Row, error)

	// Reset drops every line and the stored header for the league.
	Reset(ctx context.Context, league string) error
}
