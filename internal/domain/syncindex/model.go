package syncindex

// Entry marks one ingested match. Presence implies the match rows exist
// in the sheet; for a given league an event id appears at most once.
type Entry struct {
	League   string
	EventID  int64
	Round    int
	RowStart int
}
