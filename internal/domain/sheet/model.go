package sheet

// Header is the canonical output schema. Column names are compared
// verbatim on every run so drift in the stored header can be detected
// and corrected.
var Header = []string{
	"Team", "Season", "League", "Date", "Opponent", "Half",
	"Goals_For", "Goals_Against",
	"xG_For", "xG_Against",
	"Possession_For%", "Possession_Against%",
	"BigChances_For", "BigChances_Against",
	"Shots_For", "Shots_Against",
	"ShotsOT_For", "ShotsOT_Against",
	"Corners_For", "Corners_Against",
	"Saves_For", "Saves_Against",
	"YellowCards_For", "YellowCards_Against",
	"RedCards_For", "RedCards_Against",
	"BTTS", "Kickoff", "Stadium", "GoalEvents_For", "GoalEvents_Against",
}

const (
	RowKindData    = "data"
	RowKindSection = "section"
)

// Row is one appended sheet line. Position is the per-league line
// number; the sync index records the first position of each match.
type Row struct {
	League   string
	Position int
	Kind     string
	Cells    []string
}

// SectionRow builds a round title line padded to the header width.
func SectionRow(league, title string) Row {
	cells := make([]string, len(Header))
	cells[0] = title
	return Row{League: league, Kind: RowKindSection, Cells: cells}
}

// DataRow builds a match data line.
func DataRow(league string, cells []string) Row {
	return Row{League: league, Kind: RowKindData, Cells: cells}
}
