package competition

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Competition identifies one supported league at the upstream provider.
type Competition struct {
	Name         string
	TournamentID int64
	SeasonID     int64
}

// southAmericanTokens mark competitions whose seasons run inside one
// calendar year, so their season label is "2025" instead of "2025/26".
var southAmericanTokens = []string{
	"brasileir",
	"libertadores",
	"sudamericana",
	"sul-americana",
	"liga profesional",
}

// Registry is the fixed set of competitions the ingestor knows about.
type Registry struct {
	byName map[string]Competition
}

func NewRegistry(items []Competition) *Registry {
	byName := make(map[string]Competition, len(items))
	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" || item.TournamentID <= 0 || item.SeasonID <= 0 {
			continue
		}
		item.Name = name
		byName[name] = item
	}
	return &Registry{byName: byName}
}

func (r *Registry) Get(name string) (Competition, bool) {
	if r == nil {
		return Competition{}, false
	}
	item, ok := r.byName[strings.TrimSpace(name)]
	return item, ok
}

func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.byName))
	for name := range r.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// SeasonLabel renders the season tag written into every output row.
// South-American-style competitions use the single start year.
func SeasonLabel(league string, startYear int) string {
	lower := strings.ToLower(strings.TrimSpace(league))
	for _, token := range southAmericanTokens {
		if strings.Contains(lower, token) {
			return strconv.Itoa(startYear)
		}
	}
	return fmt.Sprintf("%d/%02d", startYear, (startYear+1)%100)
}

// DefaultRegistry returns the hand-curated competition set for the
// current season.
func DefaultRegistry() *Registry {
	return NewRegistry([]Competition{
		{Name: "La Liga", TournamentID: 8, SeasonID: 77559},
		{Name: "Premier League", TournamentID: 17, SeasonID: 76986},
		{Name: "Bundesliga", TournamentID: 35, SeasonID: 77333},
		{Name: "Champions League", TournamentID: 7, SeasonID: 76953},
		{Name: "Serie A", TournamentID: 23, SeasonID: 76457},
		{Name: "Brasileirão", TournamentID: 325, SeasonID: 72034},
		{Name: "Ligue 1", TournamentID: 34, SeasonID: 77356},
		{Name: "Eredivisie", TournamentID: 37, SeasonID: 77012},
		{Name: "Liga Portugal", TournamentID: 238, SeasonID: 77806},
		{Name: "Liga Profesional", TournamentID: 18817, SeasonID: 71738},
		{Name: "Süper Lig", TournamentID: 52, SeasonID: 77805},
		{Name: "MLS", TournamentID: 242, SeasonID: 70158},
		{Name: "Europa League", TournamentID: 679, SeasonID: 76984},
		{Name: "Sul-Americana", TournamentID: 480, SeasonID: 70070},
	})
}

// DefaultSeasonStartYear anchors season labels; the registry above maps
// to the 2025/26 European season.
const DefaultSeasonStartYear = 2025
