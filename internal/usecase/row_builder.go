package usecase

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/halfstats/ingestor/internal/domain/match"
	"github.com/halfstats/ingestor/internal/domain/sheet"
	"github.com/halfstats/ingestor/internal/domain/stats"
)

const unknownCell = "-"

// RowBuilder composes the two per-half output lines for a match, home
// perspective only. Kickoff times render in the configured location.
type RowBuilder struct {
	location *time.Location
}

func NewRowBuilder(location *time.Location) *RowBuilder {
	if location == nil {
		location = time.Local
	}
	return &RowBuilder{location: location}
}

// BuildRows returns the first-half and second-half lines for the event,
// in that order.
func (b *RowBuilder) BuildRows(league, season string, event match.Event, normalized stats.Normalized, goals GoalSummary) []sheet.Row {
	date := event.Kickoff.In(b.location).Format("02/01/2006")
	kickoff := event.Kickoff.In(b.location).Format("15:04")
	btts := bothTeamsScored(event)

	first := b.halfCells(league, season, event, date, kickoff, btts,
		match.HalfFirst, normalized.First, goals.Home.First, goals.Away.First)
	second := b.halfCells(league, season, event, date, kickoff, btts,
		match.HalfSecond, normalized.Second, goals.Home.Second, goals.Away.Second)

	return []sheet.Row{
		sheet.DataRow(league, first),
		sheet.DataRow(league, second),
	}
}

func (b *RowBuilder) halfCells(league, season string, event match.Event, date, kickoff, btts string,
	half match.Half, split stats.HalfSplit, goalsFor, goalsAgainst GoalHalf) []string {

	forStats, againstStats := split.Home, split.Away

	return []string{
		event.HomeTeam, season, league, date, event.AwayTeam, string(half),
		strconv.Itoa(goalsFor.Count), strconv.Itoa(goalsAgainst.Count),
		formatXG(forStats.Get(stats.KeyXG)), formatXG(againstStats.Get(stats.KeyXG)),
		formatPercent(forStats.Get(stats.KeyPossession)), formatPercent(againstStats.Get(stats.KeyPossession)),
		formatCount(forStats.Get(stats.KeyBigChances)), formatCount(againstStats.Get(stats.KeyBigChances)),
		formatCount(forStats.Get(stats.KeyShotsTotal)), formatCount(againstStats.Get(stats.KeyShotsTotal)),
		formatCount(forStats.Get(stats.KeyShotsOnTarget)), formatCount(againstStats.Get(stats.KeyShotsOnTarget)),
		formatCount(forStats.Get(stats.KeyCorners)), formatCount(againstStats.Get(stats.KeyCorners)),
		formatCount(forStats.Get(stats.KeySaves)), formatCount(againstStats.Get(stats.KeySaves)),
		formatCards(forStats.Get(stats.KeyYellowCards)), formatCards(againstStats.Get(stats.KeyYellowCards)),
		formatCards(forStats.Get(stats.KeyRedCards)), formatCards(againstStats.Get(stats.KeyRedCards)),
		btts, kickoff, event.Venue, goalsFor.Events, goalsAgainst.Events,
	}
}

// bothTeamsScored derives BTTS from the final score; an undefined score
// on either side reads as "no".
func bothTeamsScored(event match.Event) string {
	if event.HomeScore != nil && event.AwayScore != nil && *event.HomeScore > 0 && *event.AwayScore > 0 {
		return "yes"
	}
	return "no"
}

func formatCount(v stats.Value) string {
	n, ok := v.Float()
	if !ok {
		return unknownCell
	}
	return strconv.Itoa(int(n))
}

// formatCards renders card counts with an absent value meaning zero
// cards, not unknown data.
func formatCards(v stats.Value) string {
	n, ok := v.Float()
	if !ok {
		return "0"
	}
	return strconv.Itoa(int(n))
}

func formatXG(v stats.Value) string {
	n, ok := v.Float()
	if !ok {
		return unknownCell
	}
	return fmt.Sprintf("%.2f", math.Round(n*100)/100)
}

func formatPercent(v stats.Value) string {
	n, ok := v.Float()
	if !ok {
		return unknownCell
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
