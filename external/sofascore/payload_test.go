package sofascore

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/halfstats/ingestor/internal/domain/match"
)

func TestFlattenStatisticsNestingConventions(t *testing.T) {
	root := map[string]any{
		"statistics": []any{
			map[string]any{
				"period": "1ST",
				"statisticsItems": []any{
					map[string]any{"name": "Total shots", "home": float64(7), "away": float64(3)},
				},
			},
			map[string]any{
				"name": "2ND",
				"groups": []any{
					map[string]any{
						"groupName": "Shots",
						"statisticsItems": []any{
							map[string]any{"name": "Shots on target", "home": float64(4), "away": float64(1)},
						},
					},
				},
			},
			map[string]any{
				"groupName": "ALL",
				"statistics": []any{
					map[string]any{
						"statisticsItems": []any{
							map[string]any{"name": "Ball possession", "home": "61%", "away": "39%"},
						},
					},
				},
			},
		},
	}

	entries := flattenStatistics(root)
	require.Len(t, entries, 3)

	require.Equal(t, "1ST", entries[0].Tag)
	require.Equal(t, []StatItem{{Name: "Total shots", Home: float64(7), Away: float64(3)}}, entries[0].Items)

	require.Equal(t, "2ND", entries[1].Tag)
	require.Equal(t, "Shots on target", entries[1].Items[0].Name)
	require.Len(t, entries[1].Groups, 1)
	require.Equal(t, "Shots", entries[1].Groups[0].Tag)

	require.Equal(t, "ALL", entries[2].Tag)
	require.Equal(t, "61%", entries[2].Items[0].Home)
}

func TestFlattenStatisticsDirectItemsAfterGroups(t *testing.T) {
	root := map[string]any{
		"statistics": []any{
			map[string]any{
				"period": "1ST",
				"groups": []any{
					map[string]any{
						"groupName": "Shots",
						"statisticsItems": []any{
							map[string]any{"name": "Fouls", "home": float64(9), "away": float64(12)},
						},
					},
				},
				"statisticsItems": []any{
					map[string]any{"name": "Fouls", "home": float64(10), "away": float64(11)},
				},
				"statistics": []any{
					map[string]any{
						"statisticsItems": []any{
							map[string]any{"name": "Fouls", "home": float64(8), "away": float64(13)},
						},
					},
				},
			},
		},
	}

	entries := flattenStatistics(root)
	require.Len(t, entries, 1)

	// Duplicate labels resolve by last write downstream, so the flattened
	// order must be grouped items, direct items, then the wrapper items.
	require.Equal(t, []StatItem{
		{Name: "Fouls", Home: float64(9), Away: float64(12)},
		{Name: "Fouls", Home: float64(10), Away: float64(11)},
		{Name: "Fouls", Home: float64(8), Away: float64(13)},
	}, entries[0].Items)
}

func TestFlattenStatisticsBareRoot(t *testing.T) {
	root := map[string]any{
		"period": "ALL",
		"statisticsItems": []any{
			map[string]any{"name": "Corner kicks", "home": float64(5), "away": float64(2)},
		},
	}

	entries := flattenStatistics(root)
	require.Len(t, entries, 1)
	require.Equal(t, "ALL", entries[0].Tag)
	require.Equal(t, "Corner kicks", entries[0].Items[0].Name)
}

func TestParseEventRejectsMissingID(t *testing.T) {
	_, ok := parseEvent(map[string]any{"homeTeam": map[string]any{"name": "Ajax"}})
	require.False(t, ok)
}

func TestParseIncidentGoal(t *testing.T) {
	incident := parseIncident(map[string]any{
		"incidentType": "goal",
		"isHome":       true,
		"time":         map[string]any{"minute": float64(45), "addedTime": float64(2)},
		"player":       map[string]any{"name": "Jude Bellingham"},
		"shotType":     "penalty",
	})

	require.Equal(t, match.IncidentGoal, incident.Kind)
	require.True(t, incident.IsHome)
	require.Equal(t, 45, incident.Minute)
	require.Equal(t, 2, incident.ExtraMinute)
	require.Equal(t, "Jude Bellingham", incident.Scorer)
	require.True(t, incident.IsPenalty)
	require.False(t, incident.IsOwnGoal)
}

func TestParseIncidentCardColorFallback(t *testing.T) {
	yellow := parseIncident(map[string]any{
		"type":   "card",
		"card":   map[string]any{"color": "yellow"},
		"minute": float64(71),
	})
	require.Equal(t, match.IncidentYellowCard, yellow.Kind)
	require.Equal(t, 71, yellow.Minute)

	red := parseIncident(map[string]any{
		"type": "yellowRedCard",
	})
	require.Equal(t, match.IncidentRedCard, red.Kind)
}

func TestParseIncidentCancelledGoal(t *testing.T) {
	incident := parseIncident(map[string]any{
		"type":      "goal",
		"cancelled": true,
		"time":      map[string]any{"minute": float64(12)},
	})
	require.True(t, incident.Cancelled)
}
