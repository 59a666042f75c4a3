package competition

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryGet(t *testing.T) {
	reg := NewRegistry([]Competition{
		{Name: "Premier League", TournamentID: 17, SeasonID: 76986},
		{Name: "  Trimmed  ", TournamentID: 1, SeasonID: 2},
		{Name: "", TournamentID: 3, SeasonID: 4},
		{Name: "No Season", TournamentID: 5, SeasonID: 0},
	})

	got, ok := reg.Get("Premier League")
	require.True(t, ok)
	require.Equal(t, int64(17), got.TournamentID)
	require.Equal(t, int64(76986), got.SeasonID)

	_, ok = reg.Get("Trimmed")
	require.True(t, ok, "names are trimmed on registration and lookup")

	_, ok = reg.Get("No Season")
	require.False(t, ok, "entries without a season id are rejected")

	_, ok = reg.Get("Serie B")
	require.False(t, ok)
}

func TestRegistryNamesSorted(t *testing.T) {
	reg := NewRegistry([]Competition{
		{Name: "Serie A", TournamentID: 23, SeasonID: 76457},
		{Name: "Bundesliga", TournamentID: 35, SeasonID: 77333},
		{Name: "La Liga", TournamentID: 8, SeasonID: 77559},
	})

	require.Equal(t, []string{"Bundesliga", "La Liga", "Serie A"}, reg.Names())
}

func TestSeasonLabel(t *testing.T) {
	tests := []struct {
		league string
		want   string
	}{
		{"Premier League", "2025/26"},
		{"La Liga", "2025/26"},
		{"Brasileirão", "2025"},
		{"Sul-Americana", "2025"},
		{"Liga Profesional", "2025"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, SeasonLabel(tt.league, 2025), tt.league)
	}
}

func TestSeasonLabelCenturyWrap(t *testing.T) {
	require.Equal(t, "2099/00", SeasonLabel("Premier League", 2099))
}
