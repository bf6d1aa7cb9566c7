package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"f1score/pkg/enrich"
)

func TestRacesFromTable(t *testing.T) {
	tbl := &enrich.Table{
		Columns: []string{"Season", "RoundNumber", "Abbreviation", "DriverNumber", "TeamName", "GridPosition", "Status", "DeviationFromAvg_s"},
		Rows: [][]string{
			{"2023", "1", "VER", "1", "Red Bull", "1", "Finished", "12.5"},
			{"2023.0", "1.0", "HAM", "44", "Mercedes", "5", "Finished", "20.0"},
			{"", "1", "LEC", "16", "Ferrari", "3", "Finished", "15.0"}, // no season
			{"2023", "1", "PER", "", "Red Bull", "2", "Finished", "18.0"}, // no number
		},
	}

	races, skipped := racesFromTable(tbl)
	require.Len(t, races, 2)
	assert.Equal(t, 2, skipped)

	assert.Equal(t, 2023, races[0].Season)
	assert.Equal(t, 1, races[0].Round)
	assert.Equal(t, "VER", races[0].Driver)
	assert.Equal(t, 1, races[0].DriverNumber)
	assert.Equal(t, "Red Bull", races[0].Team)
	assert.Equal(t, 1, races[0].Grid)
	assert.Equal(t, "Finished", races[0].Status)
	assert.InDelta(t, 12.5, races[0].Deviation, 1e-9)

	// float renderings of the keys parse
	assert.Equal(t, 44, races[1].DriverNumber)
}

func TestRacesFromTable_MinimalColumns(t *testing.T) {
	tbl := &enrich.Table{
		Columns: []string{"Season", "Round", "DriverNumber"},
		Rows:    [][]string{{"2024", "3", "81"}},
	}

	races, skipped := racesFromTable(tbl)
	require.Len(t, races, 1)
	assert.Zero(t, skipped)
	assert.Equal(t, 81, races[0].DriverNumber)
	assert.Empty(t, races[0].Driver)
	assert.Zero(t, races[0].Grid)
}

func TestCellHelpers(t *testing.T) {
	row := []string{"2023.0", "", "abc", "1.5"}

	v, ok := cellValue(row, 0)
	assert.True(t, ok)
	assert.Equal(t, 2023, v)

	_, ok = cellValue(row, 1)
	assert.False(t, ok)
	_, ok = cellValue(row, 2)
	assert.False(t, ok)
	_, ok = cellValue(row, -1)
	assert.False(t, ok)

	assert.InDelta(t, 1.5, cellFloat(row, 3), 1e-9)
	assert.Zero(t, cellFloat(row, 2))
	assert.Zero(t, cellFloat(row, 99))
}
