package enrich

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeQuali(t *testing.T) {
	race := &Table{
		Columns: []string{"Season", "RoundNumber", "Abbreviation"},
		Rows: [][]string{
			{"2023", "1", "VER"},
			{"2023", "1", "HAM"},
			{"2023", "2", "VER"},
		},
	}
	quali := &Table{
		Columns: []string{"Season", "Round", "Driver", "AvgQualiTime"},
		Rows: [][]string{
			{"2023", "1", "VER", "78.123"},
			{"2023", "2", "VER", "92.001"},
		},
	}

	require.NoError(t, MergeQuali(race, quali))

	col := race.Index(AvgQualiTimeColumn)
	require.GreaterOrEqual(t, col, 0)
	assert.Equal(t, "78.123", race.Rows[0][col])
	assert.Equal(t, "", race.Rows[1][col])
	assert.Equal(t, "92.001", race.Rows[2][col])
}

func TestMergeQuali_MissingColumns(t *testing.T) {
	race := &Table{Columns: []string{"Season", "Round", "Driver"}}
	quali := &Table{Columns: []string{"Season", "Round"}}
	require.Error(t, MergeQuali(race, quali))
}

func TestMergeWeather(t *testing.T) {
	race := &Table{
		Columns: []string{"Season", "Round", "Driver", "Rain"},
		Rows: [][]string{
			{"2023", "1", "VER", "existing"},
			{"2023", "2", "VER", ""},
		},
	}
	weather := &Table{
		Columns: []string{"Year", "Round", "AirTemp", "Rain"},
		Rows: [][]string{
			{"2023", "1", "24.5", "NoRain"},
		},
	}

	require.NoError(t, MergeWeather(race, weather))

	air := race.Index("AirTemp")
	require.GreaterOrEqual(t, air, 0)
	assert.Equal(t, "24.5", race.Rows[0][air])
	assert.Equal(t, "", race.Rows[1][air])

	// colliding column name gets the weather suffix
	rainW := race.Index("Rain_weather")
	require.GreaterOrEqual(t, rainW, 0)
	assert.Equal(t, "NoRain", race.Rows[0][rainW])
	assert.Equal(t, "existing", race.Rows[0][race.Index("Rain")])
}

func TestNewCSVSource(t *testing.T) {
	path := writeCSV(t, `Season,Round,Driver,DriverNumber,Stint,Compound,LapNumber,PitTime,PitInTime,PitOutTime
2023,1,VER,1,1,soft,1,,100.0,123.5
2023,1,ver,1,1,SOFT,2,21.5s,,
2023,2,HAM,44,1,HARD,1,,,
bad,1,LEC,16,1,WET,1,,,
`)
	src, err := NewCSVSource(path)
	require.NoError(t, err)

	laps, err := src.Laps(context.Background(), 2023, 1)
	require.NoError(t, err)
	require.Len(t, laps, 2)
	assert.Equal(t, "VER", laps[0].Driver)
	assert.Equal(t, "SOFT", laps[0].Compound)
	assert.InDelta(t, 100.0, laps[0].PitIn, 1e-9)
	assert.InDelta(t, 123.5, laps[0].PitOut, 1e-9)
	assert.Equal(t, "VER", laps[1].Driver)
	assert.InDelta(t, 21.5, laps[1].PitTime, 1e-9)

	laps, err = src.Laps(context.Background(), 2023, 2)
	require.NoError(t, err)
	require.Len(t, laps, 1)
	assert.Equal(t, 44, laps[0].DriverNumber)

	laps, err = src.Laps(context.Background(), 2024, 1)
	require.NoError(t, err)
	assert.Empty(t, laps)
}
