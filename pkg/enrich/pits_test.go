package enrich

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pitLap(driver string, number int, pitTime, pitIn, pitOut float64) Lap {
	l := lap(driver, number, 1, "SOFT")
	l.PitTime = pitTime
	l.PitIn = pitIn
	l.PitOut = pitOut
	return l
}

func TestAvgPitTimes_ExplicitPreferred(t *testing.T) {
	nan := math.NaN()
	src := &fakeSource{laps: map[session][]Lap{
		{2023, 1}: {
			pitLap("VER", 1, 20.0, 100, 130),
			pitLap("VER", 1, 24.0, nan, nan),
			// in/out pair ignored once any explicit pit time exists
			pitLap("HAM", 44, nan, 200, 225),
		},
	}}

	got, err := AvgPitTimes(context.Background(), src, 2023, 1)
	require.NoError(t, err)

	assert.InDelta(t, 22.0, got["VER"], 1e-9)
	assert.InDelta(t, 22.0, got["1"], 1e-9)
	_, ok := got["HAM"]
	assert.False(t, ok)
}

func TestAvgPitTimes_InOutFallback(t *testing.T) {
	nan := math.NaN()
	src := &fakeSource{laps: map[session][]Lap{
		{2023, 1}: {
			pitLap("VER", 1, nan, 100, 122),
			pitLap("VER", 1, nan, 300, 326),
			pitLap("HAM", 44, nan, nan, nan),
		},
	}}

	got, err := AvgPitTimes(context.Background(), src, 2023, 1)
	require.NoError(t, err)

	assert.InDelta(t, 24.0, got["VER"], 1e-9)
	assert.InDelta(t, 24.0, got["1"], 1e-9)
	_, ok := got["HAM"]
	assert.False(t, ok)
}

func TestAppendPitTimes(t *testing.T) {
	nan := math.NaN()
	src := &fakeSource{laps: map[session][]Lap{
		{2023, 1}: {
			pitLap("VER", 1, 20.0, nan, nan),
			pitLap("HAM", 44, 30.0, nan, nan),
		},
	}}

	tbl := &Table{
		Columns: []string{"Season", "Round", "Driver", "DriverNumber"},
		Rows: [][]string{
			{"2023", "1", "VERSTAPPEN", ""},   // fragment match on code
			{"2023", "1", "ANYONE", "44"},     // number wins over name
			{"2023", "1", "UNKNOWNXX", ""},    // no match, cell stays empty
			{"2023", "2", "VER", "1"},         // session with no data
		},
	}

	require.NoError(t, AppendPitTimes(context.Background(), src, tbl))

	col := tbl.Index(AvgPitTimeColumn)
	require.GreaterOrEqual(t, col, 0)
	assert.Equal(t, "20.000000", tbl.Rows[0][col])
	assert.Equal(t, "30.000000", tbl.Rows[1][col])
	assert.Equal(t, "", tbl.Rows[2][col])
	assert.Equal(t, "", tbl.Rows[3][col])
}
