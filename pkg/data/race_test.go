package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRaces() []*Race {
	return []*Race{
		{Season: 2023, Round: 1, Driver: "VER", DriverNumber: 1, Team: "Red Bull", Grid: 1, Status: "Finished", Deviation: 12.5},
		{Season: 2023, Round: 1, Driver: "HAM", DriverNumber: 44, Team: "Mercedes", Grid: 5, Status: "Finished", Deviation: 20.0},
		{Season: 2023, Round: 2, Driver: "VER", DriverNumber: 1, Team: "Red Bull", Grid: 2, Status: "Lapped", Deviation: 55.1},
	}
}

func TestSaveRaces_Upsert(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, s.SaveRaces(testRaces()))

	// second save with a changed row updates instead of duplicating
	updated := testRaces()
	updated[0].Grid = 3
	require.NoError(t, s.SaveRaces(updated))

	got, err := s.QueryRaces(2023, 1, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "VER", got[0].Driver)
	assert.Equal(t, 3, got[0].Grid)
	assert.Equal(t, 44, got[1].DriverNumber)
}

func TestSaveRaces_Empty(t *testing.T) {
	s := setupTestStore(t)
	assert.NoError(t, s.SaveRaces(nil))
}

func TestQueryRaces_Filters(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, s.SaveRaces(testRaces()))

	all, err := s.QueryRaces(0, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	round2, err := s.QueryRaces(2023, 2, 0)
	require.NoError(t, err)
	require.Len(t, round2, 1)
	assert.Equal(t, "Lapped", round2[0].Status)

	limited, err := s.QueryRaces(0, 0, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestQueryRaces_NotInitialized(t *testing.T) {
	var s *Store
	_, err := s.QueryRaces(0, 0, 0)
	assert.ErrorIs(t, err, errDBNotInitialized)
}
