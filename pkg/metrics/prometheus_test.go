package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager(t *testing.T) {
	m := NewManager(prometheus.NewRegistry())
	require.NotNil(t, m)

	m.runsTotal.Inc()
	m.rowsScored.Add(2)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runsTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.rowsScored))
}

func TestRecordFuncs(t *testing.T) {
	before := testutil.ToFloat64(globalManager.runsTotal)
	RecordRun()
	assert.Equal(t, before+1, testutil.ToFloat64(globalManager.runsTotal))

	beforeScored := testutil.ToFloat64(globalManager.rowsScored)
	beforeExcluded := testutil.ToFloat64(globalManager.rowsExcluded)
	RecordRows(3, 1)
	assert.Equal(t, beforeScored+3, testutil.ToFloat64(globalManager.rowsScored))
	assert.Equal(t, beforeExcluded+1, testutil.ToFloat64(globalManager.rowsExcluded))

	RecordRunError()
	RecordScoringDuration(0.2)
	RecordHTTPRequest("/score", "POST", "200")
	RecordHTTPRequestDuration("/score", "POST", "200", 0.1)
}

func TestGetRegistry(t *testing.T) {
	require.NotNil(t, GetRegistry())

	fams, err := GetRegistry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, fams)
}
