package score

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeMetrics(t *testing.T) {
	m := ComputeMetrics([]float64{12, 20}, []float64{12, 20})
	require.NotNil(t, m)
	assert.Equal(t, 2, m.N)
	assert.Equal(t, 0.0, m.RMSE)
	assert.Equal(t, 0.0, m.MAE)

	m = ComputeMetrics([]float64{10, 20}, []float64{13, 16})
	require.NotNil(t, m)
	assert.Equal(t, 2, m.N)
	assert.InDelta(t, math.Sqrt((9.0+16.0)/2.0), m.RMSE, 1e-9)
	assert.InDelta(t, 3.5, m.MAE, 1e-9)
}

func TestComputeMetrics_SkipsMissingTruth(t *testing.T) {
	m := ComputeMetrics([]float64{10, 20, 30}, []float64{13, math.NaN(), 26})
	require.NotNil(t, m)
	assert.Equal(t, 2, m.N)
	assert.InDelta(t, 3.5, m.MAE, 1e-9)
}

func TestComputeMetrics_NoTruth(t *testing.T) {
	assert.Nil(t, ComputeMetrics([]float64{10, 20}, []float64{math.NaN(), math.NaN()}))
	assert.Nil(t, ComputeMetrics(nil, nil))
}

func TestCalibration_Apply(t *testing.T) {
	c := &Calibration{Slope: 2.0, Intercept: 1.0}
	got := c.Apply([]float64{0, 5, -3})
	assert.Equal(t, []float64{1, 11, -5}, got)
}

func TestIdentityCalibration(t *testing.T) {
	c := identityCalibration()
	got := c.Apply([]float64{12.5, 20.0})
	assert.Equal(t, []float64{12.5, 20.0}, got)
}
