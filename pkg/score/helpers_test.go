package score

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// fittedArtifacts builds a small artifact set whose linear model depends on
// GridPosition only: scaled grid -1 -> 12.0, scaled grid 0 -> 20.0. On the
// canonical fixture the raw predictions match truth exactly.
func fittedArtifacts() *Artifacts {
	coefs := make([]float64, 14)
	coefs[0] = 8.0

	return &Artifacts{
		Transform: &Transform{
			Numeric: []NumericFeature{
				{Name: "GridPosition", Median: 10, Mean: 10, Std: 5},
				{Name: "AvgQualiTime", Median: 110, Mean: 110, Std: 10},
				{Name: "weather_tire_cluster", Median: 0, Mean: 0.5, Std: 0.5},
				{Name: "SOFT", Median: 0, Mean: 0.33, Std: 0.47},
				{Name: "MEDIUM", Median: 0, Mean: 0.33, Std: 0.47},
				{Name: "HARD", Median: 0, Mean: 0.33, Std: 0.47},
				{Name: "INTERMEDIATE", Median: 0, Mean: 0, Std: 1},
				{Name: "WET", Median: 0, Mean: 0, Std: 1},
				{Name: "races_prior_this_season", Median: 3, Mean: 3.33, Std: 1.25},
				{Name: "Rain", Median: 0, Mean: 0.33, Std: 0.47},
				{Name: "PointsProp", Median: 0.05, Mean: 0.05, Std: 0.04},
			},
			Categorical: []CategoricalFeature{
				{Name: "Team", Fill: "missing", Categories: []string{"Red Bull", "Ferrari", "missing"}},
			},
		},
		Model: &Model{
			Kind:         "linear",
			Intercept:    20.0,
			Coefficients: coefs,
		},
		Calibration: &Calibration{Slope: 1.0, Intercept: 0.5},
	}
}

func setupArtifactsDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, SaveArtifacts(dir, fittedArtifacts()))
	return dir
}

func writeInput(t *testing.T, rows string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(rows), 0600))
	return path
}
