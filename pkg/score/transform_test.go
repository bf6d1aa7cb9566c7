package score

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransform_Apply(t *testing.T) {
	tr := fittedArtifacts().Transform

	rec := &Record{
		Row:          0,
		GridPosition: 5,
		AvgQualiTime: 100,
		Team:         "Ferrari",
	}
	rec.WeatherCluster = math.NaN()
	rec.Soft, rec.Medium, rec.Hard = 1, 0, 0
	rec.Intermediate, rec.Wet = 0, 0
	rec.RacesPrior = 3
	rec.RainFlag = 0
	rec.PointsProp = 0.1

	X, err := tr.Apply([]*Record{rec})
	require.NoError(t, err)

	rows, cols := X.Dims()
	assert.Equal(t, 1, rows)
	assert.Equal(t, 14, cols)

	// (5-10)/5 = -1
	assert.InDelta(t, -1.0, X.At(0, 0), 1e-9)
	// NaN weather cluster imputed with median 0, scaled (0-0.5)/0.5 = -1
	assert.InDelta(t, -1.0, X.At(0, 2), 1e-9)
	// Ferrari one-hot
	assert.Equal(t, 0.0, X.At(0, 11))
	assert.Equal(t, 1.0, X.At(0, 12))
	assert.Equal(t, 0.0, X.At(0, 13))
}

func TestTransform_UnknownCategoryIgnored(t *testing.T) {
	tr := fittedArtifacts().Transform

	rec := &Record{Row: 0, GridPosition: 10, Team: "Williams"}
	X, err := tr.Apply([]*Record{rec})
	require.NoError(t, err)

	// unknown team encodes as an all-zero block, never an error
	assert.Equal(t, 0.0, X.At(0, 11))
	assert.Equal(t, 0.0, X.At(0, 12))
	assert.Equal(t, 0.0, X.At(0, 13))
}

func TestTransform_MissingCategoryUsesFill(t *testing.T) {
	tr := fittedArtifacts().Transform

	rec := &Record{Row: 0, GridPosition: 10}
	X, err := tr.Apply([]*Record{rec})
	require.NoError(t, err)

	// empty team takes the "missing" fill bucket
	assert.Equal(t, 1.0, X.At(0, 13))
}

func TestTransform_RareRemapsToOther(t *testing.T) {
	tr := &Transform{
		Numeric: []NumericFeature{{Name: "GridPosition", Median: 10, Mean: 10, Std: 5}},
		Categorical: []CategoricalFeature{
			{Name: "Team", Fill: "missing", Categories: []string{"Red Bull", "OTHER", "missing"}, Rare: []string{"HRT"}},
		},
	}

	rec := &Record{Row: 0, GridPosition: 10, Team: "HRT"}
	X, err := tr.Apply([]*Record{rec})
	require.NoError(t, err)

	assert.Equal(t, 1.0, X.At(0, 2)) // OTHER bucket
}

func TestTransform_UnknownFeatureName(t *testing.T) {
	tr := &Transform{
		Numeric: []NumericFeature{{Name: "NotAColumn", Median: 0, Mean: 0, Std: 1}},
	}

	_, err := tr.Apply([]*Record{{Row: 0}})
	require.Error(t, err)

	var se *SchemaError
	assert.ErrorAs(t, err, &se)
}

func TestTransform_FeatureNames(t *testing.T) {
	tr := fittedArtifacts().Transform
	names := tr.FeatureNames()
	require.Len(t, names, 14)
	assert.Equal(t, "GridPosition", names[0])
	assert.Equal(t, "Team__Red Bull", names[11])
	assert.Equal(t, "Team__missing", names[13])
}

func TestTransform_ZeroStdScalesToZero(t *testing.T) {
	tr := &Transform{
		Numeric: []NumericFeature{{Name: "GridPosition", Median: 10, Mean: 10, Std: 0}},
	}

	X, err := tr.Apply([]*Record{{Row: 0, GridPosition: 99}})
	require.NoError(t, err)
	assert.Equal(t, 0.0, X.At(0, 0))
}
