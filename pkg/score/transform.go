package score

import (
	"log/slog"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// NumericFeature holds the fitted imputation and scaling parameters for one
// numeric column: impute NaN with the training median, then standard-scale
// with the training mean and standard deviation.
type NumericFeature struct {
	Name   string  `json:"name"`
	Median float64 `json:"median"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
}

// CategoricalFeature holds the fitted one-hot encoding for one categorical
// column. Values absent at transform time take Fill; values in Rare remap to
// "OTHER"; values outside Categories encode as an all-zero bucket rather
// than failing (the unknown-category ignore policy).
type CategoricalFeature struct {
	Name       string   `json:"name"`
	Fill       string   `json:"fill"`
	Categories []string `json:"categories"`
	Rare       []string `json:"rare,omitempty"`
}

// Transform is the persisted preprocessing pipeline. The feature matrix
// column order is fixed by the artifact: numeric columns in declared order,
// then one one-hot block per categorical column.
type Transform struct {
	Numeric     []NumericFeature     `json:"numeric"`
	Categorical []CategoricalFeature `json:"categorical,omitempty"`
}

// FeatureNames returns the output column names in matrix order.
func (t *Transform) FeatureNames() []string {
	names := make([]string, 0, len(t.Numeric))
	for _, n := range t.Numeric {
		names = append(names, n.Name)
	}
	for _, c := range t.Categorical {
		for _, v := range c.Categories {
			names = append(names, c.Name+"__"+v)
		}
	}
	return names
}

func (t *Transform) width() int {
	w := len(t.Numeric)
	for _, c := range t.Categorical {
		w += len(c.Categories)
	}
	return w
}

// Apply maps records onto the fitted feature space. The column set is
// resolved against the declared record schema; a feature the schema cannot
// supply is a SchemaError since the transform would see a different shape
// than it was fitted on.
func (t *Transform) Apply(records []*Record) (*mat.Dense, error) {
	if len(records) == 0 {
		return nil, errors.New("no records to transform")
	}

	w := t.width()
	X := mat.NewDense(len(records), w, nil)

	for i, r := range records {
		j := 0
		for _, n := range t.Numeric {
			v, ok := r.numericValue(n.Name)
			if !ok {
				return nil, &SchemaError{Column: n.Name}
			}
			if math.IsNaN(v) {
				v = n.Median
			}
			if n.Std > 0 {
				v = (v - n.Mean) / n.Std
			} else {
				v = 0
			}
			X.Set(i, j, v)
			j++
		}

		for _, c := range t.Categorical {
			val, ok := r.categoricalValue(c.Name)
			if !ok {
				return nil, &SchemaError{Column: c.Name}
			}
			if val == "" {
				val = c.Fill
			}
			for _, rare := range c.Rare {
				if val == rare {
					val = "OTHER"
					break
				}
			}
			hot := -1
			for k, cat := range c.Categories {
				if cat == val {
					hot = k
					break
				}
			}
			if hot < 0 {
				// unknown category, all-zero bucket
				slog.Debug("unknown category ignored", "column", c.Name, "value", val)
			}
			for k := range c.Categories {
				if k == hot {
					X.Set(i, j+k, 1)
				} else {
					X.Set(i, j+k, 0)
				}
			}
			j += len(c.Categories)
		}
	}

	return X, nil
}

// numericValue resolves a fitted numeric feature name against the record.
func (r *Record) numericValue(name string) (float64, bool) {
	switch name {
	case "GridPosition":
		return r.GridPosition, true
	case "AvgQualiTime":
		return r.AvgQualiTime, true
	case "weather_tire_cluster":
		return r.WeatherCluster, true
	case "SOFT":
		return r.Soft, true
	case "MEDIUM":
		return r.Medium, true
	case "HARD":
		return r.Hard, true
	case "INTERMEDIATE":
		return r.Intermediate, true
	case "WET":
		return r.Wet, true
	case "races_prior_this_season":
		return r.RacesPrior, true
	case "Rain":
		return r.RainFlag, true
	case "PointsProp":
		return r.PointsProp, true
	case "DriverNumber":
		return float64(r.DriverNumber), true
	}
	return 0, false
}

func (r *Record) categoricalValue(name string) (string, bool) {
	switch name {
	case "Team", "TeamName":
		return r.Team, true
	case "Driver":
		return r.Driver, true
	}
	return "", false
}
