package score

import "math"

// Metrics holds aggregate error statistics over the rows with known ground
// truth. N is the number of rows that entered the computation.
type Metrics struct {
	N    int     `json:"n"`
	RMSE float64 `json:"rmse"`
	MAE  float64 `json:"mae"`
}

// ComputeMetrics evaluates predictions against truth, skipping rows whose
// truth is missing (NaN). Returns nil when no row has known truth.
func ComputeMetrics(preds, truth []float64) *Metrics {
	var (
		n          int
		sumSq, sumAbs float64
	)
	for i, p := range preds {
		if i >= len(truth) || math.IsNaN(truth[i]) {
			continue
		}
		d := p - truth[i]
		sumSq += d * d
		sumAbs += math.Abs(d)
		n++
	}
	if n == 0 {
		return nil
	}
	return &Metrics{
		N:    n,
		RMSE: math.Sqrt(sumSq / float64(n)),
		MAE:  sumAbs / float64(n),
	}
}
