package score

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Model is the persisted regression estimator. Only the fitted parameters
// are carried; scoring never retrains.
type Model struct {
	Kind         string    `json:"kind"`
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
	Features     []string  `json:"features,omitempty"`
}

// Predict computes raw predictions for the transformed feature matrix.
// Deterministic given the same artifact and input.
func (m *Model) Predict(X *mat.Dense) ([]float64, error) {
	rows, cols := X.Dims()
	if cols != len(m.Coefficients) {
		return nil, errors.Errorf("feature width %d does not match model width %d", cols, len(m.Coefficients))
	}

	w := mat.NewVecDense(len(m.Coefficients), m.Coefficients)
	var y mat.VecDense
	y.MulVec(X, w)

	preds := make([]float64, rows)
	for i := range preds {
		preds[i] = y.AtVec(i) + m.Intercept
	}
	return preds, nil
}

// validate checks the model against the transform it will be paired with.
func (m *Model) validate(t *Transform) error {
	if t.width() != len(m.Coefficients) {
		return errors.Errorf("transform produces %d features but model expects %d", t.width(), len(m.Coefficients))
	}
	return nil
}
