package score

// Calibration is the fixed post-hoc linear adjustment applied to raw model
// output to reduce systematic bias. Slope and intercept are artifact
// parameters produced by the training collaborator, not code constants.
type Calibration struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// identityCalibration leaves raw predictions unchanged. Used when no
// calibration artifact is present.
func identityCalibration() *Calibration {
	return &Calibration{Slope: 1}
}

// Apply returns calibrated copies of the raw predictions. Raw values are
// left untouched so both stages stay independently observable.
func (c *Calibration) Apply(raw []float64) []float64 {
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = c.Slope*v + c.Intercept
	}
	return out
}
