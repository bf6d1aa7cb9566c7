package score

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const floatPrecision = 6

// OutputFiles lists everything a run persisted. Metrics paths are empty
// when no ground truth was present.
type OutputFiles struct {
	Calibrated          string `json:"calibrated"`
	Uncalibrated        string `json:"uncalibrated"`
	CalibratedMetrics   string `json:"calibrated_metrics,omitempty"`
	UncalibratedMetrics string `json:"uncalibrated_metrics,omitempty"`
}

// uncalibratedPath derives the sibling file for raw predictions:
// scored.csv -> scored_uncalibrated.csv.
func uncalibratedPath(out string) string {
	ext := filepath.Ext(out)
	return strings.TrimSuffix(out, ext) + "_uncalibrated" + ext
}

// metricsPath derives the metrics file for a prediction stage:
// scored.csv -> metrics_scored_calibrated.csv.
func metricsPath(out, stage string) string {
	dir := filepath.Dir(out)
	base := filepath.Base(out)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, "metrics_"+stem+"_"+stage+ext)
}

// writePredictions persists one prediction stage with the stable row index
// column that lets the caller re-join onto the original input.
func writePredictions(path string, preds []Prediction, calibrated bool) error {
	rows := make([][]string, 0, len(preds)+1)
	rows = append(rows, []string{"row", "driver_number", "prediction"})
	for _, p := range preds {
		v := p.Raw
		if calibrated {
			v = p.Calibrated
		}
		rows = append(rows, []string{
			strconv.Itoa(p.Row),
			strconv.Itoa(p.DriverNumber),
			formatFloat(v),
		})
	}
	return writeCSV(path, rows)
}

func writeMetrics(path string, m *Metrics) error {
	rows := [][]string{
		{"n", "rmse", "mae"},
		{strconv.Itoa(m.N), formatFloat(m.RMSE), formatFloat(m.MAE)},
	}
	return writeCSV(path, rows)
}

// writeCSV writes atomically: temp file in the target dir, then rename.
// Concurrent runs writing to distinct paths never observe partial files.
func writeCSV(path string, rows [][]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.Wrapf(err, "failed to create output dir: %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".out-*.csv")
	if err != nil {
		return errors.Wrapf(err, "failed to create temp output in: %s", dir)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to write output: %s", path)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to flush output: %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "failed to close temp output: %s", tmp.Name())
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "failed to move output into place: %s", path)
	}
	return nil
}

// formatFloat renders predictions with fixed precision so repeated runs on
// the same input produce byte-identical files.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', floatPrecision, 64)
}
