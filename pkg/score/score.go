package score

import (
	"context"
	"log/slog"
	"math"

	"github.com/pkg/errors"
)

// Options configures one pipeline invocation.
type Options struct {
	// InputPath is the raw CSV to score.
	InputPath string
	// OutputPath is where calibrated predictions go. Sibling files for
	// uncalibrated predictions and metrics derive from it.
	OutputPath string
	// ArtifactsDir holds the persisted transform, model, and calibration.
	ArtifactsDir string
}

// Prediction is one scored row.
type Prediction struct {
	Row          int     `json:"row"`
	DriverNumber int     `json:"driver_number"`
	Raw          float64 `json:"raw"`
	Calibrated   float64 `json:"calibrated"`
}

// Result summarizes one pipeline invocation.
type Result struct {
	RowsTotal    int          `json:"rows_total"`
	Predictions  []Prediction `json:"predictions,omitempty"`
	Excluded     []Exclusion  `json:"excluded,omitempty"`
	Calibrated   *Metrics     `json:"calibrated_metrics,omitempty"`
	Uncalibrated *Metrics     `json:"uncalibrated_metrics,omitempty"`
	Files        OutputFiles  `json:"files"`
}

// Run executes the scoring pipeline once: load artifacts, reconstruct
// features, transform, predict, calibrate, evaluate, persist. It is a pure
// function of (input table, artifacts); the only state it touches are the
// output files.
//
// Schema and artifact problems are fatal. An input whose rows are all
// excluded completes successfully with empty prediction files and no
// metrics files.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.InputPath == "" || opts.OutputPath == "" {
		return nil, errors.New("input and output paths are required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	artifacts, err := LoadArtifacts(opts.ArtifactsDir)
	if err != nil {
		return nil, err
	}

	records, err := ReadRecords(opts.InputPath)
	if err != nil {
		return nil, err
	}

	scorable, excluded := Reconstruct(records)

	res := &Result{
		RowsTotal: len(records),
		Excluded:  excluded,
		Files: OutputFiles{
			Calibrated:   opts.OutputPath,
			Uncalibrated: uncalibratedPath(opts.OutputPath),
		},
	}

	if len(scorable) == 0 {
		slog.Warn("no scorable rows in input, writing empty predictions",
			"input", opts.InputPath, "excluded", len(excluded))
		if err := persist(res); err != nil {
			return nil, err
		}
		return res, nil
	}

	X, err := artifacts.Transform.Apply(scorable)
	if err != nil {
		return nil, err
	}

	raw, err := artifacts.Model.Predict(X)
	if err != nil {
		return nil, errors.Wrap(err, "prediction failed")
	}
	calibrated := artifacts.Calibration.Apply(raw)

	res.Predictions = make([]Prediction, len(scorable))
	truth := make([]float64, len(scorable))
	hasTruth := false
	for i, r := range scorable {
		res.Predictions[i] = Prediction{
			Row:          r.Row,
			DriverNumber: r.DriverNumber,
			Raw:          raw[i],
			Calibrated:   calibrated[i],
		}
		truth[i] = r.Deviation
		if !math.IsNaN(r.Deviation) {
			hasTruth = true
		}
	}

	if hasTruth {
		res.Uncalibrated = ComputeMetrics(raw, truth)
		res.Calibrated = ComputeMetrics(calibrated, truth)
		res.Files.UncalibratedMetrics = metricsPath(opts.OutputPath, "uncalibrated")
		res.Files.CalibratedMetrics = metricsPath(opts.OutputPath, "calibrated")
	} else {
		slog.Debug("no ground truth in input, skipping metrics", "input", opts.InputPath)
	}

	if err := persist(res); err != nil {
		return nil, err
	}

	slog.Info("scoring complete",
		"input", opts.InputPath,
		"scored", len(res.Predictions),
		"excluded", len(res.Excluded),
		"output", res.Files.Calibrated)

	return res, nil
}

func persist(res *Result) error {
	if err := writePredictions(res.Files.Calibrated, res.Predictions, true); err != nil {
		return err
	}
	if err := writePredictions(res.Files.Uncalibrated, res.Predictions, false); err != nil {
		return err
	}
	if res.Files.CalibratedMetrics != "" && res.Calibrated != nil {
		if err := writeMetrics(res.Files.CalibratedMetrics, res.Calibrated); err != nil {
			return err
		}
	}
	if res.Files.UncalibratedMetrics != "" && res.Uncalibrated != nil {
		if err := writeMetrics(res.Files.UncalibratedMetrics, res.Uncalibrated); err != nil {
			return err
		}
	}
	return nil
}
