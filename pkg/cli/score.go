package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"f1score/pkg/data"
	"f1score/pkg/metrics"
	"f1score/pkg/score"
)

var (
	inputFlag = &cli.StringFlag{
		Name:     "input",
		Usage:    "Path to the input CSV",
		Required: true,
	}

	outputFlag = &cli.StringFlag{
		Name:  "output",
		Usage: "Path for the calibrated predictions CSV (default: <input>_scored.csv)",
	}

	scoreCmd = &cli.Command{
		Name:    "score",
		Aliases: []string{"s"},
		Usage:   "Score an input CSV against the fitted artifacts",
		UsageText: `f1score score --input race.csv
   f1score score --input race.csv --output preds/scored.csv`,
		Action: cmdScore,
		Flags: []cli.Flag{
			inputFlag,
			outputFlag,
		},
	}
)

// ScoreSummary is the run report printed after a scoring invocation.
type ScoreSummary struct {
	RunID        string             `json:"run_id,omitempty" yaml:"runId,omitempty"`
	Input        string             `json:"input" yaml:"input"`
	RowsTotal    int                `json:"rows_total" yaml:"rowsTotal"`
	RowsScored   int                `json:"rows_scored" yaml:"rowsScored"`
	RowsExcluded int                `json:"rows_excluded" yaml:"rowsExcluded"`
	Uncalibrated *score.Metrics     `json:"uncalibrated,omitempty" yaml:"uncalibrated,omitempty"`
	Calibrated   *score.Metrics     `json:"calibrated,omitempty" yaml:"calibrated,omitempty"`
	Files        *score.OutputFiles `json:"files" yaml:"files"`
	Duration     string             `json:"duration" yaml:"duration"`
}

func cmdScore(c *cli.Context) error {
	cfg := getConfig(c)

	input := c.String(inputFlag.Name)
	output := c.String(outputFlag.Name)
	if output == "" {
		ext := filepath.Ext(input)
		output = strings.TrimSuffix(input, ext) + "_scored" + ext
	}

	metrics.RecordRun()
	start := time.Now()

	res, err := score.Run(c.Context, score.Options{
		InputPath:    input,
		OutputPath:   output,
		ArtifactsDir: cfg.Config.ArtifactsDir,
	})
	metrics.RecordScoringDuration(time.Since(start).Seconds())
	if err != nil {
		metrics.RecordRunError()
		return fmt.Errorf("scoring %s: %w", input, err)
	}
	metrics.RecordRows(len(res.Predictions), len(res.Excluded))

	run := &data.Run{
		Input:        input,
		Output:       output,
		RowsTotal:    res.RowsTotal,
		RowsScored:   len(res.Predictions),
		RowsExcluded: len(res.Excluded),
	}
	if res.Uncalibrated != nil {
		run.RMSERaw = res.Uncalibrated.RMSE
		run.MAERaw = res.Uncalibrated.MAE
	}
	if res.Calibrated != nil {
		run.RMSECal = res.Calibrated.RMSE
		run.MAECal = res.Calibrated.MAE
	}
	if err := cfg.Store.SaveRun(run); err != nil {
		slog.Warn("failed to record run", "error", err)
	}

	return encode(&ScoreSummary{
		RunID:        run.ID,
		Input:        input,
		RowsTotal:    res.RowsTotal,
		RowsScored:   len(res.Predictions),
		RowsExcluded: len(res.Excluded),
		Uncalibrated: res.Uncalibrated,
		Calibrated:   res.Calibrated,
		Files:        &res.Files,
		Duration:     time.Since(start).String(),
	})
}
