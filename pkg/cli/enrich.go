package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"f1score/pkg/enrich"
)

var (
	lapsFlag = &cli.StringFlag{
		Name:     "laps",
		Usage:    "Path to the exported session timing CSV",
		Required: true,
	}

	enrichInputFlag = &cli.StringFlag{
		Name:     "input",
		Usage:    "Path to the race results CSV to enrich",
		Required: true,
	}

	enrichOutputFlag = &cli.StringFlag{
		Name:     "output",
		Usage:    "Path for the enriched CSV",
		Required: true,
	}

	enrichCmd = &cli.Command{
		Name:  "enrich",
		Usage: "Append best-effort features to a race results CSV",
		Subcommands: []*cli.Command{
			{
				Name:   "tires",
				Usage:  "Append per-driver tire compound proportions",
				Action: cmdEnrichTires,
				Flags:  []cli.Flag{lapsFlag, enrichInputFlag, enrichOutputFlag},
			},
			{
				Name:   "pits",
				Usage:  "Append per-driver average pit stop time",
				Action: cmdEnrichPits,
				Flags:  []cli.Flag{lapsFlag, enrichInputFlag, enrichOutputFlag},
			},
		},
	}

	raceFileFlag = &cli.StringFlag{
		Name:     "race",
		Usage:    "Path to the race results CSV",
		Required: true,
	}

	qualiFileFlag = &cli.StringFlag{
		Name:  "quali",
		Usage: "Path to the qualifying times CSV",
	}

	weatherFileFlag = &cli.StringFlag{
		Name:  "weather",
		Usage: "Path to the per-event weather CSV",
	}

	mergeOutputFlag = &cli.StringFlag{
		Name:     "output",
		Usage:    "Path for the merged CSV",
		Required: true,
	}

	mergeCmd = &cli.Command{
		Name:   "merge",
		Usage:  "Left-join qualifying and weather data onto race results",
		Action: cmdMerge,
		Flags: []cli.Flag{
			raceFileFlag,
			qualiFileFlag,
			weatherFileFlag,
			mergeOutputFlag,
		},
	}
)

// EnrichResult is the report printed after an enrichment step.
type EnrichResult struct {
	Input    string `json:"input" yaml:"input"`
	Output   string `json:"output" yaml:"output"`
	Rows     int    `json:"rows" yaml:"rows"`
	Duration string `json:"duration" yaml:"duration"`
}

func cmdEnrichTires(c *cli.Context) error {
	return runEnrichment(c, enrich.AppendTireData)
}

func cmdEnrichPits(c *cli.Context) error {
	return runEnrichment(c, enrich.AppendPitTimes)
}

func runEnrichment(c *cli.Context, step func(ctx context.Context, src enrich.SessionSource, t *enrich.Table) error) error {
	input := c.String(enrichInputFlag.Name)
	output := c.String(enrichOutputFlag.Name)
	start := time.Now()

	src, err := enrich.NewCSVSource(c.String(lapsFlag.Name))
	if err != nil {
		return fmt.Errorf("loading laps: %w", err)
	}

	tbl, err := enrich.ReadTable(input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", input, err)
	}

	if err := step(c.Context, src, tbl); err != nil {
		return fmt.Errorf("enriching %s: %w", input, err)
	}
	if err := tbl.Write(output); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	return encode(&EnrichResult{
		Input:    input,
		Output:   output,
		Rows:     len(tbl.Rows),
		Duration: time.Since(start).String(),
	})
}

func cmdMerge(c *cli.Context) error {
	output := c.String(mergeOutputFlag.Name)
	start := time.Now()

	race, err := enrich.ReadTable(c.String(raceFileFlag.Name))
	if err != nil {
		return fmt.Errorf("reading race file: %w", err)
	}

	if path := c.String(qualiFileFlag.Name); path != "" {
		quali, err := enrich.ReadTable(path)
		if err != nil {
			return fmt.Errorf("reading quali file: %w", err)
		}
		if err := enrich.MergeQuali(race, quali); err != nil {
			return fmt.Errorf("merging quali times: %w", err)
		}
	}

	if path := c.String(weatherFileFlag.Name); path != "" {
		weather, err := enrich.ReadTable(path)
		if err != nil {
			return fmt.Errorf("reading weather file: %w", err)
		}
		if err := enrich.MergeWeather(race, weather); err != nil {
			return fmt.Errorf("merging weather data: %w", err)
		}
	}

	if err := race.Write(output); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	return encode(&EnrichResult{
		Input:    c.String(raceFileFlag.Name),
		Output:   output,
		Rows:     len(race.Rows),
		Duration: time.Since(start).String(),
	})
}
