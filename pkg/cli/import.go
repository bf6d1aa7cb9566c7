package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"f1score/pkg/data"
	"f1score/pkg/enrich"
)

var (
	importInputFlag = &cli.StringFlag{
		Name:     "input",
		Usage:    "Path to the merged race results CSV",
		Required: true,
	}

	importCmd = &cli.Command{
		Name:    "import",
		Aliases: []string{"i"},
		Usage:   "Import data into the local store",
		Subcommands: []*cli.Command{
			{
				Name:   "races",
				Usage:  "Load merged race records",
				Action: cmdImportRaces,
				Flags: []cli.Flag{
					importInputFlag,
				},
			},
		},
	}
)

// ImportResult is the report printed after an import.
type ImportResult struct {
	Input    string `json:"input" yaml:"input"`
	Rows     int    `json:"rows" yaml:"rows"`
	Imported int    `json:"imported" yaml:"imported"`
	Skipped  int    `json:"skipped" yaml:"skipped"`
	Duration string `json:"duration" yaml:"duration"`
}

func cmdImportRaces(c *cli.Context) error {
	cfg := getConfig(c)
	input := c.String(importInputFlag.Name)
	start := time.Now()

	tbl, err := enrich.ReadTable(input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", input, err)
	}

	races, skipped := racesFromTable(tbl)
	if err := cfg.Store.SaveRaces(races); err != nil {
		return fmt.Errorf("saving races: %w", err)
	}

	return encode(&ImportResult{
		Input:    input,
		Rows:     len(tbl.Rows),
		Imported: len(races),
		Skipped:  skipped,
		Duration: time.Since(start).String(),
	})
}

// racesFromTable converts CSV rows to race records, skipping rows without
// the season/round/driver-number key.
func racesFromTable(t *enrich.Table) ([]*data.Race, int) {
	si := t.IndexAny("Season", "season", "Year", "year")
	ri := t.IndexAny("Round", "RoundNumber", "round")
	di := t.IndexAny("Abbreviation", "Driver", "DriverCode", "BroadcastName")
	ni := t.IndexAny("DriverNumber", "driver_number", "Number")
	ti := t.IndexAny("TeamName", "Team")
	gi := t.IndexAny("GridPosition", "Grid")
	sti := t.Index("Status")
	dvi := t.Index("DeviationFromAvg_s")

	var (
		races   []*data.Race
		skipped int
	)
	for _, row := range t.Rows {
		season, ok1 := cellValue(row, si)
		round, ok2 := cellValue(row, ri)
		number, ok3 := cellValue(row, ni)
		if !ok1 || !ok2 || !ok3 {
			skipped++
			continue
		}
		r := &data.Race{Season: season, Round: round, DriverNumber: number}
		if di >= 0 {
			r.Driver = row[di]
		}
		if ti >= 0 {
			r.Team = row[ti]
		}
		if gi >= 0 {
			r.Grid, _ = cellValue(row, gi)
		}
		if sti >= 0 {
			r.Status = row[sti]
		}
		if dvi >= 0 {
			r.Deviation = cellFloat(row, dvi)
		}
		races = append(races, r)
	}
	return races, skipped
}

// cellValue parses an integer cell, tolerating float renderings like
// "2023.0".
func cellValue(row []string, i int) (int, bool) {
	if i < 0 || i >= len(row) {
		return 0, false
	}
	v := strings.TrimSpace(row[i])
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}

func cellFloat(row []string, i int) float64 {
	if i < 0 || i >= len(row) {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
	if err != nil {
		return 0
	}
	return f
}
