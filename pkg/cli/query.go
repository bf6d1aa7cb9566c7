package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

const queryResultLimitDefault = 100

var (
	queryLimitFlag = &cli.IntFlag{
		Name:     "limit",
		Usage:    "Limits number of results returned",
		Value:    queryResultLimitDefault,
		Required: false,
	}

	seasonFlag = &cli.IntFlag{
		Name:  "season",
		Usage: "Filter by season (0 matches all)",
	}

	roundFlag = &cli.IntFlag{
		Name:  "round",
		Usage: "Filter by round (0 matches all)",
	}

	queryCmd = &cli.Command{
		Name:    "query",
		Aliases: []string{"q"},
		Usage:   "Query the local store",
		Subcommands: []*cli.Command{
			{
				Name:   "runs",
				Usage:  "List recent scoring runs",
				Action: cmdQueryRuns,
				Flags: []cli.Flag{
					queryLimitFlag,
				},
			},
			{
				Name:   "races",
				Usage:  "List imported race records",
				Action: cmdQueryRaces,
				Flags: []cli.Flag{
					seasonFlag,
					roundFlag,
					queryLimitFlag,
				},
			},
		},
	}
)

func cmdQueryRuns(c *cli.Context) error {
	cfg := getConfig(c)

	runs, err := cfg.Store.ListRuns(c.Int(queryLimitFlag.Name))
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}
	return encode(runs)
}

func cmdQueryRaces(c *cli.Context) error {
	cfg := getConfig(c)

	races, err := cfg.Store.QueryRaces(
		c.Int(seasonFlag.Name),
		c.Int(roundFlag.Name),
		c.Int(queryLimitFlag.Name))
	if err != nil {
		return fmt.Errorf("querying races: %w", err)
	}
	return encode(races)
}
