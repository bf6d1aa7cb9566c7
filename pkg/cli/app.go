package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path"
	"time"

	urfave "github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"f1score/pkg/config"
	"f1score/pkg/data"
	"f1score/pkg/logging"
)

const (
	appConfigKey = "app-config"

	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""

	outputFormat = formatJSON

	debugFlag = &urfave.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs (optional, default: false)",
	}

	dbFlag = &urfave.StringFlag{
		Name:  "db",
		Usage: "Database DSN (path for sqlite, connection string for postgres)",
	}

	artifactsFlag = &urfave.StringFlag{
		Name:  "artifacts",
		Usage: "Path to the model artifacts directory",
	}

	formatFlag = &urfave.StringFlag{
		Name:  "format",
		Usage: "Output format [json, yaml]",
		Value: formatJSON,
	}
)

// Execute creates and runs the CLI application.
func Execute() {
	logging.SetDefaultCLILogger("info")

	app := newApp()
	if err := app.Run(os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

type appConfig struct {
	Config *config.Config
	Store  *data.Store
	Debug  bool
}

func getConfig(c *urfave.Context) *appConfig {
	return c.App.Metadata[appConfigKey].(*appConfig)
}

func newApp() *urfave.App {
	return &urfave.App{
		Name:                 "f1score",
		Version:              fmt.Sprintf("%s (%s - %s)", version, commit, date),
		Compiled:             time.Now(),
		EnableBashCompletion: true,
		HideHelpCommand:      true,
		Usage:                "CLI for scoring race telemetry against fitted model artifacts",
		Flags: []urfave.Flag{
			debugFlag,
			dbFlag,
			artifactsFlag,
			formatFlag,
		},
		Commands: []*urfave.Command{
			scoreCmd,
			serverCmd,
			importCmd,
			enrichCmd,
			mergeCmd,
			queryCmd,
			artifactsCmd,
		},
		Before: func(c *urfave.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if c.Bool(debugFlag.Name) {
				cfg.LogLevel = "debug"
			}
			logging.SetDefaultCLILogger(cfg.LogLevel)

			f := c.String(formatFlag.Name)
			if f == formatYAML || f == "yml" {
				outputFormat = formatYAML
			}

			if v := c.String(artifactsFlag.Name); v != "" {
				cfg.ArtifactsDir = v
			}
			if v := c.String(dbFlag.Name); v != "" {
				cfg.DBDSN = v
			}
			if cfg.DBDSN == "" {
				home, err := config.HomeDir()
				if err != nil {
					return fmt.Errorf("resolving home dir: %w", err)
				}
				cfg.DBDSN = path.Join(home, data.DataFileName)
			}

			store, err := data.Open(cfg.DBDriver, cfg.DBDSN)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}

			c.App.Metadata[appConfigKey] = &appConfig{
				Config: cfg,
				Store:  store,
				Debug:  c.Bool(debugFlag.Name),
			}
			return nil
		},
		After: func(c *urfave.Context) error {
			if cfg, ok := c.App.Metadata[appConfigKey].(*appConfig); ok && cfg.Store != nil {
				cfg.Store.Close()
			}
			return nil
		},
	}
}

func encode(v any) error {
	if outputFormat == formatYAML {
		return yaml.NewEncoder(os.Stdout).Encode(v)
	}
	e := json.NewEncoder(os.Stdout)
	e.SetIndent("", "  ")
	return e.Encode(v)
}
