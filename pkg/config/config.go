// Package config loads process configuration by layering defaults, an
// optional YAML file, and environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	// EnvPrefix scopes all environment overrides: F1SCORE_ADDR,
	// F1SCORE_DB_DRIVER, ...
	EnvPrefix = "F1SCORE_"

	// EnvConfigFile points at an optional YAML config file.
	EnvConfigFile = "F1SCORE_CONFIG"

	homeDirName = ".f1score"
)

// Config contains process configuration.
type Config struct {
	// ArtifactsDir holds transform.json, model.json, calibration.json and
	// manifest.json.
	ArtifactsDir string `koanf:"artifacts_dir" json:"artifacts_dir" yaml:"artifactsDir"`

	// OutDir receives prediction and metrics files from server-side runs.
	OutDir string `koanf:"out_dir" json:"out_dir" yaml:"outDir"`

	// DBDriver selects the store backend: sqlite or postgres.
	DBDriver string `koanf:"db_driver" json:"db_driver" yaml:"dbDriver"`

	// DBDSN is the database path (sqlite) or connection string (postgres).
	DBDSN string `koanf:"db_dsn" json:"db_dsn" yaml:"dbDsn"`

	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" json:"addr" yaml:"addr"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" json:"log_level" yaml:"logLevel"`
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		ArtifactsDir: "artifacts",
		OutDir:       "out",
		DBDriver:     "sqlite",
		Addr:         ":8080",
		LogLevel:     "info",
	}
}

// Load builds a Config by layering, low to high:
//  1. defaults (New)
//  2. YAML file named by F1SCORE_CONFIG
//  3. environment variables with the F1SCORE_ prefix
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file: %s", path)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, errors.Wrap(err, "failed to load environment config")
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if c.ArtifactsDir == "" {
		return errors.New("artifacts_dir must not be empty")
	}
	switch c.DBDriver {
	case "", "sqlite", "postgres":
	default:
		return errors.Errorf("unsupported db_driver: %s", c.DBDriver)
	}
	return nil
}

// HomeDir returns the app home directory (~/.f1score), creating it when
// missing. The default SQLite file lives here.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve user home dir")
	}
	dir := filepath.Join(home, homeDirName)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", errors.Wrapf(err, "failed to create home dir: %s", dir)
	}
	return dir, nil
}
