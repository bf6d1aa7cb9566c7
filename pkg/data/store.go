// Package data is the SQL persistence layer: ingested race records and the
// ledger of scoring runs. SQLite is the default backing store, Postgres is
// supported for shared deployments.
package data

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	// DataFileName is the default SQLite file under the app home dir.
	DataFileName = "data.db"
)

//go:embed sql/*
var ddl embed.FS

var errDBNotInitialized = errors.New("database not initialized")

// Store wraps the database handle with the driver name so statements
// written with ? placeholders can be rebound for Postgres.
type Store struct {
	db     *sql.DB
	driver string
}

// Open connects to the database and ensures the schema exists. The DDL is
// idempotent so Open can run on every start.
func Open(driver, dsn string) (*Store, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	case "":
		driver = DriverSQLite
	default:
		return nil, errors.Errorf("unsupported database driver: %s", driver)
	}
	if dsn == "" {
		return nil, errors.New("database dsn not specified")
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database: %s", dsn)
	}

	s := &Store{db: db, driver: driver}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	b, err := ddl.ReadFile("sql/ddl.sql")
	if err != nil {
		return errors.Wrap(err, "failed to read the schema creation file")
	}
	if _, err := s.db.Exec(string(b)); err != nil {
		return errors.Wrap(err, "failed to create database schema")
	}
	return nil
}

// DB exposes the underlying handle for callers that need raw access.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// rebind rewrites ? placeholders to $1..$n for Postgres. Statements are
// authored in the SQLite form.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func rollbackTransaction(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil {
		slog.Error("error rolling back transaction", "error", err)
	}
}
