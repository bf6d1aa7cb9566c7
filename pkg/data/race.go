package data

import (
	"database/sql"

	"github.com/pkg/errors"
)

const (
	insertRaceSQL = `INSERT INTO race (
			season,
			round,
			driver,
			driver_number,
			team,
			grid,
			status,
			deviation
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (season, round, driver_number) DO UPDATE SET
			driver = excluded.driver,
			team = excluded.team,
			grid = excluded.grid,
			status = excluded.status,
			deviation = excluded.deviation
	`

	selectRacesSQL = `SELECT
			season,
			round,
			driver,
			driver_number,
			COALESCE(team, '') AS team,
			COALESCE(grid, 0) AS grid,
			COALESCE(status, '') AS status,
			COALESCE(deviation, 0) AS deviation
		FROM race
		WHERE (? = 0 OR season = ?)
		AND (? = 0 OR round = ?)
		ORDER BY season, round, driver_number
		LIMIT ?
	`
)

// Race is one ingested driver/event result row.
type Race struct {
	Season       int     `json:"season" yaml:"season"`
	Round        int     `json:"round" yaml:"round"`
	Driver       string  `json:"driver" yaml:"driver"`
	DriverNumber int     `json:"driver_number" yaml:"driverNumber"`
	Team         string  `json:"team,omitempty" yaml:"team,omitempty"`
	Grid         int     `json:"grid,omitempty" yaml:"grid,omitempty"`
	Status       string  `json:"status,omitempty" yaml:"status,omitempty"`
	Deviation    float64 `json:"deviation,omitempty" yaml:"deviation,omitempty"`
}

// SaveRaces upserts race rows in a single transaction.
func (s *Store) SaveRaces(races []*Race) error {
	if s == nil || s.db == nil {
		return errDBNotInitialized
	}
	if len(races) == 0 {
		return nil
	}

	stmt, err := s.db.Prepare(s.rebind(insertRaceSQL))
	if err != nil {
		return errors.Wrap(err, "failed to prepare race insert statement")
	}
	defer stmt.Close()

	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	for i, r := range races {
		if _, err = tx.Stmt(stmt).Exec(r.Season, r.Round, r.Driver,
			r.DriverNumber, r.Team, r.Grid, r.Status, r.Deviation); err != nil {
			rollbackTransaction(tx)
			return errors.Wrapf(err, "error inserting race[%d]: %d/%d #%d",
				i, r.Season, r.Round, r.DriverNumber)
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// QueryRaces lists stored race rows, optionally filtered by season and
// round (0 matches everything).
func (s *Store) QueryRaces(season, round, limit int) ([]*Race, error) {
	if s == nil || s.db == nil {
		return nil, errDBNotInitialized
	}
	if limit <= 0 {
		limit = 100
	}

	stmt, err := s.db.Prepare(s.rebind(selectRacesSQL))
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare race select statement")
	}
	defer stmt.Close()

	rows, err := stmt.Query(season, season, round, round, limit)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrap(err, "failed to execute race select statement")
	}
	defer rows.Close()

	list := make([]*Race, 0)
	for rows.Next() {
		r := &Race{}
		if err := rows.Scan(&r.Season, &r.Round, &r.Driver, &r.DriverNumber,
			&r.Team, &r.Grid, &r.Status, &r.Deviation); err != nil {
			return nil, errors.Wrap(err, "failed to scan race row")
		}
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate race rows")
	}
	return list, nil
}
