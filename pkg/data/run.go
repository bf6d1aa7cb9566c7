package data

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	insertRunSQL = `INSERT INTO run (
			id,
			created,
			input,
			output,
			rows_total,
			rows_scored,
			rows_excluded,
			rmse_raw,
			mae_raw,
			rmse_cal,
			mae_cal
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectRunsSQL = `SELECT
			id,
			created,
			input,
			COALESCE(output, '') AS output,
			rows_total,
			rows_scored,
			rows_excluded,
			COALESCE(rmse_raw, 0) AS rmse_raw,
			COALESCE(mae_raw, 0) AS mae_raw,
			COALESCE(rmse_cal, 0) AS rmse_cal,
			COALESCE(mae_cal, 0) AS mae_cal
		FROM run
		ORDER BY created DESC
		LIMIT ?
	`
)

// Run is one ledger entry for a completed scoring invocation.
type Run struct {
	ID           string  `json:"id" yaml:"id"`
	Created      string  `json:"created" yaml:"created"`
	Input        string  `json:"input" yaml:"input"`
	Output       string  `json:"output,omitempty" yaml:"output,omitempty"`
	RowsTotal    int     `json:"rows_total" yaml:"rowsTotal"`
	RowsScored   int     `json:"rows_scored" yaml:"rowsScored"`
	RowsExcluded int     `json:"rows_excluded" yaml:"rowsExcluded"`
	RMSERaw      float64 `json:"rmse_raw,omitempty" yaml:"rmseRaw,omitempty"`
	MAERaw       float64 `json:"mae_raw,omitempty" yaml:"maeRaw,omitempty"`
	RMSECal      float64 `json:"rmse_cal,omitempty" yaml:"rmseCal,omitempty"`
	MAECal       float64 `json:"mae_cal,omitempty" yaml:"maeCal,omitempty"`
}

// SaveRun records a scoring invocation, assigning the id and timestamp
// when the caller left them empty.
func (s *Store) SaveRun(r *Run) error {
	if s == nil || s.db == nil {
		return errDBNotInitialized
	}
	if r == nil {
		return errors.New("run not specified")
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Created == "" {
		r.Created = time.Now().UTC().Format(time.RFC3339)
	}

	if _, err := s.db.Exec(s.rebind(insertRunSQL), r.ID, r.Created, r.Input,
		r.Output, r.RowsTotal, r.RowsScored, r.RowsExcluded,
		r.RMSERaw, r.MAERaw, r.RMSECal, r.MAECal); err != nil {
		return errors.Wrapf(err, "error inserting run: %s", r.ID)
	}
	return nil
}

// ListRuns returns the most recent scoring runs.
func (s *Store) ListRuns(limit int) ([]*Run, error) {
	if s == nil || s.db == nil {
		return nil, errDBNotInitialized
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(s.rebind(selectRunsSQL), limit)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrap(err, "failed to execute run select statement")
	}
	defer rows.Close()

	list := make([]*Run, 0)
	for rows.Next() {
		r := &Run{}
		if err := rows.Scan(&r.ID, &r.Created, &r.Input, &r.Output,
			&r.RowsTotal, &r.RowsScored, &r.RowsExcluded,
			&r.RMSERaw, &r.MAERaw, &r.RMSECal, &r.MAECal); err != nil {
			return nil, errors.Wrap(err, "failed to scan run row")
		}
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate run rows")
	}
	return list, nil
}
