// Package enrich implements the best-effort feature enrichment steps that
// run before scoring: tire compound proportions, average pit stop times,
// and the qualifying/weather merges. Enrichment degrades to zero or empty
// values rather than failing the pipeline.
package enrich

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Table is a header-indexed CSV frame. All enrichment steps operate on
// tables so the columns they add travel with the rest of the file.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ReadTable loads a CSV file into a table. Short rows are padded so every
// row has one cell per column.
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open csv: %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	all, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse csv: %s", path)
	}
	if len(all) == 0 {
		return nil, errors.Errorf("csv has no header row: %s", path)
	}

	t := &Table{Columns: all[0], Rows: all[1:]}
	for i, row := range t.Rows {
		for len(row) < len(t.Columns) {
			row = append(row, "")
		}
		t.Rows[i] = row
	}
	return t, nil
}

// Write persists the table atomically: temp file in the target dir, then
// rename.
func (t *Table) Write(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.Wrapf(err, "failed to create output dir: %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".enrich-*.csv")
	if err != nil {
		return errors.Wrapf(err, "failed to create temp output in: %s", dir)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(t.Columns); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to write header: %s", path)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to write rows: %s", path)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to flush output: %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "failed to close temp output: %s", tmp.Name())
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "failed to move output into place: %s", path)
	}
	return nil
}

// Index returns the position of the named column, -1 when absent.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// IndexAny returns the first column present among candidates, -1 when none
// match. Mirrors the loose header detection used by the ingestion scripts.
func (t *Table) IndexAny(candidates ...string) int {
	for _, c := range candidates {
		if i := t.Index(c); i >= 0 {
			return i
		}
	}
	return -1
}

// EnsureColumn returns the index of the named column, appending it with
// empty cells when missing.
func (t *Table) EnsureColumn(name string) int {
	if i := t.Index(name); i >= 0 {
		return i
	}
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], "")
	}
	return len(t.Columns) - 1
}

func (t *Table) seasonIndex() int {
	return t.IndexAny("Season", "season", "Year", "year")
}

func (t *Table) roundIndex() int {
	return t.IndexAny("Round", "RoundNumber", "round")
}

func (t *Table) driverIndex() int {
	return t.IndexAny("Abbreviation", "Driver", "DriverCode", "BroadcastName")
}

func (t *Table) driverNumberIndex() int {
	return t.IndexAny("DriverNumber", "driver_number", "Number")
}

// session identifies one race event.
type session struct {
	Season int
	Round  int
}

// sessions collects the unique (season, round) pairs in row order.
func (t *Table) sessions() ([]session, error) {
	si, ri := t.seasonIndex(), t.roundIndex()
	if si < 0 || ri < 0 {
		return nil, errors.New("table is missing season or round columns")
	}

	seen := make(map[session]bool)
	var out []session
	for _, row := range t.Rows {
		season, ok1 := cellInt(row[si])
		round, ok2 := cellInt(row[ri])
		if !ok1 || !ok2 {
			continue
		}
		s := session{Season: season, Round: round}
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out, nil
}

// cellInt parses an integer cell, tolerating float renderings like "2023.0".
func cellInt(s string) (int, bool) {
	v := strings.TrimSpace(s)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
