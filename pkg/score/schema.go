package score

import (
	"encoding/csv"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Record is one raw input row: a single (season, round, driver) result with
// the columns the fitted transform was trained on. Numeric fields hold NaN
// when the source cell was absent or malformed; the transform imputes them.
type Record struct {
	Row            int     `json:"row"`
	Season         int     `json:"season,omitempty"`
	Round          int     `json:"round,omitempty"`
	Driver         string  `json:"driver,omitempty"`
	Team           string  `json:"team,omitempty"`
	DriverNumber   int     `json:"driver_number"`
	GridPosition   float64 `json:"grid_position"`
	AvgQualiTime   float64 `json:"avg_quali_time"`
	WeatherCluster float64 `json:"weather_tire_cluster"`
	Soft           float64 `json:"soft"`
	Medium         float64 `json:"medium"`
	Hard           float64 `json:"hard"`
	Intermediate   float64 `json:"intermediate"`
	Wet            float64 `json:"wet"`
	RacesPrior     float64 `json:"races_prior_this_season"`
	Rain           string  `json:"rain,omitempty"`
	RainFlag       float64 `json:"rain_flag"`
	PointsProp     float64 `json:"points_prop"`
	AvgPitTime     float64 `json:"avg_pit_time,omitempty"`
	Status         string  `json:"status,omitempty"`
	Deviation      float64 `json:"deviation_s,omitempty"`
}

// HasTruth reports whether the row carries a known deviation-from-average.
func (r *Record) HasTruth() bool {
	return !math.IsNaN(r.Deviation)
}

// column is one entry in the declared input-schema mapping. Each logical
// column lists its accepted header names; resolution happens exactly once
// per file, at the boundary.
type column struct {
	logical    string
	candidates []string
	required   bool
}

var inputSchema = []column{
	{logical: "DriverNumber", candidates: []string{"DriverNumber", "driver_number", "Number"}, required: true},
	{logical: "GridPosition", candidates: []string{"GridPosition", "Grid"}, required: true},
	{logical: "Season", candidates: []string{"Season", "season", "Year", "year"}},
	{logical: "Round", candidates: []string{"Round", "RoundNumber", "round"}},
	{logical: "Driver", candidates: []string{"Driver", "Abbreviation", "DriverCode"}},
	{logical: "Team", candidates: []string{"Team", "TeamName"}},
	{logical: "AvgQualiTime", candidates: []string{"AvgQualiTime"}},
	{logical: "WeatherCluster", candidates: []string{"weather_tire_cluster"}},
	{logical: "SOFT", candidates: []string{"SOFT"}},
	{logical: "MEDIUM", candidates: []string{"MEDIUM"}},
	{logical: "HARD", candidates: []string{"HARD"}},
	{logical: "INTERMEDIATE", candidates: []string{"INTERMEDIATE"}},
	{logical: "WET", candidates: []string{"WET"}},
	{logical: "RacesPrior", candidates: []string{"races_prior_this_season"}},
	{logical: "Rain", candidates: []string{"Rain"}},
	{logical: "PointsProp", candidates: []string{"PointsProp"}},
	{logical: "AvgPitTime", candidates: []string{"AvgPitStopTime"}},
	{logical: "Status", candidates: []string{"Status"}},
	{logical: "Deviation", candidates: []string{"DeviationFromAvg_s"}},
}

// resolveHeader maps logical columns to header indexes. A required logical
// column with no matching candidate yields a SchemaError.
func resolveHeader(header []string) (map[string]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.TrimSpace(h)] = i
	}

	resolved := make(map[string]int, len(inputSchema))
	for _, c := range inputSchema {
		found := false
		for _, name := range c.candidates {
			if i, ok := pos[name]; ok {
				resolved[c.logical] = i
				found = true
				break
			}
		}
		if !found {
			if c.required {
				return nil, &SchemaError{Column: c.logical}
			}
			slog.Debug("optional column not present, using default", "column", c.logical)
		}
	}
	return resolved, nil
}

// ReadRecords loads the raw input table. Missing optional columns fall back
// to neutral defaults; malformed cells become NaN and are imputed later.
func ReadRecords(path string) ([]*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open input: %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse input CSV: %s", path)
	}
	if len(rows) == 0 {
		return nil, errors.Errorf("input has no header row: %s", path)
	}

	cols, err := resolveHeader(rows[0])
	if err != nil {
		return nil, err
	}

	_, pointsPresent := cols["PointsProp"]

	records := make([]*Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec := &Record{
			Row:            i,
			Season:         cellInt(row, cols, "Season"),
			Round:          cellInt(row, cols, "Round"),
			Driver:         cellString(row, cols, "Driver"),
			Team:           cellString(row, cols, "Team"),
			DriverNumber:   cellInt(row, cols, "DriverNumber"),
			GridPosition:   cellFloat(row, cols, "GridPosition"),
			AvgQualiTime:   cellFloat(row, cols, "AvgQualiTime"),
			WeatherCluster: cellFloat(row, cols, "WeatherCluster"),
			Soft:           cellFloat(row, cols, "SOFT"),
			Medium:         cellFloat(row, cols, "MEDIUM"),
			Hard:           cellFloat(row, cols, "HARD"),
			Intermediate:   cellFloat(row, cols, "INTERMEDIATE"),
			Wet:            cellFloat(row, cols, "WET"),
			RacesPrior:     cellFloat(row, cols, "RacesPrior"),
			Rain:           cellString(row, cols, "Rain"),
			PointsProp:     cellFloat(row, cols, "PointsProp"),
			AvgPitTime:     cellFloat(row, cols, "AvgPitTime"),
			Status:         cellString(row, cols, "Status"),
			Deviation:      cellFloat(row, cols, "Deviation"),
		}
		if !pointsPresent {
			rec.PointsProp = 0
		}
		if rec.Status == "" {
			rec.Status = "Finished"
		}
		records = append(records, rec)
	}

	return records, nil
}

func cellString(row []string, cols map[string]int, logical string) string {
	i, ok := cols[logical]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func cellFloat(row []string, cols map[string]int, logical string) float64 {
	s := cellString(row, cols, logical)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		slog.Debug("malformed numeric cell", "column", logical, "value", s)
		return math.NaN()
	}
	return v
}

func cellInt(row []string, cols map[string]int, logical string) int {
	v := cellFloat(row, cols, logical)
	if math.IsNaN(v) {
		return 0
	}
	return int(v)
}
