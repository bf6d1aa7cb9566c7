package enrich

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Lap is one timing row from a race session. Pit fields are seconds, NaN
// when the session did not record them.
type Lap struct {
	Season       int
	Round        int
	Driver       string
	DriverNumber int
	Stint        int
	Compound     string
	LapNumber    int
	PitTime      float64
	PitIn        float64
	PitOut       float64
}

// SessionSource yields the lap rows for one race event. Implementations
// are expected to be safe for concurrent use.
type SessionSource interface {
	Laps(ctx context.Context, season, round int) ([]Lap, error)
}

// CSVSource serves laps from a single exported timing file covering one or
// more sessions.
type CSVSource struct {
	laps []Lap
}

// NewCSVSource reads the whole timing file up front. Season, Round and
// Driver columns are required; everything else degrades to zero or NaN.
func NewCSVSource(path string) (*CSVSource, error) {
	t, err := ReadTable(path)
	if err != nil {
		return nil, err
	}

	si, ri, di := t.seasonIndex(), t.roundIndex(), t.driverIndex()
	if si < 0 || ri < 0 || di < 0 {
		return nil, errors.Errorf("timing file is missing season, round or driver columns: %s", path)
	}
	ni := t.driverNumberIndex()
	sti := t.Index("Stint")
	ci := t.Index("Compound")
	li := t.IndexAny("LapNumber", "Lap")
	pti := t.Index("PitTime")
	pii := t.Index("PitInTime")
	poi := t.Index("PitOutTime")

	src := &CSVSource{laps: make([]Lap, 0, len(t.Rows))}
	for _, row := range t.Rows {
		season, ok1 := cellInt(row[si])
		round, ok2 := cellInt(row[ri])
		if !ok1 || !ok2 {
			continue
		}
		lap := Lap{
			Season:  season,
			Round:   round,
			Driver:  strings.ToUpper(strings.TrimSpace(row[di])),
			PitTime: math.NaN(),
			PitIn:   math.NaN(),
			PitOut:  math.NaN(),
		}
		if ni >= 0 {
			lap.DriverNumber, _ = cellInt(row[ni])
		}
		if sti >= 0 {
			lap.Stint, _ = cellInt(row[sti])
		}
		if ci >= 0 {
			lap.Compound = strings.ToUpper(strings.TrimSpace(row[ci]))
		}
		if li >= 0 {
			lap.LapNumber, _ = cellInt(row[li])
		}
		if pti >= 0 {
			lap.PitTime = parseSeconds(row[pti])
		}
		if pii >= 0 {
			lap.PitIn = parseSeconds(row[pii])
		}
		if poi >= 0 {
			lap.PitOut = parseSeconds(row[poi])
		}
		src.laps = append(src.laps, lap)
	}
	return src, nil
}

// Laps filters the preloaded rows down to one event.
func (s *CSVSource) Laps(ctx context.Context, season, round int) ([]Lap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []Lap
	for _, lap := range s.laps {
		if lap.Season == season && lap.Round == round {
			out = append(out, lap)
		}
	}
	return out, nil
}

// parseSeconds accepts plain seconds ("23.456") or a duration literal
// ("23.456s", "1m2s"). Anything else is NaN.
func parseSeconds(s string) float64 {
	v := strings.TrimSpace(s)
	if v == "" {
		return math.NaN()
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d.Seconds()
	}
	return math.NaN()
}
