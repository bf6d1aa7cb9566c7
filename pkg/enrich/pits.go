package enrich

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"
)

// AvgPitTimeColumn is the column AppendPitTimes adds to the race table.
const AvgPitTimeColumn = "AvgPitStopTime"

// AvgPitTimes computes mean pit-stop seconds per driver for one event. The
// explicit pit time is preferred; when a session never records it the stop
// is reconstructed as PitOut minus PitIn. The map is keyed by both driver
// code and driver number so callers can match on either.
func AvgPitTimes(ctx context.Context, src SessionSource, season, round int) (map[string]float64, error) {
	laps, err := src.Laps(ctx, season, round)
	if err != nil {
		return nil, err
	}

	type acc struct {
		sum    float64
		n      int
		number int
	}
	byDriver := make(map[string]*acc)

	add := func(lap Lap, seconds float64) {
		a := byDriver[lap.Driver]
		if a == nil {
			a = &acc{}
			byDriver[lap.Driver] = a
		}
		a.sum += seconds
		a.n++
		if lap.DriverNumber > 0 {
			a.number = lap.DriverNumber
		}
	}

	explicit := false
	for _, lap := range laps {
		if !math.IsNaN(lap.PitTime) {
			explicit = true
			break
		}
	}
	for _, lap := range laps {
		if lap.Driver == "" {
			continue
		}
		if explicit {
			if !math.IsNaN(lap.PitTime) {
				add(lap, lap.PitTime)
			}
			continue
		}
		if !math.IsNaN(lap.PitIn) && !math.IsNaN(lap.PitOut) {
			add(lap, lap.PitOut-lap.PitIn)
		}
	}

	out := make(map[string]float64, len(byDriver)*2)
	for code, a := range byDriver {
		mean := a.sum / float64(a.n)
		out[code] = mean
		if a.number > 0 {
			out[strconv.Itoa(a.number)] = mean
		}
	}
	return out, nil
}

// AppendPitTimes adds the AvgPitStopTime column to the race table, matching
// each row by driver number first, then by driver code with the lossy
// fallback chain in MatchDriver. Rows with no match keep an empty cell.
func AppendPitTimes(ctx context.Context, src SessionSource, t *Table) error {
	sessions, err := t.sessions()
	if err != nil {
		return err
	}

	var mu sync.Mutex
	bySession := make(map[session]map[string]float64, len(sessions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sessionLoadConcurrency)
	for _, s := range sessions {
		g.Go(func() error {
			m, err := AvgPitTimes(gctx, src, s.Season, s.Round)
			if err != nil {
				slog.Warn("skipping session for pit times",
					"season", s.Season, "round", s.Round, "error", err)
				return nil
			}
			mu.Lock()
			bySession[s] = m
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	si, ri := t.seasonIndex(), t.roundIndex()
	di, ni := t.driverIndex(), t.driverNumberIndex()
	out := t.EnsureColumn(AvgPitTimeColumn)

	for _, row := range t.Rows {
		season, ok1 := cellInt(row[si])
		round, ok2 := cellInt(row[ri])
		if !ok1 || !ok2 {
			continue
		}
		pits := bySession[session{Season: season, Round: round}]
		if len(pits) == 0 {
			continue
		}

		if ni >= 0 {
			if num, ok := cellInt(row[ni]); ok {
				if v, found := pits[strconv.Itoa(num)]; found {
					row[out] = formatFloat(v)
					continue
				}
			}
		}
		if di >= 0 {
			keys := make([]string, 0, len(pits))
			for k := range pits {
				keys = append(keys, k)
			}
			if key, ok := MatchDriver(row[di], keys); ok {
				row[out] = formatFloat(pits[key])
			}
		}
	}
	return nil
}
