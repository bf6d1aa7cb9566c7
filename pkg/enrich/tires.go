package enrich

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Compounds in the order their columns appear in the enriched file.
var Compounds = []string{"SOFT", "MEDIUM", "HARD", "INTERMEDIATE", "WET"}

const sessionLoadConcurrency = 4

// Proportions holds the share of race laps a driver spent on each
// compound. The shares sum to 1 for drivers with any classified laps.
type Proportions map[string]float64

// TireProportions computes per-driver compound proportions for one event.
// Laps without a stint or compound are dropped, and stints on the same
// compound are summed before dividing by the driver's total.
func TireProportions(ctx context.Context, src SessionSource, season, round int) (map[string]Proportions, error) {
	laps, err := src.Laps(ctx, season, round)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]map[string]int)
	totals := make(map[string]int)
	for _, lap := range laps {
		if lap.Compound == "" || lap.Stint <= 0 || lap.Driver == "" {
			continue
		}
		if counts[lap.Driver] == nil {
			counts[lap.Driver] = make(map[string]int)
		}
		counts[lap.Driver][lap.Compound]++
		totals[lap.Driver]++
	}

	out := make(map[string]Proportions, len(counts))
	for driver, byCompound := range counts {
		p := make(Proportions, len(Compounds))
		for _, c := range Compounds {
			p[c] = float64(byCompound[c]) / float64(totals[driver])
		}
		out[driver] = p
	}
	return out, nil
}

// AppendTireData joins compound proportions onto the race table by
// (season, round, driver code). Sessions load concurrently; a session that
// fails to load is skipped and its rows stay zero-filled.
func AppendTireData(ctx context.Context, src SessionSource, t *Table) error {
	sessions, err := t.sessions()
	if err != nil {
		return err
	}

	var mu sync.Mutex
	bySession := make(map[session]map[string]Proportions, len(sessions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sessionLoadConcurrency)
	for _, s := range sessions {
		g.Go(func() error {
			p, err := TireProportions(gctx, src, s.Season, s.Round)
			if err != nil {
				slog.Warn("skipping session for tire data",
					"season", s.Season, "round", s.Round, "error", err)
				return nil
			}
			mu.Lock()
			bySession[s] = p
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	si, ri, di := t.seasonIndex(), t.roundIndex(), t.driverIndex()
	cols := make([]int, len(Compounds))
	for i, c := range Compounds {
		cols[i] = t.EnsureColumn(c)
	}

	for _, row := range t.Rows {
		var p Proportions
		season, ok1 := cellInt(row[si])
		round, ok2 := cellInt(row[ri])
		if ok1 && ok2 && di >= 0 {
			p = bySession[session{Season: season, Round: round}][normalizeCode(row[di])]
		}
		for i, c := range Compounds {
			row[cols[i]] = formatFloat(p[c])
		}
	}
	return nil
}
