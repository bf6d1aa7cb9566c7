package enrich

import (
	"strconv"

	"github.com/pkg/errors"
)

// AvgQualiTimeColumn is the column MergeQuali adds to the race table.
const AvgQualiTimeColumn = "AvgQualiTime"

func eventKey(season, round int) string {
	return strconv.Itoa(season) + "|" + strconv.Itoa(round)
}

// MergeQuali left-joins qualifying times onto the race table by
// (season, round, driver code). Race rows with no qualifying entry keep an
// empty cell.
func MergeQuali(race, quali *Table) error {
	qs, qr, qd := quali.seasonIndex(), quali.roundIndex(), quali.driverIndex()
	qv := quali.Index(AvgQualiTimeColumn)
	if qs < 0 || qr < 0 || qd < 0 || qv < 0 {
		return errors.New("qualifying table is missing Season, Round, Driver or AvgQualiTime columns")
	}

	times := make(map[string]string, len(quali.Rows))
	for _, row := range quali.Rows {
		season, ok1 := cellInt(row[qs])
		round, ok2 := cellInt(row[qr])
		if !ok1 || !ok2 {
			continue
		}
		times[eventKey(season, round)+"|"+normalizeCode(row[qd])] = row[qv]
	}

	rs, rr, rd := race.seasonIndex(), race.roundIndex(), race.driverIndex()
	if rs < 0 || rr < 0 || rd < 0 {
		return errors.New("race table is missing season, round or driver columns")
	}
	out := race.EnsureColumn(AvgQualiTimeColumn)

	for _, row := range race.Rows {
		season, ok1 := cellInt(row[rs])
		round, ok2 := cellInt(row[rr])
		if !ok1 || !ok2 {
			continue
		}
		if v, ok := times[eventKey(season, round)+"|"+normalizeCode(row[rd])]; ok {
			row[out] = v
		}
	}
	return nil
}

// MergeWeather left-joins per-event weather columns onto the race table by
// (season, round). Every non-key weather column is carried over; a name
// already present on the race side gets a "_weather" suffix.
func MergeWeather(race, weather *Table) error {
	ws, wr := weather.seasonIndex(), weather.roundIndex()
	if ws < 0 || wr < 0 {
		return errors.New("weather table is missing season or round columns")
	}

	var valueCols []int
	for i := range weather.Columns {
		if i != ws && i != wr {
			valueCols = append(valueCols, i)
		}
	}

	byEvent := make(map[string][]string, len(weather.Rows))
	for _, row := range weather.Rows {
		season, ok1 := cellInt(row[ws])
		round, ok2 := cellInt(row[wr])
		if !ok1 || !ok2 {
			continue
		}
		vals := make([]string, len(valueCols))
		for i, c := range valueCols {
			vals[i] = row[c]
		}
		byEvent[eventKey(season, round)] = vals
	}

	rs, rr := race.seasonIndex(), race.roundIndex()
	if rs < 0 || rr < 0 {
		return errors.New("race table is missing season or round columns")
	}

	outCols := make([]int, len(valueCols))
	for i, c := range valueCols {
		name := weather.Columns[c]
		if race.Index(name) >= 0 {
			name += "_weather"
		}
		outCols[i] = race.EnsureColumn(name)
	}

	for _, row := range race.Rows {
		season, ok1 := cellInt(row[rs])
		round, ok2 := cellInt(row[rr])
		if !ok1 || !ok2 {
			continue
		}
		vals, ok := byEvent[eventKey(season, round)]
		if !ok {
			continue
		}
		for i, c := range outCols {
			row[c] = vals[i]
		}
	}
	return nil
}
