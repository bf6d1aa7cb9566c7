package score

import (
	"log/slog"
	"math"
	"strings"
)

const statusLapped = "lapped"

// Exclusion records an input row that was dropped before scoring, with the
// reason, so callers can report it alongside the predictions.
type Exclusion struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// NormalizeRain coerces a free-text rain indicator to a binary flag.
// Negative forms ("no rain", "NoRain", "none", empty) map to 0, anything
// mentioning rain maps to 1, and ambiguous tokens resolve to 0.
func NormalizeRain(token string) float64 {
	s := strings.ToLower(strings.TrimSpace(token))
	switch s {
	case "", "nan", "none":
		return 0
	}
	if strings.HasPrefix(s, "no") {
		return 0
	}
	if strings.Contains(s, "rain") {
		return 1
	}
	return 0
}

// Reconstruct derives the feature columns the fitted transform expects:
// the rain flag, neutral defaults for absent optionals, and the exclusion
// of rows whose status semantics differ from the training target.
// An input where every row is excluded is not an error.
func Reconstruct(records []*Record) (scorable []*Record, excluded []Exclusion) {
	scorable = make([]*Record, 0, len(records))
	for _, r := range records {
		if strings.EqualFold(strings.TrimSpace(r.Status), statusLapped) {
			excluded = append(excluded, Exclusion{Row: r.Row, Reason: "status " + r.Status})
			continue
		}

		r.RainFlag = NormalizeRain(r.Rain)
		if math.IsNaN(r.PointsProp) {
			r.PointsProp = 0
		}
		scorable = append(scorable, r)
	}

	if len(excluded) > 0 {
		slog.Debug("excluded rows from scoring", "count", len(excluded))
	}
	return scorable, excluded
}
