package enrich

import (
	"sort"
	"strings"
)

// matchCutoff is the minimum normalized similarity for the closest-string
// fallback, matching the ingestion scripts' fuzzy threshold.
const matchCutoff = 0.6

func normalizeCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// MatchDriver resolves a driver label against a candidate key set: exact
// match first, then the leading and trailing 3-character fragments (full
// names collapse to their code, "VERSTAPPEN" matches "VER"), then the
// closest candidate by normalized edit distance. Candidates are compared
// in sorted order so ties resolve the same way every run. Returns ok=false
// when nothing clears the cutoff.
func MatchDriver(key string, candidates []string) (string, bool) {
	k := normalizeCode(key)
	if k == "" || len(candidates) == 0 {
		return "", false
	}

	sorted := make([]string, len(candidates))
	copy(sorted, candidates)
	sort.Strings(sorted)

	for _, c := range sorted {
		if normalizeCode(c) == k {
			return c, true
		}
	}

	if len(k) >= 3 {
		frags := []string{k[:3], k[len(k)-3:]}
		for _, f := range frags {
			for _, c := range sorted {
				if normalizeCode(c) == f {
					return c, true
				}
			}
		}
	}

	best, bestScore := "", 0.0
	for _, c := range sorted {
		if s := similarity(k, normalizeCode(c)); s > bestScore {
			best, bestScore = c, s
		}
	}
	if bestScore >= matchCutoff {
		return best, true
	}
	return "", false
}

// similarity is 1 minus the Levenshtein distance normalized by the longer
// string.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(a, b))/float64(longest)
}

func levenshtein(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
