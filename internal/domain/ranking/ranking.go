// Package ranking orders score records into the leaderboard.
//
// Ordering: wpm DESC, then accuracy DESC. Exact ties keep their input order,
// so the result is a deterministic function of the stored collection.
package ranking

import (
	"cmp"
	"slices"
	"strings"

	"github.com/okian/typerank/internal/domain/score"
	"github.com/okian/typerank/internal/domain/types"
)

// Compare reports whether a ranks before (-1), after (1) or level with (0) b.
func Compare(a, b score.Record) int {
	if c := cmp.Compare(b.WPM, a.WPM); c != 0 {
		return c
	}
	return cmp.Compare(b.Accuracy, a.Accuracy)
}

// Rank returns a new slice holding records in leaderboard order. The input is
// left untouched.
func Rank(records []score.Record) []score.Record {
	ranked := slices.Clone(records)
	if ranked == nil {
		ranked = []score.Record{}
	}
	slices.SortStableFunc(ranked, Compare)
	return ranked
}

// Find returns the placement of the first ranked record whose name matches
// name case-insensitively.
func Find(ranked []score.Record, name string) (types.Placement, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Placement{}, false
	}
	for i, rec := range ranked {
		if strings.EqualFold(strings.TrimSpace(rec.Name), name) {
			return types.Placement{Rank: i + 1, Record: rec, TotalPlayers: len(ranked)}, true
		}
	}
	return types.Placement{}, false
}
