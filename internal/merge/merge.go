// Package merge consolidates candidate events from every source into the
// canonical store. It is the single dedup/windowing/ordering path: no
// adapter carries its own copy of this logic.
package merge

import (
	"sort"

	"github.com/rxwatch/catalyst/internal/model"
)

// Merge folds candidates into existing and returns the updated store plus
// the number of candidates accepted.
//
// Stale existing events (dated before cutoff) are discarded first and do
// not block a candidate from reusing their signature. Candidates are taken
// in input order; a candidate loses to any event already holding its
// signature, whether pre-existing or accepted earlier in the same batch.
// The result is re-filtered against cutoff, then sorted ascending by date
// with unknown-date events last.
//
// Merging the same batch twice against the same store is a no-op the second
// time: the store comes back identical and the count is zero.
func Merge(existing []model.Event, candidates []model.Event, cutoff string) ([]model.Event, int) {
	seen := make(map[string]struct{}, len(existing))
	merged := make([]model.Event, 0, len(existing)+len(candidates))

	for _, ev := range existing {
		if ev.BeforeCutoff(cutoff) {
			continue
		}
		merged = append(merged, ev)
		seen[ev.Signature()] = struct{}{}
	}

	added := 0
	for _, ev := range candidates {
		if ev.BeforeCutoff(cutoff) {
			continue
		}
		sig := ev.Signature()
		if _, dup := seen[sig]; dup {
			continue
		}
		seen[sig] = struct{}{}
		merged = append(merged, ev)
		added++
	}

	// Re-assert the window on the combined slice. Redundant with the loops
	// above, but the store write that follows must never carry a stale
	// entry regardless of how this function evolves.
	out := merged[:0]
	for _, ev := range merged {
		if !ev.BeforeCutoff(cutoff) {
			out = append(out, ev)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortKey() < out[j].SortKey()
	})

	return out, added
}
