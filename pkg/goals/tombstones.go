// Package goals derives the current daily, weekly and monthly goal lists from
// the goal snapshots and tombstones scattered across a user's day entries.
package goals

import "tableflip.dev/daybook/pkg/entry"

// CollectTombstones unions every deleted goal id recorded on any entry. Ids
// are already canonical once decoded, so numeric and textual forms of the
// same id collapse into one member.
func CollectTombstones(entries []*entry.DayEntry) entry.IDSet {
	out := entry.IDSet{}
	for _, e := range entries {
		if e == nil {
			continue
		}
		for _, id := range e.DeletedGoalIDs {
			out.Add(entry.NormalizeID(string(id)))
		}
	}
	return out
}
