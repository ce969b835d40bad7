package goals

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"tableflip.dev/daybook/pkg/entry"
	"tableflip.dev/daybook/pkg/timeutil"
)

// Resolution decides which snapshot wins when two entries inside the same
// window carry a goal with the same id but different content.
type Resolution string

const (
	// FirstSeen keeps the goal from the first entry in scan order. Entries
	// are scanned in the order the caller supplied them.
	FirstSeen Resolution = "first-seen"
	// LatestEntry scans entries newest date first, so the most recent
	// snapshot of a duplicated id wins.
	LatestEntry Resolution = "latest-entry"
)

// ParseResolution converts a config string to a Resolution. Empty input
// yields FirstSeen.
func ParseResolution(raw string) (Resolution, error) {
	switch r := Resolution(strings.ToLower(strings.TrimSpace(raw))); r {
	case "":
		return FirstSeen, nil
	case FirstSeen, LatestEntry:
		return r, nil
	}
	return FirstSeen, fmt.Errorf("goals: unknown resolution %q (expected %s or %s)", raw, FirstSeen, LatestEntry)
}

// Aggregator computes the current goal view for a reference date. The zero
// value is ready to use.
type Aggregator struct {
	// Log receives validation warnings and invariant violations. Nil uses
	// log.Default().
	Log        *log.Logger
	Resolution Resolution
}

func (a Aggregator) logf(format string, args ...any) {
	l := a.Log
	if l == nil {
		l = log.Default()
	}
	l.Printf(format, args...)
}

// Aggregate returns the daily, weekly and monthly goals visible on ref.
//
// Daily goals come only from current, the goals of the entry dated ref.
// Weekly and monthly goals start from current and are extended with the
// snapshots of every other entry inside the matching window. No goal whose
// id is tombstoned anywhere in entries is returned, and each id appears at
// most once per list.
func (a Aggregator) Aggregate(entries []*entry.DayEntry, ref entry.Date, current entry.Goals) entry.Goals {
	tombstones := CollectTombstones(entries)
	windows := timeutil.WindowsFor(ref)

	out := entry.Goals{
		Daily:   a.admit(entry.Daily, ref, current.Daily, tombstones, nil),
		Weekly:  []entry.Goal{},
		Monthly: []entry.Goal{},
	}

	seenWeekly := entry.IDSet{}
	out.Weekly = a.admit(entry.Weekly, ref, current.Weekly, tombstones, seenWeekly)
	seenMonthly := entry.IDSet{}
	out.Monthly = a.admit(entry.Monthly, ref, current.Monthly, tombstones, seenMonthly)

	for _, e := range a.scanOrder(entries) {
		if e == nil || e.Date == ref {
			continue
		}
		if windows.InWeek(e.Date) {
			out.Weekly = append(out.Weekly, a.admit(entry.Weekly, e.Date, e.Goals.Weekly, tombstones, seenWeekly)...)
		}
		if windows.InMonth(e.Date) {
			out.Monthly = append(out.Monthly, a.admit(entry.Monthly, e.Date, e.Goals.Monthly, tombstones, seenMonthly)...)
		}
	}
	return out
}

// admit filters goals from one source, dropping invalid, tombstoned and
// already seen ids. A nil seen set disables cross-source dedup.
func (a Aggregator) admit(kind entry.Kind, from entry.Date, goals []entry.Goal, tombstones, seen entry.IDSet) []entry.Goal {
	out := make([]entry.Goal, 0, len(goals))
	local := entry.IDSet{}
	for _, g := range goals {
		if g.ID.IsZero() {
			a.logf("goals: dropping %s goal %q from %s: %v", kind, g.Text, from, entry.ErrMissingID)
			continue
		}
		if tombstones.Has(g.ID) {
			a.logf("goals: filtering tombstoned %s goal %s resurfaced on %s", kind, g.ID, from)
			continue
		}
		if local.Has(g.ID) || (seen != nil && seen.Has(g.ID)) {
			continue
		}
		local.Add(g.ID)
		if seen != nil {
			seen.Add(g.ID)
		}
		out = append(out, g)
	}
	return out
}

func (a Aggregator) scanOrder(entries []*entry.DayEntry) []*entry.DayEntry {
	if a.Resolution != LatestEntry {
		return entries
	}
	ordered := make([]*entry.DayEntry, 0, len(entries))
	for _, e := range entries {
		if e != nil {
			ordered = append(ordered, e)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.After(ordered[j].Date)
	})
	return ordered
}

// Aggregate runs a zero-value Aggregator.
func Aggregate(entries []*entry.DayEntry, ref entry.Date, current entry.Goals) entry.Goals {
	return Aggregator{}.Aggregate(entries, ref, current)
}

// CurrentGoals finds the entry dated ref among entries and aggregates its
// goals. A missing entry aggregates from empty current goals.
func (a Aggregator) CurrentGoals(entries []*entry.DayEntry, ref entry.Date) entry.Goals {
	var current entry.Goals
	for _, e := range entries {
		if e != nil && e.Date == ref {
			current = e.Goals
			break
		}
	}
	return a.Aggregate(entries, ref, current)
}
