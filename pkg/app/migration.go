package app

import (
	"context"
	"strings"

	"tableflip.dev/daybook/pkg/entry"
	"tableflip.dev/daybook/pkg/goals"
)

// DefaultCarryOverDays is how far back CarryOverCandidates looks when no
// window is given.
const DefaultCarryOverDays = 7

// CarryOverCandidate is an unfinished daily goal from an earlier day.
type CarryOverCandidate struct {
	Goal entry.Goal
	From entry.Date
}

// CarryOverCandidates returns the open daily goals of the most recent entry
// before date, looking back at most days days. Tombstoned goals and goals
// whose text already appears on date are skipped.
func (s *Service) CarryOverCandidates(ctx context.Context, user string, date entry.Date, days int) ([]CarryOverCandidate, error) {
	if date.IsZero() {
		return nil, entry.ErrInvalidDate
	}
	if days <= 0 {
		days = DefaultCarryOverDays
	}
	all, err := s.entries(ctx, user)
	if err != nil {
		return nil, err
	}
	tombstones := goals.CollectTombstones(all)

	var (
		source *entry.DayEntry
		today  *entry.DayEntry
	)
	earliest := date.AddDays(-days)
	for _, e := range all {
		if e == nil {
			continue
		}
		if e.Date == date {
			today = e
			continue
		}
		if e.Date.Before(date) && !e.Date.Before(earliest) && (source == nil || e.Date.After(source.Date)) {
			source = e
		}
	}
	if source == nil {
		return nil, nil
	}

	present := make(map[string]struct{})
	if today != nil {
		for _, g := range today.Goals.Daily {
			present[textKey(g.Text)] = struct{}{}
		}
	}

	var out []CarryOverCandidate
	for _, g := range source.Goals.Daily {
		if g.Completed || g.ID.IsZero() || tombstones.Has(g.ID) {
			continue
		}
		if _, dup := present[textKey(g.Text)]; dup {
			continue
		}
		out = append(out, CarryOverCandidate{Goal: g, From: source.Date})
	}
	return out, nil
}

func textKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
