package app

import (
	"context"
	"sort"

	"tableflip.dev/daybook/pkg/entry"
	"tableflip.dev/daybook/pkg/goals"
)

// ReportDay summarizes one journaled day.
type ReportDay struct {
	Entry      *entry.DayEntry `json:"entry" yaml:"entry"`
	Sections   int             `json:"sections" yaml:"sections"`
	GoalsDone  int             `json:"goalsDone" yaml:"goalsDone"`
	GoalsTotal int             `json:"goalsTotal" yaml:"goalsTotal"`
	// PlanDay is the active plan's current day as recorded that day, or 0.
	PlanDay int `json:"planDay,omitempty" yaml:"planDay,omitempty"`
}

// ReportResult covers the journaled days between two dates, newest first.
type ReportResult struct {
	Since     entry.Date  `json:"since" yaml:"since"`
	Until     entry.Date  `json:"until" yaml:"until"`
	Days      []ReportDay `json:"days" yaml:"days"`
	Completed int         `json:"completed" yaml:"completed"`
}

// Report returns the entries between since and until inclusive. Goals
// tombstoned anywhere are left out of the counts.
func (s *Service) Report(ctx context.Context, user string, since, until entry.Date) (ReportResult, error) {
	if since.After(until) {
		since, until = until, since
	}
	all, err := s.entries(ctx, user)
	if err != nil {
		return ReportResult{}, err
	}
	tombstones := goals.CollectTombstones(all)

	result := ReportResult{Since: since, Until: until}
	for _, e := range all {
		if e == nil || !e.Date.Between(since, until) {
			continue
		}
		day := ReportDay{Entry: e.Clone(), Sections: SectionsPresent(e)}
		for _, kind := range entry.AllKinds() {
			for _, g := range e.Goals.List(kind) {
				if tombstones.Has(g.ID) {
					continue
				}
				day.GoalsTotal++
				if g.Completed {
					day.GoalsDone++
				}
			}
		}
		if e.ReadingPlan != nil {
			day.PlanDay = e.ReadingPlan.CurrentDay
		}
		if e.Completed {
			result.Completed++
		}
		result.Days = append(result.Days, day)
	}

	sort.SliceStable(result.Days, func(i, j int) bool {
		return result.Days[i].Entry.Date.After(result.Days[j].Entry.Date)
	})
	return result, nil
}
