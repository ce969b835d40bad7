// Package readingplan resolves authoritative reading plan progress from the
// records duplicated across day entries and implements the per-plan state
// transitions.
package readingplan

import (
	"strings"

	"tableflip.dev/daybook/pkg/entry"
)

// ResolveProgress scans every plan record on every entry and returns a copy
// of the furthest-advanced record for planID: the one with the most completed
// days, ties going to the most recent entry date. Records with no completed
// days never qualify, so a freshly started record on one device cannot
// override progress made on another. Start dates play no part, so a
// device that began the plan later never hides further progress made
// elsewhere. Returns nil when nothing qualifies.
func ResolveProgress(entries []*entry.DayEntry, planID string) *entry.Progress {
	planID = strings.TrimSpace(planID)
	if planID == "" {
		return nil
	}

	var (
		best     *entry.Progress
		bestDate entry.Date
	)
	for _, e := range entries {
		if e == nil {
			continue
		}
		for _, p := range e.Plans() {
			if p.PlanID != planID || len(p.CompletedDays) == 0 {
				continue
			}
			switch {
			case best == nil,
				len(p.CompletedDays) > len(best.CompletedDays),
				len(p.CompletedDays) == len(best.CompletedDays) && e.Date.After(bestDate):
				best, bestDate = p, e.Date
			}
		}
	}
	if best == nil {
		return nil
	}
	out := best.Clone()
	out.Normalize()
	return out
}

// Latest returns a copy of the record for planID on the newest entry that
// carries one, whether or not it has progress. Returns nil when no entry
// mentions the plan.
func Latest(entries []*entry.DayEntry, planID string) *entry.Progress {
	var (
		latest *entry.Progress
		when   entry.Date
	)
	for _, e := range entries {
		if e == nil {
			continue
		}
		for _, p := range e.Plans() {
			if p.PlanID == planID && (latest == nil || e.Date.After(when)) {
				latest, when = p, e.Date
			}
		}
	}
	return latest.Clone()
}

// Fresh returns a not-yet-started record for plan beginning on today.
func Fresh(plan Plan, today entry.Date) *entry.Progress {
	p := &entry.Progress{
		PlanID:        plan.ID,
		PlanName:      plan.Name,
		CurrentDay:    1,
		TotalDays:     plan.Days,
		StartDate:     today,
		CompletedDays: entry.DaySet{},
	}
	p.Normalize()
	return p
}

// ResumeOrStart resolves progress for plan from entries. Without qualifying
// progress it keeps the newest record for the plan, so a position reached
// without completing anything survives, and otherwise starts fresh. Catalog
// metadata wins over stored name and length so a renamed plan shows its
// current name.
func ResumeOrStart(entries []*entry.DayEntry, plan Plan, today entry.Date) *entry.Progress {
	p := ResolveProgress(entries, plan.ID)
	if p == nil {
		p = Latest(entries, plan.ID)
	}
	if p == nil {
		return Fresh(plan, today)
	}
	if plan.Name != "" {
		p.PlanName = plan.Name
	}
	if plan.Days > 0 && plan.Days != p.TotalDays {
		p.TotalDays = plan.Days
		p.Normalize()
	}
	return p
}

// Active returns the id of the plan most recently recorded as active, looking
// at the newest entry that carries one.
func Active(entries []*entry.DayEntry) string {
	var (
		id   string
		when entry.Date
	)
	for _, e := range entries {
		if e == nil || e.ReadingPlan == nil || e.ReadingPlan.PlanID == "" {
			continue
		}
		if id == "" || e.Date.After(when) {
			id, when = e.ReadingPlan.PlanID, e.Date
		}
	}
	return id
}
