package readingplan

import "tableflip.dev/daybook/pkg/entry"

// Status is the lifecycle state of a plan record.
type Status string

const (
	NotStarted Status = "not-started"
	InProgress Status = "in-progress"
	Completed  Status = "completed"
)

// StatusOf classifies p. A nil record has not started.
func StatusOf(p *entry.Progress) Status {
	switch {
	case p == nil:
		return NotStarted
	case p.TotalDays > 0 && len(p.CompletedDays) >= p.TotalDays:
		return Completed
	case len(p.CompletedDays) == 0 && p.CurrentDay <= 1:
		return NotStarted
	}
	return InProgress
}

// Advance completes the current day and moves to the next one. It is a no-op
// on the last day; callers check bounds first but may call it redundantly.
// Reports whether p changed.
func Advance(p *entry.Progress) bool {
	if p == nil || p.CurrentDay >= p.TotalDays {
		return false
	}
	markDay(p, p.CurrentDay)
	p.CurrentDay++
	return true
}

// Retreat steps back one day without un-completing anything. It is a no-op
// on the first day.
func Retreat(p *entry.Progress) bool {
	if p == nil || p.CurrentDay <= 1 {
		return false
	}
	p.CurrentDay--
	return true
}

// MarkCurrentDayComplete records the current day as read without moving.
// Idempotent.
func MarkCurrentDayComplete(p *entry.Progress) bool {
	if p == nil {
		return false
	}
	return markDay(p, p.CurrentDay)
}

// Restart resets the plan to day one with nothing completed, keeping its
// identity and length.
func Restart(p *entry.Progress, today entry.Date) bool {
	if p == nil {
		return false
	}
	changed := p.CurrentDay != 1 || len(p.CompletedDays) != 0 || p.StartDate != today
	p.CurrentDay = 1
	p.CompletedDays = entry.DaySet{}
	p.StartDate = today
	return changed
}

func markDay(p *entry.Progress, day int) bool {
	if p.CompletedDays == nil {
		p.CompletedDays = entry.DaySet{}
	}
	if p.CompletedDays.Has(day) {
		return false
	}
	p.CompletedDays[day] = struct{}{}
	return true
}

// Percent returns the share of completed days, rounded down.
func Percent(p *entry.Progress) int {
	if p == nil || p.TotalDays <= 0 {
		return 0
	}
	return len(p.CompletedDays) * 100 / p.TotalDays
}
