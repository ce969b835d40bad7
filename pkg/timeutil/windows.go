package timeutil

import (
	"time"

	"tableflip.dev/daybook/pkg/entry"
)

// Windows are the canonical period ranges containing a reference date.
type Windows struct {
	WeekStart  entry.Date
	WeekEnd    entry.Date
	MonthStart entry.Date
	MonthEnd   entry.Date
}

// WindowsFor computes the Monday–Sunday week and the calendar month that
// contain ref.
func WindowsFor(ref entry.Date) Windows {
	weekday := int(ref.Weekday())
	daysToMonday := 1 - weekday
	if ref.Weekday() == time.Sunday {
		daysToMonday = -6
	}
	weekStart := ref.AddDays(daysToMonday)
	monthStart := entry.NewDate(ref.Year, ref.Month, 1)
	return Windows{
		WeekStart:  weekStart,
		WeekEnd:    weekStart.AddDays(6),
		MonthStart: monthStart,
		MonthEnd:   entry.NewDate(ref.Year, ref.Month+1, 0),
	}
}

// InWeek reports whether d falls inside the week window.
func (w Windows) InWeek(d entry.Date) bool {
	return d.Between(w.WeekStart, w.WeekEnd)
}

// InMonth reports whether d falls inside the month window.
func (w Windows) InMonth(d entry.Date) bool {
	return d.Between(w.MonthStart, w.MonthEnd)
}
