package app

import "tableflip.dev/daybook/pkg/entry"

// CompletionPolicy derives an entry's completed flag when it is saved.
type CompletionPolicy interface {
	Complete(e *entry.DayEntry) bool
}

// DefaultMinSections is how many sections Threshold requires when Min is
// unset.
const DefaultMinSections = 2

// Threshold marks a day complete once at least Min of its sections have
// content. The sections are scripture study, gratitude, check-in, daily
// intention, leadership rating and goals.
//
// This is a heuristic completeness signal for streak displays, not
// validation. Nothing rejects an entry that falls short.
type Threshold struct {
	Min int
}

// Complete implements CompletionPolicy.
func (t Threshold) Complete(e *entry.DayEntry) bool {
	want := t.Min
	if want <= 0 {
		want = DefaultMinSections
	}
	return SectionsPresent(e) >= want
}

// SectionsPresent counts the sections of e that have content.
func SectionsPresent(e *entry.DayEntry) int {
	if e == nil {
		return 0
	}
	n := 0
	for _, present := range []bool{
		!e.SOAP.IsEmpty(),
		e.HasGratitude(),
		!e.CheckIn.IsEmpty(),
		!blank(e.DailyIntention),
		e.LeadershipRating > 0,
		e.Goals.Len() > 0,
	} {
		if present {
			n++
		}
	}
	return n
}

// TotalSections is the number of sections SectionsPresent inspects.
const TotalSections = 6
