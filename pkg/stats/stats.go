// Package stats computes journaling streaks and completion rate from entry
// dates. Every function is pure and returns zero for empty input.
package stats

import (
	"math"
	"sort"

	"tableflip.dev/daybook/pkg/entry"
)

// Summary bundles the three statistics shown to the user.
type Summary struct {
	CurrentStreak  int `json:"currentStreak" yaml:"currentStreak"`
	LongestStreak  int `json:"longestStreak" yaml:"longestStreak"`
	CompletionRate int `json:"completionRate" yaml:"completionRate"`
	TotalEntries   int `json:"totalEntries" yaml:"totalEntries"`
}

// Compute derives the summary for entries as of today.
func Compute(entries []*entry.DayEntry, today entry.Date) Summary {
	dates := Dates(entries)
	return Summary{
		CurrentStreak:  CurrentStreak(dates, today),
		LongestStreak:  LongestStreak(dates),
		CompletionRate: CompletionRate(dates, today),
		TotalEntries:   len(dates),
	}
}

// Dates returns the unique entry dates, newest first.
func Dates(entries []*entry.DayEntry) []entry.Date {
	seen := make(map[entry.Date]struct{}, len(entries))
	out := make([]entry.Date, 0, len(entries))
	for _, e := range entries {
		if e == nil || e.Date.IsZero() {
			continue
		}
		if _, ok := seen[e.Date]; ok {
			continue
		}
		seen[e.Date] = struct{}{}
		out = append(out, e.Date)
	}
	return descending(out)
}

func descending(dates []entry.Date) []entry.Date {
	sorted := append([]entry.Date(nil), dates...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].After(sorted[j]) })
	// Drop duplicates so callers may pass raw dates.
	out := sorted[:0]
	for _, d := range sorted {
		if len(out) > 0 && d == out[len(out)-1] {
			continue
		}
		out = append(out, d)
	}
	return out
}

// CurrentStreak counts consecutive days with an entry ending today, or ending
// yesterday when today has no entry yet. Any missing day stops the count.
// Dates after today are ignored.
func CurrentStreak(dates []entry.Date, today entry.Date) int {
	sorted := descending(dates)
	expected := today.AddDays(-1)
	for _, d := range sorted {
		if d == today {
			expected = today
			break
		}
	}

	streak := 0
	for _, d := range sorted {
		if d.After(expected) {
			continue
		}
		if d != expected {
			break
		}
		streak++
		expected = expected.AddDays(-1)
	}
	return streak
}

// LongestStreak returns the longest run of consecutive days with an entry.
func LongestStreak(dates []entry.Date) int {
	sorted := descending(dates)
	if len(sorted) == 0 {
		return 0
	}
	longest, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].DaysSince(sorted[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// CompletionRate is the percentage of days since the first entry that have
// an entry, rounded to the nearest integer. Dates after today do not count,
// and the result never exceeds 100.
func CompletionRate(dates []entry.Date, today entry.Date) int {
	var past []entry.Date
	for _, d := range descending(dates) {
		if !d.After(today) {
			past = append(past, d)
		}
	}
	if len(past) == 0 {
		return 0
	}
	earliest := past[len(past)-1]
	span := today.DaysSince(earliest) + 1
	rate := int(math.Round(float64(len(past)) / float64(span) * 100))
	if rate > 100 {
		rate = 100
	}
	return rate
}
