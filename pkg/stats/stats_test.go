package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tableflip.dev/daybook/pkg/entry"
)

func dates(values ...string) []entry.Date {
	out := make([]entry.Date, 0, len(values))
	for _, v := range values {
		out = append(out, entry.MustDate(v))
	}
	return out
}

func TestEmptyInputIsZero(t *testing.T) {
	today := entry.MustDate("2024-01-10")
	assert.Equal(t, 0, CurrentStreak(nil, today))
	assert.Equal(t, 0, LongestStreak(nil))
	assert.Equal(t, 0, CompletionRate(nil, today))
	assert.Equal(t, Summary{}, Compute(nil, today))
}

func TestCurrentStreakAnchoredToday(t *testing.T) {
	today := entry.MustDate("2024-01-10")
	assert.Equal(t, 3, CurrentStreak(dates("2024-01-10", "2024-01-09", "2024-01-08"), today))
}

func TestCurrentStreakGapDoesNotExtend(t *testing.T) {
	today := entry.MustDate("2024-01-10")
	got := CurrentStreak(dates("2024-01-10", "2024-01-09", "2024-01-08", "2024-01-06"), today)
	assert.Equal(t, 3, got)
}

func TestCurrentStreakAnchoredYesterday(t *testing.T) {
	today := entry.MustDate("2024-01-10")
	assert.Equal(t, 2, CurrentStreak(dates("2024-01-09", "2024-01-08"), today))
	assert.Equal(t, 0, CurrentStreak(dates("2024-01-08", "2024-01-07"), today))
}

func TestCurrentStreakIgnoresFutureAndDuplicates(t *testing.T) {
	today := entry.MustDate("2024-01-10")
	got := CurrentStreak(dates("2024-01-12", "2024-01-10", "2024-01-10", "2024-01-09"), today)
	assert.Equal(t, 2, got)
}

func TestCurrentStreakAcrossMonthBoundary(t *testing.T) {
	today := entry.MustDate("2024-03-01")
	assert.Equal(t, 3, CurrentStreak(dates("2024-02-28", "2024-03-01", "2024-02-29"), today))
}

func TestLongestStreak(t *testing.T) {
	got := LongestStreak(dates(
		"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04",
		"2024-01-10", "2024-01-11",
		"2024-01-20",
	))
	assert.Equal(t, 4, got)
	assert.Equal(t, 1, LongestStreak(dates("2024-01-01")))
}

func TestCompletionRate(t *testing.T) {
	today := entry.MustDate("2024-01-10")
	// 5 entries over 10 days.
	got := CompletionRate(dates("2024-01-01", "2024-01-03", "2024-01-05", "2024-01-07", "2024-01-10"), today)
	assert.Equal(t, 50, got)
	// 2 of 3 days rounds to 67.
	assert.Equal(t, 67, CompletionRate(dates("2024-01-08", "2024-01-10"), today))
	assert.Equal(t, 100, CompletionRate(dates("2024-01-10"), today))
}

func TestCompletionRateIgnoresFutureEntries(t *testing.T) {
	today := entry.MustDate("2024-01-10")
	assert.Equal(t, 0, CompletionRate(dates("2024-01-11"), today))
	assert.Equal(t, 100, CompletionRate(dates("2024-01-10", "2024-01-11"), today))
}

func TestCompute(t *testing.T) {
	mk := func(d string) *entry.DayEntry { return entry.New(entry.MustDate(d)) }
	entries := []*entry.DayEntry{mk("2024-01-08"), mk("2024-01-09"), nil, mk("2024-01-09"), mk("2024-01-05")}
	got := Compute(entries, entry.MustDate("2024-01-10"))
	assert.Equal(t, Summary{CurrentStreak: 2, LongestStreak: 2, CompletionRate: 50, TotalEntries: 3}, got)
}
