package goals

import (
	"bytes"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/daybook/pkg/entry"
)

func quiet() Aggregator {
	return Aggregator{Log: log.New(io.Discard, "", 0)}
}

func day(date string, opts ...func(*entry.DayEntry)) *entry.DayEntry {
	e := entry.New(entry.MustDate(date))
	for _, o := range opts {
		o(e)
	}
	return e
}

func weekly(goals ...entry.Goal) func(*entry.DayEntry) {
	return func(e *entry.DayEntry) { e.Goals.Weekly = append(e.Goals.Weekly, goals...) }
}

func monthly(goals ...entry.Goal) func(*entry.DayEntry) {
	return func(e *entry.DayEntry) { e.Goals.Monthly = append(e.Goals.Monthly, goals...) }
}

func daily(goals ...entry.Goal) func(*entry.DayEntry) {
	return func(e *entry.DayEntry) { e.Goals.Daily = append(e.Goals.Daily, goals...) }
}

func deleted(ids ...entry.ID) func(*entry.DayEntry) {
	return func(e *entry.DayEntry) { e.DeletedGoalIDs = append(e.DeletedGoalIDs, ids...) }
}

func goal(id, text string) entry.Goal {
	return entry.Goal{ID: entry.ID(id), Text: text, Priority: entry.PriorityMedium, Category: entry.CategorySpiritual}
}

func ids(goals []entry.Goal) []entry.ID {
	out := make([]entry.ID, 0, len(goals))
	for _, g := range goals {
		out = append(out, g.ID)
	}
	return out
}

func TestCollectTombstones(t *testing.T) {
	entries := []*entry.DayEntry{
		day("2024-01-01", deleted("w1", "7")),
		nil,
		day("2024-01-02", deleted("w1", "  8 ")),
	}
	got := CollectTombstones(entries)
	assert.ElementsMatch(t, []entry.ID{"7", "8", "w1"}, got.Sorted())
	assert.Empty(t, CollectTombstones(nil))
}

func TestAggregateDedupsWeeklyAcrossEntries(t *testing.T) {
	entries := []*entry.DayEntry{
		day("2024-01-01", weekly(goal("w1", "Pray more"))),
		day("2024-01-03", weekly(goal("w1", "Pray more"))),
	}
	got := quiet().Aggregate(entries, entry.MustDate("2024-01-05"), entry.Goals{})
	require.Len(t, got.Weekly, 1)
	assert.Equal(t, entry.ID("w1"), got.Weekly[0].ID)
}

func TestAggregateStaleSnapshotIsTombstoned(t *testing.T) {
	entries := []*entry.DayEntry{
		day("2024-01-01", deleted("w1")),
		day("2024-01-03", weekly(goal("w1", "Pray more"), goal("w2", "Fast"))),
	}
	got := quiet().Aggregate(entries, entry.MustDate("2024-01-05"), entry.Goals{})
	assert.Equal(t, []entry.ID{"w2"}, ids(got.Weekly))
}

func TestAggregateNeverReturnsTombstonedIDs(t *testing.T) {
	current := entry.Goals{
		Daily:   []entry.Goal{goal("d1", "Read"), goal("x", "gone")},
		Weekly:  []entry.Goal{goal("x", "gone"), goal("w1", "Pray")},
		Monthly: []entry.Goal{goal("x", "gone"), goal("m1", "Serve")},
	}
	entries := []*entry.DayEntry{
		day("2024-01-05", deleted("x")),
		day("2024-01-02", weekly(goal("x", "gone")), monthly(goal("x", "gone"))),
	}
	got := quiet().Aggregate(entries, entry.MustDate("2024-01-05"), current)
	for _, kind := range entry.AllKinds() {
		assert.NotContains(t, ids(got.List(kind)), entry.ID("x"), "kind %s", kind)
	}
	assert.Equal(t, []entry.ID{"d1"}, ids(got.Daily))
}

func TestAggregateDailyComesOnlyFromCurrent(t *testing.T) {
	entries := []*entry.DayEntry{
		day("2024-01-04", daily(goal("d-old", "yesterday"))),
	}
	current := entry.Goals{Daily: []entry.Goal{goal("d1", "today")}}
	got := quiet().Aggregate(entries, entry.MustDate("2024-01-05"), current)
	assert.Equal(t, []entry.ID{"d1"}, ids(got.Daily))
}

func TestAggregateRespectsWindows(t *testing.T) {
	entries := []*entry.DayEntry{
		day("2023-12-31", weekly(goal("w-prev", "last week")), monthly(goal("m-prev", "last month"))),
		day("2024-01-08", weekly(goal("w-next", "next week")), monthly(goal("m-jan", "january"))),
		day("2024-01-02", weekly(goal("w-this", "this week"))),
	}
	got := quiet().Aggregate(entries, entry.MustDate("2024-01-05"), entry.Goals{})
	assert.Equal(t, []entry.ID{"w-this"}, ids(got.Weekly))
	assert.Equal(t, []entry.ID{"m-jan"}, ids(got.Monthly))
}

func TestAggregateDropsGoalsWithoutID(t *testing.T) {
	var buf bytes.Buffer
	a := Aggregator{Log: log.New(&buf, "", 0)}
	current := entry.Goals{Daily: []entry.Goal{{Text: "no id"}, goal("d1", "ok")}}
	got := a.Aggregate(nil, entry.MustDate("2024-01-05"), current)
	assert.Equal(t, []entry.ID{"d1"}, ids(got.Daily))
	assert.Contains(t, buf.String(), "missing an id")
}

func TestAggregateIsIdempotent(t *testing.T) {
	entries := []*entry.DayEntry{
		day("2024-01-01", weekly(goal("w1", "a"), goal("w2", "b")), deleted("w3")),
		day("2024-01-02", weekly(goal("w2", "b"), goal("w3", "c")), monthly(goal("m1", "d"))),
	}
	current := entry.Goals{Daily: []entry.Goal{goal("d1", "x")}}
	a := quiet()
	first := a.Aggregate(entries, entry.MustDate("2024-01-03"), current)
	second := a.Aggregate(entries, entry.MustDate("2024-01-03"), current)
	for _, kind := range entry.AllKinds() {
		assert.ElementsMatch(t, first.List(kind), second.List(kind))
	}
}

func TestAggregateDuplicateTextIsNotIdentity(t *testing.T) {
	entries := []*entry.DayEntry{
		day("2024-01-01", weekly(goal("w1", "Pray"), goal("w2", "Pray"))),
	}
	got := quiet().Aggregate(entries, entry.MustDate("2024-01-02"), entry.Goals{})
	assert.Equal(t, []entry.ID{"w1", "w2"}, ids(got.Weekly))
}

func TestAggregateConflictingSnapshotsFirstSeenWins(t *testing.T) {
	older := day("2024-01-01", weekly(goal("w1", "older text")))
	newer := day("2024-01-03", weekly(goal("w1", "newer text")))

	got := quiet().Aggregate([]*entry.DayEntry{older, newer}, entry.MustDate("2024-01-05"), entry.Goals{})
	require.Len(t, got.Weekly, 1)
	assert.Equal(t, "older text", got.Weekly[0].Text)

	// Scan order, not date, decides under first-seen.
	got = quiet().Aggregate([]*entry.DayEntry{newer, older}, entry.MustDate("2024-01-05"), entry.Goals{})
	require.Len(t, got.Weekly, 1)
	assert.Equal(t, "newer text", got.Weekly[0].Text)
}

func TestAggregateConflictingSnapshotsLatestEntryWins(t *testing.T) {
	older := day("2024-01-01", weekly(goal("w1", "older text")))
	newer := day("2024-01-03", weekly(goal("w1", "newer text")))
	a := Aggregator{Log: log.New(io.Discard, "", 0), Resolution: LatestEntry}

	for _, order := range [][]*entry.DayEntry{{older, newer}, {newer, older}} {
		got := a.Aggregate(order, entry.MustDate("2024-01-05"), entry.Goals{})
		require.Len(t, got.Weekly, 1)
		assert.Equal(t, "newer text", got.Weekly[0].Text)
	}
}

func TestAggregateCurrentEntrySeedsFirst(t *testing.T) {
	entries := []*entry.DayEntry{
		day("2024-01-02", weekly(goal("w1", "snapshot"))),
	}
	current := entry.Goals{Weekly: []entry.Goal{goal("w1", "edited today")}}
	got := quiet().Aggregate(entries, entry.MustDate("2024-01-05"), current)
	require.Len(t, got.Weekly, 1)
	assert.Equal(t, "edited today", got.Weekly[0].Text)
}

func TestCurrentGoalsUsesEntryForReference(t *testing.T) {
	entries := []*entry.DayEntry{
		day("2024-01-05", daily(goal("d1", "today")), weekly(goal("w1", "week"))),
		day("2024-01-04", daily(goal("d0", "yesterday")), weekly(goal("w0", "earlier"))),
	}
	got := quiet().CurrentGoals(entries, entry.MustDate("2024-01-05"))
	assert.Equal(t, []entry.ID{"d1"}, ids(got.Daily))
	assert.Equal(t, []entry.ID{"w1", "w0"}, ids(got.Weekly))
}

func TestParseResolution(t *testing.T) {
	r, err := ParseResolution("")
	require.NoError(t, err)
	assert.Equal(t, FirstSeen, r)
	r, err = ParseResolution("Latest-Entry")
	require.NoError(t, err)
	assert.Equal(t, LatestEntry, r)
	_, err = ParseResolution("random")
	assert.Error(t, err)
}
