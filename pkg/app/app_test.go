package app

import (
	"context"
	"errors"
	"io"
	"log"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/daybook/pkg/entry"
	"tableflip.dev/daybook/pkg/store"
)

type memoryPersistence struct {
	mu       sync.Mutex
	users    map[string]map[entry.Date]*entry.DayEntry
	upserts  int
	scans    int
	failNext error
}

func newMemoryPersistence(user string, entries ...*entry.DayEntry) *memoryPersistence {
	mp := &memoryPersistence{users: make(map[string]map[entry.Date]*entry.DayEntry)}
	for _, e := range entries {
		if e == nil {
			continue
		}
		mp.put(user, e.Date, e.Clone())
	}
	return mp
}

func (m *memoryPersistence) put(user string, date entry.Date, e *entry.DayEntry) {
	if m.users[user] == nil {
		m.users[user] = make(map[entry.Date]*entry.DayEntry)
	}
	m.users[user][date] = e
}

func (m *memoryPersistence) AllEntries(_ context.Context, user string) ([]*entry.DayEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scans++
	out := make([]*entry.DayEntry, 0, len(m.users[user]))
	for _, e := range m.users[user] {
		out = append(out, e.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *memoryPersistence) Entry(_ context.Context, user string, date entry.Date) (*entry.DayEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[user][date].Clone(), nil
}

func (m *memoryPersistence) UpsertEntry(_ context.Context, user string, date entry.Date, e *entry.DayEntry) (*entry.DayEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failNext; err != nil {
		m.failNext = nil
		return nil, &store.Error{Op: "upsert", User: user, Date: date, Err: err}
	}
	m.upserts++
	cp := e.Clone()
	cp.Date = date
	cp.UpdatedAt = entry.Timestamp{Time: time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)}
	m.put(user, date, cp)
	return cp.Clone(), nil
}

func (m *memoryPersistence) stored(user, date string) *entry.DayEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[user][entry.MustDate(date)].Clone()
}

func (m *memoryPersistence) upsertCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upserts
}

func (m *memoryPersistence) fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

const alice = "alice"

var errDisk = errors.New("disk full")

func newService(mp *memoryPersistence) *Service {
	return &Service{
		Persistence: mp,
		Log:         log.New(io.Discard, "", 0),
		Now:         func() time.Time { return time.Date(2024, 1, 5, 9, 30, 0, 0, time.UTC) },
	}
}

func day(date string) *entry.DayEntry {
	return entry.New(entry.MustDate(date))
}

func goal(id, text string) entry.Goal {
	return entry.Goal{ID: entry.ID(id), Text: text, Priority: entry.PriorityMedium, Category: entry.CategoryPersonal}
}

func ids(list []entry.Goal) []entry.ID {
	out := make([]entry.ID, 0, len(list))
	for _, g := range list {
		out = append(out, g.ID)
	}
	return out
}

func plan(id string, start string, current int, completed ...int) *entry.Progress {
	return &entry.Progress{
		PlanID:        id,
		PlanName:      id,
		CurrentDay:    current,
		TotalDays:     365,
		StartDate:     entry.MustDate(start),
		CompletedDays: entry.NewDaySet(completed...),
	}
}

func TestServiceRequiresPersistence(t *testing.T) {
	svc := &Service{}
	_, err := svc.CurrentGoals(context.Background(), alice, entry.MustDate("2024-01-05"))
	assert.ErrorIs(t, err, store.ErrNotConfigured)
	_, err = svc.SaveDay(context.Background(), alice, entry.MustDate("2024-01-05"), Partial{})
	assert.ErrorIs(t, err, store.ErrNotConfigured)
}

func TestCurrentGoalsDedupsAndHonoursTombstones(t *testing.T) {
	mon := day("2024-01-01")
	mon.Goals.Weekly = []entry.Goal{goal("w1", "Pray more"), goal("w2", "Run")}
	mon.DeletedGoalIDs = []entry.ID{"w2"}
	wed := day("2024-01-03")
	wed.Goals.Weekly = []entry.Goal{goal("w1", "Pray more"), goal("w2", "Run")}
	wed.Goals.Daily = []entry.Goal{goal("d1", "Wednesday only")}

	svc := newService(newMemoryPersistence(alice, mon, wed))
	got, err := svc.CurrentGoals(context.Background(), alice, entry.MustDate("2024-01-05"))
	require.NoError(t, err)
	assert.Equal(t, []entry.ID{"w1"}, ids(got.Weekly))
	assert.Empty(t, got.Daily)

	_, err = svc.CurrentGoals(context.Background(), alice, entry.Date{})
	assert.ErrorIs(t, err, entry.ErrInvalidDate)
}

func TestReadingPlanStatePicksFurthest(t *testing.T) {
	a := day("2024-01-02")
	a.ReadingPlan = plan("mcheyne", "2024-01-01", 1)
	b := day("2024-01-03")
	b.ReadingPlan = plan("mcheyne", "2024-01-01", 3, 1, 2)
	c := day("2024-01-04")
	c.ReadingPlan = plan("mcheyne", "2024-01-01", 5, 1, 2, 3, 4)

	svc := newService(newMemoryPersistence(alice, a, b, c))
	got, err := svc.ReadingPlanState(context.Background(), alice, "mcheyne")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []int{1, 2, 3, 4}, got.CompletedDays.Sorted())

	none, err := svc.ReadingPlanState(context.Background(), alice, "other")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestStatsForEmptyUser(t *testing.T) {
	svc := newService(newMemoryPersistence(alice))
	got, err := svc.Stats(context.Background(), "nobody", entry.MustDate("2024-01-05"))
	require.NoError(t, err)
	assert.Zero(t, got.CurrentStreak)
	assert.Zero(t, got.LongestStreak)
	assert.Zero(t, got.CompletionRate)
}

func TestStatsCountsStreaks(t *testing.T) {
	svc := newService(newMemoryPersistence(alice, day("2024-01-03"), day("2024-01-04"), day("2024-01-05"), day("2024-01-01")))
	got, err := svc.Stats(context.Background(), alice, entry.MustDate("2024-01-05"))
	require.NoError(t, err)
	assert.Equal(t, 3, got.CurrentStreak)
	assert.Equal(t, 3, got.LongestStreak)
	assert.Equal(t, 80, got.CompletionRate)
}

func TestSaveDayMergesPartial(t *testing.T) {
	existing := day("2024-01-05")
	existing.Goals.Daily = []entry.Goal{goal("d1", "Read")}
	existing.DailyIntention = "Be patient"
	mp := newMemoryPersistence(alice, existing)
	svc := newService(mp)

	saved, err := svc.SaveDay(context.Background(), alice, entry.MustDate("2024-01-05"), Partial{
		Gratitude: []string{"Coffee"},
	})
	require.NoError(t, err)
	assert.Equal(t, []entry.ID{"d1"}, ids(saved.Goals.Daily))
	assert.Equal(t, "Be patient", saved.DailyIntention)
	assert.Equal(t, []string{"Coffee"}, saved.Gratitude)
	assert.True(t, saved.Completed)
	assert.Equal(t, 1, mp.upsertCount(), "one save trigger writes once")
}

func TestSaveDayIsIdempotent(t *testing.T) {
	mp := newMemoryPersistence(alice)
	svc := newService(mp)
	partial := Partial{
		Goals:          &PartialGoals{Weekly: []entry.Goal{goal("w1", "Pray"), goal("w2", "Fast")}},
		DeletedGoalIDs: []entry.ID{"w2", "x9"},
		ReadingPlan:    plan("john", "2024-01-01", 3, 1, 2),
	}
	date := entry.MustDate("2024-01-05")

	first, err := svc.SaveDay(context.Background(), alice, date, partial)
	require.NoError(t, err)
	second, err := svc.SaveDay(context.Background(), alice, date, partial)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []entry.ID{"w2", "x9"}, second.DeletedGoalIDs)
	assert.Equal(t, []entry.ID{"w1"}, ids(second.Goals.Weekly))
	assert.Equal(t, []int{1, 2}, second.ReadingPlan.CompletedDays.Sorted())
}

func TestSaveDayTombstoneHidesStaleSnapshots(t *testing.T) {
	mon := day("2024-01-01")
	mon.Goals.Weekly = []entry.Goal{goal("w1", "Pray more")}
	wed := day("2024-01-03")
	wed.Goals.Weekly = []entry.Goal{goal("w1", "Pray more")}
	mp := newMemoryPersistence(alice, mon, wed)
	svc := newService(mp)
	ctx := context.Background()

	_, err := svc.SaveDay(ctx, alice, entry.MustDate("2024-01-01"), Partial{DeletedGoalIDs: []entry.ID{"w1"}})
	require.NoError(t, err)

	assert.Empty(t, mp.stored(alice, "2024-01-01").Goals.Weekly)
	assert.Len(t, mp.stored(alice, "2024-01-03").Goals.Weekly, 1, "other entries are never rewritten")

	got, err := svc.CurrentGoals(ctx, alice, entry.MustDate("2024-01-05"))
	require.NoError(t, err)
	assert.Empty(t, got.Weekly)
}

func TestSaveDayKeepsTombstonedGoalsOutOfOtherDays(t *testing.T) {
	mon := day("2024-01-01")
	mon.DeletedGoalIDs = []entry.ID{"w1"}
	mp := newMemoryPersistence(alice, mon)
	svc := newService(mp)

	saved, err := svc.SaveDay(context.Background(), alice, entry.MustDate("2024-01-03"), Partial{
		Goals: &PartialGoals{Weekly: []entry.Goal{goal("w1", "Pray more"), goal("w2", "Run")}},
	})
	require.NoError(t, err)
	assert.Equal(t, []entry.ID{"w2"}, ids(saved.Goals.Weekly))
	assert.Equal(t, []entry.ID{"w2"}, ids(mp.stored(alice, "2024-01-03").Goals.Weekly))
	assert.Empty(t, saved.DeletedGoalIDs, "tombstones stay on the day that recorded them")
}

func TestSaveDayDropsGoalsWithoutIDs(t *testing.T) {
	svc := newService(newMemoryPersistence(alice))
	saved, err := svc.SaveDay(context.Background(), alice, entry.MustDate("2024-01-05"), Partial{
		Goals: &PartialGoals{Daily: []entry.Goal{{Text: "no id"}, goal("d1", "ok"), goal("d1", "dup")}},
	})
	require.NoError(t, err)
	require.Len(t, saved.Goals.Daily, 1)
	assert.Equal(t, "ok", saved.Goals.Daily[0].Text)
}

func TestSaveDayPlanChangePausesOutgoing(t *testing.T) {
	existing := day("2024-01-05")
	existing.ReadingPlan = plan("john", "2024-01-01", 4, 1, 2, 3)
	svc := newService(newMemoryPersistence(alice, existing))

	saved, err := svc.SaveDay(context.Background(), alice, entry.MustDate("2024-01-05"), Partial{
		ReadingPlan: plan("proverbs", "2024-01-05", 1),
	})
	require.NoError(t, err)
	require.NotNil(t, saved.ReadingPlan)
	assert.Equal(t, "proverbs", saved.ReadingPlan.PlanID)
	require.Len(t, saved.PausedPlans, 1)
	assert.Equal(t, "john", saved.PausedPlans[0].PlanID)
	assert.Equal(t, []int{1, 2, 3}, saved.PausedPlans[0].CompletedDays.Sorted())
}

func TestSaveDayRejectsBadInput(t *testing.T) {
	svc := newService(newMemoryPersistence(alice))
	_, err := svc.SaveDay(context.Background(), alice, entry.Date{}, Partial{})
	assert.ErrorIs(t, err, entry.ErrInvalidDate)
	_, err = svc.SaveDay(context.Background(), " ", entry.MustDate("2024-01-05"), Partial{})
	assert.Error(t, err)
}

func TestSaveDaySurfacesRepositoryFailure(t *testing.T) {
	mp := newMemoryPersistence(alice)
	mp.fail(errDisk)
	svc := newService(mp)
	_, err := svc.SaveDay(context.Background(), alice, entry.MustDate("2024-01-05"), Partial{})
	var se *store.Error
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, errDisk)
}

func TestActivePlan(t *testing.T) {
	a := day("2024-01-02")
	a.ReadingPlan = plan("john", "2024-01-01", 2, 1)
	svc := newService(newMemoryPersistence(alice, a))

	got, err := svc.ActivePlan(context.Background(), alice)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "john", got.PlanID)
	assert.Equal(t, "Gospel of John", got.PlanName)
	assert.Equal(t, 21, got.TotalDays)

	none, err := svc.ActivePlan(context.Background(), "bob")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestReport(t *testing.T) {
	a := day("2024-01-02")
	a.Goals.Daily = []entry.Goal{goal("d1", "a"), {ID: "d2", Text: "b", Completed: true}}
	a.Completed = true
	b := day("2024-01-04")
	b.Goals.Weekly = []entry.Goal{goal("gone", "x")}
	b.DeletedGoalIDs = []entry.ID{"gone"}
	b.ReadingPlan = plan("john", "2024-01-01", 3, 1, 2)
	svc := newService(newMemoryPersistence(alice, day("2023-12-01"), a, b))

	got, err := svc.Report(context.Background(), alice, entry.MustDate("2024-01-05"), entry.MustDate("2024-01-01"))
	require.NoError(t, err)
	assert.Equal(t, entry.MustDate("2024-01-01"), got.Since)
	require.Len(t, got.Days, 2)
	assert.Equal(t, entry.MustDate("2024-01-04"), got.Days[0].Entry.Date)
	assert.Zero(t, got.Days[0].GoalsTotal)
	assert.Equal(t, 3, got.Days[0].PlanDay)
	assert.Equal(t, 2, got.Days[1].GoalsTotal)
	assert.Equal(t, 1, got.Days[1].GoalsDone)
	assert.Equal(t, 1, got.Completed)
}

func TestCarryOverCandidates(t *testing.T) {
	old := day("2024-01-02")
	old.DeletedGoalIDs = []entry.ID{"d3"}
	prev := day("2024-01-04")
	prev.Goals.Daily = []entry.Goal{
		goal("d1", "Call mom"),
		{ID: "d2", Text: "Done already", Completed: true},
		goal("d3", "Deleted elsewhere"),
		goal("d4", "Stretch"),
	}
	today := day("2024-01-05")
	today.Goals.Daily = []entry.Goal{goal("t1", "  stretch ")}
	svc := newService(newMemoryPersistence(alice, old, prev, today))
	ctx := context.Background()

	got, err := svc.CarryOverCandidates(ctx, alice, entry.MustDate("2024-01-05"), 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, entry.ID("d1"), got[0].Goal.ID)
	assert.Equal(t, entry.MustDate("2024-01-04"), got[0].From)

	none, err := svc.CarryOverCandidates(ctx, alice, entry.MustDate("2024-01-20"), 3)
	require.NoError(t, err)
	assert.Empty(t, none)
}

type gatedPersistence struct {
	*memoryPersistence
	started chan struct{}
	release chan struct{}
	scanErr chan error
}

func (g *gatedPersistence) AllEntries(ctx context.Context, user string) ([]*entry.DayEntry, error) {
	g.started <- struct{}{}
	<-g.release
	g.scanErr <- ctx.Err()
	return g.memoryPersistence.AllEntries(ctx, user)
}

func TestSharedScanSurvivesCallerCancel(t *testing.T) {
	mon := day("2024-01-01")
	mon.Goals.Daily = []entry.Goal{goal("d1", "Read")}
	gp := &gatedPersistence{
		memoryPersistence: newMemoryPersistence(alice, mon),
		started:           make(chan struct{}, 2),
		release:           make(chan struct{}),
		scanErr:           make(chan error, 2),
	}
	svc := newService(gp.memoryPersistence)
	svc.Persistence = gp

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := svc.Entries(ctx, alice)
		first <- err
	}()
	<-gp.started

	cancel()
	require.ErrorIs(t, <-first, context.Canceled)

	second := make(chan error, 1)
	go func() {
		all, err := svc.Entries(context.Background(), alice)
		if err == nil && len(all) != 1 {
			err = errors.New("expected one entry")
		}
		second <- err
	}()
	close(gp.release)

	require.NoError(t, <-second)
	assert.NoError(t, <-gp.scanErr, "the shared scan is not cancelled with its first caller")
}
