// Package app is the journal core the CLI and MCP surfaces share. Reads
// always re-derive goals, plan progress and stats from a user's full entry
// set; writes go through a Session that owns one day's state.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"tableflip.dev/daybook/pkg/entry"
	"tableflip.dev/daybook/pkg/goals"
	"tableflip.dev/daybook/pkg/readingplan"
	"tableflip.dev/daybook/pkg/scripture"
	"tableflip.dev/daybook/pkg/stats"
	"tableflip.dev/daybook/pkg/store"
)

var (
	ErrUnknownPlan      = errors.New("app: unknown reading plan")
	ErrNoActivePlan     = errors.New("app: no active reading plan")
	ErrGoalNotFound     = errors.New("app: goal not found")
	ErrWatchUnsupported = errors.New("app: persistence does not support watching")
)

// Service provides the journal operations on top of a Persistence.
// Use a pointer; the zero value needs at least Persistence set.
type Service struct {
	Persistence store.Persistence
	// Catalog lists the known reading plans. Nil uses the built-in plans.
	Catalog *readingplan.Catalog
	// Goals aggregates weekly and monthly goals across entries.
	Goals goals.Aggregator
	// Completion derives each saved entry's completed flag. Nil uses
	// Threshold{}.
	Completion CompletionPolicy
	// Scripture supplies passage text for plan readings. Optional.
	Scripture        scripture.Provider
	ScriptureVersion string
	// AutosaveDelay is the debounce for sessions opened by this service.
	// Zero disables autosave; callers then Flush explicitly.
	AutosaveDelay time.Duration
	// Log receives warnings. Nil uses log.Default().
	Log *log.Logger
	// Now is the clock. Nil uses time.Now.
	Now func() time.Time

	scans singleflight.Group
}

func (s *Service) ready() error {
	if s == nil || s.Persistence == nil {
		return store.ErrNotConfigured
	}
	return nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Today is the service clock's current calendar date.
func (s *Service) Today() entry.Date {
	return entry.Today(s.now())
}

var defaultCatalog = sync.OnceValue(readingplan.DefaultCatalog)

func (s *Service) catalog() *readingplan.Catalog {
	if s.Catalog == nil {
		return defaultCatalog()
	}
	return s.Catalog
}

// Plans returns the catalog's plans sorted by id.
func (s *Service) Plans() []readingplan.Plan {
	return s.catalog().Plans()
}

// Plan looks up a plan by id.
func (s *Service) Plan(id string) (readingplan.Plan, error) {
	p, ok := s.catalog().Plan(strings.TrimSpace(id))
	if !ok {
		return readingplan.Plan{}, fmt.Errorf("%w: %q", ErrUnknownPlan, id)
	}
	return p, nil
}

func (s *Service) completion() CompletionPolicy {
	if s.Completion == nil {
		return Threshold{}
	}
	return s.Completion
}

func (s *Service) logf(format string, args ...any) {
	l := s.Log
	if l == nil {
		l = log.Default()
	}
	l.Printf(format, args...)
}

// entries loads every entry for user. Concurrent scans for the same user
// share one repository call, and the result must be treated as read-only.
func (s *Service) entries(ctx context.Context, user string) ([]*entry.DayEntry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	// A cancelled caller leaves without cancelling the shared scan.
	ch := s.scans.DoChan(user, func() (any, error) {
		return s.Persistence.AllEntries(context.WithoutCancel(ctx), user)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.([]*entry.DayEntry), nil
	}
}

// Entries returns a copy of every entry for user, oldest first.
func (s *Service) Entries(ctx context.Context, user string) ([]*entry.DayEntry, error) {
	all, err := s.entries(ctx, user)
	if err != nil {
		return nil, err
	}
	out := make([]*entry.DayEntry, 0, len(all))
	for _, e := range all {
		out = append(out, e.Clone())
	}
	return out, nil
}

// Entry returns the stored entry for user on date, or nil.
func (s *Service) Entry(ctx context.Context, user string, date entry.Date) (*entry.DayEntry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.Persistence.Entry(ctx, user, date)
}

// CurrentGoals returns the daily, weekly and monthly goals visible on ref.
func (s *Service) CurrentGoals(ctx context.Context, user string, ref entry.Date) (entry.Goals, error) {
	if ref.IsZero() {
		return entry.Goals{}, entry.ErrInvalidDate
	}
	all, err := s.entries(ctx, user)
	if err != nil {
		return entry.Goals{}, err
	}
	return s.Goals.CurrentGoals(all, ref), nil
}

// ReadingPlanState returns the authoritative progress for planID, or nil
// when no entry has progress for it.
func (s *Service) ReadingPlanState(ctx context.Context, user, planID string) (*entry.Progress, error) {
	all, err := s.entries(ctx, user)
	if err != nil {
		return nil, err
	}
	return readingplan.ResolveProgress(all, planID), nil
}

// ActivePlan returns the progress of the plan most recently active for
// user, or nil when the user never started one.
func (s *Service) ActivePlan(ctx context.Context, user string) (*entry.Progress, error) {
	all, err := s.entries(ctx, user)
	if err != nil {
		return nil, err
	}
	id := readingplan.Active(all)
	if id == "" {
		return nil, nil
	}
	return s.resume(all, id), nil
}

// resume reconciles the record for planID across entries. Unknown plans
// keep their stored metadata.
func (s *Service) resume(all []*entry.DayEntry, planID string) *entry.Progress {
	if plan, ok := s.catalog().Plan(planID); ok {
		return readingplan.ResumeOrStart(all, plan, s.Today())
	}
	if p := readingplan.ResolveProgress(all, planID); p != nil {
		return p
	}
	return readingplan.Latest(all, planID)
}

// Stats returns streaks and the completion rate as of ref.
func (s *Service) Stats(ctx context.Context, user string, ref entry.Date) (stats.Summary, error) {
	if ref.IsZero() {
		return stats.Summary{}, entry.ErrInvalidDate
	}
	all, err := s.entries(ctx, user)
	if err != nil {
		return stats.Summary{}, err
	}
	return stats.Compute(all, ref), nil
}

// SaveDay merges partial into the day's state and writes it as one upsert.
// Fields left nil in partial keep their current values.
func (s *Service) SaveDay(ctx context.Context, user string, date entry.Date, partial Partial) (*entry.DayEntry, error) {
	sess, err := s.openSession(ctx, user, date, false)
	if err != nil {
		return nil, err
	}
	sess.Apply(partial)
	return sess.Flush(ctx)
}

// Watch streams change events from the persistence layer.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	w, ok := s.Persistence.(store.Watcher)
	if !ok {
		return nil, ErrWatchUnsupported
	}
	return w.Watch(ctx)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
