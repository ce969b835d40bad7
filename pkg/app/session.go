package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"tableflip.dev/daybook/pkg/entry"
	"tableflip.dev/daybook/pkg/goals"
	"tableflip.dev/daybook/pkg/readingplan"
)

// Partial is a set of field updates for one day. Nil fields are left alone;
// a non-nil empty slice clears the field.
type Partial struct {
	Goals            *PartialGoals   `json:"goals,omitempty" yaml:"goals,omitempty"`
	DeletedGoalIDs   []entry.ID      `json:"deletedGoalIds,omitempty" yaml:"deletedGoalIds,omitempty"`
	ReadingPlan      *entry.Progress `json:"readingPlan,omitempty" yaml:"readingPlan,omitempty"`
	SOAP             *entry.SOAP     `json:"soap,omitempty" yaml:"soap,omitempty"`
	CheckIn          *entry.CheckIn  `json:"checkIn,omitempty" yaml:"checkIn,omitempty"`
	Gratitude        []string        `json:"gratitude,omitempty" yaml:"gratitude,omitempty"`
	DailyIntention   *string         `json:"dailyIntention,omitempty" yaml:"dailyIntention,omitempty"`
	LeadershipRating *int            `json:"leadershipRating,omitempty" yaml:"leadershipRating,omitempty"`
}

// PartialGoals replaces whole goal lists. A nil list is left alone.
type PartialGoals struct {
	Daily   []entry.Goal `json:"daily,omitempty" yaml:"daily,omitempty"`
	Weekly  []entry.Goal `json:"weekly,omitempty" yaml:"weekly,omitempty"`
	Monthly []entry.Goal `json:"monthly,omitempty" yaml:"monthly,omitempty"`
}

// Session holds one user's in-memory state for one day and writes it back
// as a single document. It is the only writer for its (user, date); open a
// new session to pick up changes made elsewhere.
type Session struct {
	User string
	Date entry.Date

	svc   *Service
	saver *Autosaver

	// flushMu orders writes so a later flush never lands before an earlier one.
	flushMu sync.Mutex

	mu         sync.Mutex
	goals      entry.Goals
	tombstones entry.IDSet
	// deleted holds the tombstones of every entry, this day's included.
	deleted    entry.IDSet
	plan       *entry.Progress
	paused     []*entry.Progress
	reflection entry.Reflection
	version    uint64
	dirty      bool
}

// OpenSession loads the state for user on date. When the service has an
// AutosaveDelay, mutations schedule debounced saves; Close flushes them.
func (s *Service) OpenSession(ctx context.Context, user string, date entry.Date) (*Session, error) {
	return s.openSession(ctx, user, date, s.AutosaveDelay > 0)
}

func (s *Service) openSession(ctx context.Context, user string, date entry.Date, autosave bool) (*Session, error) {
	if date.IsZero() {
		return nil, entry.ErrInvalidDate
	}
	if strings.TrimSpace(user) == "" {
		return nil, fmt.Errorf("app: user required")
	}
	all, err := s.entries(ctx, user)
	if err != nil {
		return nil, err
	}
	sess := &Session{User: user, Date: date, svc: s}
	sess.hydrate(all)
	if autosave {
		sess.saver = NewAutosaver(s.AutosaveDelay, func(ctx context.Context) error {
			_, err := sess.Flush(ctx)
			return err
		})
		sess.saver.Log = s.Log
	}
	return sess, nil
}

func (s *Session) hydrate(all []*entry.DayEntry) {
	var own *entry.DayEntry
	for _, e := range all {
		if e != nil && e.Date == s.Date {
			own = e
			break
		}
	}

	var current entry.Goals
	if own != nil {
		current = own.Goals
	}
	s.goals = s.svc.Goals.Aggregate(all, s.Date, current)
	s.tombstones = own.Tombstones()
	s.deleted = goals.CollectTombstones(all)

	planID := ""
	if own != nil && own.ReadingPlan != nil {
		planID = own.ReadingPlan.PlanID
	} else {
		planID = readingplan.Active(all)
	}
	if planID != "" {
		s.plan = s.svc.resume(all, planID)
		// A restart recorded on this day wins on this day.
		if own != nil && own.ReadingPlan != nil && s.plan != nil &&
			own.ReadingPlan.PlanID == planID && own.ReadingPlan.StartDate.After(s.plan.StartDate) {
			s.plan = own.ReadingPlan.Clone()
		}
	}
	if own != nil {
		for _, p := range own.PausedPlans {
			if p != nil && p.PlanID != planID {
				s.paused = append(s.paused, p.Clone())
			}
		}
		s.reflection = own.Reflection.Clone()
	}
}

// touch records a mutation and schedules a save. Called with mu held.
func (s *Session) touchLocked() {
	s.version++
	s.dirty = true
	if s.saver != nil {
		s.saver.Request()
	}
}

// Dirty reports whether the session has state not yet written.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Goals returns a copy of the session's goals.
func (s *Session) Goals() entry.Goals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goals.Clone()
}

// Plan returns a copy of the active plan record, or nil.
func (s *Session) Plan() *entry.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plan.Clone()
}

// Reflection returns a copy of the day's reflection sections.
func (s *Session) Reflection() entry.Reflection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reflection.Clone()
}

// AddGoal appends a new goal with a generated id.
func (s *Session) AddGoal(kind entry.Kind, text string, priority entry.Priority, category entry.Category) (entry.Goal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return entry.Goal{}, fmt.Errorf("app: goal text required")
	}
	if priority == "" {
		priority = entry.PriorityMedium
	}
	if category == "" {
		category = entry.CategoryPersonal
	}
	g := entry.Goal{
		ID:       entry.ID(uuid.NewString()),
		Text:     text,
		Priority: priority,
		Category: category,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals.SetList(kind, append(s.goals.List(kind), g))
	s.touchLocked()
	return g, nil
}

// FindGoal resolves ref to a goal of kind by exact id or unique id prefix.
func (s *Session) FindGoal(kind entry.Kind, ref string) (entry.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.findLocked(kind, ref)
	if err != nil {
		return entry.Goal{}, err
	}
	return s.goals.List(kind)[i], nil
}

func (s *Session) findLocked(kind entry.Kind, ref string) (int, error) {
	id := entry.NormalizeID(ref)
	if id.IsZero() {
		return -1, entry.ErrMissingID
	}
	list := s.goals.List(kind)
	match := -1
	for i, g := range list {
		if g.ID == id {
			return i, nil
		}
		if strings.HasPrefix(string(g.ID), string(id)) {
			if match >= 0 {
				return -1, fmt.Errorf("app: goal id %q is ambiguous", ref)
			}
			match = i
		}
	}
	if match < 0 {
		return -1, fmt.Errorf("%w: %s goal %q", ErrGoalNotFound, kind, ref)
	}
	return match, nil
}

// UpdateGoal replaces the goal with g's id, keeping its position.
func (s *Session) UpdateGoal(kind entry.Kind, g entry.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.findLocked(kind, string(g.ID))
	if err != nil {
		return err
	}
	list := s.goals.List(kind)
	g.ID = list[i].ID
	if list[i] == g {
		return nil
	}
	list[i] = g
	s.touchLocked()
	return nil
}

// SetGoalCompleted sets the completed flag of the goal ref.
func (s *Session) SetGoalCompleted(kind entry.Kind, ref string, done bool) (entry.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.findLocked(kind, ref)
	if err != nil {
		return entry.Goal{}, err
	}
	list := s.goals.List(kind)
	if list[i].Completed != done {
		list[i].Completed = done
		s.touchLocked()
	}
	return list[i], nil
}

// ToggleGoal flips the completed flag of the goal ref.
func (s *Session) ToggleGoal(kind entry.Kind, ref string) (entry.Goal, error) {
	g, err := s.FindGoal(kind, ref)
	if err != nil {
		return entry.Goal{}, err
	}
	return s.SetGoalCompleted(kind, string(g.ID), !g.Completed)
}

// DeleteGoal removes the goal ref and tombstones its id so no other entry's
// snapshot brings it back.
func (s *Session) DeleteGoal(kind entry.Kind, ref string) (entry.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.findLocked(kind, ref)
	if err != nil {
		return entry.Goal{}, err
	}
	list := s.goals.List(kind)
	g := list[i]
	s.goals.SetList(kind, append(list[:i:i], list[i+1:]...))
	s.tombstones.Add(g.ID)
	s.touchLocked()
	return g, nil
}

// SetReflection replaces the reflection sections.
func (s *Session) SetReflection(r entry.Reflection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reflection = r.Clone()
	s.touchLocked()
}

// Apply merges a Partial into the session.
func (s *Session) Apply(p Partial) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range p.DeletedGoalIDs {
		s.tombstones.Add(id)
	}
	if p.Goals != nil {
		for _, kind := range entry.AllKinds() {
			var next []entry.Goal
			switch kind {
			case entry.Daily:
				next = p.Goals.Daily
			case entry.Weekly:
				next = p.Goals.Weekly
			case entry.Monthly:
				next = p.Goals.Monthly
			}
			if next != nil {
				s.goals.SetList(kind, s.admitLocked(kind, next))
			}
		}
	}
	if len(p.DeletedGoalIDs) > 0 {
		for _, kind := range entry.AllKinds() {
			s.goals.SetList(kind, s.admitLocked(kind, s.goals.List(kind)))
		}
	}
	if p.ReadingPlan != nil {
		next := p.ReadingPlan.Clone()
		next.Normalize()
		if s.plan != nil && s.plan.PlanID != next.PlanID {
			s.pauseLocked(s.plan)
		}
		s.unpauseLocked(next.PlanID)
		s.plan = next
	}
	if p.SOAP != nil {
		s.reflection.SOAP = *p.SOAP
	}
	if p.CheckIn != nil {
		s.reflection.CheckIn = entry.CheckIn{
			Emotions: append([]string(nil), p.CheckIn.Emotions...),
			Feeling:  p.CheckIn.Feeling,
		}
	}
	if p.Gratitude != nil {
		s.reflection.Gratitude = append([]string{}, p.Gratitude...)
	}
	if p.DailyIntention != nil {
		s.reflection.DailyIntention = *p.DailyIntention
	}
	if p.LeadershipRating != nil {
		s.reflection.LeadershipRating = *p.LeadershipRating
	}
	s.touchLocked()
}

// admitLocked drops goals without ids, tombstoned ids and duplicates.
func (s *Session) admitLocked(kind entry.Kind, in []entry.Goal) []entry.Goal {
	out := make([]entry.Goal, 0, len(in))
	seen := entry.IDSet{}
	for _, g := range in {
		switch {
		case g.ID.IsZero():
			s.svc.logf("app: dropping %s goal %q on %s: %v", kind, g.Text, s.Date, entry.ErrMissingID)
		case s.tombstones.Has(g.ID), s.deleted.Has(g.ID):
			// Deleted in this session or on any day.
		case seen.Has(g.ID):
		default:
			seen.Add(g.ID)
			out = append(out, g)
		}
	}
	return out
}

func (s *Session) pauseLocked(p *entry.Progress) {
	s.unpauseLocked(p.PlanID)
	s.paused = append(s.paused, p.Clone())
}

func (s *Session) unpauseLocked(planID string) {
	kept := s.paused[:0]
	for _, p := range s.paused {
		if p.PlanID != planID {
			kept = append(kept, p)
		}
	}
	s.paused = kept
}

// BuildEntry returns the full document the session would write now.
func (s *Session) BuildEntry() *entry.DayEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buildLocked()
}

func (s *Session) buildLocked() *entry.DayEntry {
	e := entry.New(s.Date)
	e.Goals = s.goals.Clone()
	for _, kind := range entry.AllKinds() {
		if e.Goals.List(kind) == nil {
			e.Goals.SetList(kind, []entry.Goal{})
		}
	}
	e.DeletedGoalIDs = s.tombstones.Sorted()
	e.ReadingPlan = s.plan.Clone()
	for _, p := range s.paused {
		e.PausedPlans = append(e.PausedPlans, p.Clone())
	}
	e.Reflection = s.reflection.Clone()
	e.Completed = s.svc.completion().Complete(e)
	return e
}

// Flush writes the current state synchronously. On failure the state is
// kept and stays dirty so the next save writes the same document again.
func (s *Session) Flush(ctx context.Context) (*entry.DayEntry, error) {
	if err := s.svc.ready(); err != nil {
		return nil, err
	}
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.mu.Lock()
	doc := s.buildLocked()
	version := s.version
	s.mu.Unlock()

	stored, err := s.svc.Persistence.UpsertEntry(ctx, s.User, s.Date, doc)
	if err != nil {
		s.mu.Lock()
		s.dirty = true
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	if s.version == version {
		s.dirty = false
	}
	s.mu.Unlock()
	return stored, nil
}

// Save requests a save: debounced when autosave is on, immediate otherwise.
func (s *Session) Save(ctx context.Context) error {
	if s.saver != nil {
		s.saver.Request()
		return nil
	}
	_, err := s.Flush(ctx)
	return err
}

// Close waits for pending autosaves and writes any state they did not.
func (s *Session) Close(ctx context.Context) error {
	if s.saver != nil {
		s.saver.Stop()
		if err := s.saver.Flush(ctx); err != nil && !s.Dirty() {
			return err
		}
	}
	if !s.Dirty() {
		return nil
	}
	_, err := s.Flush(ctx)
	return err
}

// StartPlan makes planID the active plan. It is SwitchPlan by another name
// for callers with no plan yet.
func (s *Session) StartPlan(ctx context.Context, planID string) (*entry.Progress, error) {
	return s.SwitchPlan(ctx, planID)
}

// SwitchPlan makes planID the active plan. The outgoing plan is written
// first, and the switch fails if that write does; it then stays on the day
// as a paused record. The incoming plan resumes from its furthest recorded
// progress or starts fresh.
func (s *Session) SwitchPlan(ctx context.Context, planID string) (*entry.Progress, error) {
	plan, err := s.svc.Plan(planID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	current := s.plan.Clone()
	s.mu.Unlock()
	if current != nil && current.PlanID == plan.ID {
		return current, nil
	}
	if current != nil {
		if _, err := s.Flush(ctx); err != nil {
			return nil, fmt.Errorf("app: save %s before switching: %w", current.PlanID, err)
		}
	}

	all, err := s.svc.entries(ctx, s.User)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Include this session's own records in case the scan predates the flush.
	candidates := append(append([]*entry.DayEntry{}, all...), s.buildLocked())
	next := readingplan.ResumeOrStart(candidates, plan, s.svc.Today())
	if s.plan != nil {
		s.pauseLocked(s.plan)
	}
	s.unpauseLocked(next.PlanID)
	s.plan = next
	s.touchLocked()
	return next.Clone(), nil
}

// Restart resets the active plan to day one. Current progress is written
// first, and the restart fails if that write does.
func (s *Session) Restart(ctx context.Context) (*entry.Progress, error) {
	s.mu.Lock()
	active := s.plan != nil
	s.mu.Unlock()
	if !active {
		return nil, ErrNoActivePlan
	}
	if _, err := s.Flush(ctx); err != nil {
		return nil, fmt.Errorf("app: save progress before restarting: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if readingplan.Restart(s.plan, s.svc.Today()) {
		s.touchLocked()
	}
	return s.plan.Clone(), nil
}

// Advance completes the current day and moves to the next one.
func (s *Session) Advance() (*entry.Progress, error) {
	return s.transition(readingplan.Advance)
}

// Retreat steps back one day.
func (s *Session) Retreat() (*entry.Progress, error) {
	return s.transition(readingplan.Retreat)
}

// MarkComplete records the current day as read.
func (s *Session) MarkComplete() (*entry.Progress, error) {
	return s.transition(readingplan.MarkCurrentDayComplete)
}

func (s *Session) transition(fn func(*entry.Progress) bool) (*entry.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.plan == nil {
		return nil, ErrNoActivePlan
	}
	if fn(s.plan) {
		s.touchLocked()
	}
	return s.plan.Clone(), nil
}

// CarryOver copies goals onto the day's daily list under new ids.
func (s *Session) CarryOver(goals []entry.Goal) []entry.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := make([]entry.Goal, 0, len(goals))
	for _, g := range goals {
		g.ID = entry.ID(uuid.NewString())
		g.Completed = false
		added = append(added, g)
	}
	if len(added) == 0 {
		return added
	}
	s.goals.Daily = append(s.goals.Daily, added...)
	s.touchLocked()
	return added
}
