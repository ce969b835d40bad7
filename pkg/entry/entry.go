// Package entry defines the day entry document and the value types it carries.
package entry

import (
	"strings"
)

// SOAP holds the scripture study fields: Scripture, Observation, Application
// and Prayer.
type SOAP struct {
	Scripture   string `json:"scripture,omitempty" yaml:"scripture,omitempty"`
	Observation string `json:"observation,omitempty" yaml:"observation,omitempty"`
	Application string `json:"application,omitempty" yaml:"application,omitempty"`
	Prayer      string `json:"prayer,omitempty" yaml:"prayer,omitempty"`
}

// IsEmpty reports whether every SOAP field is blank.
func (s SOAP) IsEmpty() bool {
	return blank(s.Scripture) && blank(s.Observation) && blank(s.Application) && blank(s.Prayer)
}

// CheckIn is the emotional check-in section.
type CheckIn struct {
	Emotions []string `json:"emotions,omitempty" yaml:"emotions,omitempty"`
	Feeling  string   `json:"feeling,omitempty" yaml:"feeling,omitempty"`
}

// IsEmpty reports whether the check-in has no content.
func (c CheckIn) IsEmpty() bool {
	for _, e := range c.Emotions {
		if !blank(e) {
			return false
		}
	}
	return blank(c.Feeling)
}

// Reflection groups the free-form sections of a day. The reconciliation
// engine treats them as opaque; only the completeness policy looks inside.
type Reflection struct {
	SOAP             SOAP     `json:"soap" yaml:"soap"`
	CheckIn          CheckIn  `json:"checkIn" yaml:"checkIn"`
	Gratitude        []string `json:"gratitude,omitempty" yaml:"gratitude,omitempty"`
	DailyIntention   string   `json:"dailyIntention,omitempty" yaml:"dailyIntention,omitempty"`
	LeadershipRating int      `json:"leadershipRating,omitempty" yaml:"leadershipRating,omitempty"`
}

// HasGratitude reports whether any gratitude line is non-blank.
func (r Reflection) HasGratitude() bool {
	for _, g := range r.Gratitude {
		if !blank(g) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of r.
func (r Reflection) Clone() Reflection {
	out := r
	out.CheckIn.Emotions = append([]string(nil), r.CheckIn.Emotions...)
	out.Gratitude = append([]string(nil), r.Gratitude...)
	return out
}

// DayEntry is one user's journal document for one calendar date.
//
// Daily goals are authoritative only for Date. Weekly and monthly goals are a
// snapshot of what was visible that day and only count toward aggregation
// inside the window containing Date. DeletedGoalIDs are the tombstones
// recorded by this entry's last write.
type DayEntry struct {
	Date           Date        `json:"date" yaml:"date"`
	Goals          Goals       `json:"goals" yaml:"goals"`
	DeletedGoalIDs []ID        `json:"deletedGoalIds" yaml:"deletedGoalIds"`
	ReadingPlan    *Progress   `json:"readingPlan" yaml:"readingPlan"`
	PausedPlans    []*Progress `json:"pausedPlans,omitempty" yaml:"pausedPlans,omitempty"`
	Reflection     `yaml:",inline"`
	Completed      bool      `json:"completed" yaml:"completed"`
	UpdatedAt      Timestamp `json:"updatedAt" yaml:"updatedAt"`
}

// New returns an empty entry for date.
func New(date Date) *DayEntry {
	return &DayEntry{
		Date: date,
		Goals: Goals{
			Daily:   []Goal{},
			Weekly:  []Goal{},
			Monthly: []Goal{},
		},
		DeletedGoalIDs: []ID{},
	}
}

// Tombstones returns the entry's deleted goal ids as a set.
func (e *DayEntry) Tombstones() IDSet {
	if e == nil {
		return IDSet{}
	}
	return NewIDSet(e.DeletedGoalIDs...)
}

// Plans returns every reading plan record on the entry, active first.
func (e *DayEntry) Plans() []*Progress {
	if e == nil {
		return nil
	}
	out := make([]*Progress, 0, 1+len(e.PausedPlans))
	if e.ReadingPlan != nil {
		out = append(out, e.ReadingPlan)
	}
	for _, p := range e.PausedPlans {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// Clone returns a deep copy of e.
func (e *DayEntry) Clone() *DayEntry {
	if e == nil {
		return nil
	}
	out := *e
	out.Goals = e.Goals.Clone()
	out.DeletedGoalIDs = append([]ID{}, e.DeletedGoalIDs...)
	out.ReadingPlan = e.ReadingPlan.Clone()
	out.PausedPlans = nil
	for _, p := range e.PausedPlans {
		out.PausedPlans = append(out.PausedPlans, p.Clone())
	}
	out.Reflection = e.Reflection.Clone()
	return &out
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
