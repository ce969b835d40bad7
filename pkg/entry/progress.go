package entry

import (
	"encoding/json"
	"sort"
)

// DaySet is a set of 1-indexed plan days. It serializes as an ascending list
// of integers; the order carries no meaning.
type DaySet map[int]struct{}

// NewDaySet builds a set from days.
func NewDaySet(days ...int) DaySet {
	s := make(DaySet, len(days))
	for _, d := range days {
		s[d] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s DaySet) Has(day int) bool {
	_, ok := s[day]
	return ok
}

// Sorted returns the days in ascending order.
func (s DaySet) Sorted() []int {
	out := make([]int, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}

func (s DaySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *DaySet) UnmarshalJSON(b []byte) error {
	var days []int
	if err := json.Unmarshal(b, &days); err != nil {
		return err
	}
	*s = NewDaySet(days...)
	return nil
}

func (s DaySet) MarshalYAML() (any, error) {
	return s.Sorted(), nil
}

// Progress tracks how far a user has advanced through a reading plan.
type Progress struct {
	PlanID        string `json:"planId" yaml:"planId"`
	PlanName      string `json:"planName" yaml:"planName"`
	CurrentDay    int    `json:"currentDay" yaml:"currentDay"`
	TotalDays     int    `json:"totalDays" yaml:"totalDays"`
	StartDate     Date   `json:"startDate" yaml:"startDate"`
	CompletedDays DaySet `json:"completedDays" yaml:"completedDays"`
}

// Normalize clamps CurrentDay into 1..TotalDays and drops completed days
// outside that range. It is applied on ingestion. A record without a length
// is sized to cover its current and completed days, so none are lost.
func (p *Progress) Normalize() {
	if p == nil {
		return
	}
	if p.TotalDays < 1 {
		p.TotalDays = max(p.CurrentDay, 1)
		for d := range p.CompletedDays {
			p.TotalDays = max(p.TotalDays, d)
		}
	}
	if p.CurrentDay < 1 {
		p.CurrentDay = 1
	}
	if p.CurrentDay > p.TotalDays {
		p.CurrentDay = p.TotalDays
	}
	if p.CompletedDays == nil {
		p.CompletedDays = DaySet{}
	}
	for d := range p.CompletedDays {
		if d < 1 || d > p.TotalDays {
			delete(p.CompletedDays, d)
		}
	}
}

// Clone returns a deep copy of p, or nil.
func (p *Progress) Clone() *Progress {
	if p == nil {
		return nil
	}
	out := *p
	out.CompletedDays = make(DaySet, len(p.CompletedDays))
	for d := range p.CompletedDays {
		out.CompletedDays[d] = struct{}{}
	}
	return &out
}

func (p *Progress) UnmarshalJSON(b []byte) error {
	type plain Progress
	var v plain
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = Progress(v)
	p.Normalize()
	return nil
}
