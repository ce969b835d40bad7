package entry

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Priority ranks a goal.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// AllPriorities returns the supported priorities, lowest first.
func AllPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// ParsePriority converts a string to a Priority. Empty input yields medium.
func ParsePriority(raw string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	if p == "" {
		return PriorityMedium, nil
	}
	for _, candidate := range AllPriorities() {
		if candidate == p {
			return candidate, nil
		}
	}
	return PriorityMedium, fmt.Errorf("entry: unknown priority %q", raw)
}

func (p *Priority) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	// Unknown values from newer clients degrade to the default.
	*p, _ = ParsePriority(raw)
	return nil
}

// Category groups a goal by life area.
type Category string

const (
	CategorySpiritual Category = "spiritual"
	CategoryPersonal  Category = "personal"
	CategoryOutreach  Category = "outreach"
	CategoryHealth    Category = "health"
	CategoryWork      Category = "work"
)

// AllCategories returns the supported categories.
func AllCategories() []Category {
	return []Category{
		CategorySpiritual,
		CategoryPersonal,
		CategoryOutreach,
		CategoryHealth,
		CategoryWork,
	}
}

// ParseCategory converts a string to a Category. Empty input yields personal.
func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if c == "" {
		return CategoryPersonal, nil
	}
	for _, candidate := range AllCategories() {
		if candidate == c {
			return candidate, nil
		}
	}
	return CategoryPersonal, fmt.Errorf("entry: unknown category %q", raw)
}

func (c *Category) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*c, _ = ParseCategory(raw)
	return nil
}

// Goal is a single daily, weekly or monthly goal. ID is the only identity;
// two goals may share the same text.
type Goal struct {
	ID        ID       `json:"id" yaml:"id"`
	Text      string   `json:"text" yaml:"text"`
	Completed bool     `json:"completed" yaml:"completed"`
	Priority  Priority `json:"priority" yaml:"priority"`
	Category  Category `json:"category" yaml:"category"`
}

func (g *Goal) UnmarshalJSON(b []byte) error {
	type plain Goal
	var v plain
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*g = Goal(v)
	if g.Priority == "" {
		g.Priority = PriorityMedium
	}
	if g.Category == "" {
		g.Category = CategoryPersonal
	}
	return nil
}

// Kind selects one of the goal lists on an entry.
type Kind string

const (
	Daily   Kind = "daily"
	Weekly  Kind = "weekly"
	Monthly Kind = "monthly"
)

// AllKinds returns the goal kinds in display order.
func AllKinds() []Kind {
	return []Kind{Daily, Weekly, Monthly}
}

// ParseKind converts a string to a Kind.
func ParseKind(raw string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(raw)))
	for _, candidate := range AllKinds() {
		if candidate == k {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("entry: unknown goal kind %q (expected daily, weekly or monthly)", raw)
}

// Goals holds the three goal lists carried by a day entry.
type Goals struct {
	Daily   []Goal `json:"daily" yaml:"daily"`
	Weekly  []Goal `json:"weekly" yaml:"weekly"`
	Monthly []Goal `json:"monthly" yaml:"monthly"`
}

// List returns the list for kind.
func (g Goals) List(kind Kind) []Goal {
	switch kind {
	case Daily:
		return g.Daily
	case Weekly:
		return g.Weekly
	case Monthly:
		return g.Monthly
	}
	return nil
}

// SetList replaces the list for kind.
func (g *Goals) SetList(kind Kind, goals []Goal) {
	switch kind {
	case Daily:
		g.Daily = goals
	case Weekly:
		g.Weekly = goals
	case Monthly:
		g.Monthly = goals
	}
}

// Len returns the number of goals across all lists.
func (g Goals) Len() int {
	return len(g.Daily) + len(g.Weekly) + len(g.Monthly)
}

// Clone returns a deep copy with non-nil lists.
func (g Goals) Clone() Goals {
	return Goals{
		Daily:   cloneGoals(g.Daily),
		Weekly:  cloneGoals(g.Weekly),
		Monthly: cloneGoals(g.Monthly),
	}
}

func cloneGoals(in []Goal) []Goal {
	out := make([]Goal, len(in))
	copy(out, in)
	return out
}
