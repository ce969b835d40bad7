package glyph

import (
	"sort"
	"testing"

	"tableflip.dev/daybook/pkg/entry"
)

func TestForGoal(t *testing.T) {
	if got := ForGoal(entry.Goal{Completed: true}); got != Done {
		t.Fatalf("expected Done, got %v", got)
	}
	if got := ForGoal(entry.Goal{}); got != Open {
		t.Fatalf("expected Open, got %v", got)
	}
	if ForGoal(entry.Goal{}).String() != "●" {
		t.Fatalf("unexpected open symbol %q", Open.String())
	}
}

func TestForPriority(t *testing.T) {
	cases := map[entry.Priority]Signifier{
		entry.PriorityHigh:   High,
		entry.PriorityMedium: Medium,
		entry.PriorityLow:    Low,
		"":                   None,
	}
	for in, want := range cases {
		if got := ForPriority(in); got != want {
			t.Fatalf("%q: expected %v, got %v", in, want, got)
		}
	}
}

func TestForPlanDay(t *testing.T) {
	p := &entry.Progress{CompletedDays: entry.NewDaySet(1, 2)}
	if ForPlanDay(p, 2) != Read {
		t.Fatalf("expected day 2 read")
	}
	if ForPlanDay(p, 3) != Reading {
		t.Fatalf("expected day 3 pending")
	}
	if ForPlanDay(nil, 1) != Reading {
		t.Fatalf("expected pending without a plan")
	}
}

func TestLegendOrder(t *testing.T) {
	list := make([]Glyph, 0)
	for _, g := range DefaultBullets() {
		if g.Printed {
			list = append(list, g)
		}
	}
	sort.Sort(ByOrder(list))
	if len(list) != 5 {
		t.Fatalf("expected 5 printed bullets, got %d", len(list))
	}
	if list[0].Symbol != Open.String() || list[4].Symbol != Read.String() {
		t.Fatalf("unexpected order %+v", list)
	}
}
