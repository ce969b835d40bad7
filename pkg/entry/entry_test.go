package entry

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateWireFormat(t *testing.T) {
	d := NewDate(2024, time.January, 5)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-01-05"` {
		t.Fatalf("expected \"2024-01-05\", got %s", b)
	}
	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != d {
		t.Fatalf("expected %v, got %v", d, back)
	}
}

func TestDateUnmarshalTimestampKeepsCalendarDay(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"2024-03-10T23:30:00-08:00"`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d != MustDate("2024-03-10") {
		t.Fatalf("expected 2024-03-10, got %v", d)
	}
}

func TestDateInvalid(t *testing.T) {
	if _, err := ParseDate("2024-13-01"); err == nil {
		t.Fatalf("expected error for invalid month")
	}
	var d Date
	if err := json.Unmarshal([]byte(`"yesterday"`), &d); err == nil {
		t.Fatalf("expected error for non-date")
	}
}

func TestDateArithmeticAcrossDST(t *testing.T) {
	// 2024-03-10 is the US spring-forward day; civil arithmetic must not care.
	d := MustDate("2024-03-09")
	if got := d.AddDays(2); got != MustDate("2024-03-11") {
		t.Fatalf("expected 2024-03-11, got %v", got)
	}
	if got := MustDate("2024-03-11").DaysSince(d); got != 2 {
		t.Fatalf("expected 2 days, got %d", got)
	}
	if got := MustDate("2024-03-01").AddDays(-1); got != MustDate("2024-02-29") {
		t.Fatalf("expected leap day, got %v", got)
	}
}

func TestDateCompare(t *testing.T) {
	a, b := MustDate("2023-12-31"), MustDate("2024-01-01")
	if !a.Before(b) || !b.After(a) || a.Compare(a) != 0 {
		t.Fatalf("unexpected ordering for %v and %v", a, b)
	}
	if !MustDate("2024-01-03").Between(a, MustDate("2024-01-03")) {
		t.Fatalf("expected inclusive upper bound")
	}
}

func TestIDNormalization(t *testing.T) {
	cases := map[string]ID{
		`7`:        "7",
		`7.0`:      "7",
		`"7"`:      "7",
		`" 007 "`:  "7",
		`"w1"`:     "w1",
		`"12e3"`:   "12e3",
		`1e3`:      "1000",
		`1000`:     "1000",
		`1.5e1`:    "15",
		`1.5`:      "1.5",
		`null`:     "",
		`-3`:       "-3",
		`"abc-12"`: "abc-12",
	}
	for in, want := range cases {
		var id ID
		if err := json.Unmarshal([]byte(in), &id); err != nil {
			t.Fatalf("%s: unexpected error: %v", in, err)
		}
		if id != want {
			t.Errorf("%s: expected %q, got %q", in, want, id)
		}
	}
}

func TestDayEntryDecodesMixedIDs(t *testing.T) {
	raw := `{
		"date": "2024-01-01",
		"goals": {"daily": [{"id": 42, "text": "Run"}], "weekly": [], "monthly": []},
		"deletedGoalIds": [42, "w1"],
		"readingPlan": {"planId": "mcheyne", "planName": "M'Cheyne", "currentDay": 9, "totalDays": 5, "startDate": "2024-01-01", "completedDays": [3, 1, 1, 7]}
	}`
	var e DayEntry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if e.Goals.Daily[0].ID != "42" {
		t.Fatalf("expected id 42, got %q", e.Goals.Daily[0].ID)
	}
	if !e.Tombstones().Has("42") || !e.Tombstones().Has("w1") {
		t.Fatalf("expected both tombstones, got %v", e.DeletedGoalIDs)
	}
	if e.Goals.Daily[0].Priority != PriorityMedium || e.Goals.Daily[0].Category != CategoryPersonal {
		t.Fatalf("expected defaults, got %+v", e.Goals.Daily[0])
	}
	p := e.ReadingPlan
	if p.CurrentDay != 5 {
		t.Fatalf("expected current day clamped to 5, got %d", p.CurrentDay)
	}
	if got := p.CompletedDays.Sorted(); len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("expected completed days [1 3], got %v", got)
	}
}

func TestCompletedDaysSerializeSorted(t *testing.T) {
	p := &Progress{PlanID: "p", TotalDays: 10, CurrentDay: 1, CompletedDays: NewDaySet(4, 2, 9)}
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"planId":"p","planName":"","currentDay":1,"totalDays":10,"startDate":"","completedDays":[2,4,9]}`
	if string(b) != want {
		t.Fatalf("expected %s, got %s", want, b)
	}
}

func TestCloneIsDeep(t *testing.T) {
	e := New(MustDate("2024-01-01"))
	e.Goals.Weekly = append(e.Goals.Weekly, Goal{ID: "w1", Text: "Pray more"})
	e.ReadingPlan = &Progress{PlanID: "p", TotalDays: 3, CurrentDay: 1, CompletedDays: NewDaySet(1)}
	c := e.Clone()
	c.Goals.Weekly[0].Text = "changed"
	c.ReadingPlan.CompletedDays[2] = struct{}{}
	if e.Goals.Weekly[0].Text != "Pray more" {
		t.Fatalf("clone shares goal storage")
	}
	if e.ReadingPlan.CompletedDays.Has(2) {
		t.Fatalf("clone shares completed days")
	}
}

func TestProgressWithoutLengthKeepsCompletedDays(t *testing.T) {
	var p Progress
	raw := `{"planId":"john","currentDay":4,"startDate":"2024-01-01","completedDays":[1,2,3,5]}`
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	p.Normalize()
	if p.TotalDays != 5 {
		t.Fatalf("expected length raised to 5, got %d", p.TotalDays)
	}
	if p.CurrentDay != 4 {
		t.Fatalf("expected current day 4, got %d", p.CurrentDay)
	}
	if got := p.CompletedDays.Sorted(); len(got) != 4 || got[3] != 5 {
		t.Fatalf("expected every completed day kept, got %v", got)
	}

	empty := Progress{PlanID: "john"}
	empty.Normalize()
	if empty.TotalDays != 1 || empty.CurrentDay != 1 {
		t.Fatalf("expected 1 of 1, got %d of %d", empty.CurrentDay, empty.TotalDays)
	}
}
