// Package glyph holds the symbols used to print goals and reading plan days.
package glyph

import (
	"fmt"

	"tableflip.dev/daybook/pkg/entry"
)

type Glyph struct {
	Key       string
	Symbol    string
	Meaning   string
	Signifier bool
	// Printed is false for glyphs that never reach the legend.
	Printed bool
	Order   int
}

const (
	escape        = "\x1b"
	resetCode     = 0
	boldCode      = 1
	strikeCode    = 9
	underlineCode = 4
)

func Strike(in string) string {
	return fmt.Sprintf("%s[%dm%s%s[%dm", escape, strikeCode, in, escape, resetCode)
}

func Bold(in string) string {
	return fmt.Sprintf("%s[%dm%s%s[%dm", escape, boldCode, in, escape, resetCode)
}

func Underline(in string) string {
	return fmt.Sprintf("%s[%dm%s%s[%dm", escape, underlineCode, in, escape, resetCode)
}

type Bullet int
type Signifier int

const (
	Open Bullet = iota
	Done
	Carried
	Reading
	Read
	Any
)

const (
	High Signifier = iota
	Medium
	Low
	None
)

var bullets = map[Bullet]Glyph{
	Open:    {Key: "+", Symbol: "●", Meaning: "goal", Printed: true, Order: 1},
	Done:    {Key: "x", Symbol: "✘", Meaning: "goal completed", Printed: true, Order: 2},
	Carried: {Key: ">", Symbol: "›", Meaning: "goal carried over from an earlier day", Printed: true, Order: 3},
	Reading: {Key: "o", Symbol: "○", Meaning: "reading plan day", Printed: true, Order: 4},
	Read:    {Key: "*", Symbol: "◉", Meaning: "reading plan day read", Printed: true, Order: 5},
	Any:     {Key: "", Symbol: "", Meaning: "any"},
}

var signifiers = map[Signifier]Glyph{
	High:   {Key: "!", Symbol: "✷", Meaning: "high priority", Signifier: true, Printed: true, Order: 1},
	Medium: {Key: " ", Symbol: " ", Meaning: "medium priority", Signifier: true, Printed: true, Order: 2},
	Low:    {Key: "-", Symbol: "·", Meaning: "low priority", Signifier: true, Printed: true, Order: 3},
	None:   {Key: " ", Symbol: " ", Meaning: "none", Signifier: true},
}

func DefaultBullets() map[Bullet]Glyph {
	return bullets
}

func DefaultSignifiers() map[Signifier]Glyph {
	return signifiers
}

// ByOrder sorts glyphs for the legend.
type ByOrder []Glyph

func (a ByOrder) Len() int           { return len(a) }
func (a ByOrder) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a ByOrder) Less(i, j int) bool { return a[i].Order < a[j].Order }

func (g Glyph) String() string {
	return g.Symbol
}

func (b Bullet) Glyph() Glyph {
	return bullets[b]
}

func (b Bullet) String() string {
	return b.Glyph().String()
}

func (s Signifier) Glyph() Glyph {
	return signifiers[s]
}

func (s Signifier) String() string {
	return s.Glyph().String()
}

// ForGoal returns the bullet for a goal's completion state.
func ForGoal(g entry.Goal) Bullet {
	if g.Completed {
		return Done
	}
	return Open
}

// ForPriority maps a goal priority to its signifier.
func ForPriority(p entry.Priority) Signifier {
	switch p {
	case entry.PriorityHigh:
		return High
	case entry.PriorityMedium:
		return Medium
	case entry.PriorityLow:
		return Low
	}
	return None
}

// ForPlanDay returns the bullet for day of p.
func ForPlanDay(p *entry.Progress, day int) Bullet {
	if p != nil && p.CompletedDays.Has(day) {
		return Read
	}
	return Reading
}
