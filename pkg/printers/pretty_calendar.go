package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/daybook/pkg/entry"
)

const width = len("11 12 13 14 15 16 17") // an example week

// Calendar prints the month containing on with journaled days in bold and
// today underlined.
func (pp *PrettyPrint) Calendar(on, today entry.Date, journaled []entry.Date) {
	first := entry.NewDate(on.Year, on.Month, 1)
	count := make([]int, DaysIn(first))
	for _, d := range journaled {
		if d.Year == on.Year && d.Month == on.Month {
			count[d.Day-1]++
		}
	}
	todayIdx := -1
	if today.Year == on.Year && today.Month == on.Month {
		todayIdx = today.Day - 1
	}
	pp.PrintMonthCount(first, count, todayIdx)
}

// CalendarRange prints every month from since through until.
func (pp *PrettyPrint) CalendarRange(since, until, today entry.Date, journaled []entry.Date) {
	m := entry.NewDate(since.Year, since.Month, 1)
	for !m.After(until) {
		pp.Calendar(m, today, journaled)
		m = NextMonth(m)
	}
}

func (pp *PrettyPrint) PrintMonthCount(first entry.Date, count []int, today int) {
	w := pp.out()
	d := StartDay(first)

	tf := color.New(color.FgWhite, color.Italic)

	m := fmt.Sprintf("%s %d", first.Month, first.Year)
	mid := (width - len(m)) / 2
	_, _ = tf.Fprintf(w, "%s%s%s\n", strings.Repeat(" ", mid), m, strings.Repeat(" ", width-mid-len(m)))

	// Pad out the start of the month.
	for i := time.Monday; i != d; i = (i + 1) % 7 {
		_, _ = fmt.Fprint(w, "   ")
	}

	l1 := color.New(color.Faint, color.FgWhite)
	l2 := color.New(color.Bold, color.FgHiWhite)
	l3 := color.New(color.Underline)

	for i := 0; i < len(count); i++ {
		printer := l1
		if count[i] > 0 {
			printer = l2
		}
		if i == today {
			printer = l3
			if count[i] > 0 {
				printer = color.New(color.Underline, color.Bold, color.FgHiWhite)
			}
		}
		_, _ = printer.Fprintf(w, "%2d", i+1)
		_, _ = fmt.Fprint(w, " ")

		d = (d + 1) % 7
		if d == time.Monday {
			_, _ = fmt.Fprint(w, "\n")
		}
	}
	_, _ = fmt.Fprint(w, "\n\n")
}

// NextMonth returns the first day of the month after then.
func NextMonth(then entry.Date) entry.Date {
	return entry.NewDate(then.Year, then.Month+1, 1)
}

// DaysIn returns the number of days in then's month.
func DaysIn(then entry.Date) int {
	return entry.NewDate(then.Year, then.Month+1, 0).Day
}

// StartDay returns the weekday of the first of then's month.
func StartDay(then entry.Date) time.Weekday {
	return entry.NewDate(then.Year, then.Month, 1).Weekday()
}
