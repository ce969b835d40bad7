// Package log provides the runner that reviews recent journal days.
package log

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/daybook/pkg/app"
	"tableflip.dev/daybook/pkg/entry"
	"tableflip.dev/daybook/pkg/printers"
)

// Log prints one line per journaled day in the Days ending at Until.
type Log struct {
	App   *app.Service
	User  string
	Until entry.Date
	Days  int
	// Label names the span in the heading, such as "2w".
	Label    string
	Calendar bool
	Encode   func(any) error
	Out      io.Writer
}

const (
	layoutUSDay = "Mon Jan 2"
)

func (n *Log) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not log, no journal")
	}
	if n.Days < 1 {
		return errors.New("log span must be at least one day")
	}

	since := n.Until.AddDays(-(n.Days - 1))
	result, err := n.App.Report(ctx, n.User, since, n.Until)
	if err != nil {
		return err
	}
	if n.Encode != nil {
		return n.Encode(result)
	}

	out := n.Out
	if out == nil {
		out = color.Output
	}
	pp := printers.PrettyPrint{Out: out}
	pp.NewLine()
	pp.TitleWithCount(fmt.Sprintf("Log · last %s (%s → %s)", n.Label, result.Since, result.Until), len(result.Days), "day")

	if len(result.Days) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprintln(out, "  No entries in this span.")
		_, _ = fmt.Fprintln(out, "")
		return nil
	}

	done := color.New(color.FgGreen)
	faint := color.New(color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, d := range result.Days {
		mark := faint.Sprint("·")
		if d.Entry.Completed {
			mark = done.Sprint("✔")
		}
		plan := ""
		if d.PlanDay > 0 {
			plan = fmt.Sprintf("plan day %d", d.PlanDay)
		}
		tbl.AddRow(
			mark,
			d.Entry.Date.Time(nil).Format(layoutUSDay),
			fmt.Sprintf("%d/%d sections", d.Sections, app.TotalSections),
			fmt.Sprintf("%d/%d goals", d.GoalsDone, d.GoalsTotal),
			plan,
		)
	}
	_, _ = fmt.Fprintln(out, tbl)
	_, _ = faint.Fprintf(out, "%d of %d days complete\n\n", result.Completed, len(result.Days))

	if n.Calendar {
		dates := make([]entry.Date, 0, len(result.Days))
		for _, d := range result.Days {
			dates = append(dates, d.Entry.Date)
		}
		pp.CalendarRange(result.Since, result.Until, n.App.Today(), dates)
	}
	return nil
}
