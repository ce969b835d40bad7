// Package stats provides the runner that summarizes journaling streaks.
package stats

import (
	"context"
	"errors"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/daybook/pkg/app"
	"tableflip.dev/daybook/pkg/entry"
	"tableflip.dev/daybook/pkg/printers"
	engine "tableflip.dev/daybook/pkg/stats"
)

// Stats prints streaks and completion rate for User as of On.
type Stats struct {
	App  *app.Service
	User string
	On   entry.Date
	// Calendar adds a month view of journaled days.
	Calendar bool
	Encode   func(any) error
	Out      io.Writer
}

// View is the structured output of Stats.
type View struct {
	User           string     `json:"user" yaml:"user"`
	Date           entry.Date `json:"date" yaml:"date"`
	engine.Summary `yaml:",inline"`
}

func (n *Stats) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not get stats, no journal")
	}

	summary, err := n.App.Stats(ctx, n.User, n.On)
	if err != nil {
		return err
	}
	if n.Encode != nil {
		return n.Encode(View{User: n.User, Date: n.On, Summary: summary})
	}

	out := n.Out
	if out == nil {
		out = color.Output
	}
	pp := printers.PrettyPrint{Out: out}
	pp.NewLine()
	pp.Stats(summary)

	if n.Calendar {
		all, err := n.App.Entries(ctx, n.User)
		if err != nil {
			return err
		}
		pp.Calendar(n.On, n.App.Today(), engine.Dates(all))
	}
	return nil
}
