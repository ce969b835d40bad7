// Package goals provides the runner that lists the goals visible on a day.
package goals

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/daybook/pkg/app"
	"tableflip.dev/daybook/pkg/entry"
	"tableflip.dev/daybook/pkg/printers"
)

// Goals prints the daily, weekly and monthly goals for User on On.
type Goals struct {
	App    *app.Service
	User   string
	On     entry.Date
	ShowID bool
	Width  int
	// Encode writes structured output. Nil prints the pretty view.
	Encode func(any) error
	Out    io.Writer
}

// View is the structured output of Goals.
type View struct {
	User  string      `json:"user" yaml:"user"`
	Date  entry.Date  `json:"date" yaml:"date"`
	Goals entry.Goals `json:"goals" yaml:"goals"`
}

const layoutUS = "Monday, January 2, 2006"

func (n *Goals) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not get goals, no journal")
	}

	g, err := n.App.CurrentGoals(ctx, n.User, n.On)
	if err != nil {
		return err
	}
	if n.Encode != nil {
		return n.Encode(View{User: n.User, Date: n.On, Goals: g})
	}

	out := n.Out
	if out == nil {
		out = color.Output
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID, Width: n.Width, Out: out}
	_, _ = fmt.Fprintln(out, "")
	pp.Title(n.On.Time(nil).Format(layoutUS))
	pp.NewLine()
	pp.GoalSet(g)
	return nil
}
