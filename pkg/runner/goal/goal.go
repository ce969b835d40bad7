// Package goal provides the runners that change one day's goals.
package goal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/daybook/pkg/app"
	"tableflip.dev/daybook/pkg/entry"
	"tableflip.dev/daybook/pkg/printers"
)

// Action selects what Goal.Do does.
type Action string

const (
	Add    Action = "add"
	Done   Action = "done"
	Undo   Action = "undo"
	Remove Action = "rm"
	Carry  Action = "carry"
)

// Goal applies Action to User's goals on On and prints the resulting list.
type Goal struct {
	App    *app.Service
	User   string
	On     entry.Date
	Kind   entry.Kind
	Action Action

	// Text is the goal text for Add.
	Text     string
	Priority entry.Priority
	Category entry.Category

	// Ref is an id or unique id prefix for Done, Undo and Remove.
	Ref string

	// Days bounds the Carry lookback.
	Days int

	ShowID bool
	Out    io.Writer
}

func (n *Goal) out() io.Writer {
	if n.Out != nil {
		return n.Out
	}
	return color.Output
}

func (n *Goal) Do(ctx context.Context) (err error) {
	if n.App == nil {
		return errors.New("can not change goals, no journal")
	}

	sess, err := n.App.OpenSession(ctx, n.User, n.On)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sess.Close(ctx); err == nil {
			err = cerr
		}
	}()

	kind := n.Kind
	switch n.Action {
	case Add:
		if strings.TrimSpace(n.Text) == "" {
			return errors.New("goal text is required")
		}
		g, err := sess.AddGoal(kind, n.Text, n.Priority, n.Category)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(n.out(), "added %s goal %s\n", kind, printers.ShortID(g.ID))
	case Done, Undo:
		g, err := sess.SetGoalCompleted(kind, n.Ref, n.Action == Done)
		if err != nil {
			return err
		}
		state := "open"
		if g.Completed {
			state = "completed"
		}
		_, _ = fmt.Fprintf(n.out(), "%s goal %s\n", state, printers.ShortID(g.ID))
	case Remove:
		g, err := sess.DeleteGoal(kind, n.Ref)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(n.out(), "removed %s goal %s\n", kind, printers.ShortID(g.ID))
	case Carry:
		kind = entry.Daily
		candidates, err := n.App.CarryOverCandidates(ctx, n.User, n.On, n.Days)
		if err != nil {
			return err
		}
		if len(candidates) == 0 {
			_, _ = fmt.Fprintln(n.out(), "nothing to carry over")
			return nil
		}
		list := make([]entry.Goal, 0, len(candidates))
		for _, c := range candidates {
			list = append(list, c.Goal)
		}
		added := sess.CarryOver(list)
		_, _ = fmt.Fprintf(n.out(), "carried %d goal(s) from %s\n", len(added), candidates[0].From)
	default:
		return fmt.Errorf("unknown goal action %q", n.Action)
	}

	if _, err := sess.Flush(ctx); err != nil {
		return err
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.out()}
	pp.NewLine()
	list := sess.Goals().List(kind)
	pp.TitleWithCount(fmt.Sprintf("%s · %s", kind, n.On), len(list), "goal")
	pp.Goals(list...)
	return nil
}
