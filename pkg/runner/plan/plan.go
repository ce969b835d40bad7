// Package plan provides the reading plan runners.
package plan

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/daybook/pkg/app"
	"tableflip.dev/daybook/pkg/entry"
	"tableflip.dev/daybook/pkg/printers"
	"tableflip.dev/daybook/pkg/readingplan"
	"tableflip.dev/daybook/pkg/scripture"
)

func output(w io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return color.Output
}

// List prints the plan catalog.
type List struct {
	App    *app.Service
	Encode func(any) error
	Out    io.Writer
}

func (n *List) Do(_ context.Context) error {
	if n.App == nil {
		return errors.New("can not list plans, no journal")
	}
	plans := n.App.Plans()
	if n.Encode != nil {
		return n.Encode(plans)
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Days"), bold.Sprint("Name"), bold.Sprint("Description"))
	for _, p := range plans {
		tbl.AddRow(p.ID, p.Days, p.Name, truncate.StringWithTail(p.Description, 48, "…"))
	}
	w := output(n.Out)
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, tbl)
	_, _ = fmt.Fprintln(w, "")
	return nil
}

// Show prints a plan's resolved progress and today's readings.
type Show struct {
	App  *app.Service
	User string
	// PlanID selects a plan. Empty shows the active plan.
	PlanID string
	Encode func(any) error
	Out    io.Writer
}

// View is the structured output of Show.
type View struct {
	PlanID   string             `json:"planId" yaml:"planId"`
	Status   readingplan.Status `json:"status" yaml:"status"`
	Percent  int                `json:"percent" yaml:"percent"`
	Progress *entry.Progress    `json:"progress" yaml:"progress"`
	Readings []app.Passage      `json:"readings,omitempty" yaml:"readings,omitempty"`
}

func (n *Show) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not show plan, no journal")
	}

	var (
		p   *entry.Progress
		err error
	)
	if n.PlanID == "" {
		p, err = n.App.ActivePlan(ctx, n.User)
	} else {
		if _, err := n.App.Plan(n.PlanID); err != nil {
			return err
		}
		p, err = n.App.ReadingPlanState(ctx, n.User, n.PlanID)
	}
	if err != nil {
		return err
	}

	view := View{PlanID: n.PlanID, Status: readingplan.StatusOf(p), Progress: p}
	if p != nil {
		view.PlanID = p.PlanID
		view.Percent = readingplan.Percent(p)
		if readings, err := n.App.Readings(ctx, p.PlanID, p.CurrentDay); err == nil {
			view.Readings = readings
		}
	}
	if n.Encode != nil {
		return n.Encode(view)
	}

	w := output(n.Out)
	pp := printers.PrettyPrint{Out: w}
	pp.NewLine()
	if p == nil {
		if n.PlanID == "" {
			_, _ = fmt.Fprintln(w, "No reading plan started. Try `daybook plan list`.")
		} else {
			_, _ = fmt.Fprintf(w, "%s has not been started.\n", n.PlanID)
		}
		return nil
	}
	refs := make([]scripture.Reference, 0, len(view.Readings))
	for _, r := range view.Readings {
		refs = append(refs, r.Reference)
	}
	pp.Plan(p, refs)
	for _, r := range view.Readings {
		pp.Verses(r.Verses)
	}
	_, _ = color.New(color.Faint).Fprintf(w, "%s · %d%%\n\n", view.Status, view.Percent)
	return nil
}

// Step selects a plan transition.
type Step string

const (
	Start   Step = "start"
	Switch  Step = "switch"
	Next    Step = "next"
	Back    Step = "back"
	Mark    Step = "mark"
	Restart Step = "restart"
)

// Move applies Step to User's plan on On and saves the day.
type Move struct {
	App    *app.Service
	User   string
	On     entry.Date
	Step   Step
	PlanID string
	Out    io.Writer
}

func (n *Move) Do(ctx context.Context) (err error) {
	if n.App == nil {
		return errors.New("can not move plan, no journal")
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

	var p *entry.Progress
	switch n.Step {
	case Start:
		p, err = sess.StartPlan(ctx, n.PlanID)
	case Switch:
		p, err = sess.SwitchPlan(ctx, n.PlanID)
	case Next:
		p, err = sess.Advance()
	case Back:
		p, err = sess.Retreat()
	case Mark:
		p, err = sess.MarkComplete()
	case Restart:
		p, err = sess.Restart(ctx)
	default:
		return fmt.Errorf("unknown plan step %q", n.Step)
	}
	if err != nil {
		return err
	}
	if _, err := sess.Flush(ctx); err != nil {
		return err
	}

	var refs []scripture.Reference
	if plan, err := n.App.Plan(p.PlanID); err == nil {
		refs, _ = plan.ReadingsFor(p.CurrentDay)
	}
	pp := printers.PrettyPrint{Out: output(n.Out)}
	pp.NewLine()
	pp.Plan(p, refs)
	return nil
}
