// Package day provides the runners for a day's reflection sections.
package day

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

// Set updates the reflection sections of User's entry on On. Nil fields are
// left alone.
type Set struct {
	App  *app.Service
	User string
	On   entry.Date

	Intention   *string
	Gratitude   []string
	Feeling     *string
	Emotions    []string
	Leadership  *int
	Scripture   *string
	Observation *string
	Application *string
	Prayer      *string

	Out io.Writer
}

func (n *Set) out() io.Writer {
	if n.Out != nil {
		return n.Out
	}
	return color.Output
}

func assign(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func (n *Set) Do(ctx context.Context) (err error) {
	if n.App == nil {
		return errors.New("can not set day, no journal")
	}
	if n.Leadership != nil && (*n.Leadership < 0 || *n.Leadership > 10) {
		return fmt.Errorf("leadership rating %d outside 0..10", *n.Leadership)
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

	r := sess.Reflection()
	assign(&r.DailyIntention, n.Intention)
	assign(&r.CheckIn.Feeling, n.Feeling)
	assign(&r.SOAP.Scripture, n.Scripture)
	assign(&r.SOAP.Observation, n.Observation)
	assign(&r.SOAP.Application, n.Application)
	assign(&r.SOAP.Prayer, n.Prayer)
	if n.Gratitude != nil {
		r.Gratitude = append([]string{}, n.Gratitude...)
	}
	if n.Emotions != nil {
		r.CheckIn.Emotions = append([]string{}, n.Emotions...)
	}
	if n.Leadership != nil {
		r.LeadershipRating = *n.Leadership
	}
	sess.SetReflection(r)

	saved, err := sess.Flush(ctx)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{Out: n.out()}
	pp.NewLine()
	pp.Reflection(saved.Reflection)
	if saved.Completed {
		_, _ = color.New(color.FgGreen).Fprintf(n.out(), "%s is complete (%d of %d sections)\n\n",
			saved.Date, app.SectionsPresent(saved), app.TotalSections)
	} else {
		_, _ = color.New(color.Faint).Fprintf(n.out(), "%s: %d of %d sections\n\n",
			saved.Date, app.SectionsPresent(saved), app.TotalSections)
	}
	return nil
}

// Show prints User's stored entry for On.
type Show struct {
	App    *app.Service
	User   string
	On     entry.Date
	ShowID bool
	Encode func(any) error
	Out    io.Writer
}

func (n *Show) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not show day, no journal")
	}
	e, err := n.App.Entry(ctx, n.User, n.On)
	if err != nil {
		return err
	}
	if e == nil {
		e = entry.New(n.On)
	}
	if n.Encode != nil {
		return n.Encode(e)
	}

	w := n.Out
	if w == nil {
		w = color.Output
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: w}
	pp.NewLine()
	pp.Title(e.Date.String())
	pp.NewLine()
	pp.GoalSet(e.Goals)
	if e.ReadingPlan != nil {
		pp.Plan(e.ReadingPlan, nil)
	}
	pp.Reflection(e.Reflection)
	return nil
}
