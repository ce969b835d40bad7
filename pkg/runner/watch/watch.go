// Package watch provides the runner that follows store changes and
// re-derives a user's state when entries change underneath it.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/daybook/pkg/app"
	"tableflip.dev/daybook/pkg/entry"
	"tableflip.dev/daybook/pkg/store"
)

type Watch struct {
	App  *app.Service
	User string
	Out  io.Writer
}

func (n *Watch) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not watch, no journal")
	}
	events, err := n.App.Watch(ctx)
	if err != nil {
		return err
	}

	w := n.Out
	if w == nil {
		w = color.Output
	}
	_, _ = color.New(color.Faint).Fprintf(w, "watching journal for %s, ctrl-c to stop\n", n.User)
	if err := n.summarize(ctx, w); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !Relevant(ev, n.User) {
				continue
			}
			if err := n.summarize(ctx, w); err != nil {
				_, _ = fmt.Fprintf(w, "refresh failed: %v\n", err)
			}
		}
	}
}

// Relevant reports whether ev may change what user sees.
func Relevant(ev store.Event, user string) bool {
	return ev.User == "" || ev.User == user
}

func (n *Watch) summarize(ctx context.Context, w io.Writer) error {
	today := n.App.Today()
	sum, err := n.App.Stats(ctx, n.User, today)
	if err != nil {
		return err
	}
	goals, err := n.App.CurrentGoals(ctx, n.User, today)
	if err != nil {
		return err
	}
	open := 0
	for _, kind := range entry.AllKinds() {
		for _, g := range goals.List(kind) {
			if !g.Completed {
				open++
			}
		}
	}
	plan, err := n.App.ActivePlan(ctx, n.User)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "%s  streak %d (best %d)  %d%% complete  %d open goals  %s\n",
		time.Now().Format("15:04:05"), sum.CurrentStreak, sum.LongestStreak, sum.CompletionRate, open, plan)
	return nil
}
