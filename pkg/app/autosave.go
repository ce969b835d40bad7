package app

import (
	"context"
	"log"
	"sync"
	"time"
)

// Autosaver debounces save requests. At most one save runs at a time; any
// requests that arrive while it runs collapse into a single follow-up save,
// which reads whatever state is current when it starts.
type Autosaver struct {
	// Log receives background save failures. Nil uses log.Default().
	Log *log.Logger

	delay time.Duration
	save  func(context.Context) error

	mu        sync.Mutex
	gen       uint64
	scheduled bool
	timer     *time.Timer
	inFlight  bool
	pending   bool
	idle      chan struct{}
	stopped   bool
	lastErr   error
}

// NewAutosaver returns an Autosaver that calls save delay after the last
// request in a burst.
func NewAutosaver(delay time.Duration, save func(context.Context) error) *Autosaver {
	return &Autosaver{delay: delay, save: save}
}

// Request schedules a save, restarting the debounce delay.
func (a *Autosaver) Request() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return
	}
	a.cancelLocked()
	a.gen++
	gen := a.gen
	a.scheduled = true
	a.timer = time.AfterFunc(a.delay, func() { a.fire(gen) })
}

func (a *Autosaver) cancelLocked() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.scheduled = false
	a.gen++
}

func (a *Autosaver) fire(gen uint64) {
	a.mu.Lock()
	if gen != a.gen || !a.scheduled {
		a.mu.Unlock()
		return
	}
	a.scheduled = false
	a.timer = nil
	if a.inFlight {
		a.pending = true
		a.mu.Unlock()
		return
	}
	a.beginLocked()
	a.mu.Unlock()
	// Background saves are not tied to any caller; the next read re-derives
	// from storage whether or not this completes.
	a.run(context.Background())
}

func (a *Autosaver) beginLocked() {
	a.inFlight = true
	a.idle = make(chan struct{})
}

// run saves until no follow-up is pending, then marks the saver idle.
func (a *Autosaver) run(ctx context.Context) error {
	for {
		err := a.save(ctx)
		if err != nil {
			a.logf("app: autosave: %v", err)
		}
		a.mu.Lock()
		a.lastErr = err
		if !a.pending || a.stopped {
			a.pending = false
			a.inFlight = false
			close(a.idle)
			a.mu.Unlock()
			return err
		}
		a.pending = false
		a.mu.Unlock()
	}
}

// Flush runs any scheduled save now and waits for in-flight saves to finish.
// It returns the error of the last save that ran, if any.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	want := a.scheduled
	a.cancelLocked()
	for a.inFlight {
		idle := a.idle
		a.mu.Unlock()
		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
		a.mu.Lock()
	}
	if !want {
		err := a.lastErr
		a.mu.Unlock()
		return err
	}
	a.beginLocked()
	a.mu.Unlock()
	return a.run(ctx)
}

// Pending reports whether a save is scheduled or running.
func (a *Autosaver) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.scheduled || a.inFlight
}

// Stop cancels any scheduled save and ignores further requests. A save
// already running is left to finish.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopped = true
	a.cancelLocked()
}

func (a *Autosaver) logf(format string, args ...any) {
	l := a.Log
	if l == nil {
		l = log.Default()
	}
	l.Printf(format, args...)
}
