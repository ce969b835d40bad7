// Package store persists day entries. It exposes the entry repository port
// the journal core consumes and ships diskv and SQLite adapters for it.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"tableflip.dev/daybook/pkg/entry"
)

// Persistence is the entry repository port. Implementations store one
// document per (user, date) and never merge: UpsertEntry replaces the whole
// document for that date.
type Persistence interface {
	// AllEntries returns every entry for user, oldest first.
	AllEntries(ctx context.Context, user string) ([]*entry.DayEntry, error)
	// Entry returns the entry for user on date, or nil when none exists.
	Entry(ctx context.Context, user string, date entry.Date) (*entry.DayEntry, error)
	// UpsertEntry writes e as the full document for user on date and returns
	// the stored copy.
	UpsertEntry(ctx context.Context, user string, date entry.Date, e *entry.DayEntry) (*entry.DayEntry, error)
}

// Watcher is implemented by persistence backends that can report changes
// made by other processes, such as a file sync from another device.
type Watcher interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

// ErrNotConfigured is returned when no persistence was supplied.
var ErrNotConfigured = errors.New("store: no persistence configured")

// Error is a repository failure. The core does not retry; callers decide.
type Error struct {
	Op   string
	User string
	Date entry.Date
	Err  error
}

func (e *Error) Error() string {
	if e.Date.IsZero() {
		return fmt.Sprintf("store: %s %s: %v", e.Op, e.User, e.Err)
	}
	return fmt.Sprintf("store: %s %s/%s: %v", e.Op, e.User, e.Date, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func fail(op, user string, date entry.Date, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, User: user, Date: date, Err: err}
}

func sortEntries(entries []*entry.DayEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
}

// prepare readies e for storage under date, returning the copy to persist.
func prepare(date entry.Date, e *entry.DayEntry, now entry.Timestamp) (*entry.DayEntry, error) {
	if e == nil {
		return nil, errors.New("nil entry")
	}
	if date.IsZero() {
		return nil, entry.ErrInvalidDate
	}
	out := e.Clone()
	out.Date = date
	out.UpdatedAt = now
	if out.Goals.Daily == nil {
		out.Goals.Daily = []entry.Goal{}
	}
	if out.Goals.Weekly == nil {
		out.Goals.Weekly = []entry.Goal{}
	}
	if out.Goals.Monthly == nil {
		out.Goals.Monthly = []entry.Goal{}
	}
	out.DeletedGoalIDs = entry.NewIDSet(out.DeletedGoalIDs...).Sorted()
	return out, nil
}
