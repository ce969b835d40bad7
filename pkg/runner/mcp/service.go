// Package mcp provides the Model Context Protocol server integration for daybook.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/daybook/pkg/app"
	"tableflip.dev/daybook/pkg/entry"
	"tableflip.dev/daybook/pkg/readingplan"
	"tableflip.dev/daybook/pkg/stats"
)

// Service adapts the journal core to the shapes the MCP tools return.
type Service struct {
	App *app.Service
	// User is used when a request names no user.
	User string
}

// ErrUserRequired is returned when neither the request nor the service
// names a user.
var ErrUserRequired = errors.New("user is required")

// GoalsDTO is the goal view for one reference date.
type GoalsDTO struct {
	User    string       `json:"user"`
	Date    entry.Date   `json:"date"`
	Daily   []entry.Goal `json:"daily"`
	Weekly  []entry.Goal `json:"weekly"`
	Monthly []entry.Goal `json:"monthly"`
}

// PlanStateDTO is a plan's resolved progress.
type PlanStateDTO struct {
	User     string             `json:"user"`
	PlanID   string             `json:"planId"`
	Status   readingplan.Status `json:"status"`
	Percent  int                `json:"percent"`
	Progress *entry.Progress    `json:"progress"`
	Readings []string           `json:"readings,omitempty"`
}

// StatsDTO is the streak summary for one reference date.
type StatsDTO struct {
	User string     `json:"user"`
	Date entry.Date `json:"date"`
	stats.Summary
}

// PlanDTO describes a catalog plan.
type PlanDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TotalDays   int    `json:"totalDays"`
}

// NewService builds a service wrapper around the journal core.
func NewService(a *app.Service, user string) *Service {
	return &Service{App: a, User: user}
}

func (s *Service) user(requested string) (string, error) {
	if u := strings.TrimSpace(requested); u != "" {
		return u, nil
	}
	if u := strings.TrimSpace(s.User); u != "" {
		return u, nil
	}
	return "", ErrUserRequired
}

// ParseDate reads a YYYY-MM-DD date, defaulting to today for empty input.
func (s *Service) ParseDate(input string) (entry.Date, error) {
	if strings.TrimSpace(input) == "" {
		return s.App.Today(), nil
	}
	d, err := entry.ParseDate(input)
	if err != nil {
		return entry.Date{}, fmt.Errorf("invalid date %q: %w", input, err)
	}
	return d, nil
}

// CurrentGoals returns the goals visible for user on date.
func (s *Service) CurrentGoals(ctx context.Context, user, date string) (*GoalsDTO, error) {
	u, err := s.user(user)
	if err != nil {
		return nil, err
	}
	ref, err := s.ParseDate(date)
	if err != nil {
		return nil, err
	}
	g, err := s.App.CurrentGoals(ctx, u, ref)
	if err != nil {
		return nil, err
	}
	return &GoalsDTO{User: u, Date: ref, Daily: g.Daily, Weekly: g.Weekly, Monthly: g.Monthly}, nil
}

// ReadingPlanState returns the resolved progress for planID. An empty
// planID means the user's active plan.
func (s *Service) ReadingPlanState(ctx context.Context, user, planID string) (*PlanStateDTO, error) {
	u, err := s.user(user)
	if err != nil {
		return nil, err
	}
	var p *entry.Progress
	if strings.TrimSpace(planID) == "" {
		p, err = s.App.ActivePlan(ctx, u)
	} else {
		p, err = s.App.ReadingPlanState(ctx, u, planID)
	}
	if err != nil {
		return nil, err
	}
	dto := &PlanStateDTO{User: u, PlanID: strings.TrimSpace(planID), Progress: p}
	if p == nil {
		dto.Status = readingplan.NotStarted
		return dto, nil
	}
	dto.PlanID = p.PlanID
	dto.Status = readingplan.StatusOf(p)
	dto.Percent = readingplan.Percent(p)
	if plan, err := s.App.Plan(p.PlanID); err == nil {
		if refs, err := plan.ReadingsFor(p.CurrentDay); err == nil {
			for _, r := range refs {
				dto.Readings = append(dto.Readings, r.String())
			}
		}
	}
	return dto, nil
}

// Stats returns streaks and completion rate for user as of date.
func (s *Service) Stats(ctx context.Context, user, date string) (*StatsDTO, error) {
	u, err := s.user(user)
	if err != nil {
		return nil, err
	}
	ref, err := s.ParseDate(date)
	if err != nil {
		return nil, err
	}
	sum, err := s.App.Stats(ctx, u, ref)
	if err != nil {
		return nil, err
	}
	return &StatsDTO{User: u, Date: ref, Summary: sum}, nil
}

// SaveDay merges partial into user's entry for date.
func (s *Service) SaveDay(ctx context.Context, user, date string, partial app.Partial) (*entry.DayEntry, error) {
	u, err := s.user(user)
	if err != nil {
		return nil, err
	}
	d, err := s.ParseDate(date)
	if err != nil {
		return nil, err
	}
	return s.App.SaveDay(ctx, u, d, partial)
}

// Day returns the stored entry for user on date, or an empty one.
func (s *Service) Day(ctx context.Context, user, date string) (*entry.DayEntry, error) {
	u, err := s.user(user)
	if err != nil {
		return nil, err
	}
	d, err := s.ParseDate(date)
	if err != nil {
		return nil, err
	}
	e, err := s.App.Entry(ctx, u, d)
	if err != nil {
		return nil, err
	}
	if e == nil {
		e = entry.New(d)
	}
	return e, nil
}

// ListPlans returns the catalog.
func (s *Service) ListPlans() []PlanDTO {
	plans := s.App.Plans()
	out := make([]PlanDTO, 0, len(plans))
	for _, p := range plans {
		out = append(out, PlanDTO{ID: p.ID, Name: p.Name, Description: p.Description, TotalDays: p.Days})
	}
	return out
}
