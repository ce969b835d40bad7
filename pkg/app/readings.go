package app

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/daybook/pkg/scripture"
)

// Passage is one reference of a plan day with its text when a provider has it.
type Passage struct {
	Reference scripture.Reference `json:"reference" yaml:"reference"`
	Verses    []scripture.Verse   `json:"verses,omitempty" yaml:"verses,omitempty"`
}

// Readings returns the passages assigned to day of planID. Verse text is
// filled from the Scripture provider when one is configured; references the
// provider does not know are returned without text.
func (s *Service) Readings(ctx context.Context, planID string, day int) ([]Passage, error) {
	plan, err := s.Plan(planID)
	if err != nil {
		return nil, err
	}
	refs, err := plan.ReadingsFor(day)
	if err != nil {
		return nil, err
	}
	out := make([]Passage, 0, len(refs))
	for _, r := range refs {
		p := Passage{Reference: r}
		if s.Scripture != nil {
			verses, err := scripture.Fetch(ctx, s.Scripture, s.ScriptureVersion, r)
			switch {
			case errors.Is(err, scripture.ErrNotFound):
			case err != nil:
				return nil, fmt.Errorf("app: readings for %s: %w", r, err)
			default:
				p.Verses = verses
			}
		}
		out = append(out, p)
	}
	return out, nil
}
