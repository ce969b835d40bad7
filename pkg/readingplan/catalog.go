package readingplan

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"tableflip.dev/daybook/pkg/scripture"
)

//go:embed plans.yaml
var defaultPlans []byte

// Plan describes a multi-day reading plan.
type Plan struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Days        int    `yaml:"days" json:"totalDays"`
	// Readings lists explicit references per day.
	Readings map[int][]string `yaml:"readings,omitempty" json:"-"`
	// Sequence assigns one chapter per day, walking the books in order.
	// It fills any day without explicit Readings.
	Sequence []SequenceBook `yaml:"sequence,omitempty" json:"-"`
}

// SequenceBook is one book in a chapter-per-day sequence.
type SequenceBook struct {
	Book     string `yaml:"book"`
	Chapters int    `yaml:"chapters"`
}

// Catalog is the set of known plans keyed by id.
type Catalog struct {
	plans map[string]Plan
}

type catalogFile struct {
	Plans []Plan `yaml:"plans"`
}

// DefaultCatalog returns the built-in plans.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultPlans)
	if err != nil {
		panic(fmt.Sprintf("readingplan: embedded catalog: %v", err))
	}
	return c
}

// LoadCatalog reads the built-in plans and overlays the plans in path. An
// empty path returns the built-in catalog.
func LoadCatalog(path string) (*Catalog, error) {
	c := DefaultCatalog()
	if strings.TrimSpace(path) == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("readingplan: read catalog: %w", err)
	}
	extra, err := ParseCatalog(data)
	if err != nil {
		return nil, err
	}
	for id, p := range extra.plans {
		c.plans[id] = p
	}
	return c, nil
}

// ParseCatalog decodes a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("readingplan: parse catalog: %w", err)
	}
	c := &Catalog{plans: make(map[string]Plan, len(f.Plans))}
	for _, p := range f.Plans {
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			return nil, fmt.Errorf("readingplan: plan %q has no id", p.Name)
		}
		if p.Days <= 0 {
			for _, s := range p.Sequence {
				p.Days += s.Chapters
			}
		}
		if p.Days <= 0 {
			return nil, fmt.Errorf("readingplan: plan %q has no days", p.ID)
		}
		if p.Name == "" {
			p.Name = p.ID
		}
		c.plans[p.ID] = p
	}
	return c, nil
}

// Plan looks up a plan by id.
func (c *Catalog) Plan(id string) (Plan, bool) {
	p, ok := c.plans[strings.TrimSpace(id)]
	return p, ok
}

// Plans returns every plan sorted by id.
func (c *Catalog) Plans() []Plan {
	out := make([]Plan, 0, len(c.plans))
	for _, p := range c.plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ReadingsFor returns the references assigned to day of the plan.
func (p Plan) ReadingsFor(day int) ([]scripture.Reference, error) {
	if day < 1 || day > p.Days {
		return nil, fmt.Errorf("readingplan: day %d outside 1..%d", day, p.Days)
	}
	if raw, ok := p.Readings[day]; ok {
		refs := make([]scripture.Reference, 0, len(raw))
		for _, r := range raw {
			ref, err := scripture.ParseReference(r)
			if err != nil {
				return nil, err
			}
			refs = append(refs, ref)
		}
		return refs, nil
	}
	n := day
	for _, s := range p.Sequence {
		if n <= s.Chapters {
			return []scripture.Reference{{Book: strings.ToUpper(s.Book), Chapter: n}}, nil
		}
		n -= s.Chapters
	}
	return nil, nil
}
