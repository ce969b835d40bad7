package entry

import (
	"fmt"
	"strings"
)

func (g Goal) String() string {
	done := " "
	if g.Completed {
		done = "x"
	}
	return fmt.Sprintf("%s [%s] %s (%s/%s)", g.ID, done, strings.TrimSpace(g.Text), g.Priority, g.Category)
}

func (p *Progress) String() string {
	if p == nil {
		return "no reading plan"
	}
	return fmt.Sprintf("%s day %d/%d (%d completed)", p.PlanName, p.CurrentDay, p.TotalDays, len(p.CompletedDays))
}
