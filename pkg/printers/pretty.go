// Package printers renders journal state for the terminal.
package printers

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"tableflip.dev/daybook/pkg/entry"
	"tableflip.dev/daybook/pkg/glyph"
	"tableflip.dev/daybook/pkg/scripture"
	"tableflip.dev/daybook/pkg/stats"
)

// DefaultWidth is the wrap width used when PrettyPrint.Width is unset.
const DefaultWidth = 80

type PrettyPrint struct {
	ShowID bool
	Width  int
	// Out defaults to color.Output.
	Out io.Writer
}

const idWidth = 8

var (
	spacing = strings.Repeat(" ", idWidth+2)
	title   = cases.Title(language.English)
)

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) width() int {
	if pp.Width > 0 {
		return pp.Width
	}
	return DefaultWidth
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(text string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprintln(pp.out(), text)
}

func (pp *PrettyPrint) TitleWithCount(text string, count int, noun string) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprint(pp.out(), text)
	_, _ = c.Fprintf(pp.out(), " - %d %s", count, noun)
	if count != 1 {
		_, _ = c.Fprint(pp.out(), "s")
	}
	_, _ = c.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	if pp.ShowID {
		_, _ = f.Fprint(pp.out(), spacing)
	}
	_, _ = f.Fprint(pp.out(), " none\n\n")
}

// ShortID trims a goal id for display.
func ShortID(id entry.ID) string {
	s := id.String()
	if len(s) > idWidth {
		return s[:idWidth]
	}
	return s
}

// Goals prints one goal per line as signifier, bullet and wrapped text.
func (pp *PrettyPrint) Goals(goals ...entry.Goal) {
	if len(goals) == 0 {
		pp.none()
		return
	}

	t := color.New()
	done := color.New(color.Faint)
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	cat := color.New(color.Faint, color.Italic)

	// signifier, space, bullet, space
	textWidth := pp.width() - 4
	if pp.ShowID {
		textWidth -= len(spacing)
	}
	for _, g := range goals {
		if pp.ShowID {
			id := ShortID(g.ID)
			_, _ = y.Fprint(pp.out(), id)
			_, _ = y.Fprint(pp.out(), strings.Repeat(" ", len(spacing)-len(id)))
		}
		printer := t
		if g.Completed {
			printer = done
		}
		lines := strings.Split(wordwrap.String(strings.TrimSpace(g.Text), textWidth), "\n")
		_, _ = printer.Fprintf(pp.out(), "%s %s %s", glyph.ForPriority(g.Priority), glyph.ForGoal(g), lines[0])
		_, _ = cat.Fprintf(pp.out(), "  %s\n", title.String(string(g.Category)))
		pad := 4
		if pp.ShowID {
			pad += len(spacing)
		}
		for _, l := range lines[1:] {
			_, _ = printer.Fprintln(pp.out(), indent.String(l, uint(pad)))
		}
	}
	_, _ = t.Fprintln(pp.out(), "")
}

// GoalSet prints the three goal lists under their titles.
func (pp *PrettyPrint) GoalSet(g entry.Goals) {
	for _, kind := range entry.AllKinds() {
		list := g.List(kind)
		pp.TitleWithCount(title.String(string(kind)), len(list), "goal")
		pp.Goals(list...)
	}
}

// Plan prints a reading plan record and the references for its current day.
func (pp *PrettyPrint) Plan(p *entry.Progress, readings []scripture.Reference) {
	if p == nil {
		pp.Title("Reading plan")
		pp.none()
		return
	}
	b := color.New(color.Bold)
	f := color.New(color.Faint)

	name := p.PlanName
	if strings.TrimSpace(name) == "" {
		name = p.PlanID
	}
	pp.Title(name)
	_, _ = b.Fprintf(pp.out(), "Day %d of %d", p.CurrentDay, p.TotalDays)
	_, _ = f.Fprintf(pp.out(), "  started %s, %d read\n", p.StartDate, len(p.CompletedDays))

	refs := make([]string, 0, len(readings))
	for _, r := range readings {
		refs = append(refs, r.String())
	}
	if len(refs) > 0 {
		_, _ = fmt.Fprintf(pp.out(), "%s %s\n", glyph.ForPlanDay(p, p.CurrentDay), strings.Join(refs, "; "))
	}
	_, _ = fmt.Fprintln(pp.out(), "")
}

// Verses prints passage text wrapped to the configured width.
func (pp *PrettyPrint) Verses(verses []scripture.Verse) {
	if len(verses) == 0 {
		return
	}
	n := color.New(color.Faint)
	var sb strings.Builder
	for i, v := range verses {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(n.Sprint(strconv.Itoa(v.Number)))
		sb.WriteString(" ")
		sb.WriteString(strings.TrimSpace(v.Text))
	}
	_, _ = fmt.Fprintln(pp.out(), wordwrap.String(sb.String(), pp.width()))
	_, _ = fmt.Fprintln(pp.out(), "")
}

// Reflection prints the non-empty reflection sections.
func (pp *PrettyPrint) Reflection(r entry.Reflection) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.MaxColWidth = uint(pp.width() - 16)

	bold := color.New(color.Bold)
	add := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		tbl.AddRow(bold.Sprint(label), value)
	}
	add("Intention", r.DailyIntention)
	add("Scripture", r.SOAP.Scripture)
	add("Observation", r.SOAP.Observation)
	add("Application", r.SOAP.Application)
	add("Prayer", r.SOAP.Prayer)
	add("Feeling", r.CheckIn.Feeling)
	add("Emotions", strings.Join(r.CheckIn.Emotions, ", "))
	add("Gratitude", strings.Join(r.Gratitude, "; "))
	if r.LeadershipRating > 0 {
		add("Leadership", fmt.Sprintf("%d/10", r.LeadershipRating))
	}

	pp.Title("Reflection")
	if len(tbl.Rows) == 0 {
		pp.none()
		return
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	_, _ = fmt.Fprintln(pp.out(), "")
}

// Stats prints the streak summary.
func (pp *PrettyPrint) Stats(s stats.Summary) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("Current streak", days(s.CurrentStreak))
	tbl.AddRow("Longest streak", days(s.LongestStreak))
	tbl.AddRow("Completion rate", fmt.Sprintf("%d%%", s.CompletionRate))
	tbl.AddRow("Days journaled", strconv.Itoa(s.TotalEntries))
	tbl.RightAlign(0)

	pp.Title("Stats")
	_, _ = fmt.Fprintln(pp.out(), tbl)
	_, _ = fmt.Fprintln(pp.out(), "")
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
