package key

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestKeyListsBulletsBeforePriorities(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	k := Key{Out: &buf}
	if err := k.Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	order := []string{"Bullets", "goal completed", "reading plan day read", "Priority", "high priority", "low priority"}
	last := -1
	for _, want := range order {
		i := strings.Index(out, want)
		if i < 0 {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
		if i < last {
			t.Fatalf("%q out of order in:\n%s", want, out)
		}
		last = i
	}
	if strings.Contains(out, "any") {
		t.Errorf("unprinted glyph in legend:\n%s", out)
	}
}
