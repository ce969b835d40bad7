// Package scripture defines the port used to fetch verse text and the
// reference type reading plans are expressed in.
package scripture

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrNotFound is returned when a provider has no text for a reference.
var ErrNotFound = errors.New("scripture: passage not found")

// Verse is a single verse of text.
type Verse struct {
	Book    string `json:"book" yaml:"book"`
	Chapter int    `json:"chapter" yaml:"chapter"`
	Number  int    `json:"verse" yaml:"verse"`
	Text    string `json:"text" yaml:"text"`
}

// Provider fetches verse text. The journal stores only plan and day
// identifiers; rendering a day's passage is delegated here.
type Provider interface {
	// VerseRange returns verses start..end inclusive of one chapter. An end
	// of zero means through the end of the chapter.
	VerseRange(ctx context.Context, version, book string, chapter, start, end int) ([]Verse, error)
}

// Reference points at a chapter or a verse range within one chapter.
type Reference struct {
	Book       string `json:"book" yaml:"book"`
	Chapter    int    `json:"chapter" yaml:"chapter"`
	StartVerse int    `json:"startVerse,omitempty" yaml:"startVerse,omitempty"`
	EndVerse   int    `json:"endVerse,omitempty" yaml:"endVerse,omitempty"`
}

var referencePattern = regexp.MustCompile(`^\s*([1-3]?\s*[A-Za-z]+)\s+(\d+)(?::(\d+)(?:-(\d+))?)?\s*$`)

// ParseReference reads "JHN 3", "JHN 3:16" or "1JN 1:5-10". Book ids are
// upper-cased with inner spaces removed.
func ParseReference(raw string) (Reference, error) {
	m := referencePattern.FindStringSubmatch(raw)
	if m == nil {
		return Reference{}, fmt.Errorf("scripture: invalid reference %q", raw)
	}
	ref := Reference{Book: strings.ToUpper(strings.ReplaceAll(m[1], " ", ""))}
	ref.Chapter, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		ref.StartVerse, _ = strconv.Atoi(m[3])
		ref.EndVerse = ref.StartVerse
	}
	if m[4] != "" {
		ref.EndVerse, _ = strconv.Atoi(m[4])
	}
	if ref.Chapter < 1 || (ref.EndVerse != 0 && ref.EndVerse < ref.StartVerse) {
		return Reference{}, fmt.Errorf("scripture: invalid reference %q", raw)
	}
	return ref, nil
}

func (r Reference) String() string {
	switch {
	case r.StartVerse == 0:
		return fmt.Sprintf("%s %d", r.Book, r.Chapter)
	case r.EndVerse == r.StartVerse:
		return fmt.Sprintf("%s %d:%d", r.Book, r.Chapter, r.StartVerse)
	}
	return fmt.Sprintf("%s %d:%d-%d", r.Book, r.Chapter, r.StartVerse, r.EndVerse)
}

// Fetch asks p for the verses of r.
func Fetch(ctx context.Context, p Provider, version string, r Reference) ([]Verse, error) {
	if p == nil {
		return nil, errors.New("scripture: no provider configured")
	}
	start := r.StartVerse
	if start == 0 {
		start = 1
	}
	return p.VerseRange(ctx, version, r.Book, r.Chapter, start, r.EndVerse)
}
