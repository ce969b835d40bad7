package scripture

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Memory is a Provider backed by verses held in memory, typically loaded
// from a YAML file:
//
//	version: KJV
//	verses:
//	  - {book: JHN, chapter: 1, verse: 1, text: "In the beginning..."}
type Memory struct {
	mu      sync.RWMutex
	version string
	// chapters maps "BOOK/chapter" to verses sorted by number.
	chapters map[string][]Verse
}

type memoryFile struct {
	Version string  `yaml:"version"`
	Verses  []Verse `yaml:"verses"`
}

// NewMemory builds a provider for version holding verses.
func NewMemory(version string, verses ...Verse) *Memory {
	m := &Memory{version: strings.ToUpper(strings.TrimSpace(version)), chapters: map[string][]Verse{}}
	m.Add(verses...)
	return m
}

// LoadMemory reads a YAML verse file.
func LoadMemory(path string) (*Memory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scripture: read %s: %w", path, err)
	}
	var f memoryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("scripture: parse %s: %w", path, err)
	}
	return NewMemory(f.Version, f.Verses...), nil
}

func chapterKey(book string, chapter int) string {
	return fmt.Sprintf("%s/%d", strings.ToUpper(book), chapter)
}

// Add stores verses, replacing any with the same book, chapter and number.
func (m *Memory) Add(verses ...Verse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	touched := map[string]struct{}{}
	for _, v := range verses {
		v.Book = strings.ToUpper(v.Book)
		key := chapterKey(v.Book, v.Chapter)
		list := m.chapters[key]
		replaced := false
		for i := range list {
			if list[i].Number == v.Number {
				list[i] = v
				replaced = true
				break
			}
		}
		if !replaced {
			list = append(list, v)
		}
		m.chapters[key] = list
		touched[key] = struct{}{}
	}
	for key := range touched {
		list := m.chapters[key]
		sort.Slice(list, func(i, j int) bool { return list[i].Number < list[j].Number })
	}
}

// VerseRange implements Provider. An empty version matches any.
func (m *Memory) VerseRange(_ context.Context, version, book string, chapter, start, end int) ([]Verse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if version != "" && m.version != "" && !strings.EqualFold(version, m.version) {
		return nil, fmt.Errorf("%w: version %s", ErrNotFound, version)
	}
	var out []Verse
	for _, v := range m.chapters[chapterKey(book, chapter)] {
		if v.Number < start || (end > 0 && v.Number > end) {
			continue
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s %d:%d-%d", ErrNotFound, book, chapter, start, end)
	}
	return out, nil
}
