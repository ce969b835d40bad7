package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tableflip.dev/daybook/pkg/entry"
)

func backends(t *testing.T) map[string]Persistence {
	t.Helper()
	sq, err := OpenSQLite(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { sq.Close() })
	return map[string]Persistence{
		"diskv":  NewDiskv(t.TempDir()),
		"sqlite": sq,
	}
}

func sample(date string) *entry.DayEntry {
	e := entry.New(entry.MustDate(date))
	e.Goals.Weekly = []entry.Goal{{ID: "w1", Text: "Pray more", Priority: entry.PriorityHigh, Category: entry.CategorySpiritual}}
	e.DeletedGoalIDs = []entry.ID{"z", "a", "z"}
	e.ReadingPlan = &entry.Progress{PlanID: "john", PlanName: "John", CurrentDay: 3, TotalDays: 21,
		StartDate: entry.MustDate("2024-01-01"), CompletedDays: entry.NewDaySet(1, 2)}
	e.DailyIntention = "Listen first"
	return e
}

func TestPersistenceRoundTrip(t *testing.T) {
	for name, p := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			date := entry.MustDate("2024-01-03")

			got, err := p.Entry(ctx, "alice", date)
			if err != nil {
				t.Fatalf("get missing: %v", err)
			}
			if got != nil {
				t.Fatalf("expected nil for missing entry, got %+v", got)
			}

			stored, err := p.UpsertEntry(ctx, "alice", date, sample("2024-01-03"))
			if err != nil {
				t.Fatalf("upsert: %v", err)
			}
			if stored.UpdatedAt.IsZero() {
				t.Fatalf("expected updatedAt to be stamped")
			}
			if len(stored.DeletedGoalIDs) != 2 || stored.DeletedGoalIDs[0] != "a" {
				t.Fatalf("expected sorted unique tombstones, got %v", stored.DeletedGoalIDs)
			}

			got, err = p.Entry(ctx, "alice", date)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if got == nil || got.Date != date {
				t.Fatalf("expected entry for %v, got %+v", date, got)
			}
			if got.Goals.Weekly[0].ID != "w1" || got.Goals.Weekly[0].Priority != entry.PriorityHigh {
				t.Fatalf("unexpected goals %+v", got.Goals)
			}
			if got.ReadingPlan == nil || len(got.ReadingPlan.CompletedDays) != 2 {
				t.Fatalf("unexpected plan %+v", got.ReadingPlan)
			}
			if got.DailyIntention != "Listen first" {
				t.Fatalf("expected reflection fields to survive, got %q", got.DailyIntention)
			}
		})
	}
}

func TestPersistenceUpsertReplacesDocument(t *testing.T) {
	for name, p := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			date := entry.MustDate("2024-01-03")
			if _, err := p.UpsertEntry(ctx, "alice", date, sample("2024-01-03")); err != nil {
				t.Fatalf("upsert: %v", err)
			}
			if _, err := p.UpsertEntry(ctx, "alice", date, entry.New(date)); err != nil {
				t.Fatalf("second upsert: %v", err)
			}
			got, err := p.Entry(ctx, "alice", date)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if got.Goals.Len() != 0 || got.ReadingPlan != nil || len(got.DeletedGoalIDs) != 0 {
				t.Fatalf("expected full replace, got %+v", got)
			}
		})
	}
}

func TestPersistenceAllEntriesIsPerUserAndSorted(t *testing.T) {
	for name, p := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, d := range []string{"2024-01-05", "2024-01-01", "2024-01-03"} {
				if _, err := p.UpsertEntry(ctx, "alice", entry.MustDate(d), sample(d)); err != nil {
					t.Fatalf("upsert %s: %v", d, err)
				}
			}
			if _, err := p.UpsertEntry(ctx, "bob/with slash", entry.MustDate("2024-01-02"), sample("2024-01-02")); err != nil {
				t.Fatalf("upsert bob: %v", err)
			}

			all, err := p.AllEntries(ctx, "alice")
			if err != nil {
				t.Fatalf("all: %v", err)
			}
			if len(all) != 3 {
				t.Fatalf("expected 3 entries, got %d", len(all))
			}
			for i, want := range []string{"2024-01-01", "2024-01-03", "2024-01-05"} {
				if all[i].Date != entry.MustDate(want) {
					t.Fatalf("entry %d: expected %s, got %v", i, want, all[i].Date)
				}
			}

			bob, err := p.AllEntries(ctx, "bob/with slash")
			if err != nil {
				t.Fatalf("all bob: %v", err)
			}
			if len(bob) != 1 {
				t.Fatalf("expected 1 entry for bob, got %d", len(bob))
			}

			none, err := p.AllEntries(ctx, "carol")
			if err != nil {
				t.Fatalf("all carol: %v", err)
			}
			if len(none) != 0 {
				t.Fatalf("expected no entries for carol, got %d", len(none))
			}
		})
	}
}

func TestPersistenceRejectsInvalidWrites(t *testing.T) {
	for name, p := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, err := p.UpsertEntry(ctx, "", entry.MustDate("2024-01-01"), entry.New(entry.MustDate("2024-01-01")))
			var se *Error
			if !errors.As(err, &se) {
				t.Fatalf("expected *store.Error, got %v", err)
			}
			if se.Op != "upsert" {
				t.Fatalf("expected op upsert, got %q", se.Op)
			}
			if _, err := p.UpsertEntry(ctx, "alice", entry.Date{}, entry.New(entry.Date{})); !errors.Is(err, entry.ErrInvalidDate) {
				t.Fatalf("expected ErrInvalidDate, got %v", err)
			}
		})
	}
}

func TestDiskvSeesExternalRewrites(t *testing.T) {
	base := t.TempDir()
	p := NewDiskv(base)
	ctx := context.Background()
	date := entry.MustDate("2024-01-03")
	if _, err := p.UpsertEntry(ctx, "alice", date, sample("2024-01-03")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := p.Entry(ctx, "alice", date); err != nil {
		t.Fatalf("warm read: %v", err)
	}

	// Simulate a sync client replacing the file.
	path := filepath.Join(base, toUser("alice"), date.String())
	body := `{"date":"2024-01-03","goals":{"daily":[],"weekly":[],"monthly":[]},"deletedGoalIds":["w1"],"readingPlan":null}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	got, err := p.Entry(ctx, "alice", date)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Goals.Weekly) != 0 || len(got.DeletedGoalIDs) != 1 {
		t.Fatalf("expected rewritten document, got %+v", got)
	}
}

func TestDiskvSkipsCorruptFiles(t *testing.T) {
	base := t.TempDir()
	p := NewDiskv(base)
	ctx := context.Background()
	if _, err := p.UpsertEntry(ctx, "alice", entry.MustDate("2024-01-03"), sample("2024-01-03")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	bad := filepath.Join(base, toUser("alice"), "2024-01-04")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt: %v", err)
	}
	all, err := p.AllEntries(ctx, "alice")
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected corrupt file to be skipped, got %d entries", len(all))
	}
}

func TestDiskvHonoursCancelledContext(t *testing.T) {
	p := NewDiskv(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.AllEntries(ctx, "alice")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestOpenSQLiteIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.sqlite")
	for i := 0; i < 3; i++ {
		s, err := OpenSQLite(path)
		if err != nil {
			t.Fatalf("OpenSQLite() iteration %d failed: %v", i, err)
		}
		var version int
		if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
			t.Fatalf("user_version: %v", err)
		}
		if version != currentSchemaVersion {
			t.Fatalf("expected schema version %d, got %d", currentSchemaVersion, version)
		}
		s.Close()
	}
}

func TestLoadSelectsBackend(t *testing.T) {
	p, err := Load(testConfig{path: t.TempDir(), backend: BackendSQLite})
	if err != nil {
		t.Fatalf("load sqlite: %v", err)
	}
	sq, ok := p.(*SQLite)
	if !ok {
		t.Fatalf("expected *SQLite, got %T", p)
	}
	sq.Close()

	if _, err := Load(testConfig{path: t.TempDir(), backend: "mongo"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestLoadConfigFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	body := "path: " + filepath.Join(dir, "journal") + "\nbackend: sqlite\nautosave_delay: 2s\n"
	if err := os.WriteFile(filepath.Join(dir, ".daybook.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("DAYBOOK_CONFIG_PATH", dir)
	t.Setenv("DAYBOOK_USER", "alice")

	s, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if s.Backend() != BackendSQLite {
		t.Fatalf("expected sqlite backend, got %q", s.Backend())
	}
	if s.User != "alice" {
		t.Fatalf("expected user from env, got %q", s.User)
	}
	if s.AutosaveDelay != 2*time.Second {
		t.Fatalf("expected 2s autosave delay, got %v", s.AutosaveDelay)
	}
	if s.BasePath() != filepath.Join(dir, "journal") {
		t.Fatalf("unexpected base path %q", s.BasePath())
	}
}
