package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"tableflip.dev/daybook/pkg/entry"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema
// 1 - Index on (user_id, updated_at) for sync diagnostics
const currentSchemaVersion = 1

// SQLite is a Persistence backed by a single SQLite database file.
// Documents are stored as JSON text, keyed by (user_id, date).
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite creates or opens the database at path, applying pragmas and
// migrations. Safe to call repeatedly on the same file.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: connect to database: %w", err)
	}

	// SQLite only supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply pragmas: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &SQLite{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version < 1 {
		if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_entries_user_updated ON entries(user_id, updated_at)`); err != nil {
			return fmt.Errorf("migrate to v1: %w", err)
		}
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

func (s *SQLite) AllEntries(ctx context.Context, user string) ([]*entry.DayEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, document FROM entries WHERE user_id = ? ORDER BY date`, user)
	if err != nil {
		return nil, fail("list", user, entry.Date{}, err)
	}
	defer rows.Close()

	all := make([]*entry.DayEntry, 0)
	for rows.Next() {
		var date, doc string
		if err := rows.Scan(&date, &doc); err != nil {
			return nil, fail("list", user, entry.Date{}, err)
		}
		e, err := decodeRow(date, doc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "store: %s/%s: %s\n", user, date, err)
			continue
		}
		all = append(all, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fail("list", user, entry.Date{}, err)
	}
	return all, nil
}

func (s *SQLite) Entry(ctx context.Context, user string, date entry.Date) (*entry.DayEntry, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM entries WHERE user_id = ? AND date = ?`, user, date.String()).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fail("get", user, date, err)
	}
	e, err := decodeRow(date.String(), doc)
	if err != nil {
		return nil, fail("get", user, date, err)
	}
	return e, nil
}

func (s *SQLite) UpsertEntry(ctx context.Context, user string, date entry.Date, e *entry.DayEntry) (*entry.DayEntry, error) {
	if strings.TrimSpace(user) == "" {
		return nil, fail("upsert", user, date, errors.New("user required"))
	}
	out, err := prepare(date, e, entry.Timestamp{Time: s.now().UTC().Truncate(time.Second)})
	if err != nil {
		return nil, fail("upsert", user, date, err)
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fail("upsert", user, date, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO entries (user_id, date, document, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, date) DO UPDATE SET
			document = excluded.document,
			updated_at = excluded.updated_at`,
		user, date.String(), string(data), out.UpdatedAt.String())
	if err != nil {
		return nil, fail("upsert", user, date, err)
	}
	return out.Clone(), nil
}

func decodeRow(date, doc string) (*entry.DayEntry, error) {
	e := entry.DayEntry{}
	if err := json.Unmarshal([]byte(doc), &e); err != nil {
		return nil, err
	}
	if d, err := entry.ParseDate(date); err == nil {
		e.Date = d
	}
	return &e, nil
}
