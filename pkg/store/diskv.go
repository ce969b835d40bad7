package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/daybook/pkg/entry"
)

// NewDiskv returns a Persistence that keeps one JSON file per entry under
// basePath/<user>/<date>.
func NewDiskv(basePath string) Persistence {
	return &persistence{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			// No read cache: entry files may be rewritten underneath us by a
			// sync client, and every read must see what is on disk.
			CacheSizeMax: 0,
		}),
		basePath: basePath,
		now:      time.Now,
	}
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
	now      func() time.Time
}

func (p *persistence) read(key string) (*entry.DayEntry, error) {
	val, err := p.d.Read(key)
	if err != nil {
		return nil, err
	}
	e := entry.DayEntry{}
	if err := json.Unmarshal(val, &e); err != nil {
		return nil, err
	}
	pk := keyToPathTransform(key)
	if d, err := entry.ParseDate(pk.FileName); err == nil {
		e.Date = d
	}
	return &e, nil
}

func (p *persistence) AllEntries(ctx context.Context, user string) ([]*entry.DayEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, fail("list", user, entry.Date{}, err)
	}
	prefix := toUser(user) + "/"
	all := make([]*entry.DayEntry, 0)
	for key := range p.d.KeysPrefix(prefix, ctx.Done()) {
		e, err := p.read(key)
		if err != nil {
			// One unreadable file must not hide the rest of the journal.
			fmt.Fprintf(os.Stderr, "store: %s: %s\n", key, err)
			continue
		}
		all = append(all, e)
	}
	if err := ctx.Err(); err != nil {
		return nil, fail("list", user, entry.Date{}, err)
	}
	sortEntries(all)
	return all, nil
}

func (p *persistence) Entry(ctx context.Context, user string, date entry.Date) (*entry.DayEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, fail("get", user, date, err)
	}
	key := toKey(user, date)
	if !p.d.Has(key) {
		return nil, nil
	}
	e, err := p.read(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fail("get", user, date, err)
	}
	return e, nil
}

func (p *persistence) UpsertEntry(ctx context.Context, user string, date entry.Date, e *entry.DayEntry) (*entry.DayEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, fail("upsert", user, date, err)
	}
	if strings.TrimSpace(user) == "" {
		return nil, fail("upsert", user, date, errors.New("user required"))
	}
	out, err := prepare(date, e, entry.Timestamp{Time: p.now().UTC().Truncate(time.Second)})
	if err != nil {
		return nil, fail("upsert", user, date, err)
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fail("upsert", user, date, err)
	}
	if err := p.d.Write(toKey(user, date), data); err != nil {
		return nil, fail("upsert", user, date, err)
	}
	return out.Clone(), nil
}

func keyToPathTransform(s string) *diskv.PathKey {
	i := strings.LastIndex(s, "/")
	if i < 0 {
		return &diskv.PathKey{FileName: s}
	}
	return &diskv.PathKey{
		Path:     []string{s[:i]},
		FileName: s[i+1:],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	if len(pathKey.Path) == 0 {
		return pathKey.FileName
	}
	return fmt.Sprintf("%s/%s", strings.Join(pathKey.Path, "/"), pathKey.FileName)
}

// toKey makes `user/date`.
func toKey(user string, date entry.Date) string {
	return fmt.Sprintf("%s/%s", toUser(user), date.String())
}

// User names are URL-safe base64 encoded so they are valid directory names
// and never contain the key separator.
func toUser(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func fromUser(s string) string {
	user, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return ""
	}
	return string(user)
}
