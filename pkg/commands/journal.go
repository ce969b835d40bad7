package commands

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"

	"tableflip.dev/daybook/pkg/app"
	"tableflip.dev/daybook/pkg/goals"
	"tableflip.dev/daybook/pkg/readingplan"
	"tableflip.dev/daybook/pkg/scripture"
	"tableflip.dev/daybook/pkg/store"
)

// journal is the configured core plus the settings it was built from.
type journal struct {
	App      *app.Service
	Settings *store.Settings
}

// User is the --user flag, or the configured user.
func (j *journal) User() string {
	if u := strings.TrimSpace(userFlag); u != "" {
		return u
	}
	return j.Settings.User
}

// Close releases the persistence when it holds resources.
func (j *journal) Close() error {
	if c, ok := j.App.Persistence.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// loadJournal builds the journal from .daybook.yaml and DAYBOOK_* variables.
func loadJournal() (*journal, error) {
	settings, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	return openJournal(settings)
}

func openJournal(settings *store.Settings) (*journal, error) {
	resolution, err := goals.ParseResolution(settings.GoalResolution)
	if err != nil {
		return nil, err
	}
	catalog, err := readingplan.LoadCatalog(expand(settings.Plans))
	if err != nil {
		return nil, err
	}
	p, err := store.Load(settings)
	if err != nil {
		return nil, err
	}

	logger := log.New(os.Stderr, "daybook: ", 0)
	svc := &app.Service{
		Persistence:      p,
		Catalog:          catalog,
		Goals:            goals.Aggregator{Log: logger, Resolution: resolution},
		AutosaveDelay:    settings.AutosaveDelay,
		Log:              logger,
		ScriptureVersion: settings.ScriptureVersion,
	}
	if settings.Scripture != "" {
		m, err := scripture.LoadMemory(expand(settings.Scripture))
		if err != nil {
			if c, ok := p.(io.Closer); ok {
				_ = c.Close()
			}
			return nil, fmt.Errorf("load scripture: %w", err)
		}
		svc.Scripture = m
	}
	return &journal{App: svc, Settings: settings}, nil
}

func expand(path string) string {
	if path == "" {
		return ""
	}
	p, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return p
}
