package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Backend names a Persistence implementation.
type Backend string

const (
	BackendDiskv  Backend = "diskv"
	BackendSQLite Backend = "sqlite"
)

// Config locates the store.
type Config interface {
	BasePath() string
	Backend() Backend
}

// Settings is the full application configuration read from .daybook.yaml
// and DAYBOOK_* environment variables.
type Settings struct {
	Path             string
	Store            string
	User             string
	AutosaveDelay    time.Duration
	Plans            string
	Scripture        string
	ScriptureVersion string
	GoalResolution   string
}

// LoadConfig walks the config search path for a .daybook file and overlays
// the environment.
func LoadConfig() (*Settings, error) {
	v := viper.New()
	v.SetDefault("path", "~/.daybook.db")
	v.SetDefault("backend", string(BackendDiskv))
	v.SetDefault("user", os.Getenv("USER"))
	v.SetDefault("autosave_delay", "750ms")
	v.SetDefault("goal_resolution", "first-seen")
	v.SetConfigName(".daybook") // .yaml is implicit
	v.SetEnvPrefix("DAYBOOK")
	v.AutomaticEnv()

	if override := os.Getenv("DAYBOOK_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	s := &Settings{
		Path:             v.GetString("path"),
		Store:            v.GetString("backend"),
		User:             v.GetString("user"),
		AutosaveDelay:    v.GetDuration("autosave_delay"),
		Plans:            v.GetString("plans"),
		Scripture:        v.GetString("scripture"),
		ScriptureVersion: v.GetString("scripture_version"),
		GoalResolution:   v.GetString("goal_resolution"),
	}
	if strings.TrimSpace(s.User) == "" {
		s.User = "default"
	}
	return s, nil
}

// BasePath returns the store location with ~ expanded.
func (s *Settings) BasePath() string {
	p, err := homedir.Expand(s.Path)
	if err != nil {
		return s.Path
	}
	return p
}

// Backend returns the configured backend, defaulting to diskv.
func (s *Settings) Backend() Backend {
	b := Backend(strings.ToLower(strings.TrimSpace(s.Store)))
	if b == "" {
		return BackendDiskv
	}
	return b
}

// Load opens the Persistence described by cfg, reading the config files when
// cfg is nil.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		s, err := LoadConfig()
		if err != nil {
			return nil, err
		}
		cfg = s
	}

	basePath := cfg.BasePath()
	switch b := cfg.Backend(); b {
	case "", BackendDiskv:
		return NewDiskv(basePath), nil
	case BackendSQLite:
		if err := os.MkdirAll(basePath, 0o755); err != nil {
			return nil, fmt.Errorf("store: ensure base path: %w", err)
		}
		return OpenSQLite(filepath.Join(basePath, "daybook.sqlite"))
	default:
		return nil, fmt.Errorf("store: unknown backend %q (expected %s or %s)", b, BackendDiskv, BackendSQLite)
	}
}
