// Package info reports where the journal is configured and stored.
package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"tableflip.dev/daybook/pkg/app"
	"tableflip.dev/daybook/pkg/store"
)

type Info struct {
	Settings *store.Settings
	App      *app.Service
	Out      io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	w := n.Out
	if w == nil {
		w = color.Output
	}

	if override := os.Getenv("DAYBOOK_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(w, "DAYBOOK_CONFIG_PATH found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(w, "DAYBOOK_CONFIG_PATH env var not set")
	}

	if n.Settings == nil {
		var err error
		n.Settings, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintln(w, "Config.path:    ", n.Settings.BasePath())
	_, _ = fmt.Fprintln(w, "Config.backend: ", n.Settings.Backend())
	_, _ = fmt.Fprintln(w, "Config.user:    ", n.Settings.User)
	_, _ = fmt.Fprintln(w, "Config.autosave:", n.Settings.AutosaveDelay)
	if n.Settings.Plans != "" {
		_, _ = fmt.Fprintln(w, "Config.plans:   ", n.Settings.Plans)
	}
	if n.Settings.Scripture != "" {
		_, _ = fmt.Fprintln(w, "Config.scripture:", n.Settings.Scripture)
	}

	if n.App == nil {
		return fmt.Errorf("failed to open the journal")
	}
	all, err := n.App.Entries(ctx, n.Settings.User)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Entries for %s: %d\n", n.Settings.User, len(all))
	if len(all) > 0 {
		_, _ = fmt.Fprintf(w, "  first %s, last %s\n", all[0].Date, all[len(all)-1].Date)
	}
	return nil
}
