// Package options defines shared flag helpers for CLI commands.
package options

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/daybook/pkg/entry"
)

const (
	layoutISO      = "2006-1-2"
	layoutISOShort = "1/2"
)

// OnOptions selects the day a command works on.
type OnOptions struct {
	OnString string
}

func AddOnArgs(cmd *cobra.Command, o *OnOptions) {
	cmd.Flags().StringVar(&o.OnString, "on", "",
		`Specify a date, example: --on="2020-2-28", --on="2/28" or --on=yesterday.`)
}

// GetOn resolves the flag against today. An empty flag is today.
func (o *OnOptions) GetOn(today entry.Date) (entry.Date, error) {
	raw := strings.ToLower(strings.TrimSpace(o.OnString))
	switch raw {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDays(-1), nil
	case "tomorrow":
		return today.AddDays(1), nil
	}

	t, err := time.Parse(layoutISO, raw)
	if err == nil {
		return entry.DateOf(t), nil
	}
	t, err = time.Parse(layoutISOShort, raw)
	if err != nil {
		return entry.Date{}, entry.ErrInvalidDate
	}
	d := entry.NewDate(today.Year, t.Month(), t.Day())
	// A month/day later than today means last year's date.
	if d.After(today) {
		d = entry.NewDate(today.Year-1, t.Month(), t.Day())
	}
	return d, nil
}
