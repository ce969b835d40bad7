package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/daybook/pkg/commands/options"
	"tableflip.dev/daybook/pkg/runner/log"
	"tableflip.dev/daybook/pkg/timeutil"
)

func addLog(topLevel *cobra.Command) {
	lo := &options.LogOptions{}
	on := &options.OnOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Review recent days",
		Long: `Log lists each journaled day in the span ending on --on (today by default)
with its section count, goal progress and reading plan day.`,
		Example: `
daybook log
daybook log --last 3d
daybook log --last 1w2d --calendar
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			days, label, err := timeutil.ParseSpan(lo.Last)
			if err != nil {
				return oo.HandleError(err)
			}

			j, err := loadJournal()
			if err != nil {
				return oo.HandleError(err)
			}
			defer j.Close()

			until, err := on.GetOn(j.App.Today())
			if err != nil {
				return oo.HandleError(err)
			}
			s := log.Log{
				App:      j.App,
				User:     j.User(),
				Until:    until,
				Days:     days,
				Label:    label,
				Calendar: lo.Calendar,
				Encode:   encoder(cmd, oo),
				Out:      out(cmd),
			}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddLogArgs(cmd, lo)
	options.AddOnArgs(cmd, on)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
