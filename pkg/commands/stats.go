package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/daybook/pkg/commands/options"
	"tableflip.dev/daybook/pkg/runner/stats"
)

func addStats(topLevel *cobra.Command) {
	on := &options.OnOptions{}
	oo := &options.OutputOptions{}
	calendar := false

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show journaling streaks and completion rate",
		Example: `
daybook stats
daybook stats --calendar
daybook stats --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			j, err := loadJournal()
			if err != nil {
				return oo.HandleError(err)
			}
			defer j.Close()

			date, err := on.GetOn(j.App.Today())
			if err != nil {
				return oo.HandleError(err)
			}
			s := stats.Stats{
				App:      j.App,
				User:     j.User(),
				On:       date,
				Calendar: calendar,
				Encode:   encoder(cmd, oo),
				Out:      out(cmd),
			}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddOnArgs(cmd, on)
	options.AddOutputArg(cmd, oo)
	cmd.Flags().BoolVarP(&calendar, "calendar", "c", false, "Show a month calendar of journaled days.")

	topLevel.AddCommand(cmd)
}
