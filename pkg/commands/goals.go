package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/daybook/pkg/commands/options"
	"tableflip.dev/daybook/pkg/runner/goals"
)

func addGoals(topLevel *cobra.Command) {
	on := &options.OnOptions{}
	oo := &options.OutputOptions{}
	showID := false

	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Show the daily, weekly and monthly goals for a day",
		Example: `
daybook goals
daybook goals --on yesterday --show-id
daybook goals --json
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
			s := goals.Goals{
				App:    j.App,
				User:   j.User(),
				On:     date,
				ShowID: showID,
				Encode: encoder(cmd, oo),
				Out:    out(cmd),
			}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddOnArgs(cmd, on)
	options.AddOutputArg(cmd, oo)
	cmd.Flags().BoolVarP(&showID, "show-id", "k", false, "Show goal ids.")

	topLevel.AddCommand(cmd)
}
