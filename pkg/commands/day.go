package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/daybook/pkg/commands/options"
	"tableflip.dev/daybook/pkg/runner/day"
)

func addDay(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "day",
		Short: "Show or write a day's reflection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addDaySet(cmd)
	addDayShow(cmd)

	topLevel.AddCommand(cmd)
}

func addDaySet(parent *cobra.Command) {
	on := &options.OnOptions{}
	var (
		intention, feeling                          string
		scripture, observation, application, prayer string
		gratitude, emotions                         []string
		leadership                                  int
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Write reflection sections for a day",
		Example: `
daybook day set --intention "listen more than I talk"
daybook day set --gratitude coffee --gratitude "a quiet morning" --feeling calm
daybook day set --scripture "JHN 3:16" --observation "..." --on yesterday
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			j, err := loadJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			date, err := on.GetOn(j.App.Today())
			if err != nil {
				return err
			}
			s := day.Set{App: j.App, User: j.User(), On: date, Out: out(cmd)}
			flags := cmd.Flags()
			str := func(name string, v *string) *string {
				if flags.Changed(name) {
					return v
				}
				return nil
			}
			s.Intention = str("intention", &intention)
			s.Feeling = str("feeling", &feeling)
			s.Scripture = str("scripture", &scripture)
			s.Observation = str("observation", &observation)
			s.Application = str("application", &application)
			s.Prayer = str("prayer", &prayer)
			if flags.Changed("gratitude") {
				s.Gratitude = gratitude
			}
			if flags.Changed("emotion") {
				s.Emotions = emotions
			}
			if flags.Changed("leadership") {
				s.Leadership = &leadership
			}
			return s.Do(cmd.Context())
		},
	}

	options.AddOnArgs(cmd, on)
	f := cmd.Flags()
	f.StringVar(&intention, "intention", "", "Daily intention.")
	f.StringArrayVarP(&gratitude, "gratitude", "g", nil, "Something you are grateful for. Repeat for more.")
	f.StringVar(&feeling, "feeling", "", "How you feel today.")
	f.StringArrayVar(&emotions, "emotion", nil, "An emotion for the check-in. Repeat for more.")
	f.IntVar(&leadership, "leadership", 0, "Leadership self-rating, 0 to 10.")
	f.StringVar(&scripture, "scripture", "", "SOAP: the passage studied.")
	f.StringVar(&observation, "observation", "", "SOAP: what the passage says.")
	f.StringVar(&application, "application", "", "SOAP: how it applies today.")
	f.StringVar(&prayer, "prayer", "", "SOAP: prayer.")

	parent.AddCommand(cmd)
}

func addDayShow(parent *cobra.Command) {
	on := &options.OnOptions{}
	oo := &options.OutputOptions{}
	showID := false

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the stored entry for a day",
		Args:  cobra.NoArgs,
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
			s := day.Show{App: j.App, User: j.User(), On: date, ShowID: showID, Encode: encoder(cmd, oo), Out: out(cmd)}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddOnArgs(cmd, on)
	options.AddOutputArg(cmd, oo)
	cmd.Flags().BoolVarP(&showID, "show-id", "k", false, "Show goal ids.")
	parent.AddCommand(cmd)
}
