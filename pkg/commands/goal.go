package commands

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/daybook/pkg/app"
	"tableflip.dev/daybook/pkg/commands/options"
	"tableflip.dev/daybook/pkg/entry"
	"tableflip.dev/daybook/pkg/runner/goal"
)

func addGoal(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Add, complete or remove goals",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addGoalAdd(cmd)
	addGoalRef(cmd, goal.Done, []string{"complete"}, "Mark a goal completed")
	addGoalRef(cmd, goal.Undo, []string{"reopen"}, "Mark a goal open again")
	addGoalRef(cmd, goal.Remove, []string{"delete"}, "Delete a goal so it does not come back from earlier days")
	addGoalCarry(cmd)

	topLevel.AddCommand(cmd)
}

func runGoal(cmd *cobra.Command, on *options.OnOptions, g goal.Goal) error {
	cmd.SilenceUsage = true
	j, err := loadJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	g.On, err = on.GetOn(j.App.Today())
	if err != nil {
		return err
	}
	g.App = j.App
	g.User = j.User()
	g.Out = out(cmd)
	return g.Do(cmd.Context())
}

func addGoalAdd(parent *cobra.Command) {
	on := &options.OnOptions{}
	gop := &options.GoalOptions{}
	showID := false

	cmd := &cobra.Command{
		Use:   "add <daily|weekly|monthly> <text>",
		Short: "Add a goal",
		Example: `
daybook goal add daily read for 20 minutes
daybook goal add weekly call mom --priority high --category personal
`,
		Args:              cobra.MinimumNArgs(2),
		ValidArgsFunction: options.KindCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := entry.ParseKind(args[0])
			if err != nil {
				return err
			}
			priority, category, err := gop.Parse()
			if err != nil {
				return err
			}
			return runGoal(cmd, on, goal.Goal{
				Kind:     kind,
				Action:   goal.Add,
				Text:     strings.Join(args[1:], " "),
				Priority: priority,
				Category: category,
				ShowID:   showID,
			})
		},
	}

	options.AddOnArgs(cmd, on)
	options.AddGoalArgs(cmd, gop)
	cmd.Flags().BoolVarP(&showID, "show-id", "k", false, "Show goal ids.")
	parent.AddCommand(cmd)
}

func addGoalRef(parent *cobra.Command, action goal.Action, aliases []string, short string) {
	on := &options.OnOptions{}

	cmd := &cobra.Command{
		Use:     string(action) + " <daily|weekly|monthly> <goal id>",
		Aliases: aliases,
		Short:   short,
		Example: `
daybook goal ` + string(action) + ` daily 3f2a
`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("requires a goal kind and a goal id")
			}
			return nil
		},
		ValidArgsFunction: options.KindCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := entry.ParseKind(args[0])
			if err != nil {
				return err
			}
			return runGoal(cmd, on, goal.Goal{
				Kind:   kind,
				Action: action,
				Ref:    args[1],
				ShowID: true,
			})
		},
	}

	options.AddOnArgs(cmd, on)
	parent.AddCommand(cmd)
}

func addGoalCarry(parent *cobra.Command) {
	on := &options.OnOptions{}
	days := app.DefaultCarryOverDays

	cmd := &cobra.Command{
		Use:   "carry",
		Short: "Copy unfinished daily goals from the last journaled day",
		Example: `
daybook goal carry
daybook goal carry --days 3
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGoal(cmd, on, goal.Goal{
				Action: goal.Carry,
				Days:   days,
			})
		},
	}

	options.AddOnArgs(cmd, on)
	cmd.Flags().IntVar(&days, "days", days, "How many days back to look for unfinished goals.")
	parent.AddCommand(cmd)
}
