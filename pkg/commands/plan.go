package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/daybook/pkg/commands/options"
	"tableflip.dev/daybook/pkg/readingplan"
	"tableflip.dev/daybook/pkg/runner/plan"
	"tableflip.dev/daybook/pkg/store"
)

func addPlan(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Follow a reading plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addPlanList(cmd)
	addPlanShow(cmd)
	addPlanMove(cmd, plan.Start, "Start a reading plan, resuming earlier progress", true)
	addPlanMove(cmd, plan.Switch, "Switch to another plan, pausing the current one", true)
	addPlanMove(cmd, plan.Next, "Mark today's reading done and move to the next day", false)
	addPlanMove(cmd, plan.Back, "Go back one day", false)
	addPlanMove(cmd, plan.Mark, "Mark the current day read without moving", false)
	addPlanMove(cmd, plan.Restart, "Start the current plan over from day one", false)

	topLevel.AddCommand(cmd)
}

// planCompletions completes plan ids from the configured catalog.
func planCompletions(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	catalog := readingplan.DefaultCatalog()
	if settings, err := store.LoadConfig(); err == nil {
		if c, err := readingplan.LoadCatalog(expand(settings.Plans)); err == nil {
			catalog = c
		}
	}
	ids := make([]string, 0)
	for _, p := range catalog.Plans() {
		ids = append(ids, p.ID+"\t"+p.Name)
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}

func addPlanList(parent *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the available reading plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			j, err := loadJournal()
			if err != nil {
				return oo.HandleError(err)
			}
			defer j.Close()

			s := plan.List{App: j.App, Encode: encoder(cmd, oo), Out: out(cmd)}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, oo)
	parent.AddCommand(cmd)
}

func addPlanShow(parent *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "show [plan]",
		Short: "Show progress and today's reading",
		Example: `
daybook plan show
daybook plan show john --json
`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: planCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			j, err := loadJournal()
			if err != nil {
				return oo.HandleError(err)
			}
			defer j.Close()

			s := plan.Show{App: j.App, User: j.User(), Encode: encoder(cmd, oo), Out: out(cmd)}
			if len(args) == 1 {
				s.PlanID = args[0]
			}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, oo)
	parent.AddCommand(cmd)
}

func addPlanMove(parent *cobra.Command, step plan.Step, short string, needsPlan bool) {
	on := &options.OnOptions{}

	argsFn := cobra.NoArgs
	use := string(step)
	if needsPlan {
		argsFn = cobra.ExactArgs(1)
		use += " <plan>"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  argsFn,
		RunE: func(cmd *cobra.Command, args []string) error {
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
			s := plan.Move{App: j.App, User: j.User(), On: date, Step: step, Out: out(cmd)}
			if len(args) == 1 {
				s.PlanID = args[0]
			}
			return s.Do(cmd.Context())
		},
	}
	if needsPlan {
		cmd.ValidArgsFunction = planCompletions
	}

	options.AddOnArgs(cmd, on)
	parent.AddCommand(cmd)
}
