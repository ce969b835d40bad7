package options

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/daybook/pkg/entry"
)

// GoalOptions
type GoalOptions struct {
	Priority string
	Category string
}

func AddGoalArgs(cmd *cobra.Command, o *GoalOptions) {
	cmd.Flags().StringVarP(&o.Priority, "priority", "p", string(entry.PriorityMedium),
		"Goal priority: low, medium or high.")
	cmd.Flags().StringVar(&o.Category, "category", string(entry.CategoryPersonal),
		"Goal category: "+joinCategories()+".")
	_ = cmd.RegisterFlagCompletionFunc("priority", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		out := make([]string, 0, 3)
		for _, p := range entry.AllPriorities() {
			out = append(out, string(p))
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("category", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return categories(), cobra.ShellCompDirectiveNoFileComp
	})
}

func categories() []string {
	out := make([]string, 0, 5)
	for _, c := range entry.AllCategories() {
		out = append(out, string(c))
	}
	return out
}

func joinCategories() string {
	return strings.Join(categories(), ", ")
}

// Parse validates the flags.
func (o *GoalOptions) Parse() (entry.Priority, entry.Category, error) {
	p, err := entry.ParsePriority(o.Priority)
	if err != nil {
		return "", "", err
	}
	c, err := entry.ParseCategory(o.Category)
	if err != nil {
		return "", "", err
	}
	return p, c, nil
}

// KindCompletions completes the goal kind argument.
func KindCompletions(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	out := make([]string, 0, 3)
	for _, k := range entry.AllKinds() {
		out = append(out, string(k))
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
