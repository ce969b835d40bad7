package commands

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/daybook/pkg/commands/options"
)

var userFlag string

func New() *cobra.Command {
	noColor := false

	cmd := &cobra.Command{
		Use:   "daybook",
		Short: base.Wrap80("Daily journaling on the command line: goals, reading plans, reflections and streaks."),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			fd := os.Stdout.Fd()
			if noColor || (!isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)) {
				color.NoColor = true
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output.")
	cmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "Journal owner. Defaults to the configured user.")

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addGoals(topLevel)
	addGoal(topLevel)
	addPlan(topLevel)
	addDay(topLevel)
	addStats(topLevel)
	addLog(topLevel)
	addKey(topLevel)
	addWatch(topLevel)
	addInfo(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
	addUpgrade(topLevel)
	addCompletions(topLevel)
}

// out returns the writer runners print to. Stdout goes through color.Output
// so escape codes work on every platform.
func out(cmd *cobra.Command) io.Writer {
	w := cmd.OutOrStdout()
	if w == os.Stdout {
		return color.Output
	}
	return w
}

// encoder returns a structured writer when oo asks for one, or nil.
func encoder(cmd *cobra.Command, oo *options.OutputOptions) func(any) error {
	if !oo.Structured() {
		return nil
	}
	return func(v any) error {
		return oo.Write(cmd.OutOrStdout(), v)
	}
}
