package commands

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"tableflip.dev/daybook/pkg/runner/watch"
)

func addWatch(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the journal and print a summary whenever it changes",
		Long: `Watch re-derives streaks, open goals and plan progress whenever entries in
the store change, for example when a sync tool copies in another device's files.
Only the diskv backend supports watching.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			j, err := loadJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
			defer stop()

			w := watch.Watch{App: j.App, User: j.User(), Out: out(cmd)}
			return w.Do(ctx)
		},
	}

	topLevel.AddCommand(cmd)
}
