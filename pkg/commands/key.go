package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/daybook/pkg/runner/key"
)

func addKey(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Print the goal and reading plan symbols",
		Example: `
daybook key
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k := key.Key{Out: out(cmd)}
			return k.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
