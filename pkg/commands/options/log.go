package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/daybook/pkg/timeutil"
)

// LogOptions
type LogOptions struct {
	Last     string
	Calendar bool
}

func AddLogArgs(cmd *cobra.Command, o *LogOptions) {
	cmd.Flags().StringVar(&o.Last, "last", timeutil.DefaultSpan,
		"Span of days to include, for example 3d, 2w or 1w2d.")
	cmd.Flags().BoolVarP(&o.Calendar, "calendar", "c", false,
		"Show a month calendar of journaled days.")
}
