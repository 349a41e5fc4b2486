package cli

import (
	"github.com/pion/podlock/internal/show"
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	opts := show.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "show [name...]",
		Short: "Print locked pods, or pinned declarations for the named dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose = persistentBool(cmd, "verbose")
			opts.Out = cmd.OutOrStdout()
			if len(args) > 0 {
				opts.Pin = append(opts.Pin, args...)
			}

			return show.Run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.LockPath, "lock", opts.LockPath, "path to the lock file")
	cmd.Flags().StringSliceVar(&opts.Pin, "pin", nil, "comma-separated dependencies to pin (may repeat)")

	return cmd
}
