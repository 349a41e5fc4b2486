package cli

import (
	"github.com/pion/podlock/internal/check"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	opts := check.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report dependencies added, changed or removed since the lock file was written",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose = persistentBool(cmd, "verbose")
			opts.Out = cmd.OutOrStdout()

			return check.Run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.ManifestPath, "manifest", opts.ManifestPath, "path to the manifest YAML")
	cmd.Flags().StringVar(&opts.LockPath, "lock", opts.LockPath, "path to the lock file")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail when anything was added, changed or removed")

	return cmd
}
