package cli

import (
	"github.com/pion/podlock/internal/generate"
	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	opts := generate.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a lock file from a manifest and a resolution",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose = persistentBool(cmd, "verbose")
			opts.DryRun = persistentBool(cmd, "dry-run")
			opts.Out = cmd.OutOrStdout()

			return generate.Run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.ManifestPath, "manifest", opts.ManifestPath, "path to the manifest YAML")
	cmd.Flags().StringVar(
		&opts.ResolutionPath,
		"resolution",
		opts.ResolutionPath,
		"path to the resolved specifications YAML",
	)
	cmd.Flags().StringVar(&opts.LockPath, "lock", opts.LockPath, "path to the lock file to write")

	return cmd
}
