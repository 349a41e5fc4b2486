// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/pion/podlock/internal/podlock"
	"github.com/spf13/cobra"
)

func Execute(args []string) error {
	root := newRootCmd()
	root.SetArgs(args)
	ctx := context.Background()

	if err := root.ExecuteContext(ctx); err != nil {
		return err
	}

	return nil
}

func PrintError(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "podlock",
		Short: "podlock records resolved dependency graphs in a lock file",
		Long: `podlock writes a reproducible lock file from a manifest and a resolved
dependency list, and reports which dependencies changed since it was written.`,
		Version:       podlock.ToolVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose logging")
	cmd.PersistentFlags().Bool("dry-run", false, "show actions without writing results")

	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newShowCmd())

	return cmd
}

// persistentBool reads a root flag; unknown flags read as false.
func persistentBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false
	}

	return v
}
