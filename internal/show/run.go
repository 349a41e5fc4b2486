// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package show

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pion/podlock/internal/podlock"
)

func Run(ctx context.Context, opts Options) error {
	opts = opts.WithDefaults()
	if opts.LockPath == "" {
		return errMissingLockPath
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	lock, err := podlock.LoadWithOptions(opts.LockPath, podlock.Options{
		LoggerFactory: podlock.NewLoggerFactory(opts.Verbose),
	})
	if err != nil {
		return fmt.Errorf("show: %w", err)
	}
	if lock == nil {
		return fmt.Errorf("%w: %s", errMissingLock, opts.LockPath)
	}

	if names := podlock.SplitAndTrim(opts.Pin); len(names) > 0 {
		return printPinned(opts.Out, lock, names)
	}

	return printPods(opts.Out, lock)
}

func printPinned(w io.Writer, lock *podlock.Lockfile, names []string) error {
	for _, name := range names {
		dep, err := lock.DependencyToLockPodNamed(name)
		if err != nil {
			return fmt.Errorf("show: %w", err)
		}
		if _, err := fmt.Fprintln(w, dep.String()); err != nil {
			return fmt.Errorf("show: write output: %w", err)
		}
	}

	return nil
}

func printPods(w io.Writer, lock *podlock.Lockfile) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "# %s %s\n", podlock.KeyVersion, lock.ToolVersion())
	fmt.Fprintln(tw, "NAME\tVERSION\tCHECKSUM")

	versions := lock.PodVersions()
	for _, name := range lock.PodNames() {
		sum, ok := lock.Checksum(podlock.RootName(name))
		if !ok {
			sum = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, versions[name], sum)
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("show: write output: %w", err)
	}

	return nil
}
