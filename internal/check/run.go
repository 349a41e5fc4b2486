// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package check

import (
	"context"
	"fmt"
	"io"

	"github.com/pion/podlock/internal/podlock"
)

func Run(ctx context.Context, opts Options) error {
	opts = opts.WithDefaults()
	if opts.ManifestPath == "" {
		return errMissingManifestPath
	}
	if opts.LockPath == "" {
		return errMissingLockPath
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	factory := podlock.NewLoggerFactory(opts.Verbose)
	log := factory.NewLogger("check")

	manifest, err := podlock.ReadManifest(opts.ManifestPath)
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}
	lock, err := podlock.LoadWithOptions(opts.LockPath, podlock.Options{LoggerFactory: factory})
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}
	if lock == nil {
		log.Infof("no lock file at %s, every dependency is new", opts.LockPath)
	}

	changes, err := podlock.DetectChanges(lock, manifest, podlock.DiffOptions{})
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}
	if err := printChanges(opts.Out, changes, opts.Verbose); err != nil {
		return err
	}

	if opts.Strict && !changes.Empty() {
		return fmt.Errorf("%w: %d added, %d changed, %d removed",
			ErrOutOfDate, len(changes.Added), len(changes.Changed), len(changes.Removed))
	}

	return nil
}

type bucket struct {
	label string
	names []string
}

// printChanges writes one line per dependency. Unchanged dependencies are
// only listed when verbose.
func printChanges(w io.Writer, changes podlock.Changes, verbose bool) error {
	buckets := []bucket{
		{"added", changes.Added},
		{"changed", changes.Changed},
		{"removed", changes.Removed},
	}
	if verbose {
		buckets = append(buckets, bucket{"unchanged", changes.Unchanged})
	}

	for _, b := range buckets {
		for _, name := range b.names {
			if _, err := fmt.Fprintf(w, "%-9s %s\n", b.label, name); err != nil {
				return fmt.Errorf("check: write output: %w", err)
			}
		}
	}

	return nil
}
