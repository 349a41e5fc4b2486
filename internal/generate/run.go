// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package generate

import (
	"context"
	"fmt"

	"github.com/pion/podlock/internal/podlock"
)

func validateOptions(opts Options) error {
	if opts.ManifestPath == "" {
		return errMissingManifestPath
	}
	if opts.ResolutionPath == "" {
		return errMissingResolutionPath
	}
	if opts.LockPath == "" {
		return errMissingLockPath
	}

	return nil
}

// Run generates a lock file. Nothing is written when the existing lock file
// already holds the same record.
func Run(ctx context.Context, opts Options) error {
	opts = opts.WithDefaults()
	if err := validateOptions(opts); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	factory := podlock.NewLoggerFactory(opts.Verbose)
	log := factory.NewLogger("generate")
	lockOpts := podlock.Options{
		ToolVersion:   opts.ToolVersion,
		LoggerFactory: factory,
	}

	manifest, err := podlock.ReadManifest(opts.ManifestPath)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	specs, err := podlock.ReadResolution(opts.ResolutionPath)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	lock, err := podlock.Generate(manifest, specs, lockOpts)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	if opts.DryRun {
		raw, err := podlock.Encode(lock.Data())
		if err != nil {
			return fmt.Errorf("generate: %w", err)
		}
		if _, err := opts.Out.Write(raw); err != nil {
			return fmt.Errorf("generate: write output: %w", err)
		}

		return nil
	}

	previous, err := podlock.LoadWithOptions(opts.LockPath, lockOpts)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	if previous.Equal(lock) {
		log.Infof("%s is up to date", opts.LockPath)

		return nil
	}

	if err := lock.Write(opts.LockPath); err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	log.Infof("wrote %s", lock.Path())

	return nil
}
